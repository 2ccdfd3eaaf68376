// Package seo builds the search-engine documents of the site: page metadata
// for <head>, JSON-LD structured data, robots.txt and sitemap.xml. Every
// builder is a pure function of the site profile and its arguments.
package seo

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/dalemusser/starterkit/internal/app/system/siteconfig"
)

// MaxDescriptionLength is the longest description emitted in metadata.
const MaxDescriptionLength = 160

const defaultTitleTemplate = "%s | StarterKit"

// Input overrides the profile defaults for one page.
type Input struct {
	Title       string
	Description string
	Image       string
	Path        string
	Locale      string
	NoIndex     bool
	NoFollow    bool
}

// Icon is one <link rel="icon"> style entry.
type Icon struct {
	Rel   string
	URL   string
	Sizes string
	Type  string
}

// Image is an Open Graph image.
type Image struct {
	URL    string
	Width  int
	Height int
	Alt    string
}

type OpenGraph struct {
	Type        string
	Title       string
	Description string
	URL         string
	SiteName    string
	Images      []Image
	Locale      string
}

type Twitter struct {
	Card        string
	Title       string
	Description string
	Images      []string
	Creator     string
}

type Robots struct {
	Index  bool
	Follow bool
}

// Content renders the robots meta value, e.g. "index, follow".
func (r Robots) Content() string {
	idx, fol := "noindex", "nofollow"
	if r.Index {
		idx = "index"
	}
	if r.Follow {
		fol = "follow"
	}
	return idx + ", " + fol
}

// Metadata is everything the layout writes into <head>.
type Metadata struct {
	Title         string // page title before the template is applied
	TitleTemplate string
	Description   string
	Canonical     string
	Manifest      string
	Icons         []Icon
	Creator       string
	Publisher     string
	OpenGraph     OpenGraph
	Twitter       Twitter
	Robots        Robots
	Verification  map[string]string
	ThemeColor    string
	AppName       string
	Lang          string
}

// DocumentTitle returns the text for <title>. The site name is used as-is;
// any other title is formatted with the title template.
func (m Metadata) DocumentTitle(siteName string) string {
	switch {
	case m.Title == "":
		return siteName
	case m.Title == siteName, m.TitleTemplate == "":
		return m.Title
	}
	return strings.Replace(m.TitleTemplate, "%s", m.Title, 1)
}

// Construct builds page metadata from the profile, the public environment
// and per-page overrides.
func Construct(p siteconfig.Profile, env siteconfig.PublicEnv, in Input) Metadata {
	title := in.Title
	if title == "" {
		title = p.Name
	}
	description := in.Description
	if description == "" {
		description = p.Description
	}
	description = TruncateDescription(description, MaxDescriptionLength)

	image := in.Image
	if image == "" {
		image = p.OGImage()
	}
	image = Absolute(p.URL, image)

	locale := in.Locale
	if locale == "" {
		locale = p.DefaultLocale()
	}

	canonical := Absolute(p.CanonicalBase(), NormalizePath(in.Path))

	tmpl := p.PageDefaults.TitleTemplate
	if tmpl == "" {
		tmpl = defaultTitleTemplate
	}

	ogType := p.OG.Type
	if ogType == "" {
		ogType = "website"
	}
	siteName := p.OG.SiteName
	if siteName == "" {
		siteName = p.Name
	}
	width, height := p.OG.ImageWidth, p.OG.ImageHeight
	if width == 0 {
		width = 1200
	}
	if height == 0 {
		height = 630
	}
	ogLocale := p.OG.Locale
	if ogLocale == "" {
		ogLocale = locale
	}

	verification := map[string]string{}
	if v := strings.TrimSpace(env.GoogleVerification); v != "" {
		verification["google"] = v
	}
	if v := strings.TrimSpace(env.YandexVerification); v != "" {
		verification["yandex"] = v
	}
	if len(verification) == 0 {
		verification = nil
	}

	return Metadata{
		Title:         title,
		TitleTemplate: tmpl,
		Description:   description,
		Canonical:     canonical,
		Manifest:      p.Manifest,
		Icons:         Icons(p),
		Creator:       p.ShortName,
		Publisher:     p.ShortName,
		OpenGraph: OpenGraph{
			Type:        ogType,
			Title:       title,
			Description: description,
			URL:         canonical,
			SiteName:    siteName,
			Images:      []Image{{URL: image, Width: width, Height: height, Alt: description}},
			Locale:      ogLocale,
		},
		Twitter: Twitter{
			Card:        "summary_large_image",
			Title:       title,
			Description: description,
			Images:      []string{image},
			Creator:     p.SEO.Social.Twitter,
		},
		Robots: Robots{
			Index:  !in.NoIndex && p.PageDefaults.RobotsIndex,
			Follow: !in.NoFollow && p.PageDefaults.RobotsFollow,
		},
		Verification: verification,
		ThemeColor:   p.PWA.ThemeColor,
		AppName:      p.ShortName,
		Lang:         p.Lang,
	}
}

// Icons lists the configured icons in head order. Blank entries are skipped
// and relative paths gain a leading slash.
func Icons(p siteconfig.Profile) []Icon {
	specs := []struct {
		path  string
		rel   string
		sizes string
		typ   string
	}{
		{p.Icons.FaviconAny, "icon", "any", "image/x-icon"},
		{p.Icons.Icon32, "icon", "32x32", "image/png"},
		{p.Icons.Icon48, "icon", "48x48", "image/png"},
		{p.Icons.Icon192, "icon", "192x192", "image/png"},
		{p.Icons.Icon512, "icon", "512x512", "image/png"},
		{p.Icons.AppleTouch, "apple-touch-icon", "180x180", "image/png"},
	}

	var icons []Icon
	for _, s := range specs {
		if s.path == "" {
			continue
		}
		u := s.path
		if !strings.HasPrefix(u, "/") {
			u = "/" + u
		}
		icons = append(icons, Icon{Rel: s.rel, URL: u, Sizes: s.sizes, Type: s.typ})
	}
	return icons
}

// NormalizePath returns p with a leading slash and no repeated slashes.
// An empty path is "/".
func NormalizePath(p string) string {
	s := strings.TrimSpace(p)
	if s == "" {
		return "/"
	}
	if !strings.HasPrefix(s, "/") {
		s = "/" + s
	}
	for strings.Contains(s, "//") {
		s = strings.ReplaceAll(s, "//", "/")
	}
	return s
}

// TruncateDescription shortens desc to max characters, ending in "...".
func TruncateDescription(desc string, max int) string {
	if utf8.RuneCountInString(desc) <= max {
		return desc
	}
	runes := []rune(desc)
	return string(runes[:max-3]) + "..."
}

// Absolute resolves ref against base. Already-absolute refs are returned
// unchanged; an unparsable base leaves ref as given.
func Absolute(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil || b.Scheme == "" {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
