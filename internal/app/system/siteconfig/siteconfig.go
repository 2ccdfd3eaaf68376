// Package siteconfig loads the site profile: the branding, PWA, SEO, offline
// cache and navigation settings that every page, document builder and the
// offline worker read from.
//
// A profile is a YAML document. The embedded default (profile.yaml) is always
// loaded first; a user profile file is decoded on top of it so that a partial
// file only overrides the keys it names.
package siteconfig

import (
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed profile.yaml
var defaultProfile []byte

// DefaultProfileYAML returns the embedded default profile document.
func DefaultProfileYAML() []byte {
	out := make([]byte, len(defaultProfile))
	copy(out, defaultProfile)
	return out
}

// ErrProfileNotFound is returned when an explicit profile path does not exist.
var ErrProfileNotFound = errors.New("site profile not found")

// Profile is the full site configuration.
type Profile struct {
	Name        string `yaml:"name"`
	ShortName   string `yaml:"short_name"`
	Description string `yaml:"description"`
	URL         string `yaml:"url"`
	Lang        string `yaml:"lang"`
	Logo        string `yaml:"logo"`
	Manifest    string `yaml:"manifest"`
	MailSupport string `yaml:"mail_support"`

	Icons        Icons        `yaml:"icons"`
	Images       Images       `yaml:"images"`
	PWA          PWA          `yaml:"pwa"`
	SEO          SEO          `yaml:"seo"`
	OG           OpenGraph    `yaml:"og"`
	PageDefaults PageDefaults `yaml:"page_defaults"`
	Offline      Offline      `yaml:"offline"`
	Routes       []Route      `yaml:"routes"`
	Content      []Category   `yaml:"content"`
}

type Icons struct {
	FaviconAny string `yaml:"favicon_any"`
	Icon32     string `yaml:"icon32"`
	Icon48     string `yaml:"icon48"`
	Icon192    string `yaml:"icon192"`
	Icon512    string `yaml:"icon512"`
	AppleTouch string `yaml:"apple_touch"`
}

type Images struct {
	OGImage       string `yaml:"og_image"`
	LoadingLight  string `yaml:"loading_light"`
	LoadingDark   string `yaml:"loading_dark"`
	NotFoundLight string `yaml:"not_found_light"`
	NotFoundDark  string `yaml:"not_found_dark"`
}

type PWA struct {
	StartURL        string     `yaml:"start_url"`
	Scope           string     `yaml:"scope"`
	Display         string     `yaml:"display"`
	Orientation     string     `yaml:"orientation"`
	BackgroundColor string     `yaml:"background_color"`
	ThemeColor      string     `yaml:"theme_color"`
	Categories      []string   `yaml:"categories"`
	Shortcuts       []Shortcut `yaml:"shortcuts"`
}

type Shortcut struct {
	Name        string `yaml:"name"`
	ShortName   string `yaml:"short_name"`
	Description string `yaml:"description"`
	URL         string `yaml:"url"`
}

// SEO controls crawl rules, canonical URLs and locale alternates.
type SEO struct {
	CanonicalBase string   `yaml:"canonical_base"`
	Indexing      string   `yaml:"indexing"` // "allow" or "disallow"
	SitemapURL    string   `yaml:"sitemap_url"`
	DefaultLocale string   `yaml:"default_locale"`
	Locales       []string `yaml:"locales"`
	DisallowPaths []string `yaml:"disallow_paths"`
	Social        Social   `yaml:"social"`
}

type Social struct {
	Twitter  string `yaml:"twitter"`
	GitHub   string `yaml:"github"`
	LinkedIn string `yaml:"linkedin"`
}

type OpenGraph struct {
	Type        string `yaml:"type"`
	SiteName    string `yaml:"site_name"`
	Locale      string `yaml:"locale"`
	ImageWidth  int    `yaml:"image_width"`
	ImageHeight int    `yaml:"image_height"`
}

type PageDefaults struct {
	TitleTemplate string `yaml:"title_template"`
	RobotsIndex   bool   `yaml:"robots_index"`
	RobotsFollow  bool   `yaml:"robots_follow"`
}

// Offline configures the offline worker: bucket naming, the API prefix used
// for classification, the offline fallback page and the precache manifest.
type Offline struct {
	CachePrefix string   `yaml:"cache_prefix"`
	Version     string   `yaml:"version"`
	APIPrefix   string   `yaml:"api_prefix"`
	Fallback    string   `yaml:"fallback"`
	Precache    []string `yaml:"precache"`
}

// Route is a static sitemap entry. LastModified is a YYYY-MM-DD date; blank
// means "now" at render time.
type Route struct {
	Path            string  `yaml:"path"`
	Priority        float64 `yaml:"priority"`
	ChangeFrequency string  `yaml:"change_frequency"`
	LastModified    string  `yaml:"last_modified"`
}

// Category groups navigation pages.
type Category struct {
	Title string `yaml:"title"`
	Pages []Page `yaml:"pages"`
}

type Page struct {
	ID          string   `yaml:"id"`
	Href        string   `yaml:"href"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Type        string   `yaml:"type"`
	Published   bool     `yaml:"published"`
	Order       int      `yaml:"order"`
	Keywords    []string `yaml:"keywords"`
}

// Default returns the embedded default profile.
func Default() Profile {
	var p Profile
	if err := yaml.Unmarshal(defaultProfile, &p); err != nil {
		// The embedded file is part of the build; a decode failure is a programming error.
		panic(fmt.Sprintf("siteconfig: embedded profile: %v", err))
	}
	return p
}

// Load reads the profile at path on top of the default profile.
// An empty path returns the default profile.
func Load(path string) (Profile, error) {
	p := Default()
	if strings.TrimSpace(path) == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, path)
		}
		return Profile{}, fmt.Errorf("read site profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse site profile %s: %w", path, err)
	}
	return p, nil
}

// Validate checks the settings that the document builders depend on.
func (p Profile) Validate() error {
	var problems []string

	if strings.TrimSpace(p.Name) == "" {
		problems = append(problems, "name is required")
	}
	if strings.TrimSpace(p.ShortName) == "" {
		problems = append(problems, "short_name is required")
	}
	if u, err := url.Parse(p.URL); err != nil || u.Scheme == "" || u.Host == "" {
		problems = append(problems, fmt.Sprintf("url %q must be absolute", p.URL))
	}
	if p.SEO.CanonicalBase != "" {
		if u, err := url.Parse(p.SEO.CanonicalBase); err != nil || u.Scheme == "" || u.Host == "" {
			problems = append(problems, fmt.Sprintf("seo.canonical_base %q must be absolute", p.SEO.CanonicalBase))
		}
	}
	switch p.SEO.Indexing {
	case "", "allow", "disallow":
	default:
		problems = append(problems, fmt.Sprintf("seo.indexing %q must be allow or disallow", p.SEO.Indexing))
	}
	for _, loc := range p.SEO.Locales {
		if _, err := language.Parse(loc); err != nil {
			problems = append(problems, fmt.Sprintf("seo.locales: %q is not a valid language tag", loc))
		}
	}
	if p.SEO.DefaultLocale != "" {
		if _, err := language.Parse(p.SEO.DefaultLocale); err != nil {
			problems = append(problems, fmt.Sprintf("seo.default_locale %q is not a valid language tag", p.SEO.DefaultLocale))
		}
	}
	if strings.TrimSpace(p.Offline.CachePrefix) == "" || strings.TrimSpace(p.Offline.Version) == "" {
		problems = append(problems, "offline.cache_prefix and offline.version are required")
	}
	if !strings.HasPrefix(p.Offline.APIPrefix, "/") {
		problems = append(problems, fmt.Sprintf("offline.api_prefix %q must start with /", p.Offline.APIPrefix))
	}

	if len(problems) > 0 {
		return errors.New("invalid site profile: " + strings.Join(problems, "; "))
	}
	return nil
}

// CanonicalBase returns seo.canonical_base, falling back to url.
func (p Profile) CanonicalBase() string {
	if p.SEO.CanonicalBase != "" {
		return p.SEO.CanonicalBase
	}
	return p.URL
}

// DefaultLocale returns seo.default_locale, falling back to lang and then "en".
func (p Profile) DefaultLocale() string {
	if p.SEO.DefaultLocale != "" {
		return p.SEO.DefaultLocale
	}
	if p.Lang != "" {
		return p.Lang
	}
	return "en"
}

// OGImage returns the Open Graph image path.
func (p Profile) OGImage() string {
	if p.Images.OGImage != "" {
		return p.Images.OGImage
	}
	return p.Logo
}

// PublishedPages returns every published navigation page in category order.
func (p Profile) PublishedPages() []Page {
	var out []Page
	for _, c := range p.Content {
		for _, pg := range c.Pages {
			if pg.Published {
				out = append(out, pg)
			}
		}
	}
	return out
}

// FindPage returns the navigation page whose href equals path.
func (p Profile) FindPage(path string) (Page, bool) {
	for _, c := range p.Content {
		for _, pg := range c.Pages {
			if pg.Href == path {
				return pg, true
			}
		}
	}
	return Page{}, false
}
