package seo

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dalemusser/starterkit/internal/app/system/siteconfig"
)

// Navigation pages without a static route entry are listed with these values.
const (
	pagePriority        = 0.7
	pageChangeFrequency = "weekly"
)

// SitemapEntry is one <url> element.
type SitemapEntry struct {
	URL             string
	LastModified    time.Time
	ChangeFrequency string
	Priority        float64
	Alternates      map[string]string // locale -> absolute URL
}

var repeatedSlashes = regexp.MustCompile(`/+`)

// normalizeSitemapPath adds a leading slash and collapses slash runs.
func normalizeSitemapPath(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return repeatedSlashes.ReplaceAllString(path, "/")
}

type sitemapBuilder struct {
	base          string
	defaultLocale string
	locales       []string
}

func newSitemapBuilder(p siteconfig.Profile) sitemapBuilder {
	locales := p.SEO.Locales
	if len(locales) == 0 {
		locales = []string{"en"}
	}
	def := p.SEO.DefaultLocale
	if def == "" {
		def = "en"
	}
	return sitemapBuilder{base: strings.TrimRight(p.URL, "/"), defaultLocale: def, locales: locales}
}

// url prefixes non-default locales with /<locale>.
func (b sitemapBuilder) url(path, locale string) string {
	path = normalizeSitemapPath(path)
	if locale != "" && locale != b.defaultLocale {
		path = "/" + locale + path
	}
	return b.base + path
}

func (b sitemapBuilder) alternates(path string) map[string]string {
	alt := make(map[string]string, len(b.locales))
	for _, loc := range b.locales {
		alt[loc] = b.url(path, loc)
	}
	return alt
}

// BuildSitemap lists the static routes followed by published navigation
// pages that have no static route. Routes without a last-modified date use now.
func BuildSitemap(p siteconfig.Profile, now time.Time) []SitemapEntry {
	b := newSitemapBuilder(p)
	seen := make(map[string]bool)
	var entries []SitemapEntry

	for _, r := range p.Routes {
		lastMod := now
		if r.LastModified != "" {
			if t, err := time.Parse("2006-01-02", r.LastModified); err == nil {
				lastMod = t
			}
		}
		path := normalizeSitemapPath(r.Path)
		seen[path] = true
		entries = append(entries, SitemapEntry{
			URL:             b.url(path, ""),
			LastModified:    lastMod,
			ChangeFrequency: r.ChangeFrequency,
			Priority:        r.Priority,
			Alternates:      b.alternates(path),
		})
	}

	for _, pg := range p.PublishedPages() {
		if !strings.HasPrefix(pg.Href, "/") {
			continue
		}
		path := normalizeSitemapPath(pg.Href)
		if seen[path] {
			continue
		}
		seen[path] = true
		entries = append(entries, SitemapEntry{
			URL:             b.url(path, ""),
			LastModified:    now,
			ChangeFrequency: pageChangeFrequency,
			Priority:        pagePriority,
			Alternates:      b.alternates(path),
		})
	}
	return entries
}

type xmlURLSet struct {
	XMLName    xml.Name `xml:"urlset"`
	Xmlns      string   `xml:"xmlns,attr"`
	XmlnsXHTML string   `xml:"xmlns:xhtml,attr"`
	URLs       []xmlURL `xml:"url"`
}

type xmlURL struct {
	Loc        string    `xml:"loc"`
	Alternates []xmlLink `xml:"xhtml:link"`
	LastMod    string    `xml:"lastmod,omitempty"`
	ChangeFreq string    `xml:"changefreq,omitempty"`
	Priority   float64   `xml:"priority"`
}

type xmlLink struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// MarshalSitemap renders entries as a sitemap.xml document. Alternates are
// written in the order of locales.
func MarshalSitemap(entries []SitemapEntry, locales []string) ([]byte, error) {
	set := xmlURLSet{
		Xmlns:      "http://www.sitemaps.org/schemas/sitemap/0.9",
		XmlnsXHTML: "http://www.w3.org/1999/xhtml",
	}
	for _, e := range entries {
		u := xmlURL{
			Loc:        e.URL,
			ChangeFreq: e.ChangeFrequency,
			Priority:   e.Priority,
		}
		if !e.LastModified.IsZero() {
			u.LastMod = e.LastModified.UTC().Format(time.RFC3339)
		}
		for _, loc := range locales {
			if href, ok := e.Alternates[loc]; ok {
				u.Alternates = append(u.Alternates, xmlLink{Rel: "alternate", Hreflang: loc, Href: href})
			}
		}
		set.URLs = append(set.URLs, u)
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sitemap: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

// RenderSitemap builds and marshals the sitemap for p.
func RenderSitemap(p siteconfig.Profile, now time.Time) ([]byte, error) {
	return MarshalSitemap(BuildSitemap(p, now), newSitemapBuilder(p).locales)
}
