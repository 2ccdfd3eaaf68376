package seo_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/starterkit/internal/app/system/seo"
	"github.com/dalemusser/starterkit/internal/app/system/siteconfig"
)

func testProfile() siteconfig.Profile {
	p := siteconfig.Default()
	p.URL = "https://example.com"
	p.SEO.CanonicalBase = ""
	p.SEO.SitemapURL = "https://example.com/sitemap.xml"
	return p
}

/*─────────────────────────────────────────────────────────────────────────────*
| Metadata                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func TestNormalizePath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", "/"},
		{"   ", "/"},
		{"about", "/about"},
		{"/about", "/about"},
		{"//a///b", "/a/b"},
	}
	for _, tt := range tests {
		if got := seo.NormalizePath(tt.in); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncateDescription(t *testing.T) {
	short := strings.Repeat("a", 160)
	if got := seo.TruncateDescription(short, 160); got != short {
		t.Errorf("160 chars should be unchanged, got %d chars", len(got))
	}

	long := strings.Repeat("b", 161)
	got := seo.TruncateDescription(long, 160)
	if len(got) != 160 || !strings.HasSuffix(got, "...") {
		t.Errorf("expected 157 chars + ..., got %d chars %q", len(got), got[len(got)-5:])
	}
}

func TestConstruct_Defaults(t *testing.T) {
	p := testProfile()
	m := seo.Construct(p, siteconfig.PublicEnv{}, seo.Input{})

	if m.Title != p.Name {
		t.Errorf("Title: got %q, want %q", m.Title, p.Name)
	}
	if m.Canonical != "https://example.com/" {
		t.Errorf("Canonical: got %q", m.Canonical)
	}
	if m.Twitter.Card != "summary_large_image" {
		t.Errorf("Twitter card: got %q", m.Twitter.Card)
	}
	if len(m.OpenGraph.Images) != 1 || m.OpenGraph.Images[0].Width != 1200 || m.OpenGraph.Images[0].Height != 630 {
		t.Errorf("OG image: got %+v", m.OpenGraph.Images)
	}
	if !strings.HasPrefix(m.OpenGraph.Images[0].URL, "https://example.com/") {
		t.Errorf("OG image should be absolute, got %q", m.OpenGraph.Images[0].URL)
	}
	if !m.Robots.Index || !m.Robots.Follow {
		t.Errorf("Robots: got %+v, want index+follow", m.Robots)
	}
	if m.Verification != nil {
		t.Errorf("Verification should be nil without env, got %v", m.Verification)
	}
	if got := m.DocumentTitle(p.Name); got != p.Name {
		t.Errorf("DocumentTitle for site root: got %q", got)
	}
}

func TestConstruct_Overrides(t *testing.T) {
	p := testProfile()
	p.SEO.CanonicalBase = "https://www.example.com"
	env := siteconfig.PublicEnv{GoogleVerification: "g-123", YandexVerification: "  "}

	m := seo.Construct(p, env, seo.Input{
		Title:       "About",
		Description: strings.Repeat("x", 200),
		Path:        "about//team",
		NoIndex:     true,
	})

	if m.Canonical != "https://www.example.com/about/team" {
		t.Errorf("Canonical: got %q", m.Canonical)
	}
	if len([]rune(m.Description)) != seo.MaxDescriptionLength {
		t.Errorf("Description length: got %d", len(m.Description))
	}
	if m.Robots.Index || !m.Robots.Follow {
		t.Errorf("Robots: got %+v, want noindex+follow", m.Robots)
	}
	if m.Robots.Content() != "noindex, follow" {
		t.Errorf("Robots.Content: got %q", m.Robots.Content())
	}
	if m.Verification["google"] != "g-123" {
		t.Errorf("google verification: got %q", m.Verification["google"])
	}
	if _, ok := m.Verification["yandex"]; ok {
		t.Error("blank yandex token should be skipped")
	}
	if got := m.DocumentTitle(p.Name); got != "About | StarterKit" {
		t.Errorf("DocumentTitle: got %q", got)
	}
}

func TestConstruct_PageDefaultsDisableIndexing(t *testing.T) {
	p := testProfile()
	p.PageDefaults.RobotsIndex = false
	m := seo.Construct(p, siteconfig.PublicEnv{}, seo.Input{})
	if m.Robots.Index {
		t.Error("page defaults should disable indexing")
	}
}

func TestIcons(t *testing.T) {
	p := testProfile()
	p.Icons.Icon48 = ""
	p.Icons.AppleTouch = "apple.png"

	icons := seo.Icons(p)
	if len(icons) != 5 {
		t.Fatalf("expected 5 icons, got %d", len(icons))
	}
	last := icons[len(icons)-1]
	if last.Rel != "apple-touch-icon" || last.URL != "/apple.png" || last.Sizes != "180x180" {
		t.Errorf("apple icon: got %+v", last)
	}
}

func TestHeadHTML(t *testing.T) {
	p := testProfile()
	env := siteconfig.PublicEnv{GoogleVerification: "g-123"}
	m := seo.Construct(p, env, seo.Input{Title: "Hire me", Path: "/hire-me"})

	head, err := seo.HeadHTML(m, p.Name)
	if err != nil {
		t.Fatalf("HeadHTML: %v", err)
	}
	for _, want := range []string{
		"<title>Hire me | StarterKit</title>",
		`<link rel="canonical" href="https://example.com/hire-me">`,
		`<meta name="robots" content="index, follow">`,
		`<meta name="google-site-verification" content="g-123">`,
		`<meta name="twitter:card" content="summary_large_image">`,
		`<link rel="manifest" href="/manifest.webmanifest">`,
		`<meta name="apple-mobile-web-app-title" content="StarterKit">`,
	} {
		if !strings.Contains(string(head), want) {
			t.Errorf("head missing %q", want)
		}
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| JSON-LD                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func TestBuildOrganization(t *testing.T) {
	p := testProfile()
	p.SEO.Social.Twitter = "@acme"
	p.SEO.Social.LinkedIn = ""

	org := seo.BuildOrganization(p)
	if org.Logo != "https://example.com"+p.Logo {
		t.Errorf("Logo: got %q", org.Logo)
	}
	if len(org.SameAs) != 2 || org.SameAs[0] != "https://twitter.com/acme" {
		t.Errorf("SameAs: got %v", org.SameAs)
	}
	if org.ContactPoint.ContactType != "Customer Support" {
		t.Errorf("ContactPoint: got %+v", org.ContactPoint)
	}
}

func TestBuildPerson_TwitterHandle(t *testing.T) {
	p := seo.BuildPerson(seo.Author{Name: "Ann", Twitter: "@ann", SameAs: []string{"https://ann.dev"}})
	if len(p.SameAs) != 2 || p.SameAs[1] != "https://twitter.com/ann" {
		t.Errorf("SameAs: got %v", p.SameAs)
	}

	p = seo.BuildPerson(seo.Author{Name: "Bob", Twitter: "https://twitter.com/bob"})
	if p.SameAs != nil {
		t.Errorf("URL twitter values are not added to sameAs, got %v", p.SameAs)
	}
}

func TestBuildArticle_DateModifiedDefaults(t *testing.T) {
	art := seo.BuildArticle(testProfile(), "Hello", "2025-10-16", "", []seo.Author{{Name: "Ann"}}, "", "")
	if art.DateModified != "2025-10-16" {
		t.Errorf("DateModified: got %q", art.DateModified)
	}
	if art.Image != nil {
		t.Error("Image should be omitted when empty")
	}
}

func TestBuildProduct(t *testing.T) {
	prod := seo.BuildProduct(seo.ProductInput{Name: "Kit", Price: 19.5, Currency: "USD", Rating: 4.5})
	if prod.Offers.Price != "19.50" {
		t.Errorf("Price: got %q", prod.Offers.Price)
	}
	if prod.AggregateRating != nil {
		t.Error("rating without review count must be omitted")
	}

	prod = seo.BuildProduct(seo.ProductInput{Name: "Kit", Price: 1, Currency: "USD", Rating: 4.5, ReviewCount: 3, Brand: "Acme"})
	if prod.AggregateRating == nil || prod.AggregateRating.ReviewCount != 3 {
		t.Errorf("AggregateRating: got %+v", prod.AggregateRating)
	}
	if prod.Brand == nil || prod.Brand.Name != "Acme" {
		t.Errorf("Brand: got %+v", prod.Brand)
	}
}

func TestBuildBreadcrumbs(t *testing.T) {
	list := seo.BuildBreadcrumbs(testProfile(), []seo.Crumb{{"Home", "/"}, {"Features", "/features/static-generation"}})
	if len(list.ItemListElement) != 2 {
		t.Fatalf("expected 2 items, got %d", len(list.ItemListElement))
	}
	second := list.ItemListElement[1]
	if second.Position != 2 || second.Item != "https://example.com/features/static-generation" {
		t.Errorf("second crumb: got %+v", second)
	}
}

func TestScriptTag_EscapesClosingTag(t *testing.T) {
	faq := seo.BuildFAQ([]seo.FAQ{{Question: "</script>?", Answer: "yes"}})
	tag, err := seo.ScriptTag(faq)
	if err != nil {
		t.Fatalf("ScriptTag: %v", err)
	}
	if strings.Count(string(tag), "</script>") != 1 {
		t.Errorf("payload must not close the script tag: %s", tag)
	}

	inner := strings.TrimSuffix(strings.TrimPrefix(string(tag), `<script type="application/ld+json">`), "</script>")
	var decoded map[string]any
	if err := json.Unmarshal([]byte(inner), &decoded); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if decoded["@type"] != "FAQPage" {
		t.Errorf("@type: got %v", decoded["@type"])
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| robots.txt                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func TestBuildRobots_DisallowAll(t *testing.T) {
	p := testProfile()
	p.SEO.Indexing = "disallow"

	doc := seo.BuildRobots(p)
	if len(doc.Rules) != 1 {
		t.Fatalf("expected one rule, got %d", len(doc.Rules))
	}
	want := "User-Agent: *\nDisallow: /\n\nHost: https://example.com\nSitemap: https://example.com/sitemap.xml\n"
	if got := doc.String(); got != want {
		t.Errorf("robots.txt:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildRobots_PerAgent(t *testing.T) {
	p := testProfile()
	p.SEO.DisallowPaths = []string{"/api/", "/_worker/"}

	doc := seo.BuildRobots(p)
	byAgent := map[string]seo.RobotsRule{}
	for _, r := range doc.Rules {
		byAgent[r.UserAgent] = r
	}

	if g := byAgent["Googlebot"]; g.CrawlDelay == nil || *g.CrawlDelay != 0 || len(g.Disallow) != 2 {
		t.Errorf("Googlebot: got %+v", g)
	}
	if m := byAgent["MJ12bot"]; m.CrawlDelay == nil || *m.CrawlDelay != 2 || m.Allow != nil || m.Disallow != nil {
		t.Errorf("MJ12bot: got %+v", m)
	}
	if a := byAgent["AdsBot-Google"]; a.CrawlDelay != nil || a.Disallow != nil || len(a.Allow) != 1 {
		t.Errorf("AdsBot-Google: got %+v", a)
	}
	if doc.Rules[len(doc.Rules)-1].UserAgent != "*" {
		t.Error("wildcard rule should be last")
	}

	text := doc.String()
	if !strings.Contains(text, "User-Agent: GPTBot\nAllow: /\nDisallow: /api/\nDisallow: /_worker/\nCrawl-delay: 1\n") {
		t.Errorf("GPTBot block not rendered as expected:\n%s", text)
	}
	if !strings.HasSuffix(text, "Sitemap: https://example.com/sitemap.xml\n") {
		t.Error("robots.txt should end with the sitemap line")
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| sitemap.xml                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func TestBuildSitemap_Alternates(t *testing.T) {
	p := testProfile()
	p.SEO.DefaultLocale = "en"
	p.SEO.Locales = []string{"en", "ru", "es"}
	p.Routes = []siteconfig.Route{{Path: "//blog//", Priority: 0.9, ChangeFrequency: "daily"}}
	p.Content = nil

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	entries := seo.BuildSitemap(p, now)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.URL != "https://example.com/blog/" {
		t.Errorf("URL: got %q", e.URL)
	}
	if !e.LastModified.Equal(now) {
		t.Errorf("LastModified: got %v, want now", e.LastModified)
	}
	want := map[string]string{
		"en": "https://example.com/blog/",
		"ru": "https://example.com/ru/blog/",
		"es": "https://example.com/es/blog/",
	}
	for loc, url := range want {
		if e.Alternates[loc] != url {
			t.Errorf("alternate %s: got %q, want %q", loc, e.Alternates[loc], url)
		}
	}
}

func TestBuildSitemap_IncludesPublishedPages(t *testing.T) {
	p := testProfile()
	p.Routes = []siteconfig.Route{{Path: "/hire-me", Priority: 0.5, ChangeFrequency: "monthly", LastModified: "2025-10-16"}}

	entries := seo.BuildSitemap(p, time.Now())
	var hireMe, about int
	for _, e := range entries {
		switch e.URL {
		case "https://example.com/hire-me":
			hireMe++
			if e.Priority != 0.5 {
				t.Errorf("static route should win, got priority %v", e.Priority)
			}
			if e.LastModified.Format("2006-01-02") != "2025-10-16" {
				t.Errorf("LastModified: got %v", e.LastModified)
			}
		case "https://example.com/about-aifa":
			about++
		case "https://example.com/home":
			t.Error("unpublished page must not be listed")
		}
	}
	if hireMe != 1 || about != 1 {
		t.Errorf("hire-me listed %d times, about %d times", hireMe, about)
	}
}

func TestRenderSitemap_XML(t *testing.T) {
	p := testProfile()
	p.SEO.Locales = []string{"en", "de"}
	p.Routes = []siteconfig.Route{{Path: "/", Priority: 1, ChangeFrequency: "daily", LastModified: "2025-10-16"}}
	p.Content = nil

	out, err := seo.RenderSitemap(p, time.Now())
	if err != nil {
		t.Fatalf("RenderSitemap: %v", err)
	}
	s := string(out)
	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`,
		`xmlns:xhtml="http://www.w3.org/1999/xhtml"`,
		`<loc>https://example.com/</loc>`,
		`<xhtml:link rel="alternate" hreflang="de" href="https://example.com/de/"></xhtml:link>`,
		`<lastmod>2025-10-16T00:00:00Z</lastmod>`,
		`<changefreq>daily</changefreq>`,
		`<priority>1</priority>`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("sitemap missing %q\n%s", want, s)
		}
	}
}
