package seo

import (
	"fmt"
	"strings"

	"github.com/dalemusser/starterkit/internal/app/system/siteconfig"
)

// RobotsRule is one User-agent group. A nil CrawlDelay is omitted.
type RobotsRule struct {
	UserAgent  string
	Allow      []string
	Disallow   []string
	CrawlDelay *int
}

// RobotsDoc is the full robots.txt.
type RobotsDoc struct {
	Rules   []RobotsRule
	Sitemap string
	Host    string
}

func delay(n int) *int { return &n }

// crawlers lists the per-agent policy. disallow marks agents that receive
// the profile's disallow paths; allow marks agents with an explicit "Allow: /".
var crawlers = []struct {
	agent    string
	allow    bool
	disallow bool
	delay    *int
}{
	{"Googlebot", true, true, delay(0)},
	{"Bingbot", true, true, delay(1)},
	{"Yandexbot", true, true, delay(1)},
	{"AdsBot-Google", true, false, nil},
	{"MJ12bot", false, false, delay(2)},
	{"GPTBot", true, true, delay(1)},
	{"CCBot", true, true, delay(1)},
	{"anthropic-ai", true, true, delay(1)},
	{"Claude-Web", true, true, delay(1)},
	{"PerplexityBot", true, true, delay(1)},
	{"omgilibot", true, true, delay(1)},
	{"omgili", true, true, delay(1)},
	{"facebookexternalhit", true, false, nil},
	{"Slurp", true, true, delay(1)},
	{"DuckDuckBot", true, true, delay(1)},
	{"Baiduspider", true, true, delay(1)},
	{"*", true, true, delay(1)},
}

// BuildRobots returns the crawl rules for the profile. With indexing set to
// "disallow" a single rule blocks every agent from the whole site.
func BuildRobots(p siteconfig.Profile) RobotsDoc {
	doc := RobotsDoc{Sitemap: p.SEO.SitemapURL, Host: p.CanonicalBase()}

	if p.SEO.Indexing == "disallow" {
		doc.Rules = []RobotsRule{{UserAgent: "*", Disallow: []string{"/"}}}
		return doc
	}

	for _, c := range crawlers {
		rule := RobotsRule{UserAgent: c.agent, CrawlDelay: c.delay}
		if c.allow {
			rule.Allow = []string{"/"}
		}
		if c.disallow {
			rule.Disallow = append([]string(nil), p.SEO.DisallowPaths...)
		}
		doc.Rules = append(doc.Rules, rule)
	}
	return doc
}

// String renders the robots.txt body.
func (d RobotsDoc) String() string {
	var b strings.Builder
	for _, r := range d.Rules {
		fmt.Fprintf(&b, "User-Agent: %s\n", r.UserAgent)
		for _, a := range r.Allow {
			fmt.Fprintf(&b, "Allow: %s\n", a)
		}
		for _, dis := range r.Disallow {
			fmt.Fprintf(&b, "Disallow: %s\n", dis)
		}
		if r.CrawlDelay != nil {
			fmt.Fprintf(&b, "Crawl-delay: %d\n", *r.CrawlDelay)
		}
		b.WriteString("\n")
	}
	if d.Host != "" {
		fmt.Fprintf(&b, "Host: %s\n", d.Host)
	}
	if d.Sitemap != "" {
		fmt.Fprintf(&b, "Sitemap: %s\n", d.Sitemap)
	}
	return b.String()
}
