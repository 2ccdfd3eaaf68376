package pages

import "github.com/dalemusser/starterkit/internal/app/system/seo"

// pageCopy is the body of a public page. Title and description come from the
// site profile when it lists the path.
type pageCopy struct {
	Path        string
	ID          string
	Title       string
	Description string
	Paragraphs  []string
	Parent      seo.Crumb // breadcrumb parent; zero for top-level pages
	FAQ         []seo.FAQ
}

var catalog = []pageCopy{
	{
		Path:        "/home",
		ID:          "home",
		Title:       "Home",
		Description: "Welcome to the platform.",
		Paragraphs: []string{
			"The static region renders the same markup for every visitor and is safe to cache.",
			"Sign in to see the dynamic region replace it with per-session content.",
		},
	},
	{
		Path:        "/about-aifa",
		ID:          "about",
		Title:       "About",
		Description: "Learn about the mission behind the starter kit.",
		Paragraphs: []string{
			"The starter kit combines parallel layout regions, route interception and an offline-first shell.",
			"Metadata, structured data, robots rules and the sitemap are generated from one site profile.",
		},
	},
	{
		Path:        "/hire-me",
		ID:          "hire-me",
		Title:       "Hire me",
		Description: "Work with the author of the starter kit.",
		Paragraphs: []string{
			"Need a marketing site, a PWA shell or an SEO audit? Use the contact form to get in touch.",
		},
		FAQ: []seo.FAQ{
			{Question: "How do I get in touch?", Answer: "Open the contact form from the home page and leave your name, phone and email."},
			{Question: "Is the contact form stored?", Answer: "No. Submissions are mailed and never persisted."},
		},
	},
	{
		Path:        "/features/static-generation",
		ID:          "static-generation",
		Title:       "Static generation",
		Description: "Pages rendered once and served from cache.",
		Paragraphs: []string{
			"Static pages are cached by the offline worker with a network-first strategy and stay available offline.",
		},
		Parent: seo.Crumb{Name: "Features", URL: "/#features"},
	},
	{
		Path:        "/features/dynamic-generation",
		ID:          "dynamic-generation",
		Title:       "Dynamic generation",
		Description: "Pages rendered per request with session-aware regions.",
		Paragraphs: []string{
			"The dynamic region is rendered for each request from the session and overlays the static content.",
		},
		Parent: seo.Crumb{Name: "Features", URL: "/#features"},
	},
}

func findCopy(path string) (pageCopy, bool) {
	for _, pg := range catalog {
		if pg.Path == path {
			return pg, true
		}
	}
	return pageCopy{}, false
}
