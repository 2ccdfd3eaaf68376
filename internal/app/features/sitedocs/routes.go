package sitedocs

import "github.com/go-chi/chi/v5"

// Register adds the document routes to r. They live at the site root, next
// to the page routes, so they are registered rather than mounted.
func Register(r chi.Router, h *Handler) {
	r.Get("/robots.txt", h.Robots)
	r.Get("/sitemap.xml", h.Sitemap)
	r.Get("/manifest.webmanifest", h.Manifest)
}
