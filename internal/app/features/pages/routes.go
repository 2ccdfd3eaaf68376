// internal/app/features/pages/routes.go
package pages

import "github.com/go-chi/chi/v5"

// Routes serves the public pages. Every other path under the mount point
// renders the 404 page.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.NotFound(h.Errors.NotFound)
	for _, pg := range catalog {
		r.Get(pg.Path, h.ServePage(pg.Path))
	}
	return r
}
