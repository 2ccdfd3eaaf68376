// internal/app/features/leadform/routes.go
package leadform

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Routes serves the lead form API. Mount at /api/lead-form.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	// Preflight answers OPTIONS with fixed headers; the middleware only
	// decorates the actual POST.
	allowAnyOrigin := cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"POST"},
		AllowedHeaders: []string{"Content-Type"},
	})
	r.Options("/", h.Preflight)
	r.With(allowAnyOrigin, h.Limiter.Middleware).Post("/", h.Submit)
	return r
}

// ModalRoutes serves the intercepted modal. Mount at /interception_modal.
func ModalRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/lead-form", h.ServeModal)
	return r
}
