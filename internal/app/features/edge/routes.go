package edge

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes returns the worker control router, mounted under /_worker.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/message", h.Message)
	r.Post("/push", h.Push)
	r.Post("/notificationclick", h.NotificationClick)
	r.Get("/notifications", h.Notifications)
	r.Post("/sync", h.Sync)
	r.Post("/update", h.Update)
	r.Get("/state", h.State)
	return r
}

// MetricsHandler exposes the worker metrics collected by gatherer.
func MetricsHandler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
