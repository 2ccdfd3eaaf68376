// Package sitedocs serves the generated site documents: robots.txt,
// sitemap.xml and the PWA manifest.
package sitedocs

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/starterkit/internal/app/system/pwa"
	"github.com/dalemusser/starterkit/internal/app/system/seo"
	"github.com/dalemusser/starterkit/internal/app/system/siteconfig"
	"go.uber.org/zap"
)

type Handler struct {
	Profile siteconfig.Profile
	Env     siteconfig.PublicEnv
	Now     func() time.Time
	Log     *zap.Logger
}

func NewHandler(p siteconfig.Profile, env siteconfig.PublicEnv, logger *zap.Logger) *Handler {
	return &Handler{
		Profile: p,
		Env:     env,
		Now:     time.Now,
		Log:     logger,
	}
}

// Robots handles GET /robots.txt.
func (h *Handler) Robots(w http.ResponseWriter, r *http.Request) {
	body := seo.BuildRobots(h.Profile).String()
	write(w, "text/plain; charset=utf-8", []byte(body))
}

// Sitemap handles GET /sitemap.xml. Routes without a last-modified date are
// stamped with the request time.
func (h *Handler) Sitemap(w http.ResponseWriter, r *http.Request) {
	body, err := seo.RenderSitemap(h.Profile, h.Now().UTC())
	if err != nil {
		h.Log.Error("sitemap render failed", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	write(w, "application/xml; charset=utf-8", body)
}

// Manifest handles GET /manifest.webmanifest.
func (h *Handler) Manifest(w http.ResponseWriter, r *http.Request) {
	body, err := pwa.Marshal(pwa.Build(h.Profile, h.Env))
	if err != nil {
		h.Log.Error("manifest render failed", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	write(w, pwa.ContentType, body)
}

func write(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
