// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/starterkit/internal/app/features/shared/views"
	"github.com/dalemusser/starterkit/internal/app/system/seo"
	"go.uber.org/zap"
)

// Handler renders the error pages.
type Handler struct {
	Site *views.Site
	Log  *zap.Logger
}

// NewHandler constructs an errors Handler.
func NewHandler(site *views.Site, logger *zap.Logger) *Handler {
	return &Handler{Site: site, Log: logger}
}

type suggestedLink struct {
	Title string
	Href  string
}

// suggestedLinks are offered on the 404 page.
var suggestedLinks = []suggestedLink{
	{"Home", "/"},
	{"Blog", "/blog"},
	{"Docs", "/docs"},
	{"Guides", "/guides"},
	{"Tutorials", "/tutorials"},
	{"Starters", "/starters"},
}

// notFoundVM is the view model for the 404 page.
type notFoundVM struct {
	Image        string
	SupportEmail string
	Links        []suggestedLink
}

// NotFound renders the 404 page with suggested links.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	p := h.Site.Profile
	h.Log.Debug("page not found", zap.String("path", r.URL.Path))

	h.Site.RenderPage(w, r, views.Page{
		Status: http.StatusNotFound,
		SEO: seo.Input{
			Title:    "Page Not Found",
			Path:     r.URL.Path,
			NoIndex:  true,
			NoFollow: true,
		},
		Content: "not_found",
		Data: notFoundVM{
			Image:        p.Images.NotFoundLight,
			SupportEmail: p.MailSupport,
			Links:        suggestedLinks,
		},
	})
}

// MethodNotAllowed answers a known path requested with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.Log.Debug("method not allowed", zap.String("method", r.Method), zap.String("path", r.URL.Path))
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
