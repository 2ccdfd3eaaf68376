package home

import (
	"net/http"

	"github.com/dalemusser/starterkit/internal/app/features/shared/views"
	"github.com/dalemusser/starterkit/internal/app/system/seo"
	"go.uber.org/zap"
)

// Handler holds dependencies needed to serve the home page.
type Handler struct {
	Site *views.Site
	Log  *zap.Logger
}

func NewHandler(site *views.Site, logger *zap.Logger) *Handler {
	return &Handler{
		Site: site,
		Log:  logger,
	}
}

type link struct {
	Title       string
	Href        string
	Description string
}

type section struct {
	Title string
	Links []link
}

type homeData struct {
	Name        string
	Description string
	Sections    []section
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – root layout                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeRoot renders the root layout: the static landing content, the
// session-gated dynamic region and an empty modal slot.
func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	p := h.Site.Profile

	data := homeData{Name: p.Name, Description: p.Description}
	for _, c := range p.Content {
		s := section{Title: c.Title}
		for _, pg := range c.Pages {
			if !pg.Published {
				continue
			}
			s.Links = append(s.Links, link{Title: pg.Title, Href: pg.Href, Description: pg.Description})
		}
		if len(s.Links) > 0 {
			data.Sections = append(data.Sections, s)
		}
	}

	h.Site.RenderPage(w, r, views.Page{
		SEO:     seo.Input{Path: "/"},
		Content: "home",
		Data:    data,
		JSONLD:  []any{seo.BuildOrganization(p).WithContext()},
	})
}
