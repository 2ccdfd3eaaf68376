package leadform

import (
	"net/http"

	"github.com/dalemusser/starterkit/internal/app/features/shared/views"
	"github.com/dalemusser/starterkit/internal/app/system/auth"
	"github.com/dalemusser/starterkit/internal/app/system/seo"
)

type modalVM struct {
	Title     string
	Intro     string
	CloseHref string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /interception_modal/lead-form                                           |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeModal renders the lead form. A navigation from inside the app
// (HX-Request) gets only the modal fragment for the modal slot; a direct
// request gets the full page.
func (h *Handler) ServeModal(w http.ResponseWriter, r *http.Request) {
	vm := modalVM{
		Title:     "Get in touch",
		Intro:     "Leave your details and we will contact you shortly.",
		CloseHref: "/",
	}
	w.Header().Add("Vary", "HX-Request")

	if auth.IsHTMX(r) {
		h.Site.Views.RenderSnippet(w, http.StatusOK, "lead_form_modal", vm)
		return
	}

	h.Site.RenderPage(w, r, views.Page{
		SEO: seo.Input{
			Title:   vm.Title,
			Path:    "/interception_modal/lead-form",
			NoIndex: true,
		},
		Content: "lead_form_page",
		Data:    vm,
	})
}
