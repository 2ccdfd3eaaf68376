// internal/app/features/pages/view.go
package pages

import (
	"net/http"

	"github.com/dalemusser/starterkit/internal/app/features/shared/views"
	"github.com/dalemusser/starterkit/internal/app/system/seo"
)

type pageViewVM struct {
	ID          string
	Title       string
	Description string
	Paragraphs  []string
	Crumbs      []seo.Crumb
}

// ServePage returns the handler for the page at path. Pages the profile
// marks unpublished are still served but not indexed.
func (h *Handler) ServePage(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pc, ok := findCopy(path)
		if !ok {
			h.Errors.NotFound(w, r)
			return
		}

		vm := pageViewVM{
			ID:          pc.ID,
			Title:       pc.Title,
			Description: pc.Description,
			Paragraphs:  pc.Paragraphs,
		}
		noIndex := false
		if pg, ok := h.Site.Profile.FindPage(path); ok {
			vm.Title = pg.Title
			vm.Description = pg.Description
			noIndex = !pg.Published
		}

		vm.Crumbs = []seo.Crumb{{Name: "Home", URL: "/"}}
		if pc.Parent.Name != "" {
			vm.Crumbs = append(vm.Crumbs, pc.Parent)
		}
		vm.Crumbs = append(vm.Crumbs, seo.Crumb{Name: vm.Title, URL: path})

		jsonld := []any{seo.BuildBreadcrumbs(h.Site.Profile, vm.Crumbs)}
		if len(pc.FAQ) > 0 {
			jsonld = append(jsonld, seo.BuildFAQ(pc.FAQ))
		}

		h.Site.RenderPage(w, r, views.Page{
			SEO: seo.Input{
				Title:       vm.Title,
				Description: vm.Description,
				Path:        path,
				NoIndex:     noIndex,
			},
			Content: "page",
			Data:    vm,
			JSONLD:  jsonld,
		})
	}
}
