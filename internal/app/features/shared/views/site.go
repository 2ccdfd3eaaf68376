package views

import (
	"html/template"
	"net/http"

	"github.com/dalemusser/starterkit/internal/app/system/auth"
	"github.com/dalemusser/starterkit/internal/app/system/overlay"
	"github.com/dalemusser/starterkit/internal/app/system/seo"
	"github.com/dalemusser/starterkit/internal/app/system/siteconfig"
	"go.uber.org/zap"
)

// NavLink is one entry of the header navigation.
type NavLink struct {
	Title string
	Href  string
}

// Layout is the view model of the root document. The three regions are
// rendered independently and composed side by side.
type Layout struct {
	Lang          string
	SiteName      string
	Head          template.HTML
	JSONLD        []template.HTML
	Nav           []NavLink
	Authenticated bool

	Static  template.HTML
	Dynamic template.HTML
	Modal   template.HTML
}

// Page describes one full-page render.
type Page struct {
	Status  int
	SEO     seo.Input
	Content string // template name for the static region
	Data    any
	Modal   template.HTML
	JSONLD  []any
}

// Site renders pages for one site profile.
type Site struct {
	Profile siteconfig.Profile
	Env     siteconfig.PublicEnv
	Views   *Renderer
	Log     *zap.Logger
}

func NewSite(p siteconfig.Profile, env siteconfig.PublicEnv, views *Renderer, logger *zap.Logger) *Site {
	return &Site{Profile: p, Env: env, Views: views, Log: logger}
}

// MountDynamic mounts the dynamic region on a store seeded with
// authenticated. The caller must Unmount the overlay.
func (s *Site) MountDynamic(authenticated bool) (*overlay.Store, *overlay.Overlay) {
	store := overlay.NewStore(authenticated)
	ov := overlay.Mount(store, s.Views.Component("dynamic_overlay", nil))
	return store, ov
}

// RenderPage renders p inside the root layout. The dynamic region follows
// the session carried by r.
func (s *Site) RenderPage(w http.ResponseWriter, r *http.Request, p Page) {
	status := p.Status
	if status == 0 {
		status = http.StatusOK
	}

	static, err := s.Views.Snippet(p.Content, p.Data)
	if err != nil {
		s.Views.fail(w, err)
		return
	}

	meta := seo.Construct(s.Profile, s.Env, p.SEO)
	head, err := seo.HeadHTML(meta, s.Profile.Name)
	if err != nil {
		s.Views.fail(w, err)
		return
	}

	var scripts []template.HTML
	for _, doc := range p.JSONLD {
		tag, err := seo.ScriptTag(doc)
		if err != nil {
			s.Views.fail(w, err)
			return
		}
		scripts = append(scripts, tag)
	}

	sc := auth.FromRequest(r)
	_, ov := s.MountDynamic(sc.Authenticated)
	defer ov.Unmount()
	if err := ov.Err(); err != nil {
		s.Views.fail(w, err)
		return
	}

	s.Views.RenderLayout(w, status, Layout{
		Lang:          meta.Lang,
		SiteName:      s.Profile.Name,
		Head:          head,
		JSONLD:        scripts,
		Nav:           s.Nav(),
		Authenticated: sc.Authenticated,
		Static:        static,
		Dynamic:       ov.HTML(),
		Modal:         p.Modal,
	})
}

// Nav lists the published navigation pages.
func (s *Site) Nav() []NavLink {
	pages := s.Profile.PublishedPages()
	links := make([]NavLink, 0, len(pages))
	for _, pg := range pages {
		links = append(links, NavLink{Title: pg.Title, Href: pg.Href})
	}
	return links
}

// RenderAuthSwap answers an htmx login or logout. The dynamic region is
// mounted with the previous flag and flipped, so the overlay re-renders from
// the store change; the new region and header controls are sent back.
func (s *Site) RenderAuthSwap(w http.ResponseWriter, before, after bool) {
	store, ov := s.MountDynamic(before)
	defer ov.Unmount()
	store.Set(after)
	if err := ov.Err(); err != nil {
		s.Views.fail(w, err)
		return
	}
	s.Views.RenderSnippet(w, http.StatusOK, "auth_swap", struct {
		Dynamic       template.HTML
		Authenticated bool
	}{ov.HTML(), after})
}
