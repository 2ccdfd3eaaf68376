// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/starterkit/internal/app/features/shared/views"
	"github.com/dalemusser/starterkit/internal/app/system/auth"
	"github.com/dalemusser/starterkit/internal/app/system/navigation"
	"go.uber.org/zap"
)

type Handler struct {
	Site       *views.Site
	SessionMgr *auth.SessionManager
	Log        *zap.Logger
}

func NewHandler(site *views.Site, sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Site:       site,
		SessionMgr: sessionMgr,
		Log:        logger,
	}
}

// ServeLogout handles POST /logout.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	before := auth.FromRequest(r).Authenticated

	// Clearing the flag expires the cookie.
	if err := h.SessionMgr.SetAuthenticated(w, r, false); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
	}

	if auth.IsHTMX(r) {
		h.Site.RenderAuthSwap(w, before, false)
		return
	}

	// Non-HTMX: standard redirect home.
	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.AuthBackURL), http.StatusSeeOther)
}
