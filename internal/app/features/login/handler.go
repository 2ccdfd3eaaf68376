// internal/app/features/login/handler.go
package login

import (
	"net/http"

	"github.com/dalemusser/starterkit/internal/app/features/shared/views"
	"github.com/dalemusser/starterkit/internal/app/system/auth"
	"github.com/dalemusser/starterkit/internal/app/system/navigation"
	"go.uber.org/zap"
)

// Handler sets the display-only authenticated flag. No credentials are
// checked.
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

// HandleLoginPost handles POST /login.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	before := auth.FromRequest(r).Authenticated

	if err := h.SessionMgr.SetAuthenticated(w, r, true); err != nil {
		h.Log.Error("login: save session", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.Log.Info("mock login", zap.Bool("was_authenticated", before))

	// HTMX: swap the dynamic region in place.
	if auth.IsHTMX(r) {
		h.Site.RenderAuthSwap(w, before, true)
		return
	}
	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.AuthBackURL), http.StatusSeeOther)
}
