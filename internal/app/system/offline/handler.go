package offline

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClientCookie identifies the window that sent a navigation.
const ClientCookie = "starterkit-client"

// Handler intercepts requests with the active worker. Requests the worker
// does not intercept, and every request before a worker is active, go to
// Passthrough. Absolute-form requests for another host are refused: the
// edge only ever talks to Origin.
type Handler struct {
	Registry    *Registry
	Origin      *url.URL
	Passthrough http.Handler
	Log         *zap.Logger
}

// NewHandler builds the interceptor with a reverse proxy to origin as the
// passthrough.
func NewHandler(reg *Registry, origin *url.URL, logger *zap.Logger) *Handler {
	return &Handler{
		Registry:    reg,
		Origin:      origin,
		Passthrough: NewPassthrough(origin, logger),
		Log:         logger,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Origin != nil && !sameOrigin(r.URL, h.Origin) {
		h.Log.Info("refused cross-origin request", zap.String("method", r.Method), zap.String("host", r.URL.Host))
		http.Error(w, "Misdirected Request", http.StatusMisdirectedRequest)
		return
	}

	wk := h.Registry.Active()
	if wk == nil {
		h.Passthrough.ServeHTTP(w, r)
		return
	}

	res, ok := wk.Respond(r.Context(), r)
	if !ok {
		h.Passthrough.ServeHTTP(w, r)
		return
	}
	if IsNavigation(r) {
		h.trackClient(w, r, wk)
	}
	res.Write(w)
}

func (h *Handler) trackClient(w http.ResponseWriter, r *http.Request, wk *Worker) {
	id := ""
	if c, err := r.Cookie(ClientCookie); err == nil {
		id = c.Value
	}
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     ClientCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	wk.Clients().Touch(id, r.URL.Path)
}

// NewPassthrough returns a reverse proxy that sends every request to origin,
// whatever host the request names.
func NewPassthrough(origin *url.URL, logger *zap.Logger) http.Handler {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(origin)
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Info("passthrough failed", zap.String("method", r.Method), zap.String("url", r.URL.String()), zap.Error(err))
			w.WriteHeader(http.StatusBadGateway)
		},
	}
}
