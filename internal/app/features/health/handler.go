package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/starterkit/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// PingFunc checks the cache storage backend. A nil PingFunc means the
// backend lives in process memory and is always reachable.
type PingFunc func(ctx context.Context) error

// Handler holds dependencies needed for health checks.
type Handler struct {
	Storage string
	Ping    PingFunc
	Mode    string
	Log     *zap.Logger
}

// NewHandler constructs a health Handler for the named storage backend.
func NewHandler(storage, mode string, ping PingFunc, logger *zap.Logger) *Handler {
	return &Handler{
		Storage: storage,
		Ping:    ping,
		Mode:    mode,
		Log:     logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Mode     string `json:"mode,omitempty"`
	Storage  string `json:"storage"`
	Database string `json:"database"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "storage":"sqlite", "database":"connected" }
//
// On storage failure: 503 and
//
//	{ "status":"error", "storage":"mongo", "database":"disconnected", "message":"Storage unavailable", "error":"…"}
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Mode:     h.Mode,
		Storage:  h.Storage,
		Database: "connected",
	}

	if h.Ping != nil {
		if err := h.Ping(ctx); err != nil {
			h.Log.Error("health-check: storage ping failed",
				zap.String("storage", h.Storage), zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			resp.Status = "error"
			resp.Database = "disconnected"
			resp.Message = "Storage unavailable"
			resp.Error = err.Error()
			_ = json.NewEncoder(w).Encode(resp)
			return
		}
	}

	_ = json.NewEncoder(w).Encode(resp)
}
