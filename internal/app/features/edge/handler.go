// Package edge exposes the control surface of the offline worker: the
// message channel, push and notification events, background sync, update
// checks and worker state.
package edge

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dalemusser/starterkit/internal/app/system/offline"
	"github.com/dalemusser/starterkit/internal/app/system/timeouts"
	"go.uber.org/zap"
)

const maxEventBytes = 64 << 10

// Handler routes worker events to the registry's active worker.
type Handler struct {
	Registry *offline.Registry
	Log      *zap.Logger
}

func NewHandler(reg *offline.Registry, logger *zap.Logger) *Handler {
	return &Handler{Registry: reg, Log: logger}
}

type errorResponse struct {
	Error string `json:"error"`
}

// active returns the active worker or answers 503.
func (h *Handler) active(w http.ResponseWriter) *offline.Worker {
	wk := h.Registry.Active()
	if wk == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "no active worker"})
	}
	return wk
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxEventBytes)
	return io.ReadAll(r.Body)
}

// Message handles POST /_worker/message with {"type":..., "payload":{...}}.
// GET_CACHE_SIZE answers with {"type":"CACHE_SIZE","size":n}; every other
// message answers 204.
func (h *Handler) Message(w http.ResponseWriter, r *http.Request) {
	wk := h.active(w)
	if wk == nil {
		return
	}
	data, err := readBody(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unreadable body"})
		return
	}
	msg, err := offline.DecodeMessage(data)
	if err != nil {
		if errors.Is(err, offline.ErrUnknownMessage) {
			h.Log.Warn("unknown worker message", zap.Error(err))
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "worker message")
	defer cancel()
	reply, err := wk.HandleMessage(ctx, msg)
	if err != nil {
		h.Log.Error("worker message failed", zap.Stringer("type", msg.Kind), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if reply == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

// Push handles POST /_worker/push. The body is the push payload as sent by
// the push service; it may be empty or not JSON.
func (h *Handler) Push(w http.ResponseWriter, r *http.Request) {
	wk := h.active(w)
	if wk == nil {
		return
	}
	data, err := readBody(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unreadable body"})
		return
	}
	n := wk.HandlePush(data)
	writeJSON(w, http.StatusCreated, n)
}

type clickRequest struct {
	ID     string `json:"id"`
	Action string `json:"action"`
}

// NotificationClick handles POST /_worker/notificationclick.
func (h *Handler) NotificationClick(w http.ResponseWriter, r *http.Request) {
	wk := h.active(w)
	if wk == nil {
		return
	}
	var req clickRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	writeJSON(w, http.StatusOK, wk.HandleNotificationClick(req.ID, req.Action))
}

// Notifications handles GET /_worker/notifications.
func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	wk := h.active(w)
	if wk == nil {
		return
	}
	writeJSON(w, http.StatusOK, wk.Notifier().List())
}

type syncRequest struct {
	Tag string `json:"tag"`
}

// Sync handles POST /_worker/sync with {"tag": ...}.
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	wk := h.active(w)
	if wk == nil {
		return
	}
	var req syncRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "background sync")
	defer cancel()
	rep, err := wk.HandleSync(ctx, req.Tag)
	if err != nil {
		h.Log.Error("background sync failed", zap.String("tag", req.Tag), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

type updateResponse struct {
	Updated bool   `json:"updated"`
	Version string `json:"version"`
}

// Update handles POST /_worker/update: it checks for a new worker version
// and installs it when one is found.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "worker update")
	defer cancel()
	updated, err := h.Registry.Update(ctx)
	if err != nil {
		h.Log.Warn("worker update failed", zap.Error(err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	resp := updateResponse{Updated: updated}
	if wk := h.Registry.Active(); wk != nil {
		resp.Version = wk.Version()
	}
	writeJSON(w, http.StatusOK, resp)
}

type stateResponse struct {
	Version   string           `json:"version"`
	State     string           `json:"state"`
	Buckets   []string         `json:"buckets"`
	CacheSize int64            `json:"cache_size"`
	Clients   []offline.Client `json:"clients"`
}

// State handles GET /_worker/state.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	wk := h.active(w)
	if wk == nil {
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "cache size")
	defer cancel()
	writeJSON(w, http.StatusOK, stateResponse{
		Version:   wk.Version(),
		State:     wk.State().String(),
		Buckets:   wk.Names().Current(),
		CacheSize: wk.CacheSize(ctx),
		Clients:   wk.Clients().List(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
