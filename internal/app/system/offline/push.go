package offline

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationAction is a button on a notification.
type NotificationAction struct {
	Action string `json:"action"`
	Title  string `json:"title"`
}

// Notification is a notification shown by the worker.
type Notification struct {
	ID                 string               `json:"id"`
	Title              string               `json:"title"`
	Body               string               `json:"body"`
	Icon               string               `json:"icon"`
	Badge              string               `json:"badge"`
	Tag                string               `json:"tag"`
	RequireInteraction bool                 `json:"requireInteraction"`
	Actions            []NotificationAction `json:"actions"`
	ShownAt            time.Time            `json:"shown_at"`
}

// PushPayload is the JSON body of a push message. Every field is optional.
type PushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon"`
	Badge string `json:"badge"`
}

// Notifier holds the notifications currently on screen. Showing a
// notification replaces any other with the same tag.
type Notifier struct {
	mu    sync.Mutex
	shown map[string]Notification
}

func NewNotifier() *Notifier {
	return &Notifier{shown: make(map[string]Notification)}
}

// Show displays n, assigning an ID when it has none.
func (nt *Notifier) Show(n Notification) Notification {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.ShownAt.IsZero() {
		n.ShownAt = time.Now().UTC()
	}
	nt.mu.Lock()
	defer nt.mu.Unlock()
	if n.Tag != "" {
		for id, old := range nt.shown {
			if old.Tag == n.Tag {
				delete(nt.shown, id)
			}
		}
	}
	nt.shown[n.ID] = n
	return n
}

// Close removes the notification and reports whether it was shown.
func (nt *Notifier) Close(id string) (Notification, bool) {
	nt.mu.Lock()
	defer nt.mu.Unlock()
	n, ok := nt.shown[id]
	delete(nt.shown, id)
	return n, ok
}

// List returns the shown notifications, oldest first.
func (nt *Notifier) List() []Notification {
	nt.mu.Lock()
	defer nt.mu.Unlock()
	out := make([]Notification, 0, len(nt.shown))
	for _, n := range nt.shown {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ShownAt.Before(out[j].ShownAt) })
	return out
}

// HandlePush shows a notification for a push payload. Missing fields and
// undecodable payloads fall back to the defaults.
func (w *Worker) HandlePush(data []byte) Notification {
	var p PushPayload
	if len(data) > 0 {
		if err := json.Unmarshal(data, &p); err != nil {
			w.log.Warn("push payload is not JSON, using defaults", zap.Error(err))
			p = PushPayload{}
		}
	}

	n := Notification{
		Title:              firstNonEmpty(p.Title, w.cfg.AppName),
		Body:               firstNonEmpty(p.Body, "New notification"),
		Icon:               firstNonEmpty(p.Icon, w.cfg.Icon),
		Badge:              firstNonEmpty(p.Badge, w.cfg.Badge),
		Tag:                w.cfg.CachePrefix + "-notification",
		RequireInteraction: false,
		Actions: []NotificationAction{
			{Action: "open", Title: "Open"},
			{Action: "close", Title: "Close"},
		},
	}
	return w.notifier.Show(n)
}

// ClickResult describes what a notification click did.
type ClickResult struct {
	Closed bool    `json:"closed"`
	Client *Client `json:"client,omitempty"`
	Opened bool    `json:"opened"`
}

// HandleNotificationClick closes the notification. For any action other
// than "close" it focuses a client at "/" or opens one.
func (w *Worker) HandleNotificationClick(id, action string) ClickResult {
	_, closed := w.notifier.Close(id)
	res := ClickResult{Closed: closed}
	if action == "close" {
		return res
	}
	cl, opened := w.clients.FocusOrOpen("/")
	res.Client = &cl
	res.Opened = opened
	return res
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
