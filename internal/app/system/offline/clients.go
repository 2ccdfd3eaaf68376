package offline

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Client is an open window controlled, or waiting to be controlled, by a
// worker.
type Client struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	Focused    bool      `json:"focused"`
	Controller string    `json:"controller,omitempty"`
	SeenAt     time.Time `json:"seen_at"`

	seq uint64 // touch order, for eviction
}

// Client table limits used by NewClients.
const (
	DefaultMaxClients = 1000
	DefaultClientTTL  = 24 * time.Hour
)

// Clients tracks open windows. Clients not seen for ttl are forgotten, and
// the least recently seen client is dropped when a new one would exceed max.
type Clients struct {
	mu         sync.Mutex
	byID       map[string]*Client
	controller string
	seq        uint64
	max        int
	ttl        time.Duration
}

func NewClients() *Clients {
	return NewClientsWithLimits(DefaultMaxClients, DefaultClientTTL)
}

// NewClientsWithLimits returns a table holding at most max clients, each
// kept for ttl after it was last seen. Zero values disable a limit.
func NewClientsWithLimits(max int, ttl time.Duration) *Clients {
	return &Clients{byID: make(map[string]*Client), max: max, ttl: ttl}
}

// Touch records that the client id is showing url, creating it when needed.
// New clients are controlled by the most recent claimant.
func (c *Clients) Touch(id, url string) Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now().UTC()
	cl, ok := c.byID[id]
	if !ok {
		c.makeRoom(now)
		cl = &Client{ID: id, Controller: c.controller}
		c.byID[id] = cl
	}
	cl.URL = url
	cl.SeenAt = now
	c.seq++
	cl.seq = c.seq
	return *cl
}

// Open creates a new client at url and focuses it.
func (c *Clients) Open(url string) Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now().UTC()
	c.makeRoom(now)
	for _, cl := range c.byID {
		cl.Focused = false
	}
	cl := &Client{
		ID:         uuid.NewString(),
		URL:        url,
		Focused:    true,
		Controller: c.controller,
		SeenAt:     now,
	}
	c.seq++
	cl.seq = c.seq
	c.byID[cl.ID] = cl
	return *cl
}

// FocusOrOpen focuses the first client at url, or opens one. opened reports
// whether a new client was created.
func (c *Clients) FocusOrOpen(url string) (cl Client, opened bool) {
	c.mu.Lock()
	var match *Client
	for _, id := range c.sortedIDs() {
		if c.byID[id].URL == url {
			match = c.byID[id]
			break
		}
	}
	if match != nil {
		for _, other := range c.byID {
			other.Focused = false
		}
		match.Focused = true
		out := *match
		c.mu.Unlock()
		return out, false
	}
	c.mu.Unlock()
	return c.Open(url), true
}

// Claim makes version the controller of every client and returns how many
// clients there are.
func (c *Clients) Claim(version string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = version
	for _, cl := range c.byID {
		cl.Controller = version
	}
	return len(c.byID)
}

// List returns the clients ordered by ID.
func (c *Clients) List() []Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Client, 0, len(c.byID))
	for _, id := range c.sortedIDs() {
		out = append(out, *c.byID[id])
	}
	return out
}

func (c *Clients) sortedIDs() []string {
	ids := make([]string, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// makeRoom drops expired clients, then the least recently seen ones until a
// new client fits. Callers hold mu.
func (c *Clients) makeRoom(now time.Time) {
	if c.ttl > 0 {
		for id, cl := range c.byID {
			if now.Sub(cl.SeenAt) > c.ttl {
				delete(c.byID, id)
			}
		}
	}
	if c.max <= 0 {
		return
	}
	for len(c.byID) >= c.max {
		var oldest *Client
		for _, cl := range c.byID {
			if oldest == nil || cl.seq < oldest.seq {
				oldest = cl
			}
		}
		delete(c.byID, oldest.ID)
	}
}
