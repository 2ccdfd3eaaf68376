// Package overlay implements the session-gated dynamic layout region.
//
// A Store holds one observable boolean. An Overlay mounted on a Store
// renders its children while the value is true and nothing while it is
// false, re-rendering whenever the value changes.
package overlay

import (
	"bytes"
	"html/template"
	"io"
	"sync"
)

// Store is an observable boolean.
type Store struct {
	mu    sync.RWMutex
	value bool
	subs  map[int]func(bool)
	next  int
}

// NewStore returns a Store seeded with initial.
func NewStore(initial bool) *Store {
	return &Store{value: initial, subs: make(map[int]func(bool))}
}

// Get returns the current value.
func (s *Store) Get() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set updates the value and notifies subscribers when it changes.
// Subscribers run synchronously, outside the store lock.
func (s *Store) Set(v bool) {
	s.mu.Lock()
	if s.value == v {
		s.mu.Unlock()
		return
	}
	s.value = v
	fns := make([]func(bool), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Subscribe registers fn for change notifications and returns a function
// that removes it.
func (s *Store) Subscribe(fn func(bool)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Component renders a piece of HTML.
type Component interface {
	Render(w io.Writer) error
}

// HTML is a Component that writes fixed markup.
type HTML template.HTML

func (h HTML) Render(w io.Writer) error {
	_, err := io.WriteString(w, string(h))
	return err
}

// Overlay is a mounted dynamic region.
type Overlay struct {
	store    *Store
	children Component

	mu     sync.RWMutex
	out    []byte
	err    error
	cancel func()
}

// Mount renders children against store and keeps the output current as the
// store changes. Call Unmount to stop following the store.
func Mount(store *Store, children Component) *Overlay {
	o := &Overlay{store: store, children: children}
	o.cancel = store.Subscribe(o.render)
	o.render(store.Get())
	return o
}

func (o *Overlay) render(visible bool) {
	var buf bytes.Buffer
	var err error
	if visible {
		err = o.children.Render(&buf)
	}

	o.mu.Lock()
	o.out, o.err = buf.Bytes(), err
	o.mu.Unlock()
}

// HTML returns the latest rendered output; empty while the store is false.
func (o *Overlay) HTML() template.HTML {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return template.HTML(o.out)
}

// Err returns the error from the latest render, if any.
func (o *Overlay) Err() error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.err
}

// Unmount stops following the store.
func (o *Overlay) Unmount() {
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}

// Render writes the latest output to w.
func (o *Overlay) Render(w io.Writer) error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.err != nil {
		return o.err
	}
	_, err := w.Write(o.out)
	return err
}
