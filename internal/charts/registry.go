package charts

import (
	"encoding/json"
	"sync"
)

// Handle owns one rendered chart. Options is the ECharts option object.
type Handle struct {
	ID       string          `json:"id"`
	Kind     Kind            `json:"kind"`
	Options  json.RawMessage `json:"options"`
	disposed bool
}

// Dispose releases the chart payload. It is safe to call more than once.
func (h *Handle) Dispose() {
	if h == nil {
		return
	}
	h.disposed = true
	h.Options = nil
}

// Disposed reports whether Dispose has been called.
func (h *Handle) Disposed() bool {
	return h == nil || h.disposed
}

// Registry maps stable chart ids to the handle currently rendered under that id.
type Registry struct {
	mu      sync.Mutex
	handles map[string]*Handle
	order   []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handles: make(map[string]*Handle)}
}

// Replace installs h under its id, disposing the previous handle first.
// It reports whether a previous handle existed.
func (r *Registry) Replace(h *Handle) bool {
	if h == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.handles[h.ID]
	if ok {
		prev.Dispose()
	} else {
		r.order = append(r.order, h.ID)
	}
	r.handles[h.ID] = h
	return ok
}

// Remove disposes and forgets the handle for id.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.handles[id]
	if !ok {
		return
	}
	h.Dispose()
	delete(r.handles, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Get returns the live handle for id.
func (r *Registry) Get(id string) (*Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.handles[id]
	return h, ok
}

// Handles lists live handles in first-registration order.
func (r *Registry) Handles() []*Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Handle, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.handles[id])
	}
	return out
}

// DisposeAll releases every handle, empties the registry and returns how many were released.
func (r *Registry) DisposeAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.handles)
	for _, h := range r.handles {
		h.Dispose()
	}
	r.handles = make(map[string]*Handle)
	r.order = nil
	return n
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}
