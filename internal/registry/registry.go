// Package registry maps stable entity ids to the opaque runtime handles the
// rendering engine returns for instantiated entities. It is the single
// source of truth for what is currently rendered; it owns no rendering
// resources, only the association.
package registry

import "sync"

// Registry is a non-owning id -> handle map. Multiple logical ids (for
// example the two derived wall faces) may map to distinct handles.
type Registry struct {
	mu      sync.RWMutex
	handles map[string]any
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{handles: make(map[string]any)}
}

// Set associates a handle with an id, replacing any previous association.
func (r *Registry) Set(id string, handle any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handles[id] = handle
}

// Get returns the handle for an id, if present.
func (r *Registry) Get(id string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handle, ok := r.handles[id]
	return handle, ok
}

// Has reports whether an id is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handles[id]
	return ok
}

// Remove drops the association for an id.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handles, id)
}

// IDs returns the registered ids in unspecified order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.handles))
	for id := range r.handles {
		ids = append(ids, id)
	}
	return ids
}

// Len returns the number of registered handles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handles)
}
