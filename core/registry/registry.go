package registry

import "sync"

// Registry is a keyed store whose keys can be frozen once their owner has
// consumed them.
type Registry struct {
	mu     sync.RWMutex
	values map[string]interface{}
	locked map[string]bool
}

// GlobalRegistry holds the process-wide extension registries.
var GlobalRegistry = New()

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		values: make(map[string]interface{}),
		locked: make(map[string]bool),
	}
}

// GetGlobal returns the value stored under key.
func (r *Registry) GetGlobal(key string) (interface{}, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	return v, ok
}

// SetGlobal stores v under key. Panics if key is locked.
func (r *Registry) SetGlobal(key string, v interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.locked[key] {
		panic("registry: " + key + " is locked")
	}
	r.values[key] = v
}

// Lock freezes key.
func (r *Registry) Lock(key string) {
	r.mu.Lock()
	r.locked[key] = true
	r.mu.Unlock()
}

func (r *Registry) IsLocked(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.locked[key]
}

// UnlockForTesting reopens key so tests can register and clean up.
func (r *Registry) UnlockForTesting(key string) {
	r.mu.Lock()
	delete(r.locked, key)
	r.mu.Unlock()
}
