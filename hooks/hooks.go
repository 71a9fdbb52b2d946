// Package hooks is a registry of named debug callbacks. Tools register
// callbacks under a hook name and the frame loop runs them by name.
package hooks

// Common hook names.
const (
	BeforeCapture = "before-capture"
	AfterCapture  = "after-capture"
	AfterRender   = "after-render"
)

// Handle identifies a registered callback.
type Handle struct {
	name string
	id   uint32
}

type entry struct {
	id uint32
	fn func()
}

// Registry holds callback lists keyed by hook name. It is not safe for
// concurrent use; the frame loop owns it.
type Registry struct {
	hooks  map[string][]entry
	nextID uint32
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{hooks: make(map[string][]entry)}
}

// Add appends fn to the named hook.
func (r *Registry) Add(name string, fn func()) Handle {
	r.nextID++
	r.hooks[name] = append(r.hooks[name], entry{id: r.nextID, fn: fn})
	return Handle{name: name, id: r.nextID}
}

// Remove unregisters the callback. Reports whether it was registered.
func (r *Registry) Remove(h Handle) bool {
	list := r.hooks[h.name]
	for i, e := range list {
		if e.id != h.id {
			continue
		}
		// Copy so a Run in progress keeps iterating its own snapshot.
		next := make([]entry, 0, len(list)-1)
		next = append(next, list[:i]...)
		next = append(next, list[i+1:]...)
		if len(next) == 0 {
			delete(r.hooks, h.name)
		} else {
			r.hooks[h.name] = next
		}
		return true
	}
	return false
}

// Run calls the named hook's callbacks in insertion order. Callbacks removed
// during the run are skipped if they have not run yet.
func (r *Registry) Run(name string) {
	snapshot := r.hooks[name]
	for _, e := range snapshot {
		if !r.registered(name, e.id) {
			continue
		}
		e.fn()
	}
}

// Len returns the number of callbacks on the named hook.
func (r *Registry) Len(name string) int {
	return len(r.hooks[name])
}

func (r *Registry) registered(name string, id uint32) bool {
	for _, e := range r.hooks[name] {
		if e.id == id {
			return true
		}
	}
	return false
}
