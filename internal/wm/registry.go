package wm

import (
	"slices"

	"github.com/1broseidon/fakeos/internal/tiling"
)

// Registry maps window ids to window state.
//
// Every installed app has a provisioned window. Opening an app binds its
// window; closing unbinds it. The bind order is the order used by
// SwitchWindows, so a closed-then-reopened window moves to the end.
type Registry struct {
	windows     map[string]*Window
	provisioned []string
	bound       []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{windows: make(map[string]*Window)}
}

// Provision creates the window record for an installed app. Provisioning an
// existing id returns the existing window unchanged.
func (r *Registry) Provision(id, app, title string, bounds tiling.Rect, z int) *Window {
	if w, ok := r.windows[id]; ok {
		return w
	}
	w := newWindow(id, app, title, bounds, z)
	r.windows[id] = w
	r.provisioned = append(r.provisioned, id)
	return w
}

// Register binds a provisioned window. It is idempotent: registering a bound
// window returns it without changing the bind order.
func (r *Registry) Register(id string) (*Window, bool) {
	w, ok := r.windows[id]
	if !ok {
		return nil, false
	}
	if !slices.Contains(r.bound, id) {
		r.bound = append(r.bound, id)
	}
	return w, true
}

// Get returns the provisioned window with the given id.
func (r *Registry) Get(id string) (*Window, bool) {
	w, ok := r.windows[id]
	return w, ok
}

// ByApp returns the window provisioned for app.
func (r *Registry) ByApp(app string) (*Window, bool) {
	for _, id := range r.provisioned {
		if w := r.windows[id]; w.App == app {
			return w, true
		}
	}
	return nil, false
}

// Remove unbinds a window. The provisioned record persists. Unknown ids are
// ignored.
func (r *Registry) Remove(id string) {
	if i := slices.Index(r.bound, id); i >= 0 {
		r.bound = slices.Delete(r.bound, i, i+1)
	}
}

// IsBound reports whether the window is currently bound.
func (r *Registry) IsBound(id string) bool {
	return slices.Contains(r.bound, id)
}

// Bound returns bound windows in bind order.
func (r *Registry) Bound() []*Window {
	out := make([]*Window, 0, len(r.bound))
	for _, id := range r.bound {
		out = append(out, r.windows[id])
	}
	return out
}

// All returns every provisioned window in provisioning order.
func (r *Registry) All() []*Window {
	out := make([]*Window, 0, len(r.provisioned))
	for _, id := range r.provisioned {
		out = append(out, r.windows[id])
	}
	return out
}
