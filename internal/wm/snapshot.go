package wm

import "github.com/1broseidon/fakeos/internal/tiling"

// WindowView is a read-only copy of one window for renderers.
type WindowView struct {
	ID    string `json:"id"`
	App   string `json:"app"`
	Title string `json:"title"`
	Label string `json:"label"`
	// Bounds is where the window is drawn; Restore is its own geometry.
	Bounds      tiling.Rect `json:"bounds"`
	Restore     tiling.Rect `json:"restore"`
	Status      Status      `json:"status"`
	Maximized   bool        `json:"maximized"`
	Z           int         `json:"z"`
	Transitions bool        `json:"transitions"`
}

// Snapshot is an idempotent projection of the manager state.
type Snapshot struct {
	Viewport tiling.Rect    `json:"viewport"`
	WorkArea tiling.Rect    `json:"work_area"`
	Windows  []WindowView   `json:"windows"`
	Stack    []string       `json:"stack"`
	Order    []string       `json:"order"`
	Taskbar  []TaskbarEntry `json:"taskbar"`
	Focused  string         `json:"focused,omitempty"`
	Gesture  string         `json:"gesture,omitempty"`
}

// Snapshot copies the current state. Windows are listed in provisioning
// order, Stack holds visible windows bottom to top and Order holds open
// windows in bind order.
func (m *Manager) Snapshot() Snapshot {
	s := Snapshot{
		Viewport: tiling.Rect{Width: m.opts.ViewportWidth, Height: m.opts.ViewportHeight},
		WorkArea: m.WorkArea(),
		Taskbar:  m.taskbar.Entries(),
		Focused:  m.focused,
	}
	if m.gesture != nil {
		s.Gesture = m.gesture.Kind.String()
	}
	for _, w := range m.registry.All() {
		s.Windows = append(s.Windows, WindowView{
			ID:          w.ID,
			App:         w.App,
			Title:       w.Title,
			Label:       w.Label,
			Bounds:      m.EffectiveBounds(w),
			Restore:     w.Bounds,
			Status:      w.Status,
			Maximized:   w.Maximized,
			Z:           w.Z,
			Transitions: w.Transitions,
		})
	}
	for _, w := range m.Stack() {
		s.Stack = append(s.Stack, w.ID)
	}
	for _, w := range m.registry.Bound() {
		s.Order = append(s.Order, w.ID)
	}
	return s
}

// Window returns the view for id.
func (s Snapshot) Window(id string) (WindowView, bool) {
	for _, w := range s.Windows {
		if w.ID == id {
			return w, true
		}
	}
	return WindowView{}, false
}
