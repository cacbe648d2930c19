package wm

import "github.com/1broseidon/fakeos/internal/tiling"

// GestureKind identifies the pointer gesture in progress.
type GestureKind int

const (
	GestureNone GestureKind = iota
	GestureDrag
	GestureResize
)

// String returns the string representation of the gesture kind
func (k GestureKind) String() string {
	switch k {
	case GestureDrag:
		return "drag"
	case GestureResize:
		return "resize"
	default:
		return ""
	}
}

// Gesture is the state of one pointer-down to pointer-up interaction.
type Gesture struct {
	Kind     GestureKind
	WindowID string

	// Drag: pointer position relative to the window's top-left corner.
	OffsetX int
	OffsetY int

	// Resize: pointer and window size when the gesture began.
	StartX      int
	StartY      int
	StartWidth  int
	StartHeight int
}

// Gesture returns the active gesture, if any.
func (m *Manager) Gesture() (Gesture, bool) {
	if m.gesture == nil {
		return Gesture{}, false
	}
	return *m.gesture, true
}

// BeginDrag starts dragging a shown, non-maximized window. The pointer offset
// inside the window is kept for the whole gesture.
func (m *Manager) BeginDrag(id string, px, py int) bool {
	w, ok := m.registry.Get(id)
	if !ok || !w.Visible() || w.Maximized {
		return false
	}
	m.gesture = &Gesture{
		Kind:     GestureDrag,
		WindowID: id,
		OffsetX:  px - w.Bounds.X,
		OffsetY:  py - w.Bounds.Y,
	}
	w.Transitions = false
	return true
}

// BeginResize starts resizing a shown, non-maximized window.
func (m *Manager) BeginResize(id string, px, py int) bool {
	w, ok := m.registry.Get(id)
	if !ok || !w.Visible() || w.Maximized {
		return false
	}
	m.gesture = &Gesture{
		Kind:        GestureResize,
		WindowID:    id,
		StartX:      px,
		StartY:      py,
		StartWidth:  w.Bounds.Width,
		StartHeight: w.Bounds.Height,
	}
	return true
}

// MovePointer advances the active gesture. It reports whether the window's
// geometry changed.
func (m *Manager) MovePointer(px, py int) bool {
	if m.gesture == nil {
		return false
	}
	w, ok := m.registry.Get(m.gesture.WindowID)
	if !ok {
		m.gesture = nil
		return false
	}

	before := w.Bounds
	switch m.gesture.Kind {
	case GestureDrag:
		w.Bounds = m.dragTo(w.Bounds, px-m.gesture.OffsetX, py-m.gesture.OffsetY)
	case GestureResize:
		width := m.gesture.StartWidth + (px - m.gesture.StartX)
		height := m.gesture.StartHeight + (py - m.gesture.StartY)
		if width > m.opts.MinWidth && height > m.opts.MinHeight {
			w.Bounds.Width = width
			w.Bounds.Height = height
		}
	}
	return w.Bounds != before
}

// dragTo clamps the new top-left so the window stays inside the viewport
// above the taskbar band.
func (m *Manager) dragTo(r tiling.Rect, x, y int) tiling.Rect {
	r.X = max(0, min(x, m.opts.ViewportWidth-r.Width))
	r.Y = max(0, min(y, m.opts.ViewportHeight-r.Height-m.opts.TaskbarHeight))
	return r
}

// EndGesture finishes the active gesture and restores transitions.
func (m *Manager) EndGesture() {
	if m.gesture == nil {
		return
	}
	g := *m.gesture
	m.gesture = nil
	w, ok := m.registry.Get(g.WindowID)
	if !ok {
		return
	}
	w.Transitions = true
	m.emit(g.Kind.String(), w.ID, "")
}

// cancelGesture drops a gesture on id without reporting it.
func (m *Manager) cancelGesture(id string) {
	if m.gesture == nil || m.gesture.WindowID != id {
		return
	}
	m.gesture = nil
	if w, ok := m.registry.Get(id); ok {
		w.Transitions = true
	}
}
