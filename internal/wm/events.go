package wm

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/1broseidon/fakeos/internal/config"
)

// Region is the part of the desktop under a pointer.
type Region int

const (
	RegionNone Region = iota
	RegionDesktop
	RegionTaskbar
	RegionTitlebar
	RegionMinimize
	RegionMaximize
	RegionClose
	RegionResize
	RegionContent
)

var regionNames = [...]string{"none", "desktop", "taskbar", "titlebar", "minimize", "maximize", "close", "resize", "content"}

// String returns the string representation of the region
func (r Region) String() string {
	if int(r) < len(regionNames) {
		return regionNames[r]
	}
	return "unknown"
}

func (r Region) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Hit is the result of hit-testing a desktop point.
type Hit struct {
	WindowID string `json:"window_id,omitempty"`
	Region   Region `json:"region"`
	// LocalX and LocalY are relative to the window's drawn top-left corner.
	LocalX int `json:"local_x,omitempty"`
	LocalY int `json:"local_y,omitempty"`
}

// Stack returns visible windows from bottom to top. Windows sharing a z-order
// stack in provisioning order.
func (m *Manager) Stack() []*Window {
	var visible []*Window
	for _, w := range m.registry.All() {
		if w.Visible() {
			visible = append(visible, w)
		}
	}
	slices.SortStableFunc(visible, func(a, b *Window) int { return cmp.Compare(a.Z, b.Z) })
	return visible
}

// HitTest finds what lies under the point. The taskbar is drawn above every
// window.
func (m *Manager) HitTest(px, py int) Hit {
	if px < 0 || py < 0 || px >= m.opts.ViewportWidth || py >= m.opts.ViewportHeight {
		return Hit{Region: RegionNone}
	}
	if py >= m.opts.ViewportHeight-m.opts.TaskbarHeight {
		return Hit{Region: RegionTaskbar}
	}

	stack := m.Stack()
	for i := len(stack) - 1; i >= 0; i-- {
		w := stack[i]
		r := m.EffectiveBounds(w)
		if !r.Contains(px, py) {
			continue
		}
		return Hit{
			WindowID: w.ID,
			Region:   m.windowRegion(w, px, py),
			LocalX:   px - r.X,
			LocalY:   py - r.Y,
		}
	}
	return Hit{Region: RegionDesktop}
}

// windowRegion classifies a point inside w. The resize corner wins over the
// titlebar so short windows can still be resized.
func (m *Manager) windowRegion(w *Window, px, py int) Region {
	r := m.EffectiveBounds(w)
	handle := m.opts.ResizeHandle
	if !w.Maximized && px >= r.Right()-handle && py >= r.Bottom()-handle {
		return RegionResize
	}
	if py >= r.Y+m.opts.TitlebarHeight {
		return RegionContent
	}
	if cw := m.opts.ControlWidth; cw > 0 && px >= r.Right()-3*cw {
		switch (r.Right() - 1 - px) / cw {
		case 0:
			return RegionClose
		case 1:
			return RegionMaximize
		default:
			return RegionMinimize
		}
	}
	return RegionTitlebar
}

// EventType names an input event.
type EventType string

const (
	EventPointerDown EventType = "pointer_down"
	EventPointerMove EventType = "pointer_move"
	EventPointerUp   EventType = "pointer_up"
	EventKey         EventType = "key"
	EventOpen        EventType = "open"
	EventClose       EventType = "close"
	EventMinimize    EventType = "minimize"
	EventMaximize    EventType = "maximize"
	EventFocus       EventType = "focus"
	EventTaskbar     EventType = "taskbar"
	EventSwitch      EventType = "switch"
	EventArrange     EventType = "arrange"
	EventViewport    EventType = "viewport"
)

// Event is one input to the window manager.
type Event struct {
	Type EventType `json:"type"`
	// X and Y are the pointer position for pointer events.
	X int `json:"x,omitempty"`
	Y int `json:"y,omitempty"`
	// Key is the key chord for key events, e.g. "alt+tab".
	Key string `json:"key,omitempty"`
	// Target is a window id or app name for window commands.
	Target string             `json:"target,omitempty"`
	Mode   config.ArrangeMode `json:"mode,omitempty"`
	Width  int                `json:"width,omitempty"`
	Height int                `json:"height,omitempty"`
}

// Outcome reports what Dispatch did with an event.
type Outcome struct {
	Hit     Hit  `json:"hit"`
	Handled bool `json:"handled"`
}

// Dispatch applies one input event. Events addressed to unknown windows
// change nothing and return an error wrapping ErrUnknownWindow or
// ErrUnknownApp; callers that model a UI may ignore it.
func (m *Manager) Dispatch(ev Event) (Outcome, error) {
	switch ev.Type {
	case EventPointerDown:
		return m.pointerDown(ev.X, ev.Y), nil
	case EventPointerMove:
		return Outcome{Handled: m.MovePointer(ev.X, ev.Y)}, nil
	case EventPointerUp:
		_, active := m.Gesture()
		m.EndGesture()
		return Outcome{Handled: active}, nil
	case EventKey:
		if ev.Key == "alt+tab" {
			m.SwitchWindows()
			return Outcome{Handled: true}, nil
		}
		return Outcome{}, nil
	case EventOpen:
		return handled(m.Open(ev.Target))
	case EventClose:
		return handled(m.Close(ev.Target))
	case EventMinimize:
		return handled(m.Minimize(ev.Target))
	case EventMaximize:
		return handled(m.ToggleMaximize(ev.Target))
	case EventFocus:
		return handled(m.Focus(ev.Target))
	case EventTaskbar:
		return handled(m.ActivateTaskbarEntry(ev.Target))
	case EventSwitch:
		m.SwitchWindows()
		return Outcome{Handled: true}, nil
	case EventArrange:
		mode := ev.Mode
		if mode == "" {
			mode = config.ArrangeGrid
		}
		return handled(m.Arrange(mode))
	case EventViewport:
		return handled(m.SetViewport(ev.Width, ev.Height))
	default:
		return Outcome{}, fmt.Errorf("unknown event type %q", ev.Type)
	}
}

func handled(err error) (Outcome, error) {
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Handled: true}, nil
}

// pointerDown raises the window under the pointer and starts whatever its
// region calls for.
func (m *Manager) pointerDown(px, py int) Outcome {
	hit := m.HitTest(px, py)
	out := Outcome{Hit: hit}
	if hit.WindowID == "" {
		return out
	}

	_ = m.BringToFront(hit.WindowID)
	out.Handled = true
	switch hit.Region {
	case RegionResize:
		m.BeginResize(hit.WindowID, px, py)
	case RegionTitlebar:
		m.BeginDrag(hit.WindowID, px, py)
	case RegionMinimize:
		_ = m.Minimize(hit.WindowID)
	case RegionMaximize:
		_ = m.ToggleMaximize(hit.WindowID)
	case RegionClose:
		_ = m.Close(hit.WindowID)
	}
	return out
}
