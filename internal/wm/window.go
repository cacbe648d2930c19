package wm

import (
	"errors"

	"github.com/1broseidon/fakeos/internal/tiling"
)

var (
	// ErrUnknownApp is returned when no window is provisioned for an app.
	ErrUnknownApp = errors.New("unknown app")
	// ErrUnknownWindow is returned when a window id is not provisioned.
	ErrUnknownWindow = errors.New("window not found")
)

// Window is the state of one provisioned application window.
type Window struct {
	ID    string
	App   string
	Title string
	Label string

	// Bounds is the restored geometry. A maximized window keeps its bounds
	// untouched and is drawn over the work area instead.
	Bounds    tiling.Rect
	Status    Status
	Maximized bool
	Z         int

	// Transitions is false while a drag is in progress so the window tracks
	// the pointer without animation.
	Transitions bool
}

func newWindow(id, app, title string, bounds tiling.Rect, z int) *Window {
	return &Window{
		ID:          id,
		App:         app,
		Title:       title,
		Bounds:      bounds,
		Status:      StatusClosed,
		Z:           z,
		Transitions: true,
	}
}

func (w *Window) Visible() bool { return w.Status.Visible() }

func (w *Window) Focused() bool { return w.Status == StatusFocused }

func (w *Window) apply(a Action) {
	w.Status = Transition(w.Status, a)
}
