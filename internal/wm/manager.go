package wm

import (
	"fmt"
	"slices"

	"github.com/1broseidon/fakeos/internal/config"
	"github.com/1broseidon/fakeos/internal/tiling"
)

// Options holds the geometry constants the manager works with. All values are
// desktop pixels.
type Options struct {
	ViewportWidth  int
	ViewportHeight int
	// TaskbarHeight is the band at the bottom of the viewport that windows
	// may not be dragged into.
	TaskbarHeight  int
	TitlebarHeight int
	// ResizeHandle is the size of the square hit region in a window's
	// bottom-right corner.
	ResizeHandle int
	// ControlWidth is the width of each titlebar button. The three buttons
	// (minimize, maximize, close) sit at the right end of the titlebar.
	ControlWidth int
	// MinWidth and MinHeight are exclusive lower bounds for resize.
	MinWidth  int
	MinHeight int
	BaselineZ int
	FrontZ    int
	Gap       int
}

// DefaultOptions returns options matching the default configuration.
func DefaultOptions() Options {
	return OptionsFromConfig(config.DefaultConfig())
}

// OptionsFromConfig derives manager options from the effective config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ViewportWidth:  cfg.Viewport.Width,
		ViewportHeight: cfg.Viewport.Height,
		TaskbarHeight:  cfg.TaskbarHeight,
		TitlebarHeight: cfg.TitlebarHeight,
		ResizeHandle:   cfg.ResizeHandle,
		ControlWidth:   cfg.ControlWidth,
		MinWidth:       cfg.MinWindow.Width,
		MinHeight:      cfg.MinWindow.Height,
		BaselineZ:      cfg.ZOrder.Baseline,
		FrontZ:         cfg.ZOrder.Front,
		Gap:            cfg.Arrange.Gap,
	}
}

// Change describes one state change made by the manager.
type Change struct {
	Action   string
	WindowID string
	Detail   string
}

// Manager owns the window registry and the taskbar and is the only thing that
// mutates them. It is not safe for concurrent use; callers serialize access.
type Manager struct {
	opts     Options
	registry *Registry
	taskbar  *Taskbar
	focused  string
	gesture  *Gesture
	observer func(Change)
}

// NewManager creates a manager with one provisioned window per app.
func NewManager(opts Options, apps []config.AppConfig) *Manager {
	m := &Manager{
		opts:     opts,
		registry: NewRegistry(),
		taskbar:  &Taskbar{},
	}
	for _, app := range apps {
		bounds := tiling.Rect{X: app.X, Y: app.Y, Width: app.Width, Height: app.Height}
		w := m.registry.Provision(app.WindowID(), app.Name, app.Title, bounds, opts.BaselineZ)
		w.Label = app.Label
		w.Bounds = tiling.ClampToArea(w.Bounds, m.WorkArea())
	}
	return m
}

// SetObserver installs a callback invoked after every state change.
func (m *Manager) SetObserver(fn func(Change)) {
	m.observer = fn
}

func (m *Manager) emit(action, id, detail string) {
	if m.observer != nil {
		m.observer(Change{Action: action, WindowID: id, Detail: detail})
	}
}

func (m *Manager) Options() Options { return m.opts }

func (m *Manager) Registry() *Registry { return m.registry }

func (m *Manager) Taskbar() *Taskbar { return m.taskbar }

// Focused returns the id of the focused window, or "" when nothing has focus.
func (m *Manager) Focused() string { return m.focused }

// WorkArea is the viewport minus the taskbar band.
func (m *Manager) WorkArea() tiling.Rect {
	return tiling.Rect{
		Width:  m.opts.ViewportWidth,
		Height: m.opts.ViewportHeight - m.opts.TaskbarHeight,
	}
}

// EffectiveBounds returns where the window is drawn: the work area when it
// is maximized, its own bounds otherwise.
func (m *Manager) EffectiveBounds(w *Window) tiling.Rect {
	if w.Maximized {
		return m.WorkArea()
	}
	return w.Bounds
}

// Lookup resolves a window id or an app name.
func (m *Manager) Lookup(ref string) (*Window, bool) {
	if w, ok := m.registry.Get(ref); ok {
		return w, true
	}
	return m.registry.ByApp(ref)
}

func (m *Manager) lookup(ref string) (*Window, error) {
	w, ok := m.Lookup(ref)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownWindow, ref)
	}
	return w, nil
}

// Open shows the app's window, raises it and makes sure it has a taskbar
// entry. Apps without a provisioned window are left alone.
func (m *Manager) Open(app string) error {
	w, ok := m.Lookup(app)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownApp, app)
	}
	w.apply(ActionOpen)
	m.raise(w)
	m.taskbar.Ensure(w.App, w.Label, w.ID)
	m.taskbar.Sync(m.focused)
	m.registry.Register(w.ID)
	m.emit("open", w.ID, "")
	return nil
}

// BringToFront gives the window the front z-order, puts every other window
// on the baseline and moves focus to it. Hidden windows are not raised.
func (m *Manager) BringToFront(id string) error {
	w, err := m.lookup(id)
	if err != nil {
		return err
	}
	if !w.Visible() {
		return nil
	}
	prev := m.focused
	m.raise(w)
	if prev != w.ID {
		m.emit("focus", w.ID, "")
	}
	return nil
}

func (m *Manager) raise(w *Window) {
	for _, other := range m.registry.All() {
		other.Z = m.opts.BaselineZ
		if other != w {
			other.apply(ActionBlur)
		}
	}
	w.Z = m.opts.FrontZ
	w.apply(ActionFocus)
	m.focused = w.ID
	m.taskbar.Sync(m.focused)
}

// Minimize hides the window and keeps its taskbar entry.
func (m *Manager) Minimize(id string) error {
	w, err := m.lookup(id)
	if err != nil {
		return err
	}
	if !w.Visible() {
		return nil
	}
	m.cancelGesture(w.ID)
	w.apply(ActionMinimize)
	m.taskbar.SetActive(w.App, false)
	if m.focused == w.ID {
		m.focused = ""
	}
	m.emit("minimize", w.ID, "")
	return nil
}

// ToggleMaximize flips the maximized flag. The restored geometry is whatever
// Bounds holds; it is not saved separately.
func (m *Manager) ToggleMaximize(id string) error {
	w, err := m.lookup(id)
	if err != nil {
		return err
	}
	if !w.Status.Open() {
		return nil
	}
	m.cancelGesture(w.ID)
	w.Maximized = !w.Maximized
	detail := "restored"
	if w.Maximized {
		detail = "maximized"
	}
	m.emit("maximize", w.ID, detail)
	return nil
}

// Close hides the window, removes its taskbar entry and unbinds it.
func (m *Manager) Close(id string) error {
	w, err := m.lookup(id)
	if err != nil {
		return err
	}
	if !w.Status.Open() {
		return nil
	}
	m.cancelGesture(w.ID)
	w.apply(ActionClose)
	m.taskbar.Remove(w.App)
	m.registry.Remove(w.ID)
	if m.focused == w.ID {
		m.focused = ""
	}
	m.emit("close", w.ID, "")
	return nil
}

// ActivateTaskbarEntry handles a click on app's taskbar button: a hidden
// window is reopened, a shown one is raised.
func (m *Manager) ActivateTaskbarEntry(app string) error {
	e, ok := m.taskbar.Entry(app)
	if !ok {
		return fmt.Errorf("%w: no taskbar entry for %s", ErrUnknownApp, app)
	}
	return m.Focus(e.WindowID)
}

// Focus reopens a hidden window or raises a shown one.
func (m *Manager) Focus(ref string) error {
	w, err := m.lookup(ref)
	if err != nil {
		return err
	}
	if !w.Visible() {
		return m.Open(w.App)
	}
	return m.BringToFront(w.ID)
}

// SwitchWindows moves focus to the next visible window in bind order,
// wrapping after the last. With nothing focused the first window is chosen.
func (m *Manager) SwitchWindows() {
	var visible []*Window
	for _, w := range m.registry.Bound() {
		if w.Visible() {
			visible = append(visible, w)
		}
	}
	if len(visible) <= 1 {
		return
	}
	idx := slices.IndexFunc(visible, func(w *Window) bool { return w.ID == m.focused })
	next := visible[(idx+1)%len(visible)]
	m.raise(next)
	m.emit("switch", next.ID, "")
}

// Arrange lays out every visible window in the work area and clears their
// maximized flags.
func (m *Manager) Arrange(mode config.ArrangeMode) error {
	var visible []*Window
	var sizes []tiling.Rect
	for _, w := range m.registry.Bound() {
		if w.Visible() {
			visible = append(visible, w)
			sizes = append(sizes, w.Bounds)
		}
	}
	if len(visible) == 0 {
		return nil
	}

	positions, err := tiling.CalculatePositions(mode, sizes, m.WorkArea(), tiling.Options{
		Gap:       m.opts.Gap,
		MinWidth:  m.opts.MinWidth,
		MinHeight: m.opts.MinHeight,
	})
	if err != nil {
		return err
	}
	m.EndGesture()
	for i, w := range visible {
		w.Maximized = false
		w.Bounds = positions[i]
	}
	m.emit("arrange", "", string(mode))
	return nil
}

// SetViewport updates the viewport and pulls every window back inside the
// new work area.
func (m *Manager) SetViewport(width, height int) error {
	if width <= 0 || height <= m.opts.TaskbarHeight {
		return fmt.Errorf("invalid viewport %dx%d", width, height)
	}
	m.opts.ViewportWidth = width
	m.opts.ViewportHeight = height
	area := m.WorkArea()
	for _, w := range m.registry.All() {
		w.Bounds = tiling.ClampToArea(w.Bounds, area)
	}
	return nil
}
