package wm

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/1broseidon/fakeos/internal/config"
	"github.com/1broseidon/fakeos/internal/tiling"
)

func newTestManager() *Manager {
	return NewManager(DefaultOptions(), config.DefaultApps())
}

func mustOpen(t *testing.T, m *Manager, apps ...string) {
	t.Helper()
	for _, app := range apps {
		if err := m.Open(app); err != nil {
			t.Fatalf("open %s: %v", app, err)
		}
	}
}

func TestTransition(t *testing.T) {
	tests := []struct {
		from   Status
		action Action
		want   Status
	}{
		{StatusClosed, ActionOpen, StatusVisible},
		{StatusClosed, ActionFocus, StatusClosed},
		{StatusClosed, ActionMinimize, StatusClosed},
		{StatusClosed, ActionClose, StatusClosed},
		{StatusVisible, ActionFocus, StatusFocused},
		{StatusVisible, ActionOpen, StatusVisible},
		{StatusVisible, ActionBlur, StatusVisible},
		{StatusVisible, ActionMinimize, StatusMinimized},
		{StatusFocused, ActionBlur, StatusVisible},
		{StatusFocused, ActionOpen, StatusFocused},
		{StatusFocused, ActionMinimize, StatusMinimized},
		{StatusFocused, ActionClose, StatusClosed},
		{StatusMinimized, ActionOpen, StatusVisible},
		{StatusMinimized, ActionFocus, StatusMinimized},
		{StatusMinimized, ActionClose, StatusClosed},
	}

	for _, tt := range tests {
		if got := Transition(tt.from, tt.action); got != tt.want {
			t.Errorf("Transition(%s, %s) = %s, want %s", tt.from, tt.action, got, tt.want)
		}
	}
}

func TestStatusText(t *testing.T) {
	for _, s := range []Status{StatusClosed, StatusMinimized, StatusVisible, StatusFocused} {
		text, err := s.MarshalText()
		if err != nil {
			t.Fatalf("marshal %v: %v", s, err)
		}
		var got Status
		if err := got.UnmarshalText(text); err != nil {
			t.Fatalf("unmarshal %q: %v", text, err)
		}
		if got != s {
			t.Fatalf("expected %s, got %s", s, got)
		}
	}
}

func TestRegistry_RegisterIsIdempotent(t *testing.T) {
	r := NewRegistry()
	r.Provision("a-window", "a", "A", tiling.Rect{Width: 300, Height: 200}, 10)
	r.Provision("b-window", "b", "B", tiling.Rect{Width: 300, Height: 200}, 10)

	w1, ok := r.Register("a-window")
	if !ok {
		t.Fatalf("expected register to succeed")
	}
	w2, _ := r.Register("a-window")
	if w1 != w2 {
		t.Fatalf("expected the same window back")
	}
	r.Register("b-window")
	if got := len(r.Bound()); got != 2 {
		t.Fatalf("expected 2 bound windows, got %d", got)
	}
	if _, ok := r.Register("missing"); ok {
		t.Fatalf("expected unknown id to fail")
	}

	r.Remove("a-window")
	r.Remove("missing")
	if r.IsBound("a-window") {
		t.Fatalf("expected a-window to be unbound")
	}
	if _, ok := r.Get("a-window"); !ok {
		t.Fatalf("expected provisioned window to persist after remove")
	}
	r.Register("a-window")
	bound := r.Bound()
	if bound[0].ID != "b-window" || bound[1].ID != "a-window" {
		t.Fatalf("expected rebind to append, got %s,%s", bound[0].ID, bound[1].ID)
	}
}

func TestOpen_UnknownAppIsNoop(t *testing.T) {
	m := newTestManager()
	before := m.Snapshot()

	err := m.Open("doom")
	if !errors.Is(err, ErrUnknownApp) {
		t.Fatalf("expected ErrUnknownApp, got %v", err)
	}
	after := m.Snapshot()
	if len(after.Taskbar) != len(before.Taskbar) || after.Focused != before.Focused {
		t.Fatalf("expected no state change")
	}
}

func TestOpen_RaisesAndAddsTaskbarEntry(t *testing.T) {
	m := newTestManager()
	mustOpen(t, m, "notes", "notes")

	w, _ := m.Lookup("notes")
	if w.Status != StatusFocused {
		t.Fatalf("expected focused, got %s", w.Status)
	}
	if w.Z != 20 {
		t.Fatalf("expected front z 20, got %d", w.Z)
	}
	if m.Taskbar().Len() != 1 {
		t.Fatalf("expected exactly one taskbar entry, got %d", m.Taskbar().Len())
	}
	e, _ := m.Taskbar().Entry("notes")
	if !e.Active || e.Label != "📝 Notes" || e.WindowID != "notes-window" {
		t.Fatalf("unexpected entry: %+v", e)
	}
}

func TestTaskbar_OneEntryWhileOpen(t *testing.T) {
	m := newTestManager()
	apps := []string{"notes", "calculator", "files"}
	rng := rand.New(rand.NewSource(1))

	for step := 0; step < 500; step++ {
		app := apps[rng.Intn(len(apps))]
		switch rng.Intn(3) {
		case 0:
			_ = m.Open(app)
		case 1:
			_ = m.Minimize(app)
		case 2:
			_ = m.Close(app)
		}

		for _, a := range apps {
			w, _ := m.Lookup(a)
			count := 0
			for _, e := range m.Taskbar().Entries() {
				if e.App == a {
					count++
				}
			}
			want := 0
			if w.Status.Open() {
				want = 1
			}
			if count != want {
				t.Fatalf("step %d: %s status=%s has %d taskbar entries, want %d", step, a, w.Status, count, want)
			}
		}
	}
}

func TestFocus_SingleFocusedWithHighestZ(t *testing.T) {
	m := newTestManager()
	apps := m.Registry().All()
	rng := rand.New(rand.NewSource(7))

	for step := 0; step < 500; step++ {
		w := apps[rng.Intn(len(apps))]
		switch rng.Intn(5) {
		case 0, 1:
			_ = m.Open(w.App)
		case 2:
			_ = m.BringToFront(w.ID)
		case 3:
			_ = m.Minimize(w.ID)
		case 4:
			m.SwitchWindows()
		}

		var focused []*Window
		for _, x := range apps {
			if x.Focused() {
				focused = append(focused, x)
			}
		}
		if len(focused) > 1 {
			t.Fatalf("step %d: %d windows focused", step, len(focused))
		}
		if len(focused) == 0 {
			if m.Focused() != "" {
				t.Fatalf("step %d: manager reports focus %q with no focused window", step, m.Focused())
			}
			continue
		}
		f := focused[0]
		if m.Focused() != f.ID {
			t.Fatalf("step %d: manager focus %q, window %q", step, m.Focused(), f.ID)
		}
		for _, x := range apps {
			if x != f && x.Visible() && x.Z >= f.Z {
				t.Fatalf("step %d: %s z=%d not below focused %s z=%d", step, x.ID, x.Z, f.ID, f.Z)
			}
		}
		for _, e := range m.Taskbar().Entries() {
			if e.Active != (e.WindowID == f.ID) {
				t.Fatalf("step %d: taskbar entry %s active=%v", step, e.App, e.Active)
			}
		}
	}
}

func TestBringToFront_ExactlyOneFocused(t *testing.T) {
	m := newTestManager()
	mustOpen(t, m, "notes", "calculator", "files")

	if err := m.BringToFront("calculator-window"); err != nil {
		t.Fatalf("bring to front: %v", err)
	}
	count := 0
	for _, w := range m.Registry().All() {
		if w.Focused() {
			count++
			if w.ID != "calculator-window" {
				t.Fatalf("unexpected focused window %s", w.ID)
			}
		} else if w.Z != 10 {
			t.Fatalf("expected baseline z for %s, got %d", w.ID, w.Z)
		}
	}
	if count != 1 {
		t.Fatalf("expected one focused window, got %d", count)
	}
	if !errors.Is(m.BringToFront("nope"), ErrUnknownWindow) {
		t.Fatalf("expected ErrUnknownWindow for unknown id")
	}
}

func TestMinimize_KeepsEntryClearsActive(t *testing.T) {
	m := newTestManager()
	mustOpen(t, m, "notes")

	if err := m.Minimize("notes-window"); err != nil {
		t.Fatalf("minimize: %v", err)
	}
	w, _ := m.Lookup("notes")
	if w.Status != StatusMinimized {
		t.Fatalf("expected minimized, got %s", w.Status)
	}
	e, ok := m.Taskbar().Entry("notes")
	if !ok || e.Active {
		t.Fatalf("expected inactive entry to remain, got %+v ok=%v", e, ok)
	}
	if m.Focused() != "" {
		t.Fatalf("expected no focus, got %q", m.Focused())
	}

	if err := m.ActivateTaskbarEntry("notes"); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if w.Status != StatusFocused {
		t.Fatalf("expected taskbar click to reopen, got %s", w.Status)
	}
}

func TestClose_RemovesEntryAndBinding(t *testing.T) {
	m := newTestManager()
	mustOpen(t, m, "notes", "calculator")

	if err := m.Close("notes"); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, ok := m.Taskbar().Entry("notes"); ok {
		t.Fatalf("expected taskbar entry removed")
	}
	if m.Registry().IsBound("notes-window") {
		t.Fatalf("expected registry binding removed")
	}
	w, ok := m.Registry().Get("notes-window")
	if !ok || w.Status != StatusClosed {
		t.Fatalf("expected provisioned closed window, got %+v", w)
	}

	mustOpen(t, m, "notes")
	order := m.Snapshot().Order
	if len(order) != 2 || order[0] != "calculator-window" || order[1] != "notes-window" {
		t.Fatalf("expected reopened window at the end, got %v", order)
	}
}

func TestSwitchWindows(t *testing.T) {
	m := newTestManager()
	mustOpen(t, m, "notes", "calculator", "files")

	_ = m.BringToFront("calculator-window")
	m.SwitchWindows()
	if m.Focused() != "files-window" {
		t.Fatalf("expected B -> C, got %q", m.Focused())
	}
	m.SwitchWindows()
	if m.Focused() != "notes-window" {
		t.Fatalf("expected C -> A, got %q", m.Focused())
	}
}

func TestSwitchWindows_SkipsMinimizedAndNoopForOne(t *testing.T) {
	m := newTestManager()
	mustOpen(t, m, "notes", "calculator")

	_ = m.Minimize("calculator")
	_ = m.BringToFront("notes-window")
	m.SwitchWindows()
	if m.Focused() != "notes-window" {
		t.Fatalf("expected no-op with one visible window, got %q", m.Focused())
	}

	mustOpen(t, m, "files")
	_ = m.Minimize("files")
	_ = m.Open("calculator")
	_ = m.Minimize("calculator")
	// Only notes is visible, nothing focused.
	m.SwitchWindows()
	if m.Focused() != "" {
		t.Fatalf("expected no-op, got %q", m.Focused())
	}

	_ = m.Open("files")
	_ = m.Minimize("files")
	_ = m.Open("calculator")
	_ = m.Open("files")
	_ = m.Minimize("files")
	// notes and calculator visible, nothing focused: first in bind order wins.
	m.SwitchWindows()
	if m.Focused() != "notes-window" {
		t.Fatalf("expected first visible window, got %q", m.Focused())
	}
}

func TestDrag_ClampsToViewport(t *testing.T) {
	m := newTestManager()
	mustOpen(t, m, "notes")
	opts := m.Options()

	out, err := m.Dispatch(Event{Type: EventPointerDown, X: 100, Y: 70})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if out.Hit.Region != RegionTitlebar {
		t.Fatalf("expected titlebar hit, got %s", out.Hit.Region)
	}
	g, ok := m.Gesture()
	if !ok || g.Kind != GestureDrag {
		t.Fatalf("expected drag gesture, got %+v", g)
	}

	w, _ := m.Lookup("notes")
	if w.Transitions {
		t.Fatalf("expected transitions suppressed during drag")
	}

	points := [][2]int{{300, 200}, {5000, 5000}, {-100, -100}, {5000, -20}, {-20, 5000}, {640, 399}, {1279, 799}}
	for _, p := range points {
		m.Dispatch(Event{Type: EventPointerMove, X: p[0], Y: p[1]})
		b := w.Bounds
		if b.X < 0 || b.X > opts.ViewportWidth-b.Width {
			t.Fatalf("pointer %v: x=%d out of range", p, b.X)
		}
		if b.Y < 0 || b.Y > opts.ViewportHeight-b.Height-opts.TaskbarHeight {
			t.Fatalf("pointer %v: y=%d out of range", p, b.Y)
		}
	}

	m.Dispatch(Event{Type: EventPointerMove, X: 300, Y: 200})
	if w.Bounds.X != 280 || w.Bounds.Y != 190 {
		t.Fatalf("expected pointer offset kept, got %d,%d", w.Bounds.X, w.Bounds.Y)
	}
	m.Dispatch(Event{Type: EventPointerMove, X: 5000, Y: 5000})
	if w.Bounds.X != 800 || w.Bounds.Y != 400 {
		t.Fatalf("expected clamp to 800,400, got %d,%d", w.Bounds.X, w.Bounds.Y)
	}

	m.Dispatch(Event{Type: EventPointerUp})
	if _, ok := m.Gesture(); ok {
		t.Fatalf("expected gesture cleared on pointer up")
	}
	if !w.Transitions {
		t.Fatalf("expected transitions restored")
	}
	if w.Bounds.Width != 480 || w.Bounds.Height != 360 {
		t.Fatalf("drag must not change size, got %dx%d", w.Bounds.Width, w.Bounds.Height)
	}
}

func TestResize_RejectsAtOrBelowMinimum(t *testing.T) {
	m := newTestManager()
	mustOpen(t, m, "notes")
	w, _ := m.Lookup("notes")

	// notes spans 80,60 .. 560,420.
	out, _ := m.Dispatch(Event{Type: EventPointerDown, X: 559, Y: 419})
	if out.Hit.Region != RegionResize {
		t.Fatalf("expected resize hit, got %s", out.Hit.Region)
	}

	m.Dispatch(Event{Type: EventPointerMove, X: 559 - 280, Y: 419})
	if w.Bounds.Width != 480 || w.Bounds.Height != 360 {
		t.Fatalf("expected width 200 rejected, got %dx%d", w.Bounds.Width, w.Bounds.Height)
	}
	m.Dispatch(Event{Type: EventPointerMove, X: 559, Y: 419 - 210})
	if w.Bounds.Width != 480 || w.Bounds.Height != 360 {
		t.Fatalf("expected height 150 rejected, got %dx%d", w.Bounds.Width, w.Bounds.Height)
	}
	m.Dispatch(Event{Type: EventPointerMove, X: 559 - 279, Y: 419 - 209})
	if w.Bounds.Width != 201 || w.Bounds.Height != 151 {
		t.Fatalf("expected 201x151, got %dx%d", w.Bounds.Width, w.Bounds.Height)
	}
	m.Dispatch(Event{Type: EventPointerMove, X: 100, Y: 419})
	if w.Bounds.Width != 201 || w.Bounds.Height != 151 {
		t.Fatalf("expected rejected candidate to keep last size, got %dx%d", w.Bounds.Width, w.Bounds.Height)
	}
	m.Dispatch(Event{Type: EventPointerMove, X: 659, Y: 519})
	if w.Bounds.Width != 580 || w.Bounds.Height != 460 {
		t.Fatalf("expected 580x460, got %dx%d", w.Bounds.Width, w.Bounds.Height)
	}
	if w.Bounds.X != 80 || w.Bounds.Y != 60 {
		t.Fatalf("resize must not move the window, got %d,%d", w.Bounds.X, w.Bounds.Y)
	}
	m.Dispatch(Event{Type: EventPointerUp})
	if _, ok := m.Gesture(); ok {
		t.Fatalf("expected gesture cleared")
	}
}

func TestResizeRegionTakesPriority(t *testing.T) {
	opts := DefaultOptions()
	opts.ResizeHandle = 40
	apps := []config.AppConfig{{Name: "tiny", Title: "Tiny", X: 0, Y: 0, Width: 300, Height: 200}}
	m := NewManager(opts, apps)
	mustOpen(t, m, "tiny")
	w, _ := m.Lookup("tiny")
	w.Bounds.Height = 50

	hit := m.HitTest(295, 20)
	if hit.Region != RegionResize {
		t.Fatalf("expected resize to win over titlebar control, got %s", hit.Region)
	}
}

func TestHitTest_Regions(t *testing.T) {
	m := newTestManager()
	mustOpen(t, m, "notes")

	tests := []struct {
		name string
		x, y int
		want Region
	}{
		{"desktop", 1000, 600, RegionDesktop},
		{"taskbar", 10, 790, RegionTaskbar},
		{"outside", -1, 10, RegionNone},
		{"titlebar", 100, 70, RegionTitlebar},
		{"close", 550, 70, RegionClose},
		{"maximize", 530, 70, RegionMaximize},
		{"minimize", 500, 70, RegionMinimize},
		{"content", 200, 200, RegionContent},
		{"resize", 555, 415, RegionResize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.HitTest(tt.x, tt.y).Region; got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestPointerDown_TitlebarControls(t *testing.T) {
	m := newTestManager()
	mustOpen(t, m, "notes", "calculator")

	// Clicking inside notes raises it.
	m.Dispatch(Event{Type: EventPointerDown, X: 200, Y: 200})
	m.Dispatch(Event{Type: EventPointerUp})
	if m.Focused() != "notes-window" {
		t.Fatalf("expected click to raise notes, got %q", m.Focused())
	}

	m.Dispatch(Event{Type: EventPointerDown, X: 530, Y: 70})
	w, _ := m.Lookup("notes")
	if !w.Maximized {
		t.Fatalf("expected maximize button to maximize")
	}
	if _, ok := m.Gesture(); ok {
		t.Fatalf("control click must not start a gesture")
	}

	// Maximized notes now covers the work area; its close button is at the
	// far right of the viewport.
	m.Dispatch(Event{Type: EventPointerDown, X: 1270, Y: 5})
	if w.Status != StatusClosed {
		t.Fatalf("expected close button to close, got %s", w.Status)
	}
	if _, ok := m.Taskbar().Entry("notes"); ok {
		t.Fatalf("expected taskbar entry removed")
	}
}

func TestMaximize_EffectiveBoundsAndNoRestoreTracking(t *testing.T) {
	m := newTestManager()
	mustOpen(t, m, "notes")
	w, _ := m.Lookup("notes")
	orig := w.Bounds

	_ = m.ToggleMaximize("notes")
	view, _ := m.Snapshot().Window("notes-window")
	if view.Bounds != m.WorkArea() || !view.Maximized {
		t.Fatalf("expected work area bounds, got %+v", view.Bounds)
	}
	if m.BeginDrag("notes-window", 10, 10) {
		t.Fatalf("expected drag refused on maximized window")
	}
	if m.BeginResize("notes-window", 10, 10) {
		t.Fatalf("expected resize refused on maximized window")
	}

	w.Bounds.X = 5
	_ = m.ToggleMaximize("notes")
	if w.Maximized || w.Bounds.X != 5 || w.Bounds.Width != orig.Width {
		t.Fatalf("expected remaining geometry after un-maximize, got %+v", w.Bounds)
	}
}

func TestArrange_Grid(t *testing.T) {
	m := newTestManager()
	mustOpen(t, m, "notes", "calculator")
	_ = m.ToggleMaximize("notes")

	if err := m.Arrange(config.ArrangeGrid); err != nil {
		t.Fatalf("arrange: %v", err)
	}
	notes, _ := m.Lookup("notes")
	calc, _ := m.Lookup("calculator")
	if notes.Maximized {
		t.Fatalf("expected arrange to clear maximized")
	}
	want := []tiling.Rect{{X: 10, Y: 10, Width: 625, Height: 740}, {X: 645, Y: 10, Width: 625, Height: 740}}
	if notes.Bounds != want[0] || calc.Bounds != want[1] {
		t.Fatalf("unexpected grid: %+v %+v", notes.Bounds, calc.Bounds)
	}
}

func TestArrange_VerticalRefusesCellsBelowMinimum(t *testing.T) {
	m := newTestManager()
	apps := []string{"notes", "calculator", "files", "settings", "chrome"}
	mustOpen(t, m, apps...)

	before := make(map[string]tiling.Rect)
	for _, app := range apps {
		w, _ := m.Lookup(app)
		before[app] = w.Bounds
	}
	if err := m.Arrange(config.ArrangeVertical); err == nil {
		t.Fatalf("expected error arranging five windows vertically in a 760px work area")
	}
	for _, app := range apps {
		w, _ := m.Lookup(app)
		if w.Bounds != before[app] {
			t.Fatalf("%s moved by failed arrange: %+v -> %+v", app, before[app], w.Bounds)
		}
	}

	if err := m.Close("chrome"); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := m.Arrange(config.ArrangeVertical); err != nil {
		t.Fatalf("arrange four windows: %v", err)
	}
	for _, app := range apps[:4] {
		w, _ := m.Lookup(app)
		if w.Bounds.Width <= m.opts.MinWidth || w.Bounds.Height <= m.opts.MinHeight {
			t.Fatalf("%s below minimum: %dx%d", app, w.Bounds.Width, w.Bounds.Height)
		}
	}
}

func TestSetViewport_Reclamps(t *testing.T) {
	m := newTestManager()
	mustOpen(t, m, "chrome")

	if err := m.SetViewport(800, 600); err != nil {
		t.Fatalf("set viewport: %v", err)
	}
	w, _ := m.Lookup("chrome")
	if w.Bounds.Right() > 800 || w.Bounds.Bottom() > 560 {
		t.Fatalf("expected window inside new work area, got %+v", w.Bounds)
	}
	if err := m.SetViewport(0, 600); err == nil {
		t.Fatalf("expected error for empty viewport")
	}
}

func TestDispatch_UnknownTargetsChangeNothing(t *testing.T) {
	m := newTestManager()
	mustOpen(t, m, "notes")

	for _, typ := range []EventType{EventClose, EventMinimize, EventMaximize, EventFocus} {
		if _, err := m.Dispatch(Event{Type: typ, Target: "ghost"}); !errors.Is(err, ErrUnknownWindow) {
			t.Fatalf("%s: expected ErrUnknownWindow, got %v", typ, err)
		}
	}
	if _, err := m.Dispatch(Event{Type: EventOpen, Target: "ghost"}); !errors.Is(err, ErrUnknownApp) {
		t.Fatalf("expected ErrUnknownApp, got %v", err)
	}
	if _, err := m.Dispatch(Event{Type: "bogus"}); err == nil {
		t.Fatalf("expected error for unknown event type")
	}
	if m.Focused() != "notes-window" || m.Taskbar().Len() != 1 {
		t.Fatalf("expected state unchanged")
	}
}

func TestDispatch_AltTabSwitches(t *testing.T) {
	m := newTestManager()
	mustOpen(t, m, "notes", "calculator")

	out, _ := m.Dispatch(Event{Type: EventKey, Key: "alt+tab"})
	if !out.Handled || m.Focused() != "notes-window" {
		t.Fatalf("expected alt+tab to switch to notes, got %q", m.Focused())
	}
	out, _ = m.Dispatch(Event{Type: EventKey, Key: "ctrl+x"})
	if out.Handled {
		t.Fatalf("expected unrelated key to be unhandled")
	}
}

func TestObserverReceivesChanges(t *testing.T) {
	m := newTestManager()
	var got []string
	m.SetObserver(func(c Change) { got = append(got, c.Action+":"+c.WindowID) })

	mustOpen(t, m, "notes")
	_ = m.Minimize("notes")
	_ = m.Close("notes")

	want := []string{"open:notes-window", "minimize:notes-window", "close:notes-window"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
