package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/fakeos/internal/browser"
	"github.com/1broseidon/fakeos/internal/config"
	"github.com/1broseidon/fakeos/internal/desktop"
	"github.com/1broseidon/fakeos/internal/store"
	"github.com/1broseidon/fakeos/internal/tiling"
	"github.com/1broseidon/fakeos/internal/wm"
)

type fakeFetcher struct{}

func (fakeFetcher) Search(ctx context.Context, q string) ([]browser.SearchResult, error) {
	return []browser.SearchResult{{Title: "The Go Programming Language", URL: "https://go.dev", Snippet: "Go is expressive"}}, nil
}

func (fakeFetcher) Fetch(ctx context.Context, u string) (string, error) {
	return "<html><head><title>Go</title></head><body><p>hello</p></body></html>", nil
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	cfg := config.DefaultConfig()
	opts := ManagerOptions(cfg)
	d := desktop.New(desktop.Options{
		Config:  cfg,
		Store:   store.NewMemory(),
		Fetcher: fakeFetcher{},
		Manager: &opts,
	})
	m := New(context.Background(), desktop.NewSession(d))
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "f2":
		return tea.KeyMsg{Type: tea.KeyF2}
	case "ctrl+l":
		return tea.KeyMsg{Type: tea.KeyCtrlL}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(keyMsg(string(r)))
	}
}

func click(m *Model, col, row int) {
	m.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
}

// collect runs cmd and any batched commands it expands to.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func open(t *testing.T, m *Model, app string) cellRect {
	t.Helper()
	m.dispatch(wm.Event{Type: wm.EventOpen, Target: app})
	v, ok := m.state.Window(app + "-window")
	require.True(t, ok)
	return m.grid.cells(v.Bounds)
}

func TestSpanMatchesCellCenters(t *testing.T) {
	g := grid{cw: 8, ch: 16}
	rects := []tiling.Rect{
		{X: 80, Y: 60, Width: 480, Height: 360},
		{X: 3, Y: 7, Width: 17, Height: 33},
		{X: 0, Y: 0, Width: 8, Height: 16},
	}
	for _, r := range rects {
		c := g.cells(r)
		for col := c.col - 1; col <= c.col+c.cols; col++ {
			for row := c.row - 1; row <= c.row+c.rows; row++ {
				px, py := g.point(col, row)
				assert.Equal(t, r.Contains(px, py), c.contains(col, row), "rect %+v cell %d,%d", r, col, row)
			}
		}
	}
}

func TestManagerOptions(t *testing.T) {
	cfg := config.DefaultConfig()
	opts := ManagerOptions(cfg)
	assert.Equal(t, 16, opts.TaskbarHeight)
	assert.Equal(t, 16, opts.TitlebarHeight)
	assert.Equal(t, 24, opts.ControlWidth)
	assert.Equal(t, 16, opts.ResizeHandle)
	assert.Equal(t, cfg.MinWindow.Width, opts.MinWidth)
}

func TestCanvasPlaceClips(t *testing.T) {
	c := newCanvas(10, 2, "..........")
	c.place(8, 0, "abcd")
	c.place(-2, 1, "xyz")
	lines := strings.Split(ansi.Strip(c.String()), "\n")
	assert.Equal(t, "........ab", lines[0])
	assert.Equal(t, "z.........", lines[1])
}

func TestFit(t *testing.T) {
	assert.Equal(t, "ab  ", fit("ab", 4))
	assert.Equal(t, "abc…", fit("abcdef", 4))
	assert.Equal(t, "", fit("abc", 0))
}

func TestResizeSetsViewport(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, 960, m.state.Viewport.Width)
	assert.Equal(t, 640, m.state.Viewport.Height)
}

func TestStartMenuKeyboard(t *testing.T) {
	m := newTestModel(t)

	m.Update(keyMsg("f2"))
	require.Equal(t, "start", m.state.Menu)
	require.NotEmpty(t, m.state.MenuItems)

	m.Update(keyMsg("down"))
	m.Update(keyMsg("enter"))
	assert.Equal(t, "none", m.state.Menu)
	assert.Equal(t, "calculator-window", m.state.Focused)
}

func TestIconDoubleClickOpensApp(t *testing.T) {
	m := newTestModel(t)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	r := m.iconRect(1)
	click(m, r.col+2, r.row)
	assert.Equal(t, "calculator", m.selectedIcon)
	assert.Empty(t, m.state.Focused)

	now = now.Add(200 * time.Millisecond)
	click(m, r.col+2, r.row)
	assert.Equal(t, "calculator-window", m.state.Focused)
}

func TestTitlebarDragMovesWindow(t *testing.T) {
	m := newTestModel(t)
	r := open(t, m, "notes")
	before, _ := m.state.Window("notes-window")

	m.Update(tea.MouseMsg{X: r.col + 2, Y: r.row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, "drag", m.state.Gesture)
	m.Update(tea.MouseMsg{X: r.col + 7, Y: r.row + 1, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: r.col + 7, Y: r.row + 1, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	after, _ := m.state.Window("notes-window")
	assert.Equal(t, before.Bounds.X+5*m.grid.cw, after.Bounds.X)
	assert.Equal(t, before.Bounds.Y+m.grid.ch, after.Bounds.Y)
	assert.Empty(t, m.state.Gesture)
}

func TestTitlebarCloseButton(t *testing.T) {
	m := newTestModel(t)
	r := open(t, m, "notes")

	click(m, r.col+r.cols-2, r.row)
	v, _ := m.state.Window("notes-window")
	assert.Equal(t, wm.StatusClosed, v.Status)
	assert.Empty(t, m.state.Taskbar)
}

func TestTaskbarEntryRestoresMinimized(t *testing.T) {
	m := newTestModel(t)
	open(t, m, "files")
	m.dispatch(wm.Event{Type: wm.EventMinimize, Target: "files"})
	require.Empty(t, m.state.Focused)

	spots := m.taskbarSpots()
	require.Len(t, spots, 2)
	click(m, spots[1].area.col, m.rows-1)
	assert.Equal(t, "files-window", m.state.Focused)
}

func TestCalculatorButtons(t *testing.T) {
	m := newTestModel(t)
	r := open(t, m, "calculator")
	w, h, ok := m.contentSize("calculator")
	require.True(t, ok)

	p := m.panel("calculator", newStyles(m.state.Theme), w, h)
	find := func(key string) spot {
		for _, sp := range p.spots {
			if sp.action == "key" && sp.arg == key {
				return sp
			}
		}
		t.Fatalf("no calculator key %q", key)
		return spot{}
	}
	for _, k := range []string{"2", "+", "3", "="} {
		sp := find(k)
		click(m, r.col+sp.area.col, r.row+1+sp.area.row)
	}
	assert.Equal(t, "5", m.state.Calculator)
}

func TestNotesTyping(t *testing.T) {
	m := newTestModel(t)
	open(t, m, "notes")

	typeText(m, "hi")
	assert.Equal(t, "hi", m.state.Notes)
}

func TestBrowserSearchFromAddressBar(t *testing.T) {
	m := newTestModel(t)
	open(t, m, "chrome")

	m.Update(keyMsg("ctrl+l"))
	require.True(t, m.editingAddress)
	m.address.SetValue("")
	typeText(m, "golang")
	_, cmd := m.Update(keyMsg("enter"))
	assert.False(t, m.editingAddress)
	assert.Equal(t, browser.ViewLoading, m.state.Browser.View.Kind)

	for _, msg := range collect(cmd) {
		m.Update(msg)
	}
	view := m.state.Browser.View
	require.Equal(t, browser.ViewSearch, view.Kind)
	assert.Equal(t, "golang", view.Query)
	require.Len(t, view.Results, 1)

	// Opening the first result loads the page through the fetcher.
	_, cmd = m.Update(keyMsg("1"))
	for _, msg := range collect(cmd) {
		m.Update(msg)
	}
	assert.Equal(t, browser.ViewPage, m.state.Browser.View.Kind)
	assert.Contains(t, m.page.View(), "hello")
}

func TestFilesPromptCancelAndAccept(t *testing.T) {
	m := newTestModel(t)
	open(t, m, "files")
	count := len(m.state.Files.Entries)

	m.Update(keyMsg("n"))
	require.NotNil(t, m.state.Prompt)
	require.NotNil(t, m.form)

	m.Update(keyMsg("esc"))
	assert.Nil(t, m.state.Prompt)
	assert.Nil(t, m.form)
	assert.Len(t, m.state.Files.Entries, count)

	m.Update(keyMsg("n"))
	require.NotNil(t, m.form)
	m.answer = "todo.txt"
	m.resolvePrompt(true)
	require.Len(t, m.state.Files.Entries, count+1)
	assert.Equal(t, "todo.txt", m.state.Files.Entries[count].Name)
}

func TestShutdownQuits(t *testing.T) {
	m := newTestModel(t)
	m.do(func(d *desktop.Desktop) error {
		d.RequestShutdown()
		return nil
	})
	m.Update(tickMsg(time.Now()))
	require.NotNil(t, m.form)

	m.confirm = true
	m.resolvePrompt(true)
	require.True(t, m.state.ShuttingDown)
	assert.Contains(t, ansi.Strip(m.View()), "Shutting down FakeOS...")

	m.Update(tickMsg(time.Now()))
	assert.True(t, m.quitting)

	_, cmd := m.Update(shutdownMsg{})
	msgs := collect(cmd)
	require.Len(t, msgs, 1)
	assert.IsType(t, tea.QuitMsg{}, msgs[0])
}

func TestContextMenuCascade(t *testing.T) {
	m := newTestModel(t)
	open(t, m, "notes")
	open(t, m, "files")

	m.Update(tea.MouseMsg{X: 110, Y: 30, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	require.Equal(t, "context", m.state.Menu)

	r, ok := m.menuRect()
	require.True(t, ok)
	idx := -1
	for i, it := range m.state.MenuItems {
		if it.ID == desktop.ContextCascade {
			idx = i
		}
	}
	require.GreaterOrEqual(t, idx, 0)
	click(m, r.col+1, r.row+idx)

	assert.Equal(t, "none", m.state.Menu)
	notes, _ := m.state.Window("notes-window")
	files, _ := m.state.Window("files-window")
	assert.Less(t, notes.Bounds.X, files.Bounds.X)
}

func TestViewDrawsDesktop(t *testing.T) {
	m := newTestModel(t)
	open(t, m, "notes")
	m.do(func(d *desktop.Desktop) error {
		d.Notify("Hello toast")
		return nil
	})

	out := ansi.Strip(m.View())
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 40)
	assert.Contains(t, lines[39], "Start")
	assert.Contains(t, lines[39], m.state.Clock)
	assert.Contains(t, out, "Hello toast")
	assert.Contains(t, out, "Notes")
}
