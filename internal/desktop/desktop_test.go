package desktop

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/1broseidon/fakeos/internal/actionlog"
	"github.com/1broseidon/fakeos/internal/browser"
	"github.com/1broseidon/fakeos/internal/store"
	"github.com/1broseidon/fakeos/internal/wm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nullFetcher struct{}

func (nullFetcher) Search(ctx context.Context, q string) ([]browser.SearchResult, error) {
	return nil, nil
}

func (nullFetcher) Fetch(ctx context.Context, u string) (string, error) {
	return "<p>ok</p>", nil
}

type clock struct {
	t time.Time
}

func (c *clock) now() time.Time { return c.t }

func newTestDesktop(t *testing.T) (*Desktop, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC)}
	d := New(Options{Store: store.NewMemory(), Fetcher: nullFetcher{}, Now: c.now})
	return d, c
}

func TestNew_AllWindowsClosed(t *testing.T) {
	d, _ := newTestDesktop(t)
	st := d.State()
	require.Len(t, st.Windows, 5)
	for _, w := range st.Windows {
		assert.Equal(t, wm.StatusClosed, w.Status, w.ID)
	}
	assert.Empty(t, st.Taskbar)
	assert.Equal(t, "none", st.Menu)
}

func TestShortcuts(t *testing.T) {
	d, _ := newTestDesktop(t)

	assert.True(t, d.HandleKey("ctrl+n"))
	assert.Equal(t, "notes-window", d.WM.Focused())
	assert.True(t, d.HandleKey("ctrl+c"))
	assert.Equal(t, "calculator-window", d.WM.Focused())

	assert.True(t, d.HandleKey("alt+tab"))
	assert.Equal(t, "notes-window", d.WM.Focused())

	assert.False(t, d.HandleKey("esc"), "nothing to close")
	d.ToggleStartMenu()
	assert.True(t, d.HandleKey("esc"))
	menu, _, _ := d.Menu()
	assert.Equal(t, MenuNone, menu)

	assert.False(t, d.HandleKey("ctrl+z"))
}

func TestNotificationsExpire(t *testing.T) {
	d, c := newTestDesktop(t)

	d.Notify("first")
	c.t = c.t.Add(2 * time.Second)
	d.Notify("second")
	require.Len(t, d.Notifications(), 2)

	c.t = c.t.Add(1500 * time.Millisecond)
	active := d.Notifications()
	require.Len(t, active, 1)
	assert.Equal(t, "second", active[0].Message)

	c.t = c.t.Add(2 * time.Second)
	assert.Empty(t, d.Notifications())
	assert.False(t, d.ExpireNotifications())
}

func TestClock(t *testing.T) {
	d, c := newTestDesktop(t)
	assert.Equal(t, "09:05", d.Clock())
	c.t = time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "23:59", d.Clock())
}

func TestStartMenu(t *testing.T) {
	d, _ := newTestDesktop(t)

	items := d.StartMenuItems()
	require.Len(t, items, 6)
	assert.Equal(t, "notes", items[0].ID)
	assert.Equal(t, StartShutdown, items[5].ID)

	d.ToggleStartMenu()
	require.NoError(t, d.SelectStartItem("files"))
	menu, _, _ := d.Menu()
	assert.Equal(t, MenuNone, menu)
	assert.Equal(t, "files-window", d.WM.Focused())
}

func TestShutdownNeedsConfirmation(t *testing.T) {
	d, _ := newTestDesktop(t)

	require.NoError(t, d.SelectStartItem(StartShutdown))
	p, ok := d.Prompt()
	require.True(t, ok)
	assert.Equal(t, PromptShutdown, p.Kind)

	require.NoError(t, d.Answer("", false))
	assert.False(t, d.ShuttingDown())
	_, ok = d.Prompt()
	assert.False(t, ok)

	d.RequestShutdown()
	require.NoError(t, d.Answer("", true))
	assert.True(t, d.ShuttingDown())
}

func TestContextMenu_NewFolder(t *testing.T) {
	d, _ := newTestDesktop(t)
	before := len(d.Files.Entries())

	d.OpenContextMenu(300, 200)
	menu, x, y := d.Menu()
	assert.Equal(t, MenuContext, menu)
	assert.Equal(t, 300, x)
	assert.Equal(t, 200, y)

	require.NoError(t, d.SelectContextItem(ContextNewFolder))
	p, ok := d.Prompt()
	require.True(t, ok)
	assert.True(t, p.Input)
	assert.Equal(t, "New Folder", p.Default)

	require.NoError(t, d.Answer("Projects", true))
	assert.Len(t, d.Files.Entries(), before+1)
	notes := d.Notifications()
	require.NotEmpty(t, notes)
	assert.Equal(t, `Folder "Projects" created!`, notes[len(notes)-1].Message)
}

func TestContextMenu_ArrangeAndProperties(t *testing.T) {
	d, _ := newTestDesktop(t)
	require.NoError(t, d.Open("notes"))
	require.NoError(t, d.Open("calculator"))

	require.NoError(t, d.SelectContextItem(ContextTile))
	st := d.State()
	notes, _ := st.Window("notes-window")
	calc, _ := st.Window("calculator-window")
	assert.Equal(t, notes.Bounds.Y, calc.Bounds.Y)
	assert.Less(t, notes.Bounds.X, calc.Bounds.X)

	require.NoError(t, d.SelectContextItem(ContextProperties))
	p, ok := d.Prompt()
	require.True(t, ok)
	assert.Contains(t, p.Title, "FakeCPU 3.0GHz")

	assert.Error(t, d.SelectContextItem("format-disk"))
}

func TestDeleteWithoutSelectionAsksNothing(t *testing.T) {
	d, _ := newTestDesktop(t)

	d.PromptDelete()
	_, ok := d.Prompt()
	assert.False(t, ok)
	notes := d.Notifications()
	require.NotEmpty(t, notes)
	assert.Equal(t, "Please select a file to delete!", notes[len(notes)-1].Message)

	d.Files.Select(0)
	d.PromptDelete()
	p, ok := d.Prompt()
	require.True(t, ok)
	assert.Equal(t, PromptDelete, p.Kind)
	before := len(d.Files.Entries())
	require.NoError(t, d.Answer("", true))
	assert.Len(t, d.Files.Entries(), before-1)
}

func TestOpeningPanelReloadsItsState(t *testing.T) {
	st := store.NewMemory()
	d := New(Options{Store: st, Fetcher: nullFetcher{}})

	require.NoError(t, st.Set(store.KeyTheme, "blue"))
	assert.Equal(t, "dark", d.Settings.Theme())
	require.NoError(t, d.Open("settings"))
	assert.Equal(t, "blue", d.Settings.Theme())
}

func TestPointerDownClosesMenus(t *testing.T) {
	d, _ := newTestDesktop(t)
	d.ToggleStartMenu()

	_, err := d.Dispatch(wm.Event{Type: wm.EventPointerDown, X: 600, Y: 300})
	require.NoError(t, err)
	menu, _, _ := d.Menu()
	assert.Equal(t, MenuNone, menu)
}

func TestActionLogRecordsWindowChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.log")
	logger, err := actionlog.NewLogger(actionlog.LogConfig{Enabled: true, Level: actionlog.LevelInfo, FilePath: path})
	require.NoError(t, err)
	defer logger.Close()

	d := New(Options{Store: store.NewMemory(), Fetcher: nullFetcher{}, Actions: logger})
	require.NoError(t, d.Open("notes"))
	require.NoError(t, d.WM.Close("notes-window"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[OPEN] window=notes-window")
	assert.Contains(t, string(data), "[CLOSE] window=notes-window")
}

func TestSession_ConcurrentDispatch(t *testing.T) {
	d, _ := newTestDesktop(t)
	s := NewSession(d)

	var wg sync.WaitGroup
	for _, app := range []string{"notes", "calculator", "files", "settings", "chrome"} {
		wg.Add(1)
		go func(app string) {
			defer wg.Done()
			_, err := s.Dispatch(wm.Event{Type: wm.EventOpen, Target: app})
			assert.NoError(t, err)
			_ = s.State()
		}(app)
	}
	wg.Wait()

	st := s.State()
	assert.Len(t, st.Taskbar, 5)
	assert.Len(t, st.Order, 5)
}

func TestState_JSON(t *testing.T) {
	d, _ := newTestDesktop(t)
	require.NoError(t, d.Open("chrome"))
	d.Notify("hello")

	data, err := json.Marshal(d.State())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "windows")
	assert.Contains(t, decoded, "taskbar")
	assert.Equal(t, "chrome-window", decoded["focused"])
	assert.Equal(t, "09:05", decoded["clock"])
	browserState := decoded["browser"].(map[string]any)
	assert.Equal(t, "https://www.google.com", browserState["address"])
}
