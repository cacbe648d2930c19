package apps

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/1broseidon/fakeos/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	messages []string
}

func (r *recorder) notify(msg string) { r.messages = append(r.messages, msg) }

func (r *recorder) last() string {
	if len(r.messages) == 0 {
		return ""
	}
	return r.messages[len(r.messages)-1]
}

func TestCalculator_ClearAlwaysResets(t *testing.T) {
	inputs := []string{"", "123", "9÷0=", "1+2", "7.5×", "0.", "5="}
	for _, in := range inputs {
		c := NewCalculator()
		c.Eval(in)
		c.Clear()
		assert.Equal(t, "0", c.Display(), "after %q", in)
		_, _, pending := c.Pending()
		assert.False(t, pending, "after %q", in)
	}
}

func TestCalculator_Eval(t *testing.T) {
	tests := []struct {
		name string
		keys string
		want string
	}{
		{"add", "3+4=", "7"},
		{"left to right", "2+3×4=", "20"},
		{"ascii operators", "2+3*4=", "20"},
		{"chained shows running total", "2+3×", "5"},
		{"subtract negative", "3-5=", "-2"},
		{"decimal", "1.5+1.25=", "2.75"},
		{"float rounding", "0.1+0.2=", "0.30000000000000004"},
		{"divide by zero", "1÷0=", "Infinity"},
		{"zero by zero", "0/0=", "NaN"},
		{"NaN total restarts at next operator", "0/0+5+", "5"},
		{"NaN total kept by equals", "0/0+5=", "NaN"},
		{"infinite total carries", "1/0+5+", "Infinity"},
		{"leading zero replaced", "007", "7"},
		{"one decimal point", "1..5", "1.5"},
		{"decimal after operator", "5+.5=", "5.5"},
		{"trailing point", "3.+1=", "4"},
		{"large", "100000000000×100000000000=", "1e+22"},
		{"small", "1÷10000000=", "1e-7"},
		{"equals without operator", "42=", "42"},
		{"digit after result starts fresh", "1+1=5", "5"},
		{"clear key", "12C", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCalculator()
			assert.Equal(t, tt.want, c.Eval(tt.keys))
		})
	}
}

func TestCalculator_Backspace(t *testing.T) {
	c := NewCalculator()
	c.Eval("123")
	c.Backspace()
	assert.Equal(t, "12", c.Display())
	c.Backspace()
	c.Backspace()
	assert.Equal(t, "0", c.Display())
	c.Backspace()
	assert.Equal(t, "0", c.Display())
}

func TestCalculator_PressUnknownKey(t *testing.T) {
	c := NewCalculator()
	assert.False(t, c.Press("q"))
	assert.True(t, c.Press("backspace"))
}

func TestNotes_AutosaveAndExplicitSave(t *testing.T) {
	st := store.NewMemory()
	rec := &recorder{}
	autosave := true
	n := NewNotes(st, func() bool { return autosave }, rec.notify)

	require.NoError(t, n.SetContent("hello"))
	assert.Equal(t, "hello", store.GetDefault(st, store.KeyNotes, ""))
	assert.False(t, n.Dirty())

	autosave = false
	require.NoError(t, n.SetContent("hello world"))
	assert.Equal(t, "hello", store.GetDefault(st, store.KeyNotes, ""))
	assert.True(t, n.Dirty())

	require.NoError(t, n.Save())
	assert.Equal(t, "hello world", store.GetDefault(st, store.KeyNotes, ""))
	assert.Equal(t, "Notes saved!", rec.last())

	reloaded := NewNotes(st, nil, nil)
	assert.Equal(t, "hello world", reloaded.Content())
}

func TestSettings_DefaultsAndPersistence(t *testing.T) {
	st := store.NewMemory()
	rec := &recorder{}
	s := NewSettings(st, rec.notify)

	assert.Equal(t, "dark", s.Theme())
	assert.Equal(t, 50, s.Volume())
	assert.True(t, s.Autosave())

	require.NoError(t, s.SetTheme("light"))
	assert.Equal(t, "Theme changed!", rec.last())
	assert.Error(t, s.SetTheme("neon"))

	require.NoError(t, s.SetVolume(150))
	assert.Equal(t, 100, s.Volume())

	require.NoError(t, s.SetAutosave(false))
	assert.Equal(t, "Auto-save disabled!", rec.last())
	assert.Equal(t, "false", store.GetDefault(st, store.KeyAutosave, ""))

	again := NewSettings(st, nil)
	assert.Equal(t, "light", again.Theme())
	assert.Equal(t, 100, again.Volume())
	assert.False(t, again.Autosave())

	require.NoError(t, again.CycleTheme())
	assert.Equal(t, "blue", again.Theme())
	require.NoError(t, again.CycleTheme())
	assert.Equal(t, "dark", again.Theme())
}

func TestVolumeIcon(t *testing.T) {
	tests := map[int]string{0: "🔇", 1: "🔈", 29: "🔈", 30: "🔉", 69: "🔉", 70: "🔊", 100: "🔊"}
	for v, want := range tests {
		assert.Equal(t, want, VolumeIcon(v), "volume %d", v)
	}
}

func TestFiles_CreateSelectDelete(t *testing.T) {
	st := store.NewMemory()
	rec := &recorder{}
	f := NewFiles(st, rec.notify)
	initial := len(f.Entries())
	require.Greater(t, initial, 0)

	require.NoError(t, f.NewFolder("Projects"))
	assert.Equal(t, `Folder "Projects" created!`, rec.last())
	require.NoError(t, f.NewFile("todo.txt"))
	assert.Equal(t, `File "todo.txt" created!`, rec.last())
	require.NoError(t, f.NewFile("   "))
	assert.Len(t, f.Entries(), initial+2)

	_, err := f.DeletePrompt()
	assert.ErrorIs(t, err, ErrNoSelection)
	assert.Equal(t, "Please select a file to delete!", rec.last())

	f.Select(initial)
	prompt, err := f.DeletePrompt()
	require.NoError(t, err)
	assert.Equal(t, `Are you sure you want to delete "Projects"?`, prompt)

	require.NoError(t, f.DeleteSelected(false))
	assert.Len(t, f.Entries(), initial+2)

	require.NoError(t, f.DeleteSelected(true))
	assert.Equal(t, `"Projects" deleted!`, rec.last())
	assert.Len(t, f.Entries(), initial+1)
	_, _, ok := f.Selected()
	assert.False(t, ok)

	var saved []FileEntry
	require.NoError(t, json.Unmarshal([]byte(store.GetDefault(st, store.KeyFiles, "")), &saved))
	assert.Len(t, saved, initial+1)
	assert.Equal(t, "todo.txt", saved[len(saved)-1].Name)

	reloaded := NewFiles(st, nil)
	assert.Len(t, reloaded.Entries(), initial+1)
}

type failingStore struct {
	store.Store
	fail bool
}

func (s *failingStore) Set(key, value string) error {
	if s.fail {
		return errors.New("disk full")
	}
	return s.Store.Set(key, value)
}

func TestFiles_FailedWriteKeepsListing(t *testing.T) {
	st := &failingStore{Store: store.NewMemory()}
	rec := &recorder{}
	f := NewFiles(st, rec.notify)
	before := f.Entries()

	st.fail = true
	require.Error(t, f.NewFolder("Projects"))
	assert.Equal(t, before, f.Entries())
	assert.Empty(t, rec.messages)

	f.Select(0)
	require.Error(t, f.DeleteSelected(true))
	assert.Equal(t, before, f.Entries())
	_, i, ok := f.Selected()
	assert.True(t, ok)
	assert.Equal(t, 0, i)

	st.fail = false
	require.NoError(t, f.DeleteSelected(true))
	assert.Equal(t, before[1:], f.Entries())
}

func TestFileEntry_Labels(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	file := FileEntry{Name: "a.bin", Kind: KindFile, Size: 2_400_000, Modified: now.Add(-2 * time.Hour)}
	folder := FileEntry{Name: "Docs", Kind: KindFolder}

	assert.Equal(t, "2.4 MB", file.SizeLabel())
	assert.Equal(t, "2 hours ago", file.ModifiedLabel(now))
	assert.Equal(t, "📄", file.Icon())
	assert.Equal(t, "", folder.SizeLabel())
	assert.Equal(t, "", folder.ModifiedLabel(now))
	assert.Equal(t, "📁", folder.Icon())
}
