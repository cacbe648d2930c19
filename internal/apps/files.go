package apps

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/1broseidon/fakeos/internal/store"
	"github.com/dustin/go-humanize"
)

// Prompts shown by the Files panel.
const (
	FolderPrompt      = "Enter folder name:"
	DefaultFolderName = "New Folder"
	FilePrompt        = "Enter file name:"
	DefaultFileName   = "newfile.txt"
)

// EntryKind distinguishes folders from files.
type EntryKind string

const (
	KindFolder EntryKind = "folder"
	KindFile   EntryKind = "file"
)

// FileEntry is one row of the mock file listing.
type FileEntry struct {
	Name     string    `json:"name"`
	Kind     EntryKind `json:"kind"`
	Size     uint64    `json:"size"`
	Modified time.Time `json:"modified"`
}

// Icon returns the listing glyph.
func (e FileEntry) Icon() string {
	if e.Kind == KindFolder {
		return "📁"
	}
	return "📄"
}

// SizeLabel returns a human readable size; folders have none.
func (e FileEntry) SizeLabel() string {
	if e.Kind == KindFolder {
		return ""
	}
	return humanize.Bytes(e.Size)
}

// ModifiedLabel returns the age of the entry relative to now.
func (e FileEntry) ModifiedLabel(now time.Time) string {
	if e.Modified.IsZero() {
		return ""
	}
	return humanize.RelTime(e.Modified, now, "ago", "from now")
}

// Files is the mock file manager. Nothing touches the real file system; the
// listing lives in the store.
type Files struct {
	store    store.Store
	notify   Notify
	now      func() time.Time
	entries  []FileEntry
	selected int
}

// NewFiles loads the saved listing or seeds the default one.
func NewFiles(st store.Store, notify Notify) *Files {
	f := &Files{store: st, notify: notify, now: time.Now, selected: -1}
	f.load()
	return f
}

func defaultEntries(now time.Time) []FileEntry {
	day := 24 * time.Hour
	return []FileEntry{
		{Name: "Documents", Kind: KindFolder, Modified: now.Add(-3 * day)},
		{Name: "Pictures", Kind: KindFolder, Modified: now.Add(-10 * day)},
		{Name: "Music", Kind: KindFolder, Modified: now.Add(-30 * day)},
		{Name: "readme.txt", Kind: KindFile, Size: 1337, Modified: now.Add(-2 * time.Hour)},
		{Name: "photo.jpg", Kind: KindFile, Size: 2_400_000, Modified: now.Add(-5 * day)},
	}
}

func (f *Files) load() {
	raw, err := f.store.Get(store.KeyFiles)
	if err != nil {
		f.entries = defaultEntries(f.now())
		return
	}
	var entries []FileEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		f.entries = defaultEntries(f.now())
		return
	}
	f.entries = entries
}

// commit persists entries and adopts them as the listing only once the
// store accepted them.
func (f *Files) commit(entries []FileEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode file list: %w", err)
	}
	if err := f.store.Set(store.KeyFiles, string(data)); err != nil {
		return err
	}
	f.entries = entries
	return nil
}

func (f *Files) Name() string { return "files" }
func (f *Files) Activate()    {}

// Deactivate drops the selection.
func (f *Files) Deactivate() { f.selected = -1 }

// Entries returns a copy of the listing.
func (f *Files) Entries() []FileEntry {
	return append([]FileEntry(nil), f.entries...)
}

// Select marks entry i as selected. Out of range indexes clear the selection.
func (f *Files) Select(i int) {
	if i < 0 || i >= len(f.entries) {
		f.selected = -1
		return
	}
	f.selected = i
}

// Selected returns the selected entry.
func (f *Files) Selected() (FileEntry, int, bool) {
	if f.selected < 0 || f.selected >= len(f.entries) {
		return FileEntry{}, -1, false
	}
	return f.entries[f.selected], f.selected, true
}

// NewFolder appends a folder. An empty name means the prompt was cancelled.
func (f *Files) NewFolder(name string) error {
	return f.create(name, KindFolder, 0, "Folder")
}

// NewFile appends an empty file. An empty name means the prompt was
// cancelled.
func (f *Files) NewFile(name string) error {
	return f.create(name, KindFile, 0, "File")
}

func (f *Files) create(name string, kind EntryKind, size uint64, noun string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	entries := append(f.Entries(), FileEntry{Name: name, Kind: kind, Size: size, Modified: f.now()})
	if err := f.commit(entries); err != nil {
		return err
	}
	f.notify.send(fmt.Sprintf("%s %q created!", noun, name))
	return nil
}

// ErrNoSelection is returned by DeletePrompt when nothing is selected.
var ErrNoSelection = errors.New("no file selected")

// DeletePrompt returns the confirmation question for deleting the selected
// entry. Without a selection the user is told to pick one.
func (f *Files) DeletePrompt() (string, error) {
	e, _, ok := f.Selected()
	if !ok {
		f.notify.send("Please select a file to delete!")
		return "", ErrNoSelection
	}
	return fmt.Sprintf("Are you sure you want to delete %q?", e.Name), nil
}

// DeleteSelected removes the selected entry once the user confirmed.
// Declining leaves the listing untouched.
func (f *Files) DeleteSelected(confirmed bool) error {
	e, i, ok := f.Selected()
	if !ok {
		f.notify.send("Please select a file to delete!")
		return ErrNoSelection
	}
	if !confirmed {
		return nil
	}
	entries := slices.Delete(f.Entries(), i, i+1)
	if err := f.commit(entries); err != nil {
		return err
	}
	f.selected = -1
	f.notify.send(fmt.Sprintf("%q deleted!", e.Name))
	return nil
}
