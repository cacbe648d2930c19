package wm

import "slices"

// TaskbarEntry is the taskbar button for one open app.
type TaskbarEntry struct {
	App      string `json:"app"`
	Label    string `json:"label"`
	WindowID string `json:"window_id"`
	Active   bool   `json:"active"`
}

// Taskbar keeps one entry per open app, in creation order.
type Taskbar struct {
	entries []*TaskbarEntry
}

func (t *Taskbar) index(app string) int {
	return slices.IndexFunc(t.entries, func(e *TaskbarEntry) bool { return e.App == app })
}

// Ensure creates the entry for app if it does not exist yet. It reports
// whether an entry was created.
func (t *Taskbar) Ensure(app, label, windowID string) (*TaskbarEntry, bool) {
	if i := t.index(app); i >= 0 {
		return t.entries[i], false
	}
	e := &TaskbarEntry{App: app, Label: label, WindowID: windowID}
	t.entries = append(t.entries, e)
	return e, true
}

// Remove deletes the entry for app. Missing entries are ignored.
func (t *Taskbar) Remove(app string) {
	if i := t.index(app); i >= 0 {
		t.entries = slices.Delete(t.entries, i, i+1)
	}
}

// Entry returns the entry for app.
func (t *Taskbar) Entry(app string) (*TaskbarEntry, bool) {
	if i := t.index(app); i >= 0 {
		return t.entries[i], true
	}
	return nil, false
}

// SetActive sets the active flag for app's entry.
func (t *Taskbar) SetActive(app string, active bool) {
	if e, ok := t.Entry(app); ok {
		e.Active = active
	}
}

// Sync marks exactly the entry bound to focusedID as active.
func (t *Taskbar) Sync(focusedID string) {
	for _, e := range t.entries {
		e.Active = focusedID != "" && e.WindowID == focusedID
	}
}

// Entries returns a copy of the entries in taskbar order.
func (t *Taskbar) Entries() []TaskbarEntry {
	out := make([]TaskbarEntry, len(t.entries))
	for i, e := range t.entries {
		out[i] = *e
	}
	return out
}

func (t *Taskbar) Len() int { return len(t.entries) }
