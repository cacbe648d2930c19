package apps

import (
	"fmt"

	"github.com/1broseidon/fakeos/internal/store"
)

// Notes is a single-document notepad backed by the store.
type Notes struct {
	store    store.Store
	notify   Notify
	autosave func() bool
	content  string
	dirty    bool
}

// NewNotes loads the saved document. autosave decides whether edits are
// written immediately; nil means always.
func NewNotes(st store.Store, autosave func() bool, notify Notify) *Notes {
	n := &Notes{store: st, notify: notify, autosave: autosave}
	n.content = store.GetDefault(st, store.KeyNotes, "")
	return n
}

func (n *Notes) Name() string { return "notes" }

// Activate reloads the saved document unless there are unsaved edits.
func (n *Notes) Activate() {
	if !n.dirty {
		n.content = store.GetDefault(n.store, store.KeyNotes, "")
	}
}

// Deactivate keeps unsaved edits in memory; they are written by Save.
func (n *Notes) Deactivate() {}

func (n *Notes) Content() string { return n.content }

// Dirty reports whether there are edits not yet written to the store.
func (n *Notes) Dirty() bool { return n.dirty }

// SetContent replaces the document, writing it through when autosave is on.
func (n *Notes) SetContent(content string) error {
	n.content = content
	n.dirty = true
	if n.autosave == nil || n.autosave() {
		return n.write()
	}
	return nil
}

// Save writes the document and confirms it to the user.
func (n *Notes) Save() error {
	if err := n.write(); err != nil {
		return err
	}
	n.notify.send("Notes saved!")
	return nil
}

func (n *Notes) write() error {
	if err := n.store.Set(store.KeyNotes, n.content); err != nil {
		return fmt.Errorf("failed to save notes: %w", err)
	}
	n.dirty = false
	return nil
}
