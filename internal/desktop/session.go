package desktop

import (
	"sync"

	"github.com/1broseidon/fakeos/internal/apps"
	"github.com/1broseidon/fakeos/internal/browser"
	"github.com/1broseidon/fakeos/internal/wm"
)

// Session serializes access to a Desktop. The terminal host, the IPC server
// and the HTTP API all go through one Session.
type Session struct {
	mu sync.Mutex
	d  *Desktop
}

// NewSession wraps d.
func NewSession(d *Desktop) *Session {
	return &Session{d: d}
}

// Do runs fn with exclusive access to the desktop.
func (s *Session) Do(fn func(d *Desktop) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.d)
}

// Dispatch routes one input event. Keys go to the desktop shortcuts first and
// a pointer press anywhere closes the open menu before the window manager
// sees it.
func (s *Session) Dispatch(ev wm.Event) (wm.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.Dispatch(ev)
}

// Dispatch is the unlocked form of Session.Dispatch.
func (d *Desktop) Dispatch(ev wm.Event) (wm.Outcome, error) {
	switch ev.Type {
	case wm.EventKey:
		if d.HandleKey(ev.Key) {
			return wm.Outcome{Handled: true}, nil
		}
		return wm.Outcome{}, nil
	case wm.EventPointerDown:
		d.CloseMenus()
	}
	return d.WM.Dispatch(ev)
}

// BrowserState is what the browser window shows.
type BrowserState struct {
	Address    string             `json:"address"`
	View       browser.View       `json:"view"`
	Tabs       []browser.Tab      `json:"tabs"`
	CanBack    bool               `json:"can_back"`
	CanForward bool               `json:"can_forward"`
	Bookmarks  []browser.Bookmark `json:"bookmarks,omitempty"`
}

// FilesState is what the file manager window shows.
type FilesState struct {
	Entries []apps.FileEntry `json:"entries"`
	// Selected is the index of the selected entry, or -1.
	Selected int `json:"selected"`
}

// State is a full projection of the desktop for renderers and remote
// callers.
type State struct {
	wm.Snapshot
	Clock         string         `json:"clock"`
	Menu          string         `json:"menu"`
	MenuX         int            `json:"menu_x,omitempty"`
	MenuY         int            `json:"menu_y,omitempty"`
	MenuItems     []MenuItem     `json:"menu_items,omitempty"`
	Notifications []Notification `json:"notifications"`
	Prompt        *Prompt        `json:"prompt,omitempty"`
	ShuttingDown  bool           `json:"shutting_down,omitempty"`

	Theme      string `json:"theme"`
	Volume     int    `json:"volume"`
	VolumeIcon string `json:"volume_icon"`
	Autosave   bool   `json:"autosave"`

	Calculator string       `json:"calculator"`
	Notes      string       `json:"notes"`
	Files      FilesState   `json:"files"`
	Browser    BrowserState `json:"browser"`
}

// State copies the current desktop state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.State()
}

// State is the unlocked form of Session.State.
func (d *Desktop) State() State {
	st := State{
		Snapshot:      d.WM.Snapshot(),
		Clock:         d.Clock(),
		Menu:          d.menu.String(),
		Notifications: d.Notifications(),
		ShuttingDown:  d.shuttingDown,
		Theme:         d.Settings.Theme(),
		Volume:        d.Settings.Volume(),
		VolumeIcon:    d.Settings.VolumeIcon(),
		Autosave:      d.Settings.Autosave(),
		Calculator:    d.Calculator.Display(),
		Notes:         d.Notes.Content(),
		Browser: BrowserState{
			Address:    d.Browser.Address(),
			View:       d.Browser.View(),
			Tabs:       d.Browser.Tabs(),
			CanBack:    d.Browser.CanGoBack(),
			CanForward: d.Browser.CanGoForward(),
			Bookmarks:  d.Browser.Bookmarks(),
		},
	}
	_, st.Files.Selected, _ = d.Files.Selected()
	st.Files.Entries = d.Files.Entries()
	switch d.menu {
	case MenuStart:
		st.MenuItems = d.StartMenuItems()
	case MenuContext:
		st.MenuX, st.MenuY = d.menuX, d.menuY
		st.MenuItems = d.ContextMenuItems()
	}
	if p, ok := d.Prompt(); ok {
		st.Prompt = &p
	}
	return st
}
