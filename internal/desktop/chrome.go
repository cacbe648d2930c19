package desktop

import (
	"errors"
	"fmt"
	"time"

	"github.com/1broseidon/fakeos/internal/actionlog"
	"github.com/1broseidon/fakeos/internal/apps"
	"github.com/1broseidon/fakeos/internal/config"
	"github.com/google/uuid"
)

// PropertiesText is shown by the context menu's Properties item.
const PropertiesText = "System Properties\n\nFakeOS v1.0\nMemory: 8GB\nStorage: 256GB\nProcessor: FakeCPU 3.0GHz"

// Notification is a toast shown in the corner of the desktop.
type Notification struct {
	ID      string    `json:"id"`
	Message string    `json:"message"`
	Expires time.Time `json:"expires"`
}

// Notify posts a toast that expires after the configured lifetime.
func (d *Desktop) Notify(message string) {
	lifetime := time.Duration(d.cfg.NotificationSeconds) * time.Second
	d.notifications = append(d.notifications, Notification{
		ID:      uuid.NewString(),
		Message: message,
		Expires: d.now().Add(lifetime),
	})
	d.actions.Log(actionlog.ActionNotify, "", map[string]any{"message": message})
}

// Notifications returns the toasts that have not expired yet, oldest first.
func (d *Desktop) Notifications() []Notification {
	d.ExpireNotifications()
	return append([]Notification(nil), d.notifications...)
}

// ExpireNotifications drops expired toasts and reports whether any were
// dropped.
func (d *Desktop) ExpireNotifications() bool {
	now := d.now()
	kept := d.notifications[:0]
	for _, n := range d.notifications {
		if now.Before(n.Expires) {
			kept = append(kept, n)
		}
	}
	dropped := len(kept) != len(d.notifications)
	d.notifications = kept
	return dropped
}

// Clock returns the taskbar clock text.
func (d *Desktop) Clock() string {
	return d.now().Format("15:04")
}

// Menu identifies which shell menu is open.
type Menu int

const (
	MenuNone Menu = iota
	MenuStart
	MenuContext
)

func (m Menu) String() string {
	switch m {
	case MenuStart:
		return "start"
	case MenuContext:
		return "context"
	default:
		return "none"
	}
}

// MenuItem is one entry of the start or context menu.
type MenuItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Start menu actions other than apps.
const StartShutdown = "shutdown"

// Context menu actions.
const (
	ContextRefresh    = "refresh"
	ContextNewFolder  = "new-folder"
	ContextTile       = "tile"
	ContextCascade    = "cascade"
	ContextProperties = "properties"
)

var contextItems = []MenuItem{
	{ID: ContextRefresh, Label: "🔄 Refresh"},
	{ID: ContextNewFolder, Label: "📁 New Folder"},
	{ID: ContextTile, Label: "▦ Tile Windows"},
	{ID: ContextCascade, Label: "❐ Cascade Windows"},
	{ID: ContextProperties, Label: "ℹ️ Properties"},
}

// Menu returns the open menu and, for the context menu, where it was opened.
func (d *Desktop) Menu() (Menu, int, int) {
	return d.menu, d.menuX, d.menuY
}

// ToggleStartMenu opens or closes the start menu.
func (d *Desktop) ToggleStartMenu() {
	if d.menu == MenuStart {
		d.menu = MenuNone
		return
	}
	d.menu = MenuStart
}

// OpenContextMenu opens the desktop context menu at the pointer.
func (d *Desktop) OpenContextMenu(x, y int) {
	d.menu = MenuContext
	d.menuX, d.menuY = x, y
}

// CloseMenus closes whichever menu is open.
func (d *Desktop) CloseMenus() {
	d.menu = MenuNone
}

// StartMenuItems lists one item per installed app followed by Shut Down.
func (d *Desktop) StartMenuItems() []MenuItem {
	items := make([]MenuItem, 0, len(d.cfg.Apps)+1)
	for _, app := range d.cfg.Apps {
		items = append(items, MenuItem{ID: app.Name, Label: app.Label})
	}
	return append(items, MenuItem{ID: StartShutdown, Label: "⏻ Shut Down"})
}

// ContextMenuItems lists the desktop context menu.
func (d *Desktop) ContextMenuItems() []MenuItem {
	return append([]MenuItem(nil), contextItems...)
}

// SelectStartItem runs a start menu item and closes the menu.
func (d *Desktop) SelectStartItem(id string) error {
	d.menu = MenuNone
	if id == StartShutdown {
		d.RequestShutdown()
		return nil
	}
	return d.Open(id)
}

// SelectContextItem runs a context menu item and closes the menu.
func (d *Desktop) SelectContextItem(id string) error {
	d.menu = MenuNone
	switch id {
	case ContextRefresh:
		d.Refresh()
	case ContextNewFolder:
		d.PromptNewFolder()
	case ContextTile:
		return d.WM.Arrange(d.cfg.Arrange.Mode)
	case ContextCascade:
		return d.WM.Arrange(config.ArrangeCascade)
	case ContextProperties:
		d.prompt = &Prompt{Kind: PromptProperties, Title: PropertiesText}
	default:
		return fmt.Errorf("unknown context menu item %q", id)
	}
	return nil
}

// Refresh reloads every panel from the store.
func (d *Desktop) Refresh() {
	for _, p := range d.panels {
		p.Activate()
	}
}

// Open opens an app's window, as a desktop icon double-click does.
func (d *Desktop) Open(app string) error {
	return d.WM.Open(app)
}

// HandleKey runs a desktop keyboard shortcut and reports whether key was one.
func (d *Desktop) HandleKey(key string) bool {
	switch key {
	case "alt+tab":
		d.WM.SwitchWindows()
	case "esc", "escape":
		if d.menu == MenuNone && d.prompt == nil {
			return false
		}
		d.CloseMenus()
		d.CancelPrompt()
	case "ctrl+n":
		_ = d.WM.Open("notes")
	case "ctrl+c":
		_ = d.WM.Open("calculator")
	default:
		return false
	}
	return true
}

// PromptKind identifies what a pending prompt asks for.
type PromptKind string

const (
	PromptNewFolder  PromptKind = "new-folder"
	PromptNewFile    PromptKind = "new-file"
	PromptDelete     PromptKind = "delete"
	PromptShutdown   PromptKind = "shutdown"
	PromptProperties PromptKind = "properties"
)

// Prompt is a question the host must put to the user before the desktop can
// continue. Input prompts want text; the others want a yes/no answer, except
// Properties which is only acknowledged.
type Prompt struct {
	Kind    PromptKind `json:"kind"`
	Title   string     `json:"title"`
	Default string     `json:"default,omitempty"`
	Input   bool       `json:"input,omitempty"`
}

// Prompt returns the pending prompt, if any.
func (d *Desktop) Prompt() (Prompt, bool) {
	if d.prompt == nil {
		return Prompt{}, false
	}
	return *d.prompt, true
}

// PromptNewFile asks for the name of a new file.
func (d *Desktop) PromptNewFile() {
	d.prompt = &Prompt{Kind: PromptNewFile, Title: apps.FilePrompt, Default: apps.DefaultFileName, Input: true}
}

// PromptNewFolder asks for the name of a new folder.
func (d *Desktop) PromptNewFolder() {
	d.prompt = &Prompt{Kind: PromptNewFolder, Title: apps.FolderPrompt, Default: apps.DefaultFolderName, Input: true}
}

// PromptDelete asks to confirm deleting the selected file. Without a
// selection the Files panel notifies instead and nothing is asked.
func (d *Desktop) PromptDelete() {
	question, err := d.Files.DeletePrompt()
	if errors.Is(err, apps.ErrNoSelection) {
		return
	}
	d.prompt = &Prompt{Kind: PromptDelete, Title: question}
}

// RequestShutdown asks to confirm shutting down.
func (d *Desktop) RequestShutdown() {
	d.prompt = &Prompt{Kind: PromptShutdown, Title: "Are you sure you want to shutdown FakeOS?"}
}

// CancelPrompt dismisses the pending prompt without acting on it.
func (d *Desktop) CancelPrompt() {
	d.prompt = nil
}

// Answer resolves the pending prompt. accepted false means the user
// cancelled or declined, which changes nothing.
func (d *Desktop) Answer(value string, accepted bool) error {
	p := d.prompt
	d.prompt = nil
	if p == nil || !accepted {
		return nil
	}
	switch p.Kind {
	case PromptNewFolder:
		return d.Files.NewFolder(value)
	case PromptNewFile:
		return d.Files.NewFile(value)
	case PromptDelete:
		return d.Files.DeleteSelected(true)
	case PromptShutdown:
		d.shuttingDown = true
		d.CloseMenus()
		d.actions.Log(actionlog.ActionShutdown, "", nil)
		d.logger.Info("shutting down")
	}
	return nil
}

// ShuttingDown reports whether the user confirmed shutdown.
func (d *Desktop) ShuttingDown() bool { return d.shuttingDown }
