package tui

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/1broseidon/fakeos/internal/browser"
	"github.com/1broseidon/fakeos/internal/config"
	"github.com/1broseidon/fakeos/internal/desktop"
	"github.com/1broseidon/fakeos/internal/wm"
)

const (
	doubleClick   = 500 * time.Millisecond
	shutdownDelay = 1500 * time.Millisecond
)

type tickMsg time.Time

type fetchMsg struct {
	resp browser.Response
}

type shutdownMsg struct{}

// Model is the bubbletea model of the terminal desktop. All desktop state
// lives in the session; the model only holds widgets and pointer state.
type Model struct {
	ctx     context.Context
	session *desktop.Session
	cfg     *config.Config
	browser *browser.Browser
	grid    grid
	keys    keyMap
	now     func() time.Time

	cols, rows int
	state      desktop.State
	menu       string
	menuIndex  int

	notes          textarea.Model
	address        textinput.Model
	editingAddress bool
	page           viewport.Model
	pageKey        string

	form    *huh.Form
	answer  string
	confirm bool

	pressed      bool
	selectedIcon string
	lastClick    time.Time
	lastIcon     string
	quitting     bool
}

// New creates the terminal desktop model for session.
func New(ctx context.Context, session *desktop.Session) *Model {
	m := &Model{
		ctx:     ctx,
		session: session,
		keys:    defaultKeyMap(),
		now:     time.Now,
		menu:    desktop.MenuNone.String(),
	}
	_ = session.Do(func(d *desktop.Desktop) error {
		m.cfg = d.Config()
		m.browser = d.Browser
		return nil
	})
	m.grid = newGrid(m.cfg)

	m.notes = textarea.New()
	m.notes.Placeholder = "Start typing your notes here..."
	m.notes.ShowLineNumbers = false
	m.notes.Prompt = ""
	m.notes.CharLimit = 0

	m.address = textinput.New()
	m.address.Prompt = ""
	m.address.Placeholder = "Search Google or type a URL"

	m.page = viewport.New(0, 0)

	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	return m, tea.Batch(cmd, m.syncPrompt())
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return nil
	case tickMsg:
		m.do(func(d *desktop.Desktop) error {
			d.ExpireNotifications()
			return nil
		})
		return tick()
	case fetchMsg:
		m.do(func(d *desktop.Desktop) error {
			d.Browser.Apply(msg.resp)
			return nil
		})
		return nil
	case shutdownMsg:
		return tea.Quit
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	if m.form != nil {
		return m.updateForm(msg)
	}
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.notes, cmd = m.notes.Update(msg)
	cmds = append(cmds, cmd)
	m.address, cmd = m.address.Update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

// resize maps the terminal size onto the desktop viewport.
func (m *Model) resize(cols, rows int) {
	if cols <= 0 || rows <= 1 {
		return
	}
	m.cols, m.rows = cols, rows
	w, h := m.grid.viewport(cols, rows)
	m.dispatch(wm.Event{Type: wm.EventViewport, Width: w, Height: h})
}

// do runs fn against the desktop and re-reads its state.
func (m *Model) do(fn func(d *desktop.Desktop) error) {
	if err := m.session.Do(fn); err != nil {
		log.Printf("desktop: %v", err)
	}
	m.refresh()
}

func (m *Model) dispatch(ev wm.Event) wm.Outcome {
	var out wm.Outcome
	m.do(func(d *desktop.Desktop) error {
		var err error
		out, err = d.Dispatch(ev)
		return err
	})
	return out
}

// browse runs a browser navigation and starts the fetch it asks for.
func (m *Model) browse(fn func(b *browser.Browser) (browser.Request, bool)) tea.Cmd {
	var req browser.Request
	var ok bool
	m.do(func(d *desktop.Desktop) error {
		req, ok = fn(d.Browser)
		return nil
	})
	if !ok {
		return nil
	}
	return m.fetch(req)
}

// fetch performs req off the UI loop. The response is applied under the
// session lock when it arrives; stale responses are dropped by the browser.
func (m *Model) fetch(req browser.Request) tea.Cmd {
	ctx, b := m.ctx, m.browser
	return func() tea.Msg {
		return fetchMsg{resp: b.Do(ctx, req)}
	}
}

func (m *Model) refresh() {
	m.state = m.session.State()
	if m.state.Menu != m.menu {
		m.menu = m.state.Menu
		m.menuIndex = 0
	}
	m.syncWidgets()
}

// focusedApp returns the app of the focused window.
func (m *Model) focusedApp() string {
	if v, ok := m.state.Window(m.state.Focused); ok {
		return v.App
	}
	return ""
}

// contentSize returns the content area of app's window in cells.
func (m *Model) contentSize(app string) (int, int, bool) {
	for _, v := range m.state.Windows {
		if v.App == app {
			r := m.grid.cells(v.Bounds)
			return r.cols, max(r.rows-1, 0), true
		}
	}
	return 0, 0, false
}

// syncWidgets keeps the bubbles widgets in step with the desktop.
func (m *Model) syncWidgets() {
	focused := m.focusedApp()

	if w, h, ok := m.contentSize("notes"); ok {
		m.notes.SetWidth(max(w, 1))
		m.notes.SetHeight(max(h-1, 1))
	}
	if focused == "notes" && m.form == nil {
		m.notes.Focus()
	} else {
		m.notes.Blur()
	}
	if !m.notes.Focused() && m.notes.Value() != m.state.Notes {
		m.notes.SetValue(m.state.Notes)
	}

	if focused != "chrome" {
		m.stopEditingAddress()
	}
	if w, h, ok := m.contentSize("chrome"); ok {
		m.address.Width = max(w-22, 1)
		m.page.Width = max(w, 1)
		m.page.Height = max(h-chromeTop, 1)
	}
	if !m.editingAddress {
		m.address.SetValue(m.state.Browser.Address)
	}
	view := m.state.Browser.View
	pageKey := string(view.Kind) + " " + view.URL + " " + strconv.Itoa(m.page.Width)
	if pageKey != m.pageKey {
		m.pageKey = pageKey
		m.page.SetContent(pageContent(view.Page, m.page.Width))
		m.page.GotoTop()
	}
}

func (m *Model) startEditingAddress() tea.Cmd {
	m.editingAddress = true
	m.address.SetValue(m.state.Browser.Address)
	m.address.CursorEnd()
	return m.address.Focus()
}

func (m *Model) stopEditingAddress() {
	m.editingAddress = false
	m.address.Blur()
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.form != nil {
		return m.updateForm(msg)
	}
	if key.Matches(msg, m.keys.Quit) {
		return tea.Quit
	}
	if m.state.ShuttingDown {
		return nil
	}
	k := msg.String()

	if m.editingAddress && k == "esc" {
		m.stopEditingAddress()
		m.refresh()
		return nil
	}

	if len(m.state.MenuItems) > 0 {
		n := len(m.state.MenuItems)
		switch {
		case key.Matches(msg, m.keys.MenuUp):
			m.menuIndex = (m.menuIndex - 1 + n) % n
			return nil
		case key.Matches(msg, m.keys.MenuDown):
			m.menuIndex = (m.menuIndex + 1) % n
			return nil
		case key.Matches(msg, m.keys.Select):
			m.selectMenuItem(m.state.MenuItems[min(m.menuIndex, n-1)].ID)
			return nil
		}
	}

	if out := m.dispatch(wm.Event{Type: wm.EventKey, Key: k}); out.Handled {
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Start):
		m.do(func(d *desktop.Desktop) error {
			d.ToggleStartMenu()
			return nil
		})
		return nil
	case key.Matches(msg, m.keys.Tile):
		m.dispatch(wm.Event{Type: wm.EventArrange, Mode: m.cfg.Arrange.Mode})
		return nil
	case key.Matches(msg, m.keys.Cascade):
		m.dispatch(wm.Event{Type: wm.EventArrange, Mode: config.ArrangeCascade})
		return nil
	}
	if id := m.state.Focused; id != "" {
		switch {
		case key.Matches(msg, m.keys.Close):
			m.dispatch(wm.Event{Type: wm.EventClose, Target: id})
			return nil
		case key.Matches(msg, m.keys.Minimize):
			m.dispatch(wm.Event{Type: wm.EventMinimize, Target: id})
			return nil
		case key.Matches(msg, m.keys.Maximize):
			m.dispatch(wm.Event{Type: wm.EventMaximize, Target: id})
			return nil
		}
	}

	switch m.focusedApp() {
	case "calculator":
		return m.calculatorKey(k)
	case "notes":
		return m.notesKey(msg)
	case "files":
		return m.filesKey(msg)
	case "settings":
		return m.settingsKey(k)
	case "chrome":
		return m.chromeKey(msg)
	}
	return nil
}

func (m *Model) calculatorKey(k string) tea.Cmd {
	m.do(func(d *desktop.Desktop) error {
		d.Calculator.Press(k)
		return nil
	})
	return nil
}

func (m *Model) notesKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Save) {
		m.do(func(d *desktop.Desktop) error { return d.Notes.Save() })
		return nil
	}
	var cmd tea.Cmd
	m.notes, cmd = m.notes.Update(msg)
	if v := m.notes.Value(); v != m.state.Notes {
		m.do(func(d *desktop.Desktop) error { return d.Notes.SetContent(v) })
	}
	return cmd
}

func (m *Model) filesKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.MenuUp), key.Matches(msg, m.keys.MenuDown):
		delta := 1
		if key.Matches(msg, m.keys.MenuUp) {
			delta = -1
		}
		m.do(func(d *desktop.Desktop) error {
			_, i, ok := d.Files.Selected()
			switch {
			case !ok:
				i = 0
			default:
				i = min(max(i+delta, 0), len(d.Files.Entries())-1)
			}
			d.Files.Select(i)
			return nil
		})
	case key.Matches(msg, m.keys.NewFile):
		m.do(func(d *desktop.Desktop) error {
			d.PromptNewFile()
			return nil
		})
	case key.Matches(msg, m.keys.NewFolder):
		m.do(func(d *desktop.Desktop) error {
			d.PromptNewFolder()
			return nil
		})
	case key.Matches(msg, m.keys.Delete):
		m.do(func(d *desktop.Desktop) error {
			d.PromptDelete()
			return nil
		})
	}
	return nil
}

func (m *Model) settingsKey(k string) tea.Cmd {
	m.do(func(d *desktop.Desktop) error {
		switch k {
		case "t":
			return d.Settings.CycleTheme()
		case "+", "=", "right":
			return d.Settings.SetVolume(d.Settings.Volume() + volumeStep)
		case "-", "left":
			return d.Settings.SetVolume(d.Settings.Volume() - volumeStep)
		case "a", " ":
			return d.Settings.SetAutosave(!d.Settings.Autosave())
		}
		return nil
	})
	return nil
}

func (m *Model) chromeKey(msg tea.KeyMsg) tea.Cmd {
	if m.editingAddress {
		if msg.Type == tea.KeyEnter {
			input := m.address.Value()
			m.stopEditingAddress()
			return m.browse(func(b *browser.Browser) (browser.Request, bool) { return b.Navigate(input) })
		}
		var cmd tea.Cmd
		m.address, cmd = m.address.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, m.keys.Address):
		return m.startEditingAddress()
	case key.Matches(msg, m.keys.Back):
		return m.browse((*browser.Browser).Back)
	case key.Matches(msg, m.keys.Forward):
		return m.browse((*browser.Browser).Forward)
	case key.Matches(msg, m.keys.Reload):
		return m.browse((*browser.Browser).Refresh)
	case key.Matches(msg, m.keys.NewTab):
		m.do(func(d *desktop.Desktop) error {
			d.Browser.NewTab()
			return nil
		})
		return nil
	case key.Matches(msg, m.keys.CloseTab):
		m.do(func(d *desktop.Desktop) error {
			d.Browser.CloseTab(d.Browser.CurrentTab())
			return nil
		})
		return nil
	case key.Matches(msg, m.keys.NextTab):
		m.do(func(d *desktop.Desktop) error {
			tabs := d.Browser.Tabs()
			for i, t := range tabs {
				if t.Active {
					d.Browser.SwitchTab(tabs[(i+1)%len(tabs)].ID)
					break
				}
			}
			return nil
		})
		return nil
	case key.Matches(msg, m.keys.Bookmark):
		m.do(func(d *desktop.Desktop) error { return d.Browser.AddBookmark(d.Browser.Address()) })
		return nil
	}

	view := m.state.Browser.View
	if n, err := strconv.Atoi(msg.String()); err == nil && n > 0 {
		var target string
		switch {
		case view.Kind == browser.ViewSearch && n <= len(view.Results):
			target = view.Results[n-1].URL
		case view.Kind == browser.ViewPage && view.Page != nil && n <= len(view.Page.Links):
			target = view.Page.Links[n-1].URL
		}
		if target != "" {
			return m.browse(func(b *browser.Browser) (browser.Request, bool) { return b.Navigate(target) })
		}
	}
	if view.Kind == browser.ViewError && msg.String() == "r" {
		return m.browse((*browser.Browser).Retry)
	}
	if view.Kind == browser.ViewPage {
		var cmd tea.Cmd
		m.page, cmd = m.page.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) selectMenuItem(id string) {
	menu := m.state.Menu
	m.do(func(d *desktop.Desktop) error {
		if menu == desktop.MenuStart.String() {
			return d.SelectStartItem(id)
		}
		return d.SelectContextItem(id)
	})
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.form != nil || m.state.ShuttingDown {
		return nil
	}
	px, py := m.grid.point(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			return m.press(msg.X, msg.Y, px, py)
		case tea.MouseButtonRight:
			m.do(func(d *desktop.Desktop) error {
				if d.WM.HitTest(px, py).Region == wm.RegionDesktop {
					d.OpenContextMenu(px, py)
				} else {
					d.CloseMenus()
				}
				return nil
			})
		case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
			if m.focusedApp() == "chrome" && m.state.Browser.View.Kind == browser.ViewPage {
				var cmd tea.Cmd
				m.page, cmd = m.page.Update(msg)
				return cmd
			}
		}
	case tea.MouseActionMotion:
		if m.pressed {
			m.dispatch(wm.Event{Type: wm.EventPointerMove, X: px, Y: py})
		}
	case tea.MouseActionRelease:
		if m.pressed {
			m.pressed = false
			m.dispatch(wm.Event{Type: wm.EventPointerUp, X: px, Y: py})
		}
	}
	return nil
}

func (m *Model) press(col, row, px, py int) tea.Cmd {
	if r, ok := m.menuRect(); ok && r.contains(col, row) {
		if i := row - r.row - m.menuHeader(); i >= 0 && i < len(m.state.MenuItems) {
			m.selectMenuItem(m.state.MenuItems[i].ID)
		}
		return nil
	}

	if row == m.rows-1 {
		return m.taskbarClick(col)
	}

	out := m.dispatch(wm.Event{Type: wm.EventPointerDown, X: px, Y: py})
	m.pressed = true
	switch out.Hit.Region {
	case wm.RegionContent:
		v, ok := m.state.Window(out.Hit.WindowID)
		if !ok {
			return nil
		}
		r := m.grid.cells(v.Bounds)
		return m.panelClick(v.App, col-r.col, row-r.row-1)
	case wm.RegionDesktop:
		m.stopEditingAddress()
		return m.iconClick(col, row)
	}
	return nil
}

func (m *Model) panelClick(app string, col, row int) tea.Cmd {
	w, h, ok := m.contentSize(app)
	if !ok {
		return nil
	}
	p := m.panel(app, newStyles(m.state.Theme), w, h)
	sp, ok := p.spotAt(col, row)
	if !ok {
		if app == "chrome" {
			m.stopEditingAddress()
		}
		return nil
	}
	if app == "chrome" && sp.action != "address" {
		m.stopEditingAddress()
	}
	return m.act(sp)
}

// act runs a panel control.
func (m *Model) act(sp spot) tea.Cmd {
	switch sp.action {
	case "key":
		return m.calculatorKey(sp.arg)
	case "save":
		m.do(func(d *desktop.Desktop) error { return d.Notes.Save() })
	case "edit":
		return m.notes.Focus()
	case "new-folder":
		m.do(func(d *desktop.Desktop) error {
			d.PromptNewFolder()
			return nil
		})
	case "new-file":
		m.do(func(d *desktop.Desktop) error {
			d.PromptNewFile()
			return nil
		})
	case "delete":
		m.do(func(d *desktop.Desktop) error {
			d.PromptDelete()
			return nil
		})
	case "select":
		i, _ := strconv.Atoi(sp.arg)
		m.do(func(d *desktop.Desktop) error {
			d.Files.Select(i)
			return nil
		})
	case "theme":
		m.do(func(d *desktop.Desktop) error { return d.Settings.SetTheme(sp.arg) })
	case "volume":
		delta, _ := strconv.Atoi(sp.arg)
		m.do(func(d *desktop.Desktop) error { return d.Settings.SetVolume(d.Settings.Volume() + delta) })
	case "autosave":
		m.do(func(d *desktop.Desktop) error { return d.Settings.SetAutosave(!d.Settings.Autosave()) })
	case "tab":
		m.do(func(d *desktop.Desktop) error {
			d.Browser.SwitchTab(sp.arg)
			return nil
		})
	case "close-tab":
		m.do(func(d *desktop.Desktop) error {
			d.Browser.CloseTab(sp.arg)
			return nil
		})
	case "new-tab":
		m.do(func(d *desktop.Desktop) error {
			d.Browser.NewTab()
			return nil
		})
	case "back":
		return m.browse((*browser.Browser).Back)
	case "forward":
		return m.browse((*browser.Browser).Forward)
	case "reload":
		return m.browse((*browser.Browser).Refresh)
	case "retry":
		return m.browse((*browser.Browser).Retry)
	case "home":
		home := m.cfg.HomeURL
		return m.browse(func(b *browser.Browser) (browser.Request, bool) { return b.Navigate(home) })
	case "open":
		target := sp.arg
		return m.browse(func(b *browser.Browser) (browser.Request, bool) { return b.Navigate(target) })
	case "address":
		return m.startEditingAddress()
	case "bookmark":
		m.do(func(d *desktop.Desktop) error { return d.Browser.AddBookmark(d.Browser.Address()) })
	}
	return nil
}

// iconClick selects a desktop icon; a second click within the double-click
// interval opens its app.
func (m *Model) iconClick(col, row int) tea.Cmd {
	app, ok := m.iconAt(col, row)
	if !ok {
		m.selectedIcon = ""
		return nil
	}
	now := m.now()
	if app == m.lastIcon && now.Sub(m.lastClick) <= doubleClick {
		m.lastIcon = ""
		m.dispatch(wm.Event{Type: wm.EventOpen, Target: app})
		return nil
	}
	m.selectedIcon = app
	m.lastIcon = app
	m.lastClick = now
	return nil
}

func (m *Model) taskbarClick(col int) tea.Cmd {
	for _, sp := range m.taskbarSpots() {
		if !sp.area.contains(col, m.rows-1) {
			continue
		}
		switch sp.action {
		case "start":
			m.do(func(d *desktop.Desktop) error {
				d.ToggleStartMenu()
				return nil
			})
		case "task":
			m.do(func(d *desktop.Desktop) error {
				d.CloseMenus()
				return d.WM.ActivateTaskbarEntry(sp.arg)
			})
		}
		return nil
	}
	m.do(func(d *desktop.Desktop) error {
		d.CloseMenus()
		return nil
	})
	return nil
}
