package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/1broseidon/fakeos/internal/desktop"
	"github.com/1broseidon/fakeos/internal/wm"
)

const (
	iconCol   = 2
	iconWidth = 14
	menuWidth = 24
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.cols == 0 || m.rows == 0 {
		return ""
	}
	s := newStyles(m.state.Theme)

	if m.state.ShuttingDown {
		return lipgloss.Place(m.cols, m.rows, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Bold(true).Render("Shutting down FakeOS..."),
			lipgloss.WithWhitespaceBackground(lipgloss.Color("0")))
	}

	c := newCanvas(m.cols, m.rows, s.desktop.Render(strings.Repeat(" ", m.cols)))
	m.drawIcons(c, s)
	for _, id := range m.state.Stack {
		if v, ok := m.state.Window(id); ok {
			m.drawWindow(c, s, v)
		}
	}
	m.drawMenu(c, s)
	m.drawToasts(c, s)
	c.place(0, m.rows-1, m.taskbar(s))
	if m.form != nil {
		box := s.dialog.Render(m.form.View())
		col := max((m.cols-lipgloss.Width(box))/2, 0)
		row := max((m.rows-lipgloss.Height(box))/2, 0)
		c.place(col, row, box)
	}
	return c.String()
}

func (m *Model) iconRect(i int) cellRect {
	return cellRect{col: iconCol, row: 1 + i*2, cols: iconWidth, rows: 1}
}

func (m *Model) iconAt(col, row int) (string, bool) {
	for i, app := range m.cfg.Apps {
		if m.iconRect(i).contains(col, row) {
			return app.Name, true
		}
	}
	return "", false
}

func (m *Model) drawIcons(c *canvas, s styles) {
	for i, app := range m.cfg.Apps {
		r := m.iconRect(i)
		style := s.icon
		if app.Name == m.selectedIcon {
			style = s.selected
		}
		c.place(r.col, r.row, style.Render(fit(" "+app.Label, r.cols)))
	}
}

func (m *Model) drawWindow(c *canvas, s styles, v wm.WindowView) {
	r := m.grid.cells(v.Bounds)
	if r.cols <= 0 || r.rows <= 0 {
		return
	}
	title := s.titleIdle
	if v.Status == wm.StatusFocused {
		title = s.titleActive
	}
	maxGlyph := " □ "
	if v.Maximized {
		maxGlyph = " ❐ "
	}
	controls := " _ " + maxGlyph + " × "
	cw := ansi.StringWidth(controls)
	bar := fit(" "+v.Title, max(r.cols-cw, 0)) + controls
	c.place(r.col, r.row, title.Render(ansi.Truncate(bar, r.cols, "")))

	if r.rows > 1 {
		body := m.panel(v.App, s, r.cols, r.rows-1)
		c.place(r.col, r.row+1, body.String())
	}
	if !v.Maximized && r.rows > 1 {
		c.place(r.col+r.cols-1, r.row+r.rows-1, s.dim.Render("◢"))
	}
}

// menuHeader is the number of rows above the first menu item.
func (m *Model) menuHeader() int {
	if m.state.Menu == desktop.MenuStart.String() {
		return 1
	}
	return 0
}

// menuRect returns where the open menu is drawn.
func (m *Model) menuRect() (cellRect, bool) {
	items := m.state.MenuItems
	if len(items) == 0 {
		return cellRect{}, false
	}
	w := menuWidth
	for _, it := range items {
		w = max(w, ansi.StringWidth(it.Label)+2)
	}
	h := len(items) + m.menuHeader()
	if m.state.Menu == desktop.MenuStart.String() {
		return cellRect{col: 0, row: max(m.rows-1-h, 0), cols: w, rows: h}, true
	}
	col := min(m.state.MenuX/m.grid.cw, max(m.cols-w, 0))
	row := min(m.state.MenuY/m.grid.ch, max(m.rows-1-h, 0))
	return cellRect{col: col, row: row, cols: w, rows: h}, true
}

func (m *Model) drawMenu(c *canvas, s styles) {
	r, ok := m.menuRect()
	if !ok {
		return
	}
	row := r.row
	if m.menuHeader() > 0 {
		c.place(r.col, row, s.titleActive.Width(r.cols).Render(" FakeOS"))
		row++
	}
	for i, it := range m.state.MenuItems {
		style := s.menuItem
		if i == m.menuIndex {
			style = s.menuHot
		}
		c.place(r.col, row+i, style.Width(r.cols).Render(it.Label))
	}
}

func (m *Model) drawToasts(c *canvas, s styles) {
	for i, n := range m.state.Notifications {
		toast := s.toast.Render(n.Message)
		c.place(max(m.cols-lipgloss.Width(toast)-1, 0), 1+i, toast)
	}
}

const startLabel = " ⊞ Start "

// taskbarSpots lays out the start button and one entry per open app.
func (m *Model) taskbarSpots() []spot {
	row := m.rows - 1
	w := ansi.StringWidth(startLabel)
	spots := []spot{{area: cellRect{col: 0, row: row, cols: w, rows: 1}, action: "start"}}
	col := w + 1
	for _, e := range m.state.Taskbar {
		lw := ansi.StringWidth(" " + e.Label + " ")
		spots = append(spots, spot{area: cellRect{col: col, row: row, cols: lw, rows: 1}, action: "task", arg: e.App})
		col += lw + 1
	}
	return spots
}

func (m *Model) taskbar(s styles) string {
	line := newCanvas(m.cols, 1, s.taskbar.Render(strings.Repeat(" ", m.cols)))
	active := make(map[string]bool, len(m.state.Taskbar))
	labels := make(map[string]string, len(m.state.Taskbar))
	for _, e := range m.state.Taskbar {
		active[e.App] = e.Active
		labels[e.App] = e.Label
	}
	for _, sp := range m.taskbarSpots() {
		switch sp.action {
		case "start":
			line.place(sp.area.col, 0, s.start.Render(startLabel))
		case "task":
			style := s.taskEntry
			if active[sp.arg] {
				style = s.taskActive
			}
			line.place(sp.area.col, 0, style.Render(" "+labels[sp.arg]+" "))
		}
	}
	tray := " " + m.state.VolumeIcon + " " + m.state.Clock + " "
	line.place(max(m.cols-ansi.StringWidth(tray), 0), 0, s.taskbar.Render(tray))
	return line.String()
}
