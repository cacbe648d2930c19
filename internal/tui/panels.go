package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/1broseidon/fakeos/internal/apps"
	"github.com/1broseidon/fakeos/internal/browser"
	"github.com/1broseidon/fakeos/internal/desktop"
)

// spot is a clickable area of a panel, taskbar or menu.
type spot struct {
	area   cellRect
	action string
	arg    string
}

// panel is the content area of one window. The same layout code renders a
// panel and resolves clicks on it.
type panel struct {
	*canvas
	s     styles
	spots []spot
}

func newPanel(s styles, w, h int) *panel {
	return &panel{
		canvas: newCanvas(max(w, 0), max(h, 0), s.window.Render(strings.Repeat(" ", max(w, 0)))),
		s:      s,
	}
}

func (p *panel) text(col, row int, style lipgloss.Style, text string) int {
	p.place(col, row, style.Render(text))
	return col + ansi.StringWidth(text)
}

func (p *panel) button(col, row int, label, action, arg string, hot bool) int {
	style := p.s.button
	if hot {
		style = p.s.buttonHot
	}
	label = " " + label + " "
	w := ansi.StringWidth(label)
	p.place(col, row, style.Render(label))
	p.spots = append(p.spots, spot{area: cellRect{col: col, row: row, cols: w, rows: 1}, action: action, arg: arg})
	return col + w + 1
}

func (p *panel) spotAt(col, row int) (spot, bool) {
	for i := len(p.spots) - 1; i >= 0; i-- {
		if p.spots[i].area.contains(col, row) {
			return p.spots[i], true
		}
	}
	return spot{}, false
}

// panel builds the content of app's window at w×h cells.
func (m *Model) panel(app string, s styles, w, h int) *panel {
	switch app {
	case "calculator":
		return calculatorPanel(&m.state, s, w, h)
	case "notes":
		return m.notesPanel(s, w, h)
	case "files":
		return filesPanel(&m.state, s, w, h, m.now())
	case "settings":
		return settingsPanel(&m.state, s, w, h)
	case "chrome":
		return m.chromePanel(s, w, h)
	}
	p := newPanel(s, w, h)
	p.text(1, 0, s.dim, app)
	return p
}

type calcKey struct {
	label string
	key   string
	span  int
}

var calcLayout = [][]calcKey{
	{{"C", "c", 1}, {"⌫", "backspace", 1}, {"÷", apps.OpDivide, 1}, {"×", apps.OpMultiply, 1}},
	{{"7", "7", 1}, {"8", "8", 1}, {"9", "9", 1}, {"-", apps.OpSubtract, 1}},
	{{"4", "4", 1}, {"5", "5", 1}, {"6", "6", 1}, {"+", apps.OpAdd, 1}},
	{{"1", "1", 1}, {"2", "2", 1}, {"3", "3", 1}, {"=", "=", 1}},
	{{"0", "0", 2}, {".", ".", 1}, {"=", "=", 1}},
}

func calculatorPanel(st *desktop.State, s styles, w, h int) *panel {
	p := newPanel(s, w, h)
	display := s.window.Bold(true).Width(max(w-2, 1)).Align(lipgloss.Right).Render(st.Calculator)
	p.place(1, 0, display)

	bh := max((h-2)/len(calcLayout), 1)
	bw := max(w/4, 3)
	for r, keys := range calcLayout {
		col := 0
		top := 2 + r*bh
		for _, k := range keys {
			cw := bw*k.span - 1
			style := s.button
			if _, err := strconv.Atoi(k.key); err != nil && k.key != "." {
				style = s.buttonHot
			}
			for y := 0; y < bh; y++ {
				label := strings.Repeat(" ", cw)
				if y == bh/2 {
					label = lipgloss.PlaceHorizontal(cw, lipgloss.Center, k.label)
				}
				p.place(col, top+y, style.Render(label))
			}
			p.spots = append(p.spots, spot{area: cellRect{col: col, row: top, cols: cw, rows: bh}, action: "key", arg: k.key})
			col += cw + 1
		}
	}
	return p
}

func (m *Model) notesPanel(s styles, w, h int) *panel {
	p := newPanel(s, w, h)
	col := p.button(0, 0, "💾 Save", "save", "", false)
	status := "Auto-save on"
	if !m.state.Autosave {
		status = "Auto-save off"
	}
	p.text(col, 0, s.dim, status)
	p.place(0, 1, m.notes.View())
	p.spots = append(p.spots, spot{area: cellRect{col: 0, row: 1, cols: w, rows: max(h-1, 0)}, action: "edit"})
	return p
}

const (
	filesSizeWidth     = 9
	filesModifiedWidth = 14
)

func filesPanel(st *desktop.State, s styles, w, h int, now time.Time) *panel {
	p := newPanel(s, w, h)
	col := p.button(0, 0, "📁 New Folder", "new-folder", "", false)
	col = p.button(col, 0, "📄 New File", "new-file", "", false)
	p.button(col, 0, "🗑 Delete", "delete", "", false)

	nameW := max(w-filesSizeWidth-filesModifiedWidth-2, 8)
	row := func(name, size, modified string) string {
		return fit(name, nameW) + " " + fit(size, filesSizeWidth) + " " + fit(modified, filesModifiedWidth)
	}
	p.text(0, 1, s.dim, fit(row("Name", "Size", "Modified"), w))

	visible := h - 2
	sel := st.Files.Selected
	start := 0
	if sel >= visible {
		start = sel - visible + 1
	}
	for i := start; i < len(st.Files.Entries) && i-start < visible; i++ {
		e := st.Files.Entries[i]
		style := s.window
		if i == sel {
			style = s.selected
		}
		y := 2 + i - start
		p.text(0, y, style, fit(row(e.Icon()+" "+e.Name, e.SizeLabel(), e.ModifiedLabel(now)), w))
		p.spots = append(p.spots, spot{area: cellRect{col: 0, row: y, cols: w, rows: 1}, action: "select", arg: strconv.Itoa(i)})
	}
	return p
}

const volumeStep = 10

func settingsPanel(st *desktop.State, s styles, w, h int) *panel {
	p := newPanel(s, w, h)
	bold := s.window.Bold(true)

	p.text(1, 0, bold, "Theme")
	col := 1
	for _, t := range apps.Themes {
		col = p.button(col, 1, t, "theme", t, t == st.Theme)
	}

	p.text(1, 3, bold, "Volume")
	col = p.button(1, 4, "−", "volume", strconv.Itoa(-volumeStep), false)
	barW := max(min(w-col-14, 20), 4)
	filled := st.Volume * barW / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barW-filled)
	col = p.text(col, 4, s.window.Foreground(s.accent), bar)
	col = p.text(col, 4, s.window, fmt.Sprintf(" %s %d%% ", st.VolumeIcon, st.Volume))
	p.button(col, 4, "+", "volume", strconv.Itoa(volumeStep), false)

	check := "[ ]"
	if st.Autosave {
		check = "[x]"
	}
	label := check + " Auto-save notes"
	p.text(1, 6, s.window, label)
	p.spots = append(p.spots, spot{area: cellRect{col: 1, row: 6, cols: ansi.StringWidth(label), rows: 1}, action: "autosave"})

	p.text(1, 8, s.dim, "FakeOS v1.0")
	return p
}

// chromeTop is the number of rows above the browser content: tabs and
// navigation.
const chromeTop = 2

func (m *Model) chromePanel(s styles, w, h int) *panel {
	b := m.state.Browser
	p := newPanel(s, w, h)

	col := 0
	for _, t := range b.Tabs {
		style := s.button
		if t.Active {
			style = s.buttonHot
		}
		seg := " " + t.Icon + " " + ansi.Truncate(t.Title, 16, "…") + " "
		sw := ansi.StringWidth(seg)
		p.place(col, 0, style.Render(seg))
		p.spots = append(p.spots, spot{area: cellRect{col: col, row: 0, cols: sw, rows: 1}, action: "tab", arg: t.ID})
		col += sw
		p.place(col, 0, style.Render("× "))
		p.spots = append(p.spots, spot{area: cellRect{col: col, row: 0, cols: 2, rows: 1}, action: "close-tab", arg: t.ID})
		col += 3
	}
	p.button(col, 0, "+", "new-tab", "", false)

	col = p.button(0, 1, "←", "back", "", false)
	col = p.button(col, 1, "→", "forward", "", false)
	col = p.button(col, 1, "⟳", "reload", "", false)
	col = p.button(col, 1, "⌂", "home", "", false)
	addrW := max(w-col-4, 1)
	p.place(col, 1, s.window.Render(fit(m.address.View(), addrW)))
	p.spots = append(p.spots, spot{area: cellRect{col: col, row: 1, cols: addrW, rows: 1}, action: "address"})
	p.button(col+addrW, 1, "☆", "bookmark", "", false)

	m.browserContent(p, b, w, h-chromeTop)
	return p
}

func (m *Model) browserContent(p *panel, b desktop.BrowserState, w, h int) {
	s := p.s
	top := chromeTop
	bold := s.window.Bold(true)
	switch b.View.Kind {
	case browser.ViewHome:
		p.place(0, top+1, s.window.Width(w).Align(lipgloss.Center).Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Render("G")+
				lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Render("o")+
				lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Render("o")+
				lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Render("g")+
				lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Render("l")+
				lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Render("e")))
		hint := "Search Google or type a URL"
		hw := min(ansi.StringWidth(hint)+4, w)
		hc := max((w-hw)/2, 0)
		p.place(hc, top+3, s.button.Render(fit("🔍 "+hint, hw)))
		p.spots = append(p.spots, spot{area: cellRect{col: hc, row: top + 3, cols: hw, rows: 1}, action: "address"})
		if len(b.Bookmarks) > 0 {
			p.text(1, top+5, bold, "Bookmarks")
			now := m.now()
			for i, bm := range b.Bookmarks {
				y := top + 6 + i
				if y >= top+h {
					break
				}
				end := p.text(1, y, s.link, "★ "+bm.Title)
				p.text(end, y, s.dim, "  "+bm.Age(now))
				p.spots = append(p.spots, spot{area: cellRect{col: 1, row: y, cols: end - 1, rows: 1}, action: "open", arg: bm.URL})
			}
		}
	case browser.ViewYouTube:
		p.text(1, top+1, s.window.Foreground(lipgloss.Color("196")).Bold(true), "▶ YouTube")
		p.text(1, top+3, s.window, "https://www.youtube.com")
		p.text(1, top+4, s.dim, "The player cannot be embedded in a terminal window.")
	case browser.ViewSearch:
		p.text(1, top, s.dim, fmt.Sprintf("Results for %q", b.View.Query))
		y := top + 2
		for i, r := range b.View.Results {
			if y+1 >= top+h {
				break
			}
			title := fmt.Sprintf("%d. %s", i+1, r.Title)
			end := p.text(1, y, s.link, ansi.Truncate(title, w-2, "…"))
			p.spots = append(p.spots, spot{area: cellRect{col: 1, row: y, cols: end - 1, rows: 1}, action: "open", arg: r.URL})
			p.text(4, y+1, s.window.Foreground(lipgloss.Color("34")), ansi.Truncate(r.URL, w-5, "…"))
			if y+2 < top+h {
				p.text(4, y+2, s.dim, ansi.Truncate(r.Snippet, w-5, "…"))
			}
			y += 4
		}
	case browser.ViewPage:
		p.place(0, top, m.page.View())
	case browser.ViewLoading:
		p.text(1, top+1, s.dim, "Loading "+ansi.Truncate(b.View.URL, w-12, "…")+" …")
	case browser.ViewError:
		p.text(1, top+1, s.errorText, ansi.Truncate(b.View.Err, w-2, "…"))
		p.button(1, top+3, "Retry", "retry", "", true)
	}
}

// pageContent renders a proxied page for the page viewport.
func pageContent(page *browser.Page, width int) string {
	if page == nil {
		return ""
	}
	wrap := lipgloss.NewStyle().Width(max(width-1, 1))
	var sb strings.Builder
	if page.Title != "" {
		sb.WriteString(lipgloss.NewStyle().Bold(true).Render(page.Title))
		sb.WriteString("\n")
	}
	sb.WriteString(lipgloss.NewStyle().Faint(true).Render(page.URL))
	sb.WriteString("\n\n")
	sb.WriteString(wrap.Render(page.Text))
	if len(page.Links) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Links"))
		for i, l := range page.Links {
			fmt.Fprintf(&sb, "\n[%d] %s %s", i+1, l.Text, lipgloss.NewStyle().Faint(true).Render(l.URL))
		}
	}
	return sb.String()
}
