package tui

import "github.com/charmbracelet/lipgloss"

// theme is the palette behind one Settings theme.
type theme struct {
	desktop   lipgloss.Color
	window    lipgloss.Color
	text      lipgloss.Color
	dim       lipgloss.Color
	title     lipgloss.Color
	titleText lipgloss.Color
	inactive  lipgloss.Color
	accent    lipgloss.Color
	taskbar   lipgloss.Color
}

var themes = map[string]theme{
	"dark": {
		desktop: "24", window: "236", text: "252", dim: "244",
		title: "62", titleText: "15", inactive: "239", accent: "39", taskbar: "235",
	},
	"light": {
		desktop: "110", window: "255", text: "235", dim: "243",
		title: "33", titleText: "15", inactive: "250", accent: "27", taskbar: "252",
	},
	"blue": {
		desktop: "18", window: "17", text: "153", dim: "67",
		title: "27", titleText: "15", inactive: "60", accent: "45", taskbar: "19",
	},
}

func themeFor(name string) theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes["dark"]
}

// styles are derived from the active theme on every render.
type styles struct {
	theme
	desktop     lipgloss.Style
	icon        lipgloss.Style
	window      lipgloss.Style
	dim         lipgloss.Style
	titleActive lipgloss.Style
	titleIdle   lipgloss.Style
	button      lipgloss.Style
	buttonHot   lipgloss.Style
	selected    lipgloss.Style
	taskbar     lipgloss.Style
	taskEntry   lipgloss.Style
	taskActive  lipgloss.Style
	start       lipgloss.Style
	menu        lipgloss.Style
	menuItem    lipgloss.Style
	menuHot     lipgloss.Style
	toast       lipgloss.Style
	dialog      lipgloss.Style
	link        lipgloss.Style
	errorText   lipgloss.Style
}

func newStyles(name string) styles {
	t := themeFor(name)
	s := styles{theme: t}
	s.desktop = lipgloss.NewStyle().Background(t.desktop)
	s.icon = lipgloss.NewStyle().Background(t.desktop).Foreground(lipgloss.Color("15"))
	s.window = lipgloss.NewStyle().Background(t.window).Foreground(t.text)
	s.dim = s.window.Foreground(t.dim)
	s.titleActive = lipgloss.NewStyle().Background(t.title).Foreground(t.titleText).Bold(true)
	s.titleIdle = lipgloss.NewStyle().Background(t.inactive).Foreground(t.text)
	s.button = lipgloss.NewStyle().Background(t.inactive).Foreground(t.text)
	s.buttonHot = lipgloss.NewStyle().Background(t.accent).Foreground(lipgloss.Color("15")).Bold(true)
	s.selected = lipgloss.NewStyle().Background(t.accent).Foreground(lipgloss.Color("15"))
	s.taskbar = lipgloss.NewStyle().Background(t.taskbar).Foreground(t.text)
	s.taskEntry = lipgloss.NewStyle().Background(t.inactive).Foreground(t.text)
	s.taskActive = lipgloss.NewStyle().Background(t.title).Foreground(t.titleText).Bold(true)
	s.start = lipgloss.NewStyle().Background(t.accent).Foreground(lipgloss.Color("15")).Bold(true)
	s.menu = lipgloss.NewStyle().Background(t.window).Foreground(t.text)
	s.menuItem = s.menu.Padding(0, 1)
	s.menuHot = lipgloss.NewStyle().Background(t.accent).Foreground(lipgloss.Color("15")).Padding(0, 1)
	s.toast = lipgloss.NewStyle().
		Background(lipgloss.Color("22")).
		Foreground(lipgloss.Color("15")).
		Padding(0, 1)
	s.dialog = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.accent).
		Padding(1, 2)
	s.link = s.window.Foreground(t.accent).Underline(true)
	s.errorText = s.window.Foreground(lipgloss.Color("203"))
	return s
}
