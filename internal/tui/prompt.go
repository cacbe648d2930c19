package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/1broseidon/fakeos/internal/desktop"
)

// syncPrompt opens a form for a pending desktop prompt, drops the form when
// the prompt went away, and schedules the exit once shutdown is confirmed.
func (m *Model) syncPrompt() tea.Cmd {
	if m.state.ShuttingDown && !m.quitting {
		m.quitting = true
		return tea.Tick(shutdownDelay, func(time.Time) tea.Msg { return shutdownMsg{} })
	}
	p := m.state.Prompt
	switch {
	case p == nil && m.form != nil:
		m.form = nil
	case p != nil && m.form == nil:
		m.form = m.newForm(*p)
		m.syncWidgets()
		return m.form.Init()
	}
	return nil
}

func (m *Model) newForm(p desktop.Prompt) *huh.Form {
	m.answer = p.Default
	m.confirm = false

	var field huh.Field
	switch {
	case p.Input:
		field = huh.NewInput().
			Key("answer").
			Title(p.Title).
			Value(&m.answer)
	case p.Kind == desktop.PromptProperties:
		field = huh.NewConfirm().
			Key("answer").
			Title(p.Title).
			Affirmative("OK").
			Negative("").
			Value(&m.confirm)
	default:
		field = huh.NewConfirm().
			Key("answer").
			Title(p.Title).
			Affirmative("Yes").
			Negative("No").
			Value(&m.confirm)
	}

	w := max(min(m.cols-8, 60), 30)
	return huh.NewForm(huh.NewGroup(field)).
		WithWidth(w).
		WithShowHelp(false).
		WithShowErrors(true).
		WithTheme(huh.ThemeCharm())
}

func (m *Model) updateForm(msg tea.Msg) tea.Cmd {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "ctrl+q":
			return tea.Quit
		case "esc":
			m.resolvePrompt(false)
			return nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		m.resolvePrompt(true)
		return nil
	case huh.StateAborted:
		m.resolvePrompt(false)
		return nil
	}
	return cmd
}

// resolvePrompt answers the pending prompt. Input prompts are accepted by
// submitting them; confirmations need the affirmative answer.
func (m *Model) resolvePrompt(submitted bool) {
	p := m.state.Prompt
	m.form = nil
	if p == nil {
		m.refresh()
		return
	}
	accepted := submitted
	if !p.Input {
		accepted = submitted && m.confirm
	}
	value := m.answer
	m.do(func(d *desktop.Desktop) error {
		return d.Answer(value, accepted)
	})
}
