// Package tui is the terminal desktop: it draws the windows, taskbar, menus
// and notifications of a desktop session and feeds mouse and keyboard input
// into it.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/fakeos/internal/desktop"
	"github.com/1broseidon/fakeos/internal/runtimepath"
)

// Run starts the terminal desktop and blocks until the user quits, shuts
// down from the start menu, or ctx is cancelled.
func Run(ctx context.Context, session *desktop.Session) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("desktop requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	// The screen belongs to the desktop; log lines go to a file instead.
	if path, err := runtimepath.LogPath(); err == nil {
		if f, err := tea.LogToFile(path, "fakeos"); err == nil {
			defer f.Close()
		}
	}

	m := New(ctx, session)
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		w, h = 80, 24
	}
	m.resize(w, h)

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
