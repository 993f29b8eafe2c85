package tui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/browser"
)

// NewProgram wraps app in a full-screen program. Callers may Send to it
// from other goroutines, for example when the config file changes.
func NewProgram(ctx context.Context, app *App) *tea.Program {
	// xdg-open and friends must not write over the alt screen
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard

	return tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
}

// Run blocks until the program exits
func Run(p *tea.Program) error {
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}
