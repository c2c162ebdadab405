package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the explorer on the terminal and blocks until the user quits,
// ctx is cancelled or the worker terminates. A terminated worker is reported
// as an error.
func Run(ctx context.Context, d Dispatcher, opts Options) error {
	p := tea.NewProgram(New(d, opts), tea.WithAltScreen(), tea.WithContext(ctx))

	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok {
		return m.Err()
	}
	return nil
}
