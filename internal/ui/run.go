package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	model := New(opts)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(opts.Context))
	_, err := program.Run()
	return err
}
