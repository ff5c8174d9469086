package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all dashboard key bindings with built-in help text.
type KeyMap struct {
	// Global
	Quit      key.Binding
	ForceQuit key.Binding
	Escape    key.Binding

	// Navigation
	Up   key.Binding
	Down key.Binding

	// Card actions
	Pin    key.Binding
	Delete key.Binding

	// Queries
	Ask   key.Binding
	Enter key.Binding

	// Suggested questions
	Question1 key.Binding
	Question2 key.Binding
	Question3 key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		Escape: key.NewBinding(
			key.WithKeys("escape", "esc"),
			key.WithHelp("esc", "cancel input"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),

		Pin: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pin/unpin card"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "x"),
			key.WithHelp("d", "dismiss card"),
		),

		Ask: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "ask a question"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),

		Question1: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "suggested question 1"),
		),
		Question2: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "suggested question 2"),
		),
		Question3: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "suggested question 3"),
		),
	}
}
