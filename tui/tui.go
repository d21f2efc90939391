// Package tui provides the primary terminal user interface implementation.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/reelcraft-cli/reelcraft/editor"
	"github.com/reelcraft-cli/reelcraft/library"
	"github.com/reelcraft-cli/reelcraft/notice"
	"github.com/reelcraft-cli/reelcraft/project"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	// Session must already be running.
	Session *editor.Session
	// Notices should be the buffer the session's editor reports into.
	Notices *notice.Buffer
	Project project.Project
	Library *library.Library
}

// Run executes the Bubble Tea program until the user quits.
func Run(options *Options) error {
	bubble := newBubble(options)
	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	return err
}
