package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Init subscribes to session views and renders the current one.
func (b *statefulBubble) Init() tea.Cmd {
	b.views = b.session.Subscribe()
	if v, err := b.session.Snapshot(); err == nil {
		b.applyView(v)
	}
	return b.waitForView()
}
