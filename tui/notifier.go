package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/reelcraft-cli/reelcraft/color"
	"github.com/reelcraft-cli/reelcraft/icon"
	"github.com/reelcraft-cli/reelcraft/notice"
	"github.com/reelcraft-cli/reelcraft/style"
)

const noticeLifetime = 3 * time.Second

// clearNoticeMsg resets the notifier once the notice it was scheduled for is stale.
type clearNoticeMsg struct {
	at time.Time
}

// notifier shows the latest toast for a few seconds.
type notifier struct {
	current notice.Notice
	shown   bool
}

func (n *notifier) push(nt notice.Notice) tea.Cmd {
	n.current = nt
	n.shown = true
	at := nt.At
	return tea.Tick(noticeLifetime, func(time.Time) tea.Msg {
		return clearNoticeMsg{at: at}
	})
}

func (n *notifier) update(msg tea.Msg) {
	if msg, ok := msg.(clearNoticeMsg); ok && msg.at.Equal(n.current.At) {
		n.shown = false
	}
}

func (n *notifier) view() string {
	if !n.shown {
		return ""
	}

	switch n.current.Severity {
	case notice.Error:
		return style.Fg(color.Red)(icon.Get(icon.Fail) + " " + n.current.Message)
	case notice.Warning:
		return style.Fg(color.Yellow)(icon.Get(icon.Warn) + " " + n.current.Message)
	case notice.Success:
		return style.Fg(color.Green)(icon.Get(icon.Success) + " " + n.current.Message)
	default:
		return style.Faint(icon.Get(icon.Info) + " " + n.current.Message)
	}
}
