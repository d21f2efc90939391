package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/reelcraft-cli/reelcraft/color"
	"github.com/reelcraft-cli/reelcraft/style"
)

// statefulKeymap defines the keyboard interactions available within various application states.
type statefulKeymap struct {
	state state

	quit, forceQuit,
	playPause, restart, skipToEnd,
	seekBack, seekForward, stepBack, stepForward,
	up, down, top, bottom,
	remove, undo, redo,
	trimStart, trimEnd,
	slower, faster,
	volumeDown, volumeUp, mute, muteClip, priority,
	openLibrary, add, filter,
	save, confirm, back,
	showHelp key.Binding
}

func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

func newStatefulKeymap() *statefulKeymap {
	return &statefulKeymap{
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		playPause: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp(style.Fg(color.Orange)("space"), style.Fg(color.Orange)("play/pause")),
		),
		restart: key.NewBinding(
			key.WithKeys("home", "0"),
			key.WithHelp("home", "restart"),
		),
		skipToEnd: key.NewBinding(
			key.WithKeys("end", "$"),
			key.WithHelp("end", "skip to end"),
		),
		seekBack: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "-1s"),
		),
		seekForward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "+1s"),
		),
		stepBack: key.NewBinding(
			key.WithKeys("shift+left", "H"),
			key.WithHelp("H", "-5s"),
		),
		stepForward: key.NewBinding(
			key.WithKeys("shift+right", "L"),
			key.WithHelp("L", "+5s"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "previous clip"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "next clip"),
		),
		top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "top"),
		),
		bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "bottom"),
		),
		remove: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete clip"),
		),
		undo: key.NewBinding(
			key.WithKeys("u", "ctrl+z"),
			key.WithHelp("u", "undo"),
		),
		redo: key.NewBinding(
			key.WithKeys("U", "ctrl+y"),
			key.WithHelp("U", "redo"),
		),
		trimStart: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "trim start to cursor"),
		),
		trimEnd: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "trim end to cursor"),
		),
		slower: key.NewBinding(
			key.WithKeys("<", ","),
			key.WithHelp("<", "slower"),
		),
		faster: key.NewBinding(
			key.WithKeys(">", "."),
			key.WithHelp(">", "faster"),
		),
		volumeDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "volume down"),
		),
		volumeUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "volume up"),
		),
		mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute all"),
		),
		muteClip: key.NewBinding(
			key.WithKeys("M"),
			key.WithHelp("M", "mute clip"),
		),
		priority: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "audio priority"),
		),
		openLibrary: key.NewBinding(
			key.WithKeys("a", "tab"),
			key.WithHelp("a", "media library"),
		),
		add: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp(style.Fg(color.Orange)("enter"), style.Fg(color.Orange)("add to timeline")),
		),
		filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		save: key.NewBinding(
			key.WithKeys("ctrl+s", "w"),
			key.WithHelp("w", "save"),
		),
		confirm: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y", "confirm"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k *statefulKeymap) help() ([]key.Binding, []key.Binding) {
	h := func(bindings ...key.Binding) []key.Binding {
		return bindings
	}

	to2 := func(a []key.Binding) ([]key.Binding, []key.Binding) {
		return a, a
	}

	switch k.state {
	case timelineState:
		return h(k.playPause, k.seekBack, k.seekForward, k.up, k.down, k.undo, k.openLibrary, k.showHelp),
			h(k.playPause, k.restart, k.skipToEnd, k.seekBack, k.seekForward, k.stepBack, k.stepForward,
				k.up, k.down, k.remove, k.undo, k.redo, k.trimStart, k.trimEnd, k.slower, k.faster,
				k.volumeDown, k.volumeUp, k.mute, k.muteClip, k.priority, k.openLibrary, k.save, k.quit)
	case libraryState:
		return to2(h(k.add, k.filter, k.back))
	case confirmQuitState:
		return to2(h(k.confirm, k.save, k.back))
	case errorState:
		return to2(h(k.back, k.quit))
	default:
		return to2(h())
	}
}

func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}

func (k *statefulKeymap) forList() list.KeyMap {
	return list.KeyMap{
		CursorUp:             k.up,
		CursorDown:           k.down,
		GoToStart:            k.top,
		GoToEnd:              k.bottom,
		Filter:               k.filter,
		ClearFilter:          k.back,
		CancelWhileFiltering: k.back,
		AcceptWhileFiltering: k.add,
		ShowFullHelp:         k.showHelp,
		CloseFullHelp:        k.showHelp,
		Quit:                 k.quit,
		ForceQuit:            k.forceQuit,
	}
}
