package tui

import (
	"fmt"
	"reflect"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/reelcraft-cli/reelcraft/editor"
	"github.com/reelcraft-cli/reelcraft/element"
	"github.com/reelcraft-cli/reelcraft/library"
	"github.com/reelcraft-cli/reelcraft/notice"
	"github.com/samber/lo"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	b.notifier.update(msg)

	switch msg := msg.(type) {
	case error:
		b.raiseError(msg)
		return b, nil
	case sessionClosedMsg:
		return b, tea.Quit
	case savedMsg:
		b.dirty = false
		b.notices.Report(notice.New(notice.Success, "Saved %s", b.project.Name))
		return b, b.drainNotices()
	case viewMsg:
		b.applyView(editor.View(msg))
		return b, tea.Batch(b.waitForView(), b.drainNotices())
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, nil
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}

		var cmd tea.Cmd
		switch b.state {
		case timelineState:
			cmd = b.updateTimeline(msg)
		case libraryState:
			cmd = b.updateLibrary(msg)
		case confirmQuitState:
			cmd = b.updateConfirmQuit(msg)
		case errorState:
			cmd = b.updateError(msg)
		}
		return b, tea.Batch(cmd, b.drainNotices())
	}

	return b, nil
}

// applyView refreshes component state from a new snapshot.
func (b *statefulBubble) applyView(v editor.View) {
	elementsChanged := !reflect.DeepEqual(v.Elements, b.view.Elements) || v.Selected != b.view.Selected
	b.view = v

	if elementsChanged {
		index := b.clipsC.Index()
		b.clipsC.SetItems(elementItems(v.Elements))
		if id, ok := v.Selected.Get(); ok {
			_, i, found := lo.FindIndexOf(v.Elements, func(e element.Element) bool { return e.ID == id })
			if found {
				index = i
			}
		}
		b.clipsC.Select(index)
	}

	if id, ok := v.VideoEnded.Get(); ok && b.lastEnded.OrEmpty() != id {
		b.notices.Report(notice.New(notice.Info, "Video ended"))
	}
	b.lastEnded = v.VideoEnded
}

func (b *statefulBubble) drainNotices() tea.Cmd {
	pending := b.notices.Drain()
	if len(pending) == 0 {
		return nil
	}
	return b.notifier.push(pending[len(pending)-1])
}

func (b *statefulBubble) updateTimeline(msg tea.KeyMsg) tea.Cmd {
	k := b.keymap
	switch {
	case bubblesKey.Matches(msg, k.quit):
		if b.dirty {
			b.newState(confirmQuitState)
			return nil
		}
		return tea.Quit
	case bubblesKey.Matches(msg, k.playPause):
		b.do(func(e *editor.Editor) { e.Toggle() })
	case bubblesKey.Matches(msg, k.restart):
		b.do(func(e *editor.Editor) { e.Restart() })
	case bubblesKey.Matches(msg, k.skipToEnd):
		b.do(func(e *editor.Editor) { e.SkipToEnd() })
	case bubblesKey.Matches(msg, k.seekBack):
		b.do(func(e *editor.Editor) { e.Nudge(-1) })
	case bubblesKey.Matches(msg, k.seekForward):
		b.do(func(e *editor.Editor) { e.Nudge(1) })
	case bubblesKey.Matches(msg, k.stepBack):
		b.do(func(e *editor.Editor) { e.Nudge(-5) })
	case bubblesKey.Matches(msg, k.stepForward):
		b.do(func(e *editor.Editor) { e.Nudge(5) })
	case bubblesKey.Matches(msg, k.up, k.down, k.top, k.bottom):
		var cmd tea.Cmd
		b.clipsC, cmd = b.clipsC.Update(msg)
		b.selectIndex()
		return cmd
	case bubblesKey.Matches(msg, k.remove):
		b.removeSelected()
	case bubblesKey.Matches(msg, k.undo):
		b.edit(func(e *editor.Editor) { e.Store().Undo() })
	case bubblesKey.Matches(msg, k.redo):
		b.edit(func(e *editor.Editor) { e.Store().Redo() })
	case bubblesKey.Matches(msg, k.trimStart):
		b.trimToCursor(true)
	case bubblesKey.Matches(msg, k.trimEnd):
		b.trimToCursor(false)
	case bubblesKey.Matches(msg, k.slower):
		b.stepSpeed(-1)
	case bubblesKey.Matches(msg, k.faster):
		b.stepSpeed(1)
	case bubblesKey.Matches(msg, k.volumeDown):
		b.changeVolume(-volumeStep)
	case bubblesKey.Matches(msg, k.volumeUp):
		b.changeVolume(volumeStep)
	case bubblesKey.Matches(msg, k.mute):
		b.do(func(e *editor.Editor) { e.ToggleMute() })
	case bubblesKey.Matches(msg, k.muteClip):
		b.toggleClipMute()
	case bubblesKey.Matches(msg, k.priority):
		b.do(func(e *editor.Editor) { e.ToggleAudioPriority() })
	case bubblesKey.Matches(msg, k.openLibrary):
		b.libraryC.SetItems(libraryItems(b.library.Items()))
		b.newState(libraryState)
	case bubblesKey.Matches(msg, k.save):
		return b.save()
	case bubblesKey.Matches(msg, k.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
	}
	return nil
}

func (b *statefulBubble) updateLibrary(msg tea.KeyMsg) tea.Cmd {
	filtering := b.libraryC.FilterState() == list.Filtering

	switch {
	case !filtering && bubblesKey.Matches(msg, b.keymap.quit):
		b.previousState()
		return b.updateTimeline(msg)
	case !filtering && bubblesKey.Matches(msg, b.keymap.back):
		if b.libraryC.FilterState() == list.FilterApplied {
			b.libraryC.ResetFilter()
			return nil
		}
		b.previousState()
		return nil
	case !filtering && bubblesKey.Matches(msg, b.keymap.add):
		entry, ok := b.libraryC.SelectedItem().(*listItem)
		if !ok {
			return nil
		}
		if item, ok := entry.internal.(library.Item); ok {
			b.addToTimeline(item)
			b.previousState()
			return b.libraryC.NewStatusMessage(fmt.Sprintf("Added %s", item.Name))
		}
		return nil
	}

	var cmd tea.Cmd
	b.libraryC, cmd = b.libraryC.Update(msg)
	return cmd
}

func (b *statefulBubble) updateConfirmQuit(msg tea.KeyMsg) tea.Cmd {
	switch {
	case bubblesKey.Matches(msg, b.keymap.confirm):
		return tea.Quit
	case bubblesKey.Matches(msg, b.keymap.save):
		return tea.Sequence(b.save(), tea.Quit)
	case bubblesKey.Matches(msg, b.keymap.back):
		b.previousState()
	}
	return nil
}

func (b *statefulBubble) updateError(msg tea.KeyMsg) tea.Cmd {
	switch {
	case bubblesKey.Matches(msg, b.keymap.quit):
		return tea.Quit
	case bubblesKey.Matches(msg, b.keymap.back):
		b.lastError = nil
		b.setState(timelineState)
	}
	return nil
}
