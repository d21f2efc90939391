package tui

import (
	"errors"
	"math"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/reelcraft-cli/reelcraft/editor"
	"github.com/reelcraft-cli/reelcraft/element"
	"github.com/reelcraft-cli/reelcraft/library"
	"github.com/reelcraft-cli/reelcraft/log"
	"github.com/reelcraft-cli/reelcraft/project"
	"github.com/samber/lo"
)

type (
	viewMsg          editor.View
	sessionClosedMsg struct{}
	savedMsg         struct{ path string }
)

// speedPresets are the playback rates offered by the speed keys.
var speedPresets = []float64{0.25, 0.5, 0.75, 1, 1.25, 1.5, 2}

// volumeStep is how much one keypress changes the master volume.
const volumeStep = 0.1

func (b *statefulBubble) waitForView() tea.Cmd {
	return func() tea.Msg {
		v, ok := <-b.views
		if !ok {
			return sessionClosedMsg{}
		}
		return viewMsg(v)
	}
}

// do runs fn on the session goroutine.
func (b *statefulBubble) do(fn func(*editor.Editor)) {
	if err := b.session.Do(fn); err != nil {
		if errors.Is(err, editor.ErrClosed) {
			log.Debug("tui: operation after session close")
			return
		}
		b.raiseError(err)
	}
}

// edit runs a timeline mutation and marks the project unsaved.
func (b *statefulBubble) edit(fn func(*editor.Editor)) {
	b.dirty = true
	b.do(fn)
}

func (b *statefulBubble) selected() (element.Element, bool) {
	id, ok := b.view.Selected.Get()
	if !ok {
		return element.Element{}, false
	}
	return lo.Find(b.view.Elements, func(e element.Element) bool { return e.ID == id })
}

// trimToCursor moves one edge of the selected clip to the playhead.
func (b *statefulBubble) trimToCursor(start bool) {
	if e, ok := b.selected(); ok {
		b.edit(trimOp(e.ID, start))
	}
}

// trimOp reads the clip and the playhead on the session goroutine, so a
// stale view never overwrites a newer range.
func trimOp(id string, start bool) func(*editor.Editor) {
	return func(ed *editor.Editor) {
		e, ok := ed.Store().Element(id)
		if !ok {
			return
		}
		r := e.Range
		if start {
			r.Start = ed.Time()
		} else {
			r.End = ed.Time()
		}
		ed.Store().SetTimeRange(id, r.Start, r.End)
	}
}

// stepSpeed moves the selected clip to the neighbouring speed preset.
func (b *statefulBubble) stepSpeed(dir int) {
	if e, ok := b.selected(); ok {
		b.edit(speedOp(e.ID, dir))
	}
}

func speedOp(id string, dir int) func(*editor.Editor) {
	return func(ed *editor.Editor) {
		if e, ok := ed.Store().Element(id); ok {
			ed.Store().SetSpeed(id, nextPreset(e.Rate(), dir))
		}
	}
}

func nextPreset(current float64, dir int) float64 {
	if dir > 0 {
		if p, ok := lo.Find(speedPresets, func(p float64) bool { return p > current+1e-9 }); ok {
			return p
		}
		return speedPresets[len(speedPresets)-1]
	}

	for i := len(speedPresets) - 1; i >= 0; i-- {
		if speedPresets[i] < current-1e-9 {
			return speedPresets[i]
		}
	}
	return speedPresets[0]
}

func (b *statefulBubble) toggleClipMute() {
	if e, ok := b.selected(); ok {
		b.edit(muteOp(e.ID))
	}
}

func muteOp(id string) func(*editor.Editor) {
	return func(ed *editor.Editor) {
		e, ok := ed.Store().Element(id)
		if !ok {
			return
		}
		if mix, ok := e.Mix(); ok {
			ed.Store().SetMuted(id, !mix.Muted)
		}
	}
}

func (b *statefulBubble) removeSelected() {
	e, ok := b.selected()
	if !ok {
		return
	}
	b.edit(func(ed *editor.Editor) {
		ed.Store().Remove(e.ID)
	})
}

func (b *statefulBubble) changeVolume(delta float64) {
	b.do(volumeOp(delta))
}

func volumeOp(delta float64) func(*editor.Editor) {
	return func(ed *editor.Editor) {
		ed.SetMasterVolume(math.Round((ed.MasterVolume()+delta)*10) / 10)
	}
}

// addToTimeline places a library item after the last clip on its track.
func (b *statefulBubble) addToTimeline(item library.Item) {
	media := b.library.Media(item)
	b.edit(func(ed *editor.Editor) {
		store := ed.Store()
		track, start := library.Slot(store.Elements(), item.Kind)
		id := store.AddMedia(media, track, start)
		store.Select(id)
	})
}

// selectIndex points the store selection at the clip under the list cursor.
func (b *statefulBubble) selectIndex() {
	item, ok := b.clipsC.SelectedItem().(*listItem)
	if !ok {
		return
	}
	e, ok := item.internal.(element.Element)
	if !ok || b.view.Selected.OrEmpty() == e.ID {
		return
	}
	b.do(func(ed *editor.Editor) {
		ed.Store().Select(e.ID)
	})
}

func (b *statefulBubble) save() tea.Cmd {
	p := b.project
	p.Elements = element.Clone(b.view.Elements)
	return func() tea.Msg {
		path, err := project.Save(p)
		if err != nil {
			return err
		}
		return savedMsg{path: path}
	}
}
