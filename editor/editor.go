// Package editor ties the element store, the clock and the playback
// synchronizer of one editing session together.
//
// An Editor is single-threaded. Session runs it on one goroutine that
// serializes user operations with the per-frame tick.
package editor

import (
	"time"

	"github.com/reelcraft-cli/reelcraft/clock"
	"github.com/reelcraft-cli/reelcraft/constant"
	"github.com/reelcraft-cli/reelcraft/element"
	"github.com/reelcraft-cli/reelcraft/log"
	"github.com/reelcraft-cli/reelcraft/notice"
	"github.com/reelcraft-cli/reelcraft/playback"
	"github.com/reelcraft-cli/reelcraft/player"
	"github.com/reelcraft-cli/reelcraft/timeline"
	"github.com/reelcraft-cli/reelcraft/util"
	"github.com/samber/mo"
)

// Options configure an Editor.
type Options struct {
	Store        timeline.Options
	Sync         playback.Options
	Priority     playback.Priority
	MasterVolume mo.Option[float64]
	Reporter     notice.Reporter
	Source       clock.Source
}

// Editor is the state of one editing session.
type Editor struct {
	store    *timeline.Store
	clock    *clock.Clock
	sync     *playback.Synchronizer
	source   clock.Source
	reporter notice.Reporter

	priority     playback.Priority
	masterVolume float64
	masterMuted  bool
	videoEnded   mo.Option[string]
	version      uint64
}

// New builds an editor over an empty timeline.
func New(factory player.Factory, opts Options) *Editor {
	if opts.Reporter == nil {
		opts.Reporter = notice.Discard
	}
	if opts.Source == nil {
		opts.Source = clock.System{}
	}
	if opts.Priority == "" {
		opts.Priority = playback.PriorityVideo
	}
	opts.Store.Reporter = opts.Reporter
	opts.Sync.Reporter = opts.Reporter

	store := timeline.New(opts.Store)
	e := &Editor{
		store:        store,
		clock:        clock.New(store.Duration()),
		sync:         playback.New(factory, opts.Sync),
		source:       opts.Source,
		reporter:     opts.Reporter,
		priority:     opts.Priority,
		masterVolume: util.Clamp(opts.MasterVolume.OrElse(1), 0, 1),
	}
	store.OnChange(e.onChange)
	return e
}

// onChange keeps the clock consistent with the element set.
func (e *Editor) onChange(c timeline.Change) {
	e.version++

	e.clock.SetDuration(c.Duration)
	if c.Op == timeline.OpTrim {
		if t := e.clock.Time(); t < c.Range.Start || t > c.Range.End {
			e.clock.Seek(c.Range.Start)
		}
	}
}

func (e *Editor) report(severity notice.Severity, format string, args ...any) {
	e.reporter.Report(notice.New(severity, format, args...))
}

// Store exposes the element store for mutations.
func (e *Editor) Store() *timeline.Store {
	return e.store
}

// Load replaces the timeline contents and rewinds.
func (e *Editor) Load(elements []element.Element) {
	e.store.Replace(elements)
	e.clock.Restart()
}

// Play starts playback, rewinding first when at the end.
func (e *Editor) Play() {
	e.videoEnded = mo.None[string]()
	e.clock.Play(e.source.Now())
	e.version++
}

func (e *Editor) Pause() {
	e.clock.Pause()
	e.version++
}

func (e *Editor) Toggle() {
	if e.clock.Playing() {
		e.Pause()
	} else {
		e.Play()
	}
}

// Seek moves the cursor, clamped to the timeline.
func (e *Editor) Seek(t float64) {
	e.clock.Seek(t)
	e.version++
}

// Nudge seeks relative to the current time.
func (e *Editor) Nudge(delta float64) {
	e.Seek(e.clock.Time() + delta)
}

func (e *Editor) Restart() {
	e.clock.Restart()
	e.version++
}

func (e *Editor) SkipToEnd() {
	e.clock.SkipToEnd()
	e.version++
}

// SetAudioPriority chooses whose audio wins when video and audio overlap.
func (e *Editor) SetAudioPriority(p playback.Priority) {
	if p == e.priority {
		return
	}
	e.priority = p
	e.version++
	e.report(notice.Info, "Audio priority set to %s", p.Label())
}

func (e *Editor) ToggleAudioPriority() {
	e.SetAudioPriority(e.priority.Toggle())
}

// Time returns the cursor position.
func (e *Editor) Time() float64 {
	return e.clock.Time()
}

// MasterVolume returns the session volume in [0,1].
func (e *Editor) MasterVolume() float64 {
	return e.masterVolume
}

// SetMasterVolume sets the session volume in [0,1].
func (e *Editor) SetMasterVolume(v float64) {
	e.masterVolume = util.Clamp(v, 0, 1)
	e.version++
}

// ToggleMute flips the global mute.
func (e *Editor) ToggleMute() {
	e.masterMuted = !e.masterMuted
	e.version++
	if e.masterMuted {
		e.report(notice.Info, "Muted")
	} else {
		e.report(notice.Info, "Unmuted")
	}
}

func (e *Editor) state() playback.State {
	return playback.State{
		Time:         e.clock.Time(),
		Duration:     e.clock.Duration(),
		Elements:     e.store.Elements(),
		Priority:     e.priority,
		Playing:      e.clock.Playing(),
		MasterVolume: mo.Some(e.masterVolume),
		MasterMuted:  e.masterMuted,
	}
}

// Frame advances the clock to now and reconciles handles.
func (e *Editor) Frame(now time.Time) playback.Report {
	tick := e.clock.Tick(now)
	if tick.Delta > 0 || tick.Ended {
		e.version++
	}
	return e.Flush(now)
}

// Flush reconciles handles without advancing the clock.
func (e *Editor) Flush(now time.Time) playback.Report {
	if e.clock.TakeJump() {
		e.sync.RequestResync(now)
	}

	r := e.sync.Reconcile(e.state(), now)

	if id, ok := r.VideoEnded.Get(); ok {
		e.clock.Pause()
		e.videoEnded = mo.Some(id)
		e.version++
		log.With(log.Fields{"element": id, "time": e.clock.Time()}).Info("video ended before the timeline")
	}
	return r
}

// Close releases every media handle.
func (e *Editor) Close() {
	e.clock.Pause()
	e.sync.Dispose()
}

// Version increases whenever the visible state may have changed.
func (e *Editor) Version() uint64 {
	return e.version
}

// View is an immutable snapshot for renderers.
type View struct {
	Time         float64
	Duration     float64
	Playing      bool
	Priority     playback.Priority
	MasterVolume float64
	MasterMuted  bool
	Elements     []element.Element
	Selected     mo.Option[string]
	CanUndo      bool
	CanRedo      bool
	Handles      []playback.HandleInfo
	VideoEnded   mo.Option[string]
	Version      uint64
}

// Snapshot captures the current state.
func (e *Editor) Snapshot() View {
	return View{
		Time:         e.clock.Time(),
		Duration:     e.clock.Duration(),
		Playing:      e.clock.Playing(),
		Priority:     e.priority,
		MasterVolume: e.masterVolume,
		MasterMuted:  e.masterMuted,
		Elements:     e.store.Elements(),
		Selected:     e.store.Selected(),
		CanUndo:      e.store.CanUndo(),
		CanRedo:      e.store.CanRedo(),
		Handles:      e.sync.Handles(),
		VideoEnded:   e.videoEnded,
		Version:      e.version,
	}
}

// Active returns the elements under the cursor.
func (v View) Active() []element.Element {
	return element.ActiveAt(v.Elements, v.Time)
}

// Frame period for a frame rate, defaulting to constant.FrameRate.
func FramePeriod(rate int) time.Duration {
	if rate <= 0 {
		rate = constant.FrameRate
	}
	return time.Second / time.Duration(rate)
}
