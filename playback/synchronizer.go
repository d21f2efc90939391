// Package playback keeps the media handles of active elements in step with the
// logical timeline cursor.
//
// Reconcile is the only entry point that touches handles. One pass runs, in
// order: active-set diff, priority arbitration, volume, play/pause and
// position sync. With Options.Async, handles are opened on their own
// goroutines and join a later pass once ready. Every handle call is issued only when the desired value
// differs from the last one applied, so repeated passes over unchanged
// input are free.
package playback

import (
	"sort"
	"sync"
	"time"

	"github.com/reelcraft-cli/reelcraft/constant"
	"github.com/reelcraft-cli/reelcraft/element"
	"github.com/reelcraft-cli/reelcraft/log"
	"github.com/reelcraft-cli/reelcraft/notice"
	"github.com/reelcraft-cli/reelcraft/player"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// State is everything a pass reconciles against.
type State struct {
	Time         float64
	Duration     float64
	Elements     []element.Element
	Priority     Priority
	Playing      bool
	MasterVolume mo.Option[float64] // 1 when unset
	MasterMuted  bool
}

// Options tune a Synchronizer. Zero values fall back to the package defaults.
type Options struct {
	AudioTolerance float64
	VideoTolerance float64
	Debounce       time.Duration
	Reporter       notice.Reporter
	// Async opens handles off the calling goroutine. A pending handle is
	// admitted by the first pass after its Open returns.
	Async bool
}

func (o Options) withDefaults() Options {
	if o.AudioTolerance <= 0 {
		o.AudioTolerance = constant.AudioDriftTolerance
	}
	if o.VideoTolerance <= 0 {
		o.VideoTolerance = constant.VideoDriftTolerance
	}
	if o.Debounce <= 0 {
		o.Debounce = constant.ResyncDebounce
	}
	if o.Reporter == nil {
		o.Reporter = notice.Discard
	}
	return o
}

// Report summarizes one pass.
type Report struct {
	Created   []string
	Disposed  []string
	Failed    []string
	Blocked   []string
	Corrected []string
	Resynced  bool
	// VideoEnded names the video whose media ran out before its element did.
	VideoEnded mo.Option[string]
}

// Synchronizer owns the live handles of one editing session.
type Synchronizer struct {
	factory player.Factory
	opts    Options
	handles map[string]*tracked

	resyncAt  mo.Option[time.Time]
	snapVideo bool
	priority  Priority
	playing   bool

	mu     sync.Mutex
	opened []openResult
}

// openResult is a finished asynchronous Open waiting for the next pass.
type openResult struct {
	t      *tracked
	handle player.Handle
	err    error
}

// New returns a synchronizer with no live handles.
func New(factory player.Factory, opts Options) *Synchronizer {
	return &Synchronizer{
		factory: factory,
		opts:    opts.withDefaults(),
		handles: make(map[string]*tracked),
	}
}

// RequestResync schedules a hard resync of every handle one debounce after now
// and snaps the video on the next pass. A newer request replaces a pending one.
func (s *Synchronizer) RequestResync(now time.Time) {
	s.resyncAt = mo.Some(now.Add(s.opts.Debounce))
	s.snapVideo = true
}

// Pending reports whether a hard resync is scheduled.
func (s *Synchronizer) Pending() bool {
	return s.resyncAt.IsPresent()
}

// Reconcile brings every handle in line with st.
func (s *Synchronizer) Reconcile(st State, now time.Time) Report {
	var r Report

	if st.Priority == "" {
		st.Priority = PriorityVideo
	}
	if s.priority != "" && st.Priority != s.priority {
		s.RequestResync(now)
	}
	s.priority = st.Priority

	if st.Playing && !s.playing {
		s.RequestResync(now)
	}
	s.playing = st.Playing

	active := activeSet(st)
	s.retire(active, &r)
	s.settlePending(st, active, &r)
	s.admit(st, active, &r)

	ids := lo.Keys(active)
	sort.Strings(ids)

	videoActive := lo.SomeBy(ids, func(id string) bool { return active[id].Kind == element.Video })
	audioActive := lo.SomeBy(ids, func(id string) bool { return active[id].Kind == element.Audio })
	muteVideo, muteAudio := st.Priority.mutes(videoActive, audioActive)

	hard := false
	if at, ok := s.resyncAt.Get(); ok && !now.Before(at) {
		hard = true
		s.resyncAt = mo.None[time.Time]()
		r.Resynced = true
	}

	for _, id := range ids {
		t := s.handles[id]
		if t.failed || t.opening {
			continue
		}
		if hard {
			t.blocked = false
		}

		e := active[id]
		forced := muteAudio
		if e.Kind == element.Video {
			forced = muteVideo
		}
		muted := s.arbitrate(t, e, st, forced)
		s.mix(t, e, st)
		s.transport(t, e, st, muted, &r)
		s.position(t, e, st, hard, &r)
		s.detectEnd(t, e, st, &r)
	}

	s.snapVideo = false
	return r
}

// activeSet returns the single visible video and every audible audio track at st.Time.
func activeSet(st State) map[string]element.Element {
	active := make(map[string]element.Element)
	if v, ok := element.ActiveVideo(st.Elements, st.Time); ok {
		active[v.ID] = v
	}
	for _, a := range element.ActiveOf(st.Elements, st.Time, element.Audio) {
		active[a.ID] = a
	}
	return active
}

// retire disposes handles whose element left the active set or changed source.
func (s *Synchronizer) retire(active map[string]element.Element, r *Report) {
	for _, id := range lo.Keys(s.handles) {
		t := s.handles[id]
		if e, ok := active[id]; ok && e.Source() == t.source {
			continue
		}
		s.cancel(t)
		t.dispose()
		delete(s.handles, id)
		r.Disposed = append(r.Disposed, id)
	}
	sort.Strings(r.Disposed)
}

// admit opens handles for newly active elements at their local time.
func (s *Synchronizer) admit(st State, active map[string]element.Element, r *Report) {
	ids := lo.Keys(active)
	sort.Strings(ids)

	for _, id := range ids {
		if _, ok := s.handles[id]; ok {
			continue
		}

		e := active[id]
		t := &tracked{id: id, kind: e.Kind, source: e.Source(), name: e.Name}
		s.handles[id] = t
		req := player.Request{
			Source:    e.Source(),
			Title:     e.Name,
			AudioOnly: e.Kind == element.Audio,
			Duration:  e.Range.Span() * e.Rate(),
		}

		if !s.opts.Async {
			h, err := s.factory.Open(req)
			s.settle(t, e, st, h, err, r)
			continue
		}

		t.opening = true
		go s.open(t, req)
	}
}

// open runs on its own goroutine. A result for a handle retired meanwhile is
// closed straight away.
func (s *Synchronizer) open(t *tracked, req player.Request) {
	h, err := s.factory.Open(req)

	s.mu.Lock()
	if !t.cancelled {
		s.opened = append(s.opened, openResult{t: t, handle: h, err: err})
		h = nil
	}
	s.mu.Unlock()

	if h != nil {
		if err := h.Close(); err != nil {
			log.With(log.Fields{"element": t.id}).Warnf("closing abandoned handle: %v", err)
		}
	}
}

// cancel abandons an open still in flight.
func (s *Synchronizer) cancel(t *tracked) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.cancelled = true
}

// settlePending admits the handles whose asynchronous Open has returned.
func (s *Synchronizer) settlePending(st State, active map[string]element.Element, r *Report) {
	s.mu.Lock()
	results := s.opened
	s.opened = nil
	s.mu.Unlock()

	for _, res := range results {
		if s.handles[res.t.id] != res.t {
			if res.handle != nil {
				_ = res.handle.Close()
			}
			continue
		}
		res.t.opening = false
		s.settle(res.t, active[res.t.id], st, res.handle, res.err, r)
	}
	sort.Strings(r.Created)
	sort.Strings(r.Failed)
}

// settle records the outcome of opening the handle of e.
func (s *Synchronizer) settle(t *tracked, e element.Element, st State, h player.Handle, err error, r *Report) {
	if err != nil {
		t.failed = true
		r.Failed = append(r.Failed, t.id)
		log.With(log.Fields{"element": t.id, "source": t.source}).Warnf("media handle unavailable: %v", err)
		s.report(notice.Error, "Cannot play %s: %v", e.Name, err)
		return
	}

	t.handle = h
	if err := h.SetPosition(e.LocalTime(st.Time)); err != nil {
		log.With(log.Fields{"element": t.id}).Warnf("initial seek failed: %v", err)
	}
	r.Created = append(r.Created, t.id)
}

// arbitrate applies the effective mute and returns it.
func (s *Synchronizer) arbitrate(t *tracked, e element.Element, st State, forced bool) bool {
	mix, _ := e.Mix()
	muted := st.MasterMuted || mix.Muted || forced

	if !t.muted.IsPresent() || t.muted.MustGet() != muted {
		t.call("mute", func(h player.Handle) error { return h.SetMuted(muted) })
		t.muted = mo.Some(muted)
	}
	return muted
}

// mix applies volume and rate.
func (s *Synchronizer) mix(t *tracked, e element.Element, st State) {
	mix, _ := e.Mix()
	volume := mix.Volume * st.MasterVolume.OrElse(1)
	if !t.volume.IsPresent() || t.volume.MustGet() != volume {
		t.call("volume", func(h player.Handle) error { return h.SetVolume(volume) })
		t.volume = mo.Some(volume)
	}

	rate := e.Rate()
	if !t.rate.IsPresent() || t.rate.MustGet() != rate {
		t.call("rate", func(h player.Handle) error { return h.SetRate(rate) })
		t.rate = mo.Some(rate)
	}
}

// transport plays or pauses the handle. A video follows the clock; an audio
// track additionally pauses while muted.
func (s *Synchronizer) transport(t *tracked, e element.Element, st State, muted bool, r *Report) {
	want := st.Playing && !t.blocked
	if e.Kind == element.Audio && muted {
		want = false
	}

	if t.playing == want {
		return
	}

	if !want {
		t.call("pause", player.Handle.Pause)
		t.playing = false
		return
	}

	if err := t.handle.Play(); err != nil {
		t.blocked = true
		t.playing = false
		t.call("pause", player.Handle.Pause)
		r.Blocked = append(r.Blocked, t.id)
		log.With(log.Fields{"element": t.id}).Errorf("playback failed to start: %v", err)
		s.report(notice.Error, "Playback of %s failed: %v", e.Name, err)
		return
	}
	t.playing = true
}

// position corrects drift beyond tolerance while playing and forces the
// expected time on a hard resync.
func (s *Synchronizer) position(t *tracked, e element.Element, st State, hard bool, r *Report) {
	expected := e.LocalTime(st.Time)

	force := hard || (s.snapVideo && e.Kind == element.Video)
	if !force {
		// Paused handles are realigned by the next hard resync.
		if !st.Playing || !t.playing {
			return
		}
		actual, err := t.handle.Position()
		if err != nil {
			return
		}
		tolerance := s.opts.AudioTolerance
		if e.Kind == element.Video {
			tolerance = s.opts.VideoTolerance
		}
		drift := actual - expected
		if drift <= tolerance && drift >= -tolerance {
			return
		}
		log.With(log.Fields{"element": t.id, "drift": drift}).Debug("correcting drift")
	}

	if err := t.handle.SetPosition(expected); err != nil {
		log.With(log.Fields{"element": t.id}).Warnf("seek failed: %v", err)
		return
	}
	t.endReported = false
	r.Corrected = append(r.Corrected, t.id)
}

// detectEnd reports a video whose media ended while its element is still active.
func (s *Synchronizer) detectEnd(t *tracked, e element.Element, st State, r *Report) {
	if e.Kind != element.Video || t.endReported || !st.Playing {
		return
	}
	if !t.handle.Ended() || st.Time >= st.Duration-constant.ReplayEpsilon {
		return
	}
	t.endReported = true
	r.VideoEnded = mo.Some(t.id)
}

func (s *Synchronizer) report(severity notice.Severity, format string, args ...any) {
	s.opts.Reporter.Report(notice.New(severity, format, args...))
}

// Dispose pauses and closes every handle and cancels a pending resync.
func (s *Synchronizer) Dispose() {
	for id, t := range s.handles {
		s.cancel(t)
		t.dispose()
		delete(s.handles, id)
	}

	s.mu.Lock()
	results := s.opened
	s.opened = nil
	s.mu.Unlock()
	for _, res := range results {
		if res.handle != nil {
			_ = res.handle.Close()
		}
	}

	s.resyncAt = mo.None[time.Time]()
	s.snapVideo = false
	s.playing = false
}
