package playback

import (
	"errors"
	"fmt"
	"sort"

	"github.com/reelcraft-cli/reelcraft/player"
)

// fakeHandle records every call made on it.
type fakeHandle struct {
	source   string
	calls    []string
	position float64
	playing  bool
	muted    bool
	volume   float64
	rate     float64
	ended    bool
	playErr  error
	closed   bool
}

func (h *fakeHandle) record(format string, args ...any) {
	h.calls = append(h.calls, fmt.Sprintf(format, args...))
}

func (h *fakeHandle) Play() error {
	h.record("play")
	if h.playErr != nil {
		return h.playErr
	}
	h.playing = true
	return nil
}

func (h *fakeHandle) Pause() error {
	h.record("pause")
	h.playing = false
	return nil
}

func (h *fakeHandle) Position() (float64, error) {
	return h.position, nil
}

func (h *fakeHandle) SetPosition(seconds float64) error {
	h.record("seek %.2f", seconds)
	h.position = seconds
	h.ended = false
	return nil
}

func (h *fakeHandle) SetVolume(volume float64) error {
	h.record("volume %.2f", volume)
	h.volume = volume
	return nil
}

func (h *fakeHandle) SetMuted(muted bool) error {
	h.record("mute %t", muted)
	h.muted = muted
	return nil
}

func (h *fakeHandle) SetRate(rate float64) error {
	h.record("rate %.2f", rate)
	h.rate = rate
	return nil
}

func (h *fakeHandle) Ended() bool {
	return h.ended
}

func (h *fakeHandle) Close() error {
	h.record("close")
	h.closed = true
	return nil
}

func (h *fakeHandle) audible() bool {
	return h.playing && !h.muted && h.volume > 0
}

// fakeFactory hands out fakeHandles keyed by source.
type fakeFactory struct {
	opened  map[string]*fakeHandle
	opens   int
	broken  map[string]bool
	playErr map[string]error
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{
		opened:  make(map[string]*fakeHandle),
		broken:  make(map[string]bool),
		playErr: make(map[string]error),
	}
}

var errNotFound = errors.New("404")

func (f *fakeFactory) Open(req player.Request) (player.Handle, error) {
	f.opens++
	if f.broken[req.Source] {
		return nil, fmt.Errorf("%w: %w", player.ErrUnsupportedSource, errNotFound)
	}
	h := &fakeHandle{source: req.Source, rate: 1, playErr: f.playErr[req.Source]}
	f.opened[req.Source] = h
	return h, nil
}

// calls returns the total number of recorded calls across live handles.
func (f *fakeFactory) calls() int {
	n := 0
	for _, h := range f.opened {
		n += len(h.calls)
	}
	return n
}

func (f *fakeFactory) reset() {
	for _, h := range f.opened {
		h.calls = nil
	}
}

func (f *fakeFactory) sources() []string {
	var out []string
	for src, h := range f.opened {
		if !h.closed {
			out = append(out, src)
		}
	}
	sort.Strings(out)
	return out
}
