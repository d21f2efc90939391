package player

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/reelcraft-cli/reelcraft/clock"
)

// ErrClosed is returned by operations on a closed handle.
var ErrClosed = errors.New("handle closed")

// NullFactory opens software handles that keep time without producing output.
// It backs headless playback and dry runs.
type NullFactory struct {
	source clock.Source
}

// NewNullFactory returns a factory whose handles read time from src, the system clock when nil.
func NewNullFactory(src clock.Source) *NullFactory {
	if src == nil {
		src = clock.System{}
	}
	return &NullFactory{source: src}
}

func (f *NullFactory) Open(req Request) (Handle, error) {
	if strings.TrimSpace(req.Source) == "" {
		return nil, ErrUnsupportedSource
	}
	return &Null{
		source:   f.source,
		duration: req.Duration,
		rate:     1,
		volume:   1,
	}, nil
}

// Null is a Handle with a software clock.
type Null struct {
	mu       sync.Mutex
	source   clock.Source
	duration float64
	base     float64
	since    time.Time
	playing  bool
	rate     float64
	volume   float64
	muted    bool
	closed   bool
}

func (n *Null) position() float64 {
	pos := n.base
	if n.playing {
		pos += n.source.Now().Sub(n.since).Seconds() * n.rate
	}
	if n.duration > 0 && pos > n.duration {
		pos = n.duration
	}
	return pos
}

// rebase folds the elapsed play time into base before a state change.
func (n *Null) rebase() {
	n.base = n.position()
	n.since = n.source.Now()
}

func (n *Null) Play() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return ErrClosed
	}
	n.rebase()
	n.playing = true
	return nil
}

func (n *Null) Pause() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return ErrClosed
	}
	n.rebase()
	n.playing = false
	return nil
}

func (n *Null) Position() (float64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return 0, ErrClosed
	}
	return n.position(), nil
}

func (n *Null) SetPosition(seconds float64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return ErrClosed
	}
	n.base = max(seconds, 0)
	n.since = n.source.Now()
	return nil
}

func (n *Null) SetVolume(volume float64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.volume = volume
	return nil
}

func (n *Null) SetMuted(muted bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.muted = muted
	return nil
}

func (n *Null) SetRate(rate float64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rebase()
	n.rate = rate
	return nil
}

func (n *Null) Ended() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.duration > 0 && n.position() >= n.duration
}

func (n *Null) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.playing = false
	return nil
}

// Audible reports whether the handle would currently produce sound.
func (n *Null) Audible() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.playing && !n.muted && n.volume > 0
}
