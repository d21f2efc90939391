package editor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/reelcraft-cli/reelcraft/log"
)

// ErrClosed is returned when operating on a session that stopped running.
var ErrClosed = errors.New("editor session closed")

// Session runs an Editor on a single goroutine. Operations submitted with Do
// and the frame tick never interleave.
type Session struct {
	editor *Editor
	period time.Duration
	ops    chan func(*Editor)
	done   chan struct{}

	mu   sync.Mutex
	subs []chan View
	once sync.Once
}

// NewSession wraps an editor ticking at frameRate frames per second.
func NewSession(e *Editor, frameRate int) *Session {
	return &Session{
		editor: e,
		period: FramePeriod(frameRate),
		ops:    make(chan func(*Editor)),
		done:   make(chan struct{}),
	}
}

// Run drives the editor until ctx is cancelled, then releases all handles.
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()
	defer s.shutdown()

	published := ^uint64(0)
	publish := func() {
		if v := s.editor.Version(); v != published {
			published = v
			s.broadcast(s.editor.Snapshot())
		}
	}
	publish()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case op := <-s.ops:
			op(s.editor)
			s.editor.Flush(s.editor.source.Now())
			publish()
		case <-ticker.C:
			s.editor.Frame(s.editor.source.Now())
			publish()
		}
	}
}

func (s *Session) shutdown() {
	s.once.Do(func() {
		s.editor.Close()
		close(s.done)

		s.mu.Lock()
		defer s.mu.Unlock()
		for _, ch := range s.subs {
			close(ch)
		}
		s.subs = nil
		log.Debug("editor session stopped")
	})
}

// Do runs fn on the session goroutine and waits for it to finish.
func (s *Session) Do(fn func(*Editor)) error {
	finished := make(chan struct{})
	op := func(e *Editor) {
		defer close(finished)
		fn(e)
	}

	select {
	case s.ops <- op:
	case <-s.done:
		return ErrClosed
	}

	select {
	case <-finished:
		return nil
	case <-s.done:
		return ErrClosed
	}
}

// Snapshot returns the current view.
func (s *Session) Snapshot() (View, error) {
	var v View
	err := s.Do(func(e *Editor) {
		v = e.Snapshot()
	})
	return v, err
}

// Subscribe returns a channel receiving the latest view whenever it changes.
// Slow readers only ever miss intermediate views. The channel is closed when
// the session stops.
func (s *Session) Subscribe() <-chan View {
	ch := make(chan View, 1)

	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.done:
		close(ch)
	default:
		s.subs = append(s.subs, ch)
	}
	return ch
}

func (s *Session) broadcast(v View) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- v:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- v
		}
	}
}

// Done is closed once the session has stopped.
func (s *Session) Done() <-chan struct{} {
	return s.done
}
