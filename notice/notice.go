// Package notice carries human-readable, user-facing messages out of the editor core.
// How they are shown is up to the receiver.
package notice

import (
	"fmt"
	"sync"
	"time"

	"github.com/reelcraft-cli/reelcraft/log"
)

// Severity ranks a notice.
type Severity int

const (
	Info Severity = iota
	Success
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Notice is a single message.
type Notice struct {
	Severity Severity
	Message  string
	At       time.Time
}

func (n Notice) String() string {
	return n.Message
}

// New creates a notice stamped with the current time.
func New(severity Severity, format string, args ...any) Notice {
	return Notice{
		Severity: severity,
		Message:  fmt.Sprintf(format, args...),
		At:       time.Now(),
	}
}

// Reporter receives notices.
type Reporter interface {
	Report(Notice)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Notice)

func (f ReporterFunc) Report(n Notice) {
	f(n)
}

// Discard drops every notice.
var Discard Reporter = ReporterFunc(func(Notice) {})

// Logger writes notices to the log at a level matching their severity.
var Logger Reporter = ReporterFunc(func(n Notice) {
	entry := log.With(log.Fields{"notice": n.Severity.String()})
	switch n.Severity {
	case Error:
		entry.Error(n.Message)
	case Warning:
		entry.Warn(n.Message)
	default:
		entry.Info(n.Message)
	}
})

// Tee fans a notice out to several reporters.
func Tee(reporters ...Reporter) Reporter {
	return ReporterFunc(func(n Notice) {
		for _, r := range reporters {
			if r != nil {
				r.Report(n)
			}
		}
	})
}

// Buffer collects notices until drained. It is safe for concurrent use.
type Buffer struct {
	mu      sync.Mutex
	notices []Notice
}

func (b *Buffer) Report(n Notice) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notices = append(b.notices, n)
}

// Drain returns and clears the collected notices.
func (b *Buffer) Drain() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.notices
	b.notices = nil
	return out
}

// Last returns the newest notice without draining.
func (b *Buffer) Last() (Notice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.notices) == 0 {
		return Notice{}, false
	}
	return b.notices[len(b.notices)-1], true
}

// Len returns the number of pending notices.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.notices)
}
