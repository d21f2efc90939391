// Package timeline owns the authoritative element set of an editing session.
//
// Every mutation goes through a Store method which applies a pure element
// transformation, recomputes the duration, records an undo snapshot, emits a
// notice where the user should hear about it and finally tells listeners what
// changed. A Store is not safe for concurrent use; the editor serializes access.
package timeline

import (
	"github.com/google/uuid"
	"github.com/reelcraft-cli/reelcraft/constant"
	"github.com/reelcraft-cli/reelcraft/element"
	"github.com/reelcraft-cli/reelcraft/history"
	"github.com/reelcraft-cli/reelcraft/log"
	"github.com/reelcraft-cli/reelcraft/notice"
	"github.com/samber/mo"
)

// Op names the kind of transition a Change describes.
type Op string

const (
	OpAdd     Op = "add"
	OpRemove  Op = "remove"
	OpUpdate  Op = "update"
	OpTrim    Op = "trim"
	OpRetime  Op = "retime"
	OpMerge   Op = "merge"
	OpSelect  Op = "select"
	OpUndo    Op = "undo"
	OpRedo    Op = "redo"
	OpReplace Op = "replace"
)

// Change describes one committed transition.
type Change struct {
	Op       Op
	ID       string
	Range    element.TimeRange
	Duration float64
}

// Options tune a Store. Zero values fall back to the package defaults.
type Options struct {
	HistoryLimit  int
	EmptyDuration float64
	UnmuteOnRaise bool
	Reporter      notice.Reporter
	NewID         func() string
}

func (o Options) withDefaults() Options {
	if o.HistoryLimit <= 0 {
		o.HistoryLimit = constant.HistoryLimit
	}
	if o.EmptyDuration <= 0 {
		o.EmptyDuration = constant.DefaultDuration
	}
	if o.Reporter == nil {
		o.Reporter = notice.Discard
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	return o
}

// Store is the element set together with selection, duration and history.
type Store struct {
	opts      Options
	elements  []element.Element
	selected  mo.Option[string]
	duration  float64
	history   *history.History[[]element.Element]
	listeners []func(Change)
}

// New returns an empty store.
func New(opts Options) *Store {
	opts = opts.withDefaults()
	return &Store{
		opts:     opts,
		selected: mo.None[string](),
		duration: opts.EmptyDuration,
		history:  history.New[[]element.Element](nil, opts.HistoryLimit, element.Clone),
	}
}

// OnChange registers fn to run after every committed transition.
func (s *Store) OnChange(fn func(Change)) {
	s.listeners = append(s.listeners, fn)
}

// Elements returns a copy of the current element set.
func (s *Store) Elements() []element.Element {
	return element.Clone(s.elements)
}

// Element looks up one element by id.
func (s *Store) Element(id string) (element.Element, bool) {
	return element.Find(s.elements, id)
}

// Len returns the number of elements.
func (s *Store) Len() int {
	return len(s.elements)
}

// Duration is the derived timeline length.
func (s *Store) Duration() float64 {
	return s.duration
}

// Selected returns the selected element id, if any.
func (s *Store) Selected() mo.Option[string] {
	return s.selected
}

func (s *Store) CanUndo() bool {
	return s.history.CanUndo()
}

func (s *Store) CanRedo() bool {
	return s.history.CanRedo()
}

func (s *Store) report(severity notice.Severity, format string, args ...any) {
	s.opts.Reporter.Report(notice.New(severity, format, args...))
}

func (s *Store) emit(c Change) {
	c.Duration = s.duration
	for _, fn := range s.listeners {
		fn(c)
	}
}

// commit installs next as the live element set and records it.
func (s *Store) commit(op Op, id string, next []element.Element) {
	s.elements = next
	s.duration = element.DurationOr(next, s.opts.EmptyDuration)
	s.history.Snapshot(next)

	change := Change{Op: op, ID: id}
	if e, ok := element.Find(next, id); ok {
		change.Range = e.Range
	}

	log.With(log.Fields{"op": op, "id": id, "duration": s.duration}).Debug("timeline changed")
	s.emit(change)
}

// restore installs a snapshot without recording it.
func (s *Store) restore(op Op, elements []element.Element) {
	s.elements = elements
	s.duration = element.DurationOr(elements, s.opts.EmptyDuration)

	if id, ok := s.selected.Get(); ok {
		if _, exists := element.Find(elements, id); !exists {
			s.selected = mo.None[string]()
		}
	}

	s.emit(Change{Op: op})
}

func unknown(op Op, id string) {
	log.With(log.Fields{"op": op, "id": id}).Debug("ignoring unknown element id")
}

// update applies fn to the element with id and commits the result.
func (s *Store) update(op Op, id string, fn func(element.Element) element.Element) bool {
	next, ok := element.Apply(s.elements, id, fn)
	if !ok {
		unknown(op, id)
		return false
	}
	s.commit(op, id, next)
	return true
}

// Replace swaps in a loaded element set and starts a fresh history from it.
func (s *Store) Replace(elements []element.Element) {
	elements = element.Clone(elements)
	s.selected = mo.None[string]()
	s.history.Reset(elements)
	s.restore(OpReplace, elements)
}
