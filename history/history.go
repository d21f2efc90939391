// Package history implements a bounded linear undo/redo log of immutable snapshots.
package history

import "github.com/reelcraft-cli/reelcraft/constant"

// History records snapshots of a value and moves a cursor through them.
// Recording after an undo discards everything ahead of the cursor.
type History[T any] struct {
	snapshots []T
	index     int
	limit     int
	clone     func(T) T
}

// New creates a history seeded with the initial state.
// A non-positive limit falls back to constant.HistoryLimit. clone may be nil
// when T has value semantics.
func New[T any](initial T, limit int, clone func(T) T) *History[T] {
	if limit <= 0 {
		limit = constant.HistoryLimit
	}
	if clone == nil {
		clone = func(v T) T { return v }
	}

	return &History[T]{
		snapshots: []T{clone(initial)},
		limit:     limit,
		clone:     clone,
	}
}

// Snapshot records v as the newest state.
func (h *History[T]) Snapshot(v T) {
	h.snapshots = append(h.snapshots[:h.index+1], h.clone(v))
	if overflow := len(h.snapshots) - h.limit; overflow > 0 {
		h.snapshots = append([]T(nil), h.snapshots[overflow:]...)
	}
	h.index = len(h.snapshots) - 1
}

// Undo steps back one snapshot. It reports false when there is nothing to undo.
func (h *History[T]) Undo() (v T, ok bool) {
	if !h.CanUndo() {
		return v, false
	}
	h.index--
	return h.clone(h.snapshots[h.index]), true
}

// Redo steps forward one snapshot. It reports false when there is nothing to redo.
func (h *History[T]) Redo() (v T, ok bool) {
	if !h.CanRedo() {
		return v, false
	}
	h.index++
	return h.clone(h.snapshots[h.index]), true
}

func (h *History[T]) CanUndo() bool {
	return h.index > 0
}

func (h *History[T]) CanRedo() bool {
	return h.index < len(h.snapshots)-1
}

// Current returns the snapshot under the cursor.
func (h *History[T]) Current() T {
	return h.clone(h.snapshots[h.index])
}

// Len returns the number of stored snapshots.
func (h *History[T]) Len() int {
	return len(h.snapshots)
}

// Position returns the cursor index.
func (h *History[T]) Position() int {
	return h.index
}

// Reset drops all snapshots and seeds the log with v.
func (h *History[T]) Reset(v T) {
	h.snapshots = []T{h.clone(v)}
	h.index = 0
}
