package history

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestHistory(t *testing.T) {
	Convey("Given an empty history of ints", t, func() {
		h := New(0, 0, nil)

		Convey("Nothing can be undone or redone", func() {
			So(h.CanUndo(), ShouldBeFalse)
			So(h.CanRedo(), ShouldBeFalse)
			_, ok := h.Undo()
			So(ok, ShouldBeFalse)
		})

		Convey("When three states are recorded", func() {
			h.Snapshot(1)
			h.Snapshot(2)
			h.Snapshot(3)

			Convey("Undo walks back to the initial state", func() {
				for _, want := range []int{2, 1, 0} {
					v, ok := h.Undo()
					So(ok, ShouldBeTrue)
					So(v, ShouldEqual, want)
				}
				_, ok := h.Undo()
				So(ok, ShouldBeFalse)
			})

			Convey("Undo then redo returns to the latest state", func() {
				h.Undo()
				h.Undo()
				v, ok := h.Redo()
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 2)
				v, _ = h.Redo()
				So(v, ShouldEqual, 3)
				So(h.CanRedo(), ShouldBeFalse)
			})

			Convey("Recording after undo drops the redo tail", func() {
				h.Undo()
				h.Snapshot(42)
				So(h.CanRedo(), ShouldBeFalse)
				So(h.Current(), ShouldEqual, 42)
				v, _ := h.Undo()
				So(v, ShouldEqual, 2)
			})
		})
	})

	Convey("Given a history limited to 50 snapshots", t, func() {
		h := New(0, 50, nil)
		for i := 1; i <= 120; i++ {
			h.Snapshot(i)
		}

		Convey("It should never keep more than 50", func() {
			So(h.Len(), ShouldEqual, 50)
			So(h.Current(), ShouldEqual, 120)
		})

		Convey("The oldest snapshots are evicted", func() {
			undos := 0
			for h.CanUndo() {
				h.Undo()
				undos++
			}
			So(undos, ShouldEqual, 49)
			So(h.Current(), ShouldEqual, 71)
		})
	})

	Convey("Given a history of slices with a clone func", t, func() {
		h := New([]string{"a"}, 10, func(s []string) []string {
			return append([]string(nil), s...)
		})
		state := []string{"a", "b"}
		h.Snapshot(state)

		Convey("Mutating the caller's value should not alter the record", func() {
			state[0] = "z"
			So(h.Current(), ShouldResemble, []string{"a", "b"})
		})

		Convey("Reset should leave a single snapshot", func() {
			h.Reset(nil)
			So(h.Len(), ShouldEqual, 1)
			So(h.CanUndo(), ShouldBeFalse)
		})
	})
}
