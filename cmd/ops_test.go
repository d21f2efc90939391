package cmd

import (
	"fmt"
	"testing"

	"github.com/reelcraft-cli/reelcraft/element"
	"github.com/reelcraft-cli/reelcraft/timeline"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func newTestWorkspace() (*workspace, *[]string) {
	var n int
	var out []string
	store := timeline.New(timeline.Options{NewID: func() string {
		n++
		return fmt.Sprintf("clip%04d-id", n)
	}})
	return &workspace{
		store: store,
		out: func(format string, args ...any) {
			out = append(out, fmt.Sprintf(format, args...))
		},
	}, &out
}

func TestParseTime(t *testing.T) {
	Convey("Seconds and timecodes are both accepted", t, func() {
		v, err := parseTime("12.5")
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 12.5)

		v, err = parseTime("01:02.5")
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 62.5)
	})

	Convey("Garbage is rejected", t, func() {
		_, err := parseTime("1:xx")
		So(err, ShouldNotBeNil)
		_, err = parseTime("soon")
		So(err, ShouldNotBeNil)
	})

	Convey("Rates may carry an x suffix", t, func() {
		v, err := parseNumber("1.5x")
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 1.5)
	})

	Convey("Ratios are width over height", t, func() {
		v, err := parseRatio("16:8")
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 2)

		_, err = parseRatio("16")
		So(err, ShouldNotBeNil)
		_, err = parseRatio("0:9")
		So(err, ShouldNotBeNil)
	})
}

func TestFindOp(t *testing.T) {
	Convey("Known operations are found", t, func() {
		o, err := findOp("trim")
		So(err, ShouldBeNil)
		So(o.minArgs, ShouldEqual, 3)
	})

	Convey("Unknown operations suggest the closest name", t, func() {
		_, err := findOp("trimm")
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, `"trim"`)
	})
}

func TestResolve(t *testing.T) {
	Convey("Given a few elements", t, func() {
		elements := []element.Element{
			{ID: "abc123", Name: "beach"},
			{ID: "abd456", Name: "city"},
			{ID: "xyz789", Name: "city"},
		}

		Convey("Exact ids win", func() {
			e, err := resolve(elements, "xyz789")
			So(err, ShouldBeNil)
			So(e.ID, ShouldEqual, "xyz789")
		})

		Convey("A unique prefix is enough", func() {
			e, err := resolve(elements, "abc")
			So(err, ShouldBeNil)
			So(e.Name, ShouldEqual, "beach")
		})

		Convey("A unique name is enough", func() {
			e, err := resolve(elements, "beach")
			So(err, ShouldBeNil)
			So(e.ID, ShouldEqual, "abc123")
		})

		Convey("Ambiguous references are rejected", func() {
			_, err := resolve(elements, "city")
			So(err, ShouldNotBeNil)
			_, err = resolve(elements, "ab")
			So(err, ShouldNotBeNil)
		})

		Convey("Misses suggest a name", func() {
			_, err := resolve(elements, "bech")
			So(err.Error(), ShouldContainSubstring, `"beach"`)
		})
	})

	Convey("An empty timeline says so", t, func() {
		_, err := resolve(nil, "anything")
		So(err.Error(), ShouldContainSubstring, "empty")
	})
}

func TestApply(t *testing.T) {
	Convey("Given a workspace with one video", t, func() {
		w, out := newTestWorkspace()
		w.store.AddMedia(element.Media{Kind: element.Video, Name: "beach", Source: "beach.mp4", Duration: 10}, 0, 0)

		Convey("Arity is checked before running", func() {
			So(w.apply("trim", []string{"beach", "1"}), ShouldNotBeNil)
			So(w.apply("undo", []string{"extra"}), ShouldNotBeNil)
		})

		Convey("Trim sets the range", func() {
			So(w.apply("trim", []string{"beach", "1", "0:04"}), ShouldBeNil)
			So(w.store.Elements()[0].Range, ShouldResemble, element.TimeRange{Start: 1, End: 4})

			Convey("And undo restores it", func() {
				So(w.apply("undo", nil), ShouldBeNil)
				So(w.store.Elements()[0].Range, ShouldResemble, element.TimeRange{Start: 0, End: 10})
				So(w.apply("undo", nil), ShouldBeNil)
				So(w.apply("undo", nil), ShouldNotBeNil)
			})
		})

		Convey("Crop accepts numbers, an aspect and reset", func() {
			So(w.apply("crop", []string{"beach", "0", "0", "50", "50"}), ShouldBeNil)
			So(w.store.Elements()[0].Crop(), ShouldResemble, mo.Some(element.Crop{Width: 50, Height: 50}))

			So(w.apply("crop", []string{"beach", "aspect", "2:1"}), ShouldBeNil)
			So(w.store.Elements()[0].Crop(), ShouldResemble, mo.Some(element.Crop{Width: 50, Height: 25}))

			So(w.apply("crop", []string{"beach", "reset"}), ShouldBeNil)
			So(w.store.Elements()[0].Crop().IsPresent(), ShouldBeFalse)

			So(w.apply("crop", []string{"beach", "0", "0"}), ShouldNotBeNil)
		})

		Convey("Volume is given in percent", func() {
			So(w.apply("volume", []string{"beach", "50%"}), ShouldBeNil)
			mix, ok := w.store.Elements()[0].Mix()
			So(ok, ShouldBeTrue)
			So(mix.Volume, ShouldEqual, 0.5)
		})

		Convey("Text lands after the last element", func() {
			So(w.apply("text", []string{"hello", "world"}), ShouldBeNil)
			text := w.store.Elements()[1]
			So(text.Range.Start, ShouldEqual, 10)
			So(text.Track, ShouldEqual, textTrack)
			So(*out, ShouldContain, "added text clip0002")
		})

		Convey("Mute only takes on or off", func() {
			So(w.apply("mute", []string{"beach", "maybe"}), ShouldNotBeNil)
			So(w.apply("mute", []string{"beach", "off"}), ShouldBeNil)
		})
	})
}
