package tui

import (
	"testing"
	"time"

	"github.com/muesli/reflow/ansi"
	"github.com/reelcraft-cli/reelcraft/clock"
	"github.com/reelcraft-cli/reelcraft/editor"
	"github.com/reelcraft-cli/reelcraft/element"
	"github.com/reelcraft-cli/reelcraft/player"
	. "github.com/smartystreets/goconvey/convey"
)

func clip(id string, track int, start, end float64) element.Element {
	return element.Element{ID: id, Name: id, Kind: element.Video, Track: track, Range: element.TimeRange{Start: start, End: end}}
}

func TestRenderLane(t *testing.T) {
	Convey("Given clips on two tracks", t, func() {
		elements := []element.Element{
			clip("intro", 0, 0, 5),
			clip("outro", 0, 5, 10),
			clip("song", 2, 0, 10),
		}

		Convey("Each lane should fill the full width", func() {
			for track := 0; track < laneCount; track++ {
				So(ansi.PrintableRuneWidth(renderLane(elements, track, 40, 10, "")), ShouldEqual, 40)
			}
		})

		Convey("Clips should be labelled on their own track only", func() {
			lane := renderLane(elements, 0, 40, 10, "outro")
			So(lane, ShouldContainSubstring, "intro")
			So(lane, ShouldContainSubstring, "outro")
			So(lane, ShouldNotContainSubstring, "song")
		})

		Convey("Names longer than the clip should be truncated", func() {
			lane := renderLane([]element.Element{clip("a-very-long-name", 0, 0, 1)}, 0, 20, 10, "")
			So(lane, ShouldNotContainSubstring, "a-very-long-name")
			So(ansi.PrintableRuneWidth(lane), ShouldEqual, 20)
		})

		Convey("An empty timeline should still render", func() {
			So(ansi.PrintableRuneWidth(renderLane(nil, 0, 10, 0, "")), ShouldEqual, 10)
		})
	})
}

func TestRuler(t *testing.T) {
	Convey("The playhead should track time", t, func() {
		So(column(5, 10, 40), ShouldEqual, 20)
		So(column(15, 10, 40), ShouldEqual, 40)
		So(column(1, 0, 40), ShouldEqual, 0)
		So(ansi.PrintableRuneWidth(renderRuler(40, 10, 10)), ShouldEqual, 40)
	})
}

func TestSpeedPresets(t *testing.T) {
	Convey("Speed keys should step through presets", t, func() {
		So(nextPreset(1, 1), ShouldEqual, 1.25)
		So(nextPreset(1, -1), ShouldEqual, 0.75)
		So(nextPreset(2, 1), ShouldEqual, 2)
		So(nextPreset(0.25, -1), ShouldEqual, 0.25)
		So(nextPreset(3, -1), ShouldEqual, 2)
	})
}

func TestLibraryFilter(t *testing.T) {
	Convey("The library list filter should rank fuzzy matches", t, func() {
		ranks := libraryFilter("bch", []string{"notes.wav", "beach.mp4", "bunch.png"})
		So(ranks, ShouldHaveLength, 2)
		So(ranks[0].Index, ShouldEqual, 1)
	})
}

func TestClipOps(t *testing.T) {
	Convey("Given a clip edited after the last published view", t, func() {
		src := clock.NewManual(time.Unix(0, 0))
		ed := editor.New(player.NewNullFactory(src), editor.Options{Source: src})
		id := ed.Store().AddMedia(element.Media{Kind: element.Video, Name: "beach", Source: "beach.mp4", Duration: 10}, 0, 0)
		ed.Store().SetTimeRange(id, 2, 8)
		ed.Seek(6)

		current := func() element.Element {
			e, _ := ed.Store().Element(id)
			return e
		}

		Convey("Trimming keeps the newer opposite edge", func() {
			trimOp(id, true)(ed)
			So(current().Range, ShouldResemble, element.TimeRange{Start: 6, End: 8})
		})

		Convey("Speed steps from the current rate", func() {
			ed.Store().SetSpeed(id, 1.5)
			speedOp(id, 1)(ed)
			So(current().Speed, ShouldEqual, 2)
		})

		Convey("Mute flips the current flag", func() {
			muteOp(id)(ed)
			mix, _ := current().Mix()
			So(mix.Muted, ShouldBeTrue)

			muteOp(id)(ed)
			mix, _ = current().Mix()
			So(mix.Muted, ShouldBeFalse)
		})

		Convey("Volume steps from the current master volume", func() {
			ed.SetMasterVolume(0.5)
			volumeOp(0.1)(ed)
			So(ed.MasterVolume(), ShouldAlmostEqual, 0.6)
		})

		Convey("Ops on a removed clip do nothing", func() {
			ed.Store().Remove(id)
			trimOp(id, false)(ed)
			muteOp(id)(ed)
			speedOp(id, -1)(ed)
			So(ed.Store().Len(), ShouldEqual, 0)
		})
	})
}
