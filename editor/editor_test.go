package editor

import (
	"context"
	"testing"
	"time"

	"github.com/reelcraft-cli/reelcraft/clock"
	"github.com/reelcraft-cli/reelcraft/element"
	"github.com/reelcraft-cli/reelcraft/notice"
	"github.com/reelcraft-cli/reelcraft/playback"
	"github.com/reelcraft-cli/reelcraft/player"
	. "github.com/smartystreets/goconvey/convey"
)

func newTestEditor() (*Editor, *clock.Manual, *notice.Buffer) {
	src := clock.NewManual(time.Unix(0, 0))
	buf := &notice.Buffer{}
	e := New(player.NewNullFactory(src), Options{Reporter: buf, Source: src})
	return e, src, buf
}

func video(name string, duration float64) element.Media {
	return element.Media{Kind: element.Video, Name: name, Source: name + ".mp4", Duration: duration}
}

// endedHandle is a null handle whose media has always run out.
type endedHandle struct {
	player.Handle
}

func (endedHandle) Ended() bool { return true }

func TestEditor(t *testing.T) {
	Convey("Given an editor with a 10s video", t, func() {
		e, src, buf := newTestEditor()
		id := e.Store().AddMedia(video("clip", 10), 0, 0)
		So(e.Snapshot().Duration, ShouldEqual, 10)

		Convey("Playing advances time and opens a handle", func() {
			e.Play()
			e.Frame(src.Advance(time.Second))
			v := e.Snapshot()
			So(v.Time, ShouldEqual, 1)
			So(v.Playing, ShouldBeTrue)
			So(len(v.Handles), ShouldEqual, 1)
			So(v.Handles[0].Playing, ShouldBeTrue)

			Convey("And it stops at the end", func() {
				e.Frame(src.Advance(20 * time.Second))
				v := e.Snapshot()
				So(v.Time, ShouldEqual, 10)
				So(v.Playing, ShouldBeFalse)
				So(v.Handles, ShouldBeEmpty)
			})
		})

		Convey("Trimming away from the cursor moves it to the clip start", func() {
			e.Seek(8)
			e.Store().SetTimeRange(id, 2, 4)
			v := e.Snapshot()
			So(v.Time, ShouldEqual, 2)
			So(v.Duration, ShouldEqual, 4)
		})

		Convey("Trimming a clip past the old end moves the cursor into it", func() {
			e.Seek(3)
			e.Store().SetTimeRange(id, 12, 20)
			v := e.Snapshot()
			So(v.Duration, ShouldEqual, 20)
			So(v.Time, ShouldEqual, 12)
		})

		Convey("Trimming around the cursor leaves it", func() {
			e.Seek(3)
			e.Store().SetTimeRange(id, 1, 6)
			So(e.Snapshot().Time, ShouldEqual, 3)
		})

		Convey("Removing everything pulls the cursor into the floor duration", func() {
			e.Seek(9)
			e.Store().Remove(id)
			v := e.Snapshot()
			So(v.Duration, ShouldEqual, 5)
			So(v.Time, ShouldEqual, 5)
		})

		Convey("Priority changes are announced once", func() {
			e.SetAudioPriority(playback.PriorityAudio)
			e.SetAudioPriority(playback.PriorityAudio)
			So(buf.Len(), ShouldEqual, 1)
			last, _ := buf.Last()
			So(last.Message, ShouldEqual, "Audio priority set to uploaded audio")

			e.ToggleAudioPriority()
			So(e.Snapshot().Priority, ShouldEqual, playback.PriorityVideo)
		})

		Convey("Global mute is announced", func() {
			e.ToggleMute()
			last, _ := buf.Last()
			So(last.Message, ShouldEqual, "Muted")
			So(e.Snapshot().MasterMuted, ShouldBeTrue)

			e.ToggleMute()
			last, _ = buf.Last()
			So(last.Message, ShouldEqual, "Unmuted")
		})

		Convey("Master volume is clamped", func() {
			e.SetMasterVolume(3)
			So(e.Snapshot().MasterVolume, ShouldEqual, 1)
		})

		Convey("Restart and skip", func() {
			e.SkipToEnd()
			So(e.Snapshot().Time, ShouldEqual, 10)
			e.Nudge(-2.5)
			So(e.Snapshot().Time, ShouldEqual, 7.5)
			e.Restart()
			So(e.Snapshot().Time, ShouldEqual, 0)
		})

		Convey("Undo is reflected in the snapshot", func() {
			v := e.Snapshot()
			So(v.CanUndo, ShouldBeTrue)
			e.Store().Undo()
			v = e.Snapshot()
			So(v.Elements, ShouldBeEmpty)
			So(v.CanRedo, ShouldBeTrue)
		})

		Convey("Load replaces the timeline and rewinds", func() {
			e.Seek(4)
			e.Load([]element.Element{element.NewMedia("x", video("x", 3), 0, 0)})
			v := e.Snapshot()
			So(v.Time, ShouldEqual, 0)
			So(v.Duration, ShouldEqual, 3)
			So(v.CanUndo, ShouldBeFalse)
		})
	})

	Convey("Given a video whose media ends before its element", t, func() {
		src := clock.NewManual(time.Unix(0, 0))
		null := player.NewNullFactory(src)
		factory := player.FactoryFunc(func(req player.Request) (player.Handle, error) {
			h, err := null.Open(req)
			return endedHandle{h}, err
		})
		e := New(factory, Options{Source: src})
		e.Store().AddMedia(video("clip", 10), 0, 0)

		e.Play()
		e.Frame(src.Advance(time.Second))
		e.Frame(src.Advance(time.Second))

		Convey("The clock is paused and the end surfaced", func() {
			v := e.Snapshot()
			So(v.Playing, ShouldBeFalse)
			So(v.VideoEnded.IsPresent(), ShouldBeTrue)

			Convey("Playing again clears it", func() {
				e.Play()
				So(e.Snapshot().VideoEnded.IsPresent(), ShouldBeFalse)
			})
		})
	})
}

func TestSlowBackend(t *testing.T) {
	Convey("Given a backend that takes a while to open media", t, func() {
		src := clock.NewManual(time.Unix(0, 0))
		null := player.NewNullFactory(src)
		release := make(chan struct{})
		factory := player.FactoryFunc(func(req player.Request) (player.Handle, error) {
			<-release
			return null.Open(req)
		})
		e := New(factory, Options{Source: src, Sync: playback.Options{Async: true}})
		e.Store().AddMedia(video("clip", 10), 0, 0)
		e.Play()

		Convey("Frames keep advancing the clock while it opens", func() {
			done := make(chan float64, 1)
			go func() {
				e.Frame(src.Advance(time.Second))
				e.Frame(src.Advance(time.Second))
				done <- e.Snapshot().Time
			}()

			select {
			case got := <-done:
				So(got, ShouldEqual, 2)
			case <-time.After(time.Second):
				So("frame blocked on the backend", ShouldBeEmpty)
			}
			close(release)
		})
	})
}

func TestSession(t *testing.T) {
	Convey("Given a running session", t, func() {
		e, _, _ := newTestEditor()
		s := NewSession(e, 120)
		ctx, cancel := context.WithCancel(context.Background())
		views := s.Subscribe()

		errs := make(chan error, 1)
		go func() { errs <- s.Run(ctx) }()

		Convey("Operations run on the session and publish a view", func() {
			So(s.Do(func(e *Editor) {
				e.Store().AddMedia(video("clip", 7), 0, 0)
			}), ShouldBeNil)

			v, err := s.Snapshot()
			So(err, ShouldBeNil)
			So(v.Duration, ShouldEqual, 7)

			deadline := time.After(2 * time.Second)
			for {
				select {
				case got := <-views:
					if got.Duration == 7 {
						So(len(got.Elements), ShouldEqual, 1)
						cancel()
						So(<-errs, ShouldEqual, context.Canceled)
						return
					}
				case <-deadline:
					So("no view published", ShouldBeEmpty)
					return
				}
			}
		})

		Convey("Cancelling stops it", func() {
			cancel()
			So(<-errs, ShouldEqual, context.Canceled)
			<-s.Done()
			So(s.Do(func(*Editor) {}), ShouldEqual, ErrClosed)

			_, open := <-s.Subscribe()
			So(open, ShouldBeFalse)
		})

		Reset(cancel)
	})
}
