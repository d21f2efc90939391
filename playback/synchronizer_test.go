package playback

import (
	"testing"
	"time"

	"github.com/reelcraft-cli/reelcraft/element"
	"github.com/reelcraft-cli/reelcraft/notice"
	"github.com/reelcraft-cli/reelcraft/player"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func clip(id string, kind element.Kind, start, end float64) element.Element {
	e := element.NewMedia(id, element.Media{Kind: kind, Name: id, Source: id + ".src"}, 0, start)
	e.Range.End = end
	return e
}

func baseState(elements ...element.Element) State {
	return State{
		Time:         5,
		Duration:     30,
		Elements:     elements,
		Priority:     PriorityVideo,
		MasterVolume: mo.Some(1.0),
	}
}

var t0 = time.Unix(1000, 0)

func TestParsePriority(t *testing.T) {
	Convey("ParsePriority", t, func() {
		p, err := ParsePriority("audio")
		So(err, ShouldBeNil)
		So(p, ShouldEqual, PriorityAudio)
		So(p.Toggle(), ShouldEqual, PriorityVideo)
		So(p.Label(), ShouldEqual, "uploaded audio")
		So(PriorityVideo.Label(), ShouldEqual, "video audio")

		_, err = ParsePriority("external")
		So(err, ShouldNotBeNil)
	})
}

func TestLifecycle(t *testing.T) {
	Convey("Given a video and an audio track", t, func() {
		f := newFakeFactory()
		s := New(f, Options{})
		v := clip("v", element.Video, 0, 30)
		a := clip("a", element.Audio, 2, 8)
		st := baseState(v, a)

		r := s.Reconcile(st, t0)

		Convey("Handles are created at their local time", func() {
			So(r.Created, ShouldResemble, []string{"a", "v"})
			So(f.opened["v.src"].position, ShouldEqual, 5)
			So(f.opened["a.src"].position, ShouldEqual, 3)
			So(len(s.Handles()), ShouldEqual, 2)
		})

		Convey("A second identical pass does nothing", func() {
			f.reset()
			opens := f.opens
			r := s.Reconcile(st, t0)
			So(r.Created, ShouldBeEmpty)
			So(r.Disposed, ShouldBeEmpty)
			So(f.opens, ShouldEqual, opens)
			So(f.calls(), ShouldEqual, 0)
		})

		Convey("Moving past the audio disposes its handle", func() {
			st.Time = 10
			r := s.Reconcile(st, t0)
			So(r.Disposed, ShouldResemble, []string{"a"})
			So(f.opened["a.src"].closed, ShouldBeTrue)
			So(f.sources(), ShouldResemble, []string{"v.src"})

			Convey("And re-entering creates a fresh one", func() {
				st.Time = 4
				r := s.Reconcile(st, t0)
				So(r.Created, ShouldResemble, []string{"a"})
				So(f.opened["a.src"].closed, ShouldBeFalse)
			})
		})

		Convey("Removing an element while starting playback never plays it", func() {
			f.reset()
			st.Elements = []element.Element{v}
			st.Playing = true
			s.Reconcile(st, t0)
			So(f.opened["a.src"].calls, ShouldResemble, []string{"close"})
			So(f.opened["v.src"].playing, ShouldBeTrue)
		})

		Convey("Changing the source replaces the handle", func() {
			changed := v
			changed.Content = element.VideoContent{Source: "other.src", Mix: element.DefaultMix()}
			st.Elements = []element.Element{changed, a}
			r := s.Reconcile(st, t0)
			So(r.Disposed, ShouldResemble, []string{"v"})
			So(r.Created, ShouldResemble, []string{"v"})
			So(f.opened["v.src"].closed, ShouldBeTrue)
		})

		Convey("Dispose closes everything", func() {
			s.Dispose()
			So(s.Handles(), ShouldBeEmpty)
			So(f.sources(), ShouldBeEmpty)
		})
	})
}

func TestPriority(t *testing.T) {
	Convey("Given an active video and audio while playing", t, func() {
		f := newFakeFactory()
		s := New(f, Options{})
		st := baseState(clip("v", element.Video, 0, 30), clip("a", element.Audio, 0, 30))
		st.Playing = true

		video := func() *fakeHandle { return f.opened["v.src"] }
		audio := func() *fakeHandle { return f.opened["a.src"] }

		Convey("Video priority keeps only the video audible", func() {
			s.Reconcile(st, t0)
			So(video().audible(), ShouldBeTrue)
			So(audio().audible(), ShouldBeFalse)
			So(audio().muted, ShouldBeTrue)

			Convey("Switching to audio priority flips it", func() {
				st.Priority = PriorityAudio
				s.Reconcile(st, t0)
				So(video().audible(), ShouldBeFalse)
				So(video().muted, ShouldBeTrue)
				So(video().playing, ShouldBeTrue)
				So(audio().audible(), ShouldBeTrue)
				So(s.Pending(), ShouldBeTrue)
			})
		})

		Convey("With no video the audio keeps its own settings", func() {
			st.Elements = st.Elements[1:]
			s.Reconcile(st, t0)
			So(audio().audible(), ShouldBeTrue)
		})

		Convey("An element muted by the user stays silent under either priority", func() {
			a := st.Elements[1]
			st.Elements[1] = element.WithMuted(true)(a)
			st.Priority = PriorityAudio
			s.Reconcile(st, t0)
			So(audio().audible(), ShouldBeFalse)
			So(video().muted, ShouldBeTrue)
		})

		Convey("Master mute silences everything", func() {
			st.MasterMuted = true
			s.Reconcile(st, t0)
			So(video().audible(), ShouldBeFalse)
			So(audio().audible(), ShouldBeFalse)
		})

		Convey("Volume is scaled by the master volume", func() {
			st.Elements[0] = element.WithVolume(0.5, false)(st.Elements[0])
			st.MasterVolume = mo.Some(0.5)
			s.Reconcile(st, t0)
			So(video().volume, ShouldEqual, 0.25)
		})

		Convey("An unset master volume leaves element volumes alone", func() {
			st.Elements[0] = element.WithVolume(0.5, false)(st.Elements[0])
			st.MasterVolume = mo.None[float64]()
			s.Reconcile(st, t0)
			So(video().volume, ShouldEqual, 0.5)
		})

		Convey("Pausing pauses every handle", func() {
			s.Reconcile(st, t0)
			st.Playing = false
			s.Reconcile(st, t0)
			So(video().playing, ShouldBeFalse)
			So(audio().playing, ShouldBeFalse)
		})
	})
}

func TestResync(t *testing.T) {
	Convey("Given a paused timeline with an audio handle at local 3s", t, func() {
		f := newFakeFactory()
		s := New(f, Options{})
		st := baseState(clip("v", element.Video, 0, 30), clip("a", element.Audio, 2, 30))
		s.Reconcile(st, t0)
		audio, video := f.opened["a.src"], f.opened["v.src"]
		So(audio.position, ShouldEqual, 3)

		Convey("A seek to 20 snaps the video at once and the audio after the debounce", func() {
			st.Time = 20
			s.RequestResync(t0)
			r := s.Reconcile(st, t0)
			So(r.Resynced, ShouldBeFalse)
			So(video.position, ShouldEqual, 20)
			So(audio.position, ShouldEqual, 3)

			r = s.Reconcile(st, t0.Add(50*time.Millisecond))
			So(r.Resynced, ShouldBeTrue)
			So(audio.position, ShouldEqual, 18)
			So(s.Pending(), ShouldBeFalse)
		})

		Convey("A hard resync bypasses the tolerance band", func() {
			st.Time = 20
			st.Playing = true
			s.Reconcile(st, t0)
			s.Reconcile(st, t0.Add(time.Second))
			audio.position = 18.05
			audio.calls = nil

			s.Reconcile(st, t0.Add(2*time.Second))
			So(audio.calls, ShouldBeEmpty)

			s.RequestResync(t0.Add(2 * time.Second))
			s.Reconcile(st, t0.Add(2*time.Second+50*time.Millisecond))
			So(audio.calls, ShouldResemble, []string{"seek 18.00"})
		})

		Convey("Requests are single-flight", func() {
			s.RequestResync(t0)
			s.RequestResync(t0.Add(40 * time.Millisecond))

			r := s.Reconcile(st, t0.Add(60*time.Millisecond))
			So(r.Resynced, ShouldBeFalse)

			r = s.Reconcile(st, t0.Add(90*time.Millisecond))
			So(r.Resynced, ShouldBeTrue)

			r = s.Reconcile(st, t0.Add(200*time.Millisecond))
			So(r.Resynced, ShouldBeFalse)
		})

		Convey("Playing from stopped schedules a resync", func() {
			st.Playing = true
			s.Reconcile(st, t0)
			So(s.Pending(), ShouldBeTrue)
		})
	})
}

func TestDrift(t *testing.T) {
	Convey("Given playing handles", t, func() {
		f := newFakeFactory()
		s := New(f, Options{})
		st := baseState(clip("v", element.Video, 0, 30), clip("a", element.Audio, 0, 30))
		st.Priority = PriorityAudio
		st.Playing = true
		s.Reconcile(st, t0)
		s.Reconcile(st, t0.Add(time.Second))
		audio, video := f.opened["a.src"], f.opened["v.src"]

		Convey("Audio drifting by 0.3s is corrected", func() {
			audio.position = 5.3
			r := s.Reconcile(st, t0.Add(2*time.Second))
			So(r.Corrected, ShouldResemble, []string{"a"})
			So(audio.position, ShouldEqual, 5)
		})

		Convey("Video drifting by 0.3s is tolerated", func() {
			video.position = 5.3
			r := s.Reconcile(st, t0.Add(2*time.Second))
			So(r.Corrected, ShouldBeEmpty)
		})

		Convey("Video drifting by 0.6s is corrected", func() {
			video.position = 4.4
			r := s.Reconcile(st, t0.Add(2*time.Second))
			So(r.Corrected, ShouldResemble, []string{"v"})
		})

		Convey("Speed scales the expected local time", func() {
			st.Elements[1] = element.Retimed(2)(st.Elements[1])
			s.Reconcile(st, t0.Add(2*time.Second))
			So(audio.rate, ShouldEqual, 2)
			So(audio.position, ShouldEqual, 10)
		})
	})
}

func TestPausedHandles(t *testing.T) {
	Convey("Given video priority over an overlapping audio track", t, func() {
		f := newFakeFactory()
		s := New(f, Options{})
		st := baseState(clip("v", element.Video, 0, 30), clip("a", element.Audio, 0, 30))
		st.Playing = true
		s.Reconcile(st, t0)
		s.Reconcile(st, t0.Add(time.Second))

		audio := f.opened["a.src"]
		So(audio.playing, ShouldBeFalse)
		audio.calls = nil

		Convey("The paused audio is not chased while the timeline moves", func() {
			st.Time = 7
			r := s.Reconcile(st, t0.Add(2*time.Second))
			So(r.Corrected, ShouldResemble, []string{"v"})
			So(audio.calls, ShouldBeEmpty)

			Convey("A priority switch realigns it", func() {
				st.Priority = PriorityAudio
				s.Reconcile(st, t0.Add(2*time.Second))
				s.Reconcile(st, t0.Add(3*time.Second))
				So(audio.position, ShouldEqual, 7)
				So(audio.playing, ShouldBeTrue)
			})
		})
	})
}

func TestFailures(t *testing.T) {
	Convey("Given an unreachable audio source", t, func() {
		f := newFakeFactory()
		f.broken["a.src"] = true
		buf := &notice.Buffer{}
		s := New(f, Options{Reporter: buf})
		st := baseState(clip("v", element.Video, 0, 30), clip("a", element.Audio, 0, 30))
		st.Playing = true

		r := s.Reconcile(st, t0)

		Convey("The handle is marked failed and the rest plays", func() {
			So(r.Failed, ShouldResemble, []string{"a"})
			info, ok := s.Handle("a")
			So(ok, ShouldBeTrue)
			So(info.Failed, ShouldBeTrue)
			So(f.opened["v.src"].playing, ShouldBeTrue)

			last, _ := buf.Last()
			So(last.Severity, ShouldEqual, notice.Error)
		})

		Convey("It is not retried while it stays active", func() {
			opens := f.opens
			s.Reconcile(st, t0.Add(time.Second))
			So(f.opens, ShouldEqual, opens)
		})

		Convey("It is retried after leaving and re-entering", func() {
			f.broken["a.src"] = false
			st.Elements = st.Elements[:1]
			s.Reconcile(st, t0)
			st.Elements = append(st.Elements, clip("a", element.Audio, 0, 30))
			r := s.Reconcile(st, t0)
			So(r.Created, ShouldResemble, []string{"a"})
		})
	})

	Convey("Given an audio track that refuses to play", t, func() {
		f := newFakeFactory()
		f.playErr["a.src"] = errNotFound
		s := New(f, Options{})
		st := baseState(clip("v", element.Video, 0, 30), clip("a", element.Audio, 0, 30))
		st.Priority = PriorityAudio
		st.Playing = true

		r := s.Reconcile(st, t0)

		Convey("It is blocked while the video keeps playing", func() {
			So(r.Blocked, ShouldResemble, []string{"a"})
			So(f.opened["v.src"].playing, ShouldBeTrue)
			info, _ := s.Handle("a")
			So(info.Blocked, ShouldBeTrue)
			So(info.Playing, ShouldBeFalse)
			So(f.opened["a.src"].calls, ShouldContain, "pause")
		})

		Convey("It is not retried until the next hard resync", func() {
			audio := f.opened["a.src"]
			audio.calls = nil
			s.Reconcile(st, t0.Add(10*time.Millisecond))
			So(audio.calls, ShouldBeEmpty)

			audio.playErr = nil
			s.Reconcile(st, t0.Add(50*time.Millisecond))
			So(audio.playing, ShouldBeTrue)
		})
	})
}

func TestVideoEnded(t *testing.T) {
	Convey("Given a playing video whose media runs out early", t, func() {
		f := newFakeFactory()
		s := New(f, Options{})
		st := baseState(clip("v", element.Video, 0, 30))
		st.Playing = true
		s.Reconcile(st, t0)
		f.opened["v.src"].ended = true

		Convey("The end is reported once", func() {
			r := s.Reconcile(st, t0)
			So(r.VideoEnded.OrEmpty(), ShouldEqual, "v")
			r = s.Reconcile(st, t0)
			So(r.VideoEnded.IsPresent(), ShouldBeFalse)
		})

		Convey("Nothing is reported at the end of the timeline", func() {
			st.Time = 29.95
			r := s.Reconcile(st, t0)
			So(r.VideoEnded.IsPresent(), ShouldBeFalse)
		})
	})
}

// closeSignal reports when its handle is closed.
type closeSignal struct {
	player.Handle
	closed chan struct{}
}

func (c closeSignal) Close() error {
	close(c.closed)
	return c.Handle.Close()
}

// settled reconciles until a pending open has been admitted or has failed.
func settled(s *Synchronizer, st State) Report {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if r := s.Reconcile(st, t0); len(r.Created)+len(r.Failed) > 0 {
			return r
		}
		time.Sleep(5 * time.Millisecond)
	}
	return Report{}
}

func TestAsyncOpen(t *testing.T) {
	Convey("Given a factory that takes its time", t, func() {
		f := newFakeFactory()
		release := make(chan struct{})
		closed := make(chan struct{})
		slow := player.FactoryFunc(func(req player.Request) (player.Handle, error) {
			<-release
			h, err := f.Open(req)
			if err != nil {
				return nil, err
			}
			return closeSignal{Handle: h, closed: closed}, nil
		})
		s := New(slow, Options{Async: true})
		st := baseState(clip("v", element.Video, 0, 30))
		st.Playing = true

		returned := make(chan Report, 1)
		go func() { returned <- s.Reconcile(st, t0) }()

		var r Report
		select {
		case r = <-returned:
		case <-time.After(time.Second):
			close(release)
			So("the pass waited for the factory", ShouldBeEmpty)
			return
		}

		Convey("The pass returns before the handle is open", func() {
			So(r.Created, ShouldBeEmpty)
			info, ok := s.Handle("v")
			So(ok, ShouldBeTrue)
			So(info.Opening, ShouldBeTrue)
			close(release)
		})

		Convey("A later pass admits it at the current local time", func() {
			close(release)
			r := settled(s, st)
			So(r.Created, ShouldResemble, []string{"v"})
			So(f.opened["v.src"].position, ShouldEqual, 5)
			So(f.opened["v.src"].playing, ShouldBeTrue)
		})

		Convey("An open failure marks the handle failed", func() {
			f.broken["v.src"] = true
			close(release)
			r := settled(s, st)
			So(r.Failed, ShouldResemble, []string{"v"})
			info, _ := s.Handle("v")
			So(info.Failed, ShouldBeTrue)
		})

		Convey("A handle retired while opening is closed once it arrives", func() {
			st.Elements = nil
			r := s.Reconcile(st, t0)
			So(r.Disposed, ShouldResemble, []string{"v"})
			So(s.Handles(), ShouldBeEmpty)

			close(release)
			select {
			case <-closed:
			case <-time.After(2 * time.Second):
				So("the late handle was never closed", ShouldBeEmpty)
			}
		})
	})
}
