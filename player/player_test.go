package player

import (
	"errors"
	"testing"
	"time"

	"github.com/reelcraft-cli/reelcraft/clock"
	"github.com/reelcraft-cli/reelcraft/filesystem"
	"github.com/reelcraft-cli/reelcraft/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestNew(t *testing.T) {
	Convey("New should follow player.backend", t, func() {
		viper.Set(key.PlayerBackend, BackendNull)
		f, err := New()
		So(err, ShouldBeNil)
		So(f, ShouldHaveSameTypeAs, &NullFactory{})

		viper.Set(key.PlayerBackend, BackendMPV)
		f, err = New()
		So(err, ShouldBeNil)
		So(f, ShouldHaveSameTypeAs, &MPVFactory{})

		viper.Set(key.PlayerBackend, "vlc")
		_, err = New()
		So(err, ShouldNotBeNil)
	})
}

func TestNull(t *testing.T) {
	Convey("Given a null handle for a 10s source", t, func() {
		src := clock.NewManual(time.Unix(0, 0))
		h, err := NewNullFactory(src).Open(Request{Source: "a.mp4", Duration: 10})
		So(err, ShouldBeNil)

		Convey("It starts paused at zero", func() {
			pos, _ := h.Position()
			So(pos, ShouldEqual, 0)
			src.Advance(time.Second)
			pos, _ = h.Position()
			So(pos, ShouldEqual, 0)
		})

		Convey("It advances while playing at its rate", func() {
			So(h.Play(), ShouldBeNil)
			src.Advance(2 * time.Second)
			So(h.SetRate(2), ShouldBeNil)
			src.Advance(time.Second)
			pos, _ := h.Position()
			So(pos, ShouldEqual, 4)
		})

		Convey("Seeking rebases the clock", func() {
			h.Play()
			src.Advance(time.Second)
			So(h.SetPosition(7), ShouldBeNil)
			src.Advance(time.Second)
			pos, _ := h.Position()
			So(pos, ShouldEqual, 8)
		})

		Convey("It ends at the media duration", func() {
			h.Play()
			src.Advance(12 * time.Second)
			So(h.Ended(), ShouldBeTrue)
			pos, _ := h.Position()
			So(pos, ShouldEqual, 10)
		})

		Convey("Muted handles are not audible", func() {
			n := h.(*Null)
			h.Play()
			So(n.Audible(), ShouldBeTrue)
			h.SetMuted(true)
			So(n.Audible(), ShouldBeFalse)
		})

		Convey("Closed handles refuse to play", func() {
			So(h.Close(), ShouldBeNil)
			So(errors.Is(h.Play(), ErrClosed), ShouldBeTrue)
		})
	})

	Convey("An empty source is unsupported", t, func() {
		_, err := NewNullFactory(nil).Open(Request{})
		So(errors.Is(err, ErrUnsupportedSource), ShouldBeTrue)
	})
}

func TestMPVHelpers(t *testing.T) {
	Convey("sanitizeMediaTarget", t, func() {
		filesystem.SetMemMapFs()
		So(filesystem.API().WriteFile("/media/clip.mp4", []byte("x"), 0o644), ShouldBeNil)

		Convey("Accepts existing files and http URLs", func() {
			got, err := sanitizeMediaTarget(" /media/../media/clip.mp4 ")
			So(err, ShouldBeNil)
			So(got, ShouldEqual, "/media/clip.mp4")

			got, err = sanitizeMediaTarget("file:///media/clip.mp4")
			So(err, ShouldBeNil)
			So(got, ShouldEqual, "/media/clip.mp4")

			_, err = sanitizeMediaTarget("https://example.com/a.mp4")
			So(err, ShouldBeNil)
		})

		Convey("Rejects flags, control characters and missing files", func() {
			for _, bad := range []string{"", "--script=x.lua", "a\nb", "ftp://host/a.mp4", "/media/missing.mp4"} {
				_, err := sanitizeMediaTarget(bad)
				So(err, ShouldNotBeNil)
			}
		})

		Convey("MPVFactory wraps bad sources as unsupported", func() {
			_, err := NewMPVFactory("").Open(Request{Source: "/nope.mp4"})
			So(errors.Is(err, ErrUnsupportedSource), ShouldBeTrue)
		})
	})

	Convey("mpvArgs", t, func() {
		Convey("Audio-only handles get no window", func() {
			args := mpvArgs("/tmp/s.sock", "/m/a.mp3", Request{AudioOnly: true})
			So(args, ShouldContain, "--no-video")
			So(args, ShouldContain, "--force-media-title=a.mp3")
			So(args[len(args)-2:], ShouldResemble, []string{"--", "/m/a.mp3"})
		})

		Convey("Video handles start paused with a window", func() {
			args := mpvArgs("/tmp/s.sock", "/m/v.mp4", Request{Title: "Intro\nclip"})
			So(args, ShouldContain, "--pause=yes")
			So(args, ShouldContain, "--force-window=yes")
			So(args, ShouldContain, "--title=Intro clip")
		})
	})
}

func TestEvents(t *testing.T) {
	Convey("splitEvents keeps the partial tail", t, func() {
		lines, rest := splitEvents("{\"a\":1}\n\n{\"b\":2}\n{\"c\"")
		So(lines, ShouldResemble, []string{`{"a":1}`, `{"b":2}`})
		So(rest, ShouldEqual, `{"c"`)
	})

	Convey("parseEvent", t, func() {
		name, data, ok := parseEvent(`{"event":"property-change","id":1,"name":"time-pos","data":3.5}`)
		So(ok, ShouldBeTrue)
		So(name, ShouldEqual, "time-pos")
		So(data, ShouldEqual, 3.5)

		name, _, ok = parseEvent(`{"event":"end-file","reason":"eof"}`)
		So(ok, ShouldBeTrue)
		So(name, ShouldEqual, "end-file")

		_, _, ok = parseEvent(`{"data":1,"error":"success"}`)
		So(ok, ShouldBeFalse)

		_, _, ok = parseEvent(`garbage`)
		So(ok, ShouldBeFalse)
	})

	Convey("observed tracks position and end", t, func() {
		var o observed
		o.apply("time-pos", 2.5)
		o.apply("eof-reached", true)
		pos, known, ended := o.snapshot()
		So(pos, ShouldEqual, 2.5)
		So(known, ShouldBeTrue)
		So(ended, ShouldBeTrue)

		o.apply("eof-reached", false)
		_, _, ended = o.snapshot()
		So(ended, ShouldBeFalse)
	})

	Convey("parseResponse skips events and surfaces mpv errors", t, func() {
		data, err := parseResponse([]byte("{\"event\":\"pause\"}\n{\"data\":1.5,\"error\":\"success\"}\n"))
		So(err, ShouldBeNil)
		So(data, ShouldEqual, 1.5)

		_, err = parseResponse([]byte(`{"error":"property unavailable"}`))
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "property unavailable")
	})
}
