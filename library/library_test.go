package library

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"testing"

	"github.com/reelcraft-cli/reelcraft/constant"
	"github.com/reelcraft-cli/reelcraft/element"
	"github.com/reelcraft-cli/reelcraft/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func box(typ string, payload []byte) []byte {
	b := make([]byte, 8, 8+len(payload))
	binary.BigEndian.PutUint32(b[0:4], uint32(8+len(payload)))
	copy(b[4:8], typ)
	return append(b, payload...)
}

// mp4 builds a minimal file whose mvhd declares duration/timescale seconds.
func mp4(timescale, duration uint32) []byte {
	mvhd := make([]byte, 100)
	binary.BigEndian.PutUint32(mvhd[12:16], timescale)
	binary.BigEndian.PutUint32(mvhd[16:20], duration)

	ftyp := box("ftyp", []byte("isom\x00\x00\x02\x00"))
	free := box("free", make([]byte, 32))
	return append(append(ftyp, free...), box("moov", box("mvhd", mvhd))...)
}

func wav(byteRate uint32, dataLen int) []byte {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(2))
	_ = binary.Write(&buf, binary.LittleEndian, byteRate/4)
	_ = binary.Write(&buf, binary.LittleEndian, byteRate)
	_ = binary.Write(&buf, binary.LittleEndian, uint16(4))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(dataLen))
	buf.Write(make([]byte, dataLen))
	return buf.Bytes()
}

func write(path string, data []byte) string {
	So(filesystem.API().WriteFile(path, data, 0o644), ShouldBeNil)
	return path
}

func newTestLibrary() *Library {
	var n int
	l := New(Defaults{})
	l.newID = func() string {
		n++
		return fmt.Sprintf("m%d", n)
	}
	return l
}

func TestClassify(t *testing.T) {
	Convey("Classify", t, func() {
		Convey("Should use the extension first", func() {
			for path, want := range map[string]element.Kind{
				"a.MP4": element.Video,
				"b.png": element.Image,
				"c.mp3": element.Audio,
				"d.WAV": element.Audio,
			} {
				kind, err := Classify(path, nil)
				So(err, ShouldBeNil)
				So(kind, ShouldEqual, want)
			}
		})

		Convey("Should sniff files without a known extension", func() {
			kind, err := Classify("upload", bytes.NewReader([]byte("\x89PNG\r\n\x1a\n0000")))
			So(err, ShouldBeNil)
			So(kind, ShouldEqual, element.Image)
		})

		Convey("Should reject anything else", func() {
			_, err := Classify("notes.txt", bytes.NewReader([]byte("hello")))
			So(errors.Is(err, ErrUnsupportedType), ShouldBeTrue)
		})
	})
}

func TestProbe(t *testing.T) {
	Convey("Probing containers", t, func() {
		Convey("Should read the mvhd duration of an MP4", func() {
			data := mp4(1000, 12500)
			d, err := probeMP4(bytes.NewReader(data), int64(len(data)))
			So(err, ShouldBeNil)
			So(d, ShouldAlmostEqual, 12.5)
		})

		Convey("Should read a 64-bit mvhd", func() {
			mvhd := make([]byte, 120)
			mvhd[0] = 1
			binary.BigEndian.PutUint32(mvhd[20:24], 600)
			binary.BigEndian.PutUint64(mvhd[24:32], 1800)
			data := box("moov", box("mvhd", mvhd))

			d, err := probeMP4(bytes.NewReader(data), int64(len(data)))
			So(err, ShouldBeNil)
			So(d, ShouldAlmostEqual, 3)
		})

		Convey("Should fail without a movie header", func() {
			data := box("ftyp", []byte("isom"))
			_, err := probeMP4(bytes.NewReader(data), int64(len(data)))
			So(err, ShouldNotBeNil)
		})

		Convey("Should compute a WAVE duration from byte rate", func() {
			data := wav(1000, 4000)
			d, err := probeWAV(bytes.NewReader(data), int64(len(data)))
			So(err, ShouldBeNil)
			So(d, ShouldAlmostEqual, 4)
		})
	})
}

func TestLibrary(t *testing.T) {
	Convey("Given a library on an in-memory filesystem", t, func() {
		l := newTestLibrary()

		Convey("Ingesting a video should probe its duration", func() {
			item, err := l.Ingest(write("/media/beach.mp4", mp4(600, 4800)))
			So(err, ShouldBeNil)
			So(item.Kind, ShouldEqual, element.Video)
			So(item.Name, ShouldEqual, "beach.mp4")
			So(item.Duration.MustGet(), ShouldAlmostEqual, 8)

			Convey("And a second ingest of the same path should return it", func() {
				again, err := l.Ingest("/media/beach.mp4")
				So(err, ShouldBeNil)
				So(again.ID, ShouldEqual, item.ID)
				So(l.Len(), ShouldEqual, 1)
			})

			Convey("And the probe should be served from cache afterwards", func() {
				info, _ := filesystem.API().Stat("/media/beach.mp4")
				d, ok := cachedDuration(probeKey("/media/beach.mp4", info.Size(), info.ModTime()))
				So(ok, ShouldBeTrue)
				So(d, ShouldAlmostEqual, 8)
			})
		})

		Convey("An image should get the default span and itself as thumbnail", func() {
			item, err := l.Ingest(write("/media/logo.png", []byte("\x89PNG\r\n\x1a\n")))
			So(err, ShouldBeNil)
			So(item.Duration.IsAbsent(), ShouldBeTrue)
			So(item.Thumbnail, ShouldEqual, "/media/logo.png")

			m := l.Media(item)
			So(m.Duration, ShouldEqual, constant.DefaultMediaDuration)
			So(m.Kind, ShouldEqual, element.Image)
		})

		Convey("An unparseable audio file should fall back to the audio default", func() {
			item, err := l.Ingest(write("/media/song.mp3", []byte("ID3")))
			So(err, ShouldBeNil)
			So(l.Media(item).Duration, ShouldEqual, constant.DefaultAudioDuration)
		})

		Convey("Unsupported files should not be added", func() {
			_, err := l.Ingest(write("/media/readme.txt", []byte("hello")))
			So(errors.Is(err, ErrUnsupportedType), ShouldBeTrue)
			So(l.Len(), ShouldEqual, 0)
		})

		Convey("Missing files should error", func() {
			_, err := l.Ingest("/media/missing.mp4")
			So(err, ShouldNotBeNil)
		})

		Convey("With several items", func() {
			for _, name := range []string{"sunset.mp4", "sunrise.wav", "interview.mov"} {
				var data []byte
				if name == "sunrise.wav" {
					data = wav(8000, 16000)
				} else {
					data = mp4(1, 3)
				}
				_, err := l.Ingest(write("/set/"+name, data))
				So(err, ShouldBeNil)
			}

			Convey("Search should rank fuzzy matches", func() {
				found := l.Search("sun")
				So(lo.Map(found, func(i Item, _ int) string { return i.Name }), ShouldResemble, []string{"sunset.mp4", "sunrise.wav"})
				So(l.Search("  "), ShouldHaveLength, 3)
				So(l.Search("zzz"), ShouldBeEmpty)
			})

			Convey("Get should resolve ids and names", func() {
				byName, ok := l.Get("interview.mov")
				So(ok, ShouldBeTrue)
				byID, ok := l.Get(byName.ID)
				So(ok, ShouldBeTrue)
				So(byID.Source, ShouldEqual, "/set/interview.mov")
			})

			Convey("Remove should drop exactly one item", func() {
				item, _ := l.Get("sunset.mp4")
				So(l.Remove(item.ID), ShouldBeTrue)
				So(l.Remove(item.ID), ShouldBeFalse)
				So(l.Len(), ShouldEqual, 2)
			})
		})
	})
}

func TestSlot(t *testing.T) {
	Convey("Slot", t, func() {
		elements := []element.Element{
			{ID: "a", Kind: element.Video, Track: constant.MediaTrack, Range: element.TimeRange{Start: 0, End: 4}},
			{ID: "b", Kind: element.Image, Track: constant.MediaTrack, Range: element.TimeRange{Start: 4, End: 9}},
			{ID: "c", Kind: element.Audio, Track: constant.AudioTrack, Range: element.TimeRange{Start: 1, End: 3}},
		}

		Convey("Should append visual media after the media track", func() {
			track, start := Slot(elements, element.Video)
			So(track, ShouldEqual, constant.MediaTrack)
			So(start, ShouldEqual, 9)
		})

		Convey("Should append audio after the audio track", func() {
			track, start := Slot(elements, element.Audio)
			So(track, ShouldEqual, constant.AudioTrack)
			So(start, ShouldEqual, 3)
		})

		Convey("Should start at zero on an empty timeline", func() {
			_, start := Slot(nil, element.Image)
			So(start, ShouldEqual, 0)
		})
	})
}
