package element

import (
	"github.com/reelcraft-cli/reelcraft/constant"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// TimeRange is a span on the global timeline in seconds.
type TimeRange struct {
	Start float64
	End   float64
}

// Span returns the length of the range.
func (r TimeRange) Span() float64 {
	return r.End - r.Start
}

// Contains reports whether t falls in [Start, End).
func (r TimeRange) Contains(t float64) bool {
	return t >= r.Start && t < r.End
}

// Geometry is canvas placement in canvas pixels and degrees.
type Geometry struct {
	X, Y          float64
	Width, Height float64
	Rotation      float64
}

// Element is one timed, positioned unit of content.
type Element struct {
	ID        string
	Kind      Kind
	Name      string
	Range     TimeRange
	Track     int
	Geometry  Geometry
	Thumbnail string
	Speed     float64
	Content   Content
}

// Source returns the playable source reference, empty for text.
func (e Element) Source() string {
	switch c := e.Content.(type) {
	case VideoContent:
		return c.Source
	case ImageContent:
		return c.Source
	case AudioContent:
		return c.Source
	default:
		return ""
	}
}

// Mix returns the volume and mute settings of audio-bearing elements.
func (e Element) Mix() (Mix, bool) {
	switch c := e.Content.(type) {
	case VideoContent:
		return c.Mix, true
	case AudioContent:
		return c.Mix, true
	default:
		return Mix{}, false
	}
}

// Crop returns the crop rectangle of croppable elements.
func (e Element) Crop() mo.Option[Crop] {
	switch c := e.Content.(type) {
	case VideoContent:
		return c.Crop
	case ImageContent:
		return c.Crop
	default:
		return mo.None[Crop]()
	}
}

// Rate returns the playback rate, treating an unset speed as 1.
func (e Element) Rate() float64 {
	if e.Speed <= 0 {
		return 1
	}
	return e.Speed
}

// LocalTime maps a global timeline position into the element's media time.
func (e Element) LocalTime(t float64) float64 {
	return lo.Max([]float64{0, (t - e.Range.Start) * e.Rate()})
}

// Media describes an ingested file, as supplied by the media library.
type Media struct {
	Kind      Kind
	Name      string
	Source    string
	Duration  float64
	Thumbnail string
}

// TextProps are the user-authored properties of a text element.
type TextProps struct {
	Text  string
	Style TextStyle
}

// NewMedia builds a video, image or audio element from library metadata.
func NewMedia(id string, m Media, track int, start float64) Element {
	span := m.Duration
	if span <= 0 {
		span = constant.DefaultMediaDuration
		if m.Kind == Audio {
			span = constant.DefaultAudioDuration
		}
	}

	e := Element{
		ID:        id,
		Kind:      m.Kind,
		Name:      m.Name,
		Range:     TimeRange{Start: start, End: start + lo.Max([]float64{span, constant.MinClipSpan})},
		Track:     track,
		Thumbnail: m.Thumbnail,
		Speed:     1,
	}

	switch m.Kind {
	case Video:
		e.Geometry = Geometry{Width: 480, Height: 270}
		e.Content = VideoContent{Source: m.Source, Mix: DefaultMix()}
	case Image:
		e.Geometry = Geometry{Width: 300, Height: 200}
		e.Content = ImageContent{Source: m.Source}
	case Audio:
		if e.Name == "" {
			e.Name = "Audio Track"
		}
		e.Content = AudioContent{Source: m.Source, Mix: DefaultMix()}
	}

	return e
}

// NewText builds a text element centered roughly on a default canvas.
func NewText(id string, props TextProps, track int, start float64) Element {
	n := float64(len([]rune(props.Text)))
	return Element{
		ID:    id,
		Kind:  Text,
		Name:  "Text",
		Range: TimeRange{Start: start, End: start + constant.DefaultTextDuration},
		Track: track,
		Geometry: Geometry{
			X:      240 - n*5,
			Y:      135,
			Width:  lo.Max([]float64{200, n * 10}),
			Height: 40,
		},
		Speed:   1,
		Content: TextContent{Text: props.Text, Style: props.Style.WithDefaults()},
	}
}
