package element

import (
	"github.com/reelcraft-cli/reelcraft/util"
	"github.com/samber/mo"
)

// Content is the kind-specific payload of an element.
// The concrete types are VideoContent, ImageContent, AudioContent and TextContent.
type Content interface {
	Kind() Kind
	content()
}

// Mix is the sound setting of an audio-bearing element.
type Mix struct {
	Volume float64
	Muted  bool
}

// DefaultMix is full volume, unmuted.
func DefaultMix() Mix {
	return Mix{Volume: 1}
}

// Crop is a sub-rectangle of the source frame in percentages.
type Crop struct {
	X, Y          float64
	Width, Height float64
}

// FullFrame is the crop that covers the whole source.
var FullFrame = Crop{Width: 100, Height: 100}

const minCropSize = 1

// Clamp fits the rectangle inside [0,100]² keeping its size where possible.
func (c Crop) Clamp() Crop {
	c.Width = util.Clamp(c.Width, minCropSize, 100)
	c.Height = util.Clamp(c.Height, minCropSize, 100)
	c.X = util.Clamp(c.X, 0, 100-c.Width)
	c.Y = util.Clamp(c.Y, 0, 100-c.Height)
	return c
}

// WithAspect keeps the width and derives the height for ratio (width/height),
// shrinking the width instead when the height would overflow.
func (c Crop) WithAspect(ratio float64) Crop {
	if ratio <= 0 {
		return c
	}
	c.Height = c.Width / ratio
	if c.Height > 100 {
		c.Height = 100
		c.Width = c.Height * ratio
	}
	return c.Clamp()
}

// VideoContent is a playable video, possibly the composite of a merge.
type VideoContent struct {
	Source          string
	Mix             Mix
	Crop            mo.Option[Crop]
	SecondarySource string
	Merged          bool
}

func (VideoContent) Kind() Kind { return Video }
func (VideoContent) content()   {}

// ImageContent is a still picture.
type ImageContent struct {
	Source string
	Crop   mo.Option[Crop]
}

func (ImageContent) Kind() Kind { return Image }
func (ImageContent) content()   {}

// AudioContent is a separately uploaded sound track.
type AudioContent struct {
	Source string
	Mix    Mix
}

func (AudioContent) Kind() Kind { return Audio }
func (AudioContent) content()   {}

// Alignment is horizontal text alignment.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// TextStyle holds typographic settings.
type TextStyle struct {
	FontSize   float64
	FontWeight string
	FontStyle  string
	Color      string
	Alignment  Alignment
}

// WithDefaults fills unset fields with 24px normal black centered text.
func (s TextStyle) WithDefaults() TextStyle {
	if s.FontSize <= 0 {
		s.FontSize = 24
	}
	if s.FontWeight == "" {
		s.FontWeight = "normal"
	}
	if s.FontStyle == "" {
		s.FontStyle = "normal"
	}
	if s.Color == "" {
		s.Color = "#000000"
	}
	if s.Alignment == "" {
		s.Alignment = AlignCenter
	}
	return s
}

// TextContent is a styled caption.
type TextContent struct {
	Text  string
	Style TextStyle
}

func (TextContent) Kind() Kind { return Text }
func (TextContent) content()   {}
