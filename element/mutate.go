package element

import (
	"github.com/reelcraft-cli/reelcraft/constant"
	"github.com/reelcraft-cli/reelcraft/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Find returns the element with the given id.
func Find(elements []Element, id string) (Element, bool) {
	return lo.Find(elements, func(e Element) bool {
		return e.ID == id
	})
}

// Apply returns a copy of elements with fn applied to the element matching id.
// The second value is false when no element matched.
func Apply(elements []Element, id string, fn func(Element) Element) ([]Element, bool) {
	found := false
	out := lo.Map(elements, func(e Element, _ int) Element {
		if e.ID != id {
			return e
		}
		found = true
		return fn(e)
	})
	return out, found
}

// Without returns a copy of elements lacking the given ids.
func Without(elements []Element, ids ...string) ([]Element, bool) {
	out := lo.Reject(elements, func(e Element, _ int) bool {
		return lo.Contains(ids, e.ID)
	})
	return out, len(out) != len(elements)
}

// Moved sets the canvas position.
func Moved(x, y float64) func(Element) Element {
	return func(e Element) Element {
		e.Geometry.X, e.Geometry.Y = x, y
		return e
	}
}

// Resized sets the canvas size. Non-positive dimensions are clamped to one pixel.
func Resized(width, height float64) func(Element) Element {
	return func(e Element) Element {
		e.Geometry.Width = util.Max(width, 1)
		e.Geometry.Height = util.Max(height, 1)
		return e
	}
}

// Rotated sets the rotation in degrees.
func Rotated(degrees float64) func(Element) Element {
	return func(e Element) Element {
		e.Geometry.Rotation = degrees
		return e
	}
}

// Trimmed sets a new time range. A range shorter than the minimum clip span is
// widened by moving the edge that changed, anchored on the edge that stayed put.
func Trimmed(start, end float64) func(Element) Element {
	return func(e Element) Element {
		if end-start < constant.MinClipSpan {
			if start == e.Range.Start {
				end = start + constant.MinClipSpan
			} else {
				start = end - constant.MinClipSpan
			}
		}
		if start < 0 {
			end -= start
			start = 0
		}
		e.Range = TimeRange{Start: start, End: end}
		return e
	}
}

// Retimed changes the playback rate and rescales the span to match.
// The rate is clamped to [constant.MinSpeed, constant.MaxSpeed].
func Retimed(speed float64) func(Element) Element {
	return func(e Element) Element {
		if !e.Kind.Retimable() {
			return e
		}
		speed = util.Clamp(speed, constant.MinSpeed, constant.MaxSpeed)
		span := util.Max(e.Range.Span()*e.Rate()/speed, constant.MinClipSpan)
		e.Range.End = e.Range.Start + span
		e.Speed = speed
		return e
	}
}

// WithVolume sets the content volume, clamped to [0,1]. Zero forces mute.
// With unmuteOnRaise, raising the volume of a muted element also unmutes it.
func WithVolume(volume float64, unmuteOnRaise bool) func(Element) Element {
	return func(e Element) Element {
		volume = util.Clamp(volume, 0, 1)
		return withMix(e, func(m Mix) Mix {
			if volume == 0 {
				m.Muted = true
			} else if unmuteOnRaise && m.Muted && volume > m.Volume {
				m.Muted = false
			}
			m.Volume = volume
			return m
		})
	}
}

// WithMuted sets the per-element mute flag.
func WithMuted(muted bool) func(Element) Element {
	return func(e Element) Element {
		return withMix(e, func(m Mix) Mix {
			m.Muted = muted
			return m
		})
	}
}

func withMix(e Element, fn func(Mix) Mix) Element {
	switch c := e.Content.(type) {
	case VideoContent:
		c.Mix = fn(c.Mix)
		e.Content = c
	case AudioContent:
		c.Mix = fn(c.Mix)
		e.Content = c
	}
	return e
}

// WithCrop sets or clears the crop rectangle. Present crops are clamped.
func WithCrop(crop mo.Option[Crop]) func(Element) Element {
	return func(e Element) Element {
		if c, ok := crop.Get(); ok {
			crop = mo.Some(c.Clamp())
		}
		switch c := e.Content.(type) {
		case VideoContent:
			c.Crop = crop
			e.Content = c
		case ImageContent:
			c.Crop = crop
			e.Content = c
		}
		return e
	}
}

// WithText replaces the text and style of a text element.
func WithText(props TextProps) func(Element) Element {
	return func(e Element) Element {
		if _, ok := e.Content.(TextContent); ok {
			e.Content = TextContent{Text: props.Text, Style: props.Style.WithDefaults()}
		}
		return e
	}
}
