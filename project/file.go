package project

import (
	"fmt"

	"github.com/reelcraft-cli/reelcraft/element"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// File is the on-disk shape of a project.
type File struct {
	Name string `json:"name" jsonschema:"description=Project name."`
	Canvas
	Elements []FileElement `json:"elements" jsonschema:"description=Timeline elements in insertion order."`
}

// FileCrop is a crop rectangle in percent of the source frame.
type FileCrop struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FileStyle is text styling.
type FileStyle struct {
	FontSize   float64 `json:"fontSize,omitempty"`
	FontWeight string  `json:"fontWeight,omitempty"`
	FontStyle  string  `json:"fontStyle,omitempty"`
	Color      string  `json:"color,omitempty"`
	Alignment  string  `json:"alignment,omitempty" jsonschema:"enum=left,enum=center,enum=right"`
}

// FileElement flattens every element kind into one record.
type FileElement struct {
	ID        string  `json:"id"`
	Type      string  `json:"type" jsonschema:"enum=video,enum=image,enum=text,enum=audio"`
	Name      string  `json:"name"`
	StartTime float64 `json:"startTime" jsonschema:"description=Seconds on the timeline where the element starts."`
	EndTime   float64 `json:"endTime" jsonschema:"description=Seconds on the timeline where the element ends."`
	Track     int     `json:"track"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Rotation  float64 `json:"rotation"`
	Thumbnail string  `json:"thumbnail,omitempty"`
	Speed     float64 `json:"speed,omitempty"`

	Src          string     `json:"src,omitempty"`
	SecondarySrc string     `json:"secondarySrc,omitempty"`
	IsMerged     bool       `json:"isMerged,omitempty"`
	Volume       *float64   `json:"volume,omitempty" jsonschema:"minimum=0,maximum=1"`
	Muted        bool       `json:"muted,omitempty"`
	Crop         *FileCrop  `json:"crop,omitempty"`
	Text         string     `json:"text,omitempty"`
	Style        *FileStyle `json:"style,omitempty"`
}

func cropOut(c mo.Option[element.Crop]) *FileCrop {
	crop, ok := c.Get()
	if !ok {
		return nil
	}
	return &FileCrop{X: crop.X, Y: crop.Y, Width: crop.Width, Height: crop.Height}
}

func cropIn(c *FileCrop) mo.Option[element.Crop] {
	if c == nil {
		return mo.None[element.Crop]()
	}
	return mo.Some(element.Crop{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height}.Clamp())
}

func toFileElement(e element.Element) FileElement {
	f := FileElement{
		ID:        e.ID,
		Type:      e.Kind.String(),
		Name:      e.Name,
		StartTime: e.Range.Start,
		EndTime:   e.Range.End,
		Track:     e.Track,
		X:         e.Geometry.X,
		Y:         e.Geometry.Y,
		Width:     e.Geometry.Width,
		Height:    e.Geometry.Height,
		Rotation:  e.Geometry.Rotation,
		Thumbnail: e.Thumbnail,
		Speed:     e.Speed,
	}

	switch c := e.Content.(type) {
	case element.VideoContent:
		f.Src = c.Source
		f.SecondarySrc = c.SecondarySource
		f.IsMerged = c.Merged
		f.Volume = lo.ToPtr(c.Mix.Volume)
		f.Muted = c.Mix.Muted
		f.Crop = cropOut(c.Crop)
	case element.ImageContent:
		f.Src = c.Source
		f.Crop = cropOut(c.Crop)
	case element.AudioContent:
		f.Src = c.Source
		f.Volume = lo.ToPtr(c.Mix.Volume)
		f.Muted = c.Mix.Muted
	case element.TextContent:
		f.Text = c.Text
		f.Style = &FileStyle{
			FontSize:   c.Style.FontSize,
			FontWeight: c.Style.FontWeight,
			FontStyle:  c.Style.FontStyle,
			Color:      c.Style.Color,
			Alignment:  string(c.Style.Alignment),
		}
	}

	return f
}

func fromFileElement(f FileElement) (element.Element, error) {
	kind, err := element.ParseKind(f.Type)
	if err != nil {
		return element.Element{}, fmt.Errorf("element %s: %w", f.ID, err)
	}
	if f.ID == "" {
		return element.Element{}, fmt.Errorf("%s element without id", kind)
	}

	e := element.Element{
		ID:   f.ID,
		Kind: kind,
		Name: f.Name,
		Range: element.TimeRange{
			Start: f.StartTime,
			End:   f.EndTime,
		},
		Track: f.Track,
		Geometry: element.Geometry{
			X:        f.X,
			Y:        f.Y,
			Width:    f.Width,
			Height:   f.Height,
			Rotation: f.Rotation,
		},
		Thumbnail: f.Thumbnail,
		Speed:     f.Speed,
	}
	if e.Speed <= 0 {
		e.Speed = 1
	}

	mix := element.Mix{Volume: lo.FromPtrOr(f.Volume, 1), Muted: f.Muted}

	switch kind {
	case element.Video:
		e.Content = element.VideoContent{
			Source:          f.Src,
			Mix:             mix,
			Crop:            cropIn(f.Crop),
			SecondarySource: f.SecondarySrc,
			Merged:          f.IsMerged,
		}
	case element.Image:
		e.Content = element.ImageContent{Source: f.Src, Crop: cropIn(f.Crop)}
	case element.Audio:
		e.Content = element.AudioContent{Source: f.Src, Mix: mix}
	case element.Text:
		style := lo.FromPtr(f.Style)
		e.Content = element.TextContent{
			Text: f.Text,
			Style: element.TextStyle{
				FontSize:   style.FontSize,
				FontWeight: style.FontWeight,
				FontStyle:  style.FontStyle,
				Color:      style.Color,
				Alignment:  element.Alignment(style.Alignment),
			}.WithDefaults(),
		}
	}

	return e, nil
}
