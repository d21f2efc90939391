package timeline

import (
	"fmt"

	"github.com/reelcraft-cli/reelcraft/element"
	"github.com/reelcraft-cli/reelcraft/notice"
	"github.com/samber/mo"
)

// AddMedia places a video or image on the timeline and returns its id.
// Audio items are routed to AddAudio.
func (s *Store) AddMedia(m element.Media, track int, start float64) string {
	if m.Kind == element.Audio {
		return s.AddAudio(m, track, start)
	}
	if m.Kind != element.Video && m.Kind != element.Image {
		m.Kind = element.Video
	}

	id := s.opts.NewID()
	e := element.NewMedia(id, m, track, start)
	s.commit(OpAdd, id, append(element.Clone(s.elements), e))
	return id
}

// AddAudio places a separately uploaded audio track and returns its id.
func (s *Store) AddAudio(m element.Media, track int, start float64) string {
	m.Kind = element.Audio
	id := s.opts.NewID()
	e := element.NewMedia(id, m, track, start)
	s.commit(OpAdd, id, append(element.Clone(s.elements), e))
	s.report(notice.Success, "Added audio: %s", e.Name)
	return id
}

// AddText places a text element and returns its id.
func (s *Store) AddText(props element.TextProps, track int, start float64) string {
	id := s.opts.NewID()
	e := element.NewText(id, props, track, start)
	s.commit(OpAdd, id, append(element.Clone(s.elements), e))
	return id
}

// Remove deletes an element, clearing the selection if it pointed at it.
func (s *Store) Remove(id string) bool {
	next, ok := element.Without(s.elements, id)
	if !ok {
		unknown(OpRemove, id)
		return false
	}

	if s.selected.OrEmpty() == id {
		s.selected = mo.None[string]()
	}
	s.commit(OpRemove, id, next)
	return true
}

func (s *Store) SetPosition(id string, x, y float64) bool {
	return s.update(OpUpdate, id, element.Moved(x, y))
}

func (s *Store) SetDimensions(id string, width, height float64) bool {
	return s.update(OpUpdate, id, element.Resized(width, height))
}

func (s *Store) SetRotation(id string, degrees float64) bool {
	return s.update(OpUpdate, id, element.Rotated(degrees))
}

// SetTimeRange trims an element. Spans under the minimum are widened.
func (s *Store) SetTimeRange(id string, start, end float64) bool {
	if !s.update(OpTrim, id, element.Trimmed(start, end)) {
		return false
	}
	s.report(notice.Success, "Element trimmed successfully")
	return true
}

// SetSpeed changes the playback rate of a video or audio element.
func (s *Store) SetSpeed(id string, speed float64) bool {
	e, ok := s.Element(id)
	if !ok {
		unknown(OpRetime, id)
		return false
	}
	if !e.Kind.Retimable() {
		s.report(notice.Warning, "Speed can only be changed on video and audio")
		return false
	}

	s.update(OpRetime, id, element.Retimed(speed))
	e, _ = s.Element(id)
	s.report(notice.Success, "Speed set to %gx", e.Speed)
	return true
}

// SetVolume sets the content volume of an audio-bearing element.
func (s *Store) SetVolume(id string, volume float64) bool {
	e, ok := s.Element(id)
	if !ok {
		unknown(OpUpdate, id)
		return false
	}
	if !e.Kind.AudioBearing() {
		return false
	}
	return s.update(OpUpdate, id, element.WithVolume(volume, s.opts.UnmuteOnRaise))
}

// SetMuted sets the per-element mute flag.
func (s *Store) SetMuted(id string, muted bool) bool {
	e, ok := s.Element(id)
	if !ok {
		unknown(OpUpdate, id)
		return false
	}
	if !e.Kind.AudioBearing() {
		return false
	}

	s.update(OpUpdate, id, element.WithMuted(muted))
	if muted {
		s.report(notice.Info, "%s muted", e.Name)
	} else {
		s.report(notice.Info, "%s unmuted", e.Name)
	}
	return true
}

// SetCrop applies or, with None, clears the crop of a video or image.
func (s *Store) SetCrop(id string, crop mo.Option[element.Crop]) bool {
	e, ok := s.Element(id)
	if !ok {
		unknown(OpUpdate, id)
		return false
	}
	if !e.Kind.Croppable() {
		s.report(notice.Warning, "Cropping is only available for video and image elements")
		return false
	}

	s.update(OpUpdate, id, element.WithCrop(crop))
	if crop.IsPresent() {
		s.report(notice.Success, "Crop applied successfully")
	} else {
		s.report(notice.Success, "Crop reset")
	}
	return true
}

// SetText edits the string and style of a text element.
func (s *Store) SetText(id string, props element.TextProps) bool {
	e, ok := s.Element(id)
	if !ok {
		unknown(OpUpdate, id)
		return false
	}
	if e.Kind != element.Text {
		return false
	}
	return s.update(OpUpdate, id, element.WithText(props))
}

// Merge replaces two video elements with one composite element in a single
// transition and selects it.
func (s *Store) Merge(first, second string) (string, error) {
	a, okA := s.Element(first)
	b, okB := s.Element(second)
	if !okA || !okB {
		missing := first
		if okA {
			missing = second
		}
		err := &element.InvalidMergeError{First: first, Second: second, Reason: fmt.Sprintf("element %s not found", missing)}
		s.report(notice.Error, "Merge failed: %s", err.Reason)
		return "", err
	}

	id := s.opts.NewID()
	merged, err := element.Merge(id, a, b)
	if err != nil {
		s.report(notice.Error, "Can only merge video elements")
		return "", err
	}

	rest, _ := element.Without(s.elements, first, second)
	s.selected = mo.Some(id)
	s.commit(OpMerge, id, append(rest, merged))
	s.report(notice.Success, "Clips merged")
	return id, nil
}

// Select marks an element as selected. An empty id clears the selection.
func (s *Store) Select(id string) bool {
	if id == "" {
		s.selected = mo.None[string]()
		s.emit(Change{Op: OpSelect})
		return true
	}
	if _, ok := s.Element(id); !ok {
		unknown(OpSelect, id)
		return false
	}
	s.selected = mo.Some(id)
	s.emit(Change{Op: OpSelect, ID: id})
	return true
}

// Undo restores the previous snapshot.
func (s *Store) Undo() bool {
	prev, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.restore(OpUndo, prev)
	return true
}

// Redo restores the next snapshot.
func (s *Store) Redo() bool {
	next, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.restore(OpRedo, next)
	return true
}
