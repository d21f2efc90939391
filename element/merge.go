package element

import "fmt"

// InvalidMergeError is returned when two elements cannot be merged.
type InvalidMergeError struct {
	First, Second string
	Reason        string
}

func (e *InvalidMergeError) Error() string {
	return fmt.Sprintf("cannot merge %s and %s: %s", e.First, e.Second, e.Reason)
}

// Merge combines two video elements into one composite clip.
// The result takes placement and sound from a, spans from the earlier start to
// the later end and references b's source as its secondary source.
func Merge(id string, a, b Element) (Element, error) {
	invalid := func(reason string) error {
		return &InvalidMergeError{First: a.ID, Second: b.ID, Reason: reason}
	}

	if a.ID == b.ID {
		return Element{}, invalid("an element cannot be merged with itself")
	}

	first, ok := a.Content.(VideoContent)
	if !ok {
		return Element{}, invalid(fmt.Sprintf("%s is a %s, not a video", a.ID, a.Kind))
	}

	second, ok := b.Content.(VideoContent)
	if !ok {
		return Element{}, invalid(fmt.Sprintf("%s is a %s, not a video", b.ID, b.Kind))
	}

	merged := a
	merged.ID = id
	merged.Name = fmt.Sprintf("Merged: %s + %s", a.Name, b.Name)
	merged.Range = TimeRange{
		Start: min(a.Range.Start, b.Range.Start),
		End:   max(a.Range.End, b.Range.End),
	}
	merged.Geometry.Rotation = 0
	merged.Speed = 1
	merged.Content = VideoContent{
		Source:          first.Source,
		Mix:             first.Mix,
		Crop:            first.Crop,
		SecondarySource: second.Source,
		Merged:          true,
	}

	return merged, nil
}
