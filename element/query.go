package element

import (
	"sort"

	"github.com/reelcraft-cli/reelcraft/constant"
	"github.com/samber/lo"
)

// Duration is the end of the last element, or constant.DefaultDuration for an
// empty timeline.
func Duration(elements []Element) float64 {
	return DurationOr(elements, constant.DefaultDuration)
}

// DurationOr is Duration with an explicit empty-timeline floor.
func DurationOr(elements []Element, empty float64) float64 {
	if len(elements) == 0 {
		return empty
	}
	return lo.MaxBy(elements, func(a, b Element) bool {
		return a.Range.End > b.Range.End
	}).Range.End
}

// ActiveAt returns the elements whose range contains t, ordered by track then
// insertion order.
func ActiveAt(elements []Element, t float64) []Element {
	active := lo.Filter(elements, func(e Element, _ int) bool {
		return e.Range.Contains(t)
	})
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].Track < active[j].Track
	})
	return active
}

// ActiveOf returns the active elements of one kind.
func ActiveOf(elements []Element, t float64, kind Kind) []Element {
	return lo.Filter(ActiveAt(elements, t), func(e Element, _ int) bool {
		return e.Kind == kind
	})
}

// ActiveVideo returns the video visible at t. When several overlap, the one on
// the highest track wins; ties go to the earliest inserted.
func ActiveVideo(elements []Element, t float64) (Element, bool) {
	videos := ActiveOf(elements, t, Video)
	if len(videos) == 0 {
		return Element{}, false
	}
	best := videos[0]
	for _, v := range videos[1:] {
		if v.Track > best.Track {
			best = v
		}
	}
	return best, true
}

// EndOf returns the latest end among elements of the given kind, 0 if none.
func EndOf(elements []Element, kind Kind) float64 {
	end := 0.0
	for _, e := range elements {
		if e.Kind == kind && e.Range.End > end {
			end = e.Range.End
		}
	}
	return end
}

// Clone returns an independent copy of the slice.
func Clone(elements []Element) []Element {
	if elements == nil {
		return nil
	}
	return append(make([]Element, 0, len(elements)), elements...)
}
