// Package element defines the timeline element model: what a clip is, where it
// sits in time and on the canvas, and the pure transformations the store applies
// to it.
package element

import "fmt"

// Kind is the closed set of element variants.
type Kind string

const (
	Video Kind = "video"
	Image Kind = "image"
	Text  Kind = "text"
	Audio Kind = "audio"
)

// Kinds lists every valid kind in canvas stacking order.
func Kinds() []Kind {
	return []Kind{Video, Image, Text, Audio}
}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case Video, Image, Text, Audio:
		return k, nil
	default:
		return "", fmt.Errorf("unknown element kind %q", s)
	}
}

func (k Kind) String() string {
	return string(k)
}

// Croppable reports whether a crop rectangle is meaningful for the kind.
func (k Kind) Croppable() bool {
	return k == Video || k == Image
}

// Retimable reports whether the playback rate of the kind can be changed.
func (k Kind) Retimable() bool {
	return k == Video || k == Audio
}

// AudioBearing reports whether the kind carries sound with a volume and mute state.
func (k Kind) AudioBearing() bool {
	return k == Video || k == Audio
}

// Visual reports whether the kind is drawn on the canvas.
func (k Kind) Visual() bool {
	return k != Audio
}
