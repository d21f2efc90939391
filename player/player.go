// Package player drives the host media primitives that play the sources of
// active timeline elements. Each Handle is one independently clocked playback
// object bound to a single element.
package player

import (
	"errors"
	"fmt"

	"github.com/reelcraft-cli/reelcraft/key"
	"github.com/spf13/viper"
)

// ErrUnsupportedSource is returned by Factory.Open for sources the backend cannot play.
var ErrUnsupportedSource = errors.New("unsupported media source")

// Request describes the media a handle should load.
type Request struct {
	Source    string
	Title     string
	AudioOnly bool
	// Duration is the media length when already known, 0 otherwise.
	Duration float64
}

// Handle is a live playback object. Positions are media-local seconds and
// volume is in [0,1].
type Handle interface {
	Play() error
	Pause() error
	Position() (float64, error)
	SetPosition(seconds float64) error
	SetVolume(volume float64) error
	SetMuted(muted bool) error
	SetRate(rate float64) error
	// Ended reports whether the media reached its natural end.
	Ended() bool
	Close() error
}

// Factory opens handles.
type Factory interface {
	Open(req Request) (Handle, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(Request) (Handle, error)

func (f FactoryFunc) Open(req Request) (Handle, error) {
	return f(req)
}

const (
	BackendMPV  = "mpv"
	BackendNull = "null"
)

// Backends lists the accepted values of player.backend.
func Backends() []string {
	return []string{BackendMPV, BackendNull}
}

// New returns the factory selected by player.backend.
func New() (Factory, error) {
	switch backend := viper.GetString(key.PlayerBackend); backend {
	case BackendMPV, "":
		return NewMPVFactory(viper.GetString(key.PlayerMPVPath)), nil
	case BackendNull:
		return NewNullFactory(nil), nil
	default:
		return nil, fmt.Errorf("unknown player backend %q, expected one of %v", backend, Backends())
	}
}
