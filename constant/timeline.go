package constant

import "time"

// Timeline invariants.
const (
	// DefaultDuration is the timeline length reported when no elements exist.
	DefaultDuration = 5.0

	// MinClipSpan is the shortest time range an element may occupy, in seconds.
	MinClipSpan = 0.5

	// HistoryLimit caps the number of undo snapshots kept.
	HistoryLimit = 50

	// ReplayEpsilon is how close to the end the cursor must be for play to restart from zero.
	ReplayEpsilon = 0.1
)

// Playback synchronization tolerances.
const (
	AudioDriftTolerance = 0.1
	VideoDriftTolerance = 0.5
	ResyncDebounce      = 50 * time.Millisecond
	FrameRate           = 60
)

// Element defaults.
const (
	DefaultMediaDuration = 5.0
	DefaultAudioDuration = 10.0
	DefaultTextDuration  = 5.0

	MinSpeed = 0.25
	MaxSpeed = 4.0

	MediaTrack = 0
	AudioTrack = 2
)

// Canvas defaults.
const (
	DefaultCanvasWidth  = 480
	DefaultCanvasHeight = 270
	DefaultAspectRatio  = "16:9"
	DefaultProjectName  = "Untitled Project"
)
