package playback

import "fmt"

// Priority decides which audio is heard when a video and separate audio overlap.
type Priority string

const (
	// PriorityVideo keeps the video's own sound and silences audio tracks.
	PriorityVideo Priority = "video"
	// PriorityAudio keeps the uploaded audio tracks and silences the video.
	PriorityAudio Priority = "audio"
)

// ParsePriority validates a priority name.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(s); p {
	case PriorityVideo, PriorityAudio:
		return p, nil
	default:
		return "", fmt.Errorf("unknown audio priority %q, expected %q or %q", s, PriorityVideo, PriorityAudio)
	}
}

// Toggle returns the other priority.
func (p Priority) Toggle() Priority {
	if p == PriorityAudio {
		return PriorityVideo
	}
	return PriorityAudio
}

// Label is the user-facing name of the priority.
func (p Priority) Label() string {
	if p == PriorityAudio {
		return "uploaded audio"
	}
	return "video audio"
}

// mutes returns the forced mute of the video and of audio tracks given what is active.
// At most one of the two is true.
func (p Priority) mutes(videoActive, audioActive bool) (muteVideo, muteAudio bool) {
	if !videoActive || !audioActive {
		return false, false
	}
	if p == PriorityAudio {
		return true, false
	}
	return false, true
}
