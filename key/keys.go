// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// DefinedFieldsCount represents the total cardinality of the application configuration schema.
const DefinedFieldsCount = 19

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored = "cli.colored"
)

// Media Backend - these keys select and configure the host media playback engine.
const (
	PlayerBackend = "player.backend"
	PlayerMPVPath = "player.mpv_path"
)

// Playback Synchronization - these keys tune how media handles follow the timeline clock.
const (
	PlaybackMasterVolume     = "playback.master_volume"
	PlaybackAudioPriority    = "playback.audio_priority"
	PlaybackFrameRate        = "playback.frame_rate"
	PlaybackAudioToleranceMs = "playback.audio_tolerance_ms"
	PlaybackVideoToleranceMs = "playback.video_tolerance_ms"
	PlaybackResyncDebounceMs = "playback.resync_debounce_ms"
)

// Timeline Model - these keys shape the element store and its history.
const (
	TimelineDefaultDuration = "timeline.default_duration"
	TimelineHistoryLimit    = "timeline.history_limit"
)

// Editor Policy - these keys toggle behavior that is a matter of taste rather than correctness.
const (
	EditorUnmuteOnVolumeRaise = "editor.unmute_on_volume_raise"
)

// Canvas and Library defaults.
const (
	CanvasAspectRatio           = "canvas.aspect_ratio"
	LibraryDefaultImageDuration = "library.default_image_duration"
	LibraryDefaultAudioDuration = "library.default_audio_duration"
)
