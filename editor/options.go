package editor

import (
	"github.com/reelcraft-cli/reelcraft/config"
	"github.com/reelcraft-cli/reelcraft/key"
	"github.com/reelcraft-cli/reelcraft/notice"
	"github.com/reelcraft-cli/reelcraft/playback"
	"github.com/reelcraft-cli/reelcraft/timeline"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// OptionsFromConfig reads the playback and timeline settings.
func OptionsFromConfig(reporter notice.Reporter) (Options, error) {
	priority, err := playback.ParsePriority(viper.GetString(key.PlaybackAudioPriority))
	if err != nil {
		return Options{}, err
	}

	return Options{
		Store: timeline.Options{
			HistoryLimit:  viper.GetInt(key.TimelineHistoryLimit),
			EmptyDuration: viper.GetFloat64(key.TimelineDefaultDuration),
			UnmuteOnRaise: viper.GetBool(key.EditorUnmuteOnVolumeRaise),
		},
		Sync: playback.Options{
			AudioTolerance: config.Seconds(key.PlaybackAudioToleranceMs),
			VideoTolerance: config.Seconds(key.PlaybackVideoToleranceMs),
			Debounce:       config.Millis(key.PlaybackResyncDebounceMs),
			Async:          true,
		},
		Priority:     priority,
		MasterVolume: mo.Some(config.MasterVolume()),
		Reporter:     reporter,
	}, nil
}
