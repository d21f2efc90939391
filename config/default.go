// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/muesli/reflow/wordwrap"
	"github.com/reelcraft-cli/reelcraft/color"
	"github.com/reelcraft-cli/reelcraft/constant"
	"github.com/reelcraft-cli/reelcraft/key"
	"github.com/reelcraft-cli/reelcraft/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Reelcraft + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case float64:
		return "float"
	case []string:
		return "[]string"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.PlayerBackend, "mpv", "Media backend used for preview playback.\nAvailable options are: mpv, null (silent, headless)")
	register(key.PlayerMPVPath, "mpv", "Path to the mpv executable")
	register(key.PlaybackMasterVolume, 100, "Master preview volume. From 0 to 100")
	register(key.PlaybackAudioPriority, "video", "Which audio wins when a video and an audio clip overlap.\nAvailable options are: video, audio")
	register(key.PlaybackFrameRate, constant.FrameRate, "Timeline clock ticks per second")
	register(key.PlaybackAudioToleranceMs, int(constant.AudioDriftTolerance*1000), "Audio drift tolerated before a handle is snapped back, in milliseconds")
	register(key.PlaybackVideoToleranceMs, int(constant.VideoDriftTolerance*1000), "Video drift tolerated before a handle is snapped back, in milliseconds")
	register(key.PlaybackResyncDebounceMs, int(constant.ResyncDebounce.Milliseconds()), "Delay between a seek and the forced resync of every handle, in milliseconds")
	register(key.TimelineDefaultDuration, int(constant.DefaultDuration), "Timeline length in seconds when it holds no elements")
	register(key.TimelineHistoryLimit, constant.HistoryLimit, "Maximum number of undo steps")
	register(key.EditorUnmuteOnVolumeRaise, false, "Unmute a clip automatically when its volume is raised above zero")
	register(key.CanvasAspectRatio, constant.DefaultAspectRatio, "Aspect ratio for new projects.\nAvailable options are: 1:1, 4:3, 16:9, 9:16")
	register(key.LibraryDefaultImageDuration, int(constant.DefaultMediaDuration), "Seconds an image or unprobed video occupies when added")
	register(key.LibraryDefaultAudioDuration, int(constant.DefaultAudioDuration), "Seconds an unprobed audio file occupies when added")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"wrap":     func(s string) string { return wordwrap.String(s, 60) },
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint (wrap .Description) }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
