// Package icon provides a flexible multi-variant rendering engine for UI symbols and feedback indicators.
//
// Icons can be displayed as emoji, nerd-font glyphs, plain ASCII, kaomoji,
// or Unicode squares depending on user preference.
package icon

import (
	"github.com/reelcraft-cli/reelcraft/key"
	"github.com/spf13/viper"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants returns a slice of all registered icon style identifiers.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

// Icon identifies a symbol in the registry.
type Icon int

const (
	Success Icon = iota
	Fail
	Warn
	Info
	Progress
	Play
	Pause
	Video
	Image
	Text
	Audio
	Muted
)

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

// Get retrieves the visual representation for the receiver based on the global icons variant configuration.
func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return ""
	}
}

var icons = map[Icon]*iconDef{
	Success:  {emoji: "🎉", nerd: "", plain: "✓", kaomoji: "(ᵔ◡ᵔ)", squares: "🟩"},
	Fail:     {emoji: "💀", nerd: "", plain: "✖", kaomoji: "(╥﹏╥)", squares: "🟥"},
	Warn:     {emoji: "⚠️", nerd: "", plain: "!", kaomoji: "(・_・;)", squares: "🟨"},
	Info:     {emoji: "ℹ️", nerd: "", plain: "i", kaomoji: "(・ω・)", squares: "🟦"},
	Progress: {emoji: "⌛", nerd: "", plain: "…", kaomoji: "(￣ー￣)", squares: "🟦"},
	Play:     {emoji: "▶️", nerd: "", plain: ">", kaomoji: "(>‿<)", squares: "🟩"},
	Pause:    {emoji: "⏸️", nerd: "", plain: "=", kaomoji: "(-_-)", squares: "🟧"},
	Video:    {emoji: "🎬", nerd: "", plain: "V", kaomoji: "[V]", squares: "🟪"},
	Image:    {emoji: "🖼️", nerd: "", plain: "I", kaomoji: "[I]", squares: "🟫"},
	Text:     {emoji: "🔤", nerd: "", plain: "T", kaomoji: "[T]", squares: "⬜"},
	Audio:    {emoji: "🎵", nerd: "", plain: "A", kaomoji: "[A]", squares: "🟦"},
	Muted:    {emoji: "🔇", nerd: "", plain: "x", kaomoji: "(×_×)", squares: "⬛"},
}

// Get returns the rendered string for a specified Icon identifier from the global registry.
func Get(i Icon) string {
	return icons[i].Get()
}
