package project

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/reelcraft-cli/reelcraft/key"
)

// Canvas is the output frame of a project.
type Canvas struct {
	Width       int    `json:"canvasWidth" jsonschema:"description=Canvas width in pixels."`
	Height      int    `json:"canvasHeight" jsonschema:"description=Canvas height in pixels."`
	AspectRatio string `json:"aspectRatio" jsonschema:"description=Aspect ratio as W:H. Custom sizes use their own dimensions."`
}

// DefaultAspect is used for unknown ratios.
const DefaultAspect = "16:9"

var presets = map[string]Canvas{
	"1:1":  {Width: 360, Height: 360, AspectRatio: "1:1"},
	"4:3":  {Width: 480, Height: 360, AspectRatio: "4:3"},
	"16:9": {Width: 480, Height: 270, AspectRatio: "16:9"},
	"9:16": {Width: 270, Height: 480, AspectRatio: "9:16"},
}

// Presets lists the named aspect ratios in display order.
func Presets() []string {
	return []string{"16:9", "9:16", "1:1", "4:3"}
}

// Preset returns the canvas for a named ratio. Unknown ratios keep the
// ratio label but get the 16:9 frame.
func Preset(ratio string) Canvas {
	if c, ok := presets[ratio]; ok {
		return c
	}
	c := presets[DefaultAspect]
	c.AspectRatio = ratio
	return c
}

// Custom returns a canvas of an arbitrary size labelled "W:H".
func Custom(width, height int) (Canvas, error) {
	if width <= 0 || height <= 0 {
		return Canvas{}, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	return Canvas{Width: width, Height: height, AspectRatio: fmt.Sprintf("%d:%d", width, height)}, nil
}

// ParseCanvas accepts a preset ratio like "9:16" or a size like "1920x1080".
func ParseCanvas(s string) (Canvas, error) {
	s = strings.TrimSpace(s)
	if c, ok := presets[s]; ok {
		return c, nil
	}

	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return Canvas{}, fmt.Errorf("unknown aspect ratio %q, expected one of %s or WxH", s, strings.Join(Presets(), ", "))
	}

	width, err := strconv.Atoi(w)
	if err != nil {
		return Canvas{}, fmt.Errorf("invalid width %q", w)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return Canvas{}, fmt.Errorf("invalid height %q", h)
	}
	return Custom(width, height)
}

// DefaultCanvas is the canvas named by canvas.aspect_ratio.
func DefaultCanvas() Canvas {
	return Preset(viper.GetString(key.CanvasAspectRatio))
}
