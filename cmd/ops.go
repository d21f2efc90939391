package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/reelcraft-cli/reelcraft/element"
	"github.com/reelcraft-cli/reelcraft/library"
	"github.com/reelcraft-cli/reelcraft/timeline"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// workspace is what a timeline operation acts on.
type workspace struct {
	store   *timeline.Store
	library *library.Library
	out     func(format string, args ...any)
}

// op is a timeline operation addressable from the command line.
type op struct {
	name    string
	usage   string
	short   string
	minArgs int
	maxArgs int // -1 for unbounded
	run     func(w *workspace, args []string) error
}

var errNoEffect = errors.New("nothing to do")

// textTrack is the lane text is placed on, between media and audio.
const textTrack = 1

var ops = []op{
	{"add", "<file>...", "Add media files after the last clip on their track", 1, -1, opAdd},
	{"text", "<text>...", "Add a text element at the end of the timeline", 1, -1, opText},
	{"rm", "<element>", "Remove an element", 1, 1, opRemove},
	{"trim", "<element> <start> <end>", "Set the start and end of an element", 3, 3, opTrim},
	{"speed", "<element> <rate>", "Set the playback rate of a video or audio element", 2, 2, opSpeed},
	{"volume", "<element> <0-100>", "Set the volume of a video or audio element", 2, 2, opVolume},
	{"mute", "<element> [on|off]", "Mute or unmute a video or audio element", 1, 2, opMute},
	{"crop", "<element> <x> <y> <w> <h> | reset | aspect <W:H>", "Crop a video or image, in percent of the frame", 2, 5, opCrop},
	{"move", "<element> <x> <y> [rotation]", "Position an element on the canvas", 3, 4, opMove},
	{"resize", "<element> <width> <height>", "Resize an element on the canvas", 3, 3, opResize},
	{"merge", "<element> <element>", "Merge two video elements into one", 2, 2, opMerge},
	{"undo", "", "Undo the previous operation of this edit", 0, 0, opUndo},
	{"redo", "", "Redo an undone operation of this edit", 0, 0, opRedo},
}

func findOp(name string) (op, error) {
	o, ok := lo.Find(ops, func(o op) bool { return o.name == name })
	if !ok {
		names := lo.Map(ops, func(o op, _ int) string { return o.name })
		return op{}, fmt.Errorf("unknown operation %q, did you mean %q?", name, closest(name, names))
	}
	return o, nil
}

// apply runs one operation after checking its arity.
func (w *workspace) apply(name string, args []string) error {
	o, err := findOp(name)
	if err != nil {
		return err
	}
	if len(args) < o.minArgs || (o.maxArgs >= 0 && len(args) > o.maxArgs) {
		return fmt.Errorf("usage: %s %s", o.name, o.usage)
	}
	return o.run(w, args)
}

// shortID is the prefix of an id shown in listings.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// resolve finds an element by id, unique id prefix or name.
func resolve(elements []element.Element, ref string) (element.Element, error) {
	if e, ok := lo.Find(elements, func(e element.Element) bool { return e.ID == ref }); ok {
		return e, nil
	}

	byPrefix := lo.Filter(elements, func(e element.Element, _ int) bool { return strings.HasPrefix(e.ID, ref) })
	if len(byPrefix) == 1 {
		return byPrefix[0], nil
	}

	byName := lo.Filter(elements, func(e element.Element, _ int) bool { return e.Name == ref })
	switch {
	case len(byName) == 1:
		return byName[0], nil
	case len(byName) > 1 || len(byPrefix) > 1:
		return element.Element{}, fmt.Errorf("%q matches several elements, use its id", ref)
	}

	if len(elements) == 0 {
		return element.Element{}, fmt.Errorf("no element %q, the timeline is empty", ref)
	}
	names := lo.Map(elements, func(e element.Element, _ int) string { return e.Name })
	return element.Element{}, fmt.Errorf("no element %q, did you mean %q?", ref, closest(ref, names))
}

// parseTime accepts seconds ("12.5") or a timecode ("01:02.50").
func parseTime(s string) (float64, error) {
	minutes, seconds, found := strings.Cut(s, ":")
	if !found {
		return parseNumber(s)
	}

	m, err := strconv.Atoi(minutes)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	sec, err := strconv.ParseFloat(seconds, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return float64(m)*60 + sec, nil
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "x"), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

func parseNumbers(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := parseNumber(a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// parseRatio reads "W:H" as width over height.
func parseRatio(s string) (float64, error) {
	w, h, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("invalid ratio %q, expected W:H", s)
	}
	nums, err := parseNumbers([]string{w, h})
	if err != nil {
		return 0, err
	}
	if nums[0] <= 0 || nums[1] <= 0 {
		return 0, fmt.Errorf("invalid ratio %q", s)
	}
	return nums[0] / nums[1], nil
}

func opAdd(w *workspace, args []string) error {
	for _, path := range args {
		item, err := w.library.Ingest(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		track, start := library.Slot(w.store.Elements(), item.Kind)
		id := w.store.AddMedia(w.library.Media(item), track, start)
		w.out("added %s %s as %s", item.Kind, item.Name, shortID(id))
	}
	return nil
}

func opText(w *workspace, args []string) error {
	ends := lo.Map(w.store.Elements(), func(e element.Element, _ int) float64 { return e.Range.End })
	id := w.store.AddText(element.TextProps{Text: strings.Join(args, " ")}, textTrack, lo.Max(ends))
	w.out("added text %s", shortID(id))
	return nil
}

func opRemove(w *workspace, args []string) error {
	e, err := resolve(w.store.Elements(), args[0])
	if err != nil {
		return err
	}
	w.store.Remove(e.ID)
	w.out("removed %s", e.Name)
	return nil
}

func opTrim(w *workspace, args []string) error {
	e, err := resolve(w.store.Elements(), args[0])
	if err != nil {
		return err
	}
	start, err := parseTime(args[1])
	if err != nil {
		return err
	}
	end, err := parseTime(args[2])
	if err != nil {
		return err
	}
	w.store.SetTimeRange(e.ID, start, end)
	return nil
}

func opSpeed(w *workspace, args []string) error {
	e, err := resolve(w.store.Elements(), args[0])
	if err != nil {
		return err
	}
	rate, err := parseNumber(args[1])
	if err != nil {
		return err
	}
	if !w.store.SetSpeed(e.ID, rate) {
		return errNoEffect
	}
	return nil
}

func opVolume(w *workspace, args []string) error {
	e, err := resolve(w.store.Elements(), args[0])
	if err != nil {
		return err
	}
	percent, err := parseNumber(strings.TrimSuffix(args[1], "%"))
	if err != nil {
		return err
	}
	if !w.store.SetVolume(e.ID, percent/100) {
		return fmt.Errorf("%s has no audio", e.Name)
	}
	return nil
}

func opMute(w *workspace, args []string) error {
	e, err := resolve(w.store.Elements(), args[0])
	if err != nil {
		return err
	}
	muted := true
	if len(args) == 2 {
		switch args[1] {
		case "on", "true", "yes":
		case "off", "false", "no":
			muted = false
		default:
			return fmt.Errorf("expected on or off, got %q", args[1])
		}
	}
	if !w.store.SetMuted(e.ID, muted) {
		return fmt.Errorf("%s has no audio", e.Name)
	}
	return nil
}

func opCrop(w *workspace, args []string) error {
	e, err := resolve(w.store.Elements(), args[0])
	if err != nil {
		return err
	}

	var crop mo.Option[element.Crop]
	switch {
	case len(args) == 2 && args[1] == "reset":
		crop = mo.None[element.Crop]()
	case len(args) == 3 && args[1] == "aspect":
		ratio, err := parseRatio(args[2])
		if err != nil {
			return err
		}
		crop = mo.Some(e.Crop().OrElse(element.FullFrame).WithAspect(ratio))
	case len(args) == 5:
		nums, err := parseNumbers(args[1:])
		if err != nil {
			return err
		}
		crop = mo.Some(element.Crop{X: nums[0], Y: nums[1], Width: nums[2], Height: nums[3]})
	default:
		return fmt.Errorf("usage: crop <element> <x> <y> <w> <h> | reset | aspect <W:H>")
	}

	if !w.store.SetCrop(e.ID, crop) {
		return errNoEffect
	}
	return nil
}

func opMove(w *workspace, args []string) error {
	e, err := resolve(w.store.Elements(), args[0])
	if err != nil {
		return err
	}
	nums, err := parseNumbers(args[1:])
	if err != nil {
		return err
	}
	w.store.SetPosition(e.ID, nums[0], nums[1])
	if len(nums) == 3 {
		w.store.SetRotation(e.ID, nums[2])
	}
	return nil
}

func opResize(w *workspace, args []string) error {
	e, err := resolve(w.store.Elements(), args[0])
	if err != nil {
		return err
	}
	nums, err := parseNumbers(args[1:])
	if err != nil {
		return err
	}
	w.store.SetDimensions(e.ID, nums[0], nums[1])
	return nil
}

func opMerge(w *workspace, args []string) error {
	elements := w.store.Elements()
	a, err := resolve(elements, args[0])
	if err != nil {
		return err
	}
	b, err := resolve(elements, args[1])
	if err != nil {
		return err
	}
	id, err := w.store.Merge(a.ID, b.ID)
	if err != nil {
		return err
	}
	w.out("merged into %s", shortID(id))
	return nil
}

func opUndo(w *workspace, _ []string) error {
	if !w.store.Undo() {
		return errors.New("nothing to undo")
	}
	return nil
}

func opRedo(w *workspace, _ []string) error {
	if !w.store.Redo() {
		return errors.New("nothing to redo")
	}
	return nil
}
