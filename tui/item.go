package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/reelcraft-cli/reelcraft/element"
	"github.com/reelcraft-cli/reelcraft/icon"
	"github.com/reelcraft-cli/reelcraft/library"
	"github.com/reelcraft-cli/reelcraft/style"
	"github.com/reelcraft-cli/reelcraft/util"
)

// listItem implements the list.Item interface for timeline clips and library media.
type listItem struct {
	internal any
}

func kindIcon(k element.Kind) string {
	switch k {
	case element.Video:
		return icon.Get(icon.Video)
	case element.Image:
		return icon.Get(icon.Image)
	case element.Audio:
		return icon.Get(icon.Audio)
	default:
		return icon.Get(icon.Text)
	}
}

func (t *listItem) Title() string {
	switch e := t.internal.(type) {
	case element.Element:
		title := kindIcon(e.Kind) + " " + e.Name
		if mix, ok := e.Mix(); ok && mix.Muted {
			title += " " + icon.Get(icon.Muted)
		}
		return title
	case library.Item:
		return kindIcon(e.Kind) + " " + e.Name
	default:
		return t.FilterValue()
	}
}

func (t *listItem) Description() string {
	switch e := t.internal.(type) {
	case element.Element:
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%s → %s", util.FormatTimecodePrecise(e.Range.Start), util.FormatTimecodePrecise(e.Range.End)))
		sb.WriteString(fmt.Sprintf("  track %d", e.Track))
		if e.Kind.Retimable() && e.Speed != 1 {
			sb.WriteString(fmt.Sprintf("  %gx", e.Speed))
		}
		if mix, ok := e.Mix(); ok {
			sb.WriteString(fmt.Sprintf("  vol %d%%", int(mix.Volume*100+0.5)))
		}
		if _, ok := e.Crop().Get(); ok {
			sb.WriteString("  cropped")
		}
		return style.Faint(sb.String())
	case library.Item:
		if d, ok := e.Duration.Get(); ok {
			return style.Faint(fmt.Sprintf("%s  %s", e.Kind, util.FormatTimecode(d)))
		}
		return style.Faint(e.Kind.String())
	default:
		return ""
	}
}

func (t *listItem) FilterValue() string {
	switch e := t.internal.(type) {
	case element.Element:
		return e.Name
	case library.Item:
		return e.Name
	default:
		return ""
	}
}

func elementItems(elements []element.Element) []list.Item {
	items := make([]list.Item, len(elements))
	for i, e := range elements {
		items[i] = &listItem{internal: e}
	}
	return items
}

func libraryItems(items []library.Item) []list.Item {
	out := make([]list.Item, len(items))
	for i, item := range items {
		out[i] = &listItem{internal: item}
	}
	return out
}

// libraryFilter ranks list entries with the same matcher as library search.
func libraryFilter(term string, targets []string) []list.Rank {
	indices := library.Rank(term, targets)
	ranks := make([]list.Rank, len(indices))
	for i, index := range indices {
		ranks[i] = list.Rank{Index: index}
	}
	return ranks
}
