package tui

import (
	"cmp"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wrap"
	"github.com/reelcraft-cli/reelcraft/color"
	"github.com/reelcraft-cli/reelcraft/element"
	"github.com/reelcraft-cli/reelcraft/icon"
	"github.com/reelcraft-cli/reelcraft/playback"
	"github.com/reelcraft-cli/reelcraft/style"
	"github.com/reelcraft-cli/reelcraft/util"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

// laneCount is the number of tracks drawn.
const laneCount = 4

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case timelineState:
		output = b.viewTimeline()
	case libraryState:
		output = paddingStyle.Render(b.libraryC.View())
	case confirmQuitState:
		output = b.viewConfirmQuit()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return output
}

func (b *statefulBubble) viewTimeline() string {
	v := b.view
	width := util.Max(b.width, 20)

	header := style.Title(b.project.Name) + " " + style.Faint(fmt.Sprintf("%d×%d %s", b.project.Canvas.Width, b.project.Canvas.Height, b.project.Canvas.AspectRatio))
	if b.dirty {
		header += " " + style.Fg(color.Yellow)("●")
	}

	lines := []string{header, "", b.viewTransport(), ""}
	lines = append(lines, renderRuler(width, v.Time, v.Duration))
	for track := 0; track < laneCount; track++ {
		lines = append(lines, renderLane(v.Elements, track, width, v.Duration, v.Selected.OrEmpty()))
	}
	lines = append(lines, "", b.clipsC.View())

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewTransport() string {
	v := b.view

	state := icon.Get(icon.Pause)
	if v.Playing {
		state = style.Fg(color.Green)(icon.Get(icon.Play))
	}

	volume := fmt.Sprintf("vol %d%%", int(math.Round(v.MasterVolume*100)))
	if v.MasterMuted {
		volume = style.Fg(color.Red)(icon.Get(icon.Muted) + " muted")
	}

	parts := []string{
		state,
		fmt.Sprintf("%s / %s", util.FormatTimecodePrecise(v.Time), util.FormatTimecodePrecise(v.Duration)),
		volume,
		style.Faint("priority: " + v.Priority.Label()),
	}
	if audible := lo.CountBy(v.Handles, func(h playback.HandleInfo) bool { return h.Audible() }); len(v.Handles) > 0 {
		parts = append(parts, style.Faint(fmt.Sprintf("%s, %d audible", util.Quantify(len(v.Handles), "handle", "handles"), audible)))
	}
	if toast := b.notifier.view(); toast != "" {
		parts = append(parts, toast)
	}
	return strings.Join(parts, "  ")
}

// column maps a time to a cell in a row of width cells.
func column(t, duration float64, width int) int {
	if duration <= 0 {
		return 0
	}
	return util.Clamp(int(t/duration*float64(width)), 0, width)
}

// renderRuler draws the playhead over the timeline.
func renderRuler(width int, t, duration float64) string {
	at := util.Min(column(t, duration, width), width-1)
	return strings.Repeat(" ", at) + style.Fg(color.Orange)("▼")
}

func laneColor(k element.Kind) lipgloss.Color {
	switch k {
	case element.Video:
		return color.VideoLane
	case element.Image:
		return color.ImageLane
	case element.Audio:
		return color.AudioLane
	default:
		return color.TextLane
	}
}

// renderLane draws the clips of one track. A clip starting under an earlier
// one is clipped to what remains visible.
func renderLane(elements []element.Element, track, width int, duration float64, selected string) string {
	clips := lo.Filter(elements, func(e element.Element, _ int) bool {
		return e.Track == track && e.Range.End > e.Range.Start
	})

	var sb strings.Builder
	cursor := 0
	for _, e := range sortedByStart(clips) {
		start := util.Max(column(e.Range.Start, duration, width), cursor)
		end := util.Max(column(e.Range.End, duration, width), start+1)
		end = util.Min(end, width)
		if start >= width || end <= start {
			continue
		}

		sb.WriteString(style.Faint(strings.Repeat("·", start-cursor)))
		cells := end - start
		label := truncate.StringWithTail(e.Name, uint(cells), "…")
		label += strings.Repeat(" ", util.Max(cells-lipgloss.Width(label), 0))
		sb.WriteString(style.Clip(laneColor(e.Kind), e.ID == selected).Render(label))
		cursor = end
	}
	sb.WriteString(style.Faint(strings.Repeat("·", util.Max(width-cursor, 0))))

	return sb.String()
}

func sortedByStart(elements []element.Element) []element.Element {
	out := slices.Clone(elements)
	slices.SortStableFunc(out, func(a, b element.Element) int {
		return cmp.Compare(a.Range.Start, b.Range.Start)
	})
	return out
}

func (b *statefulBubble) viewConfirmQuit() string {
	return b.renderLines(true, []string{
		style.Title("Unsaved changes"),
		"",
		fmt.Sprintf("%s has changes that are not saved. Quit anyway?", style.Fg(color.Purple)(b.project.Name)),
	})
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	errorBody := errorStyle.Render(fmt.Sprintf("%v", b.lastError))
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " An error occurred:",
			"",
			wrap.String(errorBody, util.Max(b.width, 20)),
		},
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := lipgloss.Height(strings.Join(lines, "\n"))
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
