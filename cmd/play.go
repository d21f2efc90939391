package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/reelcraft-cli/reelcraft/editor"
	"github.com/reelcraft-cli/reelcraft/element"
	"github.com/reelcraft-cli/reelcraft/icon"
	"github.com/reelcraft-cli/reelcraft/notice"
	"github.com/reelcraft-cli/reelcraft/playback"
	"github.com/reelcraft-cli/reelcraft/project"
	"github.com/reelcraft-cli/reelcraft/style"
	"github.com/reelcraft-cli/reelcraft/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().StringP("from", "f", "0", "Start time in seconds or MM:SS")
	playCmd.Flags().StringP("priority", "p", "", "Audio priority for overlaps (video, audio)")
}

var playCmd = &cobra.Command{
	Use:               "play <project>",
	Short:             "Play a project without the editor, printing the playhead",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionProjects,
	Run: func(cmd *cobra.Command, args []string) {
		p, err := project.Load(args[0])
		handleErr(err)

		from, err := parseTime(lo.Must(cmd.Flags().GetString("from")))
		handleErr(err)

		CheckDependencies()

		printer := notice.ReporterFunc(func(n notice.Notice) {
			printNotices([]notice.Notice{n})
		})
		session, stop, err := startSession(p, notice.Tee(notice.Logger, printer))
		handleErr(err)
		defer stop()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		priority := mo.None[playback.Priority]()
		if name := lo.Must(cmd.Flags().GetString("priority")); name != "" {
			parsed, err := playback.ParsePriority(name)
			handleErr(err)
			priority = mo.Some(parsed)
		}

		views := session.Subscribe()
		handleErr(session.Do(func(e *editor.Editor) {
			if p, ok := priority.Get(); ok {
				e.SetAudioPriority(p)
			}
			e.Seek(from)
			e.Play()
		}))

		handleErr(follow(ctx, views))
	},
}

// follow prints the playhead until playback stops or ctx is cancelled.
func follow(ctx context.Context, views <-chan editor.View) error {
	erase := func() {}
	defer func() { erase() }()

	started := false
	for {
		select {
		case <-ctx.Done():
			return nil
		case v, ok := <-views:
			if !ok {
				return nil
			}
			if v.Playing {
				started = true
			} else if started {
				erase()
				fmt.Printf("%s stopped at %s\n", icon.Get(icon.Pause), util.FormatTimecodePrecise(v.Time))
				erase = func() {}
				return nil
			}

			erase()
			active := lo.Map(v.Active(), func(e element.Element, _ int) string { return e.Name })
			erase = util.PrintErasable(fmt.Sprintf(
				"%s %s / %s %s",
				icon.Get(icon.Play),
				util.FormatTimecodePrecise(v.Time),
				util.FormatTimecodePrecise(v.Duration),
				style.Faint(fmt.Sprint(active)),
			))
		}
	}
}
