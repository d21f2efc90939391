package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reelcraft-cli/reelcraft/color"
	"github.com/reelcraft-cli/reelcraft/icon"
	"github.com/reelcraft-cli/reelcraft/key"
	"github.com/reelcraft-cli/reelcraft/library"
	"github.com/reelcraft-cli/reelcraft/notice"
	"github.com/reelcraft-cli/reelcraft/project"
	"github.com/reelcraft-cli/reelcraft/style"
	"github.com/reelcraft-cli/reelcraft/timeline"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	for _, o := range ops {
		if o.name == "undo" || o.name == "redo" {
			continue
		}
		rootCmd.AddCommand(opCommand(o))
	}

	rootCmd.AddCommand(editCmd)
	editCmd.Flags().BoolP("dry-run", "n", false, "Apply the operations without saving")
}

// opCommand exposes a single operation as "<op> <project> args...".
func opCommand(o op) *cobra.Command {
	cmd := &cobra.Command{
		Use:               fmt.Sprintf("%s <project> %s", o.name, o.usage),
		Short:             o.short,
		Args:              cobra.MinimumNArgs(1 + o.minArgs),
		ValidArgsFunction: completionProjects,
		Run: func(cmd *cobra.Command, args []string) {
			handleErr(mutate(args[0], false, func(w *workspace) error {
				return w.apply(o.name, args[1:])
			}))
		},
	}
	if o.name == "add" {
		cmd.ValidArgsFunction = nil
	}
	return cmd
}

var editCmd = &cobra.Command{
	Use:   "edit <project> <operation>...",
	Short: "Apply several operations in one go, with undo and redo between them",
	Long: "Each operation is one quoted argument, e.g.\n\n" +
		`  reelcraft edit demo "trim intro 0 3" "speed intro 2" "undo"` + "\n\n" +
		"Available operations: " + strings.Join(lo.Map(ops, func(o op, _ int) string { return o.name }), ", "),
	Args:              cobra.MinimumNArgs(2),
	ValidArgsFunction: completionProjects,
	Run: func(cmd *cobra.Command, args []string) {
		dryRun := lo.Must(cmd.Flags().GetBool("dry-run"))
		handleErr(mutate(args[0], dryRun, func(w *workspace) error {
			for _, line := range args[1:] {
				fields := strings.Fields(line)
				if len(fields) == 0 {
					continue
				}
				if err := w.apply(fields[0], fields[1:]); err != nil {
					return fmt.Errorf("%s: %w", fields[0], err)
				}
			}
			return nil
		}))
	},
}

// mutate loads a project, runs fn against its timeline and saves the result.
func mutate(name string, dryRun bool, fn func(w *workspace) error) error {
	p, err := project.Load(name)
	if err != nil {
		return err
	}

	notices := &notice.Buffer{}
	store := timeline.New(timeline.Options{
		HistoryLimit:  viper.GetInt(key.TimelineHistoryLimit),
		EmptyDuration: viper.GetFloat64(key.TimelineDefaultDuration),
		UnmuteOnRaise: viper.GetBool(key.EditorUnmuteOnVolumeRaise),
		Reporter:      notice.Tee(notice.Logger, notices),
	})
	store.Replace(p.Elements)

	w := &workspace{
		store:   store,
		library: library.New(library.DefaultsFromConfig()),
		out: func(format string, args ...any) {
			fmt.Printf("%s %s\n", style.Faint(icon.Get(icon.Info)), fmt.Sprintf(format, args...))
		},
	}

	err = fn(w)
	printNotices(notices.Drain())
	if err != nil && !errors.Is(err, errNoEffect) {
		return err
	}

	if dryRun {
		return nil
	}

	p.Elements = store.Elements()
	_, err = project.Save(p)
	return err
}

func printNotices(notices []notice.Notice) {
	for _, n := range notices {
		switch n.Severity {
		case notice.Error:
			fmt.Printf("%s %s\n", style.Fg(color.Red)(icon.Get(icon.Fail)), n.Message)
		case notice.Warning:
			fmt.Printf("%s %s\n", style.Fg(color.Yellow)(icon.Get(icon.Warn)), n.Message)
		case notice.Success:
			fmt.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), n.Message)
		default:
			fmt.Printf("%s %s\n", style.Faint(icon.Get(icon.Info)), n.Message)
		}
	}
}
