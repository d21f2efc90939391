// Package cmd implements the command-line interface for reelcraft.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/reelcraft-cli/reelcraft/color"
	"github.com/reelcraft-cli/reelcraft/constant"
	"github.com/reelcraft-cli/reelcraft/editor"
	"github.com/reelcraft-cli/reelcraft/icon"
	"github.com/reelcraft-cli/reelcraft/key"
	"github.com/reelcraft-cli/reelcraft/library"
	"github.com/reelcraft-cli/reelcraft/log"
	"github.com/reelcraft-cli/reelcraft/notice"
	"github.com/reelcraft-cli/reelcraft/player"
	"github.com/reelcraft-cli/reelcraft/project"
	"github.com/reelcraft-cli/reelcraft/style"
	"github.com/reelcraft-cli/reelcraft/tui"
	"github.com/reelcraft-cli/reelcraft/util"
	"github.com/reelcraft-cli/reelcraft/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().StringP("backend", "B", "", "Media backend for preview playback (mpv, null)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("backend", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return player.Backends(), cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.PlayerBackend, rootCmd.PersistentFlags().Lookup("backend")))

	rootCmd.Flags().StringSliceP("media", "m", []string{}, "Media files to load into the library")
	rootCmd.Flags().StringP("aspect", "a", "", "Canvas for a project that does not exist yet (e.g. 9:16 or 1920x1080)")

	// Clear transient files left by previous runs.
	go func() {
		_ = util.Delete(where.Temp())
	}()
}

// rootCmd opens the timeline editor.
var rootCmd = &cobra.Command{
	Use:   constant.Reelcraft + " [project]",
	Short: "A terminal timeline editor for video compositions",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiPurple).Render("    - A terminal timeline editor for video compositions"),
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completionProjects,
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		name := project.DefaultName
		if len(args) > 0 {
			name = args[0]
		} else if last, ok := project.Last().Get(); ok {
			name = last.Name
		}

		p, err := openOrCreate(name, lo.Must(cmd.Flags().GetString("aspect")))
		handleErr(err)

		lib := library.New(library.DefaultsFromConfig())
		for _, path := range lo.Must(cmd.Flags().GetStringSlice("media")) {
			if _, err := lib.Ingest(path); err != nil {
				handleErr(fmt.Errorf("%s: %w", path, err))
			}
		}

		CheckDependencies()

		notices := &notice.Buffer{}
		session, cancel, err := startSession(p, notice.Tee(notice.Logger, notices))
		handleErr(err)
		defer cancel()

		handleErr(tui.Run(&tui.Options{
			Session: session,
			Notices: notices,
			Project: p,
			Library: lib,
		}))
	},
}

// openOrCreate loads a saved project or starts a new one on the given canvas.
func openOrCreate(name, aspect string) (project.Project, error) {
	p, err := project.Load(name)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, project.ErrNotFound) {
		return project.Project{}, err
	}

	canvas := project.DefaultCanvas()
	if aspect != "" {
		if canvas, err = project.ParseCanvas(aspect); err != nil {
			return project.Project{}, err
		}
	}
	return project.New(name, canvas), nil
}

// startSession builds an editor over p with the configured backend and runs it.
func startSession(p project.Project, reporter notice.Reporter) (*editor.Session, context.CancelFunc, error) {
	factory, err := player.New()
	if err != nil {
		return nil, nil, err
	}

	opts, err := editor.OptionsFromConfig(reporter)
	if err != nil {
		return nil, nil, err
	}

	ed := editor.New(factory, opts)
	ed.Load(p.Elements)

	session := editor.NewSession(ed, viper.GetInt(key.PlaybackFrameRate))
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error(err)
		}
	}()

	stop := func() {
		cancel()
		<-session.Done()
	}
	return session, stop, nil
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}

func completionProjects(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	summaries, err := project.List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return lo.Map(summaries, func(s project.Summary, _ int) string { return s.Name }), cobra.ShellCompDirectiveNoFileComp
}
