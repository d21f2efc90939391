package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/reelcraft-cli/reelcraft/color"
	"github.com/reelcraft-cli/reelcraft/icon"
	"github.com/reelcraft-cli/reelcraft/project"
	"github.com/reelcraft-cli/reelcraft/style"
	"github.com/reelcraft-cli/reelcraft/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newCmd, lsCmd, deleteCmd)

	newCmd.Flags().StringP("aspect", "a", "", "Canvas aspect ratio or size (e.g. 9:16 or 1920x1080)")
	lo.Must0(newCmd.RegisterFlagCompletionFunc("aspect", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return project.Presets(), cobra.ShellCompDirectiveNoFileComp
	}))

	lsCmd.Flags().BoolP("recent", "r", false, "List recently opened projects instead")
	lsCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	lsCmd.SetOut(os.Stdout)

	deleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

var newCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create an empty project",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var name string
		if len(args) > 0 {
			name = args[0]
		} else {
			handleErr(survey.AskOne(&survey.Input{
				Message: "Project name",
				Default: project.DefaultName,
			}, &name))
		}

		aspect := lo.Must(cmd.Flags().GetString("aspect"))
		if aspect == "" && len(args) == 0 {
			prompt := &survey.Select{
				Message: "Aspect ratio",
				Options: project.Presets(),
			}
			if def := project.DefaultCanvas().AspectRatio; lo.Contains(prompt.Options, def) {
				prompt.Default = def
			}
			handleErr(survey.AskOne(prompt, &aspect))
		}

		canvas := project.DefaultCanvas()
		if aspect != "" {
			var err error
			canvas, err = project.ParseCanvas(aspect)
			handleErr(err)
		}

		if _, err := project.Load(name); err == nil {
			handleErr(fmt.Errorf("project %s already exists", style.Fg(color.Purple)(name)))
		} else if !errors.Is(err, project.ErrNotFound) {
			handleErr(err)
		}

		p := project.New(name, canvas)
		path, err := project.Save(p)
		handleErr(err)

		fmt.Printf(
			"%s created %s (%d×%d) at %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(p.Name),
			canvas.Width,
			canvas.Height,
			style.Faint(path),
		)
	},
}

var lsCmd = &cobra.Command{
	Use:     "ls [project]",
	Aliases: []string{"list"},
	Short:   "List saved projects, or the elements of one project",
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		asJson := lo.Must(cmd.Flags().GetBool("json"))

		if len(args) == 1 {
			p, err := project.Load(args[0])
			handleErr(err)
			if asJson {
				handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(p.File()))
				return
			}
			printElements(cmd, p)
			return
		}

		if lo.Must(cmd.Flags().GetBool("recent")) {
			entries := project.Recent()
			if asJson {
				handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(entries))
				return
			}
			for _, e := range entries {
				cmd.Printf("%s %s\n", style.Fg(color.Purple)(e.Name), style.Faint(e.Opened.Format("2006-01-02 15:04")))
			}
			return
		}

		summaries, err := project.List()
		handleErr(err)
		if asJson {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(summaries))
			return
		}
		if len(summaries) == 0 {
			cmd.Println(style.Faint("no projects yet, create one with `new`"))
			return
		}
		for _, s := range summaries {
			cmd.Printf("%s %s\n", style.Fg(color.Purple)(s.Name), style.Faint(s.Modified.Format("2006-01-02 15:04")))
		}
	},
}

func printElements(cmd *cobra.Command, p project.Project) {
	cmd.Printf(
		"%s %s  %s  %s\n\n",
		style.Title(p.Name),
		style.Faint(p.Canvas.AspectRatio),
		util.FormatTimecodePrecise(p.Duration()),
		util.Quantify(len(p.Elements), "element", "elements"),
	)

	for _, e := range p.Elements {
		line := fmt.Sprintf(
			"%s %s %s  %s → %s  track %d",
			style.Faint(shortID(e.ID)),
			e.Kind,
			style.Fg(color.Purple)(e.Name),
			util.FormatTimecodePrecise(e.Range.Start),
			util.FormatTimecodePrecise(e.Range.End),
			e.Track,
		)
		if e.Speed != 1 {
			line += fmt.Sprintf("  %gx", e.Speed)
		}
		if mix, ok := e.Mix(); ok {
			line += fmt.Sprintf("  vol %.0f%%", mix.Volume*100)
			if mix.Muted {
				line += " " + icon.Get(icon.Muted)
			}
		}
		cmd.Println(line)
	}
}

var deleteCmd = &cobra.Command{
	Use:               "delete <project>",
	Short:             "Delete a saved project",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionProjects,
	Run: func(cmd *cobra.Command, args []string) {
		if !lo.Must(cmd.Flags().GetBool("yes")) {
			confirmed := false
			handleErr(survey.AskOne(&survey.Confirm{
				Message: fmt.Sprintf("Delete %s?", args[0]),
			}, &confirmed))
			if !confirmed {
				return
			}
		}

		handleErr(project.Delete(args[0]))
		fmt.Printf("%s deleted %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), args[0])
	},
}
