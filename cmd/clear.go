package cmd

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/reelcraft-cli/reelcraft/filesystem"
	"github.com/reelcraft-cli/reelcraft/icon"
	"github.com/reelcraft-cli/reelcraft/util"
	"github.com/reelcraft-cli/reelcraft/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// clearTarget is an artifact that can be removed.
type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	location func() string
	precious bool
}

var clearTargets = []clearTarget{
	{"cache directory", "cache", mo.Some("c"), where.Cache, false},
	{"recent projects", "recent", mo.Some("r"), where.Recent, false},
	{"media probes", "probes", mo.Some("p"), where.Probes, false},
	{"export manifests", "exports", mo.Some("e"), where.Exports, true},
	{"saved projects", "projects", mo.None[string](), where.Projects, true},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if short, ok := target.argShort.Get(); ok {
			clearCmd.Flags().BoolP(target.argLong, short, false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}
	clearCmd.Flags().BoolP("yes", "y", false, "Do not ask before removing projects or exports")
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear cached and generated artifacts",
	Run: func(cmd *cobra.Command, args []string) {
		var anyCleared bool
		yes := lo.Must(cmd.Flags().GetBool("yes"))

		for _, target := range clearTargets {
			if !lo.Must(cmd.Flags().GetBool(target.argLong)) {
				continue
			}
			anyCleared = true

			if target.precious && !yes {
				confirmed := false
				handleErr(survey.AskOne(&survey.Confirm{
					Message: fmt.Sprintf("Remove all %s?", target.name),
				}, &confirmed))
				if !confirmed {
					continue
				}
			}

			e := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), target.name))
			err := filesystem.API().RemoveAll(target.location())
			e()
			handleErr(err)
			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(target.name))
		}

		if !anyCleared {
			handleErr(cmd.Help())
		}
	},
}
