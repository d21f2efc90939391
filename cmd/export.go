package cmd

import (
	"encoding/json"
	"os"

	"github.com/reelcraft-cli/reelcraft/color"
	"github.com/reelcraft-cli/reelcraft/notice"
	"github.com/reelcraft-cli/reelcraft/open"
	"github.com/reelcraft-cli/reelcraft/project"
	"github.com/reelcraft-cli/reelcraft/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(exportCmd, schemaCmd)

	exportCmd.Flags().BoolP("open", "o", false, "Open the manifest with the default application")
	schemaCmd.Flags().BoolP("manifest", "m", false, "Generate the schema of export manifests instead of project files")
}

var exportCmd = &cobra.Command{
	Use:               "export <project>",
	Short:             "Write the export manifest of a project",
	Long:              "Write a JSON manifest describing the composition: canvas, duration and every element. No video is rendered.",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionProjects,
	Run: func(cmd *cobra.Command, args []string) {
		p, err := project.Load(args[0])
		handleErr(err)

		buf := &notice.Buffer{}
		path, err := project.Export(p, notice.Tee(notice.Logger, buf))
		printNotices(buf.Drain())
		handleErr(err)

		cmd.Println(style.Fg(color.Purple)(path))

		if lo.Must(cmd.Flags().GetBool("open")) {
			handleErr(open.Start(path))
		}
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of project files",
	Run: func(cmd *cobra.Command, args []string) {
		schema := project.Schema(lo.Must(cmd.Flags().GetBool("manifest")))
		handleErr(json.NewEncoder(os.Stdout).Encode(schema))
	},
}
