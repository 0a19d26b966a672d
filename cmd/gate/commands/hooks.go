package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/gate/internal/app"
)

func (c *CLI) newHooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hooks [files...]",
		Short: "Run the pre-commit hooks",
		Long: "Run the configured pre-commit hooks over a file set: the files given " +
			"as arguments, every file in the workspace with --all-files, or the " +
			"files git reports as changed.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			allFiles, _ := cmd.Flags().GetBool("all-files")
			watch, _ := cmd.Flags().GetBool("watch")

			return c.app.Hooks(cmd.Context(), app.HooksOptions{
				Files:    args,
				AllFiles: allFiles,
				Watch:    watch,
			})
		},
	}
	cmd.Flags().BoolP("all-files", "a", false, "Run the hooks over every file in the workspace")
	cmd.Flags().BoolP("watch", "w", false, "Keep running, re-checking files as they change")
	return cmd
}
