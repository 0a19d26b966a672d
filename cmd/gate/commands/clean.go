package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/gate/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the step cache and run history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			history, _ := cmd.Flags().GetBool("history")
			all, _ := cmd.Flags().GetBool("all")

			opts := app.CleanOptions{}

			switch {
			case all:
				opts.Cache = true
				opts.History = true
			case history:
				opts.History = true
			default:
				// Default behavior: clean the step cache
				opts.Cache = true
			}

			return c.app.Clean(cmd.Context(), opts)
		},
	}

	cmd.Flags().Bool("history", false, "Remove the recorded run history")
	cmd.Flags().BoolP("all", "a", false, "Remove both the step cache and the run history")

	return cmd
}
