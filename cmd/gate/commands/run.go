package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/gate/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the workflow for an event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			event, _ := cmd.Flags().GetString("event")
			branch, _ := cmd.Flags().GetString("branch")
			noCache, _ := cmd.Flags().GetBool("no-cache")
			inspect, _ := cmd.Flags().GetBool("inspect")
			outputMode, _ := cmd.Flags().GetString("output-mode")
			ci, _ := cmd.Flags().GetBool("ci")
			report, _ := cmd.Flags().GetBool("report")
			workers, _ := cmd.Flags().GetInt("workers")

			// If --ci is set, override output-mode to "linear"
			if ci {
				outputMode = "linear"
			}

			return c.app.Run(cmd.Context(), app.RunOptions{
				Event:      event,
				Branch:     branch,
				NoCache:    noCache,
				Inspect:    inspect,
				Report:     report,
				OutputMode: outputMode,
				Workers:    workers,
			})
		},
	}
	cmd.Flags().StringP("event", "e", "", "Event to run for: push or pull_request (defaults to GITHUB_EVENT_NAME)")
	cmd.Flags().StringP("branch", "b", "", "Branch the event refers to (defaults to GITHUB_REF_NAME)")
	cmd.Flags().BoolP("no-cache", "n", false, "Bypass the step cache and force execution")
	cmd.Flags().BoolP("inspect", "i", false, "Inspect the TUI after the run completes (prevents auto-exit)")
	cmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, tui, or linear")
	cmd.Flags().Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")
	cmd.Flags().BoolP("report", "r", false, "Publish the run's conclusion as a commit status")
	cmd.Flags().IntP("workers", "w", 0, "Maximum jobs to run in parallel (0 means one per CPU)")
	return cmd
}
