package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/gate/internal/core/domain"
	"go.trai.ch/gate/internal/ui/style"
)

func (c *CLI) newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent workflow runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			summaries, err := c.app.History(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(summaries) == 0 {
				_, _ = fmt.Fprintln(out, "no runs recorded")
				return nil
			}

			for _, s := range summaries {
				event := s.Event
				if event == "" {
					event = "local"
				}
				if s.Branch != "" {
					event = event + " " + s.Branch
				}
				_, _ = fmt.Fprintf(out, "%s %s  %-24s %s (%s)\n",
					conclusionIcon(s.Conclusion),
					s.StartedAt.Format("2006-01-02 15:04:05"),
					event,
					s.Conclusion,
					s.Duration.Round(time.Millisecond),
				)
			}
			return nil
		},
	}
	cmd.Flags().IntP("limit", "l", 10, "Maximum number of runs to show")
	return cmd
}

func conclusionIcon(c domain.Conclusion) string {
	if c == domain.ConclusionFailure {
		return style.Cross
	}
	return style.Check
}
