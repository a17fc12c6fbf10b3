package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"genrecheck/internal/logging"
	"genrecheck/internal/logs"
)

const logsFollowInterval = 500 * time.Millisecond

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool
	var runID string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent lines from genrecheck.log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := logging.LogFilePath(cfg)
			match := logs.RunMatcher(runID)
			out := cmd.OutOrStdout()

			result, err := logs.Tail(path, lines, match)
			if err != nil {
				return err
			}
			if len(result.Lines) == 0 && !follow {
				fmt.Fprintf(out, "No log lines in %s\n", path)
				return nil
			}
			for _, line := range result.Lines {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}
			return logs.Follow(cmd.Context(), path, result.Offset, match, logsFollowInterval, func(line string) {
				fmt.Fprintln(out, line)
			})
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines until interrupted")
	cmd.Flags().StringVar(&runID, "run", "", "Only show lines for this run id")
	return cmd
}
