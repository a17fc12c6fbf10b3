package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"genrecheck/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded evaluations",
	}
	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryStatsCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))
	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the most recent evaluations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				if entries == nil {
					entries = []history.Entry{}
				}
				return writeJSON(cmd, entries)
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No evaluations recorded yet. Run `genrecheck shuffle` to add one.")
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"When", "Title", "Verdict", "DB", "LLM", "Match", "Matching genres"},
				historyRows(entries),
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultRecentLimit, "Maximum number of entries to show")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit entries as JSON")
	return cmd
}

func historyRows(entries []history.Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			entry.CreatedAt.Local().Format("2006-01-02 15:04"),
			entry.Title,
			string(entry.Verdict()),
			strconv.Itoa(entry.Counts.Database),
			strconv.Itoa(entry.Counts.Identified),
			strconv.Itoa(entry.Counts.Matching),
			strings.Join(entry.Matching, ", "),
		})
	}
	return rows
}

func newHistoryStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize recorded evaluations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, stats)
			}
			lastRun := "never"
			if stats.LastRun != nil {
				lastRun = stats.LastRun.Local().Format(time.RFC3339)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderKeyValues([][]string{
				{"Evaluations", strconv.Itoa(stats.Total)},
				{"Perfect matches", fmt.Sprintf("%d (%.1f%%)", stats.Perfect, stats.PerfectRate())},
				{"Avg database genres", fmt.Sprintf("%.2f", stats.AvgDatabase)},
				{"Avg LLM genres", fmt.Sprintf("%.2f", stats.AvgIdentified)},
				{"Avg matching genres", fmt.Sprintf("%.2f", stats.AvgMatching)},
				{"Last run", lastRun},
			}, shouldColorize(out)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit stats as JSON")
	return cmd
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded evaluation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d evaluation(s)\n", removed)
			return nil
		},
	}
}
