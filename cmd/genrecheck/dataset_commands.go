package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"genrecheck/internal/moviedata"
)

func newDatasetCommand(ctx *commandContext) *cobra.Command {
	datasetCmd := &cobra.Command{
		Use:   "dataset",
		Short: "Manage the cached movie corpus",
	}
	datasetCmd.AddCommand(newDatasetFetchCommand(ctx))
	datasetCmd.AddCommand(newDatasetInfoCommand(ctx))
	return datasetCmd
}

func newDatasetFetchCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the movie corpus if it is not cached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			result, err := moviedata.Fetch(cmd.Context(), ctx.fetchOptions(cfg, force))
			if err != nil {
				return err
			}
			if !result.Downloaded {
				fmt.Fprintf(out, "Movie corpus already present in %s (use --force to download again)\n", result.Dir)
				return nil
			}
			fmt.Fprintf(out, "Downloaded %s into %s\n", formatBytes(result.Bytes), result.Dir)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Download even when the corpus is cached")
	return cmd
}

func newDatasetInfoCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show corpus location and counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			present := moviedata.Present(cfg.Dataset.Dir)
			if !present {
				if jsonOutput {
					return writeJSON(cmd, map[string]any{"dir": cfg.Dataset.Dir, "present": false})
				}
				fmt.Fprintln(out, renderKeyValues([][]string{
					{"Directory", cfg.Dataset.Dir},
					{"Present", yesNo(false)},
					{"Source", cfg.Dataset.URL},
				}, shouldColorize(out)))
				return nil
			}

			catalog, err := moviedata.Load(cfg.Dataset.Dir)
			if err != nil {
				return err
			}
			stats := catalog.Stats()
			if jsonOutput {
				return writeJSON(cmd, struct {
					Dir     string `json:"dir"`
					Present bool   `json:"present"`
					moviedata.Stats
				}{Dir: cfg.Dataset.Dir, Present: true, Stats: stats})
			}

			fmt.Fprintln(out, renderKeyValues([][]string{
				{"Directory", cfg.Dataset.Dir},
				{"Present", yesNo(true)},
			}, shouldColorize(out)))
			fmt.Fprintln(out, renderTable(
				[]string{"Measure", "Count"},
				[][]string{
					{"Movies", strconv.Itoa(stats.Movies)},
					{"With genres", strconv.Itoa(stats.Eligible)},
					{"With genres and summary", strconv.Itoa(stats.WithSummary)},
					{"Plot summaries", strconv.Itoa(stats.Summaries)},
					{"Skipped lines", strconv.Itoa(stats.Skipped)},
				},
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit counts as JSON")
	return cmd
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
