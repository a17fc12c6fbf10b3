package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"genrecheck/internal/genre"
)

func newEvaluateCommand() *cobra.Command {
	var databaseGenres []string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "evaluate <identified-genres>",
		Short: "Score a comma-separated genre answer against ground-truth genres",
		Long: "Score a comma-separated genre answer, such as a saved model response, against\n" +
			"ground-truth genres given with --genre. No model or corpus is needed.",
		Example:     `  genrecheck evaluate "Thriller, Horror" --genre Thriller --genre "Science Fiction"`,
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(databaseGenres) == 0 {
				return errors.New("at least one --genre is required")
			}
			result := genre.Evaluate(args[0], databaseGenres)
			if jsonOutput {
				return writeJSON(cmd, struct {
					genre.Result
					Verdict genre.Verdict `json:"verdict"`
				}{Result: result, Verdict: result.Verdict()})
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			pairs := [][]string{
				{"Identified", displayGenres(result.Identified.Sorted())},
				{"Database", strings.Join(databaseGenres, ", ")},
			}
			fmt.Fprintln(out, renderKeyValues(pairs, colorize))
			fmt.Fprintln(out)
			renderEvaluation(out, result, colorize)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&databaseGenres, "genre", "g", nil, "Ground-truth genre (repeatable)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the result as JSON")
	return cmd
}
