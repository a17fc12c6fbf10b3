package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"genrecheck/internal/churn"
	"genrecheck/internal/config"
)

func newChurnCommand() *cobra.Command {
	var inputPath string
	var outputPath string

	cmd := &cobra.Command{
		Use:         "churn",
		Short:       "Derive aggregate usage features from a telecom churn CSV",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(inputPath) == "" {
				return errors.New("--input is required")
			}
			input, err := config.ExpandPath(strings.TrimSpace(inputPath))
			if err != nil {
				return err
			}
			table, err := churn.ReadFile(input)
			if err != nil {
				return err
			}
			engineered, err := churn.Apply(table)
			if err != nil {
				return err
			}

			if strings.TrimSpace(outputPath) == "" {
				return churn.WriteCSV(cmd.OutOrStdout(), engineered)
			}
			output, err := config.ExpandPath(strings.TrimSpace(outputPath))
			if err != nil {
				return err
			}
			if err := churn.WriteFile(output, engineered); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows with %d columns to %s\n",
				len(engineered.Rows), len(engineered.Header), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Churn CSV to read")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination CSV (defaults to stdout)")
	return cmd
}
