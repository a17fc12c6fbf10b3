package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"genrecheck/internal/moviedata"
	"genrecheck/internal/shuffle"
)

func newShuffleCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var seed uint64
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "shuffle",
		Short: "Pick a random movie and compare the model's genres with the corpus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.loggerValue()

			catalog, err := ctx.loadCatalog(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			client, err := ctx.llmClient()
			if err != nil {
				return err
			}

			opts := shuffle.Options{
				Source:     catalog,
				Classifier: client,
				Model:      client.Model(),
				Logger:     logger,
			}
			if cmd.Flags().Changed("seed") {
				opts.Picker = moviedata.NewSeededPicker(seed)
			}
			if cfg.History.Enabled && !noHistory {
				store, err := ctx.openHistory()
				if err != nil {
					return err
				}
				defer store.Close()
				opts.Recorder = store
			}

			runner, err := shuffle.NewRunner(opts)
			if err != nil {
				return err
			}
			outcome, err := runner.Shuffle(cmd.Context())
			if err != nil {
				if errors.Is(err, moviedata.ErrNoEligibleMovies) {
					return fmt.Errorf("%s: %w", msgNoEligible, err)
				}
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, outcome)
			}
			out := cmd.OutOrStdout()
			renderShuffleOutcome(out, outcome, shouldColorize(out))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the outcome as JSON")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed the movie picker for a reproducible draw")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record this run in the history database")
	return cmd
}
