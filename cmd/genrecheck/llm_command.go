package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newLLMCommand(ctx *commandContext) *cobra.Command {
	llmCmd := &cobra.Command{
		Use:   "llm",
		Short: "Model endpoint utilities",
	}
	llmCmd.AddCommand(newLLMCheckCommand(ctx))
	llmCmd.AddCommand(newLLMClassifyCommand(ctx))
	return llmCmd
}

func newLLMCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the model endpoint is reachable and serves the configured model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.llmClient()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintln(out, renderStatusLine("Endpoint", statusInfo, cfg.LLM.BaseURL, colorize))

			start := time.Now()
			if err := client.HealthCheck(cmd.Context()); err != nil {
				fmt.Fprintln(out, renderStatusLine("Model", statusError, client.Model(), colorize))
				return err
			}
			detail := fmt.Sprintf("%s (%s)", client.Model(), time.Since(start).Round(time.Millisecond))
			fmt.Fprintln(out, renderStatusLine("Model", statusOK, detail, colorize))
			return nil
		},
	}
}

func newLLMClassifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <summary>",
		Short: "Ask the model for the genres of an arbitrary plot summary",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.llmClient()
			if err != nil {
				return err
			}
			answer, err := client.ClassifyGenres(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}
}
