package main

import (
	"errors"
	"fmt"

	"github.com/metalagman/glmprobe/internal/config"
	"github.com/metalagman/glmprobe/internal/probe"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func runCmd(opts *rootOptions) *cobra.Command {
	var prompt, label string
	var strict bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Send the built-in test prompts, or a single custom prompt",
		Long:  "Send each test prompt as one synchronous request and print the status, raw response, generated content and token usage.",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := bindFlag(cmd, "markdown", "markdown"); err != nil {
				return err
			}
			return bindFlag(cmd, "model", "model")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			client, _, err := newClient(cfg)
			if errors.Is(err, config.ErrMissingCredential) {
				// Reported, not failed: nothing was attempted.
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Error: %s environment variable is not set\n", cfg.APIKeyEnv)
				return nil
			}
			if err != nil {
				return err
			}

			cases := probe.DefaultCases()
			if prompt != "" {
				cases = []probe.Case{{Label: label, Prompt: prompt}}
			}

			runner := probe.NewRunner(client, cmd.OutOrStdout(), probe.WithMarkdown(cfg.Markdown))
			outcomes := runner.RunAll(cmd.Context(), cases)

			failed := probe.Failed(outcomes)
			log.Debug().Int("cases", len(outcomes)).Int("failed", failed).Msg("run finished")
			if strict && failed > 0 {
				return fmt.Errorf("%d of %d cases failed", failed, len(outcomes))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "", "send this prompt instead of the built-in cases")
	cmd.Flags().StringVar(&label, "label", "custom prompt", "label printed for --prompt")
	cmd.Flags().Bool("markdown", false, "render generated content as markdown")
	cmd.Flags().String("model", "", "model identifier")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any case fails")
	return cmd
}
