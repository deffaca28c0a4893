package main

import (
	"fmt"

	"github.com/metalagman/glmprobe/internal/theme"
	"github.com/metalagman/glmprobe/internal/zhipu"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func topicsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "topics <keyword>",
		Short: "Infer a role and three related themes for a search keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			client, _, err := newClient(cfg)
			if err != nil {
				return err
			}

			resp, err := client.Complete(cmd.Context(), theme.TopicsPrompt(args[0]))
			if err != nil {
				return fmt.Errorf("topics request: %w", err)
			}
			topics, err := theme.ParseTopics(resp.Content)
			if err != nil {
				log.Debug().Str("content", resp.Content).Msg("unparsable topics reply")
				return err
			}
			return writeYAML(cmd, topics)
		},
	}
}

func analyzeCmd(opts *rootOptions) *cobra.Command {
	var analysis theme.AnalysisOptions
	cmd := &cobra.Command{
		Use:   "analyze <theme>",
		Short: "Pick a continuous dimension for a theme and split it into stages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			client, _, err := newClient(cfg)
			if err != nil {
				return err
			}

			prompt := theme.AnalysisPrompt(args[0], analysis)
			resp, err := client.Complete(cmd.Context(), prompt, zhipu.WithTemperature(theme.AnalysisTemperature))
			if err != nil {
				return fmt.Errorf("analysis request: %w", err)
			}
			result, err := theme.ParseAnalysis(resp.Content)
			if err != nil {
				log.Debug().Str("content", resp.Content).Msg("unparsable analysis reply")
				return err
			}
			return writeYAML(cmd, result)
		},
	}
	cmd.Flags().BoolVar(&analysis.Finer, "finer", false, "ask for a finer-grained stage split")
	cmd.Flags().StringSliceVar(&analysis.CurrentTabs, "tab", nil, "current stage titles to refine (repeatable)")
	return cmd
}

func writeYAML(cmd *cobra.Command, v any) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
