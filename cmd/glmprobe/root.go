package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/metalagman/glmprobe/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var defaultConfigPath = filepath.Join(".glmprobe", "config.json")

type rootOptions struct {
	cfgFile string
	envFile string
	debug   bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "glmprobe",
		Short:         "glmprobe sends test prompts to the GLM chat completion API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.InitWithWriter(opts.debug, cmd.ErrOrStderr())
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", defaultConfigPath, "config file path (json, yaml or toml)")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before resolving the credential")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(runCmd(opts))
	rootCmd.AddCommand(tokenCmd(opts))
	rootCmd.AddCommand(topicsCmd(opts))
	rootCmd.AddCommand(analyzeCmd(opts))
	rootCmd.AddCommand(configCmd(opts))
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
}

// bindFlag maps a command flag onto a config key so it overrides file and env values.
func bindFlag(cmd *cobra.Command, key, flag string) error {
	if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
		return fmt.Errorf("bind %s flag: %w", flag, err)
	}
	return nil
}
