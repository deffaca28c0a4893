package main

import (
	"os"
	"path/filepath"

	"github.com/metalagman/glmprobe/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func resolveConfigPath(workDir, path string) string {
	if path == "" {
		path = defaultConfigPath
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workDir, path)
}

func loadConfig(cmd *cobra.Command, opts *rootOptions) (config.Config, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return config.Config{}, err
	}
	if err := config.LoadEnvFile(opts.envFile); err != nil {
		return config.Config{}, err
	}

	path := resolveConfigPath(workDir, opts.cfgFile)
	required := cmd.Flags().Changed("config")
	cfg, err := config.Load(viper.GetViper(), path, required)
	if err != nil {
		return config.Config{}, err
	}
	log.Debug().Str("path", path).Str("model", cfg.Model).Msg("config loaded")
	return cfg, nil
}

func configCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long:  "Print the configuration resolved from defaults, the config file and GLMPROBE_* environment variables. The credential is redacted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return writeYAML(cmd, cfg.Redacted())
		},
	}
}
