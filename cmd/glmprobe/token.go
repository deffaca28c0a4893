package main

import (
	"fmt"
	"time"

	"github.com/metalagman/glmprobe/internal/auth"
	"github.com/spf13/cobra"
)

type tokenReport struct {
	Token     string         `yaml:"token"`
	Header    map[string]any `yaml:"header"`
	Claims    *auth.Claims   `yaml:"claims"`
	IssuedAt  string         `yaml:"issued_at"`
	ExpiresAt string         `yaml:"expires_at"`
}

func tokenCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Sign a bearer token and print its decoded claims",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			credential, err := cfg.Credential()
			if err != nil {
				return fmt.Errorf("%s: %w", cfg.APIKeyEnv, err)
			}
			cred, err := auth.ParseCredential(credential)
			if err != nil {
				return err
			}

			now := time.Now()
			token, err := auth.BuildToken(credential, now, cfg.TokenTTL)
			if err != nil {
				return err
			}
			claims, header, err := auth.ParseToken(token, cred.Secret, now)
			if err != nil {
				return err
			}

			return writeYAML(cmd, tokenReport{
				Token:     token,
				Header:    header,
				Claims:    claims,
				IssuedAt:  claims.IssuedAt().UTC().Format(time.RFC3339),
				ExpiresAt: claims.Expiry().UTC().Format(time.RFC3339),
			})
		},
	}
}
