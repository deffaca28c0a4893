package main

import (
	"github.com/metalagman/glmprobe/internal/auth"
	"github.com/metalagman/glmprobe/internal/config"
	"github.com/metalagman/glmprobe/internal/zhipu"
)

// newClient builds the token source and API client from cfg.
// The credential is read here, once, and passed in explicitly.
func newClient(cfg config.Config) (*zhipu.Client, *auth.Builder, error) {
	credential, err := cfg.Credential()
	if err != nil {
		return nil, nil, err
	}
	builder := auth.NewBuilder(credential, auth.WithTTL(cfg.TokenTTL))
	client, err := zhipu.NewClient(zhipu.Config{
		Endpoint:        cfg.Endpoint,
		Model:           cfg.Model,
		Temperature:     cfg.Temperature,
		TopP:            cfg.TopP,
		RequestIDPrefix: cfg.RequestIDPrefix,
		Timeout:         cfg.Timeout,
	}, builder, nil)
	if err != nil {
		return nil, nil, err
	}
	return client, builder, nil
}
