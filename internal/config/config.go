// Package config provides configuration loading and management for glmprobe.
package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

const (
	// EnvPrefix namespaces environment overrides, e.g. GLMPROBE_MODEL.
	EnvPrefix = "GLMPROBE"

	// DefaultAPIKeyEnv holds the id.secret credential.
	DefaultAPIKeyEnv = "ZHIPU_API_KEY"

	redacted = "***"
)

// ErrMissingCredential is returned when no credential is configured.
var ErrMissingCredential = errors.New("credential not set")

// Config is the root configuration.
type Config struct {
	APIKey          string        `json:"api_key,omitempty"   mapstructure:"api_key"           yaml:"api_key,omitempty"`
	APIKeyEnv       string        `json:"api_key_env"         mapstructure:"api_key_env"       yaml:"api_key_env"`
	Endpoint        string        `json:"endpoint"            mapstructure:"endpoint"          yaml:"endpoint"`
	Model           string        `json:"model"               mapstructure:"model"             yaml:"model"`
	Temperature     float64       `json:"temperature"         mapstructure:"temperature"       yaml:"temperature"`
	TopP            float64       `json:"top_p"               mapstructure:"top_p"             yaml:"top_p"`
	TokenTTL        time.Duration `json:"token_ttl"           mapstructure:"token_ttl"         yaml:"token_ttl"`
	Timeout         time.Duration `json:"timeout"             mapstructure:"timeout"           yaml:"timeout"`
	RequestIDPrefix string        `json:"request_id_prefix"   mapstructure:"request_id_prefix" yaml:"request_id_prefix"`
	Markdown        bool          `json:"markdown"            mapstructure:"markdown"          yaml:"markdown"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIKeyEnv:       DefaultAPIKeyEnv,
		Endpoint:        "https://open.bigmodel.cn/api/paas/v4/chat/completions",
		Model:           "glm-4-flash",
		Temperature:     0.7,
		TopP:            0.7,
		TokenTTL:        time.Hour,
		RequestIDPrefix: "test",
	}
}

// Credential returns the id.secret credential: api_key if set, otherwise the
// variable named by api_key_env.
func (c Config) Credential() (string, error) {
	if key := strings.TrimSpace(c.APIKey); key != "" {
		return key, nil
	}
	envKey := strings.TrimSpace(c.APIKeyEnv)
	if envKey == "" {
		envKey = DefaultAPIKeyEnv
	}
	if key := strings.TrimSpace(os.Getenv(envKey)); key != "" {
		return key, nil
	}
	return "", ErrMissingCredential
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.APIKey != "" {
		c.APIKey = redacted
	}
	return c
}
