package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New(), "", false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"model": "glm-4-plus",
		"token_ttl": "30m",
		"temperature": 0.2,
		"timeout": "45s"
	}`), 0o600))

	t.Setenv("GLMPROBE_TOP_P", "0.9")
	t.Setenv("GLMPROBE_REQUEST_ID_PREFIX", "probe")

	cfg, err := Load(viper.New(), path, true)
	require.NoError(t, err)
	assert.Equal(t, "glm-4-plus", cfg.Model)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.InDelta(t, 0.2, cfg.Temperature, 1e-9)
	assert.InDelta(t, 0.9, cfg.TopP, 1e-9)
	assert.Equal(t, "probe", cfg.RequestIDPrefix)
	assert.Equal(t, Default().Endpoint, cfg.Endpoint)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: glm-4-air\nmarkdown: true\n"), 0o600))

	cfg, err := Load(viper.New(), path, true)
	require.NoError(t, err)
	assert.Equal(t, "glm-4-air", cfg.Model)
	assert.True(t, cfg.Markdown)
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.json")

	_, err := Load(viper.New(), path, false)
	require.NoError(t, err)

	_, err = Load(viper.New(), path, true)
	require.Error(t, err)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"temperature": 3, "endpoint": "ftp://x"}`), 0o600))

	_, err := Load(viper.New(), path, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "temperature")
	assert.Contains(t, err.Error(), "endpoint")
}

func TestValidate_RejectsShortTTL(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.TokenTTL = time.Millisecond
	require.Error(t, cfg.Validate())
	require.NoError(t, Default().Validate())
}

func TestCredential(t *testing.T) {
	const envKey = "GLMPROBE_TEST_CREDENTIAL"
	t.Setenv(envKey, " abc.def ")

	cfg := Default()
	cfg.APIKeyEnv = envKey
	got, err := cfg.Credential()
	require.NoError(t, err)
	assert.Equal(t, "abc.def", got)

	cfg.APIKey = "xyz.uvw"
	got, err = cfg.Credential()
	require.NoError(t, err)
	assert.Equal(t, "xyz.uvw", got)
	assert.Equal(t, "***", cfg.Redacted().APIKey)
}

func TestCredential_Missing(t *testing.T) {
	const envKey = "GLMPROBE_TEST_MISSING_CREDENTIAL"
	t.Setenv(envKey, "")

	cfg := Default()
	cfg.APIKeyEnv = envKey
	_, err := cfg.Credential()
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestLoadEnvFile(t *testing.T) {
	const envKey = "GLMPROBE_TEST_DOTENV_KEY"
	t.Setenv(envKey, "")
	require.NoError(t, os.Unsetenv(envKey))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(envKey+"=\"abc.def\"\n"), 0o600))

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "abc.def", os.Getenv(envKey))

	require.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
}
