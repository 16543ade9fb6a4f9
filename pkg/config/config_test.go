package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearKeyEnv(t *testing.T) {
	t.Helper()
	for _, name := range apiKeyEnvVars {
		t.Setenv(name, "")
	}
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	clearKeyEnv(t)
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	def := GetDefaultConfig()
	assert.Equal(t, def.Model, cfg.Model)
	assert.True(t, cfg.DegradeOnFailure)
	assert.Equal(t, 20*time.Second, cfg.ProviderTimeout.Duration)
	assert.Equal(t, 1200*time.Millisecond, cfg.FallbackDelay.Duration)
	assert.Equal(t, 45*time.Second, cfg.SearchTimeout.Duration)
	assert.Equal(t, "localhost", cfg.Web.Host)
	assert.Equal(t, 8080, cfg.Web.Port)
	assert.Empty(t, cfg.APIKey)
	assert.Empty(t, cfg.APIKeySource)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	clearKeyEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
api_key = " secret "
degrade_on_failure = false
fallback_delay = "0s"

[web]
port = 9090
`), 0600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, "config", cfg.APIKeySource)
	assert.False(t, cfg.DegradeOnFailure)
	assert.Zero(t, cfg.FallbackDelay.Duration)
	assert.Equal(t, 9090, cfg.Web.Port)
	// untouched keys keep their defaults
	assert.Equal(t, "localhost", cfg.Web.Host)
	assert.Equal(t, 20*time.Second, cfg.ProviderTimeout.Duration)
}

func TestLoadConfigAPIKeyFromEnvironment(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("API_KEY", "from-api-key")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, "from-api-key", cfg.APIKey)
	assert.Equal(t, "env:API_KEY", cfg.APIKeySource)

	t.Setenv("GEMINI_API_KEY", "from-gemini")
	cfg, err = LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, "from-gemini", cfg.APIKey)
	assert.Equal(t, "env:GEMINI_API_KEY", cfg.APIKeySource)
}

func TestLoadConfigInvalid(t *testing.T) {
	clearKeyEnv(t)
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte(`provider_timeout = "soon"`), 0600))
	_, err := LoadConfig(bad)
	assert.Error(t, err)

	negative := filepath.Join(dir, "negative.toml")
	require.NoError(t, os.WriteFile(negative, []byte(`search_timeout = "-1s"`), 0600))
	_, err = LoadConfig(negative)
	assert.Error(t, err)

	port := filepath.Join(dir, "port.toml")
	require.NoError(t, os.WriteFile(port, []byte("[web]\nport = 70000\n"), 0600))
	_, err = LoadConfig(port)
	assert.Error(t, err)
}

func TestSaveTemplateConfigRoundTrips(t *testing.T) {
	clearKeyEnv(t)
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	require.NoError(t, SaveTemplateConfig(path))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig().Web, cfg.Web)
	assert.True(t, cfg.DegradeOnFailure)

	assert.Error(t, SaveTemplateConfig(path), "existing file must not be overwritten")
}

func TestGetDefaultConfigPathHonoursXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path, err := GetDefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ofertas", "config.toml"), path)
}

func TestWatchReloadsOnWrite(t *testing.T) {
	clearKeyEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`degrade_on_failure = true`), 0600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 4)
	errCh := make(chan error, 1)
	go func() {
		errCh <- Watch(ctx, path, func(c *Config) { reloaded <- c })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`degrade_on_failure = false`), 0600))

	select {
	case cfg := <-reloaded:
		assert.False(t, cfg.DegradeOnFailure)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatchMissingFile(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "missing.toml"), func(*Config) {})
	assert.Error(t, err)
}
