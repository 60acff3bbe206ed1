package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.openai.com/v1", cfg.APIURL)
	assert.Equal(t, float32(0.7), cfg.Temperature)
	assert.Equal(t, 1000, cfg.MaxTokens)
	assert.Equal(t, "ctrl+shift+space", cfg.AppHotkey)
	assert.Equal(t, "dark", cfg.Theme)
	assert.True(t, cfg.UseModernUI)
	assert.Equal(t, "data/history.db", cfg.DBPath)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-4o-mini")
	t.Setenv("TEMPERATURE", "0.2")
	t.Setenv("MAX_TOKENS", "256")
	t.Setenv("USE_MODERN_UI", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, float32(0.2), cfg.Temperature)
	assert.Equal(t, 256, cfg.MaxTokens)
	assert.False(t, cfg.UseModernUI)
	assert.True(t, cfg.IsValid())
}

func TestIsValidRequiresAPIKey(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.IsValid())

	cfg.APIKey = "sk-test"
	assert.True(t, cfg.IsValid())
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{
		DBPath:         filepath.Join(dir, "db", "history.db"),
		ScreenshotsDir: filepath.Join(dir, "shots"),
	}

	require.NoError(t, cfg.EnsureDirectories())
	assert.DirExists(t, filepath.Join(dir, "db"))
	assert.DirExists(t, filepath.Join(dir, "shots"))
}
