package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every tunable of the application. All values come from the
// environment; a .env file in the working directory is loaded first so the
// launcher can be configured the same way the desktop original was.
type Config struct {
	APIKey string `envconfig:"OPENAI_API_KEY"`
	APIURL string `envconfig:"OPENAI_API_URL" default:"https://api.openai.com/v1"`
	Model  string `envconfig:"OPENAI_MODEL" default:"google/gemini-2.5-flash"`

	Stream bool `envconfig:"STREAM_RESPONSES" default:"true"`

	Temperature  float32 `envconfig:"TEMPERATURE" default:"0.7"`
	MaxTokens    int     `envconfig:"MAX_TOKENS" default:"1000"`
	SystemPrompt string  `envconfig:"SYSTEM_PROMPT" default:"You are a helpful assistant. Answer briefly and to the point."`

	AppHotkey        string `envconfig:"APP_HOTKEY" default:"ctrl+shift+space"`
	ScreenshotHotkey string `envconfig:"SCREENSHOT_HOTKEY" default:"ctrl+shift+s"`
	DebugHotkeys     bool   `envconfig:"DEBUG_HOTKEYS" default:"false"`

	Theme string `envconfig:"THEME" default:"dark"`
	// UseModernUI is accepted so .env files written for the desktop original
	// keep parsing; this launcher ships a single UI and never reads it.
	UseModernUI bool `envconfig:"USE_MODERN_UI" default:"true"`

	DBPath            string `envconfig:"DB_PATH" default:"data/history.db"`
	ScreenshotsDir    string `envconfig:"SCREENSHOTS_DIR" default:"data/screenshots"`
	ScreenshotCommand string `envconfig:"SCREENSHOT_COMMAND"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	// Missing .env is fine; the environment alone is a valid configuration.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	return cfg, nil
}

// IsValid reports whether the API client can be constructed at all.
func (c *Config) IsValid() bool {
	return c.APIKey != ""
}

// EnsureDirectories creates the data directories the store and the screenshot
// capturer write into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{filepath.Dir(c.DBPath), c.ScreenshotsDir}
	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
