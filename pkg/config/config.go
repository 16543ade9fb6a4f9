package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed config.toml.sample
var configTemplate string

// Environment variables consulted, in order, when api_key is empty.
var apiKeyEnvVars = []string{"GEMINI_API_KEY", "API_KEY"}

type Config struct {
	APIKey           string    `toml:"api_key"`
	Model            string    `toml:"model"`
	DegradeOnFailure bool      `toml:"degrade_on_failure"`
	ProviderTimeout  Duration  `toml:"provider_timeout"`
	FallbackDelay    Duration  `toml:"fallback_delay"`
	SearchTimeout    Duration  `toml:"search_timeout"`
	Web              WebConfig `toml:"web"`

	// APIKeySource records where APIKey came from: "config", "env:<NAME>" or
	// "" when no key is available.
	APIKeySource string `toml:"-"`
}

type WebConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func GetDefaultConfig() *Config {
	return &Config{
		Model:            "gemini-2.5-flash",
		DegradeOnFailure: true,
		ProviderTimeout:  Duration{20 * time.Second},
		FallbackDelay:    Duration{1200 * time.Millisecond},
		SearchTimeout:    Duration{45 * time.Second},
		Web: WebConfig{
			Host: "localhost",
			Port: 8080,
		},
	}
}

// LoadConfig reads configPath on top of the defaults. A missing file yields
// the defaults. The API key is resolved from the environment when the file
// does not set one.
func LoadConfig(configPath string) (*Config, error) {
	cfg := GetDefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("unmarshaling config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	cfg.resolveAPIKey()
	return cfg, nil
}

func (c *Config) normalize() error {
	if c.Model == "" {
		c.Model = "gemini-2.5-flash"
	}
	if c.ProviderTimeout.Duration < 0 || c.FallbackDelay.Duration < 0 || c.SearchTimeout.Duration < 0 {
		return fmt.Errorf("invalid config: durations must not be negative")
	}
	if c.Web.Port < 0 || c.Web.Port > 65535 {
		return fmt.Errorf("invalid config: web port %d out of range", c.Web.Port)
	}
	return nil
}

func (c *Config) resolveAPIKey() {
	c.APIKey = strings.TrimSpace(c.APIKey)
	if c.APIKey != "" {
		c.APIKeySource = "config"
		return
	}
	for _, name := range apiKeyEnvVars {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			c.APIKey = v
			c.APIKeySource = "env:" + name
			return
		}
	}
	c.APIKeySource = ""
}

// SaveTemplateConfig writes the commented sample configuration to configPath.
// An existing file is never overwritten.
func SaveTemplateConfig(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file %s already exists", configPath)
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(configPath, []byte(configTemplate), 0600)
}

// GetConfigDir returns the configuration directory for ofertas
func GetConfigDir() (string, error) {
	// Use XDG_CONFIG_HOME if set, otherwise use ~/.config
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "ofertas"), nil
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
