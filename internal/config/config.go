package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lu-zhengda/escalytics/internal/domain"
)

// Config holds all escalytics configuration.
type Config struct {
	Gmail      GmailConfig      `toml:"gmail"`
	Accounts   AccountsConfig   `toml:"accounts"`
	Generation GenerationConfig `toml:"generation"`
	Analysis   map[string]bool  `toml:"analysis"`
	Draft      DraftConfig      `toml:"draft"`
	Log        LogConfig        `toml:"log"`
}

// GmailConfig holds Gmail OAuth credentials.
type GmailConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// AccountsConfig holds account selection settings.
type AccountsConfig struct {
	Default string `toml:"default"`
}

// GenerationConfig selects the text-generation endpoint used for replies.
type GenerationConfig struct {
	APIKey     string `toml:"api_key"`
	BaseURL    string `toml:"base_url"`
	Model      string `toml:"model"`
	Timeout    string `toml:"timeout"`
	MaxRetries int    `toml:"max_retries"`
}

// TimeoutDuration parses Timeout. An empty value yields zero.
func (g GenerationConfig) TimeoutDuration() (time.Duration, error) {
	if g.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(g.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid generation timeout %q: %w", g.Timeout, err)
	}
	return d, nil
}

// DraftConfig holds settings for generated drafts.
type DraftConfig struct {
	// DefaultTo is the recipient used when the analyzed text has no sender.
	DefaultTo string `toml:"default_to"`
	From      string `toml:"from"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// apiKeyEnvVars are checked in order when no key is configured.
var apiKeyEnvVars = []string{"ESCALYTICS_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY"}

func defaults() Config {
	return Config{
		Generation: GenerationConfig{
			BaseURL:    "https://generativelanguage.googleapis.com/v1beta/openai/",
			Model:      "gemini-1.5-flash",
			Timeout:    "30s",
			MaxRetries: 2,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads config from path. If path is empty, returns defaults.
// Environment variables fill credentials the file leaves empty.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}
	cfg.applyEnv()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if c.Gmail.ClientID == "" || c.Gmail.ClientSecret == "" {
		id, secret := os.Getenv("GMAIL_CLIENT_ID"), os.Getenv("GMAIL_CLIENT_SECRET")
		if id != "" && secret != "" {
			c.Gmail.ClientID = id
			c.Gmail.ClientSecret = secret
		}
	}
	if c.Generation.APIKey == "" {
		for _, name := range apiKeyEnvVars {
			if v := os.Getenv(name); v != "" {
				c.Generation.APIKey = v
				break
			}
		}
	}
}

// AnalysisConfig converts the [analysis] table. With no table every
// analysis is enabled; otherwise analyses not listed are disabled.
func (c *Config) AnalysisConfig() (domain.AnalysisConfig, error) {
	if len(c.Analysis) == 0 {
		return domain.DefaultAnalysisConfig(), nil
	}
	out := make(domain.AnalysisConfig, len(c.Analysis))
	for name, enabled := range c.Analysis {
		a, err := domain.ParseAnalysis(name)
		if err != nil {
			return nil, fmt.Errorf("invalid [analysis] entry: %w", err)
		}
		out[a] = enabled
	}
	return out, nil
}

// ConfigDir returns the escalytics config directory path.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "escalytics")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "escalytics")
}

// DataDir returns the escalytics data directory path.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "escalytics")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "escalytics")
}
