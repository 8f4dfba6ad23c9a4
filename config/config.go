package config

import (
	"fmt"
	"os"
	"time"
)

type ProviderSettings struct {
	ID      string `toml:"id"`
	BaseURL string `toml:"base_url,omitempty"`
	Model   string `toml:"model,omitempty"`
	APIKey  string `toml:"api_key,omitempty"`
}

type SuggestSettings struct {
	DebounceMS     int    `toml:"debounce_ms"`
	MaxResults     int    `toml:"max_results"`
	MaxSuggestions int    `toml:"max_suggestions"`
	FallbackDomain string `toml:"fallback_domain"`
}

type CacheSettings struct {
	TTLSeconds int `toml:"ttl_seconds"`
}

type ContextSettings struct {
	PageTextDelayMS int `toml:"page_text_delay_ms"`
	PageTextLimit   int `toml:"page_text_limit"`
}

type PromptSettings struct {
	Count     int `toml:"count"`
	PerMinute int `toml:"per_minute"`
}

// Settings mirrors settings.toml.
type Settings struct {
	DataDirectory string           `toml:"data_directory"`
	Provider      ProviderSettings `toml:"provider"`
	Suggest       SuggestSettings  `toml:"suggest"`
	Cache         CacheSettings    `toml:"cache"`
	Context       ContextSettings  `toml:"context"`
	Prompts       PromptSettings   `toml:"prompts"`
	Keys          KeyBindings      `toml:"keys"`
}

// Config is the resolved runtime configuration (settings file + env overrides).
type Config struct {
	Settings
}

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Suggest.DebounceMS) * time.Millisecond
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

func (c *Config) PageTextDelay() time.Duration {
	return time.Duration(c.Context.PageTextDelayMS) * time.Millisecond
}

func (c *Config) applyEnvOverrides() {
	if dataDir := os.Getenv("SMARTBAR_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if id := os.Getenv("SMARTBAR_PROVIDER"); id != "" {
		c.Provider.ID = id
	}
	if model := os.Getenv("SMARTBAR_MODEL"); model != "" {
		c.Provider.Model = model
	}
	if baseURL := os.Getenv("SMARTBAR_BASE_URL"); baseURL != "" {
		c.Provider.BaseURL = baseURL
	}
	if apiKey := os.Getenv("SMARTBAR_API_KEY"); apiKey != "" {
		c.Provider.APIKey = apiKey
	}
}

// fillZero replaces unset numeric tunables with defaults so a partial
// settings file never yields a zero debounce or an empty cache TTL.
func (c *Config) fillZero() {
	d := DefaultSettings()
	if c.DataDirectory == "" {
		c.DataDirectory = d.DataDirectory
	}
	if c.Provider.ID == "" {
		c.Provider = d.Provider
	}
	if c.Suggest.DebounceMS <= 0 {
		c.Suggest.DebounceMS = d.Suggest.DebounceMS
	}
	if c.Suggest.MaxResults <= 0 {
		c.Suggest.MaxResults = d.Suggest.MaxResults
	}
	if c.Suggest.MaxSuggestions <= 0 {
		c.Suggest.MaxSuggestions = d.Suggest.MaxSuggestions
	}
	if c.Suggest.FallbackDomain == "" {
		c.Suggest.FallbackDomain = d.Suggest.FallbackDomain
	}
	if c.Cache.TTLSeconds <= 0 {
		c.Cache.TTLSeconds = d.Cache.TTLSeconds
	}
	if c.Context.PageTextDelayMS <= 0 {
		c.Context.PageTextDelayMS = d.Context.PageTextDelayMS
	}
	if c.Context.PageTextLimit <= 0 {
		c.Context.PageTextLimit = d.Context.PageTextLimit
	}
	if c.Prompts.Count <= 0 {
		c.Prompts.Count = d.Prompts.Count
	}
	if c.Prompts.PerMinute <= 0 {
		c.Prompts.PerMinute = d.Prompts.PerMinute
	}
	if c.Keys.Modifier == "" {
		c.Keys.Modifier = d.Keys.Modifier
	}
}

// Load reads settings.toml (creating it from the template on first run),
// applies SMARTBAR_* overrides and makes sure the data directory exists.
func Load() (*Config, error) {
	settings, err := LoadSettings(GetSettingsFilePath())
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	cfg := &Config{Settings: *settings}
	cfg.applyEnvOverrides()
	cfg.fillZero()

	dataDir := cfg.DataDir()
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to prepare data directory: %w", err)
	}

	return cfg, nil
}
