// Package config loads audwanee settings from YAML with environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/audwanee/analysis"
	"github.com/lixenwraith/audwanee/parameter"
)

// Config holds all settings
type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	Rain    RainConfig    `yaml:"rain"`
	Audio   AudioConfig   `yaml:"audio"`
	History HistoryConfig `yaml:"history"`
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig selects the model provider
type LLMConfig struct {
	Provider string `yaml:"provider"` // openrouter, gemini
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`
	SiteURL  string `yaml:"site_url"`
	SiteName string `yaml:"site_name"`
}

// RainConfig tunes the background animation
type RainConfig struct {
	Enabled    bool    `yaml:"enabled"`
	FPS        int     `yaml:"fps"`
	CellWidth  float64 `yaml:"cell_width"`
	CellHeight float64 `yaml:"cell_height"`
	Seed       uint64  `yaml:"seed"`
	Background string  `yaml:"background"` // #rrggbb
}

// AudioConfig controls the rain ambience
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"` // 0..1
}

// HistoryConfig controls the analysis archive
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig mirrors the file logger switch, no logs unless Debug
type LoggingConfig struct {
	Debug bool   `yaml:"debug"`
	Level string `yaml:"level"` // debug, info, warn, error
	Dir   string `yaml:"dir"`
}

// DefaultConfig returns built-in settings
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: analysis.ProviderOpenRouter,
			Model:    analysis.DefaultOpenRouterModel,
			Timeout:  analysis.DefaultTimeout.String(),
			SiteName: analysis.DefaultSiteName,
		},
		Rain: RainConfig{
			Enabled:    true,
			FPS:        parameter.RainDefaultFPS,
			CellWidth:  parameter.RainCellWidth,
			CellHeight: parameter.RainCellHeight,
			Background: "#0e0618",
		},
		Audio: AudioConfig{
			Enabled: false,
			Volume:  0.4,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    filepath.Join(DefaultDir(), "history.db"),
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "logs",
		},
	}
}

// DefaultDir is the per-user config directory
func DefaultDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "audwanee")
	}
	return ".audwanee"
}

// DefaultPath is the config file used when none is given
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// Load reads path over the defaults, a missing file yields defaults
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	// API keys may be present
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" && c.LLM.Provider != analysis.ProviderGemini {
		c.LLM.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" && c.LLM.Provider == analysis.ProviderGemini {
		c.LLM.APIKey = key
	}
	if model := os.Getenv("AUDWANEE_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if path := os.Getenv("AUDWANEE_HISTORY"); path != "" {
		c.History.Path = path
	}
}

// Validate checks enumerations and ranges
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case analysis.ProviderOpenRouter, analysis.ProviderGemini:
	default:
		return fmt.Errorf("invalid llm.provider %q", c.LLM.Provider)
	}
	if _, err := c.LLM.TimeoutDuration(); err != nil {
		return err
	}
	if c.Rain.FPS < parameter.RainMinFPS || c.Rain.FPS > parameter.RainMaxFPS {
		return fmt.Errorf("rain.fps out of range %d-%d (got %d)", parameter.RainMinFPS, parameter.RainMaxFPS, c.Rain.FPS)
	}
	if c.Rain.CellWidth <= 0 || c.Rain.CellHeight <= 0 {
		return fmt.Errorf("rain cell size must be positive")
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("audio.volume out of range 0-1 (got %.2f)", c.Audio.Volume)
	}
	return nil
}

// TimeoutDuration parses the request timeout, empty means the default
func (l LLMConfig) TimeoutDuration() (time.Duration, error) {
	if l.Timeout == "" {
		return analysis.DefaultTimeout, nil
	}
	d, err := time.ParseDuration(l.Timeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid llm.timeout %q", l.Timeout)
	}
	return d, nil
}

// ProviderConfig converts to the analysis provider settings
// OpenRouter model ids carry a vendor prefix the direct Gemini API does not accept
func (l LLMConfig) ProviderConfig() analysis.ProviderConfig {
	timeout, _ := l.TimeoutDuration()
	model := l.Model
	if l.Provider == analysis.ProviderGemini {
		model = strings.TrimPrefix(model, "google/")
	}
	return analysis.ProviderConfig{
		Provider: l.Provider,
		APIKey:   l.APIKey,
		BaseURL:  l.BaseURL,
		Model:    model,
		Timeout:  timeout,
		SiteURL:  l.SiteURL,
		SiteName: l.SiteName,
	}
}
