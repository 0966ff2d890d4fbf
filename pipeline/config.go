package pipeline

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pagebridge/pagebridge/bridge"
)

// Config is the YAML configuration of the conversion service.
type Config struct {
	Extractor ExtractorConfig `yaml:"extractor"`
	Settings  bridge.Settings `yaml:"settings"`

	// Viewports are the default capture widths for multi-viewport runs.
	Viewports []int `yaml:"viewports"`

	// StorePath is the SQLite file persisting fingerprint maps. Empty
	// disables the store; diffing then needs two explicit payloads.
	StorePath string `yaml:"store_path"`

	Relay RelayConfig `yaml:"relay"`

	LogLevel string `yaml:"log_level"`
}

// ExtractorConfig configures the browser side.
type ExtractorConfig struct {
	// Mode is http, headless, or headful.
	Mode            string        `yaml:"mode"`
	RemoteURL       string        `yaml:"remote_url"`
	NavigateTimeout time.Duration `yaml:"navigate_timeout"`
}

// RelayConfig configures the loopback relay server.
type RelayConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{Settings: bridge.DefaultSettings()}
	c.applyDefaults()
	return c
}

// Load reads a YAML config file and applies defaults. The settings block is
// seeded with the full defaults first: a file that omits it (or individual
// keys) keeps the default behavior instead of silently disabling it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pipeline: read config: %w", err)
	}
	c := Config{Settings: bridge.DefaultSettings()}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("pipeline: parse config: %w", err)
	}
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Extractor.Mode == "" {
		c.Extractor.Mode = "headless"
	}
	if c.Extractor.NavigateTimeout <= 0 {
		c.Extractor.NavigateTimeout = 30 * time.Second
	}
	if len(c.Viewports) == 0 {
		c.Viewports = []int{1440, 768, 375}
	}
	if c.Relay.Addr == "" {
		c.Relay.Addr = "127.0.0.1:8787"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	c.Settings.ApplyDefaults()
}
