package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "30s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the standard library representation.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr        string `yaml:"addr"`
		BridgeToken string `yaml:"bridge_token"`
	} `yaml:"server"`
	Wiki struct {
		BaseURL    string   `yaml:"base_url"`
		UserAgent  string   `yaml:"user_agent"`
		RatePerSec float64  `yaml:"rate_per_sec"`
		Timeout    Duration `yaml:"timeout"`
	} `yaml:"wiki"`
	Poll struct {
		Latest    Duration `yaml:"latest_interval"`
		FiveMin   Duration `yaml:"five_min_interval"`
		OneHour   Duration `yaml:"one_hour_interval"`
		Mapping   Duration `yaml:"mapping_interval"`
		Broadcast Duration `yaml:"broadcast_interval"`
	} `yaml:"poll"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides, then fills in defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if _, err := strconv.Atoi(v); err == nil {
			cfg.Server.Addr = ":" + v
		}
	}
	if v := os.Getenv("BRIDGE_TOKEN"); v != "" {
		cfg.Server.BridgeToken = v
	}
	if v := os.Getenv("WIKI_BASE_URL"); v != "" {
		cfg.Wiki.BaseURL = v
	}
	if v := os.Getenv("WIKI_USER_AGENT"); v != "" {
		cfg.Wiki.UserAgent = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8787"
	}
	if cfg.Server.BridgeToken == "" {
		cfg.Server.BridgeToken = "dev-bridge-token"
	}
	if cfg.Wiki.BaseURL == "" {
		cfg.Wiki.BaseURL = "https://prices.runescape.wiki/api/v1/osrs"
	}
	if cfg.Wiki.UserAgent == "" {
		cfg.Wiki.UserAgent = "FlipSentinel market watcher"
	}
	if cfg.Wiki.RatePerSec == 0 {
		cfg.Wiki.RatePerSec = 2
	}
	if cfg.Wiki.Timeout == 0 {
		cfg.Wiki.Timeout = Duration(30 * time.Second)
	}
	if cfg.Poll.Latest == 0 {
		cfg.Poll.Latest = Duration(30 * time.Second)
	}
	if cfg.Poll.FiveMin == 0 {
		cfg.Poll.FiveMin = Duration(60 * time.Second)
	}
	if cfg.Poll.OneHour == 0 {
		cfg.Poll.OneHour = Duration(120 * time.Second)
	}
	if cfg.Poll.Mapping == 0 {
		cfg.Poll.Mapping = Duration(12 * time.Hour)
	}
	if cfg.Poll.Broadcast == 0 {
		cfg.Poll.Broadcast = Duration(30 * time.Second)
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Wiki.BaseURL == "" {
		return fmt.Errorf("wiki.base_url is required")
	}
	if c.Wiki.UserAgent == "" {
		return fmt.Errorf("wiki.user_agent is required")
	}
	if c.Wiki.RatePerSec <= 0 {
		return fmt.Errorf("wiki.rate_per_sec must be positive")
	}
	for name, d := range map[string]Duration{
		"poll.latest_interval":    c.Poll.Latest,
		"poll.five_min_interval":  c.Poll.FiveMin,
		"poll.one_hour_interval":  c.Poll.OneHour,
		"poll.mapping_interval":   c.Poll.Mapping,
		"poll.broadcast_interval": c.Poll.Broadcast,
	} {
		if d.Std() <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}
