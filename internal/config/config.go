package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/pqpriv-whitepaper/internal/logging"
	"github.com/ziadkadry99/pqpriv-whitepaper/internal/navigation"
	"github.com/ziadkadry99/pqpriv-whitepaper/internal/outline"
	"github.com/ziadkadry99/pqpriv-whitepaper/internal/session"
)

// EnvPrefix prefixes environment overrides. A double underscore separates
// nesting levels: WHITEPAPER_NAVIGATION__POLICY sets navigation.policy.
const EnvPrefix = "WHITEPAPER_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (WHITEPAPER_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validPolicies = map[navigation.Policy]bool{
	navigation.PolicyDrop:    true,
	navigation.PolicyReplace: true,
}

var validSettleModes = map[navigation.SettleMode]bool{
	navigation.SettleFixed:  true,
	navigation.SettleStable: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	n := c.Navigation
	if !validPolicies[n.Policy] {
		return fmt.Errorf("invalid navigation.policy %q: must be one of drop, replace", n.Policy)
	}
	if !validSettleModes[n.SettleMode] {
		return fmt.Errorf("invalid navigation.settle_mode %q: must be one of fixed, stable", n.SettleMode)
	}
	if n.ScrollOffset < 0 || n.HeaderHeight < 0 || n.BottomEpsilon < 0 || n.ScrollTopThreshold < 0 {
		return fmt.Errorf("navigation offsets must be non-negative")
	}
	if n.SettleDelay < 0 || n.HighlightActive < 0 || n.HighlightTotal < 0 {
		return fmt.Errorf("navigation durations must be non-negative")
	}
	if n.SettleMode == navigation.SettleStable && (n.SettlePoll <= 0 || n.SettleMaxWait <= 0) {
		return fmt.Errorf("navigation.settle_poll and navigation.settle_max_wait must be positive in stable mode")
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.Server.DataDir == "" {
		return fmt.Errorf("server.data_dir is required")
	}

	if c.Content.DefaultLocale == "" {
		return fmt.Errorf("content.default_locale is required")
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log.format %q: must be one of text, json", c.Log.Format)
	}

	return nil
}

// LoggingOptions returns the logger settings.
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{Level: c.Log.Level, Format: c.Log.Format, File: c.Log.File}
}

// SessionOptions converts the navigation tunables into live session options.
func (c *Config) SessionOptions(logger *slog.Logger) session.Options {
	n := c.Navigation
	return session.Options{
		Tracker: outline.TrackerOptions{Offset: n.ScrollOffset, Epsilon: n.BottomEpsilon},
		Navigation: navigation.Options{
			HeaderHeight:    n.HeaderHeight,
			HighlightActive: n.HighlightActive,
			HighlightTotal:  n.HighlightTotal,
			Policy:          n.Policy,
		},
		Settle: navigation.SettleOptions{
			Mode:    n.SettleMode,
			Delay:   n.SettleDelay,
			Poll:    n.SettlePoll,
			MaxWait: n.SettleMaxWait,
		},
		ScrollTopThreshold: n.ScrollTopThreshold,
		Logger:             logger,
	}
}
