package config

import (
	"time"

	"github.com/ziadkadry99/pqpriv-whitepaper/internal/navigation"
)

// Config is the top-level reader configuration, corresponding to .whitepaper.yml.
type Config struct {
	Navigation NavigationConfig `yaml:"navigation" koanf:"navigation"`
	Server     ServerConfig     `yaml:"server" koanf:"server"`
	Content    ContentConfig    `yaml:"content" koanf:"content"`
	Log        LogConfig        `yaml:"log" koanf:"log"`
}

// NavigationConfig holds the scroll spy and jump tunables.
type NavigationConfig struct {
	ScrollOffset       float64               `yaml:"scroll_offset" koanf:"scroll_offset"`
	HeaderHeight       float64               `yaml:"header_height" koanf:"header_height"`
	BottomEpsilon      float64               `yaml:"bottom_epsilon" koanf:"bottom_epsilon"`
	ScrollTopThreshold float64               `yaml:"scroll_top_threshold" koanf:"scroll_top_threshold"`
	SettleDelay        time.Duration         `yaml:"settle_delay" koanf:"settle_delay"`
	HighlightActive    time.Duration         `yaml:"highlight_active" koanf:"highlight_active"`
	HighlightTotal     time.Duration         `yaml:"highlight_total" koanf:"highlight_total"`
	Policy             navigation.Policy     `yaml:"policy" koanf:"policy"`
	SettleMode         navigation.SettleMode `yaml:"settle_mode" koanf:"settle_mode"`
	SettlePoll         time.Duration         `yaml:"settle_poll" koanf:"settle_poll"`
	SettleMaxWait      time.Duration         `yaml:"settle_max_wait" koanf:"settle_max_wait"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int      `yaml:"port" koanf:"port"`
	DataDir         string   `yaml:"data_dir" koanf:"data_dir"`
	AllowAllOrigins bool     `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	AllowedOrigins  []string `yaml:"allowed_origins,omitempty" koanf:"allowed_origins"`
}

// ContentConfig selects the whitepaper copy.
type ContentConfig struct {
	// Dir overrides the embedded content tree when set.
	Dir           string `yaml:"dir" koanf:"dir"`
	DefaultLocale string `yaml:"default_locale" koanf:"default_locale"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level" koanf:"level"`
	Format string `yaml:"format" koanf:"format"`
	File   string `yaml:"file" koanf:"file"`
}
