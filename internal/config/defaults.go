package config

import (
	"github.com/ziadkadry99/pqpriv-whitepaper/internal/content"
	"github.com/ziadkadry99/pqpriv-whitepaper/internal/navigation"
	"github.com/ziadkadry99/pqpriv-whitepaper/internal/outline"
	"github.com/ziadkadry99/pqpriv-whitepaper/internal/session"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = ".whitepaper.yml"

// DefaultConfig returns a Config with the reference tunables.
func DefaultConfig() *Config {
	return &Config{
		Navigation: NavigationConfig{
			ScrollOffset:       outline.DefaultScrollOffset,
			HeaderHeight:       navigation.DefaultHeaderHeight,
			BottomEpsilon:      outline.DefaultBottomEpsilon,
			ScrollTopThreshold: session.DefaultScrollTopThreshold,
			SettleDelay:        navigation.DefaultSettleDelay,
			HighlightActive:    navigation.DefaultHighlightActive,
			HighlightTotal:     navigation.DefaultHighlightTotal,
			Policy:             navigation.PolicyDrop,
			SettleMode:         navigation.SettleFixed,
			SettlePoll:         navigation.DefaultSettlePoll,
			SettleMaxWait:      navigation.DefaultSettleMaxWait,
		},
		Server: ServerConfig{
			Port:    8080,
			DataDir: "data",
		},
		Content: ContentConfig{
			DefaultLocale: content.DefaultLocale,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
