package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ziadkadry99/pqpriv-whitepaper/internal/config"
	"github.com/ziadkadry99/pqpriv-whitepaper/internal/content"
	"github.com/ziadkadry99/pqpriv-whitepaper/internal/logging"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `whitepaper init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the process logger. --verbose forces debug level.
func newLogger(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	opts := cfg.LoggingOptions()
	if verbose {
		opts.Level = "debug"
	}
	return logging.New(opts, os.Stderr)
}

// openCatalog loads the whitepaper copy named by the config.
func openCatalog(cfg *config.Config) (*content.Catalog, error) {
	cat, err := content.Open(cfg.Content.Dir, cfg.Content.DefaultLocale)
	if err != nil {
		return nil, fmt.Errorf("loading content: %w", err)
	}
	return cat, nil
}
