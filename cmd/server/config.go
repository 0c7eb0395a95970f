package main

import (
	"fmt"

	"github.com/phrazzld/scry-decks/internal/config"
	"github.com/spf13/pflag"
)

// loadAppConfig loads the application configuration from defaults, the config
// file, the environment and the flags in fs.
// Returns the loaded config and any loading error.
func loadAppConfig(fs *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load(fs)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
