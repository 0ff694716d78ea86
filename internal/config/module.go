// Package config provides configuration infrastructure and Fx modules.
package config

import (
	"fmt"

	"go.uber.org/fx"
)

// Module provides the validated configuration. The file path is supplied by
// the caller.
var Module = fx.Module("config",
	fx.Provide(LoadValidated),
)

// LoadValidated loads the configuration and rejects it if the bot could not
// start with it.
func LoadValidated(filePath string) (*Config, error) {
	cfg, err := LoadConfig(filePath)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
