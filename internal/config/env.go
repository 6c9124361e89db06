package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// Environment variable names not covered by struct tags.
const (
	EnvPrefix  = "CNWALLET_"
	EnvNoColor = "NO_COLOR"

	// EnvPassword supplies the wallet password to non-interactive runs.
	EnvPassword = "CNWALLET_PASSWORD" // #nosec G101 -- variable name, not a credential
)

// ApplyEnvironment applies CNWALLET_* environment overrides to cfg. Variables
// that are unset leave the current value in place. Nested sections use their
// envPrefix, for example CNWALLET_WALLET_FILE or CNWALLET_LOG_LEVEL.
func ApplyEnvironment(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	// NO_COLOR disables colored output
	if _, ok := os.LookupEnv(EnvNoColor); ok {
		cfg.Output.Color = "never"
	}
	return nil
}
