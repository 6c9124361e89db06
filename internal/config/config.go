// Package config provides configuration management for cnwallet.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	cnerr "github.com/vigcoin/cryptonotewallet/pkg/errors"
)

// Config represents the application configuration.
type Config struct {
	Version  int            `yaml:"version"`
	Home     string         `yaml:"home" env:"HOME"`
	Wallet   WalletConfig   `yaml:"wallet" envPrefix:"WALLET_"`
	Notify   NotifyConfig   `yaml:"notify" envPrefix:"NOTIFY_"`
	Engine   EngineConfig   `yaml:"engine" envPrefix:"ENGINE_"`
	Security SecurityConfig `yaml:"security" envPrefix:"SECURITY_"`
	Output   OutputConfig   `yaml:"output" envPrefix:"OUTPUT_"`
	Logging  LoggingConfig  `yaml:"logging" envPrefix:"LOG_"`
}

// WalletConfig defines the wallet file and its persistence policy.
type WalletConfig struct {
	File        string `yaml:"file" env:"FILE"`
	SaveOnClose bool   `yaml:"save_on_close" env:"SAVE_ON_CLOSE"`
}

// NotifyConfig tunes the notification path.
type NotifyConfig struct {
	DebounceInterval time.Duration `yaml:"debounce_interval" env:"DEBOUNCE_INTERVAL"`
	DebounceMaxWait  time.Duration `yaml:"debounce_max_wait" env:"DEBOUNCE_MAX_WAIT"`
	StatusInterval   time.Duration `yaml:"status_interval" env:"STATUS_INTERVAL"`
	BlockAgeWarning  time.Duration `yaml:"block_age_warning" env:"BLOCK_AGE_WARNING"`
	QueueBuffer      int           `yaml:"queue_buffer" env:"QUEUE_BUFFER"`
}

// EngineConfig configures the local engine.
type EngineConfig struct {
	SimHeight   uint64        `yaml:"sim_height" env:"SIM_HEIGHT"`
	BlockTarget time.Duration `yaml:"block_target" env:"BLOCK_TARGET"`
	BlockDelay  time.Duration `yaml:"block_delay" env:"BLOCK_DELAY"`
	MinFee      uint64        `yaml:"min_fee" env:"MIN_FEE"`
	MaxMixin    uint64        `yaml:"max_mixin" env:"MAX_MIXIN"`
}

// SecurityConfig defines security settings.
type SecurityConfig struct {
	MemoryLock       bool          `yaml:"memory_lock" env:"MEMORY_LOCK"`
	SessionEnabled   bool          `yaml:"session_enabled" env:"SESSION_ENABLED"`
	SessionTTL       time.Duration `yaml:"session_ttl" env:"SESSION_TTL"`
	ScryptWorkFactor int           `yaml:"scrypt_work_factor" env:"SCRYPT_WORK_FACTOR"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" env:"FORMAT"`
	Color         string `yaml:"color" env:"COLOR"`
	Verbose       bool   `yaml:"verbose" env:"VERBOSE"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level" env:"LEVEL"`
	File  string `yaml:"file" env:"FILE"`
}

var errUnknownFormat = errors.New("unknown output format")

// Load reads configuration from the specified file. Keys missing from the
// file keep their default values.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, cnerr.WithCause(cnerr.ErrConfigInvalid, err)
	}

	return cfg, nil
}

// LoadOrDefault loads path, falling back to the defaults when the file does
// not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Defaults(), nil
	}
	return cfg, err
}

// Save writes configuration to the specified file.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Merge copies every non-zero field of overrides onto cfg. Command-line flags
// are collected into a sparse Config and merged last.
func Merge(cfg, overrides *Config) error {
	if overrides == nil {
		return nil
	}
	if err := mergo.Merge(cfg, overrides, mergo.WithOverride); err != nil {
		return fmt.Errorf("merging config overrides: %w", err)
	}
	return nil
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	switch c.Output.DefaultFormat {
	case "", "auto", "text", "json":
	default:
		return cnerr.WithDetails(cnerr.WithCause(cnerr.ErrConfigInvalid, errUnknownFormat),
			map[string]string{"output.default_format": c.Output.DefaultFormat})
	}
	if c.Notify.DebounceMaxWait > 0 && c.Notify.DebounceMaxWait < c.Notify.DebounceInterval {
		return cnerr.WithDetails(cnerr.ErrConfigInvalid,
			map[string]string{"notify.debounce_max_wait": "must not be shorter than notify.debounce_interval"})
	}
	if c.Security.ScryptWorkFactor != 0 && (c.Security.ScryptWorkFactor < 10 || c.Security.ScryptWorkFactor > 30) {
		return cnerr.WithDetails(cnerr.ErrConfigInvalid,
			map[string]string{"security.scrypt_work_factor": "must be between 10 and 30"})
	}
	return nil
}

// Path returns the default config file path.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// GetHome returns the cnwallet home directory with "~" expanded.
func (c *Config) GetHome() string {
	return ExpandPath(c.Home)
}

// WalletPath returns the wallet file path. Relative paths are resolved
// against the home directory.
func (c *Config) WalletPath() string {
	p := ExpandPath(c.Wallet.File)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.GetHome(), p)
}

// GetLoggingLevel returns the configured logging level.
func (c *Config) GetLoggingLevel() string {
	return c.Logging.Level
}

// GetLoggingFile returns the configured log file path.
func (c *Config) GetLoggingFile() string {
	return ExpandPath(c.Logging.File)
}

// GetOutputFormat returns the default output format.
func (c *Config) GetOutputFormat() string {
	return c.Output.DefaultFormat
}

// IsVerbose returns true if verbose output is enabled.
func (c *Config) IsVerbose() bool {
	return c.Output.Verbose
}

// GetSecurity returns the security configuration.
func (c *Config) GetSecurity() SecurityConfig {
	return c.Security
}

// DefaultHome returns the default cnwallet home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cnwallet"
	}
	return filepath.Join(home, ".cnwallet")
}

// ExpandPath replaces a leading "~/" with the user's home directory.
func ExpandPath(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}
