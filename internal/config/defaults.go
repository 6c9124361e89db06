package config

import (
	"github.com/vigcoin/cryptonotewallet/internal/adapter"
	"github.com/vigcoin/cryptonotewallet/internal/coalesce"
	"github.com/vigcoin/cryptonotewallet/internal/engine/local"
	"github.com/vigcoin/cryptonotewallet/internal/keycache"
	"github.com/vigcoin/cryptonotewallet/internal/notify"
)

// DefaultSessionTTL is how long a cached wallet password stays valid.
const DefaultSessionTTL = keycache.DefaultTTL

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.cnwallet",
		Wallet: WalletConfig{
			File:        "default.wallet",
			SaveOnClose: true,
		},
		Notify: NotifyConfig{
			DebounceInterval: coalesce.DefaultInterval,
			DebounceMaxWait:  coalesce.DefaultMaxWait,
			StatusInterval:   adapter.DefaultStatusInterval,
			BlockAgeWarning:  adapter.DefaultBlockAgeWarning,
			QueueBuffer:      notify.DefaultBuffer,
		},
		Engine: EngineConfig{
			SimHeight:   local.DefaultSimHeight,
			BlockTarget: local.DefaultBlockTarget,
			BlockDelay:  local.DefaultBlockDelay,
			MinFee:      local.DefaultMinFee,
			MaxMixin:    local.DefaultMaxMixin,
		},
		Security: SecurityConfig{
			MemoryLock:     true,
			SessionEnabled: true,
			SessionTTL:     DefaultSessionTTL,
		},
		Output: OutputConfig{
			DefaultFormat: "auto",
			Color:         "auto",
			Verbose:       false,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "~/.cnwallet/cnwallet.log",
		},
	}
}
