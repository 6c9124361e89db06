package adapter

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/vigcoin/cryptonotewallet/internal/coalesce"
	"github.com/vigcoin/cryptonotewallet/internal/engine"
	"github.com/vigcoin/cryptonotewallet/internal/fileguard"
	"github.com/vigcoin/cryptonotewallet/internal/metrics"
	"github.com/vigcoin/cryptonotewallet/internal/notify"
)

const (
	// DefaultStatusInterval is how often the synchronized status text is
	// refreshed.
	DefaultStatusInterval = 60 * time.Second

	// DefaultBlockAgeWarning is the last-block age that adds a warning to the
	// status text.
	DefaultBlockAgeWarning = 90 * time.Minute

	// DefaultStateTextInterval is the minimum spacing of "Synchronizing"
	// state text updates.
	DefaultStateTextInterval = 250 * time.Millisecond

	// backupSuffix is appended to backup paths that lack it.
	backupSuffix = ".wallet"
)

// Options configures a Session.
type Options struct {
	// WalletFile is the session's wallet path. It can be changed while the
	// session is closed with SetWalletFile.
	WalletFile string

	// Engine creates the wallet engine on every open.
	Engine engine.Factory

	// Guard performs file locking and atomic writes. Nil selects a default
	// guard logging through Logger.
	Guard *fileguard.Guard

	Logger  zerolog.Logger
	Metrics *metrics.Metrics

	DebounceInterval time.Duration
	DebounceMaxWait  time.Duration

	StatusInterval    time.Duration
	BlockAgeWarning   time.Duration
	StateTextInterval time.Duration

	// SaveOnClose makes Close write the wallet before shutting the engine.
	SaveOnClose bool

	QueueBuffer    int
	QueueHighWater int

	// Now is the clock used for status text. Nil selects time.Now.
	Now func() time.Time
}

func (o *Options) applyDefaults() {
	if o.Guard == nil {
		o.Guard = fileguard.New(fileguard.WithLogger(o.Logger))
	}
	if o.Metrics == nil {
		o.Metrics = &metrics.Metrics{}
	}
	if o.DebounceInterval <= 0 {
		o.DebounceInterval = coalesce.DefaultInterval
	}
	if o.DebounceMaxWait <= 0 {
		o.DebounceMaxWait = coalesce.DefaultMaxWait
	}
	if o.StatusInterval <= 0 {
		o.StatusInterval = DefaultStatusInterval
	}
	if o.BlockAgeWarning <= 0 {
		o.BlockAgeWarning = DefaultBlockAgeWarning
	}
	if o.StateTextInterval <= 0 {
		o.StateTextInterval = DefaultStateTextInterval
	}
	if o.QueueBuffer <= 0 {
		o.QueueBuffer = notify.DefaultBuffer
	}
	if o.QueueHighWater <= 0 {
		o.QueueHighWater = notify.DefaultHighWater
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}
