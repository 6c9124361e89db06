// Package local is an in-process wallet engine. It keeps wallet state in
// memory, persists it as an age-encrypted JSON document and simulates chain
// synchronization against a Node. Commands run on a worker goroutine and every
// callback fires from an engine-owned goroutine.
package local

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vigcoin/cryptonotewallet/internal/crypto"
	"github.com/vigcoin/cryptonotewallet/internal/engine"
)

const (
	// DefaultMinFee is the smallest fee SendTransaction accepts.
	DefaultMinFee = 10

	// DefaultMaxMixin is the largest mixin count SendTransaction accepts.
	DefaultMaxMixin = 10

	// DefaultBlockDelay is the simulated time to process one block.
	DefaultBlockDelay = 5 * time.Millisecond

	// DefaultSendDelay is the simulated relay time of an outgoing transaction.
	DefaultSendDelay = 50 * time.Millisecond

	// DefaultConfirmDelay is the time before a deposit leaves pending.
	DefaultConfirmDelay = 200 * time.Millisecond

	// DefaultPollInterval is how often a synchronized wallet polls the node.
	DefaultPollInterval = time.Second

	maxTransfers = 16
	commandQueue = 16
)

// Options configures an Engine.
type Options struct {
	Node         Node
	Logger       zerolog.Logger
	MinFee       uint64
	MaxMixin     uint64
	BlockDelay   time.Duration
	SendDelay    time.Duration
	ConfirmDelay time.Duration
	PollInterval time.Duration
}

func (o *Options) applyDefaults() {
	if o.Node == nil {
		o.Node = NewSimNode(DefaultSimHeight, DefaultBlockTarget, time.Now())
	}
	if o.MinFee == 0 {
		o.MinFee = DefaultMinFee
	}
	if o.MaxMixin == 0 {
		o.MaxMixin = DefaultMaxMixin
	}
	if o.BlockDelay <= 0 {
		o.BlockDelay = DefaultBlockDelay
	}
	if o.SendDelay <= 0 {
		o.SendDelay = DefaultSendDelay
	}
	if o.ConfirmDelay <= 0 {
		o.ConfirmDelay = DefaultConfirmDelay
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
}

// Engine is the local engine. It implements engine.Engine.
type Engine struct {
	opts Options
	log  zerolog.Logger

	mu        sync.Mutex
	observers []engine.Observer
	wallet    *walletState
	password  *crypto.Secret
	lastBlock time.Time
	initing   bool

	balanceMu sync.Mutex

	cmds     chan func()
	quit     chan struct{}
	quitOnce sync.Once
	wg       sync.WaitGroup
}

var _ engine.Engine = (*Engine)(nil)

// New creates an engine and starts its worker.
func New(opts Options) *Engine {
	opts.applyDefaults()
	e := &Engine{
		opts: opts,
		log:  opts.Logger.With().Str("component", "engine").Logger(),
		cmds: make(chan func(), commandQueue),
		quit: make(chan struct{}),
	}
	e.wg.Add(1)
	go e.worker()
	return e
}

// Factory returns an engine.Factory producing engines with opts.
func Factory(opts Options) engine.Factory {
	return func() (engine.Engine, error) {
		return New(opts), nil
	}
}

func (e *Engine) worker() {
	defer e.wg.Done()
	for {
		select {
		case <-e.quit:
			return
		case fn := <-e.cmds:
			fn()
		}
	}
}

// enqueue hands fn to the worker.
func (e *Engine) enqueue(fn func()) error {
	select {
	case <-e.quit:
		return engine.ErrOperationCancelled
	default:
	}
	select {
	case e.cmds <- fn:
		return nil
	case <-e.quit:
		return engine.ErrOperationCancelled
	}
}

// spawn runs fn on a tracked goroutine so Shutdown can wait for it. Nothing
// is started once Shutdown began.
func (e *Engine) spawn(fn func()) {
	e.mu.Lock()
	if e.stopping() {
		e.mu.Unlock()
		return
	}
	e.wg.Add(1)
	e.mu.Unlock()

	go func() {
		defer e.wg.Done()
		fn()
	}()
}

// sleep waits for d and reports false if the engine shut down meanwhile.
func (e *Engine) sleep(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-e.quit:
		return false
	}
}

func (e *Engine) stopping() bool {
	select {
	case <-e.quit:
		return true
	default:
		return false
	}
}

// AddObserver registers o for callbacks.
func (e *Engine) AddObserver(o engine.Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, o)
}

// RemoveObserver unregisters o.
func (e *Engine) RemoveObserver(o engine.Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, obs := range e.observers {
		if obs == o {
			e.observers = append(e.observers[:i:i], e.observers[i+1:]...)
			return
		}
	}
}

// notify calls fn for every observer. It never runs under e.mu so observers
// may query the engine from inside a callback.
func (e *Engine) notify(fn func(engine.Observer)) {
	if e.stopping() {
		return
	}
	e.mu.Lock()
	obs := make([]engine.Observer, len(e.observers))
	copy(obs, e.observers)
	e.mu.Unlock()

	for _, o := range obs {
		fn(o)
	}
}

// beginInit marks an init as running. It fails if the engine already holds a
// wallet or another init is queued.
func (e *Engine) beginInit() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.wallet != nil || e.initing {
		return engine.ErrAlreadyInitialized
	}
	e.initing = true
	return nil
}

func (e *Engine) finishInit(w *walletState, password string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.initing = false
	if w == nil {
		return
	}
	e.wallet = w
	e.password = crypto.NewSecretString(password)
	if w.Height > 0 {
		e.lastBlock = e.opts.Node.BlockTime(w.Height)
	}
}

// InitAndGenerate creates a new wallet with fresh keys.
func (e *Engine) InitAndGenerate(password string) error {
	if err := e.beginInit(); err != nil {
		return err
	}
	err := e.enqueue(func() {
		w, err := generateWallet()
		if err != nil {
			e.finishInit(nil, "")
			e.notify(func(o engine.Observer) { o.InitCompleted(err) })
			return
		}
		e.finishInit(w, password)
		e.log.Info().Str("address", w.Address).Msg("generated wallet")
		e.notify(func(o engine.Observer) { o.InitCompleted(nil) })
		e.startSync()
	})
	if err != nil {
		e.finishInit(nil, "")
	}
	return err
}

// InitAndLoad reads a wallet from r on the worker goroutine.
func (e *Engine) InitAndLoad(r io.Reader, password string) error {
	if err := e.beginInit(); err != nil {
		return err
	}
	err := e.enqueue(func() {
		w, err := decodeWallet(r, password)
		if err != nil {
			e.finishInit(nil, "")
			e.log.Debug().Err(err).Msg("wallet load failed")
			e.notify(func(o engine.Observer) { o.InitCompleted(err) })
			return
		}
		e.finishInit(w, password)
		e.log.Info().Str("address", w.Address).Uint64("height", w.Height).Msg("loaded wallet")
		e.notify(func(o engine.Observer) { o.InitCompleted(nil) })
		e.startSync()
	})
	if err != nil {
		e.finishInit(nil, "")
	}
	return err
}

// Save serializes the wallet to w on the worker goroutine. Without details
// the transaction history is left out; without cache the sync height is, so
// the next load resynchronizes from scratch.
func (e *Engine) Save(w io.Writer, details, cache bool) error {
	if !e.initialized() {
		return engine.ErrNotInitialized
	}
	return e.enqueue(func() {
		err := e.save(w, details, cache)
		if err != nil {
			e.log.Error().Err(err).Msg("wallet save failed")
		}
		e.notify(func(o engine.Observer) { o.SaveCompleted(err) })
	})
}

func (e *Engine) save(w io.Writer, details, cache bool) error {
	e.mu.Lock()
	snapshot := e.wallet.clone(details, cache)
	password := e.password.String()
	e.mu.Unlock()

	data, err := encodeWallet(snapshot, password)
	if err != nil {
		return err
	}
	if _, err = w.Write(data); err != nil {
		return fmt.Errorf("writing wallet: %w", err)
	}
	return nil
}

// ChangePassword replaces the in-memory password. The file keeps the old
// password until the next Save.
func (e *Engine) ChangePassword(oldPassword, newPassword string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.wallet == nil {
		return engine.ErrNotInitialized
	}
	if !e.password.Equal(oldPassword) {
		return engine.ErrWrongPassword
	}
	e.password.Destroy()
	e.password = crypto.NewSecretString(newPassword)
	return nil
}

// Shutdown stops the worker and every background goroutine. It must not be
// called from an observer callback.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	e.quitOnce.Do(func() { close(e.quit) })
	e.mu.Unlock()
	e.wg.Wait()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.password != nil {
		e.password.Destroy()
	}
	e.observers = nil
}

func (e *Engine) initialized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.wallet != nil
}

// Address returns the wallet address, or "" before init.
func (e *Engine) Address() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.wallet == nil {
		return ""
	}
	return e.wallet.Address
}

// Mnemonic returns the recovery phrase of the wallet.
func (e *Engine) Mnemonic() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.wallet == nil {
		return ""
	}
	return e.wallet.Mnemonic
}

func (e *Engine) ActualBalance() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.wallet == nil {
		return 0
	}
	return e.wallet.Actual
}

func (e *Engine) PendingBalance() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.wallet == nil {
		return 0
	}
	return e.wallet.Pending
}

func (e *Engine) TransactionCount() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.wallet == nil {
		return 0
	}
	return uint64(len(e.wallet.Transactions))
}

func (e *Engine) TransferCount() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.wallet == nil {
		return 0
	}
	return uint64(len(e.wallet.Transfers))
}

func (e *Engine) Transaction(id engine.TransactionID) (engine.Transaction, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.wallet == nil || id >= engine.TransactionID(len(e.wallet.Transactions)) {
		return engine.Transaction{}, false
	}
	return e.wallet.Transactions[id], true
}

func (e *Engine) Transfer(id engine.TransferID) (engine.Transfer, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.wallet == nil || id >= engine.TransferID(len(e.wallet.Transfers)) {
		return engine.Transfer{}, false
	}
	return e.wallet.Transfers[id], true
}

// LastBlock returns the height and timestamp of the newest processed block.
func (e *Engine) LastBlock() (uint64, time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.wallet == nil {
		return 0, time.Time{}
	}
	return e.wallet.Height, e.lastBlock
}
