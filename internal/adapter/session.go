// Package adapter coordinates one wallet engine at a time. A Session owns the
// engine's lifecycle, serializes every write to the wallet file, and turns
// engine callbacks arriving on foreign goroutines into an ordered notification
// stream for a single consumer.
//
// Locking: mu guards the phase, wallet path and engine handle. The write-side
// token serializes open/close I/O, save, backup and password changes; it is
// never held while publishing. The translator's ordering mutex is taken before
// mu and never the other way round.
package adapter

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vigcoin/cryptonotewallet/internal/coalesce"
	"github.com/vigcoin/cryptonotewallet/internal/engine"
	"github.com/vigcoin/cryptonotewallet/internal/fileguard"
	"github.com/vigcoin/cryptonotewallet/internal/metrics"
	"github.com/vigcoin/cryptonotewallet/internal/notify"
	cnerr "github.com/vigcoin/cryptonotewallet/pkg/errors"
)

var (
	errNoEngine     = errors.New("engine factory is required")
	errNoTransfers  = errors.New("at least one transfer is required")
	errBackupTarget = errors.New("backup path is the wallet file")
)

// Session is the wallet session adapter.
type Session struct {
	id      string
	opts    Options
	log     zerolog.Logger
	guard   *fileguard.Guard
	metrics *metrics.Metrics
	queue   *notify.Queue
	batches *coalesce.Debouncer
	status  *statusReporter

	// token is the write-side token; a send acquires, a receive releases.
	token chan struct{}

	mu         sync.Mutex
	phase      Phase
	walletFile string
	eng        engine.Engine
	tr         *translator

	pending atomic.Pointer[writeOp]

	hubOnce sync.Once
	hub     *notify.Hub

	activities       atomic.Uint32
	actualBalance    atomic.Uint64
	pendingBalance   atomic.Uint64
	synchronized     atomic.Bool
	lastTxID         atomic.Uint64
	syncCurrent      atomic.Uint32
	syncTotal        atomic.Uint32
	backupInProgress atomic.Bool
	shutdown         atomic.Bool
}

// New creates a closed session. The caller owns its lifetime and must call
// Shutdown when done.
func New(opts Options) (*Session, error) {
	if opts.Engine == nil {
		return nil, cnerr.WithCause(cnerr.ErrInvalidInput, errNoEngine)
	}
	opts.applyDefaults()

	id := uuid.NewString()
	s := &Session{
		id:         id,
		opts:       opts,
		log:        opts.Logger.With().Str("session_id", id).Logger(),
		guard:      opts.Guard,
		metrics:    opts.Metrics,
		queue:      notify.NewQueue(opts.QueueBuffer, opts.QueueHighWater),
		token:      make(chan struct{}, 1),
		walletFile: opts.WalletFile,
	}
	s.batches = coalesce.New(opts.DebounceInterval, opts.DebounceMaxWait, s.flushBatch)
	s.batches.Stop()
	s.status = &statusReporter{s: s}
	s.resetState()
	return s, nil
}

// SessionID returns the unique id stamped on every notification.
func (s *Session) SessionID() string {
	return s.id
}

// Notifications returns the session's notification stream. It has a single
// consumer and is closed by Shutdown.
func (s *Session) Notifications() <-chan notify.Notification {
	return s.queue.C()
}

// Hub returns a fan-out of the notification stream, created on first use.
// From then on the hub is the stream's consumer: subscribe to it instead of
// reading Notifications.
func (s *Session) Hub() *notify.Hub {
	s.hubOnce.Do(func() {
		s.hub = notify.NewHub(s.queue.C())
	})
	return s.hub
}

// Metrics returns the session's counters.
func (s *Session) Metrics() *metrics.Metrics {
	return s.metrics
}

func (s *Session) publish(n notify.Notification) {
	n.SessionID = s.id
	if s.queue.Publish(n) {
		s.metrics.RecordPublished()
	} else {
		s.metrics.RecordDropped()
	}
}

// flushBatch turns a coalesced batch into at most two notifications, created
// before updated.
func (s *Session) flushBatch(b coalesce.Batch) {
	s.metrics.RecordBatch(b.Count)
	if len(b.Created) > 0 {
		s.publish(notify.Notification{
			Kind:           notify.TransactionCreated,
			TransactionID:  b.LastCreated,
			TransactionIDs: b.Created,
		})
	}
	if len(b.Updated) > 0 {
		s.publish(notify.Notification{
			Kind:           notify.TransactionUpdated,
			TransactionID:  b.LastUpdated,
			TransactionIDs: b.Updated,
		})
	}
}

func (s *Session) tryAcquire() bool {
	select {
	case s.token <- struct{}{}:
		return true
	default:
		return false
	}
}

func (s *Session) acquire(ctx context.Context) error {
	select {
	case s.token <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) release() {
	<-s.token
}

func (s *Session) setPhase(p Phase) {
	s.mu.Lock()
	s.phase = p
	s.mu.Unlock()
}

func (s *Session) setActivity(a Activity) {
	s.activities.Or(uint32(a))
}

func (s *Session) clearActivity(a Activity) {
	s.activities.And(^uint32(a))
}

// resetState clears every atomic so a new open starts from nothing.
func (s *Session) resetState() {
	s.activities.Store(0)
	s.actualBalance.Store(0)
	s.pendingBalance.Store(0)
	s.synchronized.Store(false)
	s.lastTxID.Store(uint64(engine.InvalidTransactionID))
	s.syncCurrent.Store(0)
	s.syncTotal.Store(0)
	s.backupInProgress.Store(false)
}

// Open loads the wallet file with password, or creates a new wallet when the
// file does not exist. It returns once the engine reported completion.
func (s *Session) Open(ctx context.Context, password string) (err error) {
	start := time.Now()
	defer func() { s.metrics.RecordOp(metrics.OpOpen, time.Since(start), err) }()

	if s.shutdown.Load() {
		return ErrShutdown
	}

	s.mu.Lock()
	if s.phase != PhaseClosed {
		s.mu.Unlock()
		return cnerr.ErrAlreadyOpen
	}
	s.phase = PhaseOpening
	path := s.walletFile
	s.mu.Unlock()

	if err = s.acquire(ctx); err != nil {
		s.setPhase(PhaseClosed)
		return err
	}

	tr, err := s.open(ctx, path, password)
	if err != nil {
		s.setPhase(PhaseClosed)
		s.release()
		s.log.Warn().Err(err).Str("path", path).Msg("wallet open failed")
		s.publish(notify.Notification{Kind: notify.WalletOpened, Err: err, Path: path})
		return err
	}

	s.setPhase(PhaseOpen)
	s.release()
	s.log.Info().Str("path", path).Msg("wallet opened")
	tr.markOpened(path)
	return nil
}

func (s *Session) open(ctx context.Context, path, password string) (*translator, error) {
	if path == "" {
		return nil, cnerr.WithCause(cnerr.ErrIO, fileguard.ErrEmptyPath)
	}

	eng, err := s.opts.Engine()
	if err != nil {
		return nil, cnerr.WithCause(cnerr.ErrEngine, err)
	}

	s.resetState()
	tr := newTranslator(s, eng)
	eng.AddObserver(tr)

	s.mu.Lock()
	s.eng, s.tr = eng, tr
	s.mu.Unlock()

	if err = s.initEngine(ctx, eng, tr, path, password); err != nil {
		s.teardown()
		return nil, err
	}
	return tr, nil
}

func (s *Session) initEngine(ctx context.Context, eng engine.Engine, tr *translator, path, password string) error {
	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		r, err := s.guard.OpenRead(path)
		if err != nil {
			return err
		}
		defer func() { _ = r.Close() }()

		if err = eng.InitAndLoad(r, password); err != nil {
			return mapEngineError(err)
		}
		return tr.waitInit(ctx)

	case errors.Is(statErr, fs.ErrNotExist):
		if err := eng.InitAndGenerate(password); err != nil {
			return mapEngineError(err)
		}
		if err := tr.waitInit(ctx); err != nil {
			return err
		}
		s.log.Info().Str("path", path).Msg("created new wallet")
		return s.writeLocked(ctx, eng, path, true, true, false)

	default:
		return cnerr.WithCause(cnerr.ErrIO, statErr)
	}
}

// teardown detaches and destroys the current engine. The caller holds the
// token, so no write is in flight.
func (s *Session) teardown() {
	s.mu.Lock()
	eng, tr := s.eng, s.tr
	s.eng, s.tr = nil, nil
	s.mu.Unlock()

	if tr != nil {
		tr.detach()
	}
	s.batches.Stop()
	s.status.stop()

	if eng != nil {
		if tr != nil {
			eng.RemoveObserver(tr)
		}
		eng.Shutdown()
	}
	if op := s.pending.Swap(nil); op != nil {
		_ = op.pending.Abort()
	}
	s.resetState()
}

// Close waits for any write in progress, optionally saves, and destroys the
// engine. Closing a closed session is a no-op. If ctx ends during the save on
// close, the save is abandoned with the wallet file untouched and the session
// still closes.
func (s *Session) Close(ctx context.Context) (err error) {
	s.mu.Lock()
	if s.phase == PhaseClosed {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	start := time.Now()
	defer func() { s.metrics.RecordOp(metrics.OpClose, time.Since(start), err) }()

	if err = s.acquire(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	if s.phase != PhaseOpen {
		s.mu.Unlock()
		s.release()
		return nil
	}
	s.phase = PhaseClosing
	eng, path := s.eng, s.walletFile
	s.mu.Unlock()

	if s.opts.SaveOnClose {
		if err = s.writeLocked(ctx, eng, path, true, true, true); err != nil {
			s.log.Error().Err(err).Msg("save on close failed")
		}
	}

	s.teardown()
	s.setPhase(PhaseClosed)
	s.release()

	s.log.Info().Msg("wallet closed")
	s.publish(notify.Notification{Kind: notify.WalletClosed, Path: path})
	return err
}

// Shutdown closes the session and ends its notification stream. The session
// cannot be opened again.
func (s *Session) Shutdown(ctx context.Context) error {
	s.shutdown.Store(true)
	err := s.Close(ctx)
	s.queue.Close()
	return err
}

// beginWrite checks that the session is open and takes the token for a
// write-side command. When the token is taken, a running backup is reported
// as ErrBackupInProgress unless the caller is the backup itself.
func (s *Session) beginWrite(op metrics.Op, isBackup bool) (engine.Engine, string, error) {
	if s.shutdown.Load() {
		return nil, "", ErrShutdown
	}
	if !s.IsOpen() {
		return nil, "", cnerr.ErrNotOpen
	}
	if !s.tryAcquire() {
		s.metrics.RecordRejected(op)
		if !isBackup && s.backupInProgress.Load() {
			return nil, "", cnerr.ErrBackupInProgress
		}
		return nil, "", cnerr.ErrOperationInProgress
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseOpen {
		s.release()
		return nil, "", cnerr.ErrNotOpen
	}
	return s.eng, s.walletFile, nil
}

// Save writes the wallet file. details keeps the transaction history and
// cache keeps the synchronization state.
func (s *Session) Save(ctx context.Context, details, cache bool) (err error) {
	start := time.Now()
	defer func() { s.metrics.RecordOp(metrics.OpSave, time.Since(start), err) }()

	eng, path, err := s.beginWrite(metrics.OpSave, false)
	if err != nil {
		return err
	}

	op, err := s.startWrite(eng, path, details, cache, true, ActivitySaving, s.release)
	if err != nil {
		s.release()
		return err
	}
	s.log.Debug().Bool("details", details).Bool("cache", cache).Msg("saving wallet")
	return op.await(ctx)
}

// Backup writes a copy of the wallet, with history and without sync state,
// to path. A ".wallet" suffix is added when missing. Only one backup may run
// at a time.
func (s *Session) Backup(ctx context.Context, path string) (err error) {
	start := time.Now()
	defer func() { s.metrics.RecordOp(metrics.OpBackup, time.Since(start), err) }()

	if strings.TrimSpace(path) == "" {
		return cnerr.WithCause(cnerr.ErrInvalidInput, fileguard.ErrEmptyPath)
	}
	if !s.IsOpen() {
		return cnerr.ErrNotOpen
	}
	if !s.backupInProgress.CompareAndSwap(false, true) {
		s.metrics.RecordRejected(metrics.OpBackup)
		return cnerr.ErrBackupInProgress
	}

	eng, walletPath, err := s.beginWrite(metrics.OpBackup, true)
	if err != nil {
		s.backupInProgress.Store(false)
		return err
	}

	target := BackupPath(path)
	if samePath(target, walletPath) {
		s.release()
		s.backupInProgress.Store(false)
		return cnerr.WithCause(cnerr.ErrInvalidInput, errBackupTarget)
	}

	op, err := s.startWrite(eng, target, true, false, true, ActivityBackingUp, func() {
		s.release()
		s.backupInProgress.Store(false)
	})
	if err != nil {
		s.release()
		s.backupInProgress.Store(false)
		return err
	}
	s.log.Info().Str("target", target).Msg("backing up wallet")
	return op.await(ctx)
}

// BackupPath returns path with the wallet suffix appended when missing.
func BackupPath(path string) string {
	if strings.HasSuffix(path, backupSuffix) {
		return path
	}
	return path + backupSuffix
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// ChangePassword replaces the wallet password and rewrites the wallet file
// under the new one. The token is held throughout, so no other write sees a
// half-migrated file. If the rewrite fails the old password is restored.
// Once the rewrite has started it runs to completion regardless of ctx.
func (s *Session) ChangePassword(ctx context.Context, oldPassword, newPassword string) (err error) {
	start := time.Now()
	defer func() { s.metrics.RecordOp(metrics.OpChangePassword, time.Since(start), err) }()

	if err = ctx.Err(); err != nil {
		return err
	}

	eng, path, err := s.beginWrite(metrics.OpChangePassword, false)
	if err != nil {
		return err
	}
	defer s.release()

	s.setActivity(ActivityChangingPassword)
	defer s.clearActivity(ActivityChangingPassword)

	if err = eng.ChangePassword(oldPassword, newPassword); err != nil {
		return mapEngineError(err)
	}

	if err = s.writeLocked(context.WithoutCancel(ctx), eng, path, true, true, true); err != nil {
		if rerr := eng.ChangePassword(newPassword, oldPassword); rerr != nil {
			s.log.Error().Err(rerr).Msg("restoring previous password failed")
		}
		return err
	}

	s.log.Info().Msg("wallet password changed")
	return nil
}

// SendTransaction submits a transaction and returns its id at once. The
// outcome arrives as a SendCompleted notification. Sends are not serialized
// here: concurrent sends are the engine's to order.
func (s *Session) SendTransaction(transfers []engine.Transfer, fee uint64, paymentID string, mixin uint64) (id engine.TransactionID, err error) {
	start := time.Now()
	defer func() { s.metrics.RecordOp(metrics.OpSend, time.Since(start), err) }()

	if s.shutdown.Load() {
		return engine.InvalidTransactionID, ErrShutdown
	}

	s.mu.Lock()
	if s.phase != PhaseOpen {
		s.mu.Unlock()
		return engine.InvalidTransactionID, cnerr.ErrNotOpen
	}
	eng := s.eng
	s.mu.Unlock()

	if len(transfers) == 0 {
		return engine.InvalidTransactionID, cnerr.WithCause(cnerr.ErrValidation, errNoTransfers)
	}

	id, err = eng.SendTransaction(transfers, fee, paymentID, mixin)
	if err != nil {
		return engine.InvalidTransactionID, mapEngineError(err)
	}

	s.log.Info().Uint64("tx", uint64(id)).Int("transfers", len(transfers)).Uint64("fee", fee).Msg("transaction submitted")
	return id, nil
}

// SetWalletFile changes the wallet path. Only allowed while closed.
func (s *Session) SetWalletFile(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseClosed {
		return cnerr.ErrAlreadyOpen
	}
	s.walletFile = path
	return nil
}

// WalletFile returns the current wallet path.
func (s *Session) WalletFile() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.walletFile
}

// State returns the current phase and activities.
func (s *Session) State() State {
	s.mu.Lock()
	phase := s.phase
	s.mu.Unlock()
	return State{Phase: phase, Activities: Activity(s.activities.Load())}
}

// IsOpen reports whether the session is in the Open phase.
func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase == PhaseOpen
}

// IsSynchronized reports whether the last synchronization completed without
// error and no new progress has been reported since.
func (s *Session) IsSynchronized() bool {
	return s.synchronized.Load()
}

// SyncProgress returns the last reported synchronization position.
func (s *Session) SyncProgress() (current, total uint32) {
	return s.syncCurrent.Load(), s.syncTotal.Load()
}

// ActualBalance returns the spendable balance from the latest engine report.
func (s *Session) ActualBalance() uint64 {
	return s.actualBalance.Load()
}

// PendingBalance returns the unconfirmed balance from the latest engine report.
func (s *Session) PendingBalance() uint64 {
	return s.pendingBalance.Load()
}

// LastTransactionID returns the most recently seen transaction, or
// engine.InvalidTransactionID.
func (s *Session) LastTransactionID() engine.TransactionID {
	return engine.TransactionID(s.lastTxID.Load())
}

// BackupInProgress reports whether a backup is writing its copy.
func (s *Session) BackupInProgress() bool {
	return s.backupInProgress.Load()
}

// withEngine runs fn with the engine handle when the session holds one.
func (s *Session) withEngine(fn func(engine.Engine)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.eng == nil || s.phase != PhaseOpen && s.phase != PhaseClosing {
		return false
	}
	fn(s.eng)
	return true
}

// Address returns the wallet address, or "" while closed.
func (s *Session) Address() string {
	var addr string
	s.withEngine(func(e engine.Engine) { addr = e.Address() })
	return addr
}

func (s *Session) TransactionCount() uint64 {
	var n uint64
	s.withEngine(func(e engine.Engine) { n = e.TransactionCount() })
	return n
}

func (s *Session) TransferCount() uint64 {
	var n uint64
	s.withEngine(func(e engine.Engine) { n = e.TransferCount() })
	return n
}

// Transaction returns the transaction with id.
func (s *Session) Transaction(id engine.TransactionID) (engine.Transaction, bool) {
	var (
		tx engine.Transaction
		ok bool
	)
	s.withEngine(func(e engine.Engine) { tx, ok = e.Transaction(id) })
	return tx, ok
}

// Transfer returns the transfer with id.
func (s *Session) Transfer(id engine.TransferID) (engine.Transfer, bool) {
	var (
		tr engine.Transfer
		ok bool
	)
	s.withEngine(func(e engine.Engine) { tr, ok = e.Transfer(id) })
	return tr, ok
}

// LastBlock returns the engine's newest block height and time.
func (s *Session) LastBlock() (uint64, time.Time) {
	var (
		h  uint64
		ts time.Time
	)
	s.withEngine(func(e engine.Engine) { h, ts = e.LastBlock() })
	return h, ts
}
