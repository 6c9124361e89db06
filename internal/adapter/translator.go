package adapter

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/vigcoin/cryptonotewallet/internal/coalesce"
	"github.com/vigcoin/cryptonotewallet/internal/engine"
	"github.com/vigcoin/cryptonotewallet/internal/notify"
)

// translator is the engine observer of one open. It is detached on close so
// late callbacks from the old engine are ignored.
//
// mu orders state updates with their notifications: every callback stores the
// new value and publishes it before releasing mu, so a consumer never sees a
// notification that disagrees with the state it queries afterwards.
type translator struct {
	s        *Session
	eng      engine.Engine
	initDone chan error
	limiter  *rate.Limiter

	mu       sync.Mutex
	detached bool
	opened   bool
	// syncErr is a synchronization failure seen before the open finished.
	syncErr error
}

var _ engine.Observer = (*translator)(nil)

func newTranslator(s *Session, eng engine.Engine) *translator {
	return &translator{
		s:        s,
		eng:      eng,
		initDone: make(chan error, 1),
		limiter:  rate.NewLimiter(rate.Every(s.opts.StateTextInterval), 1),
	}
}

// lock takes mu and reports whether the translator still serves the session.
// On false mu is not held.
func (t *translator) lock() bool {
	t.mu.Lock()
	if t.detached {
		t.mu.Unlock()
		return false
	}
	return true
}

func (t *translator) detach() {
	t.mu.Lock()
	t.detached = true
	t.mu.Unlock()
}

func (t *translator) waitInit(ctx context.Context) error {
	select {
	case err := <-t.initDone:
		return mapEngineError(err)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// markOpened publishes the opening snapshot and enables publication of
// engine events. Updates that arrived during the open are folded into it;
// transactions seen so far are covered by the snapshot and not batched.
func (t *translator) markOpened(path string) {
	if !t.lock() {
		return
	}
	defer t.mu.Unlock()

	s := t.s
	t.opened = true
	s.batches.Reset()

	s.publish(notify.Notification{Kind: notify.WalletOpened, Address: t.eng.Address(), Path: path})
	s.publish(notify.Notification{Kind: notify.ActualBalanceUpdated, Balance: s.actualBalance.Load()})
	s.publish(notify.Notification{Kind: notify.PendingBalanceUpdated, Balance: s.pendingBalance.Load()})
	s.publish(notify.Notification{Kind: notify.StateChanged, Text: "Ready"})

	switch {
	case s.synchronized.Load():
		s.publish(notify.Notification{Kind: notify.SyncCompleted})
		s.status.start(t.eng)
	case t.syncErr != nil:
		s.publish(notify.Notification{Kind: notify.SyncCompleted, Err: mapEngineError(t.syncErr)})
	}
	t.syncErr = nil
}

func (t *translator) InitCompleted(err error) {
	if !t.lock() {
		return
	}
	defer t.mu.Unlock()

	if err == nil {
		t.s.actualBalance.Store(t.eng.ActualBalance())
		t.s.pendingBalance.Store(t.eng.PendingBalance())
		if n := t.eng.TransactionCount(); n > 0 {
			t.s.lastTxID.Store(n - 1)
		}
	}

	select {
	case t.initDone <- err:
	default:
		t.s.log.Warn().Err(err).Msg("duplicate init completion ignored")
	}
}

func (t *translator) SaveCompleted(err error) {
	if !t.lock() {
		return
	}
	// File finalization syncs to disk; other callbacks are not held up by it.
	t.mu.Unlock()
	t.s.completeWrite(err)
}

func (t *translator) SynchronizationProgressUpdated(current, total uint32) {
	if !t.lock() {
		return
	}
	defer t.mu.Unlock()

	s := t.s
	s.syncCurrent.Store(current)
	s.syncTotal.Store(total)
	s.synchronized.Store(false)
	s.setActivity(ActivitySynchronizing)

	if !t.opened {
		t.syncErr = nil
		return
	}
	s.publish(notify.Notification{Kind: notify.SyncProgress, Current: current, Total: total})
	if t.limiter.Allow() {
		s.publish(notify.Notification{
			Kind: notify.StateChanged,
			Text: fmt.Sprintf("Synchronizing %d/%d", current, total),
		})
	}
}

func (t *translator) SynchronizationCompleted(err error) {
	if !t.lock() {
		return
	}
	defer t.mu.Unlock()

	s := t.s
	s.clearActivity(ActivitySynchronizing)
	if err == nil {
		s.synchronized.Store(true)
	} else {
		s.log.Warn().Err(err).Msg("synchronization failed")
	}

	if !t.opened {
		t.syncErr = err
		return
	}
	s.publish(notify.Notification{Kind: notify.SyncCompleted, Err: mapEngineError(err)})
	s.batches.Flush()
	if err == nil {
		s.status.start(t.eng)
	}
}

func (t *translator) ActualBalanceUpdated(balance uint64) {
	if !t.lock() {
		return
	}
	defer t.mu.Unlock()

	t.s.actualBalance.Store(balance)
	if t.opened {
		t.s.publish(notify.Notification{Kind: notify.ActualBalanceUpdated, Balance: balance})
	}
}

func (t *translator) PendingBalanceUpdated(balance uint64) {
	if !t.lock() {
		return
	}
	defer t.mu.Unlock()

	t.s.pendingBalance.Store(balance)
	if t.opened {
		t.s.publish(notify.Notification{Kind: notify.PendingBalanceUpdated, Balance: balance})
	}
}

func (t *translator) ExternalTransactionCreated(id engine.TransactionID) {
	t.transactionEvent(coalesce.KindCreated, id)
}

func (t *translator) TransactionUpdated(id engine.TransactionID) {
	t.transactionEvent(coalesce.KindUpdated, id)
}

func (t *translator) transactionEvent(kind coalesce.Kind, id engine.TransactionID) {
	if !t.lock() {
		return
	}
	defer t.mu.Unlock()

	t.s.lastTxID.Store(uint64(id))
	if t.opened {
		t.s.batches.Add(kind, id)
	}
}

func (t *translator) SendTransactionCompleted(id engine.TransactionID, err error) {
	if !t.lock() {
		return
	}
	defer t.mu.Unlock()

	s := t.s
	if err != nil {
		s.log.Warn().Err(err).Uint64("tx", uint64(id)).Msg("send failed")
	}
	s.publish(notify.Notification{Kind: notify.SendCompleted, TransactionID: id, Err: mapEngineError(err)})
}
