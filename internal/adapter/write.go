package adapter

import (
	"context"

	"github.com/vigcoin/cryptonotewallet/internal/engine"
	"github.com/vigcoin/cryptonotewallet/internal/fileguard"
	"github.com/vigcoin/cryptonotewallet/internal/notify"
)

// writeOp is one engine save streaming into a pending atomic write. The engine
// reports completion through SaveCompleted, which commits or aborts the file.
type writeOp struct {
	pending  *fileguard.PendingWrite
	activity Activity
	announce bool

	// onDone runs after the file is finalized and before completion is
	// published. Top-level commands release the token here.
	onDone func()
	done   chan error
}

// await waits for the write to finish. When ctx ends first the write still
// completes in the background and the token is released by the callback.
func (op *writeOp) await(ctx context.Context) error {
	select {
	case err := <-op.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// startWrite opens target for an atomic write and asks the engine to save into
// it. The caller holds the token. When announce is set the outcome is
// published as SaveCompleted.
func (s *Session) startWrite(eng engine.Engine, target string, details, cache, announce bool, act Activity, onDone func()) (*writeOp, error) {
	w, err := s.guard.BeginWrite(target)
	if err != nil {
		return nil, err
	}

	op := &writeOp{
		pending:  w,
		activity: act,
		announce: announce,
		onDone:   onDone,
		done:     make(chan error, 1),
	}
	s.setActivity(act)
	s.pending.Store(op)

	if err = eng.Save(w, details, cache); err != nil {
		if s.pending.CompareAndSwap(op, nil) {
			_ = w.Abort()
			s.clearActivity(act)
			return nil, mapEngineError(err)
		}
		// The completion callback won the race and finalized the write.
		s.log.Warn().Err(err).Msg("engine rejected a save it already completed")
	}
	return op, nil
}

// writeLocked saves into target and waits for completion while the caller
// keeps holding the token. When ctx ends first the write stays pending and
// ctx's error is returned; the caller then tears the engine down, which
// aborts the write unless its commit has already begun.
func (s *Session) writeLocked(ctx context.Context, eng engine.Engine, target string, details, cache, announce bool) error {
	op, err := s.startWrite(eng, target, details, cache, announce, ActivitySaving, nil)
	if err != nil {
		return err
	}
	if err = op.await(ctx); err != nil && ctx.Err() != nil {
		s.log.Warn().Err(err).Str("target", target).Msg("gave up waiting for wallet write")
	}
	return err
}

// completeWrite finalizes the pending write after the engine finished
// streaming into it.
func (s *Session) completeWrite(engErr error) {
	op := s.pending.Swap(nil)
	if op == nil {
		s.log.Warn().Err(engErr).Msg("save completion without a pending write")
		return
	}

	var err error
	if engErr != nil {
		_ = op.pending.Abort()
		err = mapEngineError(engErr)
	} else {
		err = op.pending.Commit()
	}
	s.clearActivity(op.activity)

	if err != nil {
		s.log.Error().Err(err).Str("target", op.pending.Target()).Msg("wallet write failed")
	} else {
		s.log.Debug().Str("target", op.pending.Target()).Msg("wallet written")
	}

	if op.onDone != nil {
		op.onDone()
	}
	if op.announce {
		s.publish(notify.Notification{Kind: notify.SaveCompleted, Err: err, Path: op.pending.Target()})
	}
	op.done <- err
}
