package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/spf13/cobra"

	"github.com/vigcoin/cryptonotewallet/internal/adapter"
	"github.com/vigcoin/cryptonotewallet/internal/config"
	"github.com/vigcoin/cryptonotewallet/internal/engine"
	"github.com/vigcoin/cryptonotewallet/internal/engine/local"
	"github.com/vigcoin/cryptonotewallet/internal/fileguard"
	"github.com/vigcoin/cryptonotewallet/internal/notify"
	cnerr "github.com/vigcoin/cryptonotewallet/pkg/errors"
)

// closeTimeout bounds the final save and engine shutdown of a command.
const closeTimeout = 30 * time.Second

// eventBuffer is the per-command notification buffer.
const eventBuffer = 1024

// openMode selects what openWallet expects on disk.
type openMode int

const (
	openExisting openMode = iota
	openCreate
)

// walletHandle is an open wallet session for the duration of one command.
type walletHandle struct {
	session *adapter.Session
	path    string
	hub     *notify.Hub
	events  chan notify.Notification
	sub     event.Subscription
	engine  atomic.Pointer[local.Engine]
}

// newHandle builds a closed session for the configured wallet. The handle is
// subscribed to the session's notifications before anything is opened.
func newHandle(saveOnClose bool) (*walletHandle, error) {
	h := &walletHandle{path: cfg.WalletPath()}

	node := local.NewSimNode(cfg.Engine.SimHeight, cfg.Engine.BlockTarget, time.Now())
	engOpts := local.Options{
		Node:       node,
		Logger:     logger.Logger,
		MinFee:     cfg.Engine.MinFee,
		MaxMixin:   cfg.Engine.MaxMixin,
		BlockDelay: cfg.Engine.BlockDelay,
	}
	factory := func() (engine.Engine, error) {
		e := local.New(engOpts)
		h.engine.Store(e)
		return e, nil
	}

	s, err := adapter.New(adapter.Options{
		WalletFile:       h.path,
		Engine:           factory,
		Guard:            fileguard.New(fileguard.WithLogger(logger.Logger)),
		Logger:           logger.Logger,
		DebounceInterval: cfg.Notify.DebounceInterval,
		DebounceMaxWait:  cfg.Notify.DebounceMaxWait,
		StatusInterval:   cfg.Notify.StatusInterval,
		BlockAgeWarning:  cfg.Notify.BlockAgeWarning,
		SaveOnClose:      saveOnClose,
		QueueBuffer:      cfg.Notify.QueueBuffer,
	})
	if err != nil {
		return nil, err
	}
	h.session = s
	h.hub = s.Hub()
	h.events = make(chan notify.Notification, eventBuffer)
	h.sub = h.hub.Subscribe(h.events)
	return h, nil
}

// openWallet opens the configured wallet for cmd. In openCreate mode the
// file must not exist and a new password is requested; otherwise the file
// must exist and the password comes from the environment, the password
// cache or a prompt, in that order.
func openWallet(cmd *cobra.Command, mode openMode, saveOnClose bool) (*walletHandle, error) {
	h, err := newHandle(saveOnClose)
	if err != nil {
		return nil, err
	}
	ctx := cmd.Context()

	err = requireWallet(h.path)
	switch {
	case mode == openCreate && err == nil:
		h.discard()
		return nil, cnerr.WithDetails(cnerr.ErrWalletExists, map[string]string{"path": h.path})
	case mode == openExisting && err != nil:
		h.discard()
		return nil, err
	}

	if mode == openCreate {
		if err := os.MkdirAll(filepath.Dir(h.path), 0o700); err != nil {
			h.discard()
			return nil, cnerr.WithCause(cnerr.ErrIO, err)
		}
		pw, err := newPassword(config.EnvPassword)
		if err != nil {
			h.discard()
			return nil, err
		}
		defer pw.Destroy()
		if err := h.session.Open(ctx, pw.String()); err != nil {
			h.discard()
			return nil, err
		}
		rememberPassword(h.path, pw.String())
		return h, nil
	}

	pw, source, err := currentPassword(h.path)
	if err != nil {
		h.discard()
		return nil, err
	}
	defer func() { pw.Destroy() }()

	err = h.session.Open(ctx, pw.String())
	if errors.Is(err, cnerr.ErrInvalidPassword) && source == fromCache {
		logger.Info().Str("wallet", h.path).Msg("cached password rejected, asking again")
		_ = keys.Remove(h.path)
		pw.Destroy()
		if pw, err = promptSecret("Wallet password: "); err != nil {
			h.discard()
			return nil, err
		}
		source = fromPrompt
		err = h.session.Open(ctx, pw.String())
	}
	if err != nil {
		h.discard()
		return nil, err
	}
	if source != fromCache {
		rememberPassword(h.path, pw.String())
	}
	return h, nil
}

// requireWallet reports ErrWalletNotFound when path does not exist. Opening
// a missing file would create a new wallet.
func requireWallet(path string) error {
	if _, err := os.Stat(path); err != nil {
		return cnerr.WithSuggestion(
			cnerr.WithDetails(cnerr.ErrWalletNotFound, map[string]string{"path": path}),
			"create one with: cnwallet create",
		)
	}
	return nil
}

// discard shuts down a session that never opened.
func (h *walletHandle) discard() {
	h.sub.Unsubscribe()
	_ = h.session.Shutdown(context.Background())
	<-h.hub.Done()
}

// Close closes the wallet, saving it first when the handle was opened with
// saveOnClose, and stops the notification stream.
func (h *walletHandle) Close() error {
	h.sub.Unsubscribe()

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	err := h.session.Shutdown(ctx)

	select {
	case <-h.hub.Done():
	case <-ctx.Done():
	}
	return err
}

// waitFor reads notifications until match accepts one. Failed
// notifications that match are returned with their error.
func (h *walletHandle) waitFor(ctx context.Context, match func(notify.Notification) bool) (notify.Notification, error) {
	for {
		select {
		case n := <-h.events:
			if !match(n) {
				continue
			}
			return n, n.Err
		case <-h.sub.Err():
			return notify.Notification{}, adapter.ErrShutdown
		case <-ctx.Done():
			return notify.Notification{}, ctx.Err()
		}
	}
}

// waitSynced returns once the wallet reports synchronization.
func (h *walletHandle) waitSynced(ctx context.Context) error {
	if h.session.IsSynchronized() {
		return nil
	}
	_, err := h.waitFor(ctx, func(n notify.Notification) bool {
		return n.Kind == notify.SyncCompleted
	})
	return err
}

// touches matches a transaction notification of kind covering id.
func touches(kind notify.Kind, id engine.TransactionID) func(notify.Notification) bool {
	return func(n notify.Notification) bool {
		return n.Kind == kind && slices.Contains(n.TransactionIDs, id)
	}
}
