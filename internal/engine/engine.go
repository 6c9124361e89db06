// Package engine defines the contract between the wallet session adapter and
// an asynchronous wallet engine. The engine owns key management, transaction
// construction and chain synchronization; the adapter only drives it through
// the Engine command surface and observes it through the Observer callbacks.
//
// Callbacks may be invoked from any goroutine, including concurrently with
// each other and with command methods.
package engine

//go:generate mockgen -source=engine.go -destination=../mock/engine_mock.go -package=mock

import (
	"io"
	"time"
)

// Observer receives engine lifecycle and wallet events.
type Observer interface {
	// InitCompleted reports the outcome of InitAndLoad or InitAndGenerate.
	InitCompleted(err error)

	// SaveCompleted reports the outcome of Save. The writer passed to Save
	// is no longer used by the engine once this fires.
	SaveCompleted(err error)

	// SynchronizationProgressUpdated fires for every processed block.
	SynchronizationProgressUpdated(current, total uint32)

	// SynchronizationCompleted fires when the wallet caught up with the chain.
	SynchronizationCompleted(err error)

	ActualBalanceUpdated(balance uint64)
	PendingBalanceUpdated(balance uint64)

	// ExternalTransactionCreated fires for transactions not created by
	// SendTransaction (incoming funds, transactions found during sync).
	ExternalTransactionCreated(id TransactionID)

	// SendTransactionCompleted reports the outcome of SendTransaction.
	SendTransactionCompleted(id TransactionID, err error)

	TransactionUpdated(id TransactionID)
}

// Engine is the command surface of a wallet engine.
type Engine interface {
	AddObserver(o Observer)
	RemoveObserver(o Observer)

	// InitAndGenerate creates a fresh wallet. Completion is reported via
	// Observer.InitCompleted.
	InitAndGenerate(password string) error

	// InitAndLoad loads a wallet from r. The engine may read r from its own
	// goroutine until Observer.InitCompleted fires.
	InitAndLoad(r io.Reader, password string) error

	// Save serializes the wallet to w. The engine may write w from its own
	// goroutine until Observer.SaveCompleted fires.
	Save(w io.Writer, details, cache bool) error

	// ChangePassword replaces the wallet password. It fails with an *Error
	// carrying CodeWrongPassword when oldPassword does not match.
	ChangePassword(oldPassword, newPassword string) error

	// SendTransaction validates and submits a transaction. Completion is
	// reported via Observer.SendTransactionCompleted.
	SendTransaction(transfers []Transfer, fee uint64, paymentID string, mixin uint64) (TransactionID, error)

	// Shutdown stops all engine goroutines. No callbacks fire after it returns.
	Shutdown()

	Address() string
	ActualBalance() uint64
	PendingBalance() uint64
	TransactionCount() uint64
	TransferCount() uint64
	Transaction(id TransactionID) (Transaction, bool)
	Transfer(id TransferID) (Transfer, bool)

	// LastBlock returns the height and timestamp of the newest local block.
	LastBlock() (height uint64, timestamp time.Time)
}

// Factory creates a fresh engine handle. The adapter calls it once per open.
type Factory func() (Engine, error)
