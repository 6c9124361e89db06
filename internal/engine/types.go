package engine

import (
	"math"
	"time"
)

// TransactionID identifies a transaction inside a wallet.
type TransactionID uint64

// TransferID identifies a transfer inside a wallet.
type TransferID uint64

// InvalidTransactionID marks the absence of a transaction.
const InvalidTransactionID TransactionID = math.MaxUint64

// InvalidTransferID marks the absence of a transfer.
const InvalidTransferID TransferID = math.MaxUint64

// Transfer is a single destination of a transaction.
type Transfer struct {
	Address string `json:"address"`
	Amount  int64  `json:"amount"`
}

// TransactionState describes where a transaction is in its lifecycle.
type TransactionState int

// Transaction states.
const (
	StateActive TransactionState = iota
	StateDeleted
	StateSending
	StateCancelled
	StateFailed
)

func (s TransactionState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateDeleted:
		return "deleted"
	case StateSending:
		return "sending"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Transaction is the wallet's view of a transaction.
type Transaction struct {
	ID            TransactionID    `json:"id"`
	FirstTransfer TransferID       `json:"first_transfer"`
	TransferCount uint64           `json:"transfer_count"`
	TotalAmount   int64            `json:"total_amount"`
	Fee           uint64           `json:"fee"`
	Hash          string           `json:"hash"`
	PaymentID     string           `json:"payment_id,omitempty"`
	IsCoinbase    bool             `json:"is_coinbase"`
	BlockHeight   uint64           `json:"block_height"`
	Timestamp     time.Time        `json:"timestamp"`
	State         TransactionState `json:"state"`
}
