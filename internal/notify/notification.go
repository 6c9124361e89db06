// Package notify carries session events from engine goroutines to a single
// consumer. Producers never block; the consumer drains at its own pace.
package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/vigcoin/cryptonotewallet/internal/engine"
)

// Kind identifies a notification.
type Kind int

// Notification kinds.
const (
	WalletOpened Kind = iota + 1
	WalletClosed
	SaveCompleted
	SyncProgress
	SyncCompleted
	ActualBalanceUpdated
	PendingBalanceUpdated
	TransactionCreated
	TransactionUpdated
	SendCompleted
	StateChanged
)

var kindNames = map[Kind]string{
	WalletOpened:          "wallet_opened",
	WalletClosed:          "wallet_closed",
	SaveCompleted:         "save_completed",
	SyncProgress:          "sync_progress",
	SyncCompleted:         "sync_completed",
	ActualBalanceUpdated:  "actual_balance_updated",
	PendingBalanceUpdated: "pending_balance_updated",
	TransactionCreated:    "transaction_created",
	TransactionUpdated:    "transaction_updated",
	SendCompleted:         "send_completed",
	StateChanged:          "state_changed",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Notification is one logical session event. Only the fields relevant to
// Kind are set.
type Notification struct {
	// Seq increases strictly in publish order. Collapsed or dropped progress
	// entries leave gaps.
	Seq       uint64
	Kind      Kind
	SessionID string
	At        time.Time

	// Err carries the failure of an asynchronous operation, already mapped
	// into the session error taxonomy.
	Err error

	Balance        uint64
	Current        uint32
	Total          uint32
	TransactionID  engine.TransactionID
	TransactionIDs []engine.TransactionID
	Address        string
	Path           string
	Text           string
}

// Failed reports whether the notification carries an error.
func (n Notification) Failed() bool {
	return n.Err != nil
}

// String renders a one-line summary.
func (n Notification) String() string {
	switch n.Kind {
	case SyncProgress:
		return fmt.Sprintf("%s %d/%d", n.Kind, n.Current, n.Total)
	case ActualBalanceUpdated, PendingBalanceUpdated:
		return fmt.Sprintf("%s %d", n.Kind, n.Balance)
	case TransactionCreated, TransactionUpdated:
		return fmt.Sprintf("%s %d (+%d)", n.Kind, n.TransactionID, len(n.TransactionIDs)-1)
	case SendCompleted:
		if n.Err != nil {
			return fmt.Sprintf("%s %d: %v", n.Kind, n.TransactionID, n.Err)
		}
		return fmt.Sprintf("%s %d", n.Kind, n.TransactionID)
	case StateChanged:
		return fmt.Sprintf("%s %q", n.Kind, n.Text)
	}
	if n.Err != nil {
		return fmt.Sprintf("%s: %v", n.Kind, n.Err)
	}
	return n.Kind.String()
}

// MarshalJSON emits only the fields that belong to the notification's kind.
func (n Notification) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"seq":  n.Seq,
		"kind": n.Kind,
		"at":   n.At.UTC().Format(time.RFC3339Nano),
	}
	if n.SessionID != "" {
		m["session_id"] = n.SessionID
	}
	if n.Err != nil {
		m["error"] = n.Err.Error()
	}

	switch n.Kind {
	case WalletOpened:
		m["address"] = n.Address
	case SaveCompleted:
		if n.Path != "" {
			m["path"] = n.Path
		}
	case SyncProgress:
		m["current"] = n.Current
		m["total"] = n.Total
	case ActualBalanceUpdated, PendingBalanceUpdated:
		m["balance"] = n.Balance
	case TransactionCreated, TransactionUpdated:
		m["transaction_id"] = n.TransactionID
		m["transaction_ids"] = n.TransactionIDs
	case SendCompleted:
		m["transaction_id"] = n.TransactionID
	case StateChanged:
		m["text"] = n.Text
	}
	return json.Marshal(m)
}
