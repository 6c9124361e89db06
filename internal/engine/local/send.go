package local

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"golang.org/x/crypto/sha3"

	"github.com/vigcoin/cryptonotewallet/internal/crypto"
	"github.com/vigcoin/cryptonotewallet/internal/engine"
)

const paymentIDLength = 64

func validatePaymentID(id string) error {
	if id == "" {
		return nil
	}
	if len(id) != paymentIDLength {
		return engine.NewError(engine.CodeBadPaymentID, fmt.Sprintf("must be %d hex characters", paymentIDLength))
	}
	if _, err := hex.DecodeString(id); err != nil {
		return engine.NewError(engine.CodeBadPaymentID, "not hex")
	}
	return nil
}

// validateSend checks a request against the engine's bounds and returns the
// amount leaving the wallet.
func (e *Engine) validateSend(transfers []engine.Transfer, fee uint64, paymentID string, mixin uint64) (uint64, error) {
	if len(transfers) == 0 {
		return 0, engine.NewError(engine.CodeZeroDestination, "")
	}
	if len(transfers) > maxTransfers {
		return 0, engine.NewError(engine.CodeTransactionTooBig, fmt.Sprintf("at most %d destinations", maxTransfers))
	}
	if fee < e.opts.MinFee {
		return 0, engine.NewError(engine.CodeFeeTooSmall, fmt.Sprintf("minimum is %d", e.opts.MinFee))
	}
	if mixin > e.opts.MaxMixin {
		return 0, engine.NewError(engine.CodeMixinCountTooBig, fmt.Sprintf("maximum is %d", e.opts.MaxMixin))
	}
	if err := validatePaymentID(paymentID); err != nil {
		return 0, err
	}

	total := fee
	for _, t := range transfers {
		if t.Amount <= 0 {
			return 0, engine.NewError(engine.CodeWrongAmount, "amounts must be positive")
		}
		if err := ValidateAddress(t.Address); err != nil {
			return 0, err
		}
		next := total + uint64(t.Amount)
		if next < total {
			return 0, engine.NewError(engine.CodeWrongAmount, "amount overflow")
		}
		total = next
	}
	return total, nil
}

// newTxHash returns a Keccak-256 digest over a random prefix and the
// transaction's outputs.
func newTxHash(fee uint64, paymentID string, transfers ...engine.Transfer) (string, error) {
	nonce, err := crypto.RandomBytes(32)
	if err != nil {
		return "", engine.NewError(engine.CodeInternal, err.Error())
	}

	h := sha3.NewLegacyKeccak256()
	h.Write(nonce)
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], fee)
	h.Write(buf[:])
	h.Write([]byte(paymentID))
	for _, t := range transfers {
		h.Write([]byte(t.Address))
		binary.LittleEndian.PutUint64(buf[:], uint64(t.Amount)) //nolint:gosec // G115: bit pattern only
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// SendTransaction validates the request, debits the wallet and relays the
// transaction in the background. Completion is reported through
// SendTransactionCompleted.
func (e *Engine) SendTransaction(transfers []engine.Transfer, fee uint64, paymentID string, mixin uint64) (engine.TransactionID, error) {
	if !e.initialized() {
		return engine.InvalidTransactionID, engine.ErrNotInitialized
	}
	total, err := e.validateSend(transfers, fee, paymentID, mixin)
	if err != nil {
		return engine.InvalidTransactionID, err
	}
	hash, err := newTxHash(fee, paymentID, transfers...)
	if err != nil {
		return engine.InvalidTransactionID, err
	}

	e.mu.Lock()
	w := e.wallet
	if total > w.Actual {
		e.mu.Unlock()
		return engine.InvalidTransactionID, engine.NewError(engine.CodeWrongAmount, "not enough money")
	}
	id := engine.TransactionID(len(w.Transactions))
	w.Transactions = append(w.Transactions, engine.Transaction{
		ID:            id,
		FirstTransfer: engine.TransferID(len(w.Transfers)),
		TransferCount: uint64(len(transfers)),
		TotalAmount:   -int64(total), //nolint:gosec // G115: bounded by balance
		Fee:           fee,
		Hash:          hash,
		PaymentID:     paymentID,
		Timestamp:     time.Now().UTC(),
		State:         engine.StateSending,
	})
	w.Transfers = append(w.Transfers, transfers...)
	w.Actual -= total
	e.mu.Unlock()

	e.log.Info().Uint64("tx", uint64(id)).Uint64("amount", total).Msg("sending transaction")

	e.spawn(func() {
		e.notifyBalances()
		if !e.sleep(e.opts.SendDelay) {
			return
		}

		e.mu.Lock()
		tx := &e.wallet.Transactions[id]
		tx.State = engine.StateActive
		tx.BlockHeight = e.wallet.Height
		e.mu.Unlock()

		e.notify(func(o engine.Observer) { o.SendTransactionCompleted(id, nil) })
		e.notify(func(o engine.Observer) { o.TransactionUpdated(id) })
	})
	return id, nil
}

// Deposit credits amount to the wallet as an incoming transaction. The funds
// are pending until ConfirmDelay has passed.
func (e *Engine) Deposit(amount uint64) (engine.TransactionID, error) {
	if amount == 0 || amount > math.MaxInt64 {
		return engine.InvalidTransactionID, engine.NewError(engine.CodeWrongAmount, "")
	}
	if !e.initialized() {
		return engine.InvalidTransactionID, engine.ErrNotInitialized
	}
	e.mu.Lock()
	addr := e.wallet.Address
	e.mu.Unlock()
	hash, err := newTxHash(0, "", engine.Transfer{Address: addr, Amount: int64(amount)}) //nolint:gosec // G115: checked above
	if err != nil {
		return engine.InvalidTransactionID, err
	}

	e.mu.Lock()
	w := e.wallet
	id := engine.TransactionID(len(w.Transactions))
	w.Transactions = append(w.Transactions, engine.Transaction{
		ID:            id,
		FirstTransfer: engine.TransferID(len(w.Transfers)),
		TransferCount: 1,
		TotalAmount:   int64(amount), //nolint:gosec // G115: checked above
		Hash:          hash,
		BlockHeight:   w.Height,
		Timestamp:     time.Now().UTC(),
		State:         engine.StateActive,
	})
	w.Transfers = append(w.Transfers, engine.Transfer{Address: w.Address, Amount: int64(amount)}) //nolint:gosec // G115: checked above
	w.Pending += amount
	e.mu.Unlock()

	e.spawn(func() {
		e.notify(func(o engine.Observer) { o.ExternalTransactionCreated(id) })
		e.notifyBalances()
		if !e.sleep(e.opts.ConfirmDelay) {
			return
		}

		e.mu.Lock()
		e.wallet.Pending -= amount
		e.wallet.Actual += amount
		e.mu.Unlock()

		e.notifyBalances()
		e.notify(func(o engine.Observer) { o.TransactionUpdated(id) })
	})
	return id, nil
}

// notifyBalances reports the current balances. Calls are serialized and read
// the balances at report time, so the last report always carries the latest
// values.
func (e *Engine) notifyBalances() {
	e.balanceMu.Lock()
	defer e.balanceMu.Unlock()

	e.mu.Lock()
	actual, pending := e.wallet.Actual, e.wallet.Pending
	e.mu.Unlock()

	e.notify(func(o engine.Observer) { o.ActualBalanceUpdated(actual) })
	e.notify(func(o engine.Observer) { o.PendingBalanceUpdated(pending) })
}
