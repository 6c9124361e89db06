package cli

import (
	"context"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/vigcoin/cryptonotewallet/internal/engine"
	"github.com/vigcoin/cryptonotewallet/internal/notify"
	"github.com/vigcoin/cryptonotewallet/internal/output"
	cnerr "github.com/vigcoin/cryptonotewallet/pkg/errors"
)

// sendTimeout bounds the wait for the engine to relay a transaction.
const sendTimeout = 2 * time.Minute

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	sendTo        string
	sendAmount    string
	sendFee       string
	sendMixin     uint64
	sendPaymentID string
)

// sendCmd sends coins to an address.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send coins to an address",
	Long: `Send an amount to an address, wait for the transaction to be relayed and
save the wallet. Amounts and fees are decimal coin amounts; the fee defaults
to the minimum the engine accepts.

Example:
  cnwallet send --to cn1... --amount 1.5
  cnwallet send --to cn1... --amount 0.2 --fee 0.0001 --mixin 3 --payment-id <64 hex>`,
	Args: cobra.NoArgs,
	RunE: runSend,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	sendCmd.GroupID = "wallet"
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVar(&sendTo, "to", "", "destination address")
	sendCmd.Flags().StringVar(&sendAmount, "amount", "", "amount to send")
	sendCmd.Flags().StringVar(&sendFee, "fee", "", "transaction fee (default: minimum fee)")
	sendCmd.Flags().Uint64Var(&sendMixin, "mixin", 0, "number of foreign outputs mixed into each input")
	sendCmd.Flags().StringVar(&sendPaymentID, "payment-id", "", "optional payment id, 64 hex characters")
	_ = sendCmd.MarkFlagRequired("to")
	_ = sendCmd.MarkFlagRequired("amount")
}

type sendResult struct {
	TransactionID engine.TransactionID `json:"transaction_id"`
	Hash          string               `json:"hash"`
	To            string               `json:"to"`
	Amount        uint64               `json:"amount"`
	Fee           uint64               `json:"fee"`
	Balance       uint64               `json:"balance"`
}

// sendRequest parses the send flags into atomic units.
func sendRequest() (amount, fee uint64, err error) {
	if amount, err = output.ParseAmount(sendAmount); err != nil {
		return 0, 0, err
	}
	if amount == 0 || amount > math.MaxInt64 {
		return 0, 0, cnerr.WithDetails(cnerr.ErrInvalidInput, map[string]string{"amount": sendAmount})
	}
	fee = cfg.Engine.MinFee
	if sendFee != "" {
		if fee, err = output.ParseAmount(sendFee); err != nil {
			return 0, 0, err
		}
	}
	return amount, fee, nil
}

func runSend(cmd *cobra.Command, _ []string) error {
	amount, fee, err := sendRequest()
	if err != nil {
		return err
	}

	h, err := openWallet(cmd, openExisting, false)
	if err != nil {
		return err
	}

	res, err := send(cmd.Context(), h, amount, fee)
	if closeErr := h.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	return printer.Emit(res, func(w io.Writer) error {
		output.Success(cmd.ErrOrStderr(), "Transaction sent")
		return output.KV(w,
			[2]string{"Transaction", strconv.FormatUint(uint64(res.TransactionID), 10)},
			[2]string{"Hash", res.Hash},
			[2]string{"To", res.To},
			[2]string{"Amount", output.FormatAmount(res.Amount)},
			[2]string{"Fee", output.FormatAmount(res.Fee)},
			[2]string{"Balance", output.FormatAmount(res.Balance)},
		)
	})
}

func send(ctx context.Context, h *walletHandle, amount, fee uint64) (sendResult, error) {
	transfers := []engine.Transfer{{Address: sendTo, Amount: int64(amount)}} //nolint:gosec // G115: bounded in sendRequest
	id, err := h.session.SendTransaction(transfers, fee, sendPaymentID, sendMixin)
	if err != nil {
		return sendResult{}, err
	}

	waitCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	_, err = h.waitFor(waitCtx, func(n notify.Notification) bool {
		return n.Kind == notify.SendCompleted && n.TransactionID == id
	})
	if err != nil {
		return sendResult{}, err
	}
	if err := h.session.Save(ctx, true, true); err != nil {
		return sendResult{}, err
	}

	tx, _ := h.session.Transaction(id)
	return sendResult{
		TransactionID: id,
		Hash:          tx.Hash,
		To:            sendTo,
		Amount:        amount,
		Fee:           fee,
		Balance:       h.session.ActualBalance(),
	}, nil
}
