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

// depositTimeout bounds the wait for a deposit to confirm.
const depositTimeout = time.Minute

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var depositAmount string

// depositCmd credits the wallet on the local engine.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var depositCmd = &cobra.Command{
	Use:    "deposit",
	Short:  "Credit test funds to the wallet (local engine)",
	Hidden: true,
	Long: `Credit an incoming transaction to the wallet on the built-in local
engine, wait for it to confirm and save the wallet. This is a development
helper; real engines receive funds from the network.

Example:
  cnwallet deposit --amount 25`,
	Args: cobra.NoArgs,
	RunE: runDeposit,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(depositCmd)
	depositCmd.Flags().StringVar(&depositAmount, "amount", "", "amount to credit")
	_ = depositCmd.MarkFlagRequired("amount")
}

type depositResult struct {
	TransactionID engine.TransactionID `json:"transaction_id"`
	Amount        uint64               `json:"amount"`
	Balance       uint64               `json:"balance"`
}

func runDeposit(cmd *cobra.Command, _ []string) error {
	amount, err := output.ParseAmount(depositAmount)
	if err != nil {
		return err
	}
	if amount == 0 || amount > math.MaxInt64 {
		return cnerr.WithDetails(cnerr.ErrInvalidInput, map[string]string{"amount": depositAmount})
	}

	h, err := openWallet(cmd, openExisting, false)
	if err != nil {
		return err
	}
	res, err := deposit(cmd.Context(), h, amount)
	if closeErr := h.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	return printer.Emit(res, func(w io.Writer) error {
		return output.KV(w,
			[2]string{"Transaction", strconv.FormatUint(uint64(res.TransactionID), 10)},
			[2]string{"Amount", output.FormatAmount(res.Amount)},
			[2]string{"Balance", output.FormatAmount(res.Balance)},
		)
	})
}

func deposit(ctx context.Context, h *walletHandle, amount uint64) (depositResult, error) {
	eng := h.engine.Load()
	if eng == nil {
		return depositResult{}, cnerr.ErrNotOpen
	}
	id, err := eng.Deposit(amount)
	if err != nil {
		return depositResult{}, cnerr.WithCause(cnerr.ErrEngine, err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, depositTimeout)
	defer cancel()
	if _, err := h.waitFor(waitCtx, touches(notify.TransactionUpdated, id)); err != nil {
		return depositResult{}, err
	}
	if err := h.session.Save(ctx, true, true); err != nil {
		return depositResult{}, err
	}
	return depositResult{TransactionID: id, Amount: amount, Balance: h.session.ActualBalance()}, nil
}
