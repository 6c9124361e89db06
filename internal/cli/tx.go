package cli

import (
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vigcoin/cryptonotewallet/internal/engine"
	"github.com/vigcoin/cryptonotewallet/internal/output"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var txLimit int

// txCmd is the parent command for transaction history.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Inspect transaction history",
}

// txListCmd lists transactions.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var txListCmd = &cobra.Command{
	Use:   "list",
	Short: "List wallet transactions, newest first",
	Long: `List the wallet's transactions, newest first. Amounts are signed:
incoming transactions are positive, outgoing ones negative and include
the fee.

Example:
  cnwallet tx list
  cnwallet tx list --limit 5 -o json`,
	Args: cobra.NoArgs,
	RunE: runTxList,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	txCmd.GroupID = "wallet"
	rootCmd.AddCommand(txCmd)
	txCmd.AddCommand(txListCmd)
	txListCmd.Flags().IntVar(&txLimit, "limit", 0, "show at most this many transactions (0 for all)")
}

func runTxList(cmd *cobra.Command, _ []string) error {
	h, err := openWallet(cmd, openExisting, cfg.Wallet.SaveOnClose)
	if err != nil {
		return err
	}
	txs := listTransactions(h, txLimit)
	if err := h.Close(); err != nil {
		return err
	}

	return printer.Emit(txs, func(w io.Writer) error {
		if len(txs) == 0 {
			outln(w, "No transactions")
			return nil
		}
		return transactionTable(txs).Render(w)
	})
}

// listTransactions returns up to limit transactions, newest first.
func listTransactions(h *walletHandle, limit int) []engine.Transaction {
	count := h.session.TransactionCount()
	txs := make([]engine.Transaction, 0, count)
	for i := count; i > 0; i-- {
		if limit > 0 && len(txs) == limit {
			break
		}
		if tx, ok := h.session.Transaction(engine.TransactionID(i - 1)); ok {
			txs = append(txs, tx)
		}
	}
	return txs
}

func transactionTable(txs []engine.Transaction) *output.Table {
	t := output.NewTable("ID", "AMOUNT", "FEE", "HEIGHT", "STATE", "TIME", "HASH").AlignRight(1, 2, 3)
	for _, tx := range txs {
		hash := tx.Hash
		if len(hash) > 16 {
			hash = hash[:16] + "…"
		}
		t.AddRow(
			strconv.FormatUint(uint64(tx.ID), 10),
			output.FormatSigned(tx.TotalAmount),
			output.FormatAmount(tx.Fee),
			strconv.FormatUint(tx.BlockHeight, 10),
			tx.State.String(),
			formatTime(tx.Timestamp),
			hash,
		)
	}
	return t
}
