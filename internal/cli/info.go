package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/vigcoin/cryptonotewallet/internal/output"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var infoWaitSync bool

// infoCmd shows the wallet summary.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show address, balances and sync state",
	Long: `Open the wallet and print its address, balances, history size and
synchronization state. With --wait-sync the command waits until the wallet
has caught up with the chain before printing.

Example:
  cnwallet info
  cnwallet info --wait-sync -o json`,
	Args: cobra.NoArgs,
	RunE: runInfo,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	infoCmd.GroupID = "wallet"
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().BoolVar(&infoWaitSync, "wait-sync", false, "wait for synchronization before printing")
}

// walletInfo is the wallet summary printed by info.
type walletInfo struct {
	Path             string    `json:"path"`
	Address          string    `json:"address"`
	State            string    `json:"state"`
	Synchronized     bool      `json:"synchronized"`
	SyncCurrent      uint32    `json:"sync_current"`
	SyncTotal        uint32    `json:"sync_total"`
	ActualBalance    uint64    `json:"actual_balance"`
	PendingBalance   uint64    `json:"pending_balance"`
	TransactionCount uint64    `json:"transaction_count"`
	TransferCount    uint64    `json:"transfer_count"`
	LastBlockHeight  uint64    `json:"last_block_height"`
	LastBlockTime    time.Time `json:"last_block_time"`
}

func runInfo(cmd *cobra.Command, _ []string) error {
	h, err := openWallet(cmd, openExisting, cfg.Wallet.SaveOnClose)
	if err != nil {
		return err
	}

	if infoWaitSync {
		if err := h.waitSynced(cmd.Context()); err != nil {
			_ = h.Close()
			return err
		}
	}
	info := collectInfo(h)
	if err := h.Close(); err != nil {
		return err
	}

	return printer.Emit(info, func(w io.Writer) error {
		return writeInfoText(w, info)
	})
}

func collectInfo(h *walletHandle) walletInfo {
	s := h.session
	current, total := s.SyncProgress()
	height, blockTime := s.LastBlock()
	return walletInfo{
		Path:             h.path,
		Address:          s.Address(),
		State:            s.State().String(),
		Synchronized:     s.IsSynchronized(),
		SyncCurrent:      current,
		SyncTotal:        total,
		ActualBalance:    s.ActualBalance(),
		PendingBalance:   s.PendingBalance(),
		TransactionCount: s.TransactionCount(),
		TransferCount:    s.TransferCount(),
		LastBlockHeight:  height,
		LastBlockTime:    blockTime,
	}
}

func writeInfoText(w io.Writer, info walletInfo) error {
	sync := "no"
	if info.Synchronized {
		sync = "yes"
	}
	if info.SyncTotal > 0 {
		sync = fmt.Sprintf("%s (%d/%d)", sync, info.SyncCurrent, info.SyncTotal)
	}
	return output.KV(w,
		[2]string{"File", info.Path},
		[2]string{"Address", info.Address},
		[2]string{"State", info.State},
		[2]string{"Synchronized", sync},
		[2]string{"Balance", output.FormatAmount(info.ActualBalance)},
		[2]string{"Pending", output.FormatAmount(info.PendingBalance)},
		[2]string{"Transactions", strconv.FormatUint(info.TransactionCount, 10)},
		[2]string{"Transfers", strconv.FormatUint(info.TransferCount, 10)},
		[2]string{"Last block", fmt.Sprintf("%d at %s", info.LastBlockHeight, formatTime(info.LastBlockTime))},
	)
}
