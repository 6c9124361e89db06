package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vigcoin/cryptonotewallet/internal/notify"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	watchUntilSynced bool
	watchFor         time.Duration
)

// watchCmd streams session notifications.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream wallet notifications",
	Long: `Open the wallet and print every session notification as it arrives:
sync progress, balance changes, transactions and status text. Text output
prints one line per notification; JSON output prints one object per line.

The stream runs until interrupted, until --for elapses, or with
--until-synced until synchronization completes.

Example:
  cnwallet watch
  cnwallet watch --until-synced -o json`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	watchCmd.GroupID = "wallet"
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchUntilSynced, "until-synced", false, "stop once synchronization completes")
	watchCmd.Flags().DurationVar(&watchFor, "for", 0, "stop after this long (0 for no limit)")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if watchFor > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, watchFor)
		defer cancel()
	}

	h, err := openWallet(cmd, openExisting, cfg.Wallet.SaveOnClose)
	if err != nil {
		return err
	}

	err = streamNotifications(ctx, h)
	if closeErr := h.Close(); err == nil {
		err = closeErr
	}
	return err
}

// streamNotifications prints notifications until ctx ends or, with
// --until-synced, until a SyncCompleted arrives. Ending by ctx is not an
// error.
func streamNotifications(ctx context.Context, h *walletHandle) error {
	for {
		select {
		case n := <-h.events:
			if err := printNotification(n); err != nil {
				return err
			}
			if watchUntilSynced && n.Kind == notify.SyncCompleted {
				return n.Err
			}
		case <-h.sub.Err():
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

func printNotification(n notify.Notification) error {
	if printer.IsJSON() {
		return printer.Line(n)
	}
	return printer.Line(n.At.Local().Format("15:04:05.000") + " " + n.String())
}
