package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/vigcoin/cryptonotewallet/internal/adapter"
	"github.com/vigcoin/cryptonotewallet/internal/config"
	"github.com/vigcoin/cryptonotewallet/internal/output"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var backupTo string

// backupCmd writes a copy of the wallet.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a copy of the wallet to another file",
	Long: `Write the open wallet, with its transaction history but without the
synchronization cache, to a backup file. ".wallet" is appended to the
target when missing. The backup is encrypted with the wallet password.

Example:
  cnwallet backup --to ~/backups/savings`,
	Args: cobra.NoArgs,
	RunE: runBackup,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	backupCmd.GroupID = "wallet"
	rootCmd.AddCommand(backupCmd)
	backupCmd.Flags().StringVar(&backupTo, "to", "", "backup file path")
	_ = backupCmd.MarkFlagRequired("to")
}

type backupResult struct {
	Wallet string `json:"wallet"`
	Backup string `json:"backup"`
}

func runBackup(cmd *cobra.Command, _ []string) error {
	h, err := openWallet(cmd, openExisting, false)
	if err != nil {
		return err
	}

	target := config.ExpandPath(backupTo)
	res := backupResult{Wallet: h.path, Backup: adapter.BackupPath(target)}
	err = h.session.Backup(cmd.Context(), target)
	if closeErr := h.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	return printer.Emit(res, func(w io.Writer) error {
		output.Success(w, "Backup written to %s", res.Backup)
		return nil
	})
}
