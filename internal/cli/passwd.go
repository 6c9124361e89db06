package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/vigcoin/cryptonotewallet/internal/output"
)

// passwdCmd changes the wallet password.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the wallet password",
	Long: `Open the wallet with its current password, change it and write the
wallet file encrypted with the new one. If the file cannot be written the
old password stays in effect.

The new password is prompted for twice, or read from ` + EnvNewPassword + `.

Example:
  cnwallet passwd`,
	Args: cobra.NoArgs,
	RunE: runPasswd,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	passwdCmd.GroupID = "security"
	rootCmd.AddCommand(passwdCmd)
}

func runPasswd(cmd *cobra.Command, _ []string) error {
	if err := requireWallet(cfg.WalletPath()); err != nil {
		return err
	}
	old, _, err := currentPassword(cfg.WalletPath())
	if err != nil {
		return err
	}
	defer old.Destroy()

	next, err := newPassword(EnvNewPassword)
	if err != nil {
		return err
	}
	defer next.Destroy()

	h, err := newHandle(false)
	if err != nil {
		return err
	}
	if err := h.session.Open(cmd.Context(), old.String()); err != nil {
		h.discard()
		return err
	}

	err = h.session.ChangePassword(cmd.Context(), old.String(), next.String())
	if closeErr := h.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}
	rememberPassword(h.path, next.String())

	return printer.Emit(map[string]string{"path": h.path, "status": "password changed"}, func(w io.Writer) error {
		output.Success(w, "Password changed for %s", h.path)
		return nil
	})
}
