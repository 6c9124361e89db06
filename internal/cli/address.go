package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/vigcoin/cryptonotewallet/internal/output"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var addressQR bool

// addressCmd prints the receiving address.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Show the receiving address",
	Long: `Print the wallet's receiving address, optionally as a QR code for
scanning with a mobile wallet.

Example:
  cnwallet address
  cnwallet address --qr`,
	Args: cobra.NoArgs,
	RunE: runAddress,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	addressCmd.GroupID = "wallet"
	rootCmd.AddCommand(addressCmd)
	addressCmd.Flags().BoolVar(&addressQR, "qr", false, "also render the address as a QR code")
}

func runAddress(cmd *cobra.Command, _ []string) error {
	h, err := openWallet(cmd, openExisting, false)
	if err != nil {
		return err
	}
	addr := h.session.Address()
	if err := h.Close(); err != nil {
		return err
	}

	return printer.Emit(map[string]string{"address": addr}, func(w io.Writer) error {
		outln(w, addr)
		if !addressQR {
			return nil
		}
		qr := output.DefaultQRConfig()
		qr.Force = true
		return output.RenderQR(w, addr, qr)
	})
}
