package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/vigcoin/cryptonotewallet/internal/output"
)

// out is a helper for CLI output that ignores write errors.
//
//nolint:errcheck // CLI output writes to stdout are intentionally unchecked
func out(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}

// outln is a helper for CLI output with newline.
//
//nolint:errcheck // CLI output writes to stdout are intentionally unchecked
func outln(w io.Writer, args ...any) {
	fmt.Fprintln(w, args...)
}

// createCmd creates a new wallet file.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new wallet file",
	Long: `Generate a new wallet and write it, encrypted with a new password, to the
configured wallet file. The file must not exist yet.

Example:
  cnwallet create
  cnwallet create --wallet savings.wallet`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	createCmd.GroupID = "wallet"
	rootCmd.AddCommand(createCmd)
}

type createResult struct {
	Path    string `json:"path"`
	Address string `json:"address"`
}

func runCreate(cmd *cobra.Command, _ []string) error {
	h, err := openWallet(cmd, openCreate, false)
	if err != nil {
		return err
	}
	res := createResult{Path: h.path, Address: h.session.Address()}
	if err := h.Close(); err != nil {
		return err
	}

	return printer.Emit(res, func(w io.Writer) error {
		output.Success(cmd.ErrOrStderr(), "Wallet created")
		return output.KV(w, [2]string{"File", res.Path}, [2]string{"Address", res.Address})
	})
}

// formatTime renders a timestamp for text output.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04:05 UTC")
}

// formatDuration formats a duration as a compact string like "14m30s".
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	if s == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dm%ds", m, s)
}
