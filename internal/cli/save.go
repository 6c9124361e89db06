package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/vigcoin/cryptonotewallet/internal/output"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	saveNoDetails bool
	saveNoCache   bool
)

// saveCmd writes the wallet file.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Write the wallet file",
	Long: `Open the wallet and write it back to disk atomically. The file on disk
is either the previous version or the new one, never a partial write.

--no-details omits the transaction history and --no-cache omits the
synchronization cache; both are rebuilt on the next sync.

Example:
  cnwallet save
  cnwallet save --no-cache`,
	Args: cobra.NoArgs,
	RunE: runSave,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	saveCmd.GroupID = "wallet"
	rootCmd.AddCommand(saveCmd)
	saveCmd.Flags().BoolVar(&saveNoDetails, "no-details", false, "omit transaction details")
	saveCmd.Flags().BoolVar(&saveNoCache, "no-cache", false, "omit the synchronization cache")
}

type saveResult struct {
	Path    string `json:"path"`
	Details bool   `json:"details"`
	Cache   bool   `json:"cache"`
}

func runSave(cmd *cobra.Command, _ []string) error {
	h, err := openWallet(cmd, openExisting, false)
	if err != nil {
		return err
	}

	res := saveResult{Path: h.path, Details: !saveNoDetails, Cache: !saveNoCache}
	err = h.session.Save(cmd.Context(), res.Details, res.Cache)
	if closeErr := h.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	return printer.Emit(res, func(w io.Writer) error {
		output.Success(w, "Saved %s", res.Path)
		return nil
	})
}
