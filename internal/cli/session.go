package cli

import (
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/vigcoin/cryptonotewallet/internal/keycache"
	"github.com/vigcoin/cryptonotewallet/internal/output"
	cnerr "github.com/vigcoin/cryptonotewallet/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var sessionTTL time.Duration

// sessionCmd is the parent command for the password cache.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage cached wallet passwords",
	Long: `Manage the wallet password cache.

When enabled, cnwallet remembers a wallet's password for a limited time
(default: 15 minutes) after it was entered, so commands in between do not
prompt again.

The cache key lives in your operating system's keychain:
- macOS: Keychain
- Linux: Secret Service (GNOME Keyring, KWallet)
- Windows: Credential Manager

If the keychain is unavailable, caching is disabled and every command
prompts for the password.`,
}

// sessionUnlockCmd caches the wallet password.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var sessionUnlockCmd = &cobra.Command{
	Use:     "unlock",
	Short:   "Verify and cache the wallet password",
	Example: `  cnwallet session unlock --ttl 30m`,
	Args:    cobra.NoArgs,
	RunE:    runSessionUnlock,
}

// sessionLockCmd removes every cached password.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var sessionLockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Forget all cached passwords immediately",
	Long: `Remove every cached wallet password.

Use this when stepping away from your computer to ensure wallet
passwords are not cached.`,
	Example: `  cnwallet session lock`,
	Args:    cobra.NoArgs,
	RunE:    runSessionLock,
}

// sessionStatusCmd lists cached passwords.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var sessionStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show cached passwords and remaining time",
	Example: `  cnwallet session status`,
	Args:    cobra.NoArgs,
	RunE:    runSessionStatus,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	sessionCmd.GroupID = "security"
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionUnlockCmd)
	sessionCmd.AddCommand(sessionLockCmd)
	sessionCmd.AddCommand(sessionStatusCmd)
	sessionUnlockCmd.Flags().DurationVar(&sessionTTL, "ttl", 0, "how long to keep the password (default: security.session_ttl)")
}

// errCacheUnavailable explains why the password cache cannot be used.
func errCacheUnavailable() error {
	if keys == nil {
		return cnerr.WithSuggestion(cnerr.ErrInvalidInput, "password caching is disabled (security.session_enabled)")
	}
	return cnerr.WithSuggestion(cnerr.WithCause(cnerr.ErrGeneral, keycache.ErrKeyringUnavailable),
		"the OS keychain did not respond; passwords will be prompted for")
}

func cacheAvailable() bool {
	return keys != nil && keys.Available()
}

func runSessionUnlock(cmd *cobra.Command, _ []string) error {
	if !cacheAvailable() {
		return errCacheUnavailable()
	}
	path := cfg.WalletPath()
	if err := requireWallet(path); err != nil {
		return err
	}

	// Ask for the password even if one is cached, and prove it opens the
	// wallet before caching it.
	_ = keys.Remove(path)
	h, err := openWallet(cmd, openExisting, false)
	if err != nil {
		return err
	}
	if err := h.Close(); err != nil {
		return err
	}

	ttl := cfg.Security.SessionTTL
	if cmd.Flags().Changed("ttl") {
		ttl = sessionTTL
		pw, _, err := keys.Lookup(path)
		if err != nil {
			return err
		}
		defer pw.Destroy()
		if err := keys.Store(path, pw.String(), ttl); err != nil {
			return err
		}
	}
	_, entry, err := keys.Lookup(path)
	if err != nil {
		return err
	}

	return printer.Emit(sessionView(entry), func(w io.Writer) error {
		output.Success(w, "Password cached for %s (expires in %s)", path, formatDuration(entry.RemainingAt(time.Now())))
		return nil
	})
}

func runSessionLock(cmd *cobra.Command, _ []string) error {
	if !cacheAvailable() {
		return errCacheUnavailable()
	}
	count := keys.RemoveAll()

	return printer.Emit(map[string]int{"ended": count}, func(w io.Writer) error {
		out(w, "Forgot %d cached password(s)\n", count)
		return nil
	})
}

type sessionEntry struct {
	Wallet    string `json:"wallet"`
	ExpiresIn string `json:"expires_in"`
	CreatedAt string `json:"created_at"`
}

func sessionView(e *keycache.Entry) sessionEntry {
	return sessionEntry{
		Wallet:    e.WalletPath,
		ExpiresIn: formatDuration(e.RemainingAt(time.Now())),
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}

func runSessionStatus(cmd *cobra.Command, _ []string) error {
	if !cacheAvailable() {
		return printer.Emit(map[string]any{"available": false}, func(w io.Writer) error {
			outln(w, "Password caching is not available")
			return nil
		})
	}

	entries, err := keys.List()
	if err != nil {
		return err
	}
	views := make([]sessionEntry, len(entries))
	for i, e := range entries {
		views[i] = sessionView(e)
	}

	payload := struct {
		Available bool           `json:"available"`
		Sessions  []sessionEntry `json:"sessions"`
	}{Available: true, Sessions: views}

	return printer.Emit(payload, func(w io.Writer) error {
		if len(views) == 0 {
			outln(w, "No cached passwords")
			return nil
		}
		t := output.NewTable("WALLET", "EXPIRES IN", "CREATED")
		for _, v := range views {
			t.AddRow(v.Wallet, v.ExpiresIn, v.CreatedAt)
		}
		return t.Render(w)
	})
}
