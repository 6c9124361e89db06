package cli

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/vigcoin/cryptonotewallet/internal/config"
	"github.com/vigcoin/cryptonotewallet/internal/crypto"
	"github.com/vigcoin/cryptonotewallet/internal/keycache"
	cnerr "github.com/vigcoin/cryptonotewallet/pkg/errors"
)

// EnvNewPassword supplies the new password to a non-interactive passwd.
const EnvNewPassword = "CNWALLET_NEW_PASSWORD" // #nosec G101 -- variable name, not a credential

// passwordSource records where a password came from.
type passwordSource int

const (
	fromEnv passwordSource = iota
	fromCache
	fromPrompt
)

//nolint:gochecknoglobals // Replaced in tests
var promptPasswordFn = promptPassword

// promptPassword reads a password from the terminal without echo.
// The caller is responsible for zeroing the returned bytes after use.
func promptPassword(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd()) //nolint:gosec // G115: Fd fits in int on supported platforms
	if !term.IsTerminal(fd) {
		return nil, cnerr.WithSuggestion(cnerr.ErrInvalidInput,
			"stdin is not a terminal; set "+config.EnvPassword+" to supply the password")
	}

	out(os.Stderr, "%s", prompt)
	password, err := term.ReadPassword(fd)
	outln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	return password, nil
}

// promptSecret prompts and moves the answer into locked memory.
func promptSecret(prompt string) (*crypto.Secret, error) {
	b, err := promptPasswordFn(prompt)
	if err != nil {
		return nil, err
	}
	defer crypto.Zero(b)
	return lockSecret(crypto.NewSecret(b)), nil
}

// lockSecret warns when memory locking was requested but unavailable.
func lockSecret(s *crypto.Secret) *crypto.Secret {
	if cfg.Security.MemoryLock && s.Len() > 0 && !s.IsLocked() {
		logger.Warn().Msg("password memory could not be locked")
	}
	return s
}

// currentPassword returns the password of an existing wallet from the
// environment, the password cache or a prompt.
func currentPassword(walletPath string) (*crypto.Secret, passwordSource, error) {
	if v, ok := os.LookupEnv(config.EnvPassword); ok {
		return lockSecret(crypto.NewSecretString(v)), fromEnv, nil
	}

	if keys != nil && keys.Available() {
		secret, entry, err := keys.Lookup(walletPath)
		switch {
		case err == nil:
			logger.Debug().Str("wallet", walletPath).Time("expires", entry.ExpiresAt).Msg("using cached password")
			return lockSecret(secret), fromCache, nil
		case errors.Is(err, keycache.ErrNotFound):
		default:
			logger.Info().Err(err).Str("wallet", walletPath).Msg("cached password unusable")
		}
	}

	secret, err := promptSecret("Wallet password: ")
	if err != nil {
		return nil, 0, err
	}
	return secret, fromPrompt, nil
}

// newPassword returns a new password from envName or from a confirmed
// prompt.
func newPassword(envName string) (*crypto.Secret, error) {
	if v, ok := os.LookupEnv(envName); ok {
		return lockSecret(crypto.NewSecretString(v)), nil
	}

	first, err := promptSecret("New wallet password: ")
	if err != nil {
		return nil, err
	}
	confirm, err := promptSecret("Confirm password: ")
	if err != nil {
		first.Destroy()
		return nil, err
	}
	defer confirm.Destroy()

	if !confirm.Equal(first.String()) {
		first.Destroy()
		return nil, cnerr.WithSuggestion(cnerr.ErrInvalidInput, "passwords do not match")
	}
	if first.Len() == 0 {
		logger.Warn().Msg("wallet created without a password")
	}
	return first, nil
}

// rememberPassword caches password for walletPath when caching is enabled.
func rememberPassword(walletPath, password string) {
	if keys == nil || !keys.Available() {
		return
	}
	if err := keys.Store(walletPath, password, cfg.Security.SessionTTL); err != nil {
		logger.Warn().Err(err).Str("wallet", walletPath).Msg("could not cache password")
	}
}
