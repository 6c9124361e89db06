// Package cli implements the cnwallet command-line interface.
//
// This package uses global variables to manage CLI state, which is the standard
// pattern for Cobra-based CLI applications. The globals are initialized in
// PersistentPreRunE and cleaned up in PersistentPostRun.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vigcoin/cryptonotewallet/internal/config"
	"github.com/vigcoin/cryptonotewallet/internal/crypto"
	"github.com/vigcoin/cryptonotewallet/internal/keycache"
	"github.com/vigcoin/cryptonotewallet/internal/output"
	cnerr "github.com/vigcoin/cryptonotewallet/pkg/errors"
)

var (
	// Global flags
	homeDir      string
	walletFile   string
	outputFormat string
	logLevel     string
	verbose      bool

	// Global state initialized in PersistentPreRunE
	cfg     *config.Config
	logger  *config.Logger
	printer *output.Printer
	keys    *keycache.Cache

	// newKeyring supplies the keyring behind the password cache. Tests
	// replace it with an in-memory keyring.
	newKeyring = func() keycache.Keyring { return keycache.OSKeyring{} }
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "cnwallet",
	Short: "A CryptoNote wallet session CLI",
	Long: `cnwallet opens a CryptoNote wallet file, keeps it synchronized and
runs wallet commands against it: balances, history, sending, saving,
backups and password changes.

Example:
  cnwallet create --wallet savings.wallet
  cnwallet info --wait-sync
  cnwallet send --to cn1... --amount 1.5
  cnwallet backup --to ~/backups/savings`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return initGlobals(cmd)
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		cleanup()
	},
}

// Execute runs the root command and prints any error to stderr.
func Execute() error {
	finalizeHelp()
	err := rootCmd.Execute()
	if err != nil {
		format := output.FormatText
		if printer != nil {
			format = printer.Format()
		}
		_ = output.FormatError(rootCmd.ErrOrStderr(), err, format)
	}
	return err
}

// ExitCode returns the process exit code for an error.
func ExitCode(err error) int {
	return cnerr.ExitCode(err)
}

// initGlobals builds the configuration from file, environment and flags,
// then the logger, printer and password cache.
func initGlobals(cmd *cobra.Command) error {
	home := homeDir
	if home == "" {
		home = os.Getenv(config.EnvPrefix + "HOME")
	}
	if home == "" {
		home = config.DefaultHome()
	}
	home = config.ExpandPath(home)

	loaded, err := config.LoadOrDefault(config.Path(home))
	if err != nil {
		return err
	}
	cfg = loaded
	cfg.Home = home
	if cfg.Logging.File == config.Defaults().Logging.File {
		cfg.Logging.File = filepath.Join(home, "cnwallet.log")
	}

	if err := config.ApplyEnvironment(cfg); err != nil {
		return cnerr.WithCause(cnerr.ErrConfigInvalid, err)
	}
	if err := config.Merge(cfg, flagOverrides(cmd)); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err = config.NewLogger(config.ParseLogLevel(cfg.Logging.Level), cfg.GetLoggingFile())
	if err != nil {
		logger = config.NullLogger()
	}

	printer = output.NewPrinter(cmd.OutOrStdout(), output.ParseFormat(cfg.Output.DefaultFormat))

	if cfg.Security.ScryptWorkFactor > 0 {
		crypto.SetScryptWorkFactor(cfg.Security.ScryptWorkFactor)
	}

	keys = nil
	if cfg.Security.SessionEnabled {
		keys = keycache.New(filepath.Join(cfg.GetHome(), "sessions"), newKeyring())
	}

	logger.Debug().Str("command", cmd.CommandPath()).Str("wallet", cfg.WalletPath()).Msg("command started")
	return nil
}

// flagOverrides collects explicitly set global flags into a sparse Config.
func flagOverrides(cmd *cobra.Command) *config.Config {
	o := &config.Config{}
	flags := cmd.Flags()
	if flags.Changed("home") {
		o.Home = config.ExpandPath(homeDir)
	}
	if flags.Changed("wallet") {
		o.Wallet.File = walletFile
	}
	if flags.Changed("output") && outputFormat != "auto" {
		o.Output.DefaultFormat = outputFormat
	}
	if flags.Changed("log-level") {
		o.Logging.Level = logLevel
	}
	if verbose {
		o.Output.Verbose = true
		o.Logging.Level = "debug"
	}
	return o
}

// cleanup releases resources.
func cleanup() {
	if logger != nil {
		_ = logger.Close()
	}
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for flag registration
func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: "wallet", Title: "Wallet Commands:"},
		&cobra.Group{ID: "security", Title: "Security Commands:"},
	)
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "cnwallet data directory (default: ~/.cnwallet)")
	rootCmd.PersistentFlags().StringVarP(&walletFile, "wallet", "w", "", "wallet file, relative to the home directory unless absolute")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "auto", "output format: text, json, auto")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: off, error, warn, info, debug")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output and debug logging")
}
