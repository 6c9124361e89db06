package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigcoin/cryptonotewallet/internal/config"
	cnerr "github.com/vigcoin/cryptonotewallet/pkg/errors"
)

func TestLoadSave_RoundTrip(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	cfg := config.Defaults()
	cfg.Wallet.File = "/tmp/other.wallet"
	cfg.Notify.DebounceInterval = 750 * time.Millisecond
	cfg.Output.Verbose = true

	require.NoError(t, config.Save(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestDefaults(t *testing.T) {
	t.Parallel()
	cfg := config.Defaults()

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "~/.cnwallet", cfg.Home)
	assert.Equal(t, "default.wallet", cfg.Wallet.File)
	assert.True(t, cfg.Wallet.SaveOnClose)
	assert.Equal(t, 500*time.Millisecond, cfg.Notify.DebounceInterval)
	assert.Equal(t, 60*time.Second, cfg.Notify.StatusInterval)
	assert.Equal(t, 90*time.Minute, cfg.Notify.BlockAgeWarning)
	assert.True(t, cfg.Security.MemoryLock)
	assert.True(t, cfg.Security.SessionEnabled)
	assert.Equal(t, config.DefaultSessionTTL, cfg.Security.SessionTTL)
	assert.Equal(t, "auto", cfg.Output.DefaultFormat)
	assert.Equal(t, "error", cfg.Logging.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yaml")

	content := "wallet:\n  file: savings.wallet\nnotify:\n  debounce_interval: 2s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "savings.wallet", cfg.Wallet.File)
	assert.Equal(t, 2*time.Second, cfg.Notify.DebounceInterval)
	assert.True(t, cfg.Wallet.SaveOnClose)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()
	_, err := config.Load("/nonexistent/config.yaml")
	require.ErrorIs(t, err, os.ErrNotExist)

	cfg, err := config.LoadOrDefault("/nonexistent/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")

	err := os.WriteFile(path, []byte("invalid: yaml: content: ["), 0o600)
	require.NoError(t, err)

	_, err = config.Load(path)
	require.ErrorIs(t, err, cnerr.ErrConfigInvalid)
}

func TestSave_CreatesDirectory(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "subdir", "config.yaml")

	require.NoError(t, config.Save(config.Defaults(), path))

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestMerge(t *testing.T) {
	t.Parallel()

	cfg := config.Defaults()
	overrides := &config.Config{
		Wallet:  config.WalletConfig{File: "flag.wallet"},
		Logging: config.LoggingConfig{Level: "debug"},
	}
	require.NoError(t, config.Merge(cfg, overrides))

	assert.Equal(t, "flag.wallet", cfg.Wallet.File)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Zero-valued override fields keep the base value.
	assert.True(t, cfg.Wallet.SaveOnClose)
	assert.Equal(t, "~/.cnwallet", cfg.Home)

	require.NoError(t, config.Merge(cfg, nil))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*config.Config)
	}{
		{"unknown format", func(c *config.Config) { c.Output.DefaultFormat = "xml" }},
		{"max wait below interval", func(c *config.Config) {
			c.Notify.DebounceInterval = time.Second
			c.Notify.DebounceMaxWait = time.Millisecond
		}},
		{"work factor too low", func(c *config.Config) { c.Security.ScryptWorkFactor = 4 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.Defaults()
			tc.modify(cfg)
			require.ErrorIs(t, cfg.Validate(), cnerr.ErrConfigInvalid)
		})
	}
}

func TestWalletPath(t *testing.T) {
	t.Parallel()

	cfg := config.Defaults()
	cfg.Home = "/srv/cnwallet"

	cfg.Wallet.File = "main.wallet"
	assert.Equal(t, filepath.Join("/srv/cnwallet", "main.wallet"), cfg.WalletPath())

	cfg.Wallet.File = "/abs/main.wallet"
	assert.Equal(t, "/abs/main.wallet", cfg.WalletPath())
}

func TestExpandPath(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "x", "y"), config.ExpandPath("~/x/y"))
	assert.Equal(t, "/plain", config.ExpandPath("/plain"))
	assert.Equal(t, "rel/~/x", config.ExpandPath("rel/~/x"))
}

func TestPath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, filepath.Join("/home/u/.cnwallet", "config.yaml"), config.Path("/home/u/.cnwallet"))
}
