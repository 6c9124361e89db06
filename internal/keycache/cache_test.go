package keycache_test

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigcoin/cryptonotewallet/internal/crypto"
	"github.com/vigcoin/cryptonotewallet/internal/keycache"
)

func TestMain(m *testing.M) {
	crypto.SetScryptWorkFactor(10)
	os.Exit(m.Run())
}

// memKeyring is an in-memory Keyring.
type memKeyring struct {
	mu      sync.Mutex
	store   map[string]string
	failing bool
}

func newMemKeyring() *memKeyring {
	return &memKeyring{store: make(map[string]string)}
}

func (m *memKeyring) Set(service, user, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return keycache.ErrKeyringUnavailable
	}
	m.store[service+":"+user] = password
	return nil
}

func (m *memKeyring) Get(service, user string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return "", keycache.ErrKeyringUnavailable
	}
	v, ok := m.store[service+":"+user]
	if !ok {
		return "", keycache.ErrNotFound
	}
	return v, nil
}

func (m *memKeyring) Delete(service, user string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return keycache.ErrKeyringUnavailable
	}
	delete(m.store, service+":"+user)
	return nil
}

func (m *memKeyring) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.store)
}

func (m *memKeyring) clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = make(map[string]string)
}

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newCache(t *testing.T) (*keycache.Cache, *memKeyring, *fakeClock, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "sessions")
	kr := newMemKeyring()
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	return keycache.New(dir, kr, keycache.WithClock(clock.Now)), kr, clock, dir
}

func TestCache_Available(t *testing.T) {
	t.Parallel()

	c, _, _, _ := newCache(t)
	assert.True(t, c.Available())

	kr := newMemKeyring()
	kr.failing = true
	down := keycache.New(t.TempDir(), kr)
	assert.False(t, down.Available())
	require.ErrorIs(t, down.Store("/w/a.wallet", "pw", time.Minute), keycache.ErrKeyringUnavailable)
	_, _, err := down.Lookup("/w/a.wallet")
	require.ErrorIs(t, err, keycache.ErrKeyringUnavailable)
}

func TestCache_StoreLookup(t *testing.T) {
	t.Parallel()
	c, kr, clock, dir := newCache(t)

	require.NoError(t, c.Store("/wallets/main.wallet", "correct horse", 10*time.Minute))
	assert.Equal(t, 1, kr.len())

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	var entries []string
	for _, f := range files {
		if strings.HasSuffix(f.Name(), ".entry") {
			entries = append(entries, f.Name())
			info, infoErr := f.Info()
			require.NoError(t, infoErr)
			assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
		}
	}
	require.Len(t, entries, 1)

	raw, err := os.ReadFile(filepath.Join(dir, entries[0]))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "correct horse")

	secret, entry, err := c.Lookup("/wallets/main.wallet")
	require.NoError(t, err)
	defer secret.Destroy()
	assert.True(t, secret.Equal("correct horse"))
	assert.Equal(t, "/wallets/main.wallet", entry.WalletPath)
	assert.Equal(t, 10*time.Minute, entry.RemainingAt(clock.Now()))
}

func TestCache_StoreReplaces(t *testing.T) {
	t.Parallel()
	c, _, _, _ := newCache(t)

	require.NoError(t, c.Store("/w/a.wallet", "first", time.Minute))
	require.NoError(t, c.Store("/w/a.wallet", "second", time.Minute))

	secret, _, err := c.Lookup("/w/a.wallet")
	require.NoError(t, err)
	assert.Equal(t, "second", secret.String())

	list, err := c.List()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCache_TTLClamped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ttl  time.Duration
		want time.Duration
	}{
		{"below minimum", 10 * time.Second, keycache.MinTTL},
		{"above maximum", 5 * time.Hour, keycache.MaxTTL},
		{"within range", 20 * time.Minute, 20 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, _, clock, _ := newCache(t)

			require.NoError(t, c.Store("/w/a.wallet", "pw", tt.ttl))
			_, entry, err := c.Lookup("/w/a.wallet")
			require.NoError(t, err)
			assert.Equal(t, tt.want, entry.ExpiresAt.Sub(clock.Now()))
		})
	}
}

func TestCache_Expired(t *testing.T) {
	t.Parallel()
	c, kr, clock, _ := newCache(t)

	require.NoError(t, c.Store("/w/a.wallet", "pw", keycache.MinTTL))
	clock.Advance(keycache.MinTTL)

	_, _, err := c.Lookup("/w/a.wallet")
	require.ErrorIs(t, err, keycache.ErrExpired)
	assert.Equal(t, 0, kr.len())

	_, _, err = c.Lookup("/w/a.wallet")
	require.ErrorIs(t, err, keycache.ErrNotFound)
}

func TestCache_KeyringEntryLost(t *testing.T) {
	t.Parallel()
	c, kr, _, _ := newCache(t)

	require.NoError(t, c.Store("/w/a.wallet", "pw", time.Minute))
	kr.clear()

	_, _, err := c.Lookup("/w/a.wallet")
	require.ErrorIs(t, err, keycache.ErrNotFound)

	list, err := c.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCache_CorruptedEntry(t *testing.T) {
	t.Parallel()
	c, _, _, dir := newCache(t)

	require.NoError(t, c.Store("/w/a.wallet", "pw", time.Minute))
	files, err := filepath.Glob(filepath.Join(dir, "*.entry"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.NoError(t, os.WriteFile(files[0], []byte("{not json"), 0o600))

	_, _, err = c.Lookup("/w/a.wallet")
	require.ErrorIs(t, err, keycache.ErrCorrupted)
	assert.NoFileExists(t, files[0])
}

func TestCache_RemoveAndRemoveAll(t *testing.T) {
	t.Parallel()
	c, kr, clock, _ := newCache(t)

	require.NoError(t, c.Store("/w/a.wallet", "a", time.Minute))
	require.NoError(t, c.Store("/w/b.wallet", "b", time.Minute))
	require.NoError(t, c.Store("/w/c.wallet", "c", 30*time.Minute))

	require.NoError(t, c.Remove("/w/a.wallet"))
	require.NoError(t, c.Remove("/w/a.wallet"))
	_, _, err := c.Lookup("/w/a.wallet")
	require.ErrorIs(t, err, keycache.ErrNotFound)

	clock.Advance(2 * time.Minute)
	list, err := c.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "/w/c.wallet", list[0].WalletPath)

	// Expired entries are still on disk and count toward RemoveAll.
	assert.Equal(t, 2, c.RemoveAll())
	assert.Equal(t, 0, kr.len())
}

func TestCache_EmptyDirectory(t *testing.T) {
	t.Parallel()
	c, _, _, _ := newCache(t)

	list, err := c.List()
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, 0, c.RemoveAll())
}

func TestClampTTL(t *testing.T) {
	t.Parallel()
	assert.Equal(t, keycache.MinTTL, keycache.ClampTTL(0))
	assert.Equal(t, keycache.DefaultTTL, keycache.ClampTTL(keycache.DefaultTTL))
	assert.Equal(t, keycache.MaxTTL, keycache.ClampTTL(24*time.Hour))
}
