package keycache

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vigcoin/cryptonotewallet/internal/crypto"
	"github.com/vigcoin/cryptonotewallet/internal/fileguard"
)

const (
	entryExtension = ".entry"
	dirPermissions = 0o700
	keyLength      = 32

	// probeTimeout keeps startup from hanging on an unresponsive keyring daemon.
	probeTimeout = 3 * time.Second
)

// entryFile is the on-disk form of a cached password.
type entryFile struct {
	Entry             *Entry `json:"entry"`
	EncryptedPassword []byte `json:"encrypted_password"`
}

// Cache stores wallet passwords encrypted under per-wallet keys held in a
// Keyring. Entries are keyed by the wallet's absolute path.
type Cache struct {
	dir       string
	keyring   Keyring
	guard     *fileguard.Guard
	now       func() time.Time
	available bool
	mu        sync.RWMutex
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now. Tests use it to expire entries.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates a cache rooted at dir. A nil keyring selects the OS keyring.
// The keyring is probed once; when it does not respond the cache reports
// itself unavailable and every operation fails with ErrKeyringUnavailable.
func New(dir string, kr Keyring, opts ...Option) *Cache {
	if kr == nil {
		kr = OSKeyring{}
	}
	c := &Cache{
		dir:     dir,
		keyring: kr,
		guard:   fileguard.New(fileguard.WithPermissions(0o600)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.available = c.probe()
	return c
}

// Available reports whether the keyring answered the startup probe.
func (c *Cache) Available() bool {
	return c.available
}

// Store caches password for walletPath for ttl, clamped to [MinTTL, MaxTTL].
// An existing entry for the same wallet is replaced.
func (c *Cache) Store(walletPath, password string, ttl time.Duration) error {
	abs, err := filepath.Abs(walletPath)
	if err != nil {
		return fmt.Errorf("resolving wallet path: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.available {
		return ErrKeyringUnavailable
	}

	key, err := crypto.RandomBytes(keyLength)
	if err != nil {
		return fmt.Errorf("generating cache key: %w", err)
	}
	defer crypto.Zero(key)

	sealed, err := crypto.Encrypt([]byte(password), hex.EncodeToString(key))
	if err != nil {
		return fmt.Errorf("encrypting password: %w", err)
	}

	id := entryID(abs)
	if err := c.keyring.Set(ServiceName, id, base64.StdEncoding.EncodeToString(key)); err != nil {
		return fmt.Errorf("storing cache key in keyring: %w", err)
	}

	now := c.now()
	data, err := json.MarshalIndent(entryFile{
		Entry:             &Entry{WalletPath: abs, CreatedAt: now, ExpiresAt: now.Add(ClampTTL(ttl))},
		EncryptedPassword: sealed,
	}, "", "  ")
	if err != nil {
		_ = c.keyring.Delete(ServiceName, id)
		return fmt.Errorf("marshaling entry: %w", err)
	}

	if err := os.MkdirAll(c.dir, dirPermissions); err != nil {
		_ = c.keyring.Delete(ServiceName, id)
		return fmt.Errorf("creating cache directory: %w", err)
	}
	if err := c.guard.WriteAtomic(c.entryPath(id), data); err != nil {
		_ = c.keyring.Delete(ServiceName, id)
		return fmt.Errorf("writing entry: %w", err)
	}
	return nil
}

// Lookup returns the cached password for walletPath. Expired, orphaned and
// unreadable entries are removed and reported as ErrExpired, ErrNotFound and
// ErrCorrupted respectively.
func (c *Cache) Lookup(walletPath string) (*crypto.Secret, *Entry, error) {
	abs, err := filepath.Abs(walletPath)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving wallet path: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.available {
		return nil, nil, ErrKeyringUnavailable
	}

	id := entryID(abs)
	ef, err := c.readEntry(id)
	if err != nil {
		if errors.Is(err, ErrCorrupted) {
			_ = c.remove(id)
		}
		return nil, nil, err
	}
	if !ef.Entry.ValidAt(c.now()) {
		_ = c.remove(id)
		return nil, nil, ErrExpired
	}

	encoded, err := c.keyring.Get(ServiceName, id)
	if err != nil {
		_ = c.remove(id)
		return nil, nil, ErrNotFound
	}
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		_ = c.remove(id)
		return nil, nil, ErrCorrupted
	}
	defer crypto.Zero(key)

	plain, err := crypto.Decrypt(ef.EncryptedPassword, hex.EncodeToString(key))
	if err != nil {
		_ = c.remove(id)
		return nil, nil, ErrCorrupted
	}
	defer crypto.Zero(plain)

	return crypto.NewSecret(plain), ef.Entry, nil
}

// Remove deletes the entry for walletPath. Removing a missing entry is not
// an error.
func (c *Cache) Remove(walletPath string) error {
	abs, err := filepath.Abs(walletPath)
	if err != nil {
		return fmt.Errorf("resolving wallet path: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remove(entryID(abs))
}

// RemoveAll deletes every entry and returns how many were removed.
func (c *Cache) RemoveAll() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids, err := c.ids()
	if err != nil {
		return 0
	}
	count := 0
	for _, id := range ids {
		if c.remove(id) == nil {
			count++
		}
	}
	return count
}

// List returns the entries that have not expired.
func (c *Cache) List() ([]*Entry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.available {
		return nil, ErrKeyringUnavailable
	}

	ids, err := c.ids()
	if err != nil {
		return nil, err
	}
	now := c.now()
	var entries []*Entry
	for _, id := range ids {
		ef, err := c.readEntry(id)
		if err != nil {
			continue
		}
		if ef.Entry.ValidAt(now) {
			entries = append(entries, ef.Entry)
		}
	}
	return entries, nil
}

func (c *Cache) ids() ([]string, error) {
	dirEntries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cache directory: %w", err)
	}

	var ids []string
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, entryExtension) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, entryExtension))
	}
	return ids, nil
}

func (c *Cache) readEntry(id string) (*entryFile, error) {
	data, err := os.ReadFile(c.entryPath(id)) //nolint:gosec // G304: path built from a uuid
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading entry: %w", err)
	}

	var ef entryFile
	if err := json.Unmarshal(data, &ef); err != nil || ef.Entry == nil {
		return nil, ErrCorrupted
	}
	return &ef, nil
}

// remove deletes the keyring key, the entry file and its lock sidecar.
func (c *Cache) remove(id string) error {
	_ = c.keyring.Delete(ServiceName, id)

	path := c.entryPath(id)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing entry: %w", err)
	}
	_ = os.Remove(fileguard.LockPath(path))
	return nil
}

func (c *Cache) entryPath(id string) string {
	return filepath.Join(c.dir, id+entryExtension)
}

// entryID derives a stable file and keyring name from an absolute wallet path.
func entryID(abs string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+filepath.ToSlash(abs))).String()
}

func (c *Cache) probe() bool {
	ch := make(chan bool, 1)
	go func() {
		ch <- c.probeSync()
	}()

	select {
	case ok := <-ch:
		return ok
	case <-time.After(probeTimeout):
		return false
	}
}

func (c *Cache) probeSync() bool {
	const (
		probeService = "cnwallet-probe"
		probeUser    = "probe"
		probeValue   = "test"
	)

	if err := c.keyring.Set(probeService, probeUser, probeValue); err != nil {
		return false
	}
	v, err := c.keyring.Get(probeService, probeUser)
	if err != nil || v != probeValue {
		_ = c.keyring.Delete(probeService, probeUser)
		return false
	}
	return c.keyring.Delete(probeService, probeUser) == nil
}
