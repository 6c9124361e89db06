// Package keycache remembers wallet passwords between CLI invocations.
// After a password is entered once it is kept for a bounded time: a random
// key lives in the OS keychain and the password, encrypted with that key,
// lives in an entry file under the cnwallet home.
package keycache

import (
	"errors"
	"time"
)

// TTL bounds for cached passwords.
const (
	DefaultTTL = 15 * time.Minute
	MaxTTL     = 60 * time.Minute
	MinTTL     = 1 * time.Minute

	// ServiceName is the keyring service name for cached wallet keys.
	ServiceName = "cnwallet-session"
)

var (
	// ErrNotFound indicates no cached password exists for the wallet.
	ErrNotFound = errors.New("no cached password")

	// ErrExpired indicates the cached password has expired.
	ErrExpired = errors.New("cached password expired")

	// ErrKeyringUnavailable indicates the OS keyring is not available.
	ErrKeyringUnavailable = errors.New("keyring unavailable")

	// ErrCorrupted indicates the entry file could not be read back.
	ErrCorrupted = errors.New("cached password corrupted")
)

// Entry describes a cached password without revealing it.
type Entry struct {
	WalletPath string    `json:"wallet_path"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ValidAt reports whether the entry is still usable at now.
func (e *Entry) ValidAt(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}

// RemainingAt returns the time left at now, or 0 once expired.
func (e *Entry) RemainingAt(now time.Time) time.Duration {
	remaining := e.ExpiresAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Keyring stores small secrets. The OS keychain implements it in
// production; tests use an in-memory map.
type Keyring interface {
	Set(service, user, password string) error
	Get(service, user string) (string, error)
	Delete(service, user string) error
}

// ClampTTL limits ttl to [MinTTL, MaxTTL].
func ClampTTL(ttl time.Duration) time.Duration {
	if ttl < MinTTL {
		return MinTTL
	}
	if ttl > MaxTTL {
		return MaxTTL
	}
	return ttl
}
