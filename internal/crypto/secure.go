package crypto

import (
	"crypto/subtle"
	"runtime"
	"sync"
)

// Secret holds a password or key in memory that is mlocked when the
// platform allows it and zeroed on Destroy.
type Secret struct {
	mu     sync.Mutex
	data   []byte
	locked bool
}

// NewSecret copies b into a new Secret. The caller keeps ownership of b.
func NewSecret(b []byte) *Secret {
	s := &Secret{data: make([]byte, len(b))}
	copy(s.data, b)
	s.locked = mlock(s.data)

	// Clear the memory even if Destroy is never called.
	runtime.SetFinalizer(s, func(s *Secret) {
		s.Destroy()
	})
	return s
}

// NewSecretString is NewSecret for a string value.
func NewSecretString(v string) *Secret {
	return NewSecret([]byte(v))
}

// String returns a copy of the secret as a string. Returns "" after Destroy.
func (s *Secret) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.data)
}

// Equal compares the secret with v in constant time.
func (s *Secret) Equal(v string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return subtle.ConstantTimeCompare(s.data, []byte(v)) == 1
}

// Len returns the length of the secret, or 0 after Destroy.
func (s *Secret) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// IsLocked reports whether the memory is mlocked.
func (s *Secret) IsLocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

// Destroy zeros and unlocks the memory. Safe to call multiple times.
func (s *Secret) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return
	}
	Zero(s.data)
	if s.locked {
		munlock(s.data)
		s.locked = false
	}
	s.data = nil
	runtime.SetFinalizer(s, nil)
}
