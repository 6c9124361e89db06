// Package crypto wraps age password-based encryption for wallet payloads and
// cached secrets, and holds passwords in locked memory.
//
//nolint:revive // Internal package name is intentional
package crypto

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"filippo.io/age"
)

// ErrWrongPassword is returned by Decrypt when the password does not open
// the ciphertext.
var ErrWrongPassword = errors.New("wrong password")

// workFactor is the scrypt log2(N) used for new ciphertexts. Zero keeps the
// age default.
//
//nolint:gochecknoglobals // Process-wide tuning knob, lowered by tests
var workFactor atomic.Int32

// SetScryptWorkFactor sets the scrypt work factor for subsequent Encrypt
// calls. Tests lower it to keep key derivation fast; zero restores the default.
func SetScryptWorkFactor(logN int) {
	workFactor.Store(int32(logN)) //nolint:gosec // G115: small log2 value
}

// Encrypt encrypts plaintext using age with a password-based recipient.
func Encrypt(plaintext []byte, password string) ([]byte, error) {
	recipient, err := age.NewScryptRecipient(password)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt recipient: %w", err)
	}
	if wf := workFactor.Load(); wf > 0 {
		recipient.SetWorkFactor(int(wf))
	}

	buf := &bytes.Buffer{}
	w, err := age.Encrypt(buf, recipient)
	if err != nil {
		return nil, fmt.Errorf("initializing encryption: %w", err)
	}

	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("writing encrypted data: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing encryption: %w", err)
	}

	return buf.Bytes(), nil
}

// Decrypt decrypts ciphertext using age with a password-based identity. A
// password mismatch is reported as ErrWrongPassword.
func Decrypt(ciphertext []byte, password string) ([]byte, error) {
	identity, err := age.NewScryptIdentity(password)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}

	r, err := age.Decrypt(bytes.NewReader(ciphertext), identity)
	if err != nil {
		var noMatch *age.NoIdentityMatchError
		if errors.As(err, &noMatch) {
			return nil, ErrWrongPassword
		}
		return nil, fmt.Errorf("initializing decryption: %w", err)
	}

	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted data: %w", err)
	}

	return plaintext, nil
}

// RandomBytes returns n bytes from crypto/rand.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Zero overwrites b with zeros.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
