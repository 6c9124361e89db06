//go:build windows

package fileguard

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/windows"

	cnerr "github.com/vigcoin/cryptonotewallet/pkg/errors"
)

// lockFile takes a non-blocking LockFileEx lock on the first byte of f,
// shared or exclusive.
func lockFile(f *os.File, exclusive bool) error {
	flags := uint32(windows.LOCKFILE_FAIL_IMMEDIATELY)
	if exclusive {
		flags |= windows.LOCKFILE_EXCLUSIVE_LOCK
	}

	var overlapped windows.Overlapped
	if err := windows.LockFileEx(windows.Handle(f.Fd()), flags, 0, 1, 0, &overlapped); err != nil {
		if errors.Is(err, windows.ERROR_LOCK_VIOLATION) {
			return cnerr.WithCause(cnerr.ErrFileLocked, fmt.Errorf("%s: %w", f.Name(), err))
		}
		return cnerr.WithCause(cnerr.ErrIO, fmt.Errorf("LockFileEx failed: %w", err))
	}
	return nil
}

func unlockFile(f *os.File) error {
	var overlapped windows.Overlapped
	return windows.UnlockFileEx(windows.Handle(f.Fd()), 0, 1, 0, &overlapped)
}
