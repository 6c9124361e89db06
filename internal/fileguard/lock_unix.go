//go:build !windows

package fileguard

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	cnerr "github.com/vigcoin/cryptonotewallet/pkg/errors"
)

// lockFile takes a non-blocking flock on f, shared or exclusive. flock locks
// belong to the open file description, so two handles in the same process
// conflict just like two processes do.
func lockFile(f *os.File, exclusive bool) error {
	how := unix.LOCK_SH
	if exclusive {
		how = unix.LOCK_EX
	}

	if err := unix.Flock(int(f.Fd()), how|unix.LOCK_NB); err != nil { //nolint:gosec // G115: Fd fits in int
		if errors.Is(err, unix.EWOULDBLOCK) {
			return cnerr.WithCause(cnerr.ErrFileLocked, fmt.Errorf("%s: %w", f.Name(), err))
		}
		return cnerr.WithCause(cnerr.ErrIO, fmt.Errorf("acquiring file lock: %w", err))
	}
	return nil
}

func unlockFile(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN) //nolint:gosec // G115: Fd fits in int
}
