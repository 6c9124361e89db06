// Package fileguard serializes access to wallet files and makes every write
// crash-safe. Writes go to a temp file beside the target which is renamed over
// the target only after it has been fully written and synced, so the target is
// always either the prior complete version or the new complete version.
//
// Writers hold an exclusive lock on a sidecar "<path>.lock" file and on the
// target itself. Readers never create files: they take a shared lock on the
// sidecar when one exists and on the target otherwise. Locks are
// non-blocking: contention fails immediately with errors.ErrFileLocked.
package fileguard

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	cnerr "github.com/vigcoin/cryptonotewallet/pkg/errors"
)

const (
	// DefaultFilePermissions is the permission mode for wallet files.
	DefaultFilePermissions = 0o600

	// dirPermissions is used when a write target's directory is missing.
	dirPermissions = 0o750

	// lockSuffix names the sidecar lock file.
	lockSuffix = ".lock"

	// tempPattern names temp files created beside the target.
	tempPattern = ".tmp-*"
)

// ErrEmptyPath indicates an empty file path was provided.
var ErrEmptyPath = errors.New("path is empty")

// errAlreadyFinished is returned when Commit or Abort is called twice.
var errAlreadyFinished = errors.New("pending write already finished")

// Step names a stage of the atomic write sequence.
type Step int

// Atomic write steps, in execution order.
const (
	StepCreateTemp Step = iota
	StepWrite
	StepSync
	StepClose
	StepRename
)

func (s Step) String() string {
	switch s {
	case StepCreateTemp:
		return "create-temp"
	case StepWrite:
		return "write"
	case StepSync:
		return "sync"
	case StepClose:
		return "close"
	case StepRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Guard performs locked reads and atomic writes.
type Guard struct {
	perm   os.FileMode
	fault  func(Step) error
	logger zerolog.Logger
}

// Option configures a Guard.
type Option func(*Guard)

// WithPermissions sets the mode of files written by the guard.
func WithPermissions(perm os.FileMode) Option {
	return func(g *Guard) {
		g.perm = perm
	}
}

// WithLogger sets the guard's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(g *Guard) {
		g.logger = l
	}
}

// WithFaultInjector installs a hook called before every write step. A non-nil
// return makes that step fail as if the filesystem had reported the error.
func WithFaultInjector(fn func(Step) error) Option {
	return func(g *Guard) {
		g.fault = fn
	}
}

// New creates a Guard.
func New(opts ...Option) *Guard {
	g := &Guard{
		perm:   DefaultFilePermissions,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Guard) inject(step Step) error {
	if g.fault == nil {
		return nil
	}
	if err := g.fault(step); err != nil {
		return fmt.Errorf("%s: %w", step, err)
	}
	return nil
}

// LockPath returns the sidecar lock file path for target.
func LockPath(target string) string {
	return target + lockSuffix
}

// openLock opens the lock file at path and locks it. With create false a
// missing lock file is not an error: both return values are nil.
func openLock(path string, exclusive, create bool) (*os.File, error) {
	flag := os.O_RDWR
	if create {
		flag |= os.O_CREATE
	}

	f, err := os.OpenFile(path, flag, DefaultFilePermissions) //nolint:gosec // G304: sidecar of the wallet path
	if err != nil {
		if !create && errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, cnerr.WithCause(cnerr.ErrIO, fmt.Errorf("opening lock file: %w", err))
	}

	if err = lockFile(f, exclusive); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

// releaseLock drops the lock and closes the handle. Lock files are kept so
// that a handle racing with the release never locks a different inode.
func releaseLock(f *os.File) error {
	if f == nil {
		return nil
	}
	_ = unlockFile(f)
	return f.Close()
}

// Reader is a read-only handle on a wallet file held under a shared lock.
type Reader struct {
	*os.File

	// lock is the sidecar; nil when the lock is held on File itself.
	lock *os.File
	once sync.Once
}

// Close closes the file and releases the shared lock.
func (r *Reader) Close() error {
	var err error
	r.once.Do(func() {
		if r.lock == nil {
			_ = unlockFile(r.File)
		}
		err = errors.Join(r.File.Close(), releaseLock(r.lock))
	})
	return err
}

// OpenRead opens path for reading under a shared lock. It fails with
// ErrFileLocked while a writer holds the file, and never creates a file.
func (g *Guard) OpenRead(path string) (*Reader, error) {
	if path == "" {
		return nil, cnerr.WithCause(cnerr.ErrIO, ErrEmptyPath)
	}

	f, err := os.Open(path) //nolint:gosec // G304: path is the configured wallet file
	if err != nil {
		return nil, cnerr.WithCause(cnerr.ErrIO, fmt.Errorf("opening %s: %w", path, err))
	}

	lock, err := openLock(LockPath(path), false, false)
	if err == nil && lock == nil {
		err = lockFile(f, false)
	}
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	g.logger.Debug().Str("path", path).Bool("sidecar", lock != nil).Msg("opened wallet file for reading")
	return &Reader{File: f, lock: lock}, nil
}

// PendingWrite is an in-progress atomic replacement of a target file. Data is
// written to a temp file; Commit publishes it, Abort discards it. Exactly one
// of the two must be called.
type PendingWrite struct {
	g      *Guard
	target string
	tmp    *os.File
	lock   *os.File
	// held is the existing target, locked until just before the rename.
	held *os.File

	mu       sync.Mutex
	writeErr error
	finished bool
}

// BeginWrite takes the exclusive lock for target and creates the temp file.
// It fails with ErrFileLocked if any reader or writer holds the target.
func (g *Guard) BeginWrite(target string) (*PendingWrite, error) {
	if target == "" {
		return nil, cnerr.WithCause(cnerr.ErrIO, ErrEmptyPath)
	}

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, cnerr.WithCause(cnerr.ErrIO, fmt.Errorf("creating directory: %w", err))
	}

	lock, err := openLock(LockPath(target), true, true)
	if err != nil {
		return nil, err
	}

	// Readers that found no sidecar lock the target itself.
	held, err := os.Open(target) //nolint:gosec // G304: path is the configured wallet file
	switch {
	case err == nil:
		if err = lockFile(held, true); err != nil {
			_ = held.Close()
			_ = releaseLock(lock)
			return nil, err
		}
	case errors.Is(err, fs.ErrNotExist):
		held = nil
	default:
		_ = releaseLock(lock)
		return nil, cnerr.WithCause(cnerr.ErrIO, fmt.Errorf("opening %s: %w", target, err))
	}

	w := &PendingWrite{g: g, target: target, lock: lock, held: held}

	if err = g.inject(StepCreateTemp); err != nil {
		_ = w.releaseLocks()
		return nil, cnerr.WithCause(cnerr.ErrIO, err)
	}

	w.tmp, err = os.CreateTemp(dir, filepath.Base(target)+tempPattern)
	if err != nil {
		_ = w.releaseLocks()
		return nil, cnerr.WithCause(cnerr.ErrIO, fmt.Errorf("creating temp file: %w", err))
	}

	g.logger.Debug().Str("target", target).Str("temp", w.tmp.Name()).Msg("began atomic write")
	return w, nil
}

func (w *PendingWrite) releaseTarget() {
	if w.held != nil {
		_ = releaseLock(w.held)
		w.held = nil
	}
}

func (w *PendingWrite) releaseLocks() error {
	w.releaseTarget()
	return releaseLock(w.lock)
}

// Target returns the path the write will replace.
func (w *PendingWrite) Target() string {
	return w.target
}

// TempPath returns the path of the temp file.
func (w *PendingWrite) TempPath() string {
	return w.tmp.Name()
}

// Write appends p to the temp file. The first failure is sticky: later writes
// fail with the same ErrIO error and Commit refuses to publish.
func (w *PendingWrite) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.finished {
		return 0, errAlreadyFinished
	}
	if w.writeErr != nil {
		return 0, w.writeErr
	}
	if err := w.g.inject(StepWrite); err != nil {
		w.writeErr = cnerr.WithCause(cnerr.ErrIO, err)
		return 0, w.writeErr
	}

	n, err := w.tmp.Write(p)
	if err != nil {
		w.writeErr = cnerr.WithCause(cnerr.ErrIO, fmt.Errorf("writing temp file: %w", err))
	}
	return n, w.writeErr
}

// Commit syncs the temp file and renames it over the target. On any failure
// the target is left untouched and an ErrIO error is returned.
func (w *PendingWrite) Commit() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.finished {
		return errAlreadyFinished
	}
	w.finished = true
	defer func() { _ = w.releaseLocks() }()

	if err := w.commitLocked(); err != nil {
		_ = w.tmp.Close()
		_ = os.Remove(w.tmp.Name())
		w.g.logger.Error().Err(err).Str("target", w.target).Msg("atomic write failed")
		return cnerr.WithCause(cnerr.ErrIO, err)
	}

	w.g.logger.Debug().Str("target", w.target).Msg("committed atomic write")
	return nil
}

func (w *PendingWrite) commitLocked() error {
	if w.writeErr != nil {
		return w.writeErr
	}

	if err := w.g.inject(StepSync); err != nil {
		return err
	}
	if err := w.tmp.Chmod(w.g.perm); err != nil {
		return fmt.Errorf("setting temp file permissions: %w", err)
	}
	if err := w.tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}

	if err := w.g.inject(StepClose); err != nil {
		return err
	}
	if err := w.tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := w.g.inject(StepRename); err != nil {
		return err
	}
	// Windows refuses to rename over an open handle.
	w.releaseTarget()
	if err := os.Rename(w.tmp.Name(), w.target); err != nil { //nolint:gosec // G703: target validated by caller
		return fmt.Errorf("renaming temp file: %w", err)
	}

	// Best effort directory sync for rename durability.
	if dir, err := os.Open(filepath.Dir(w.target)); err == nil { //nolint:gosec // G304: derived from target
		_ = dir.Sync()
		_ = dir.Close()
	}
	return nil
}

// Abort discards the temp file and releases the lock. The target is untouched.
func (w *PendingWrite) Abort() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.finished {
		return errAlreadyFinished
	}
	w.finished = true

	closeErr := w.tmp.Close()
	removeErr := os.Remove(w.tmp.Name())
	if errors.Is(removeErr, fs.ErrNotExist) {
		removeErr = nil
	}
	if errors.Is(closeErr, os.ErrClosed) {
		closeErr = nil
	}

	w.g.logger.Debug().Str("target", w.target).Msg("aborted atomic write")
	return errors.Join(closeErr, removeErr, w.releaseLocks())
}

// WriteAtomic replaces path with data in one atomic step.
func (g *Guard) WriteAtomic(path string, data []byte) error {
	w, err := g.BeginWrite(path)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Abort()
		return cnerr.WithCause(cnerr.ErrIO, err)
	}
	return w.Commit()
}
