// Package lock serializes cmsdist runs that target the same installation prefix.
package lock

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"github.com/cms-sw/cmsdist-installer/internal/messages"
)

// DefaultTimeout bounds how long Acquire waits for another holder.
const DefaultTimeout = 10 * time.Minute

var (
	flockFn   = unix.Flock
	lockSleep = time.Sleep
	pollEvery = 100 * time.Millisecond
)

// Lock is an exclusive advisory lock held on an open file.
type Lock struct {
	file *os.File
}

// PathFor returns the lock file used for prefix under dir.
// Prefixes are hashed so the lock never has to live inside the prefix itself.
func PathFor(dir string, prefix string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(prefix)))
	return filepath.Join(dir, fmt.Sprintf("%x.lock", sum[:8]))
}

// EnvCacheDir overrides the cache directory that holds lock files.
const EnvCacheDir = "CMSDIST_CACHE_DIR"

// DefaultDir returns the lock directory: $CMSDIST_CACHE_DIR/locks when set,
// otherwise under the user cache dir.
func DefaultDir(getenv func(string) string) (string, error) {
	if dir := getenv(EnvCacheDir); dir != "" {
		return filepath.Join(dir, messages.LockDirectoryName), nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf(messages.LockCacheDirFmt, err)
	}
	return filepath.Join(base, "cmsdist", messages.LockDirectoryName), nil
}

// Acquire opens or creates path and takes an exclusive lock, waiting up to timeout.
// A notice naming what is waited for is written to notify once if the lock is busy.
func Acquire(ctx context.Context, path string, timeout time.Duration, what string, notify io.Writer) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf(messages.LockCreateDirFmt, err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf(messages.LockOpenFmt, path, err)
	}
	if err := lockFile(ctx, file, timeout, what, notify); err != nil {
		_ = file.Close()
		return nil, err
	}
	return &Lock{file: file}, nil
}

// With acquires the lock at path, runs fn, and releases the lock.
func With(ctx context.Context, path string, timeout time.Duration, what string, notify io.Writer, fn func() error) error {
	l, err := Acquire(ctx, path, timeout, what, notify)
	if err != nil {
		return err
	}
	defer func() {
		_ = l.Release()
	}()
	return fn()
}

// Release unlocks and closes the file. It is safe on a nil Lock.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	if err := flockFn(int(l.file.Fd()), unix.LOCK_UN); err != nil {
		_ = l.file.Close()
		return err
	}
	return l.file.Close()
}

func lockFile(ctx context.Context, file *os.File, timeout time.Duration, what string, notify io.Writer) error {
	deadline := time.Now().Add(timeout)
	notified := false
	for {
		err := flockFn(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EAGAIN) {
			return fmt.Errorf(messages.LockFmt, file.Name(), err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if time.Now().After(deadline) {
			return fmt.Errorf(messages.LockTimeoutFmt, file.Name(), timeout)
		}
		if !notified && notify != nil {
			_, _ = fmt.Fprintf(notify, messages.LockWaitingFmt, what)
			notified = true
		}
		lockSleep(pollEvery)
	}
}
