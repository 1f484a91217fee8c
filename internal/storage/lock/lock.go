// Package lock enforces a single writer per data directory with an
// advisory file lock.
package lock

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/leengari/primitive-db/internal/domain/errors"
)

// FileName is the lock file created inside the data directory
const FileName = ".lock"

type Lock struct {
	fl *flock.Flock
}

// Acquire takes an exclusive non-blocking lock on <dir>/.lock. It fails
// immediately when another process holds it.
func Acquire(dir string) (*Lock, error) {
	path := filepath.Join(dir, FileName)
	fl := flock.New(path)

	ok, err := fl.TryLock()
	if err != nil {
		return nil, errors.NewStorage("", "failed to acquire database lock", err)
	}
	if !ok {
		return nil, errors.NewStorage("", "database is locked by another process",
			fmt.Errorf("lock held on %s", path))
	}

	slog.Debug("database lock acquired", slog.String("path", path))
	return &Lock{fl: fl}, nil
}

func (l *Lock) Path() string {
	return l.fl.Path()
}

// Release unlocks; safe on a nil lock
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	return l.fl.Unlock()
}
