// Package writer implements the two-phase file replace shared by the
// metadata and record stores.
//
// Write path:
//  1. write the new content to <path>.tmp (synced when the filesystem allows)
//  2. re-read the temp file and check it matches byte for byte and is valid JSON
//  3. rename the temp file onto <path>
//
// Any failure removes the temp file and leaves <path> untouched. Callers that
// need to undo a partially applied change take a Snapshot before writing and
// Restore it on failure.
package writer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/util"

	"github.com/leengari/primitive-db/internal/storage"
)

const tempSuffix = ".tmp"

type syncer interface {
	Sync() error
}

// WriteAtomic replaces path with data using temp + verify + rename
func WriteAtomic(fs billy.Filesystem, path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	tmpPath := path + tempSuffix

	if err := writeTemp(fs, tmpPath, data); err != nil {
		removeTemp(fs, tmpPath)
		return fmt.Errorf("failed to write temp file %s: %w", tmpPath, err)
	}

	if err := verify(fs, tmpPath, data); err != nil {
		removeTemp(fs, tmpPath)
		return fmt.Errorf("failed to verify temp file %s: %w", tmpPath, err)
	}

	// Atomic replace
	if err := fs.Rename(tmpPath, path); err != nil {
		removeTemp(fs, tmpPath)
		return fmt.Errorf("failed to rename temp → %s: %w", path, err)
	}

	slog.Debug("file replaced atomically",
		slog.String("path", path),
		slog.Int("bytes", len(data)),
	)
	return nil
}

func writeTemp(fs billy.Filesystem, tmpPath string, data []byte) error {
	f, err := fs.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}

	if s, ok := f.(syncer); ok {
		if err := s.Sync(); err != nil {
			f.Close()
			return err
		}
	}

	return f.Close()
}

func verify(fs billy.Filesystem, tmpPath string, want []byte) error {
	got, err := ReadFile(fs, tmpPath)
	if err != nil {
		return err
	}
	if !bytes.Equal(got, want) {
		return fmt.Errorf("content mismatch: wrote %d bytes, read back %d", len(want), len(got))
	}
	if !storage.Valid(got) {
		return fmt.Errorf("content is not valid JSON")
	}
	return nil
}

func removeTemp(fs billy.Filesystem, tmpPath string) {
	if err := fs.Remove(tmpPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to remove temp file",
			slog.String("path", tmpPath),
			slog.Any("error", err),
		)
	}
}

// ReadFile reads the whole file at path
func ReadFile(fs billy.Filesystem, path string) ([]byte, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// IsNotExist reports whether err means the file is absent
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

// Snapshot holds the bytes of a file as they were before a write
type Snapshot struct {
	path    string
	data    []byte
	existed bool
}

// TakeSnapshot captures the current content of path. A missing file is
// recorded as such so Restore can remove whatever a failed write left.
func TakeSnapshot(fs billy.Filesystem, path string) (*Snapshot, error) {
	data, err := ReadFile(fs, path)
	if err != nil {
		if IsNotExist(err) {
			return &Snapshot{path: path}, nil
		}
		return nil, fmt.Errorf("failed to snapshot %s: %w", path, err)
	}
	return &Snapshot{path: path, data: data, existed: true}, nil
}

func (s *Snapshot) Existed() bool {
	return s.existed
}

// Restore puts the snapshot back onto the canonical path if it changed and
// removes any leftover temp file.
func (s *Snapshot) Restore(fs billy.Filesystem) error {
	removeTemp(fs, s.path+tempSuffix)

	current, err := ReadFile(fs, s.path)
	if err != nil && !IsNotExist(err) {
		return fmt.Errorf("failed to read %s during restore: %w", s.path, err)
	}
	present := err == nil

	if !s.existed {
		if !present {
			return nil
		}
		if err := fs.Remove(s.path); err != nil {
			return fmt.Errorf("failed to remove %s during restore: %w", s.path, err)
		}
		return nil
	}

	if present && bytes.Equal(current, s.data) {
		return nil
	}

	if err := util.WriteFile(fs, s.path, s.data, 0644); err != nil {
		return fmt.Errorf("failed to restore %s: %w", s.path, err)
	}

	slog.Warn("file restored from snapshot", slog.String("path", s.path))
	return nil
}
