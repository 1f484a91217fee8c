package metadata

import (
	"log/slog"

	"github.com/go-git/go-billy/v6"

	"github.com/leengari/primitive-db/internal/domain/errors"
	"github.com/leengari/primitive-db/internal/storage"
	"github.com/leengari/primitive-db/internal/storage/writer"
)

// Store persists the whole schema registry as a single document
type Store interface {
	Save(meta DatabaseMeta) error
	Load() (DatabaseMeta, error)
}

// FileStore keeps the registry in one JSON file on a billy filesystem
type FileStore struct {
	fs   billy.Filesystem
	path string
}

func NewFileStore(fs billy.Filesystem, path string) *FileStore {
	return &FileStore{fs: fs, path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

// Save replaces the metadata file atomically. The previous file is left
// untouched on failure.
func (s *FileStore) Save(meta DatabaseMeta) error {
	if meta.Tables == nil {
		meta.Tables = make(map[string]TableMeta)
	}

	data, err := storage.Encode(meta)
	if err != nil {
		return errors.NewStorage("", "failed to encode metadata", err)
	}

	if err := writer.WriteAtomic(s.fs, s.path, data); err != nil {
		return errors.NewStorage("", "failed to save metadata", err)
	}

	slog.Info("Metadata saved successfully",
		slog.String("path", s.path),
		slog.Int("table_count", len(meta.Tables)),
	)
	return nil
}

// Load returns an empty registry when the file is missing or undecodable
func (s *FileStore) Load() (DatabaseMeta, error) {
	data, err := writer.ReadFile(s.fs, s.path)
	if err != nil {
		if writer.IsNotExist(err) {
			slog.Debug("metadata file not found, starting empty", slog.String("path", s.path))
			return NewDatabaseMeta(), nil
		}
		return DatabaseMeta{}, errors.NewStorage("", "failed to read metadata", err)
	}

	var meta DatabaseMeta
	if err := storage.Decode(data, &meta); err != nil {
		slog.Warn("metadata file is corrupt, starting empty",
			slog.String("path", s.path),
			slog.Any("error", err),
		)
		return NewDatabaseMeta(), nil
	}

	if meta.Tables == nil {
		meta.Tables = make(map[string]TableMeta)
	}
	return meta, nil
}
