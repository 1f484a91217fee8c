package records

import (
	"log/slog"
	"time"

	"github.com/go-git/go-billy/v6"
	"go.uber.org/multierr"

	"github.com/leengari/primitive-db/internal/domain/errors"
	"github.com/leengari/primitive-db/internal/domain/schema"
	"github.com/leengari/primitive-db/internal/storage"
	"github.com/leengari/primitive-db/internal/storage/writer"
)

// DefaultTTL is how long a loaded collection is served from memory
const DefaultTTL = 5 * time.Minute

// Record is one flat table row as stored on disk, ID included
type Record = map[string]interface{}

// Store persists one record collection per table
type Store interface {
	Load(table string) ([]Record, error)
	Save(table string, records []Record) error
	Exists(table string) bool
	Remove(table string) error
}

type cacheEntry struct {
	records  []Record
	loadedAt time.Time
}

// FileStore keeps each table in <dir>/<table>.json with a TTL read cache
// in front of it. Callers always receive deep copies.
type FileStore struct {
	fs    billy.Filesystem
	dir   string
	ttl   time.Duration
	now   func() time.Time
	cache map[string]cacheEntry
}

type Option func(*FileStore)

// WithTTL sets the cache lifetime. Zero or negative disables caching.
func WithTTL(ttl time.Duration) Option {
	return func(s *FileStore) {
		s.ttl = ttl
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(s *FileStore) {
		s.now = now
	}
}

func NewFileStore(fs billy.Filesystem, dir string, opts ...Option) *FileStore {
	s := &FileStore{
		fs:    fs,
		dir:   dir,
		ttl:   DefaultTTL,
		now:   time.Now,
		cache: make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// path maps a table to its file. Only identifiers are accepted so a name can
// never point outside dir.
func (s *FileStore) path(table string) (string, error) {
	if err := schema.ValidateIdentifier("table", table); err != nil {
		return "", err
	}
	return s.fs.Join(s.dir, table+".json"), nil
}

// Load returns the table's records. A missing file is an empty collection;
// an undecodable one is logged and treated as empty.
func (s *FileStore) Load(table string) ([]Record, error) {
	s.sweep()

	if entry, ok := s.cache[table]; ok {
		slog.Debug("record cache hit", slog.String("table", table))
		return cloneRecords(entry.records), nil
	}
	slog.Debug("record cache miss", slog.String("table", table))

	path, err := s.path(table)
	if err != nil {
		return nil, err
	}
	data, err := writer.ReadFile(s.fs, path)
	if err != nil {
		if writer.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, errors.NewStorage(table, "failed to read table file", err)
	}

	var recs []Record
	if err := storage.Decode(data, &recs); err != nil {
		slog.Warn("table file is corrupt, treating as empty",
			slog.String("table", table),
			slog.String("path", path),
			slog.Any("error", err),
		)
		return []Record{}, nil
	}

	out := make([]Record, 0, len(recs))
	for _, rec := range recs {
		if rec == nil {
			continue
		}
		out = append(out, storage.NormalizeValue(rec).(Record))
	}

	if s.ttl > 0 {
		s.cache[table] = cacheEntry{records: cloneRecords(out), loadedAt: s.now()}
	}
	return out, nil
}

// Save replaces the table file atomically. On failure the previous file
// content is restored and the error combines the write and restore failures.
func (s *FileStore) Save(table string, recs []Record) error {
	path, err := s.path(table)
	if err != nil {
		return err
	}
	delete(s.cache, table)

	if recs == nil {
		recs = []Record{}
	}

	data, err := storage.Encode(recs)
	if err != nil {
		return errors.NewStorage(table, "failed to encode records", err)
	}

	snap, err := writer.TakeSnapshot(s.fs, path)
	if err != nil {
		return errors.NewStorage(table, "failed to save table", err)
	}

	if err := writer.WriteAtomic(s.fs, path, data); err != nil {
		restoreErr := snap.Restore(s.fs)
		return errors.NewStorage(table, "failed to save table", multierr.Append(err, restoreErr))
	}

	slog.Info("Table saved successfully",
		slog.String("table", table),
		slog.String("path", path),
		slog.Int("row_count", len(recs)),
	)
	return nil
}

func (s *FileStore) Exists(table string) bool {
	path, err := s.path(table)
	if err != nil {
		return false
	}
	_, err = s.fs.Stat(path)
	return err == nil
}

// Remove deletes the table file. Removing a missing file is not an error.
func (s *FileStore) Remove(table string) error {
	path, err := s.path(table)
	if err != nil {
		return err
	}
	delete(s.cache, table)

	if err := s.fs.Remove(path); err != nil && !writer.IsNotExist(err) {
		return errors.NewStorage(table, "failed to remove table file", err)
	}
	return nil
}

// ClearCache drops every cached collection
func (s *FileStore) ClearCache() {
	s.cache = make(map[string]cacheEntry)
}

// CacheSize reports how many collections are cached, expired ones included
func (s *FileStore) CacheSize() int {
	return len(s.cache)
}

// sweep evicts entries older than the TTL
func (s *FileStore) sweep() {
	now := s.now()
	for table, entry := range s.cache {
		if now.Sub(entry.loadedAt) >= s.ttl {
			delete(s.cache, table)
		}
	}
}

func cloneRecords(recs []Record) []Record {
	out := make([]Record, len(recs))
	for i, rec := range recs {
		out[i] = cloneValue(rec).(Record)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, item := range val {
			m[k] = cloneValue(item)
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(val))
		for i, item := range val {
			s[i] = cloneValue(item)
		}
		return s
	}
	return v
}
