package manager

import (
	"log/slog"

	"go.uber.org/multierr"

	"github.com/leengari/primitive-db/internal/domain/errors"
	"github.com/leengari/primitive-db/internal/domain/schema"
	"github.com/leengari/primitive-db/internal/storage/metadata"
	"github.com/leengari/primitive-db/internal/storage/records"
)

// Manager owns the in-memory schema registry and keeps it consistent with
// the metadata and record stores. Table-level schema changes go through it.
type Manager struct {
	db      *schema.Database
	meta    metadata.Store
	records records.Store
}

func New(meta metadata.Store, recs records.Store) *Manager {
	return &Manager{
		db:      schema.NewDatabase(),
		meta:    meta,
		records: recs,
	}
}

// Load rebuilds the registry from the metadata store
func (m *Manager) Load() error {
	meta, err := m.meta.Load()
	if err != nil {
		return err
	}

	m.db = meta.Database()

	slog.Info("Database loaded successfully",
		slog.Int("table_count", len(m.db.Tables)),
	)
	return nil
}

// Save persists the registry through the metadata store
func (m *Manager) Save() error {
	return m.meta.Save(metadata.FromDatabase(m.db))
}

func (m *Manager) Database() *schema.Database {
	return m.db
}

func (m *Manager) Records() records.Store {
	return m.records
}

func (m *Manager) Table(name string) (*schema.Table, error) {
	return m.db.Table(name)
}

// ListTables returns the table names sorted alphabetically
func (m *Manager) ListTables() []string {
	return m.db.TableNames()
}

// CreateTable registers a table and persists the registry. A stale record
// file left behind under the same name is truncated so the new table starts
// empty.
func (m *Manager) CreateTable(name string, columns []schema.Column) (*schema.Table, error) {
	if m.db.HasTable(name) {
		return nil, errors.NewTableExists(name)
	}

	t, err := schema.NewTable(name, columns)
	if err != nil {
		return nil, err
	}

	if m.records.Exists(t.Name) {
		slog.Warn("truncating stale table file", slog.String("table", t.Name))
		if err := m.records.Save(t.Name, []records.Record{}); err != nil {
			return nil, err
		}
	}

	if err := m.db.AddTable(t); err != nil {
		return nil, err
	}

	if err := m.Save(); err != nil {
		// registry must match what is on disk
		_, _ = m.db.RemoveTable(t.Name)
		return nil, err
	}

	slog.Info("Table created",
		slog.String("table", t.Name),
		slog.String("columns", t.ColumnList()),
	)
	return t, nil
}

// DropTable removes the schema entry and the record file together. If the
// record file cannot be removed the schema entry is put back.
func (m *Manager) DropTable(name string) error {
	t, err := m.db.RemoveTable(name)
	if err != nil {
		return err
	}

	if err := m.Save(); err != nil {
		_ = m.db.AddTable(t)
		return err
	}

	if err := m.records.Remove(name); err != nil {
		_ = m.db.AddTable(t)
		restoreErr := m.Save()
		if restoreErr != nil {
			slog.Error("failed to restore metadata after drop failure",
				slog.String("table", name),
				slog.Any("error", restoreErr),
			)
		}
		return errors.NewStorage(name, "failed to drop table", multierr.Append(err, restoreErr))
	}

	slog.Info("Table dropped", slog.String("table", name))
	return nil
}
