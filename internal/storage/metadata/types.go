package metadata

import (
	"log/slog"

	"github.com/leengari/primitive-db/internal/domain/schema"
)

// DatabaseMeta is the on-disk shape of the schema registry:
//
//	{"tables": {"users": {"columns": [{"name": "ID", "type": "int"}], "next_id": 1}}}
type DatabaseMeta struct {
	Tables map[string]TableMeta `json:"tables"`
}

type TableMeta struct {
	Columns []ColumnMeta `json:"columns"`
	NextID  int64        `json:"next_id"`
}

type ColumnMeta struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func NewDatabaseMeta() DatabaseMeta {
	return DatabaseMeta{Tables: make(map[string]TableMeta)}
}

// FromDatabase captures the current schema registry
func FromDatabase(db *schema.Database) DatabaseMeta {
	meta := NewDatabaseMeta()
	for name, t := range db.Tables {
		tm := TableMeta{
			Columns: make([]ColumnMeta, len(t.Columns)),
			NextID:  t.NextID,
		}
		for i, col := range t.Columns {
			tm.Columns[i] = ColumnMeta{Name: col.Name, Type: string(col.Type)}
		}
		meta.Tables[name] = tm
	}
	return meta
}

// Database hydrates the schema registry. Entries that fail validation are
// skipped with a warning so one broken table does not hide the others.
func (m DatabaseMeta) Database() *schema.Database {
	db := schema.NewDatabase()

	for name, tm := range m.Tables {
		cols := make([]schema.Column, len(tm.Columns))
		for i, cm := range tm.Columns {
			cols[i] = schema.Column{Name: cm.Name, Type: schema.ColumnType(cm.Type)}
		}

		t, err := schema.RestoreTable(name, cols, tm.NextID)
		if err == nil {
			err = db.AddTable(t)
		}
		if err != nil {
			slog.Warn("skipping invalid table in metadata",
				slog.String("table", name),
				slog.Any("error", err),
			)
			continue
		}
	}

	return db
}
