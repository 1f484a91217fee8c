package crud

import (
	"log/slog"

	"github.com/leengari/primitive-db/internal/domain/errors"
	"github.com/leengari/primitive-db/internal/domain/schema"
	"github.com/leengari/primitive-db/internal/storage/records"
)

// Insert appends one record built from values (one per non-ID column, in
// column order) and returns the assigned ID. NextID only advances once the
// collection is persisted.
func Insert(table *schema.Table, store records.Store, values []interface{}) (int64, error) {
	cols := table.ValueColumns()
	if len(values) != len(cols) {
		return 0, errors.NewValueCount(table.Name, len(cols), len(values))
	}

	rec := make(records.Record, len(table.Columns))
	for i, col := range cols {
		v, err := col.Coerce(values[i])
		if err != nil {
			return 0, withTable(err, table.Name)
		}
		rec[col.Name] = v
	}

	existing, err := store.Load(table.Name)
	if err != nil {
		return 0, err
	}

	// the counter can lag behind the data if a metadata save failed after
	// the records were written
	if maxID, ok := maxStoredID(table, existing); ok && table.EnsureNextIDAbove(maxID) {
		slog.Warn("ID counter behind stored records, advancing",
			slog.String("table", table.Name),
			slog.Int64("max_id", maxID),
			slog.Int64("next_id", table.NextID),
		)
	}

	id := table.NextID
	rec[schema.IDColumnName] = id

	if err := store.Save(table.Name, append(existing, rec)); err != nil {
		return 0, err
	}
	table.AdvanceID()

	slog.Debug("row inserted",
		slog.String("table", table.Name),
		slog.Int64("id", id),
	)
	return id, nil
}

func maxStoredID(table *schema.Table, recs []records.Record) (int64, bool) {
	idCol := table.Columns[0]
	var maxID int64
	found := false
	for _, rec := range recs {
		v, err := idCol.Coerce(rec[schema.IDColumnName])
		if err != nil {
			continue
		}
		if id := v.(int64); !found || id > maxID {
			maxID, found = id, true
		}
	}
	return maxID, found
}
