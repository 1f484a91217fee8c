package crud

import (
	"log/slog"

	"github.com/leengari/primitive-db/internal/domain/schema"
	"github.com/leengari/primitive-db/internal/storage/records"
)

// Delete removes records matching ALL conditions (every record when there
// are none). Returns number of records deleted; nothing is written when the
// collection is unchanged.
func Delete(table *schema.Table, store records.Store, conds []Condition) (int, error) {
	pred, err := Compile(table, conds)
	if err != nil {
		return 0, err
	}

	recs, err := store.Load(table.Name)
	if err != nil {
		return 0, err
	}

	kept := make([]records.Record, 0, len(recs))
	for _, rec := range recs {
		if pred(rec) {
			continue // Skip this record (delete it)
		}
		kept = append(kept, rec)
	}

	deleted := len(recs) - len(kept)
	if deleted == 0 {
		return 0, nil // Nothing to delete
	}

	if err := store.Save(table.Name, kept); err != nil {
		return 0, err
	}

	slog.Debug("rows deleted",
		slog.String("table", table.Name),
		slog.String("where", describe(conds)),
		slog.Int("count", deleted),
	)
	return deleted, nil
}
