package crud

import (
	"log/slog"

	"github.com/leengari/primitive-db/internal/domain/data"
	"github.com/leengari/primitive-db/internal/domain/schema"
	"github.com/leengari/primitive-db/internal/storage/records"
)

// Select returns the rows matching ALL conditions in stored order
func Select(table *schema.Table, store records.Store, conds []Condition) ([]data.Row, error) {
	pred, err := Compile(table, conds)
	if err != nil {
		return nil, err
	}

	recs, err := store.Load(table.Name)
	if err != nil {
		return nil, err
	}

	rows := make([]data.Row, 0, len(recs))
	for _, rec := range recs {
		if !pred(rec) {
			continue
		}
		row, err := data.NewRow(rec, table.Columns)
		if err != nil {
			return nil, withTable(err, table.Name)
		}
		rows = append(rows, row)
	}

	slog.Debug("select completed",
		slog.String("table", table.Name),
		slog.String("where", describe(conds)),
		slog.Int("rows", len(rows)),
	)
	return rows, nil
}
