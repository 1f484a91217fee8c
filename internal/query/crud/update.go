package crud

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/leengari/primitive-db/internal/domain/errors"
	"github.com/leengari/primitive-db/internal/domain/schema"
	"github.com/leengari/primitive-db/internal/storage/records"
)

// Update applies set to every record matching ALL conditions (every record
// when there are none). Returns number of records updated; nothing is
// written when none match.
func Update(table *schema.Table, store records.Store, set map[string]interface{}, conds []Condition) (int, error) {
	if len(set) == 0 {
		return 0, errors.NewValidation(table.Name, "", nil, "no columns to update")
	}

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	updates := make(map[string]interface{}, len(set))
	for _, name := range names {
		col, ok := table.Column(name)
		if !ok {
			return 0, errors.NewColumnNotFound(table.Name, name)
		}
		if name == schema.IDColumnName {
			return 0, errors.NewValidation(table.Name, name, set[name],
				fmt.Sprintf("column '%s' cannot be updated", schema.IDColumnName))
		}
		v, err := col.Coerce(set[name])
		if err != nil {
			return 0, withTable(err, table.Name)
		}
		updates[name] = v
	}

	pred, err := Compile(table, conds)
	if err != nil {
		return 0, err
	}

	recs, err := store.Load(table.Name)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, rec := range recs {
		if !pred(rec) {
			continue
		}
		for k, v := range updates {
			rec[k] = v
		}
		updated++
	}

	if updated == 0 {
		return 0, nil
	}

	if err := store.Save(table.Name, recs); err != nil {
		return 0, err
	}

	slog.Debug("rows updated",
		slog.String("table", table.Name),
		slog.String("where", describe(conds)),
		slog.Int("count", updated),
	)
	return updated, nil
}
