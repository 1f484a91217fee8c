package schema

import (
	"fmt"
	"strings"

	"github.com/leengari/primitive-db/internal/domain/errors"
)

// Table is a table definition: its ordered columns and the auto-increment
// counter. Row data never lives here, only in the record store.
type Table struct {
	Name    string
	Columns []Column
	NextID  int64
}

// NewTable builds a table from user-supplied columns.
// The ID:int column is synthesized when absent and always moved to the front.
func NewTable(name string, columns []Column) (*Table, error) {
	return newTable(name, columns, 1)
}

// RestoreTable rebuilds a table from persisted metadata
func RestoreTable(name string, columns []Column, nextID int64) (*Table, error) {
	if nextID < 1 {
		nextID = 1
	}
	return newTable(name, columns, nextID)
}

func newTable(name string, columns []Column, nextID int64) (*Table, error) {
	name = strings.TrimSpace(name)
	if err := ValidateIdentifier("table", name); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(columns)+1)
	var idCol *Column
	rest := make([]Column, 0, len(columns))

	for _, col := range columns {
		if err := ValidateIdentifier("column", col.Name); err != nil {
			if dbErr, ok := err.(*errors.DBError); ok {
				dbErr.Table = name
			}
			return nil, err
		}
		colType, err := ParseColumnType(string(col.Type))
		if err != nil {
			if dbErr, ok := err.(*errors.DBError); ok {
				dbErr.Table, dbErr.Column = name, col.Name
			}
			return nil, err
		}
		col.Type = colType

		if seen[col.Name] {
			return nil, errors.NewValidation(name, col.Name, nil, fmt.Sprintf("duplicate column '%s'", col.Name))
		}
		seen[col.Name] = true

		if col.Name == IDColumnName {
			if col.Type != IDColumnType {
				return nil, errors.NewValidation(name, col.Name, col.Type,
					fmt.Sprintf("column '%s' must be of type %s", IDColumnName, IDColumnType))
			}
			c := col
			idCol = &c
			continue
		}
		rest = append(rest, col)
	}

	if idCol == nil {
		idCol = &Column{Name: IDColumnName, Type: IDColumnType}
	}

	return &Table{
		Name:    name,
		Columns: append([]Column{*idCol}, rest...),
		NextID:  nextID,
	}, nil
}

// Column looks up a column by name
func (t *Table) Column(name string) (Column, bool) {
	for _, col := range t.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the column names in declaration order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// ValueColumns returns the columns filled by an insert (everything but ID)
func (t *Table) ValueColumns() []Column {
	return t.Columns[1:]
}

// AdvanceID returns the current NextID and increments the counter
func (t *Table) AdvanceID() int64 {
	current := t.NextID
	t.NextID++
	return current
}

// EnsureNextIDAbove moves the counter past maxID if it lags behind.
// Reports whether the counter changed.
func (t *Table) EnsureNextIDAbove(maxID int64) bool {
	if t.NextID > maxID {
		return false
	}
	t.NextID = maxID + 1
	return true
}

// ColumnList renders the columns as "ID:int, name:str, ..."
func (t *Table) ColumnList() string {
	parts := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		parts[i] = col.String()
	}
	return strings.Join(parts, ", ")
}

func (t *Table) String() string {
	return fmt.Sprintf("Table(name='%s', columns=[%s], next_id=%d)", t.Name, t.ColumnList(), t.NextID)
}
