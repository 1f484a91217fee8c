package data

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/leengari/primitive-db/internal/domain/errors"
	"github.com/leengari/primitive-db/internal/domain/schema"
)

// Row represents a single table row
// Key = column name, Value = cell value typed per the owning table's columns
type Row struct {
	data    map[string]interface{}
	columns []schema.Column
}

// NewRow validates record against columns: the key set must equal the
// column-name set and every value must carry the column's Go type.
func NewRow(record map[string]interface{}, columns []schema.Column) (Row, error) {
	if len(record) != len(columns) {
		return Row{}, errors.NewValidation("", "", nil,
			fmt.Sprintf("row has %d fields, table has %d columns", len(record), len(columns)))
	}

	values := make(map[string]interface{}, len(columns))
	for _, col := range columns {
		v, ok := record[col.Name]
		if !ok {
			return Row{}, errors.NewValidation("", col.Name, nil,
				fmt.Sprintf("row is missing column '%s'", col.Name))
		}
		if !col.Accepts(v) {
			return Row{}, errors.NewValidation("", col.Name, v,
				fmt.Sprintf("value %v (%T) is not of type %s for column '%s'", v, v, col.Type, col.Name))
		}
		values[col.Name] = v
	}

	return Row{data: values, columns: columns}, nil
}

func (r Row) Get(column string) (interface{}, bool) {
	v, ok := r.data[column]
	return v, ok
}

// Set replaces a field value, validating it against the column definition
func (r Row) Set(column string, value interface{}) error {
	for _, col := range r.columns {
		if col.Name != column {
			continue
		}
		if !col.Accepts(value) {
			return errors.NewValidation("", column, value,
				fmt.Sprintf("value %v (%T) is not of type %s for column '%s'", value, value, col.Type, column))
		}
		r.data[column] = value
		return nil
	}
	return errors.NewColumnNotFound("", column)
}

// Data returns a copy of the row's fields
func (r Row) Data() map[string]interface{} {
	out := make(map[string]interface{}, len(r.data))
	for k, v := range r.data {
		out[k] = v
	}
	return out
}

// Values returns the field values in column order
func (r Row) Values() []interface{} {
	out := make([]interface{}, len(r.columns))
	for i, col := range r.columns {
		out[i] = r.data[col.Name]
	}
	return out
}

// MarshalJSON implements json.Marshaler interface
// This allows Row to be marshaled to JSON as a flat object
func (r Row) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.data)
}
