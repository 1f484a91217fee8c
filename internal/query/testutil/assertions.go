package testutil

import (
	"reflect"
	"testing"

	"github.com/leengari/primitive-db/internal/domain/data"
)

// AssertRowCount checks if the result has the expected number of rows
func AssertRowCount(t *testing.T, actual, expected int, context string) {
	t.Helper()
	if actual != expected {
		t.Errorf("%s: expected %d rows, got %d", context, expected, actual)
	}
}

// AssertColumnValue checks a single field of a row
func AssertColumnValue(t *testing.T, row data.Row, column string, expected interface{}, context string) {
	t.Helper()
	got, ok := row.Get(column)
	if !ok {
		t.Errorf("%s: expected column '%s' to exist", context, column)
		return
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("%s: expected %s=%v (%T), got %v (%T)", context, column, expected, expected, got, got)
	}
}

// ColumnValues collects one column across rows, in order
func ColumnValues(rows []data.Row, column string) []interface{} {
	out := make([]interface{}, len(rows))
	for i, row := range rows {
		out[i], _ = row.Get(column)
	}
	return out
}
