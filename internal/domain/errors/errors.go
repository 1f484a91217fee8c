package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies which part of the error taxonomy an error belongs to
type Kind string

const (
	KindValidation     Kind = "validation"
	KindSchemaConflict Kind = "schema_conflict"
	KindNotFound       Kind = "not_found"
	KindStorage        Kind = "storage"
	KindParse          Kind = "parse"
)

// Sentinels for errors.Is matching by kind only
var (
	ErrValidation     = &DBError{Kind: KindValidation}
	ErrSchemaConflict = &DBError{Kind: KindSchemaConflict}
	ErrNotFound       = &DBError{Kind: KindNotFound}
	ErrStorage        = &DBError{Kind: KindStorage}
	ErrParse          = &DBError{Kind: KindParse}
)

var kindLabels = map[Kind]string{
	KindValidation:     "validation error",
	KindSchemaConflict: "schema conflict",
	KindNotFound:       "not found",
	KindStorage:        "storage error",
	KindParse:          "parse error",
}

// DBError is the single error type raised by the data model, storage,
// CRUD engine and parser. Kind is the discriminant; the remaining fields
// are optional structured context.
type DBError struct {
	Kind   Kind
	Table  string      // table name (empty if not table related)
	Column string      // column name (empty if not column related)
	Value  interface{} // offending value (may be nil)
	Reason string      // human-readable explanation
	Cause  error       // underlying error, always set for storage errors
}

func (e *DBError) Error() string {
	var parts []string

	label, ok := kindLabels[e.Kind]
	if !ok {
		label = string(e.Kind)
	}
	parts = append(parts, label)

	if e.Reason != "" {
		parts = append(parts, e.Reason)
	} else {
		switch {
		case e.Table != "" && e.Column != "":
			parts = append(parts, fmt.Sprintf("%s.%s", e.Table, e.Column))
		case e.Table != "":
			parts = append(parts, e.Table)
		case e.Column != "":
			parts = append(parts, e.Column)
		}
	}

	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}

	return strings.Join(parts, ": ")
}

func (e *DBError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DBError of the same kind. A target with
// only Kind set matches every error of that kind.
func (e *DBError) Is(target error) bool {
	t, ok := target.(*DBError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first DBError in err's chain, or "" if none
func KindOf(err error) Kind {
	var dbErr *DBError
	if errors.As(err, &dbErr) {
		return dbErr.Kind
	}
	return ""
}

func NewValidation(table, column string, value interface{}, reason string) *DBError {
	return &DBError{
		Kind:   KindValidation,
		Table:  table,
		Column: column,
		Value:  value,
		Reason: reason,
	}
}

// NewTypeMismatch reports a value that could not be coerced to a column type
func NewTypeMismatch(column string, value interface{}, expectedType string, cause error) *DBError {
	reason := fmt.Sprintf("cannot convert '%v' to type %s for column '%s'", value, expectedType, column)
	return &DBError{
		Kind:   KindValidation,
		Column: column,
		Value:  value,
		Reason: reason,
		Cause:  cause,
	}
}

func NewValueCount(table string, expected, got int) *DBError {
	return &DBError{
		Kind:   KindValidation,
		Table:  table,
		Reason: fmt.Sprintf("expected %d values, got %d", expected, got),
	}
}

func NewTableExists(table string) *DBError {
	return &DBError{
		Kind:   KindSchemaConflict,
		Table:  table,
		Reason: fmt.Sprintf("table '%s' already exists", table),
	}
}

func NewTableNotFound(table string) *DBError {
	return &DBError{
		Kind:   KindNotFound,
		Table:  table,
		Reason: fmt.Sprintf("table '%s' not found", table),
	}
}

func NewColumnNotFound(table, column string) *DBError {
	return &DBError{
		Kind:   KindNotFound,
		Table:  table,
		Column: column,
		Reason: fmt.Sprintf("column '%s' does not exist", column),
	}
}

// NewStorage wraps an I/O or serialization failure. cause must not be nil.
func NewStorage(table, reason string, cause error) *DBError {
	return &DBError{
		Kind:   KindStorage,
		Table:  table,
		Reason: reason,
		Cause:  cause,
	}
}

func NewParse(format string, args ...interface{}) *DBError {
	return &DBError{
		Kind:   KindParse,
		Reason: fmt.Sprintf(format, args...),
	}
}
