package schema

import (
	"fmt"
	"strings"

	"github.com/leengari/primitive-db/internal/domain/errors"
)

type ColumnType string

const (
	ColumnTypeInt  ColumnType = "int"
	ColumnTypeStr  ColumnType = "str"
	ColumnTypeBool ColumnType = "bool"
)

const (
	IDColumnName = "ID"
	IDColumnType = ColumnTypeInt
)

// SupportedTypes lists the column types in display order
var SupportedTypes = []ColumnType{ColumnTypeInt, ColumnTypeStr, ColumnTypeBool}

// ParseColumnType resolves a type name from a column definition.
// "string" is accepted as an alias of "str".
func ParseColumnType(name string) (ColumnType, error) {
	switch ColumnType(strings.ToLower(strings.TrimSpace(name))) {
	case ColumnTypeInt:
		return ColumnTypeInt, nil
	case ColumnTypeStr, "string":
		return ColumnTypeStr, nil
	case ColumnTypeBool:
		return ColumnTypeBool, nil
	}
	return "", &errors.DBError{
		Kind:   errors.KindValidation,
		Value:  name,
		Reason: fmt.Sprintf("unsupported type: %s, allowed types: %s", name, supportedTypeList()),
	}
}

func supportedTypeList() string {
	names := make([]string, len(SupportedTypes))
	for i, t := range SupportedTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// NewColumn validates the type name and returns the column
func NewColumn(name, typeName string) (Column, error) {
	name = strings.TrimSpace(name)
	if err := ValidateIdentifier("column", name); err != nil {
		return Column{}, err
	}

	colType, err := ParseColumnType(typeName)
	if err != nil {
		if dbErr, ok := err.(*errors.DBError); ok {
			dbErr.Column = name
		}
		return Column{}, err
	}

	return Column{Name: name, Type: colType}, nil
}

// String renders the column the way it is declared: name:type
func (c Column) String() string {
	return fmt.Sprintf("%s:%s", c.Name, c.Type)
}

// Accepts reports whether v already has the Go type backing this column
func (c Column) Accepts(v interface{}) bool {
	switch c.Type {
	case ColumnTypeInt:
		_, ok := v.(int64)
		return ok
	case ColumnTypeStr:
		_, ok := v.(string)
		return ok
	case ColumnTypeBool:
		_, ok := v.(bool)
		return ok
	}
	return false
}
