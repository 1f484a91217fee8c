package crud

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/leengari/primitive-db/internal/domain/errors"
	"github.com/leengari/primitive-db/internal/domain/schema"
	"github.com/leengari/primitive-db/internal/storage/records"
)

type Operator string

const (
	OpEq Operator = "="
	OpNe Operator = "!="
	OpLt Operator = "<"
	OpGt Operator = ">"
	OpLe Operator = "<="
	OpGe Operator = ">="
)

// Operators is ordered longest first, the order a scanner must try them in
var Operators = []Operator{OpNe, OpLe, OpGe, OpEq, OpLt, OpGt}

func (op Operator) Valid() bool {
	for _, known := range Operators {
		if op == known {
			return true
		}
	}
	return false
}

// Condition is one filter term: <column> <operator> <value>
type Condition struct {
	Column   string
	Operator Operator
	Value    interface{}
}

func (c Condition) String() string {
	return fmt.Sprintf("%s%s%v", c.Column, c.Operator, c.Value)
}

// PredicateFunc reports whether a stored record passes a filter
type PredicateFunc func(rec records.Record) bool

type compiled struct {
	col  schema.Column
	op   Operator
	want interface{}
}

// Compile checks conditions against the table and returns a predicate that
// is true only when ALL of them hold. Condition values are coerced to the
// column type first, so ID=1 and active=yes compare like for like.
// No conditions means every record matches.
func Compile(table *schema.Table, conds []Condition) (PredicateFunc, error) {
	terms := make([]compiled, 0, len(conds))

	for _, cond := range conds {
		col, ok := table.Column(cond.Column)
		if !ok {
			return nil, errors.NewColumnNotFound(table.Name, cond.Column)
		}
		if !cond.Operator.Valid() {
			return nil, errors.NewValidation(table.Name, cond.Column, cond.Operator,
				fmt.Sprintf("unsupported operator '%s'", cond.Operator))
		}
		want, err := col.Coerce(cond.Value)
		if err != nil {
			return nil, withTable(err, table.Name)
		}
		terms = append(terms, compiled{col: col, op: cond.Operator, want: want})
	}

	return func(rec records.Record) bool {
		for _, term := range terms {
			if !term.matches(rec) {
				return false
			}
		}
		return true
	}, nil
}

func (c compiled) matches(rec records.Record) bool {
	raw, ok := rec[c.col.Name]
	if !ok {
		return false
	}
	got, err := c.col.Coerce(raw)
	if err != nil {
		return false
	}

	switch c.col.Type {
	case schema.ColumnTypeInt:
		return compareOrdered(got.(int64), c.want.(int64), c.op)
	case schema.ColumnTypeStr:
		return compareOrdered(got.(string), c.want.(string), c.op)
	case schema.ColumnTypeBool:
		// ordering is undefined for bools
		switch c.op {
		case OpEq:
			return got == c.want
		case OpNe:
			return got != c.want
		}
	}
	return false
}

func compareOrdered[T cmp.Ordered](a, b T, op Operator) bool {
	c := cmp.Compare(a, b)
	switch op {
	case OpEq:
		return c == 0
	case OpNe:
		return c != 0
	case OpLt:
		return c < 0
	case OpGt:
		return c > 0
	case OpLe:
		return c <= 0
	case OpGe:
		return c >= 0
	}
	return false
}

// describe renders conditions for log lines
func describe(conds []Condition) string {
	if len(conds) == 0 {
		return "*"
	}
	parts := make([]string, len(conds))
	for i, c := range conds {
		parts[i] = c.String()
	}
	return strings.Join(parts, " and ")
}

func withTable(err error, table string) error {
	if dbErr, ok := err.(*errors.DBError); ok && dbErr.Table == "" {
		dbErr.Table = table
	}
	return err
}
