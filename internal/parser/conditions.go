package parser

import (
	"strings"

	"github.com/leengari/primitive-db/internal/domain/errors"
	"github.com/leengari/primitive-db/internal/query/crud"
)

// ParseCondition splits "<column> <op> <value>" at the first unquoted
// operator. At each position the two-character operators are tried before
// the one-character ones, so "age<=3" is (age, <=, 3).
func ParseCondition(text string) (crud.Condition, error) {
	q := quoteScanner{s: text}

	for i := 0; i < len(text); {
		outside, width := q.step(i)
		if outside {
			if op, ok := operatorAt(text, i); ok {
				column := strings.TrimSpace(text[:i])
				value := strings.TrimSpace(text[i+len(op):])
				if column == "" || value == "" {
					return crud.Condition{}, errors.NewParse("invalid condition: '%s'", strings.TrimSpace(text))
				}
				return crud.Condition{
					Column:   column,
					Operator: op,
					Value:    ParseValue(value),
				}, nil
			}
		}
		i += width
	}

	return crud.Condition{}, errors.NewParse("invalid condition: '%s', expected <column> <operator> <value>", strings.TrimSpace(text))
}

func operatorAt(text string, i int) (crud.Operator, bool) {
	for _, op := range crud.Operators {
		if strings.HasPrefix(text[i:], string(op)) {
			return op, true
		}
	}
	return "", false
}
