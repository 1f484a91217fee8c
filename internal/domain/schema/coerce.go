package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/leengari/primitive-db/internal/domain/errors"
)

var (
	trueTokens  = map[string]bool{"true": true, "1": true, "yes": true}
	falseTokens = map[string]bool{"false": true, "0": true, "no": true}
)

// Coerce converts v to the Go type backing the column:
//   - bool: literal bools, integers 0/1, or the text tokens true/1/yes and false/0/no (any case)
//   - int: integers, integral floats, bools (1/0) and numeric text
//   - str: anything, via string conversion
//
// A failed conversion is a validation error naming the value, the target type and the column.
func (c Column) Coerce(v interface{}) (interface{}, error) {
	switch c.Type {
	case ColumnTypeBool:
		return c.coerceBool(v)
	case ColumnTypeInt:
		return c.coerceInt(v)
	case ColumnTypeStr:
		return coerceString(v), nil
	}
	return nil, errors.NewTypeMismatch(c.Name, v, string(c.Type), fmt.Errorf("unsupported column type"))
}

func (c Column) coerceBool(v interface{}) (interface{}, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		token := strings.ToLower(strings.TrimSpace(val))
		if trueTokens[token] {
			return true, nil
		}
		if falseTokens[token] {
			return false, nil
		}
		return nil, errors.NewTypeMismatch(c.Name, v, string(c.Type), fmt.Errorf("invalid bool value: %s", val))
	}

	if n, ok := toInt64(v); ok && (n == 0 || n == 1) {
		return n == 1, nil
	}
	return nil, errors.NewTypeMismatch(c.Name, v, string(c.Type), fmt.Errorf("invalid bool value: %v", v))
}

func (c Column) coerceInt(v interface{}) (interface{}, error) {
	switch val := v.(type) {
	case bool:
		if val {
			return int64(1), nil
		}
		return int64(0), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return nil, errors.NewTypeMismatch(c.Name, v, string(c.Type), err)
		}
		return n, nil
	}

	if n, ok := toInt64(v); ok {
		return n, nil
	}
	return nil, errors.NewTypeMismatch(c.Name, v, string(c.Type), fmt.Errorf("%T is not convertible to integer", v))
}

func coerceString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// toInt64 normalizes Go integer kinds and integral floats
func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n == math.Trunc(n) && n >= math.MinInt64 && n < math.MaxInt64 {
			return int64(n), true
		}
	}
	return 0, false
}
