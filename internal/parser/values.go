package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var integerLiteral = regexp.MustCompile(`^-?[0-9]+$`)

// ParseValue classifies a literal as typed in a command:
//   - true / false in any case: bool
//   - optional minus and digits: int64
//   - text wrapped in matching single or double quotes: the text inside
//   - anything else: the raw text
func ParseValue(s string) interface{} {
	s = strings.TrimSpace(s)

	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}

	if integerLiteral.MatchString(s) {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
		return s
	}

	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			inner := s[1 : len(s)-1]
			if first == '"' {
				inner = unescapeDouble(inner)
			}
			return inner
		}
	}

	return s
}

func unescapeDouble(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '"' || s[i+1] == '\\') {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
