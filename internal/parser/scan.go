package parser

import "strings"

// quoteScanner walks raw command text tracking whether the current byte is
// inside a quoted section, with the same escape rules as the lexer.
type quoteScanner struct {
	s     string
	quote byte // 0 when outside quotes
}

// step reports whether s[i] is outside any quote and advances the quote
// state past it. It returns the number of bytes consumed (2 for an escape).
func (q *quoteScanner) step(i int) (outside bool, width int) {
	ch := q.s[i]

	switch q.quote {
	case 0:
		switch ch {
		case '\\':
			return false, 2
		case '\'', '"':
			q.quote = ch
			return false, 1
		}
		return true, 1
	case '"':
		if ch == '\\' && i+1 < len(q.s) && (q.s[i+1] == '"' || q.s[i+1] == '\\') {
			return false, 2
		}
	}

	if ch == q.quote {
		q.quote = 0
	}
	return false, 1
}

// splitOutsideQuotes splits s at every sep byte that is not quoted or escaped
func splitOutsideQuotes(s string, sep byte) []string {
	var parts []string
	q := quoteScanner{s: s}
	start := 0

	for i := 0; i < len(s); {
		outside, width := q.step(i)
		if outside && s[i] == sep {
			parts = append(parts, s[start:i])
			start = i + 1
		}
		i += width
	}
	return append(parts, s[start:])
}

// cutOutsideQuotes is strings.Cut restricted to an unquoted separator
func cutOutsideQuotes(s string, sep string) (before, after string, found bool) {
	q := quoteScanner{s: s}
	for i := 0; i < len(s); {
		outside, width := q.step(i)
		if outside && strings.HasPrefix(s[i:], sep) {
			return s[:i], s[i+len(sep):], true
		}
		i += width
	}
	return s, "", false
}
