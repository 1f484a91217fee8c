package lexer

import (
	"fmt"
	"strings"

	"github.com/leengari/primitive-db/internal/domain/errors"
)

// Token is one shell-style word of the input
type Token struct {
	Value  string // word with quotes removed and escapes applied
	Raw    string // word exactly as typed
	Quoted bool   // some part of the word was quoted
	Pos    int    // byte offset of the first character
	End    int    // byte offset after the last character
}

func (t Token) String() string {
	return fmt.Sprintf("Token(%q, %d:%d)", t.Value, t.Pos, t.End)
}

// IsWord reports whether the token is the unquoted word w, ignoring case
func (t Token) IsWord(w string) bool {
	return !t.Quoted && strings.EqualFold(t.Value, w)
}

// Lexer splits input into words the way a POSIX shell does: whitespace
// separates words, single quotes keep everything literally, double quotes
// allow \" and \\ escapes, and a backslash outside quotes escapes the next
// character.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
}

func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition += 1
}

func (l *Lexer) atEnd() bool {
	return l.position >= len(l.input)
}

// NextToken returns the next word. ok is false once the input is exhausted.
func (l *Lexer) NextToken() (tok Token, ok bool, err error) {
	l.skipWhitespace()
	if l.atEnd() {
		return Token{}, false, nil
	}

	tok.Pos = l.position
	var value strings.Builder

	for !l.atEnd() && !isWhitespace(l.ch) {
		switch l.ch {
		case '\'':
			tok.Quoted = true
			if err := l.readSingleQuoted(&value); err != nil {
				return Token{}, false, err
			}
		case '"':
			tok.Quoted = true
			if err := l.readDoubleQuoted(&value); err != nil {
				return Token{}, false, err
			}
		case '\\':
			l.readChar()
			if l.atEnd() {
				return Token{}, false, errors.NewParse("no escaped character at position %d", l.position)
			}
			value.WriteByte(l.ch)
			l.readChar()
		default:
			value.WriteByte(l.ch)
			l.readChar()
		}
	}

	tok.End = l.position
	tok.Raw = l.input[tok.Pos:tok.End]
	tok.Value = value.String()
	return tok, true, nil
}

func (l *Lexer) readSingleQuoted(value *strings.Builder) error {
	start := l.position
	l.readChar() // opening quote
	for !l.atEnd() && l.ch != '\'' {
		value.WriteByte(l.ch)
		l.readChar()
	}
	if l.atEnd() {
		return errors.NewParse("unterminated quote starting at position %d", start)
	}
	l.readChar() // closing quote
	return nil
}

func (l *Lexer) readDoubleQuoted(value *strings.Builder) error {
	start := l.position
	l.readChar() // opening quote
	for !l.atEnd() && l.ch != '"' {
		if l.ch == '\\' {
			next := l.peekChar()
			if next == '"' || next == '\\' {
				l.readChar()
			}
		}
		value.WriteByte(l.ch)
		l.readChar()
	}
	if l.atEnd() {
		return errors.NewParse("unterminated quote starting at position %d", start)
	}
	l.readChar() // closing quote
	return nil
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() && isWhitespace(l.ch) {
		l.readChar()
	}
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

// Helper to tokenize entire string at once
func Tokenize(input string) ([]Token, error) {
	l := New(input)
	var tokens []Token
	for {
		tok, ok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}
