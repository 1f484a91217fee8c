package parser

import (
	"strings"

	"github.com/leengari/primitive-db/internal/command"
	"github.com/leengari/primitive-db/internal/domain/errors"
	"github.com/leengari/primitive-db/internal/domain/schema"
	"github.com/leengari/primitive-db/internal/parser/lexer"
	"github.com/leengari/primitive-db/internal/query/crud"
)

// Parser turns one line of the command language into a command.Command
// bound to deps.
type Parser struct {
	deps command.Deps
}

func New(deps command.Deps) *Parser {
	return &Parser{deps: deps}
}

// statement is the tokenized input plus the raw text the tokens index into
type statement struct {
	input  string
	tokens []lexer.Token
}

// rest returns the raw text following token i
func (s statement) rest(i int) string {
	return strings.TrimSpace(s.input[s.tokens[i].End:])
}

// Parse returns nil, nil for blank input
func (p *Parser) Parse(input string) (command.Command, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}

	tokens, err := lexer.Tokenize(input)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, nil
	}

	stmt := statement{input: input, tokens: tokens}
	keyword := strings.ToLower(tokens[0].Value)

	switch keyword {
	case "create_table":
		return p.parseCreateTable(stmt)
	case "drop_table":
		return p.parseDropTable(stmt)
	case "list_tables":
		if err := expectArgs(stmt, keyword, 0); err != nil {
			return nil, err
		}
		return &command.ListTables{Deps: p.deps}, nil
	case "info":
		if err := expectArgs(stmt, keyword, 1); err != nil {
			return nil, err
		}
		return &command.Info{Deps: p.deps, Table: tokens[1].Value}, nil
	case "insert":
		return p.parseInsert(stmt)
	case "select":
		return p.parseSelect(stmt)
	case "update":
		return p.parseUpdate(stmt)
	case "delete":
		return p.parseDelete(stmt)
	case "help":
		if err := expectArgs(stmt, keyword, 0); err != nil {
			return nil, err
		}
		return &command.Help{}, nil
	case "exit":
		if err := expectArgs(stmt, keyword, 0); err != nil {
			return nil, err
		}
		return &command.Exit{}, nil
	default:
		return nil, errors.NewParse("unknown command: '%s'. Type 'help' for usage", tokens[0].Value)
	}
}

func (p *Parser) parseCreateTable(stmt statement) (command.Command, error) {
	if len(stmt.tokens) < 3 {
		return nil, syntaxError("create_table")
	}

	table := stmt.tokens[1].Value
	if err := schema.ValidateIdentifier("table", table); err != nil {
		return nil, err
	}

	columns := make([]schema.Column, 0, len(stmt.tokens)-2)
	for _, tok := range stmt.tokens[2:] {
		name, typeName, ok := strings.Cut(tok.Value, ":")
		if !ok {
			return nil, errors.NewParse("invalid column definition: '%s', expected <name>:<type>", tok.Value)
		}
		col, err := schema.NewColumn(name, typeName)
		if err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}

	return &command.CreateTable{Deps: p.deps, Table: table, Columns: columns}, nil
}

func (p *Parser) parseDropTable(stmt statement) (command.Command, error) {
	if err := expectArgs(stmt, "drop_table", 1); err != nil {
		return nil, err
	}
	return &command.DropTable{Deps: p.deps, Table: stmt.tokens[1].Value}, nil
}

// insert into <table> values (<v1>, <v2>, ...)
func (p *Parser) parseInsert(stmt statement) (command.Command, error) {
	t := stmt.tokens
	if len(t) < 5 || !t[1].IsWord("into") || !t[3].IsWord("values") {
		return nil, syntaxError("insert")
	}

	text := stmt.rest(3)
	if strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")") {
		text = text[1 : len(text)-1]
	}

	var values []interface{}
	for _, piece := range splitOutsideQuotes(text, ',') {
		if piece = strings.TrimSpace(piece); piece != "" {
			values = append(values, ParseValue(piece))
		}
	}

	return &command.Insert{Deps: p.deps, Table: t[2].Value, Values: values}, nil
}

// select from <table> [where ...]
func (p *Parser) parseSelect(stmt statement) (command.Command, error) {
	t := stmt.tokens
	if len(t) < 3 || !t[1].IsWord("from") {
		return nil, syntaxError("select")
	}

	conds, err := parseOptionalWhere(stmt, 3, "select")
	if err != nil {
		return nil, err
	}
	return &command.Select{Deps: p.deps, Table: t[2].Value, Conditions: conds}, nil
}

// delete from <table> [where ...]
func (p *Parser) parseDelete(stmt statement) (command.Command, error) {
	t := stmt.tokens
	if len(t) < 3 || !t[1].IsWord("from") {
		return nil, syntaxError("delete")
	}

	conds, err := parseOptionalWhere(stmt, 3, "delete")
	if err != nil {
		return nil, err
	}
	return &command.Delete{Deps: p.deps, Table: t[2].Value, Conditions: conds}, nil
}

// update <table> set <col>=<val>[, ...] where <cond> [and ...]
func (p *Parser) parseUpdate(stmt statement) (command.Command, error) {
	t := stmt.tokens
	if len(t) < 4 || !t[2].IsWord("set") {
		return nil, syntaxError("update")
	}

	where := -1
	for i := 3; i < len(t); i++ {
		if t[i].IsWord("where") {
			where = i
			break
		}
	}
	if where == -1 {
		return nil, errors.NewParse("update requires a where clause")
	}
	if where == 3 {
		return nil, errors.NewParse("update requires at least one assignment after set")
	}

	set, err := parseAssignments(stmt.input[t[2].End:t[where].Pos])
	if err != nil {
		return nil, err
	}

	conds, err := parseWhere(stmt, where)
	if err != nil {
		return nil, err
	}

	return &command.Update{Deps: p.deps, Table: t[1].Value, Set: set, Conditions: conds}, nil
}

func parseAssignments(text string) (map[string]interface{}, error) {
	set := make(map[string]interface{})
	for _, piece := range splitOutsideQuotes(text, ',') {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		column, value, ok := cutOutsideQuotes(piece, "=")
		column, value = strings.TrimSpace(column), strings.TrimSpace(value)
		if !ok || column == "" || value == "" {
			return nil, errors.NewParse("invalid assignment in set: '%s'", piece)
		}
		set[column] = ParseValue(value)
	}
	if len(set) == 0 {
		return nil, errors.NewParse("update requires at least one assignment after set")
	}
	return set, nil
}

// parseOptionalWhere handles the tail after the table name of select/delete
func parseOptionalWhere(stmt statement, at int, keyword string) ([]crud.Condition, error) {
	t := stmt.tokens
	if len(t) == at {
		return nil, nil
	}
	if !t[at].IsWord("where") {
		return nil, errors.NewParse("unexpected '%s' after table name in %s, expected where", t[at].Value, keyword)
	}
	return parseWhere(stmt, at)
}

// parseWhere parses the conditions after the where token at index where.
// Conditions are joined by the unquoted word "and".
func parseWhere(stmt statement, where int) ([]crud.Condition, error) {
	t := stmt.tokens[where+1:]
	if len(t) == 0 {
		return nil, errors.NewParse("missing condition after where")
	}

	var conds []crud.Condition
	start := 0
	for i := 0; i <= len(t); i++ {
		if i < len(t) && !t[i].IsWord("and") {
			continue
		}
		if i == start {
			return nil, errors.NewParse("missing condition around 'and' in where clause")
		}
		cond, err := ParseCondition(stmt.input[t[start].Pos:t[i-1].End])
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
		start = i + 1
	}
	return conds, nil
}

func expectArgs(stmt statement, keyword string, n int) error {
	if got := len(stmt.tokens) - 1; got != n {
		return errors.NewParse("command '%s' takes %d argument(s), got %d. Usage: %s", keyword, n, got, usage(keyword))
	}
	return nil
}

func syntaxError(keyword string) error {
	return errors.NewParse("invalid syntax, expected: %s", usage(keyword))
}

func usage(keyword string) string {
	for _, u := range command.Usages {
		if u.Name == keyword {
			return u.Syntax
		}
	}
	return keyword
}
