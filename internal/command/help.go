package command

import (
	"fmt"
	"strings"
)

// Usage describes one command of the language
type Usage struct {
	Name    string
	Syntax  string
	Example string
}

// Usages lists every command in the order help prints them
var Usages = []Usage{
	{"create_table", "create_table <table> <col:type> ...", "create_table users name:str age:int is_active:bool"},
	{"drop_table", "drop_table <table>", "drop_table users"},
	{"list_tables", "list_tables", "list_tables"},
	{"info", "info <table>", "info users"},
	{"insert", "insert into <table> values (<val1>, <val2>, ...)", `insert into users values ("John", 25, true)`},
	{"select", "select from <table> [where <condition> [and <condition> ...]]", "select from users where age >= 28"},
	{"update", "update <table> set <col>=<val>[, ...] where <condition>", `update users set age = 29 where name = "Sergei"`},
	{"delete", "delete from <table> [where <condition>]", "delete from users where ID = 1"},
	{"help", "help", "help"},
	{"exit", "exit", "exit"},
}

type Help struct{}

func (c *Help) Name() string { return "help" }

func (c *Help) Execute() Result {
	return runStandalone(c.Name(), c.help)
}

func (c *Help) help() (Result, error) {
	var b strings.Builder
	b.WriteString("Commands:\n")
	for _, u := range Usages {
		fmt.Fprintf(&b, "  %-52s e.g. %s\n", u.Syntax, u.Example)
	}
	b.WriteString("\nTypes: int, str, bool. Operators: =, !=, <, >, <=, >=")

	names := make([]string, len(Usages))
	for i, u := range Usages {
		names[i] = u.Name
	}
	return Success(b.String(), map[string]interface{}{"commands": names}), nil
}

// Exit asks the caller to stop its loop through Data["exit"]
type Exit struct{}

func (c *Exit) Name() string { return "exit" }

func (c *Exit) Execute() Result {
	return runStandalone(c.Name(), func() (Result, error) {
		return Success("Goodbye!", map[string]interface{}{"exit": true}), nil
	})
}
