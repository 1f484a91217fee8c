package repl

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/chzyer/readline"

	"github.com/leengari/primitive-db/internal/command"
)

// Executor runs one line of the command language
type Executor interface {
	Execute(line string) command.Result
	SetConfirmer(c command.Confirmer)
}

// Options configures an interactive session
type Options struct {
	Prompt      string
	HistoryFile string
	AssumeYes   bool
}

var (
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Start runs the read-eval-print loop until exit or end of input.
func Start(exec Executor, opts Options) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 opts.Prompt,
		HistoryFile:            opts.HistoryFile,
		InterruptPrompt:        "^C",
		EOFPrompt:              "exit",
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer func() { _ = rl.Close() }()

	if opts.AssumeYes {
		exec.SetConfirmer(command.AlwaysConfirm)
	} else {
		exec.SetConfirmer(&promptConfirmer{rl: rl, prompt: opts.Prompt})
	}

	out := rl.Stdout()
	fmt.Fprintln(out, "Welcome to Primitive DB")
	fmt.Fprintln(out, "Type 'help' for usage, 'exit' to quit.")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			// EOF
			fmt.Fprintln(out)
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		_ = rl.SaveHistory(line)

		res := exec.Execute(line)
		PrintResult(out, res)
		if exit, _ := res.Data["exit"].(bool); exit {
			return nil
		}
	}
}

// lineReader is the part of *readline.Instance the confirmer needs
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

type promptConfirmer struct {
	rl     lineReader
	prompt string
}

func (c *promptConfirmer) Confirm(action string) bool {
	c.rl.SetPrompt(fmt.Sprintf("Are you sure you want to %s? [y/N]: ", action))
	defer c.rl.SetPrompt(c.prompt)

	answer, err := c.rl.Readline()
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// PrintResult writes a command result. Select results are drawn as a table.
func PrintResult(w io.Writer, res command.Result) {
	if !res.Success {
		if res.RequiresConfirmation {
			fmt.Fprintln(w, "Operation cancelled.")
			return
		}
		fmt.Fprintln(w, errorStyle.Render("Error: "+res.Message))
		return
	}

	if res.Message != "" {
		fmt.Fprintln(w, res.Message)
	}

	columns, _ := res.Data["columns"].([]string)
	rows, ok := res.Data["rows"].([][]interface{})
	if !ok || len(rows) == 0 {
		return
	}
	fmt.Fprintln(w, RenderTable(columns, rows))
}

// RenderTable formats rows under the given column headers.
func RenderTable(columns []string, rows [][]interface{}) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(columns...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprint(v)
		}
		t.Row(cells...)
	}
	return t.String()
}
