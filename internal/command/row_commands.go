package command

import (
	"fmt"
	"log/slog"

	"github.com/leengari/primitive-db/internal/query/crud"
)

type Insert struct {
	Deps
	Table  string
	Values []interface{}
}

func (c *Insert) Name() string { return "insert" }

func (c *Insert) Execute() Result {
	return c.run(c.Name(), func() (Result, error) {
		t, err := c.Catalog.Table(c.Table)
		if err != nil {
			return Result{}, err
		}

		id, err := crud.Insert(t, c.Catalog.Records(), c.Values)
		if err != nil {
			return Result{}, err
		}

		// the record is already stored; a lagging counter is repaired on the next insert
		if err := c.Catalog.Save(); err != nil {
			slog.Error("failed to persist ID counter after insert",
				slog.String("table", t.Name),
				slog.Int64("id", id),
				slog.Any("error", err),
			)
		}

		return Success(
			fmt.Sprintf("Record with ID=%d inserted into \"%s\".", id, t.Name),
			map[string]interface{}{"table": t.Name, "id": id},
		), nil
	}, "")
}

type Select struct {
	Deps
	Table      string
	Conditions []crud.Condition
}

func (c *Select) Name() string { return "select" }

func (c *Select) Execute() Result {
	return c.run(c.Name(), func() (Result, error) {
		t, err := c.Catalog.Table(c.Table)
		if err != nil {
			return Result{}, err
		}

		rows, err := crud.Select(t, c.Catalog.Records(), c.Conditions)
		if err != nil {
			return Result{}, err
		}

		values := make([][]interface{}, len(rows))
		for i, row := range rows {
			values[i] = row.Values()
		}

		message := "No records found."
		if len(rows) > 0 {
			message = fmt.Sprintf("Found %d record(s).", len(rows))
		}
		return Success(message, map[string]interface{}{
			"table":   t.Name,
			"columns": t.ColumnNames(),
			"rows":    values,
			"count":   len(rows),
		}), nil
	}, "")
}

type Update struct {
	Deps
	Table      string
	Set        map[string]interface{}
	Conditions []crud.Condition
}

func (c *Update) Name() string { return "update" }

func (c *Update) Execute() Result {
	return c.run(c.Name(), func() (Result, error) {
		t, err := c.Catalog.Table(c.Table)
		if err != nil {
			return Result{}, err
		}

		n, err := crud.Update(t, c.Catalog.Records(), c.Set, c.Conditions)
		if err != nil {
			return Result{}, err
		}

		return Success(
			fmt.Sprintf("Updated %d record(s) in \"%s\".", n, t.Name),
			map[string]interface{}{"table": t.Name, "count": n},
		), nil
	}, "")
}

type Delete struct {
	Deps
	Table      string
	Conditions []crud.Condition
}

func (c *Delete) Name() string { return "delete" }

func (c *Delete) Execute() Result {
	return c.run(c.Name(), func() (Result, error) {
		t, err := c.Catalog.Table(c.Table)
		if err != nil {
			return Result{}, err
		}

		n, err := crud.Delete(t, c.Catalog.Records(), c.Conditions)
		if err != nil {
			return Result{}, err
		}

		return Success(
			fmt.Sprintf("Deleted %d record(s) from \"%s\".", n, t.Name),
			map[string]interface{}{"table": t.Name, "count": n},
		), nil
	}, fmt.Sprintf("delete from \"%s\"", c.Table))
}
