package command

import (
	"fmt"
	"strings"

	"github.com/leengari/primitive-db/internal/domain/schema"
)

type CreateTable struct {
	Deps
	Table   string
	Columns []schema.Column
}

func (c *CreateTable) Name() string { return "create_table" }

func (c *CreateTable) Execute() Result {
	return c.run(c.Name(), func() (Result, error) {
		t, err := c.Catalog.CreateTable(c.Table, c.Columns)
		if err != nil {
			return Result{}, err
		}
		return Success(
			fmt.Sprintf("Table \"%s\" created with columns: %s", t.Name, t.ColumnList()),
			map[string]interface{}{"table": t.Name, "columns": t.ColumnNames()},
		), nil
	}, "")
}

type DropTable struct {
	Deps
	Table string
}

func (c *DropTable) Name() string { return "drop_table" }

func (c *DropTable) Execute() Result {
	return c.run(c.Name(), func() (Result, error) {
		if err := c.Catalog.DropTable(c.Table); err != nil {
			return Result{}, err
		}
		return Success(
			fmt.Sprintf("Table \"%s\" dropped.", c.Table),
			map[string]interface{}{"table": c.Table},
		), nil
	}, fmt.Sprintf("drop table \"%s\"", c.Table))
}

type ListTables struct {
	Deps
}

func (c *ListTables) Name() string { return "list_tables" }

func (c *ListTables) Execute() Result {
	return c.run(c.Name(), func() (Result, error) {
		tables := c.Catalog.ListTables()

		message := "No tables in the database."
		if len(tables) > 0 {
			message = "Tables:\n- " + strings.Join(tables, "\n- ")
		}
		return Success(message, map[string]interface{}{
			"tables": tables,
			"count":  len(tables),
		}), nil
	}, "")
}

// Info reports a table's columns and how many records it holds
type Info struct {
	Deps
	Table string
}

func (c *Info) Name() string { return "info" }

func (c *Info) Execute() Result {
	return c.run(c.Name(), func() (Result, error) {
		t, err := c.Catalog.Table(c.Table)
		if err != nil {
			return Result{}, err
		}
		recs, err := c.Catalog.Records().Load(t.Name)
		if err != nil {
			return Result{}, err
		}

		return Success(
			fmt.Sprintf("Table: %s\nColumns: %s\nRecords: %d", t.Name, t.ColumnList(), len(recs)),
			map[string]interface{}{
				"table":        t.Name,
				"columns":      t.ColumnNames(),
				"record_count": len(recs),
			},
		), nil
	}, "")
}
