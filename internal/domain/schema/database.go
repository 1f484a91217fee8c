package schema

import (
	"sort"

	"github.com/leengari/primitive-db/internal/domain/errors"
)

// Database is the in-memory schema registry: table name to definition.
// It is the single source of truth for schema while the process runs.
type Database struct {
	Tables map[string]*Table
}

func NewDatabase() *Database {
	return &Database{Tables: make(map[string]*Table)}
}

// AddTable registers a table; names are unique
func (db *Database) AddTable(t *Table) error {
	if _, exists := db.Tables[t.Name]; exists {
		return errors.NewTableExists(t.Name)
	}
	db.Tables[t.Name] = t
	return nil
}

// RemoveTable unregisters a table and returns its definition
func (db *Database) RemoveTable(name string) (*Table, error) {
	t, ok := db.Tables[name]
	if !ok {
		return nil, errors.NewTableNotFound(name)
	}
	delete(db.Tables, name)
	return t, nil
}

func (db *Database) Table(name string) (*Table, error) {
	t, ok := db.Tables[name]
	if !ok {
		return nil, errors.NewTableNotFound(name)
	}
	return t, nil
}

func (db *Database) HasTable(name string) bool {
	_, ok := db.Tables[name]
	return ok
}

// TableNames returns all table names sorted alphabetically
func (db *Database) TableNames() []string {
	names := make([]string, 0, len(db.Tables))
	for name := range db.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
