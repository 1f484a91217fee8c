package testutil

import (
	"testing"

	"github.com/go-git/go-billy/v6/memfs"

	"github.com/leengari/primitive-db/internal/domain/schema"
	"github.com/leengari/primitive-db/internal/storage/records"
)

// NewStore returns a record store backed by an in-memory filesystem
func NewStore() *records.FileStore {
	return records.NewFileStore(memfs.New(), "tables")
}

// CreateUsersTable creates users(ID:int, name:str, age:int, active:bool)
func CreateUsersTable(t *testing.T) *schema.Table {
	t.Helper()
	table, err := schema.NewTable("users", []schema.Column{
		{Name: "name", Type: schema.ColumnTypeStr},
		{Name: "age", Type: schema.ColumnTypeInt},
		{Name: "active", Type: schema.ColumnTypeBool},
	})
	if err != nil {
		t.Fatalf("failed to create users table: %v", err)
	}
	return table
}

// SeedUsers stores alice, bob and charlie and moves NextID past them
func SeedUsers(t *testing.T, table *schema.Table, store records.Store) {
	t.Helper()
	recs := []records.Record{
		{"ID": int64(1), "name": "alice", "age": int64(30), "active": true},
		{"ID": int64(2), "name": "bob", "age": int64(25), "active": false},
		{"ID": int64(3), "name": "charlie", "age": int64(35), "active": true},
	}
	if err := store.Save(table.Name, recs); err != nil {
		t.Fatalf("failed to seed users: %v", err)
	}
	table.NextID = 4
}
