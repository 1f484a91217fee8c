package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leengari/primitive-db/internal/command"
)

func TestUpdateStatement(t *testing.T) {
	eng := setupTestDB(t, testConfig(t))
	seedUsers(t, eng)

	t.Run("MultipleAssignments", func(t *testing.T) {
		res := run(t, eng, `update users set age = 26, name = "Bob, Jr." where name = "Bob"`)
		assert.Equal(t, `Updated 1 record(s) in "users".`, res.Message)

		res = run(t, eng, "select from users where ID = 2")
		rows := rowsOf(res)
		require.Len(t, rows, 1)
		assert.Equal(t, []interface{}{int64(2), "Bob, Jr.", int64(26), false}, rows[0])
	})

	t.Run("NoMatch", func(t *testing.T) {
		res := run(t, eng, "update users set age = 99 where age > 100")
		assert.Equal(t, 0, res.Data["count"])
	})

	t.Run("IDIsImmutable", func(t *testing.T) {
		res := eng.Execute("update users set ID = 10 where ID = 1")
		assert.False(t, res.Success)
		assert.Contains(t, res.Message, "column 'ID' cannot be updated")
	})

	t.Run("RequiresWhere", func(t *testing.T) {
		res := eng.Execute("update users set age = 1")
		assert.False(t, res.Success)
		assert.Contains(t, res.Message, "requires a where clause")
	})
}

func TestDeleteStatement(t *testing.T) {
	cfg := testConfig(t)
	eng := setupTestDB(t, cfg)
	seedUsers(t, eng)

	t.Run("Declined", func(t *testing.T) {
		eng.SetConfirmer(command.ConfirmFunc(func(string) bool { return false }))
		defer eng.SetConfirmer(command.AlwaysConfirm)

		res := eng.Execute("delete from users where ID = 1")
		assert.False(t, res.Success)
		assert.True(t, res.RequiresConfirmation)

		res = run(t, eng, "select from users")
		assert.Equal(t, 3, res.Data["count"])
	})

	t.Run("WithCondition", func(t *testing.T) {
		res := run(t, eng, "delete from users where active = false")
		assert.Equal(t, `Deleted 1 record(s) from "users".`, res.Message)
	})

	t.Run("All", func(t *testing.T) {
		res := run(t, eng, "delete from users")
		assert.Equal(t, 2, res.Data["count"])

		var stored []map[string]interface{}
		readJSON(t, cfg, tableFile(cfg, "users"), &stored)
		assert.Empty(t, stored)
	})
}

func TestCombinedOperations(t *testing.T) {
	eng := setupTestDB(t, testConfig(t))
	seedUsers(t, eng)

	run(t, eng, "delete from users where ID = 3")
	res := run(t, eng, `insert into users values ("Dana", 41, true)`)

	// IDs are never reused after a delete
	assert.Equal(t, int64(4), res.Data["id"])

	run(t, eng, "update users set active = false where age >= 30")
	res = run(t, eng, "select from users where active = false")
	assert.Equal(t, 3, res.Data["count"])

	res = run(t, eng, "info users")
	assert.Contains(t, res.Message, "Records: 3")
}
