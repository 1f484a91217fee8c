package engine

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leengari/primitive-db/internal/command"
	"github.com/leengari/primitive-db/internal/config"
	"github.com/leengari/primitive-db/internal/storage/manager"
	"github.com/leengari/primitive-db/internal/storage/metadata"
	"github.com/leengari/primitive-db/internal/storage/records"
	"github.com/leengari/primitive-db/internal/storage/writer"
)

func newEngine(t *testing.T, confirmer command.Confirmer) (*Engine, billy.Filesystem) {
	t.Helper()
	fs := memfs.New()
	mgr := manager.New(
		metadata.NewFileStore(fs, "db_meta.json"),
		records.NewFileStore(fs, "tables"),
	)
	return New(mgr, confirmer), fs
}

func mustExec(t *testing.T, eng *Engine, line string) command.Result {
	t.Helper()
	res := eng.Execute(line)
	require.True(t, res.Success, "%s: %s", line, res.Message)
	return res
}

func TestExecute_UsersLifecycle(t *testing.T) {
	eng, fs := newEngine(t, command.AlwaysConfirm)

	mustExec(t, eng, "create_table users name:str age:int")
	users, err := eng.Manager().Table("users")
	require.NoError(t, err)
	assert.Equal(t, "ID:int, name:str, age:int", users.ColumnList())
	assert.Equal(t, int64(1), users.NextID)

	res := mustExec(t, eng, `insert into users values ("Alice", 30)`)
	assert.Equal(t, int64(1), res.Data["id"])
	assert.Equal(t, int64(2), users.NextID)

	res = mustExec(t, eng, "select from users where age>=30")
	assert.Equal(t, 1, res.Data["count"])
	rows := res.Data["rows"].([][]interface{})
	assert.Equal(t, int64(1), rows[0][0])

	res = mustExec(t, eng, "update users set age=31 where ID=1")
	assert.Equal(t, 1, res.Data["count"])
	stored, err := eng.Manager().Records().Load("users")
	require.NoError(t, err)
	assert.Equal(t, int64(31), stored[0]["age"])

	res = mustExec(t, eng, "delete from users where age=31")
	assert.Equal(t, 1, res.Data["count"])
	stored, err = eng.Manager().Records().Load("users")
	require.NoError(t, err)
	assert.Empty(t, stored)

	raw, err := writer.ReadFile(fs, "tables/users.json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(raw))
}

func TestExecute_ParseErrorBecomesResult(t *testing.T) {
	eng, _ := newEngine(t, nil)

	res := eng.Execute("frobnicate users")
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "unknown command: 'frobnicate'")

	assert.Greater(t, res.Duration, time.Duration(0))

	res = eng.Execute(`insert into users values ("unterminated)`)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "parse error")
	assert.Greater(t, res.Duration, time.Duration(0))
}

func TestExecute_BlankLine(t *testing.T) {
	eng, _ := newEngine(t, nil)
	observer := &MockObserver{}
	eng.AddObserver(observer)

	res := eng.Execute("   ")
	assert.True(t, res.Success)
	assert.Empty(t, res.Message)
	assert.Len(t, observer.Events, 2)
}

func TestExecute_DeclinedDrop(t *testing.T) {
	eng, _ := newEngine(t, command.ConfirmFunc(func(string) bool { return false }))
	mustExec(t, eng, "create_table users name:str")

	res := eng.Execute("drop_table users")
	assert.False(t, res.Success)
	assert.True(t, res.RequiresConfirmation)
	assert.Equal(t, []string{"users"}, eng.Manager().ListTables())

	eng.SetConfirmer(command.AlwaysConfirm)
	mustExec(t, eng, "drop_table users")
	assert.Empty(t, eng.Manager().ListTables())
}

func TestExecute_EmitsLifecycleEvents(t *testing.T) {
	eng, _ := newEngine(t, nil)
	observer := &MockObserver{}
	eng.AddObserver(observer)

	mustExec(t, eng, "list_tables")

	require.Len(t, observer.Events, 4)
	want := []EventType{EventParseStart, EventParseEnd, EventExecStart, EventExecEnd}
	for i, ev := range observer.Events {
		assert.Equal(t, want[i], ev.Type)
		assert.Equal(t, observer.Events[0].ExecID, ev.ExecID)
	}
	assert.NotEmpty(t, observer.Events[0].ExecID)

	mustExec(t, eng, "list_tables")
	assert.NotEqual(t, observer.Events[0].ExecID, observer.Events[4].ExecID)
}

func TestOpen_PersistsAcrossSessions(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.DataDir = filepath.Join(t.TempDir(), "data")

	eng, err := Open(cfg, command.AlwaysConfirm)
	require.NoError(t, err)
	mustExec(t, eng, "create_table users name:str age:int")
	mustExec(t, eng, `insert into users values ("Alice", 30)`)
	require.NoError(t, eng.Close())

	eng, err = Open(cfg, command.AlwaysConfirm)
	require.NoError(t, err)
	defer eng.Close()

	res := mustExec(t, eng, "select from users")
	assert.Equal(t, 1, res.Data["count"])
	res = mustExec(t, eng, `insert into users values ("Bob", 25)`)
	assert.Equal(t, int64(2), res.Data["id"])
}

func TestOpen_LockHeld(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.DataDir = t.TempDir()

	first, err := Open(cfg, nil)
	require.NoError(t, err)
	defer first.Close()

	_, err = Open(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked by another process")

	cfg.Storage.Lock = false
	second, err := Open(cfg, nil)
	require.NoError(t, err)
	assert.NoError(t, second.Close())
}
