package integration

import (
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/leengari/primitive-db/internal/command"
	"github.com/leengari/primitive-db/internal/config"
	"github.com/leengari/primitive-db/internal/engine"
)

// testConfig points a default configuration at a fresh temporary data directory
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.DataDir = filepath.Join(t.TempDir(), "data")
	return cfg
}

// setupTestDB opens an engine over cfg that approves every confirmation
func setupTestDB(t *testing.T, cfg *config.Config) *engine.Engine {
	t.Helper()
	eng, err := engine.Open(cfg, command.AlwaysConfirm)
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })
	return eng
}

func run(t *testing.T, eng *engine.Engine, line string) command.Result {
	t.Helper()
	res := eng.Execute(line)
	require.True(t, res.Success, "%s: %s", line, res.Message)
	return res
}

func seedUsers(t *testing.T, eng *engine.Engine) {
	t.Helper()
	run(t, eng, "create_table users name:str age:int active:bool")
	run(t, eng, `insert into users values ("Alice Smith", 30, true)`)
	run(t, eng, `insert into users values ("Bob", 25, false)`)
	run(t, eng, `insert into users values ("Charlie", 35, true)`)
}

// readJSON decodes a file under the data directory
func readJSON(t *testing.T, cfg *config.Config, rel string, v interface{}) {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join(cfg.Storage.DataDir, rel))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, v))
}

func tableFile(cfg *config.Config, table string) string {
	return filepath.Join(cfg.Storage.TablesDir, table+".json")
}

func rowsOf(res command.Result) [][]interface{} {
	rows, _ := res.Data["rows"].([][]interface{})
	return rows
}
