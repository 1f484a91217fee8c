package writer

import (
	"errors"
	"os"
	"testing"

	"github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/memfs"
	"github.com/go-git/go-billy/v6/util"
	"gotest.tools/v3/assert"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var errInjected = errors.New("injected failure")

// renameFailFS fails every rename, simulating a crash between write and replace
type renameFailFS struct {
	billy.Filesystem
}

func (f renameFailFS) Rename(from, to string) error {
	return errInjected
}

func fileExists(fs billy.Filesystem, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}

// =============================================================================
// WRITE PATH
// =============================================================================

func TestWriteAtomic_CreatesFile(t *testing.T) {
	fs := memfs.New()

	err := WriteAtomic(fs, "tables/users.json", []byte(`[]`))
	assert.NilError(t, err)

	got, err := ReadFile(fs, "tables/users.json")
	assert.NilError(t, err)
	assert.Equal(t, string(got), `[]`)
	assert.Assert(t, !fileExists(fs, "tables/users.json.tmp"))
}

func TestWriteAtomic_ReplacesExisting(t *testing.T) {
	fs := memfs.New()
	assert.NilError(t, util.WriteFile(fs, "db_meta.json", []byte(`{"tables":{}}`), 0644))

	err := WriteAtomic(fs, "db_meta.json", []byte(`{"tables":{"a":{}}}`))
	assert.NilError(t, err)

	got, err := ReadFile(fs, "db_meta.json")
	assert.NilError(t, err)
	assert.Equal(t, string(got), `{"tables":{"a":{}}}`)
}

func TestWriteAtomic_RenameFailureLeavesOriginal(t *testing.T) {
	base := memfs.New()
	assert.NilError(t, util.WriteFile(base, "db_meta.json", []byte(`{"tables":{}}`), 0644))
	fs := renameFailFS{base}

	err := WriteAtomic(fs, "db_meta.json", []byte(`{"tables":{"a":{}}}`))
	assert.ErrorContains(t, err, "rename")
	assert.Assert(t, errors.Is(err, errInjected))

	got, err := ReadFile(base, "db_meta.json")
	assert.NilError(t, err)
	assert.Equal(t, string(got), `{"tables":{}}`)
	assert.Assert(t, !fileExists(base, "db_meta.json.tmp"))
}

func TestWriteAtomic_RejectsInvalidJSON(t *testing.T) {
	fs := memfs.New()

	err := WriteAtomic(fs, "broken.json", []byte(`{"tables":`))
	assert.ErrorContains(t, err, "not valid JSON")
	assert.Assert(t, !fileExists(fs, "broken.json"))
	assert.Assert(t, !fileExists(fs, "broken.json.tmp"))
}

// =============================================================================
// SNAPSHOT / RESTORE
// =============================================================================

func TestSnapshot_RestoresPreviousContent(t *testing.T) {
	fs := memfs.New()
	assert.NilError(t, util.WriteFile(fs, "users.json", []byte(`[{"ID":1}]`), 0644))

	snap, err := TakeSnapshot(fs, "users.json")
	assert.NilError(t, err)
	assert.Assert(t, snap.Existed())

	assert.NilError(t, util.WriteFile(fs, "users.json", []byte(`garbage`), 0644))
	assert.NilError(t, util.WriteFile(fs, "users.json.tmp", []byte(`partial`), 0644))

	assert.NilError(t, snap.Restore(fs))

	got, err := ReadFile(fs, "users.json")
	assert.NilError(t, err)
	assert.Equal(t, string(got), `[{"ID":1}]`)
	assert.Assert(t, !fileExists(fs, "users.json.tmp"))
}

func TestSnapshot_RemovesFileThatDidNotExist(t *testing.T) {
	fs := memfs.New()

	snap, err := TakeSnapshot(fs, "users.json")
	assert.NilError(t, err)
	assert.Assert(t, !snap.Existed())

	assert.NilError(t, util.WriteFile(fs, "users.json", []byte(`[]`), 0644))
	assert.NilError(t, snap.Restore(fs))

	_, err = fs.Stat("users.json")
	assert.Assert(t, errors.Is(err, os.ErrNotExist))
}

func TestSnapshot_RestoreIsNoopWhenUnchanged(t *testing.T) {
	fs := memfs.New()
	assert.NilError(t, util.WriteFile(fs, "users.json", []byte(`[]`), 0644))

	snap, err := TakeSnapshot(fs, "users.json")
	assert.NilError(t, err)
	assert.NilError(t, snap.Restore(fs))

	got, err := ReadFile(fs, "users.json")
	assert.NilError(t, err)
	assert.Equal(t, string(got), `[]`)
}
