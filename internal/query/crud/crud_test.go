package crud

import (
	"errors"
	"testing"

	"github.com/go-git/go-billy/v6/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dberrors "github.com/leengari/primitive-db/internal/domain/errors"
	"github.com/leengari/primitive-db/internal/query/testutil"
	"github.com/leengari/primitive-db/internal/storage/records"
	"github.com/leengari/primitive-db/internal/storage/writer"
)

// countingStore records how many times Save is called
type countingStore struct {
	records.Store
	saves int
}

func (s *countingStore) Save(table string, recs []records.Record) error {
	s.saves++
	return s.Store.Save(table, recs)
}

// failingStore rejects every Save
type failingStore struct {
	records.Store
}

func (s failingStore) Save(table string, recs []records.Record) error {
	return dberrors.NewStorage(table, "failed to save table", errors.New("disk full"))
}

// =============================================================================
// INSERT
// =============================================================================

func TestInsert_AssignsSequentialIDs(t *testing.T) {
	table := testutil.CreateUsersTable(t)
	store := testutil.NewStore()

	for i, name := range []string{"a", "b", "c", "d"} {
		id, err := Insert(table, store, []interface{}{name, int64(20 + i), true})
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), id)
	}
	assert.Equal(t, int64(5), table.NextID)

	rows, err := Select(table, store, nil)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{int64(1), int64(2), int64(3), int64(4)}, testutil.ColumnValues(rows, "ID"))
}

func TestInsert_CoercesValues(t *testing.T) {
	table := testutil.CreateUsersTable(t)
	store := testutil.NewStore()

	_, err := Insert(table, store, []interface{}{int64(42), "30", "yes"})
	require.NoError(t, err)

	rows, err := Select(table, store, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	testutil.AssertColumnValue(t, rows[0], "name", "42", "int coerced to str")
	testutil.AssertColumnValue(t, rows[0], "age", int64(30), "text coerced to int")
	testutil.AssertColumnValue(t, rows[0], "active", true, "yes coerced to bool")
}

func TestInsert_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		values []interface{}
		msg    string
	}{
		{"too few values", []interface{}{"alice"}, "expected 3 values, got 1"},
		{"too many values", []interface{}{"alice", int64(1), true, "x"}, "expected 3 values, got 4"},
		{"bad int", []interface{}{"alice", "abc", true}, "cannot convert 'abc' to type int for column 'age'"},
		{"bad bool", []interface{}{"alice", int64(1), "maybe"}, "cannot convert 'maybe' to type bool for column 'active'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := testutil.CreateUsersTable(t)
			store := &countingStore{Store: testutil.NewStore()}

			_, err := Insert(table, store, tt.values)
			require.Error(t, err)
			assert.True(t, errors.Is(err, dberrors.ErrValidation))
			assert.Contains(t, err.Error(), tt.msg)
			assert.Equal(t, 0, store.saves)
			assert.Equal(t, int64(1), table.NextID)
		})
	}
}

func TestInsert_FailedSaveKeepsCounter(t *testing.T) {
	table := testutil.CreateUsersTable(t)

	_, err := Insert(table, failingStore{testutil.NewStore()}, []interface{}{"alice", int64(30), true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, dberrors.ErrStorage))
	assert.Equal(t, int64(1), table.NextID)
}

func TestInsert_ReconcilesLaggingCounter(t *testing.T) {
	table := testutil.CreateUsersTable(t)
	store := testutil.NewStore()
	testutil.SeedUsers(t, table, store)
	// metadata save lost the counter
	table.NextID = 2

	id, err := Insert(table, store, []interface{}{"dave", int64(40), false})
	require.NoError(t, err)
	assert.Equal(t, int64(4), id)
	assert.Equal(t, int64(5), table.NextID)
}

// =============================================================================
// SELECT
// =============================================================================

func TestSelect_Conditions(t *testing.T) {
	table := testutil.CreateUsersTable(t)
	store := testutil.NewStore()
	testutil.SeedUsers(t, table, store)

	tests := []struct {
		name  string
		conds []Condition
		want  []interface{}
	}{
		{"no condition", nil, []interface{}{"alice", "bob", "charlie"}},
		{"int eq", []Condition{{"ID", OpEq, int64(2)}}, []interface{}{"bob"}},
		{"int eq as text", []Condition{{"ID", OpEq, "2"}}, []interface{}{"bob"}},
		{"int gt", []Condition{{"age", OpGt, int64(28)}}, []interface{}{"alice", "charlie"}},
		{"int le", []Condition{{"age", OpLe, int64(30)}}, []interface{}{"alice", "bob"}},
		{"int ne", []Condition{{"age", OpNe, int64(30)}}, []interface{}{"bob", "charlie"}},
		{"str eq", []Condition{{"name", OpEq, "charlie"}}, []interface{}{"charlie"}},
		{"str lexicographic", []Condition{{"name", OpLt, "bz"}}, []interface{}{"alice", "bob"}},
		{"bool eq", []Condition{{"active", OpEq, true}}, []interface{}{"alice", "charlie"}},
		{"bool eq yes", []Condition{{"active", OpEq, "yes"}}, []interface{}{"alice", "charlie"}},
		{"bool ne", []Condition{{"active", OpNe, true}}, []interface{}{"bob"}},
		{"bool ordering never matches", []Condition{{"active", OpGt, false}}, []interface{}{}},
		{"conjunction", []Condition{{"active", OpEq, true}, {"age", OpGe, int64(35)}}, []interface{}{"charlie"}},
		{"no match", []Condition{{"name", OpEq, "zed"}}, []interface{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := Select(table, store, tt.conds)
			require.NoError(t, err)
			assert.Equal(t, tt.want, testutil.ColumnValues(rows, "name"))
		})
	}
}

func TestSelect_UnknownColumn(t *testing.T) {
	table := testutil.CreateUsersTable(t)
	store := testutil.NewStore()

	_, err := Select(table, store, []Condition{{"email", OpEq, "x"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, dberrors.ErrNotFound))
	assert.Contains(t, err.Error(), "column 'email' does not exist")
}

func TestSelect_RecordMissingColumnIsExcluded(t *testing.T) {
	table := testutil.CreateUsersTable(t)
	store := testutil.NewStore()
	require.NoError(t, store.Save("users", []records.Record{
		{"ID": int64(1), "name": "alice", "active": true},
	}))

	rows, err := Select(table, store, []Condition{{"age", OpEq, int64(30)}})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSelect_UncoercibleConditionValue(t *testing.T) {
	table := testutil.CreateUsersTable(t)

	_, err := Select(table, testutil.NewStore(), []Condition{{"age", OpEq, "old"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, dberrors.ErrValidation))
}

// =============================================================================
// UPDATE
// =============================================================================

func TestUpdate_MatchingRows(t *testing.T) {
	table := testutil.CreateUsersTable(t)
	store := testutil.NewStore()
	testutil.SeedUsers(t, table, store)

	n, err := Update(table, store, map[string]interface{}{"age": "31", "active": "no"}, []Condition{{"ID", OpEq, int64(1)}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rows, err := Select(table, store, []Condition{{"ID", OpEq, int64(1)}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	testutil.AssertColumnValue(t, rows[0], "age", int64(31), "updated age")
	testutil.AssertColumnValue(t, rows[0], "active", false, "updated active")
	testutil.AssertColumnValue(t, rows[0], "name", "alice", "untouched name")
}

func TestUpdate_AllRowsWithoutCondition(t *testing.T) {
	table := testutil.CreateUsersTable(t)
	store := testutil.NewStore()
	testutil.SeedUsers(t, table, store)

	n, err := Update(table, store, map[string]interface{}{"active": true}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestUpdate_NoMatchDoesNotWrite(t *testing.T) {
	table := testutil.CreateUsersTable(t)
	store := &countingStore{Store: testutil.NewStore()}
	testutil.SeedUsers(t, table, store)
	store.saves = 0

	n, err := Update(table, store, map[string]interface{}{"age": int64(1)}, []Condition{{"name", OpEq, "zed"}})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, store.saves)
}

func TestUpdate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		set  map[string]interface{}
		want *dberrors.DBError
	}{
		{"unknown column", map[string]interface{}{"email": "x"}, dberrors.ErrNotFound},
		{"ID column", map[string]interface{}{"ID": int64(9)}, dberrors.ErrValidation},
		{"bad value", map[string]interface{}{"age": "old"}, dberrors.ErrValidation},
		{"empty set", map[string]interface{}{}, dberrors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := testutil.CreateUsersTable(t)
			store := &countingStore{Store: testutil.NewStore()}
			testutil.SeedUsers(t, table, store)
			store.saves = 0

			_, err := Update(table, store, tt.set, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, 0, store.saves)
		})
	}
}

// =============================================================================
// DELETE
// =============================================================================

func TestDelete_MatchingRows(t *testing.T) {
	table := testutil.CreateUsersTable(t)
	store := testutil.NewStore()
	testutil.SeedUsers(t, table, store)

	n, err := Delete(table, store, []Condition{{"active", OpEq, true}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows, err := Select(table, store, nil)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"bob"}, testutil.ColumnValues(rows, "name"))
}

func TestDelete_AllWithoutCondition(t *testing.T) {
	table := testutil.CreateUsersTable(t)
	store := testutil.NewStore()
	testutil.SeedUsers(t, table, store)

	n, err := Delete(table, store, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rows, err := Select(table, store, nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDelete_NoMatchLeavesFileUntouched(t *testing.T) {
	fs := memfs.New()
	store := records.NewFileStore(fs, "tables")
	table := testutil.CreateUsersTable(t)
	testutil.SeedUsers(t, table, store)

	before, err := writer.ReadFile(fs, "tables/users.json")
	require.NoError(t, err)

	n, err := Delete(table, store, []Condition{{"ID", OpEq, int64(99)}})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	after, err := writer.ReadFile(fs, "tables/users.json")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestOperators_LongestFirst(t *testing.T) {
	seen := map[Operator]int{}
	for i, op := range Operators {
		seen[op] = i
	}
	assert.Less(t, seen[OpLe], seen[OpLt])
	assert.Less(t, seen[OpGe], seen[OpGt])
	assert.Less(t, seen[OpNe], seen[OpEq])
	assert.False(t, Operator("=>").Valid())
}
