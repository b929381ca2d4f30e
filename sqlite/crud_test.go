package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOperation_Compile(t *testing.T) {
	op := CreateOperation{
		Table: "users",
		Data: map[string]Value{
			"name": Text("John Doe"),
			"age":  Integer(30),
		},
	}

	sqlText, args, err := op.compile()
	require.NoError(t, err)
	// Fields are sorted for deterministic SQL.
	assert.Equal(t, `INSERT INTO "users" ("age", "name") VALUES (?, ?)`, sqlText)
	assert.Equal(t, []any{int64(30), "John Doe"}, args)
}

func TestCreateOperation_CompileRejectsEmptyData(t *testing.T) {
	_, _, err := CreateOperation{Table: "users"}.compile()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestReadOperation_CompileDefaults(t *testing.T) {
	sqlText, args, err := ReadOperation{Table: "users"}.compile()
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users"`, sqlText)
	assert.Empty(t, args)
}

func TestReadOperation_CompileFull(t *testing.T) {
	op := ReadOperation{
		Table:   "users",
		Fields:  []string{"id", "name"},
		Where:   NewQuery().Where("age", Gte(Integer(18))),
		OrderBy: []Order{Desc("age"), Asc("name")},
		Limit:   10,
		Offset:  20,
	}

	sqlText, args, err := op.compile()
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT "id", "name" FROM "users" WHERE "age" >= ? ORDER BY "age" DESC, "name" ASC LIMIT 10 OFFSET 20`,
		sqlText)
	assert.Equal(t, []any{int64(18)}, args)
}

func TestReadOperation_OffsetWithoutLimit(t *testing.T) {
	sqlText, _, err := ReadOperation{Table: "users", Offset: 5}.compile()
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" LIMIT -1 OFFSET 5`, sqlText)
}

func TestUpdateOperation_Compile(t *testing.T) {
	op := UpdateOperation{
		Table: "users",
		Where: NewQuery().Where("id", Eq(Integer(1))),
		Updates: map[string]Value{
			"age":  Integer(31),
			"name": Text("Jane"),
		},
	}

	sqlText, args, err := op.compile()
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "users" SET "age" = ?, "name" = ? WHERE "id" = ?`, sqlText)
	assert.Equal(t, []any{int64(31), "Jane", int64(1)}, args)
}

func TestUpdateOperation_CompileRejectsEmptyUpdates(t *testing.T) {
	_, _, err := UpdateOperation{Table: "users"}.compile()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeleteOperation_Compile(t *testing.T) {
	op := DeleteOperation{
		Table: "users",
		Where: NewQuery().Where("id", Eq(Integer(1))),
	}

	sqlText, args, err := op.compile()
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "users" WHERE "id" = ?`, sqlText)
	assert.Equal(t, []any{int64(1)}, args)
}

func TestDeleteOperation_CompileWithoutWhere(t *testing.T) {
	sqlText, args, err := DeleteOperation{Table: "users"}.compile()
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "users"`, sqlText)
	assert.Empty(t, args)
}

func TestOperations_RejectInvalidTable(t *testing.T) {
	ops := []Operation{
		CreateOperation{Table: "users; --", Data: map[string]Value{"a": Integer(1)}},
		ReadOperation{Table: "users; --"},
		UpdateOperation{Table: "users; --", Updates: map[string]Value{"a": Integer(1)}},
		DeleteOperation{Table: "users; --"},
	}
	for _, op := range ops {
		_, _, err := op.compile()
		require.Error(t, err, "%s should reject invalid table", op.kind())
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}
