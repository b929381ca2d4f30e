package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTx_Commit(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	err := svc.WithTx(ctx, func(tx *Tx) error {
		for _, u := range []struct {
			name, email string
		}{
			{"Alice", "alice@example.com"},
			{"Bob", "bob@example.com"},
		} {
			if _, err := tx.Create(CreateOperation{
				Table: "users",
				Data:  map[string]Value{"name": Text(u.name), "email": Text(u.email)},
			}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	rows, err := svc.Read(ctx, ReadOperation{Table: "users"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestWithTx_RollbackOnError(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := svc.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.Create(CreateOperation{
			Table: "users",
			Data:  map[string]Value{"name": Text("Alice"), "email": Text("alice@example.com")},
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	rows, err := svc.Read(ctx, ReadOperation{Table: "users"})
	require.NoError(t, err)
	assert.Empty(t, rows, "rolled back insert must not be visible")
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	require.Panics(t, func() {
		_ = svc.WithTx(ctx, func(tx *Tx) error {
			_, _ = tx.Create(CreateOperation{
				Table: "users",
				Data:  map[string]Value{"name": Text("Alice"), "email": Text("alice@example.com")},
			})
			panic("boom")
		})
	})

	rows, err := svc.Read(ctx, ReadOperation{Table: "users"})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestWithTx_EventsPublishedAfterCommitOnly(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	var created int
	svc.Bus().Subscribe("users/created", func(context.Context, string, any) {
		created++
	})

	// Rolled back: no event.
	_ = svc.WithTx(ctx, func(tx *Tx) error {
		_, err := tx.Create(CreateOperation{
			Table: "users",
			Data:  map[string]Value{"name": Text("Alice"), "email": Text("alice@example.com")},
		})
		require.NoError(t, err)
		assert.Zero(t, created, "no event before commit")
		return errors.New("abort")
	})
	assert.Zero(t, created)

	// Committed: one event.
	err := svc.WithTx(ctx, func(tx *Tx) error {
		_, err := tx.Create(CreateOperation{
			Table: "users",
			Data:  map[string]Value{"name": Text("Bob"), "email": Text("bob@example.com")},
		})
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}

func TestWithTx_QueryAndExecute(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	err := svc.WithTx(ctx, func(tx *Tx) error {
		res, err := tx.Execute(NewStatement(
			"INSERT INTO users (name, email) VALUES (:name, :email)").
			Bind("name", Text("Alice")).
			Bind("email", Text("alice@example.com")))
		if err != nil {
			return err
		}
		assert.Equal(t, int64(1), res.RowsAffected)

		rows, err := tx.Query(NewStatement("SELECT COUNT(*) AS n FROM users"))
		if err != nil {
			return err
		}
		n, _ := rows[0]["n"].Int()
		assert.Equal(t, int64(1), n, "uncommitted write visible inside the transaction")
		return nil
	})
	require.NoError(t, err)
}
