package sqlite

import (
	"context"
	"fmt"
)

// Tx exposes the operation surface of the service inside a transaction.
// Change events for mutations are published only after commit.
type Tx struct {
	run     runner
	ctx     context.Context
	pending []pendingEvent
}

type pendingEvent struct {
	table string
	op    string
	event ChangeEvent
}

// WithTx runs fn inside a transaction. The transaction is rolled back
// when fn returns an error or panics, and committed otherwise. Change
// events collected during the transaction are published after a
// successful commit.
func (s *Service) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	s.mu.RLock()
	if !s.started {
		s.mu.RUnlock()
		return ErrNotStarted
	}
	db := s.db
	s.mu.RUnlock()

	sqlTx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	tx := &Tx{run: runner{db: sqlTx}, ctx: ctx}

	done := false
	defer func() {
		if !done {
			_ = sqlTx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		done = true
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return fmt.Errorf("rolling back after %v: %w", err, rbErr)
		}
		return err
	}

	done = true
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	for _, p := range tx.pending {
		s.publish(ctx, p.table, p.op, p.event)
	}
	return nil
}

// Query executes a SELECT statement inside the transaction.
func (t *Tx) Query(stmt Statement) ([]Row, error) {
	args, err := stmt.Params.args()
	if err != nil {
		return nil, err
	}
	return t.run.query(t.ctx, stmt.SQL, args)
}

// Execute runs a mutation statement inside the transaction.
func (t *Tx) Execute(stmt Statement) (ExecResult, error) {
	args, err := stmt.Params.args()
	if err != nil {
		return ExecResult{}, err
	}
	return t.run.exec(t.ctx, stmt.SQL, args)
}

// Create inserts a row inside the transaction.
func (t *Tx) Create(op CreateOperation) (Row, error) {
	row, err := t.run.create(t.ctx, op)
	if err != nil {
		return nil, err
	}
	t.queueEvent(op.Table, "created", ChangeEvent{Table: op.Table, Op: "created", Row: row, RowsAffected: 1})
	return row, nil
}

// Read returns the rows matched by the operation inside the transaction.
func (t *Tx) Read(op ReadOperation) ([]Row, error) {
	return t.run.read(t.ctx, op)
}

// Update applies assignments inside the transaction.
func (t *Tx) Update(op UpdateOperation) (int64, error) {
	n, err := t.run.mutate(t.ctx, op)
	if err != nil {
		return 0, err
	}
	t.queueEvent(op.Table, "updated", ChangeEvent{Table: op.Table, Op: "updated", RowsAffected: n})
	return n, nil
}

// Delete removes matching rows inside the transaction.
func (t *Tx) Delete(op DeleteOperation) (int64, error) {
	n, err := t.run.mutate(t.ctx, op)
	if err != nil {
		return 0, err
	}
	t.queueEvent(op.Table, "deleted", ChangeEvent{Table: op.Table, Op: "deleted", RowsAffected: n})
	return n, nil
}

func (t *Tx) queueEvent(table, op string, event ChangeEvent) {
	t.pending = append(t.pending, pendingEvent{table: table, op: op, event: event})
}
