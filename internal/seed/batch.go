package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/johnwards/takeout/internal/store"
)

// batch owns the transaction a stage writes through. It commits every size
// source rows so a large export never sits in one transaction, and a re-run
// after an interruption redoes at most one batch.
type batch struct {
	ctx      context.Context
	db       *sql.DB
	size     int
	pending  int
	tx       *sql.Tx
	st       *store.Store
	commits  int
	progress Progress
	dataType string
	every    int
	steps    int
}

func beginBatch(ctx context.Context, db *sql.DB, size int) (*batch, error) {
	if size <= 0 {
		size = defaultBatchSize
	}
	b := &batch{ctx: ctx, db: db, size: size}
	if err := b.begin(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *batch) begin() error {
	tx, err := b.db.BeginTx(b.ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	b.tx = tx
	b.st = store.New(tx)
	b.pending = 0
	return nil
}

// store returns the stores bound to the current transaction. The value
// changes after every commit, so callers must not hold on to it across step.
func (b *batch) store() *store.Store {
	return b.st
}

// step marks one source row as processed.
func (b *batch) step() error {
	b.pending++
	b.steps++
	if b.every > 0 && b.steps%b.every == 0 {
		b.progress.Update(b.dataType)
	}
	if b.pending < b.size {
		return nil
	}
	if err := b.commit(); err != nil {
		return err
	}
	return b.begin()
}

// savepoint runs fn inside a SQLite savepoint of the current transaction. If
// fn fails, its writes are rolled back and the rest of the batch is kept.
func (b *batch) savepoint(fn func(st *store.Store) error) error {
	if _, err := b.tx.ExecContext(b.ctx, "SAVEPOINT item"); err != nil {
		return fmt.Errorf("open savepoint: %w", err)
	}
	if err := fn(b.st); err != nil {
		if _, rbErr := b.tx.ExecContext(b.ctx, "ROLLBACK TO item"); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback to savepoint: %w", rbErr))
		}
		if _, relErr := b.tx.ExecContext(b.ctx, "RELEASE item"); relErr != nil {
			return errors.Join(err, fmt.Errorf("release savepoint: %w", relErr))
		}
		return err
	}
	if _, err := b.tx.ExecContext(b.ctx, "RELEASE item"); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}
	return nil
}

func (b *batch) commit() error {
	if err := b.tx.Commit(); err != nil {
		return fmt.Errorf("commit batch %d: %w", b.commits+1, err)
	}
	b.tx = nil
	b.commits++
	return nil
}

// finish commits the trailing partial batch.
func (b *batch) finish() error {
	if b.tx == nil {
		return nil
	}
	return b.commit()
}

// abort rolls back whatever is uncommitted. It is a no-op after finish.
func (b *batch) abort() {
	if b.tx != nil {
		_ = b.tx.Rollback()
		b.tx = nil
	}
}
