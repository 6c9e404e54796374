package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/paddleup/pickleplay/repositories"
)

// TxRunner wraps a *sql.DB in an explicit transactional scope: the
// callback's executor commits when it returns nil and rolls back on any
// error or panic.
type TxRunner struct {
	db *sql.DB
}

func NewTxRunner(sqlDB *sql.DB) *TxRunner {
	return &TxRunner{db: sqlDB}
}

func (r *TxRunner) RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction processing error: %w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
