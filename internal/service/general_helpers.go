package service

import (
	"context"
	"database/sql"
	"fmt"
)

// withTx runs fn inside a database transaction, committing when fn returns nil and
// rolling back otherwise. fn receives the transaction so it can scope repositories
// with WithTx.
//
// Example:
//
//	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
//	    return s.myTradeRepo.WithTx(tx).InsertMyTrade(ctx, &trade)
//	})
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
