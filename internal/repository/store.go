package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides transaction scoping over the shared connection pool.
type Store struct {
	db *pgxpool.Pool
}

// NewStore creates a store wrapper around a pgx connection pool.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// RunInTx executes fn within a database transaction.
func (s *Store) RunInTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
