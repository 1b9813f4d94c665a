package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/oticavision/backoffice/internal/models"
)

// LegacyClientRepository is the Postgres adapter for clients imported from
// the prior system.
type LegacyClientRepository struct {
	db    *pgxpool.Pool
	store *Store
}

func NewLegacyClientRepository(db *pgxpool.Pool) *LegacyClientRepository {
	return &LegacyClientRepository{db: db, store: NewStore(db)}
}

// Get returns (nil, nil) when the legacy client does not exist.
func (r *LegacyClientRepository) Get(ctx context.Context, id string) (*models.LegacyClient, error) {
	client := &models.LegacyClient{}
	var totalDebt string
	err := r.db.QueryRow(ctx, `
		SELECT id, name, total_debt::text, created_at
		FROM legacy_clients
		WHERE id = $1
	`, id).Scan(&client.ID, &client.Name, &totalDebt, &client.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get legacy client %s: %w", id, err)
	}
	client.TotalDebt, err = decimal.NewFromString(totalDebt)
	if err != nil {
		return nil, fmt.Errorf("parse legacy client %s debt %q: %w", id, totalDebt, err)
	}
	return client, nil
}

// UpdateTotalDebt sets the legacy client's debt balance under a row lock.
func (r *LegacyClientRepository) UpdateTotalDebt(ctx context.Context, id string, totalDebt decimal.Decimal) error {
	return r.store.RunInTx(ctx, func(tx pgx.Tx) error {
		var current string
		if err := tx.QueryRow(ctx, `SELECT total_debt::text FROM legacy_clients WHERE id = $1 FOR UPDATE`, id).Scan(&current); err != nil {
			return fmt.Errorf("lock legacy client %s: %w", id, err)
		}
		if _, err := tx.Exec(ctx, `UPDATE legacy_clients SET total_debt = $1 WHERE id = $2`, totalDebt.String(), id); err != nil {
			return fmt.Errorf("update legacy client %s debt: %w", id, err)
		}
		return nil
	})
}

// Create inserts a legacy client row. Fixture and import path only.
func (r *LegacyClientRepository) Create(ctx context.Context, c *models.LegacyClient) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO legacy_clients (id, name, total_debt, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING created_at
	`, c.ID, c.Name, c.TotalDebt.String()).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create legacy client: %w", err)
	}
	return nil
}
