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

// CustomerRepository is the Postgres adapter for the regular-customer
// collaborator contract.
type CustomerRepository struct {
	db    *pgxpool.Pool
	store *Store
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{db: db, store: NewStore(db)}
}

// Get returns (nil, nil) when the customer does not exist; the ledger treats
// a missing client as a soft-fail, not an error.
func (r *CustomerRepository) Get(ctx context.Context, id string) (*models.Customer, error) {
	customer := &models.Customer{}
	var debts string
	err := r.db.QueryRow(ctx, `
		SELECT id, name, email, debts::text, created_at
		FROM customers
		WHERE id = $1
	`, id).Scan(&customer.ID, &customer.Name, &customer.Email, &debts, &customer.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer %s: %w", id, err)
	}
	customer.Debts, err = decimal.NewFromString(debts)
	if err != nil {
		return nil, fmt.Errorf("parse customer %s debts %q: %w", id, debts, err)
	}
	return customer, nil
}

// UpdateDebts sets the customer's debt balance. The row is locked for the
// duration so concurrent decrements cannot interleave reads and writes.
func (r *CustomerRepository) UpdateDebts(ctx context.Context, id string, debts decimal.Decimal) error {
	return r.store.RunInTx(ctx, func(tx pgx.Tx) error {
		var current string
		if err := tx.QueryRow(ctx, `SELECT debts::text FROM customers WHERE id = $1 FOR UPDATE`, id).Scan(&current); err != nil {
			return fmt.Errorf("lock customer %s: %w", id, err)
		}
		if _, err := tx.Exec(ctx, `UPDATE customers SET debts = $1 WHERE id = $2`, debts.String(), id); err != nil {
			return fmt.Errorf("update customer %s debts: %w", id, err)
		}
		return nil
	})
}

// Create inserts a customer row. Fixture and import path only.
func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO customers (id, name, email, debts, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at
	`, c.ID, c.Name, c.Email, c.Debts.String()).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}
