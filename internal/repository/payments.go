package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/oticavision/backoffice/internal/domain"
	"github.com/oticavision/backoffice/internal/models"
	"github.com/oticavision/backoffice/internal/service"
)

// PaymentRepository is the Postgres adapter for the payment collaborator
// contract consumed by the sync core.
type PaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `id, amount::text, payment_method, status,
	nosso_numero, barcode, digitable_line, gateway_status, due_date,
	customer_id, legacy_client_id, created_at, updated_at`

// List returns one page of payments plus the total row count for the filter.
func (r *PaymentRepository) List(ctx context.Context, params service.ListPaymentsParams) ([]models.Payment, int, error) {
	if params.Limit <= 0 {
		params.Limit = 50
	}
	if params.Page <= 0 {
		params.Page = 1
	}

	conditions := []string{"1=1"}
	args := []any{}
	if params.Method != "" {
		args = append(args, params.Method)
		conditions = append(conditions, fmt.Sprintf("payment_method = $%d", len(args)))
	}
	if params.Status != "" {
		args = append(args, params.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if params.CustomerID != "" {
		args = append(args, params.CustomerID)
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM payments WHERE %s", where)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}

	args = append(args, params.Limit, (params.Page-1)*params.Limit)
	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM payments
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, paymentColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var (
			p       models.Payment
			amount  string
			boleto  models.SicrediBoleto
			dueDate *time.Time
		)
		if err := rows.Scan(
			&p.ID, &amount, &p.PaymentMethod, &p.Status,
			&boleto.NossoNumero, &boleto.Barcode, &boleto.DigitableLine, &boleto.Status, &dueDate,
			&p.CustomerID, &p.LegacyClientID, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan payment: %w", err)
		}
		p.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, 0, fmt.Errorf("parse payment amount %q: %w", amount, err)
		}
		boleto.DueDate = dueDate
		if p.PaymentMethod == domain.PaymentMethodSicrediBoleto || boleto.NossoNumero != "" {
			p.Sicredi = &boleto
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate payments: %w", err)
	}
	return payments, total, nil
}

// UpdateGatewayStatus persists a refreshed gateway status alongside the local
// lifecycle status it implies. This is the core's only write path into
// payments.
func (r *PaymentRepository) UpdateGatewayStatus(ctx context.Context, id uuid.UUID, gatewayStatus, localStatus string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE payments
		SET gateway_status = $1, status = $2, updated_at = NOW()
		WHERE id = $3
	`, gatewayStatus, localStatus, id)
	if err != nil {
		return fmt.Errorf("update payment %s gateway status: %w", id, err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("update payment %s gateway status: affected %d rows", id, tag.RowsAffected())
	}
	return nil
}

// Create inserts a payment row. Used by fixtures and the import tooling, not
// by the sync core.
func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	var (
		nossoNumero, barcode, digitableLine, gatewayStatus string
		dueDate                                            *time.Time
	)
	if p.Sicredi != nil {
		nossoNumero = p.Sicredi.NossoNumero
		barcode = p.Sicredi.Barcode
		digitableLine = p.Sicredi.DigitableLine
		gatewayStatus = p.Sicredi.Status
		dueDate = p.Sicredi.DueDate
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO payments (
			id, amount, payment_method, status,
			nosso_numero, barcode, digitable_line, gateway_status, due_date,
			customer_id, legacy_client_id, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING created_at
	`, p.ID, p.Amount.String(), p.PaymentMethod, p.Status,
		nossoNumero, barcode, digitableLine, gatewayStatus, dueDate,
		p.CustomerID, p.LegacyClientID,
	).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}
