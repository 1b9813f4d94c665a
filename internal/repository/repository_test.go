package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/oticavision/backoffice/internal/domain"
	"github.com/oticavision/backoffice/internal/models"
	"github.com/oticavision/backoffice/internal/service"
	"github.com/oticavision/backoffice/internal/testutil/dblock"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		os.Exit(m.Run())
	}

	release := dblock.Acquire()
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	if err == nil {
		err = pool.Ping(ctx)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "database unreachable, skipping repository tests: %v\n", err)
		os.Exit(m.Run())
	}
	if err := ensureSchema(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "ensure schema: %v\n", err)
		os.Exit(1)
	}
	testPool = pool

	code := m.Run()
	pool.Close()
	os.Exit(code)
}

func ensureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS customers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			debts NUMERIC(12,2) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS legacy_clients (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			total_debt NUMERIC(12,2) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS payments (
			id UUID PRIMARY KEY,
			amount NUMERIC(12,2) NOT NULL,
			payment_method TEXT NOT NULL,
			status TEXT NOT NULL,
			nosso_numero TEXT NOT NULL DEFAULT '',
			barcode TEXT NOT NULL DEFAULT '',
			digitable_line TEXT NOT NULL DEFAULT '',
			gateway_status TEXT NOT NULL DEFAULT '',
			due_date TIMESTAMPTZ,
			customer_id TEXT,
			legacy_client_id TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func requireDB(t *testing.T) {
	t.Helper()
	if testPool == nil {
		t.Skip("DATABASE_URL not set or database unreachable")
	}
}

func seedBoleto(t *testing.T, repo *PaymentRepository, customerID string) *models.Payment {
	t.Helper()
	p := &models.Payment{
		ID:            uuid.New(),
		Amount:        decimal.RequireFromString("150.50"),
		PaymentMethod: domain.PaymentMethodSicrediBoleto,
		Status:        domain.PaymentStatusPending,
		Sicredi: &models.SicrediBoleto{
			NossoNumero: "21" + uuid.NewString()[:9],
			Status:      domain.BoletoStatusRegistrado,
		},
	}
	if customerID != "" {
		p.CustomerID = &customerID
	}
	require.NoError(t, repo.Create(context.Background(), p))
	t.Cleanup(func() {
		testPool.Exec(context.Background(), `DELETE FROM payments WHERE id = $1`, p.ID)
	})
	return p
}

func seedCustomer(t *testing.T, repo *CustomerRepository, debts string) *models.Customer {
	t.Helper()
	c := &models.Customer{
		ID:    "cust-" + uuid.NewString()[:8],
		Name:  "Cliente Teste",
		Email: "teste@example.com",
		Debts: decimal.RequireFromString(debts),
	}
	require.NoError(t, repo.Create(context.Background(), c))
	t.Cleanup(func() {
		testPool.Exec(context.Background(), `DELETE FROM customers WHERE id = $1`, c.ID)
	})
	return c
}

func TestPaymentRepositoryListFilters(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewPaymentRepository(testPool)
	customers := NewCustomerRepository(testPool)

	customer := seedCustomer(t, customers, "100.00")
	p := seedBoleto(t, repo, customer.ID)

	payments, total, err := repo.List(ctx, service.ListPaymentsParams{
		Page:       1,
		Limit:      10,
		Method:     domain.PaymentMethodSicrediBoleto,
		Status:     domain.PaymentStatusPending,
		CustomerID: customer.ID,
	})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, payments, 1)

	got := payments[0]
	require.Equal(t, p.ID, got.ID)
	require.True(t, got.Amount.Equal(p.Amount), "amount %s", got.Amount)
	require.NotNil(t, got.Sicredi)
	require.Equal(t, p.Sicredi.NossoNumero, got.Sicredi.NossoNumero)
	require.Equal(t, domain.BoletoStatusRegistrado, got.Sicredi.Status)

	// A mismatched status filter must exclude the row.
	_, total, err = repo.List(ctx, service.ListPaymentsParams{
		Page:       1,
		Limit:      10,
		Status:     domain.PaymentStatusCompleted,
		CustomerID: customer.ID,
	})
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestPaymentRepositoryUpdateGatewayStatus(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewPaymentRepository(testPool)
	customers := NewCustomerRepository(testPool)

	customer := seedCustomer(t, customers, "0")
	p := seedBoleto(t, repo, customer.ID)

	require.NoError(t, repo.UpdateGatewayStatus(ctx, p.ID, domain.BoletoStatusPago, domain.PaymentStatusCompleted))

	payments, _, err := repo.List(ctx, service.ListPaymentsParams{Page: 1, Limit: 10, CustomerID: customer.ID})
	require.NoError(t, err)
	require.Len(t, payments, 1)
	require.Equal(t, domain.PaymentStatusCompleted, payments[0].Status)
	require.Equal(t, domain.BoletoStatusPago, payments[0].Sicredi.Status)
}

func TestPaymentRepositoryUpdateGatewayStatusMissingRow(t *testing.T) {
	requireDB(t)
	repo := NewPaymentRepository(testPool)

	err := repo.UpdateGatewayStatus(context.Background(), uuid.New(), domain.BoletoStatusPago, domain.PaymentStatusCompleted)
	require.Error(t, err)
	require.Contains(t, err.Error(), "affected 0 rows")
}

func TestCustomerRepositoryGetAndUpdateDebts(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewCustomerRepository(testPool)

	customer := seedCustomer(t, repo, "300.00")

	got, err := repo.Get(ctx, customer.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "300.00", got.Debts.StringFixed(2))

	require.NoError(t, repo.UpdateDebts(ctx, customer.ID, decimal.RequireFromString("149.50")))

	got, err = repo.Get(ctx, customer.ID)
	require.NoError(t, err)
	require.Equal(t, "149.50", got.Debts.StringFixed(2))
}

func TestCustomerRepositoryGetMissingReturnsNil(t *testing.T) {
	requireDB(t)
	repo := NewCustomerRepository(testPool)

	got, err := repo.Get(context.Background(), "cust-does-not-exist")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestLegacyClientRepositoryRoundTrip(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewLegacyClientRepository(testPool)

	client := &models.LegacyClient{
		ID:        "leg-" + uuid.NewString()[:8],
		Name:      "Cliente Antigo",
		TotalDebt: decimal.RequireFromString("500.00"),
	}
	require.NoError(t, repo.Create(ctx, client))
	t.Cleanup(func() {
		testPool.Exec(context.Background(), `DELETE FROM legacy_clients WHERE id = $1`, client.ID)
	})

	got, err := repo.Get(ctx, client.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "500.00", got.TotalDebt.StringFixed(2))

	require.NoError(t, repo.UpdateTotalDebt(ctx, client.ID, decimal.RequireFromString("400.00")))

	got, err = repo.Get(ctx, client.ID)
	require.NoError(t, err)
	require.Equal(t, "400.00", got.TotalDebt.StringFixed(2))

	missing, err := repo.Get(ctx, "leg-does-not-exist")
	require.NoError(t, err)
	require.Nil(t, missing)
}
