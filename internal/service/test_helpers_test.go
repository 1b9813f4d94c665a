package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oticavision/backoffice/internal/domain"
	"github.com/oticavision/backoffice/internal/gateway"
	"github.com/oticavision/backoffice/internal/models"
)

// stubGateway returns canned results keyed by nosso número.
type stubGateway struct {
	results map[string]*gateway.StatusResult
	err     error
}

func (g *stubGateway) CheckStatus(ctx context.Context, nossoNumero string) (*gateway.StatusResult, error) {
	if g.err != nil {
		return nil, g.err
	}
	if res, ok := g.results[nossoNumero]; ok {
		return res, nil
	}
	return &gateway.StatusResult{Success: true, Status: domain.BoletoStatusRegistrado}, nil
}

type statusUpdate struct {
	id            uuid.UUID
	gatewayStatus string
	localStatus   string
}

// memPaymentStore is an in-memory PaymentStore. UpdateGatewayStatus mutates
// the stored payment so repeated passes see the refreshed state.
type memPaymentStore struct {
	mu       sync.Mutex
	payments []models.Payment
	listErr  error
	updates  []statusUpdate
}

func (s *memPaymentStore) List(ctx context.Context, params ListPaymentsParams) ([]models.Payment, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, 0, s.listErr
	}

	var out []models.Payment
	for _, p := range s.payments {
		if params.Method != "" && p.PaymentMethod != params.Method {
			continue
		}
		if params.Status != "" && p.Status != params.Status {
			continue
		}
		if params.CustomerID != "" && (p.CustomerID == nil || *p.CustomerID != params.CustomerID) {
			continue
		}
		out = append(out, p)
	}
	total := len(out)
	if params.Limit > 0 && len(out) > params.Limit {
		out = out[:params.Limit]
	}
	return out, total, nil
}

func (s *memPaymentStore) UpdateGatewayStatus(ctx context.Context, id uuid.UUID, gatewayStatus, localStatus string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, statusUpdate{id: id, gatewayStatus: gatewayStatus, localStatus: localStatus})
	for i := range s.payments {
		if s.payments[i].ID == id {
			if s.payments[i].Sicredi != nil {
				s.payments[i].Sicredi.Status = gatewayStatus
			}
			s.payments[i].Status = localStatus
		}
	}
	return nil
}

type memCustomerStore struct {
	mu        sync.Mutex
	customers map[string]*models.Customer
}

func newMemCustomerStore(customers ...*models.Customer) *memCustomerStore {
	s := &memCustomerStore{customers: map[string]*models.Customer{}}
	for _, c := range customers {
		s.customers[c.ID] = c
	}
	return s
}

func (s *memCustomerStore) Get(ctx context.Context, id string) (*models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[id]
	if !ok {
		return nil, nil
	}
	clone := *c
	return &clone, nil
}

func (s *memCustomerStore) UpdateDebts(ctx context.Context, id string, debts decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[id].Debts = debts
	return nil
}

type memLegacyStore struct {
	mu      sync.Mutex
	clients map[string]*models.LegacyClient
}

func newMemLegacyStore(clients ...*models.LegacyClient) *memLegacyStore {
	s := &memLegacyStore{clients: map[string]*models.LegacyClient{}}
	for _, c := range clients {
		s.clients[c.ID] = c
	}
	return s
}

func (s *memLegacyStore) Get(ctx context.Context, id string) (*models.LegacyClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[id]
	if !ok {
		return nil, nil
	}
	clone := *c
	return &clone, nil
}

func (s *memLegacyStore) UpdateTotalDebt(ctx context.Context, id string, totalDebt decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[id].TotalDebt = totalDebt
	return nil
}

// boletoPayment builds a pending sicredi boleto fixture.
func boletoPayment(nossoNumero string, customerID, legacyClientID *string) models.Payment {
	return models.Payment{
		ID:            uuid.New(),
		Amount:        decimal.NewFromInt(100),
		PaymentMethod: domain.PaymentMethodSicrediBoleto,
		Status:        domain.PaymentStatusPending,
		Sicredi: &models.SicrediBoleto{
			NossoNumero: nossoNumero,
			Status:      domain.BoletoStatusRegistrado,
		},
		CustomerID:     customerID,
		LegacyClientID: legacyClientID,
	}
}

func strPtr(s string) *string { return &s }

func newTestSync(payments *memPaymentStore, gw gateway.Gateway, customers CustomerStore, legacy LegacyClientStore) *SyncService {
	if customers == nil {
		customers = newMemCustomerStore()
	}
	if legacy == nil {
		legacy = newMemLegacyStore()
	}
	ledger := NewDebtLedger(customers, legacy)
	reconciler := NewReconciler(payments, gw, ledger)
	return NewSyncService(payments, reconciler)
}
