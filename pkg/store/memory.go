package store

import (
	"context"
	"sync"

	"github.com/BekirBz/invoice-ai-mvp/models"
)

// Memory is the in-process fallback backend, used when no DB_DSN is
// configured and by the test suite. Scoped to the process lifetime.
type Memory struct {
	mu       sync.RWMutex
	invoices map[string]*models.Invoice
	users    map[string]*models.UserProfile
	logins   []models.LoginEvent
}

func NewMemory() *Memory {
	return &Memory{
		invoices: make(map[string]*models.Invoice),
		users:    make(map[string]*models.UserProfile),
	}
}

func (m *Memory) SaveInvoice(_ context.Context, inv *models.Invoice) (string, error) {
	Coerce(inv)
	cp := *inv
	m.mu.Lock()
	m.invoices[cp.ID] = &cp
	m.mu.Unlock()
	return cp.ID, nil
}

func (m *Memory) GetInvoice(_ context.Context, id string) (*models.Invoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inv, ok := m.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return Coerce(&cp), nil
}

func (m *Memory) ListInvoices(_ context.Context, userID string) ([]models.Invoice, error) {
	m.mu.RLock()
	out := make([]models.Invoice, 0, len(m.invoices))
	for _, inv := range m.invoices {
		if userID == "" || inv.UserID == userID {
			cp := *inv
			out = append(out, *Coerce(&cp))
		}
	}
	m.mu.RUnlock()
	sortNewestFirst(out)
	return out, nil
}

// ImportDocument ingests a loosely-shaped historical document, applying the
// legacy coercion before storing. Used when seeding from exported JSON dumps.
func (m *Memory) ImportDocument(doc map[string]any) string {
	inv := DecodeDocument(doc)
	m.mu.Lock()
	m.invoices[inv.ID] = inv
	m.mu.Unlock()
	return inv.ID
}

func (m *Memory) UpsertUser(_ context.Context, u *models.UserProfile) error {
	cp := *u
	m.mu.Lock()
	m.users[cp.UserID] = &cp
	m.mu.Unlock()
	return nil
}

func (m *Memory) AppendLogin(_ context.Context, ev *models.LoginEvent) error {
	m.mu.Lock()
	m.logins = append(m.logins, *ev)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Migrate() error { return nil }
func (m *Memory) Close() error   { return nil }
