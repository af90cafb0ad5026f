// Package store provides the invoice persistence layer: a Postgres-backed
// implementation and an in-memory fallback behind one interface, both applying
// the same normalization on every read/write boundary.
package store

import (
	"context"
	"sort"

	"github.com/BekirBz/invoice-ai-mvp/models"
)

// Store is the persistence contract consumed by the pipeline and chat engine.
// ListInvoices returns newest-first by createdAt; an empty userID lists all.
type Store interface {
	SaveInvoice(ctx context.Context, inv *models.Invoice) (string, error)
	GetInvoice(ctx context.Context, id string) (*models.Invoice, error) // nil, nil when absent
	ListInvoices(ctx context.Context, userID string) ([]models.Invoice, error)

	UpsertUser(ctx context.Context, u *models.UserProfile) error
	AppendLogin(ctx context.Context, ev *models.LoginEvent) error

	Migrate() error
	Close() error
}

// sortNewestFirst orders records by their createdAt string descending.
// ISO-8601 strings compare correctly lexicographically, which matches how the
// historical store sorted heterogeneous documents.
func sortNewestFirst(invs []models.Invoice) {
	sort.SliceStable(invs, func(i, j int) bool {
		return invs[i].CreatedAt > invs[j].CreatedAt
	})
}
