package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BekirBz/invoice-ai-mvp/models"
	"github.com/BekirBz/invoice-ai-mvp/pkg/logging"
)

// Postgres persists records through gorm. Saves are idempotent by id
// (insert-or-replace), matching the document-store semantics of the
// historical backend.
type Postgres struct {
	db *gorm.DB
}

func OpenPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Postgres{db: db}, nil
}

// Migrate runs AutoMigrate per model so a failure on one table does not
// block the others.
func (p *Postgres) Migrate() error {
	for _, m := range []any{&models.Invoice{}, &models.UserProfile{}, &models.LoginEvent{}} {
		if err := p.db.AutoMigrate(m); err != nil {
			logging.L().WithError(err).Warnf("migration warning (%T)", m)
		}
	}
	return nil
}

func (p *Postgres) SaveInvoice(ctx context.Context, inv *models.Invoice) (string, error) {
	Coerce(inv)
	err := p.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(inv).Error
	if err != nil {
		return "", fmt.Errorf("save invoice: %w", err)
	}
	return inv.ID, nil
}

func (p *Postgres) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	var inv models.Invoice
	err := p.db.WithContext(ctx).First(&inv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return Coerce(&inv), nil
}

func (p *Postgres) ListInvoices(ctx context.Context, userID string) ([]models.Invoice, error) {
	q := p.db.WithContext(ctx).Model(&models.Invoice{})
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var invs []models.Invoice
	if err := q.Order("created_at desc").Find(&invs).Error; err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	for i := range invs {
		Coerce(&invs[i])
	}
	return invs, nil
}

func (p *Postgres) UpsertUser(ctx context.Context, u *models.UserProfile) error {
	return p.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, UpdateAll: true}).
		Create(u).Error
}

func (p *Postgres) AppendLogin(ctx context.Context, ev *models.LoginEvent) error {
	return p.db.WithContext(ctx).Create(ev).Error
}

func (p *Postgres) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
