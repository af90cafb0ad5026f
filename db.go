package main

import (
	"os"
	"strings"

	"github.com/BekirBz/invoice-ai-mvp/pkg/logging"
	"github.com/BekirBz/invoice-ai-mvp/pkg/store"
)

// openStore picks the persistence backend from the environment: a Postgres
// DSN in DB_DSN selects gorm, otherwise records live in process memory and
// are lost on restart.
func openStore() (store.Store, error) {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		logging.L().Warn("DB_DSN not set; using in-memory store")
		return store.NewMemory(), nil
	}
	pg, err := store.OpenPostgres(dsn)
	if err != nil {
		return nil, err
	}
	// Schema migrations are controlled by DB_AUTO_MIGRATE (default true).
	shouldMigrate := true
	if v := strings.ToLower(os.Getenv("DB_AUTO_MIGRATE")); v == "false" || v == "0" || v == "no" {
		shouldMigrate = false
	}
	if shouldMigrate {
		if err := pg.Migrate(); err != nil {
			logging.L().WithError(err).Warn("migration warning")
		}
	}
	return pg, nil
}
