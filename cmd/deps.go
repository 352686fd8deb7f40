package main

import (
	"context"

	"github.com/samber/oops"

	"github.com/dtroode/gophaccounts-server/internal/billing"
	"github.com/dtroode/gophaccounts-server/internal/config"
	"github.com/dtroode/gophaccounts-server/internal/model"
	"github.com/dtroode/gophaccounts-server/internal/repository/memory"
	"github.com/dtroode/gophaccounts-server/internal/repository/postgres"
)

// memoryDSN selects the in-process account store.
const memoryDSN = "memory"

// openStore returns the account store named by the DSN and a function releasing it.
func openStore(ctx context.Context, dsn string) (model.AccountStore, func() error, error) {
	if dsn == memoryDSN {
		return memory.NewAccountRepository(), func() error { return nil }, nil
	}

	db, err := postgres.NewConnection(ctx, dsn)
	if err != nil {
		return nil, nil, oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}

	return postgres.NewAccountRepository(db), db.Close, nil
}

// newCustomerCreator returns nil when no billing key is configured.
func newCustomerCreator(cfg config.Billing) model.CustomerCreator {
	if cfg.APIKey == "" {
		return nil
	}
	return billing.NewClient(cfg.APIKey, cfg.BaseURL)
}
