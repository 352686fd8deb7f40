package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dtroode/gophaccounts-server/internal/model"
	"github.com/dtroode/gophaccounts-server/internal/password"
	"github.com/dtroode/gophaccounts-server/internal/repository/memory"
	"github.com/dtroode/gophaccounts-server/internal/testutil"
)

// lowCostHasher keeps derivations fast in tests.
func lowCostHasher() *password.Hasher {
	return password.NewHasher(10, 32)
}

func newFixture(t *testing.T) (*memory.AccountRepository, *Account, *Auth) {
	t.Helper()

	store := memory.NewAccountRepository()
	hasher := lowCostHasher()
	log := testutil.MakeNoopLogger()

	return store, NewAccount(store, hasher, nil, log), NewAuth(store, hasher, DefaultResetTTL, log)
}

func register(t *testing.T, accounts *Account, email, pw string) model.Account {
	t.Helper()

	account, err := accounts.Create(context.Background(), model.CreateAccountParams{
		Email:     email,
		Firstname: "Peter",
		Lastname:  "Parker",
		Password:  pw,
	})
	require.NoError(t, err)
	return account
}
