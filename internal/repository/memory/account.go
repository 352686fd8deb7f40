// Package memory provides an in-process account store.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dtroode/gophaccounts-server/internal/model"
)

var _ model.AccountStore = (*AccountRepository)(nil)

var errEmptyFilter = errors.New("account filter is empty")

// AccountRepository keeps accounts in insertion order behind a mutex.
type AccountRepository struct {
	mu       sync.Mutex
	accounts []model.Account
	now      func() time.Time
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		now: time.Now,
	}
}

func (r *AccountRepository) FindOne(ctx context.Context, filter model.AccountFilter) (model.Account, error) {
	if err := ctx.Err(); err != nil {
		return model.Account{}, err
	}
	if filter.IsEmpty() {
		return model.Account{}, errEmptyFilter
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(filter)
	if i < 0 {
		return model.Account{}, model.ErrNotFound
	}
	return clone(r.accounts[i]), nil
}

func (r *AccountRepository) FindOneAndUpdate(ctx context.Context, filter model.AccountFilter, patch model.AccountPatch) (model.Account, error) {
	if err := ctx.Err(); err != nil {
		return model.Account{}, err
	}
	if filter.IsEmpty() {
		return model.Account{}, errEmptyFilter
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(filter)
	if i < 0 {
		return model.Account{}, model.ErrNotFound
	}

	updated := patch.Apply(clone(r.accounts[i]))
	if patch.Email != nil && r.emailTaken(updated.Email, i) {
		return model.Account{}, model.ErrEmailTaken
	}
	updated.UpdatedAt = r.now().UTC()

	r.accounts[i] = updated
	return clone(updated), nil
}

func (r *AccountRepository) Create(ctx context.Context, account model.Account) (model.Account, error) {
	if err := ctx.Err(); err != nil {
		return model.Account{}, err
	}

	if len(account.Roles) == 0 {
		account.Roles = []string{model.DefaultRole}
	}
	account = clone(account)
	account.Email = model.NormalizeEmail(account.Email)
	now := r.now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	if account.UpdatedAt.IsZero() {
		account.UpdatedAt = account.CreatedAt
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(account.Email, -1) {
		return model.Account{}, model.ErrEmailTaken
	}
	for _, existing := range r.accounts {
		if existing.ID == account.ID {
			return model.Account{}, errors.New("account id already exists")
		}
	}

	r.accounts = append(r.accounts, account)
	return clone(account), nil
}

func (r *AccountRepository) indexOf(filter model.AccountFilter) int {
	for i, a := range r.accounts {
		if filter.Matches(a) {
			return i
		}
	}
	return -1
}

func (r *AccountRepository) emailTaken(email string, skip int) bool {
	for i, a := range r.accounts {
		if i != skip && a.Email == email {
			return true
		}
	}
	return false
}

func clone(a model.Account) model.Account {
	if a.ResetPasswordExpiry != nil {
		expiry := *a.ResetPasswordExpiry
		a.ResetPasswordExpiry = &expiry
	}
	a.Roles = cloneStrings(a.Roles)
	a.Cards = cloneStrings(a.Cards)
	a.Subscriptions = cloneStrings(a.Subscriptions)
	return a
}

func cloneStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return append([]string{}, s...)
}
