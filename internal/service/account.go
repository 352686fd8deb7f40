package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/gophaccounts-server/internal/logger"
	"github.com/dtroode/gophaccounts-server/internal/model"
	"github.com/dtroode/gophaccounts-server/internal/validation"
)

var ErrBillingDisabled = errors.New("billing is not configured")

// Account manages account records on behalf of the HTTP surface.
type Account struct {
	store   model.AccountStore
	hasher  model.PasswordHasher
	billing model.CustomerCreator
	logger  *logger.Logger
}

func NewAccount(store model.AccountStore, hasher model.PasswordHasher, billing model.CustomerCreator, logger *logger.Logger) *Account {
	return &Account{
		store:   store,
		hasher:  hasher,
		billing: billing,
		logger:  logger,
	}
}

// Create validates and stores a new account with its initial password.
// A billing customer is created first when requested.
func (s *Account) Create(ctx context.Context, params model.CreateAccountParams) (model.Account, error) {
	s.logger.Debug("Account service: creating account",
		"email", params.Email)

	account := model.NewAccount(params)

	if verr := validation.Registration(account, params.Password); verr != nil {
		s.logger.Info("Account service: invalid registration",
			"email", account.Email,
			"error", verr.Error())
		return model.Account{}, verr
	}

	_, err := s.store.FindOne(ctx, model.AccountFilter{Email: account.Email})
	switch {
	case err == nil:
		s.logger.Info("Account service: email already exists",
			"email", account.Email)
		return model.Account{}, validation.EmailTaken(account.Email)
	case !errors.Is(err, model.ErrNotFound):
		s.logger.Error("Account service: failed to check email",
			"email", account.Email,
			"error", err.Error())
		return model.Account{}, fmt.Errorf("failed to check email: %w", err)
	}

	account, err = s.hasher.SetPassword(account, params.Password)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to set password: %w", err)
	}

	if params.CreateCustomer {
		if s.billing == nil {
			return model.Account{}, ErrBillingDisabled
		}

		customer, err := s.billing.CreateCustomer(ctx, model.CreateCustomerParams{
			AccountID: account.ID,
			Name:      account.Name(),
			Email:     account.Email,
		})
		if err != nil {
			s.logger.Error("Account service: failed to create billing customer",
				"email", account.Email,
				"error", err.Error())
			return model.Account{}, fmt.Errorf("failed to create billing customer: %w", err)
		}
		account.CustomerID = customer.ID
	}

	saved, err := s.store.Create(ctx, account)
	if err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return model.Account{}, validation.EmailTaken(account.Email)
		}
		s.logger.Error("Account service: failed to create account",
			"email", account.Email,
			"customer_id", account.CustomerID,
			"error", err.Error())
		return model.Account{}, fmt.Errorf("failed to create account: %w", err)
	}

	s.logger.Info("Account service: account created",
		"account_id", saved.ID,
		"email", saved.Email)

	return saved, nil
}

func (s *Account) GetByID(ctx context.Context, id uuid.UUID) (model.Account, error) {
	return findAccount(ctx, s.store, model.AccountFilter{ID: id})
}

func (s *Account) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	return findAccount(ctx, s.store, model.AccountFilter{Email: email})
}

// Query returns the first account matching an arbitrary filter.
func (s *Account) Query(ctx context.Context, filter model.AccountFilter) (model.Account, error) {
	return findAccount(ctx, s.store, filter)
}

// Update changes profile fields of an existing account after validating the result.
func (s *Account) Update(ctx context.Context, id uuid.UUID, params model.UpdateAccountParams) (model.Account, error) {
	current, err := findAccount(ctx, s.store, model.AccountFilter{ID: id})
	if err != nil {
		return model.Account{}, err
	}

	patch := model.AccountPatch{
		Email:     params.Email,
		Firstname: params.Firstname,
		Lastname:  params.Lastname,
	}
	next := patch.Apply(current)

	if verr := validation.Account(next); verr != nil {
		return model.Account{}, verr
	}

	if next.Email != current.Email {
		_, err := s.store.FindOne(ctx, model.AccountFilter{Email: next.Email})
		switch {
		case err == nil:
			return model.Account{}, validation.EmailTaken(next.Email)
		case !errors.Is(err, model.ErrNotFound):
			return model.Account{}, fmt.Errorf("failed to check email: %w", err)
		}
	}

	updated, err := updateAccount(ctx, s.store, model.AccountFilter{ID: id}, patch)
	if err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return model.Account{}, validation.EmailTaken(next.Email)
		}
		s.logger.Error("Account service: failed to update account",
			"account_id", id,
			"error", err.Error())
		return model.Account{}, err
	}

	s.logger.Info("Account service: account updated",
		"account_id", id)

	return updated, nil
}
