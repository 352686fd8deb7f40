package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/gophaccounts-server/internal/apierrors"
	"github.com/dtroode/gophaccounts-server/internal/model"
)

// findAccount loads a single account, turning absence into the caller-facing
// "Account does not exist" error shared by every lookup.
func findAccount(ctx context.Context, store model.AccountStore, filter model.AccountFilter) (model.Account, error) {
	if filter.IsEmpty() {
		return model.Account{}, apierrors.NewErrAccountNotFound()
	}

	account, err := store.FindOne(ctx, filter)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Account{}, apierrors.NewErrAccountNotFound()
		}
		return model.Account{}, fmt.Errorf("failed to find account: %w", err)
	}

	return account, nil
}

// updateAccount is findAccount for atomic find-and-update calls.
func updateAccount(ctx context.Context, store model.AccountStore, filter model.AccountFilter, patch model.AccountPatch) (model.Account, error) {
	if filter.IsEmpty() {
		return model.Account{}, apierrors.NewErrAccountNotFound()
	}

	account, err := store.FindOneAndUpdate(ctx, filter, patch)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Account{}, apierrors.NewErrAccountNotFound()
		}
		return model.Account{}, fmt.Errorf("failed to update account: %w", err)
	}

	return account, nil
}
