package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/gophaccounts-server/internal/apierrors"
	"github.com/dtroode/gophaccounts-server/internal/logger"
	"github.com/dtroode/gophaccounts-server/internal/model"
)

const (
	// DefaultResetTTL bounds the forgot-password window.
	DefaultResetTTL = 5 * time.Minute

	resetTokenBytes = 20
)

// PasswordResetParams is a reset request carrying the out-of-band token.
type PasswordResetParams struct {
	Email           string
	Password        string
	ConfirmPassword string
	Token           string
}

type Auth struct {
	store    model.AccountStore
	hasher   model.PasswordHasher
	resetTTL time.Duration
	logger   *logger.Logger

	now        func() time.Time
	resetToken func() (string, error)
}

func NewAuth(store model.AccountStore, hasher model.PasswordHasher, resetTTL time.Duration, logger *logger.Logger) *Auth {
	if resetTTL <= 0 {
		resetTTL = DefaultResetTTL
	}

	return &Auth{
		store:      store,
		hasher:     hasher,
		resetTTL:   resetTTL,
		logger:     logger,
		now:        time.Now,
		resetToken: newResetToken,
	}
}

func (a *Auth) Login(ctx context.Context, email, password string) (model.Account, error) {
	a.logger.Debug("Auth service: login attempt",
		"email", email)

	account, err := findAccount(ctx, a.store, model.AccountFilter{Email: email})
	if err != nil {
		a.logger.Info("Auth service: login for unknown account",
			"email", email,
			"error", err.Error())
		return model.Account{}, err
	}

	if !a.hasher.VerifyPassword(account, password) {
		a.logger.Info("Auth service: incorrect password",
			"account_id", account.ID)
		return model.Account{}, apierrors.NewErrIncorrectPassword()
	}

	a.logger.Info("Auth service: login successful",
		"account_id", account.ID)

	return account, nil
}

// PasswordForgot opens a reset window and returns the token to deliver out of band.
func (a *Auth) PasswordForgot(ctx context.Context, email string) (string, error) {
	token, err := a.resetToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}

	reset := model.PasswordReset{
		Token:     token,
		ExpiresAt: a.now().Add(a.resetTTL),
	}

	account, err := updateAccount(ctx, a.store, model.AccountFilter{Email: email}, model.AccountPatch{Reset: &reset})
	if err != nil {
		a.logger.Info("Auth service: password forgot failed",
			"email", email,
			"error", err.Error())
		return "", err
	}

	a.logger.Info("Auth service: password reset requested",
		"account_id", account.ID,
		"expires_at", reset.ExpiresAt)

	return token, nil
}

// PasswordReset consumes a live reset token and stores the new password.
// Wrong and expired tokens are reported identically.
func (a *Auth) PasswordReset(ctx context.Context, params PasswordResetParams) (model.Account, error) {
	if params.Password != params.ConfirmPassword {
		return model.Account{}, apierrors.NewErrPasswordMismatch()
	}
	if params.Password == "" {
		verr := &model.ValidationError{}
		verr.Add("password", "Missing Password")
		return model.Account{}, verr
	}
	if params.Token == "" || params.Email == "" {
		return model.Account{}, apierrors.NewErrAccountNotFound()
	}

	credential, err := a.credential(params.Password)
	if err != nil {
		return model.Account{}, err
	}

	now := a.now()
	filter := model.AccountFilter{
		Email:        params.Email,
		ResetToken:   params.Token,
		ResetValidAt: &now,
	}
	patch := model.AccountPatch{
		Credential: &credential,
		ClearReset: true,
	}

	account, err := updateAccount(ctx, a.store, filter, patch)
	if err != nil {
		a.logger.Info("Auth service: password reset rejected",
			"email", params.Email,
			"error", err.Error())
		return model.Account{}, err
	}

	a.logger.Info("Auth service: password reset",
		"account_id", account.ID)

	return account, nil
}

func (a *Auth) PasswordChange(ctx context.Context, accountID uuid.UUID, oldPassword, newPassword string) (model.Account, error) {
	account, err := findAccount(ctx, a.store, model.AccountFilter{ID: accountID})
	if err != nil {
		return model.Account{}, err
	}

	if !a.hasher.VerifyPassword(account, oldPassword) {
		a.logger.Info("Auth service: incorrect password on change",
			"account_id", accountID)
		return model.Account{}, apierrors.NewErrIncorrectPassword()
	}

	if newPassword == "" {
		verr := &model.ValidationError{}
		verr.Add("newPassword", "Missing Password")
		return model.Account{}, verr
	}

	credential, err := a.credential(newPassword)
	if err != nil {
		return model.Account{}, err
	}

	updated, err := updateAccount(ctx, a.store, model.AccountFilter{ID: accountID}, model.AccountPatch{Credential: &credential})
	if err != nil {
		a.logger.Error("Auth service: failed to store new password",
			"account_id", accountID,
			"error", err.Error())
		return model.Account{}, err
	}

	a.logger.Info("Auth service: password changed",
		"account_id", accountID)

	return updated, nil
}

func (a *Auth) credential(password string) (model.Credential, error) {
	hashed, err := a.hasher.SetPassword(model.Account{}, password)
	if err != nil {
		return model.Credential{}, fmt.Errorf("failed to set password: %w", err)
	}
	return model.Credential{Hash: hashed.Hash, Salt: hashed.Salt}, nil
}

func newResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
