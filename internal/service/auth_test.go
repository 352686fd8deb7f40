package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/gophaccounts-server/internal/apierrors"
	servermocks "github.com/dtroode/gophaccounts-server/internal/mocks"
	"github.com/dtroode/gophaccounts-server/internal/model"
	"github.com/dtroode/gophaccounts-server/internal/testutil"
)

func TestAuth_Login(t *testing.T) {
	_, accounts, auth := newFixture(t)
	created := register(t, accounts, "peter@parker.com", "secret")
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		account, err := auth.Login(ctx, "Peter@Parker.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, created.ID, account.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := auth.Login(ctx, "peter@parker.com", "wrong")
		require.Error(t, err)
		assert.True(t, apierrors.Is(err, apierrors.KindIncorrectPassword))
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := auth.Login(ctx, "nobody@parker.com", "secret")
		assert.True(t, apierrors.Is(err, apierrors.KindAccountNotFound))
	})

	t.Run("empty email", func(t *testing.T) {
		_, err := auth.Login(ctx, "", "secret")
		assert.True(t, apierrors.Is(err, apierrors.KindAccountNotFound))
	})
}

func TestAuth_PasswordForgotAndReset(t *testing.T) {
	store, accounts, auth := newFixture(t)
	created := register(t, accounts, "peter@parker.com", "secret")
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	auth.now = func() time.Time { return now }

	token, err := auth.PasswordForgot(ctx, "peter@parker.com")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{40}$`), token)

	stored, err := store.FindOne(ctx, model.AccountFilter{ID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, token, stored.ResetPasswordToken)
	require.NotNil(t, stored.ResetPasswordExpiry)
	assert.Equal(t, now.Add(DefaultResetTTL), *stored.ResetPasswordExpiry)

	_, err = auth.PasswordReset(ctx, PasswordResetParams{Email: "peter@parker.com", Password: "a", ConfirmPassword: "b", Token: token})
	assert.True(t, apierrors.Is(err, apierrors.KindPasswordMismatch))

	reset, err := auth.PasswordReset(ctx, PasswordResetParams{Email: "peter@parker.com", Password: "fresh", ConfirmPassword: "fresh", Token: token})
	require.NoError(t, err)
	assert.Empty(t, reset.ResetPasswordToken)
	assert.Nil(t, reset.ResetPasswordExpiry)

	_, err = auth.Login(ctx, "peter@parker.com", "fresh")
	require.NoError(t, err)
	_, err = auth.Login(ctx, "peter@parker.com", "secret")
	assert.True(t, apierrors.Is(err, apierrors.KindIncorrectPassword))

	_, err = auth.PasswordReset(ctx, PasswordResetParams{Email: "peter@parker.com", Password: "again", ConfirmPassword: "again", Token: token})
	assert.True(t, apierrors.Is(err, apierrors.KindAccountNotFound))
}

func TestAuth_PasswordReset_WrongAndExpiredTokensFailAlike(t *testing.T) {
	_, accounts, auth := newFixture(t)
	register(t, accounts, "peter@parker.com", "secret")
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	auth.now = func() time.Time { return now }

	token, err := auth.PasswordForgot(ctx, "peter@parker.com")
	require.NoError(t, err)

	params := PasswordResetParams{Email: "peter@parker.com", Password: "x", ConfirmPassword: "x", Token: "deadbeef"}
	_, wrongErr := auth.PasswordReset(ctx, params)

	auth.now = func() time.Time { return now.Add(DefaultResetTTL) }
	params.Token = token
	_, expiredErr := auth.PasswordReset(ctx, params)

	require.Error(t, wrongErr)
	require.Error(t, expiredErr)
	assert.Equal(t, wrongErr.Error(), expiredErr.Error())
	assert.True(t, apierrors.Is(expiredErr, apierrors.KindAccountNotFound))

	params.Token = ""
	_, err = auth.PasswordReset(ctx, params)
	assert.True(t, apierrors.Is(err, apierrors.KindAccountNotFound))
}

func TestAuth_PasswordReset_MissingPassword(t *testing.T) {
	_, _, auth := newFixture(t)

	_, err := auth.PasswordReset(context.Background(), PasswordResetParams{Email: "a@b.com", Token: "t"})

	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "password", verr.Fields[0].Key)
}

func TestAuth_PasswordForgot_UnknownAccount(t *testing.T) {
	_, _, auth := newFixture(t)

	_, err := auth.PasswordForgot(context.Background(), "nobody@parker.com")
	assert.True(t, apierrors.Is(err, apierrors.KindAccountNotFound))
}

func TestAuth_PasswordForgot_TokenError(t *testing.T) {
	store := servermocks.NewAccountStore(t)
	auth := NewAuth(store, lowCostHasher(), 0, testutil.MakeNoopLogger())
	auth.resetToken = func() (string, error) { return "", assert.AnError }

	_, err := auth.PasswordForgot(context.Background(), "a@b.com")
	require.ErrorIs(t, err, assert.AnError)
	store.AssertNotCalled(t, "FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuth_PasswordChange(t *testing.T) {
	_, accounts, auth := newFixture(t)
	created := register(t, accounts, "peter@parker.com", "secret")
	ctx := context.Background()

	_, err := auth.PasswordChange(ctx, created.ID, "wrong", "next")
	assert.True(t, apierrors.Is(err, apierrors.KindIncorrectPassword))

	_, err = auth.PasswordChange(ctx, created.ID, "secret", "")
	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr))

	changed, err := auth.PasswordChange(ctx, created.ID, "secret", "next")
	require.NoError(t, err)
	assert.NotEqual(t, created.Salt, changed.Salt)

	_, err = auth.Login(ctx, "peter@parker.com", "next")
	require.NoError(t, err)

	_, err = auth.PasswordChange(ctx, uuid.New(), "secret", "next")
	assert.True(t, apierrors.Is(err, apierrors.KindAccountNotFound))
}

func TestAuth_PasswordChange_StoreFailure(t *testing.T) {
	store := servermocks.NewAccountStore(t)
	hasher := servermocks.NewPasswordHasher(t)
	id := uuid.New()
	account := model.Account{ID: id, Hash: "h", Salt: "s"}

	store.On("FindOne", mock.Anything, model.AccountFilter{ID: id}).Return(account, nil).Once()
	hasher.On("VerifyPassword", account, "old").Return(true).Once()
	hasher.On("SetPassword", model.Account{}, "new").Return(model.Account{Hash: "h2", Salt: "s2"}, nil).Once()
	store.On("FindOneAndUpdate", mock.Anything, model.AccountFilter{ID: id}, model.AccountPatch{
		Credential: &model.Credential{Hash: "h2", Salt: "s2"},
	}).Return(model.Account{}, assert.AnError).Once()

	auth := NewAuth(store, hasher, 0, testutil.MakeNoopLogger())
	_, err := auth.PasswordChange(context.Background(), id, "old", "new")
	require.ErrorIs(t, err, assert.AnError)
}
