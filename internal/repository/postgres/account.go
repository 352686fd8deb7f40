package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/dtroode/gophaccounts-server/internal/model"
)

var _ model.AccountStore = (*AccountRepository)(nil)

var errEmptyFilter = errors.New("account filter is empty")

const accountColumns = `id, email, firstname, lastname, hash, salt, reset_password_token, reset_password_expiry,
			  roles, customer_id, cards, subscriptions, created_at, updated_at`

type AccountRepository struct {
	db  Querier
	now func() time.Time
}

func NewAccountRepository(db Querier) *AccountRepository {
	return &AccountRepository{
		db:  db,
		now: time.Now,
	}
}

func (r *AccountRepository) FindOne(ctx context.Context, filter model.AccountFilter) (model.Account, error) {
	where, args, err := buildWhere(filter, nil)
	if err != nil {
		return model.Account{}, err
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + where + ` LIMIT 1`

	account, err := scanAccount(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to find account: %w", err)
	}

	return account, nil
}

// FindOneAndUpdate applies the patch to the first account matching the filter
// in a single statement, so concurrent callers cannot both consume the same match.
func (r *AccountRepository) FindOneAndUpdate(ctx context.Context, filter model.AccountFilter, patch model.AccountPatch) (model.Account, error) {
	set, args := buildSet(patch, r.now().UTC())

	where, args, err := buildWhere(filter, args)
	if err != nil {
		return model.Account{}, err
	}

	query := `UPDATE accounts SET ` + set + `
			  WHERE id = (SELECT id FROM accounts WHERE ` + where + ` LIMIT 1 FOR UPDATE)
			  RETURNING ` + accountColumns

	account, err := scanAccount(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		if isUniqueViolation(err) {
			return model.Account{}, model.ErrEmailTaken
		}
		return model.Account{}, fmt.Errorf("failed to update account: %w", err)
	}

	return account, nil
}

func (r *AccountRepository) Create(ctx context.Context, account model.Account) (model.Account, error) {
	now := r.now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	if account.UpdatedAt.IsZero() {
		account.UpdatedAt = account.CreatedAt
	}
	if account.Roles == nil {
		account.Roles = []string{model.DefaultRole}
	}
	if account.Cards == nil {
		account.Cards = []string{}
	}
	if account.Subscriptions == nil {
		account.Subscriptions = []string{}
	}

	query := `INSERT INTO accounts (` + accountColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			  RETURNING ` + accountColumns

	saved, err := scanAccount(r.db.QueryRow(ctx, query,
		account.ID, model.NormalizeEmail(account.Email), account.Firstname, account.Lastname,
		account.Hash, account.Salt, account.ResetPasswordToken, toTimestamptz(account.ResetPasswordExpiry),
		account.Roles, account.CustomerID, account.Cards, account.Subscriptions,
		account.CreatedAt, account.UpdatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return model.Account{}, model.ErrEmailTaken
		}
		return model.Account{}, fmt.Errorf("failed to create account: %w", err)
	}

	return saved, nil
}

func scanAccount(row pgx.Row) (model.Account, error) {
	var (
		account model.Account
		expiry  pgtype.Timestamptz
	)

	err := row.Scan(
		&account.ID, &account.Email, &account.Firstname, &account.Lastname,
		&account.Hash, &account.Salt, &account.ResetPasswordToken, &expiry,
		&account.Roles, &account.CustomerID, &account.Cards, &account.Subscriptions,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		return model.Account{}, err
	}

	if expiry.Valid {
		t := expiry.Time
		account.ResetPasswordExpiry = &t
	}

	return account, nil
}

// buildWhere appends the filter arguments to args and returns the matching predicate.
func buildWhere(filter model.AccountFilter, args []any) (string, []any, error) {
	if filter.IsEmpty() {
		return "", nil, errEmptyFilter
	}

	var conds []string
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, strings.Replace(cond, "?", "$"+strconv.Itoa(len(args)), 1))
	}

	if filter.ID != uuid.Nil {
		add("id = ?", filter.ID)
	}
	if filter.Email != "" {
		add("lower(email) = ?", model.NormalizeEmail(filter.Email))
	}
	if filter.ResetToken != "" {
		add("reset_password_token = ?", filter.ResetToken)
	}
	if filter.ResetValidAt != nil {
		add("reset_password_expiry > ?", filter.ResetValidAt.UTC())
	}

	return strings.Join(conds, " AND "), args, nil
}

func buildSet(patch model.AccountPatch, now time.Time) (string, []any) {
	var (
		sets []string
		args []any
	)
	add := func(column string, arg any) {
		args = append(args, arg)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	if patch.Email != nil {
		add("email", model.NormalizeEmail(*patch.Email))
	}
	if patch.Firstname != nil {
		add("firstname", strings.TrimSpace(*patch.Firstname))
	}
	if patch.Lastname != nil {
		add("lastname", strings.TrimSpace(*patch.Lastname))
	}
	if patch.Credential != nil {
		add("hash", patch.Credential.Hash)
		add("salt", patch.Credential.Salt)
	}
	switch {
	case patch.Reset != nil:
		add("reset_password_token", patch.Reset.Token)
		add("reset_password_expiry", patch.Reset.ExpiresAt.UTC())
	case patch.ClearReset:
		sets = append(sets, "reset_password_token = ''", "reset_password_expiry = NULL")
	}
	if patch.Roles != nil {
		add("roles", patch.Roles)
	}
	if patch.CustomerID != nil {
		add("customer_id", *patch.CustomerID)
	}
	add("updated_at", now)

	return strings.Join(sets, ", "), args
}

func toTimestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t.UTC(), Valid: true}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
