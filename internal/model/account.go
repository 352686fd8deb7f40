package model

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultRole is assigned to every new account.
const DefaultRole = "user"

// AccountStore defines persistence operations for accounts.
type AccountStore interface {
	FindOne(ctx context.Context, filter AccountFilter) (Account, error)
	FindOneAndUpdate(ctx context.Context, filter AccountFilter, patch AccountPatch) (Account, error)
	Create(ctx context.Context, account Account) (Account, error)
}

// Account represents a stored account with its authentication material.
type Account struct {
	ID                  uuid.UUID
	Email               string
	Firstname           string
	Lastname            string
	Hash                string
	Salt                string
	ResetPasswordToken  string
	ResetPasswordExpiry *time.Time
	Roles               []string
	CustomerID          string
	Cards               []string
	Subscriptions       []string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Name returns the display name of the account owner.
func (a Account) Name() string {
	return a.Firstname + " " + a.Lastname
}

// HasPassword reports whether the credential pair is set.
func (a Account) HasPassword() bool {
	return a.Hash != "" && a.Salt != ""
}

// Identity returns the token claims describing the account.
func (a Account) Identity() Identity {
	return Identity{
		AccountID:  a.ID,
		Name:       a.Name(),
		Email:      a.Email,
		CustomerID: a.CustomerID,
	}
}

// NewAccount builds an account from registration data with defaults applied.
// Credentials are set separately by the password hasher.
func NewAccount(params CreateAccountParams) Account {
	return Account{
		ID:            uuid.New(),
		Email:         NormalizeEmail(params.Email),
		Firstname:     strings.TrimSpace(params.Firstname),
		Lastname:      strings.TrimSpace(params.Lastname),
		Roles:         []string{DefaultRole},
		Cards:         []string{},
		Subscriptions: []string{},
	}
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateAccountParams contains registration data.
type CreateAccountParams struct {
	Email          string
	Firstname      string
	Lastname       string
	Password       string
	CreateCustomer bool
}

// UpdateAccountParams contains profile fields a user may change.
// Nil fields are left untouched.
type UpdateAccountParams struct {
	Email     *string
	Firstname *string
	Lastname  *string
}

// AccountFilter selects a single account. Zero-valued fields are ignored.
type AccountFilter struct {
	ID         uuid.UUID
	Email      string
	ResetToken string
	// ResetValidAt requires a reset expiry strictly after the given instant.
	ResetValidAt *time.Time
}

// Matches reports whether the account satisfies every set field of the filter.
func (f AccountFilter) Matches(a Account) bool {
	if f.ID != uuid.Nil && a.ID != f.ID {
		return false
	}
	if f.Email != "" && a.Email != NormalizeEmail(f.Email) {
		return false
	}
	if f.ResetToken != "" && a.ResetPasswordToken != f.ResetToken {
		return false
	}
	if f.ResetValidAt != nil {
		if a.ResetPasswordExpiry == nil || !a.ResetPasswordExpiry.After(*f.ResetValidAt) {
			return false
		}
	}
	return true
}

// IsEmpty reports whether no field of the filter is set.
func (f AccountFilter) IsEmpty() bool {
	return f.ID == uuid.Nil && f.Email == "" && f.ResetToken == "" && f.ResetValidAt == nil
}

// AccountPatch describes a partial update. Nil fields are left untouched.
type AccountPatch struct {
	Email      *string
	Firstname  *string
	Lastname   *string
	Credential *Credential
	Reset      *PasswordReset
	ClearReset bool
	Roles      []string
	CustomerID *string
}

// Apply returns a copy of the account with the patch applied.
func (p AccountPatch) Apply(a Account) Account {
	if p.Email != nil {
		a.Email = NormalizeEmail(*p.Email)
	}
	if p.Firstname != nil {
		a.Firstname = strings.TrimSpace(*p.Firstname)
	}
	if p.Lastname != nil {
		a.Lastname = strings.TrimSpace(*p.Lastname)
	}
	if p.Credential != nil {
		a.Hash = p.Credential.Hash
		a.Salt = p.Credential.Salt
	}
	if p.ClearReset {
		a.ResetPasswordToken = ""
		a.ResetPasswordExpiry = nil
	}
	if p.Reset != nil {
		expiry := p.Reset.ExpiresAt
		a.ResetPasswordToken = p.Reset.Token
		a.ResetPasswordExpiry = &expiry
	}
	if p.Roles != nil {
		a.Roles = append([]string(nil), p.Roles...)
	}
	if p.CustomerID != nil {
		a.CustomerID = *p.CustomerID
	}
	return a
}

// Credential is a salted password hash.
type Credential struct {
	Hash string
	Salt string
}

// PasswordReset is an active forgot-password window.
type PasswordReset struct {
	Token     string
	ExpiresAt time.Time
}
