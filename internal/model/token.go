package model

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTokenTTL is used when a token is issued without an explicit lifetime.
const DefaultTokenTTL = 30 * 24 * time.Hour

// TokenManager signs and verifies bearer tokens.
type TokenManager interface {
	Issue(identity Identity, ttl time.Duration) (string, error)
	Verify(token string) (Identity, error)
}

// Identity is the authenticated caller decoded from a bearer token.
type Identity struct {
	AccountID  uuid.UUID `json:"_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	CustomerID string    `json:"customerId,omitempty"`
	IssuedAt   int64     `json:"iat,omitempty"`
	ExpiresAt  int64     `json:"exp,omitempty"`
}
