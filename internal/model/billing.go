package model

import (
	"context"

	"github.com/google/uuid"
)

// BillingCustomer is a customer record held by the billing provider.
type BillingCustomer struct {
	ID       string            `json:"id"`
	Email    string            `json:"email"`
	Name     string            `json:"name,omitempty"`
	Deleted  bool              `json:"deleted,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// CreateCustomerParams links a billing customer to an account.
type CreateCustomerParams struct {
	AccountID uuid.UUID
	Name      string
	Email     string
}

// CustomerCreator registers accounts with the billing provider.
type CustomerCreator interface {
	CreateCustomer(ctx context.Context, params CreateCustomerParams) (BillingCustomer, error)
}
