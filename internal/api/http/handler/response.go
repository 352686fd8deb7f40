package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/gophaccounts-server/internal/model"
)

// AccountResponse is the public view of an account. Credentials and reset
// fields are never rendered.
type AccountResponse struct {
	ID            uuid.UUID `json:"_id"`
	Email         string    `json:"email"`
	Firstname     string    `json:"firstname"`
	Lastname      string    `json:"lastname"`
	Name          string    `json:"name"`
	Roles         []string  `json:"roles"`
	CustomerID    string    `json:"customerId,omitempty"`
	Cards         []string  `json:"cards"`
	Subscriptions []string  `json:"subscriptions"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toAccountResponse(a model.Account) AccountResponse {
	return AccountResponse{
		ID:            a.ID,
		Email:         a.Email,
		Firstname:     a.Firstname,
		Lastname:      a.Lastname,
		Name:          a.Name(),
		Roles:         nonNil(a.Roles),
		CustomerID:    a.CustomerID,
		Cards:         nonNil(a.Cards),
		Subscriptions: nonNil(a.Subscriptions),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
