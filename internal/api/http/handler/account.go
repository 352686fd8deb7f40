package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dtroode/gophaccounts-server/internal/apierrors"
	"github.com/dtroode/gophaccounts-server/internal/logger"
	"github.com/dtroode/gophaccounts-server/internal/model"
)

// AccountService defines operations on the caller's own account.
type AccountService interface {
	GetByID(ctx context.Context, id uuid.UUID) (model.Account, error)
	Update(ctx context.Context, id uuid.UUID, params model.UpdateAccountParams) (model.Account, error)
}

// Account handles the /accounts endpoints.
type Account struct {
	accountService AccountService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAccount creates a new Account handler.
func NewAccount(accountService AccountService, contextManager model.ContextManager, logger *logger.Logger) *Account {
	return &Account{
		accountService: accountService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type updateAccountRequest struct {
	Email     *string `json:"email" form:"email"`
	Firstname *string `json:"firstname" form:"firstname"`
	Lastname  *string `json:"lastname" form:"lastname"`
}

// Get returns the authenticated caller's account.
func (h *Account) Get(c *fiber.Ctx) error {
	identity, ok := h.contextManager.GetIdentityFromContext(c.UserContext())
	if !ok {
		return apierrors.NewErrUnauthorized("")
	}

	h.logger.Info("Account handler: fetching account",
		"account_id", identity.AccountID)

	account, err := h.accountService.GetByID(c.UserContext(), identity.AccountID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(toAccountResponse(account))
}

// Update changes profile fields of the caller's account. Other fields are ignored.
func (h *Account) Update(c *fiber.Ctx) error {
	identity, ok := h.contextManager.GetIdentityFromContext(c.UserContext())
	if !ok {
		return apierrors.NewErrUnauthorized("")
	}

	h.logger.Info("Account handler: updating account",
		"account_id", identity.AccountID)

	var req updateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return apierrors.NewErrBadRequest("")
	}

	account, err := h.accountService.Update(c.UserContext(), identity.AccountID, model.UpdateAccountParams{
		Email:     req.Email,
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(toAccountResponse(account))
}
