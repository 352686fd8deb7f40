package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dtroode/gophaccounts-server/internal/apierrors"
	"github.com/dtroode/gophaccounts-server/internal/logger"
	"github.com/dtroode/gophaccounts-server/internal/model"
	"github.com/dtroode/gophaccounts-server/internal/service"
)

// AuthService defines credential operations.
type AuthService interface {
	Login(ctx context.Context, email, password string) (model.Account, error)
	PasswordForgot(ctx context.Context, email string) (string, error)
	PasswordReset(ctx context.Context, params service.PasswordResetParams) (model.Account, error)
	PasswordChange(ctx context.Context, accountID uuid.UUID, oldPassword, newPassword string) (model.Account, error)
}

// AccountCreator registers new accounts.
type AccountCreator interface {
	Create(ctx context.Context, params model.CreateAccountParams) (model.Account, error)
}

// TokenIssuer signs bearer tokens for accounts.
type TokenIssuer interface {
	Issue(account model.Account) (string, error)
}

// CookieConfig describes the auth cookie set on successful authentication.
type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
}

// Auth handles the /auth endpoints.
type Auth struct {
	authService     AuthService
	accounts        AccountCreator
	tokens          TokenIssuer
	contextManager  model.ContextManager
	cookie          CookieConfig
	createCustomers bool
	logger          *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(
	authService AuthService,
	accounts AccountCreator,
	tokens TokenIssuer,
	contextManager model.ContextManager,
	cookie CookieConfig,
	createCustomers bool,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		authService:     authService,
		accounts:        accounts,
		tokens:          tokens,
		contextManager:  contextManager,
		cookie:          cookie,
		createCustomers: createCustomers,
		logger:          logger,
	}
}

type registerRequest struct {
	Email     string `json:"email" form:"email"`
	Firstname string `json:"firstname" form:"firstname"`
	Lastname  string `json:"lastname" form:"lastname"`
	Password  string `json:"password" form:"password"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type forgotRequest struct {
	Email string `json:"email" form:"email"`
}

type resetRequest struct {
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
	Token           string `json:"token" form:"token"`
}

type changeRequest struct {
	OldPassword string `json:"oldPassword" form:"oldPassword"`
	NewPassword string `json:"newPassword" form:"newPassword"`
}

type logoutResponse struct {
	User  *AccountResponse `json:"user"`
	Token *string          `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register creates an account and signs the caller in.
func (h *Auth) Register(c *fiber.Ctx) error {
	h.logger.Info("Auth handler: registering a new user")

	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return apierrors.NewErrBadRequest("")
	}

	account, err := h.accounts.Create(c.UserContext(), model.CreateAccountParams{
		Email:          req.Email,
		Firstname:      req.Firstname,
		Lastname:       req.Lastname,
		Password:       req.Password,
		CreateCustomer: h.createCustomers,
	})
	if err != nil {
		return err
	}

	return h.respondWithToken(c, account, fiber.StatusCreated)
}

func (h *Auth) Login(c *fiber.Ctx) error {
	h.logger.Info("Auth handler: logging in")

	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return apierrors.NewErrBadRequest("")
	}

	account, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return h.respondWithToken(c, account, fiber.StatusOK)
}

// Logout clears the auth cookie. Tokens stay valid until they expire.
func (h *Auth) Logout(c *fiber.Ctx) error {
	if identity, ok := h.contextManager.GetIdentityFromContext(c.UserContext()); ok {
		h.logger.Info("Auth handler: logging out",
			"account_id", identity.AccountID)
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		Domain:   h.cookie.Domain,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
	})

	return c.Status(fiber.StatusOK).JSON(logoutResponse{})
}

// PasswordForgot responds with the reset token as a JSON string.
func (h *Auth) PasswordForgot(c *fiber.Ctx) error {
	h.logger.Info("Auth handler: requesting password reset")

	var req forgotRequest
	if err := c.BodyParser(&req); err != nil {
		return apierrors.NewErrBadRequest("")
	}

	token, err := h.authService.PasswordForgot(c.UserContext(), req.Email)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(token)
}

// PasswordReset takes the token from the query string first, then the body.
func (h *Auth) PasswordReset(c *fiber.Ctx) error {
	h.logger.Info("Auth handler: resetting password")

	var req resetRequest
	if err := c.BodyParser(&req); err != nil {
		return apierrors.NewErrBadRequest("")
	}

	token := c.Query("token")
	if token == "" {
		token = req.Token
	}

	_, err := h.authService.PasswordReset(c.UserContext(), service.PasswordResetParams{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Token:           token,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(messageResponse{Message: "Password Updated"})
}

func (h *Auth) PasswordChange(c *fiber.Ctx) error {
	identity, ok := h.contextManager.GetIdentityFromContext(c.UserContext())
	if !ok {
		return apierrors.NewErrUnauthorized("")
	}

	h.logger.Info("Auth handler: changing password",
		"account_id", identity.AccountID)

	var req changeRequest
	if err := c.BodyParser(&req); err != nil {
		return apierrors.NewErrBadRequest("")
	}

	account, err := h.authService.PasswordChange(c.UserContext(), identity.AccountID, req.OldPassword, req.NewPassword)
	if err != nil {
		return err
	}

	return h.respondWithToken(c, account, fiber.StatusOK)
}

func (h *Auth) respondWithToken(c *fiber.Ctx, account model.Account, status int) error {
	token, err := h.tokens.Issue(account)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		Domain:   h.cookie.Domain,
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
	})

	return c.Status(status).JSON(toAccountResponse(account))
}
