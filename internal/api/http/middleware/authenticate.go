package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dtroode/gophaccounts-server/internal/apierrors"
	"github.com/dtroode/gophaccounts-server/internal/logger"
	"github.com/dtroode/gophaccounts-server/internal/model"
)

// TokenService resolves identities from bearer tokens.
type TokenService interface {
	GetIdentity(ctx context.Context, token string) (model.Identity, error)
}

// Authenticate validates bearer tokens and injects the identity into the request context.
type Authenticate struct {
	tokenService   TokenService
	contextManager model.ContextManager
	cookieName     string
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenService TokenService, contextManager model.ContextManager, cookieName string, logger *logger.Logger) *Authenticate {
	return &Authenticate{
		tokenService:   tokenService,
		contextManager: contextManager,
		cookieName:     cookieName,
		logger:         logger,
	}
}

// Handle rejects requests without a valid token and passes the rest on.
func (m *Authenticate) Handle(c *fiber.Ctx) error {
	tokenString := m.extractToken(c)
	if tokenString == "" {
		return apierrors.NewErrMissingAuthorizationToken()
	}

	identity, err := m.tokenService.GetIdentity(c.UserContext(), tokenString)
	if err != nil || identity.AccountID == uuid.Nil {
		m.logger.Debug("Authenticate: rejected token",
			"path", c.Path())
		return apierrors.NewErrInvalidAuthorizationToken()
	}

	c.SetUserContext(m.contextManager.SetIdentityToContext(c.UserContext(), identity))
	return c.Next()
}

// extractToken checks the bearer header, the auth cookie, the token query
// parameter and the x-access-token header, in that order.
func (m *Authenticate) extractToken(c *fiber.Ctx) string {
	if auth := c.Get(fiber.HeaderAuthorization); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok && token != "" {
			return token
		}
	}
	if m.cookieName != "" {
		if token := c.Cookies(m.cookieName); token != "" {
			return token
		}
	}
	if token := c.Query("token"); token != "" {
		return token
	}
	return c.Get("x-access-token")
}
