package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/gophaccounts-server/internal/apierrors"
	"github.com/dtroode/gophaccounts-server/internal/model"
)

// Verify echoes the identity decoded from the caller's token.
func Verify(contextManager model.ContextManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := contextManager.GetIdentityFromContext(c.UserContext())
		if !ok {
			return apierrors.NewErrUnauthorized("")
		}
		return c.Status(fiber.StatusOK).JSON(identity)
	}
}

// Status is the liveness probe.
func Status(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).SendString("ok")
}
