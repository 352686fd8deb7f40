package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/gophaccounts-server/internal/apierrors"
	"github.com/dtroode/gophaccounts-server/internal/logger"
)

// ErrorHandler renders every failed request as {status, name, message, items?, path}.
func ErrorHandler(logger *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			if fiberErr.Code == fiber.StatusNotFound {
				err = apierrors.NewErrNotFound("")
			} else {
				err = apierrors.NewErrBadRequest("")
			}
		}

		resp := apierrors.ToResponse(err, c.Path())

		logger.Error("HTTP request failed",
			"err", resp.Name,
			"message", err.Error(),
			"method", c.Method(),
			"path", c.Path())

		return c.Status(resp.Status).JSON(resp)
	}
}

// NotFound terminates requests that matched no route.
func NotFound(c *fiber.Ctx) error {
	return apierrors.NewErrNotFound("")
}
