package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/bolso-dev/bolso/internal/auth"
	"github.com/bolso-dev/bolso/internal/store"
	"github.com/bolso-dev/bolso/internal/transactions"
)

// errorHandler maps service errors onto HTTP responses: validation
// failures become field-keyed 400s, missing rows 404s, credential
// problems 401s, constraint conflicts 409s.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var vErr *transactions.ValidationError
	if errors.As(err, &vErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{vErr.Field: vErr.Message})
	}
	var aErr *auth.ValidationError
	if errors.As(err, &aErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{aErr.Field: aErr.Message})
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case errors.Is(err, store.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "already exists"})
	case errors.Is(err, store.ErrInUse):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "still referenced by transactions"})
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
	}

	var fErr *fiber.Error
	if errors.As(err, &fErr) {
		return c.Status(fErr.Code).JSON(fiber.Map{"error": fErr.Message})
	}

	s.log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

// badRequest is a field-keyed 400 for malformed request bodies.
func badRequest(field, message string) error {
	return &transactions.ValidationError{Field: field, Message: message}
}
