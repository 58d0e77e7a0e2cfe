package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mudassar003/scholarsync/internal/domain"
)

const userIDHeader = "X-User-ID"

const (
	defaultPage     = 1
	defaultPageSize = 50
	maxPageSize     = 100
)

// requestUserID extracts the caller identity every operation is scoped to.
func requestUserID(c *fiber.Ctx) (string, error) {
	userID := strings.TrimSpace(c.Get(userIDHeader))
	if userID == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "X-User-ID header is required")
	}
	return userID, nil
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return err
	}
}
