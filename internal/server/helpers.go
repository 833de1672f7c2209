package server

import (
	"strconv"
	"strings"

	"uniconnect/internal/models"

	"github.com/gofiber/fiber/v2"
)

// respondErr writes err with the status its AppError code maps to.
func respondErr(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusFor(err), err)
}

// parseID reads a numeric id from a form or JSON body field.
func parseID(raw, field string) (uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, models.NewValidationError(field + " is required")
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewValidationError("invalid " + field)
	}
	return uint(id), nil
}
