package server

import (
	"errors"
	"strconv"
	"strings"

	"telework/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// staffIDFromLocals returns the authenticated caller's staff ID. The auth
// middleware guarantees the local is set on protected routes.
func staffIDFromLocals(c *fiber.Ctx) uint {
	staffID, _ := c.Locals("staffID").(uint)
	return staffID
}

// parseRequestID extracts the :id route parameter and validates it is a UUID.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseRequestID(c *fiber.Ctx) (string, error) {
	id := strings.TrimSpace(c.Params("id"))
	if _, err := uuid.Parse(id); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request ID"))
		return "", errResponseWritten
	}
	return id, nil
}

// parseStaffIDParam extracts a route parameter by name as a positive uint.
func (s *Server) parseStaffIDParam(c *fiber.Ctx, param string) (uint, error) {
	raw := c.Params(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid staff ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// respondServiceError maps a service-layer error to its HTTP status and writes
// the standard error envelope.
func respondServiceError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.HTTPStatus(err), err)
}
