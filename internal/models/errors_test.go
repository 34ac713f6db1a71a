package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError("bad input"), fiber.StatusBadRequest},
		{"not found", NewNotFoundError("Request", "abc"), fiber.StatusNotFound},
		{"conflict", NewConflictError("overlap"), fiber.StatusConflict},
		{"illegal transition", NewIllegalTransitionError("approve", StatusRejected), fiber.StatusConflict},
		{"unauthorized", NewUnauthorizedError("nope"), fiber.StatusForbidden},
		{"persistence", NewPersistenceError(errors.New("db down")), fiber.StatusInternalServerError},
		{"plain error", errors.New("boom"), fiber.StatusInternalServerError},
		{"wrapped app error", fmt.Errorf("outer: %w", NewNotFoundError("Request", "x")), fiber.StatusNotFound},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, HTTPStatus(tc.err))
		})
	}
}

func TestIllegalTransitionError_Message(t *testing.T) {
	t.Parallel()

	err := NewIllegalTransitionError("approve", StatusWithdrawn)
	assert.Equal(t, "cannot approve a request in status Withdrawn", err.Error())
}

func TestPersistenceError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := NewPersistenceError(cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "Storage operation failed")
}
