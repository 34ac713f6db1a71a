package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"telework/internal/models"
)

// GetMySchedule handles GET /api/schedules/me, listing the caller's approved
// WFH dates.
func (s *Server) GetMySchedule(c *fiber.Ctx) error {
	staffID := staffIDFromLocals(c)

	entries, err := s.scheduleService.StaffSchedule(c.UserContext(), staffID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(entries)
}

// GetStaffSchedule handles GET /api/schedules/staff/:staffId.
func (s *Server) GetStaffSchedule(c *fiber.Ctx) error {
	staffID, err := s.parseStaffIDParam(c, "staffId")
	if err != nil {
		return nil
	}

	entries, err := s.scheduleService.StaffSchedule(c.UserContext(), staffID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(entries)
}

// GetDepartmentSchedule handles GET /api/schedules/department/:department.
// Results are cached in Redis with a short TTL since the whole department
// polls this view.
func (s *Server) GetDepartmentSchedule(c *fiber.Ctx) error {
	department := strings.TrimSpace(c.Params("department"))
	if department == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Department is required"))
	}

	entries, err := s.scheduleService.DepartmentSchedule(c.UserContext(), department)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(entries)
}
