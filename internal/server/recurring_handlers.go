package server

import (
	"github.com/gofiber/fiber/v2"

	"telework/internal/models"
	"telework/internal/service"
)

type rejectRequestBody struct {
	Reason string `json:"reason"`
}

type withdrawDateBody struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

type acceptChangeBody struct {
	Date string `json:"date"`
}

type rejectChangeBody struct {
	Dates  []string `json:"dates"`
	Reason string   `json:"reason"`
}

type modifyDatesBody struct {
	Dates []string `json:"dates"`
}

type queryRequestsBody struct {
	StaffIDs []uint `json:"staff_ids"`
}

// SubmitRecurring handles POST /api/requests.
// The staff ID always comes from the token, never the body, so staff can only
// file requests for themselves.
func (s *Server) SubmitRecurring(c *fiber.Ctx) error {
	var in service.SubmitRecurringInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	in.StaffID = staffIDFromLocals(c)

	request, err := s.requestService.Submit(c.UserContext(), in)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(request)
}

// GetRequest handles GET /api/requests/:id, returning the parent together
// with its per-date records.
func (s *Server) GetRequest(c *fiber.Ctx) error {
	requestID, err := s.parseRequestID(c)
	if err != nil {
		return nil
	}

	request, err := s.requestRepo.GetWithRecords(c.UserContext(), requestID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(request)
}

// GetMyRequests handles GET /api/requests/me.
func (s *Server) GetMyRequests(c *fiber.Ctx) error {
	staffID := staffIDFromLocals(c)

	requests, err := s.requestService.ListByStaffIDs(c.UserContext(), []uint{staffID})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(requests)
}

// QueryRequests handles POST /api/requests/query, fetching requests for an
// explicit list of staff IDs.
func (s *Server) QueryRequests(c *fiber.Ctx) error {
	var body queryRequestsBody
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if len(body.StaffIDs) == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("staff_ids is required"))
	}

	requests, err := s.requestService.ListByStaffIDs(c.UserContext(), body.StaffIDs)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(requests)
}

// GetTeamRequests handles GET /api/team/requests, returning requests filed by
// the manager's direct reports.
func (s *Server) GetTeamRequests(c *fiber.Ctx) error {
	managerID := staffIDFromLocals(c)

	requests, err := s.requestService.ListTeamRequests(c.UserContext(), managerID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(requests)
}

// ApproveRequest handles POST /api/requests/:id/approve.
func (s *Server) ApproveRequest(c *fiber.Ctx) error {
	requestID, err := s.parseRequestID(c)
	if err != nil {
		return nil
	}

	request, err := s.requestService.Approve(c.UserContext(), requestID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(request)
}

// RejectRequest handles POST /api/requests/:id/reject.
func (s *Server) RejectRequest(c *fiber.Ctx) error {
	requestID, err := s.parseRequestID(c)
	if err != nil {
		return nil
	}

	var body rejectRequestBody
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	request, trail, err := s.requestService.Reject(c.UserContext(), requestID, body.Reason)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"request":  request,
		"activity": trail,
	})
}

// ApproveWithdrawal handles POST /api/requests/:id/approve-withdrawal,
// finalizing a withdrawal that was pending manager sign-off.
func (s *Server) ApproveWithdrawal(c *fiber.Ctx) error {
	requestID, err := s.parseRequestID(c)
	if err != nil {
		return nil
	}

	request, err := s.requestService.ApproveWithdrawal(c.UserContext(), requestID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(request)
}

// WithdrawDate handles POST /api/requests/:id/withdraw. Staff withdraw one of
// their own dates; the outcome depends on whether the date is still pending or
// already approved.
func (s *Server) WithdrawDate(c *fiber.Ctx) error {
	requestID, err := s.parseRequestID(c)
	if err != nil {
		return nil
	}

	var body withdrawDateBody
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	message, err := s.requestService.WithdrawDate(c.UserContext(), requestID, body.Date, body.Reason)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": message})
}

// WithdrawRecurring handles POST /api/requests/:id/withdraw-recurring, the
// manager-initiated variant that records a structured audit entry.
func (s *Server) WithdrawRecurring(c *fiber.Ctx) error {
	requestID, err := s.parseRequestID(c)
	if err != nil {
		return nil
	}

	var body withdrawDateBody
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	message, err := s.requestService.WithdrawRecurring(c.UserContext(), requestID, body.Date, body.Reason)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": message})
}

// AcceptChange handles POST /api/requests/:id/accept-change.
func (s *Server) AcceptChange(c *fiber.Ctx) error {
	requestID, err := s.parseRequestID(c)
	if err != nil {
		return nil
	}

	var body acceptChangeBody
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	message, err := s.requestService.AcceptChange(c.UserContext(), requestID, body.Date)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": message})
}

// RejectChange handles POST /api/requests/:id/reject-change.
func (s *Server) RejectChange(c *fiber.Ctx) error {
	requestID, err := s.parseRequestID(c)
	if err != nil {
		return nil
	}

	var body rejectChangeBody
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	message, err := s.requestService.RejectChange(c.UserContext(), requestID, body.Dates, body.Reason)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": message})
}

// ModifyDates handles PUT /api/requests/:id/dates, replacing the request's
// date set. Removed dates have their records deleted outright.
func (s *Server) ModifyDates(c *fiber.Ctx) error {
	requestID, err := s.parseRequestID(c)
	if err != nil {
		return nil
	}

	var body modifyDatesBody
	if err := c.BodyParser(&body); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	dates, err := s.requestService.Modify(c.UserContext(), requestID, body.Dates)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"wfh_dates": dates})
}

// GetActivityTrail handles GET /api/requests/:id/activity.
func (s *Server) GetActivityTrail(c *fiber.Ctx) error {
	requestID, err := s.parseRequestID(c)
	if err != nil {
		return nil
	}

	trail, err := s.requestService.ActivityTrail(c.UserContext(), requestID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(trail)
}
