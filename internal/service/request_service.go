// Package service contains the business logic for recurring WFH request
// reconciliation: every mutating operation reads the parent and child state,
// computes the transition, and commits both stores plus the activity log in
// one database transaction.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"telework/internal/cache"
	"telework/internal/middleware"
	"telework/internal/models"
	"telework/internal/observability"
	"telework/internal/recurrence"
	"telework/internal/repository"

	"gorm.io/gorm"
)

// Submission window: staff can backfill at most 2 months and book at most
// 3 months ahead.
const (
	submitWindowMonthsBack    = 2
	submitWindowMonthsForward = 3
)

// RecurringRequestService is the reconciliation engine for recurring WFH
// requests. It keeps the parent's denormalized date array and the per-date
// child records consistent under every transition.
type RecurringRequestService struct {
	db        *gorm.DB
	requests  repository.RecurringRequestRepository
	records   repository.WfhRecordRepository
	activity  repository.ActivityLogRepository
	directory repository.EmployeeDirectory
	schedules *cache.ScheduleCache
	now       func() time.Time
}

// NewRecurringRequestService returns a new RecurringRequestService.
// schedules may be nil when no cache is configured.
func NewRecurringRequestService(
	db *gorm.DB,
	requests repository.RecurringRequestRepository,
	records repository.WfhRecordRepository,
	activity repository.ActivityLogRepository,
	directory repository.EmployeeDirectory,
	schedules *cache.ScheduleCache,
) *RecurringRequestService {
	return &RecurringRequestService{
		db:        db,
		requests:  requests,
		records:   records,
		activity:  activity,
		directory: directory,
		schedules: schedules,
		now:       time.Now,
	}
}

// SubmitRecurringInput carries the fields of a new recurring request.
type SubmitRecurringInput struct {
	StaffID   uint            `json:"staff_id"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	DayOfWeek int             `json:"day_of_week"`
	Timeslot  models.Timeslot `json:"timeslot"`
	Reason    string          `json:"request_reason"`
}

// Submit validates and creates a recurring request with one child record per
// expanded date. Either the parent and every child are created together, or
// nothing is.
func (s *RecurringRequestService) Submit(ctx context.Context, in SubmitRecurringInput) (*models.RecurringRequest, error) {
	ctx, span := observability.TraceServiceMethod(ctx, "RecurringRequestService", "Submit")
	defer span.End()

	if err := s.validateSubmission(&in); err != nil {
		s.countOp("submit", "invalid")
		return nil, err
	}

	dates, err := recurrence.Expand(in.StartDate, in.EndDate, in.DayOfWeek)
	if err != nil {
		s.countOp("submit", "invalid")
		return nil, models.NewValidationError(err.Error())
	}
	if len(dates) == 0 {
		s.countOp("submit", "conflict")
		return nil, models.NewConflictError("No dates between the start and end date fall on the requested day of week")
	}

	overlaps, err := s.FindOverlaps(ctx, in.StaffID, dates)
	if err != nil {
		s.countOp("submit", "error")
		return nil, err
	}
	if len(overlaps) > 0 {
		s.countOp("submit", "conflict")
		return nil, models.NewConflictError(
			"Requested dates overlap existing WFH commitments: " + strings.Join(overlaps, ", "))
	}

	request := &models.RecurringRequest{
		StaffID:       in.StaffID,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		DayOfWeek:     in.DayOfWeek,
		Timeslot:      in.Timeslot,
		RequestReason: in.Reason,
		Status:        models.StatusPending,
		WfhDates:      models.DateList(dates),
	}

	err = s.inTx(ctx, func(requests repository.RecurringRequestRepository, records repository.WfhRecordRepository, activity repository.ActivityLogRepository) error {
		if err := requests.Create(ctx, request); err != nil {
			return err
		}

		children := make([]models.WfhRecord, 0, len(dates))
		for _, date := range dates {
			children = append(children, models.WfhRecord{
				StaffID:       in.StaffID,
				WfhDate:       date,
				Recurring:     true,
				Timeslot:      in.Timeslot,
				Status:        models.StatusPending,
				RequestReason: in.Reason,
				RequestID:     request.RequestID,
			})
		}
		if err := records.CreateBatch(ctx, children); err != nil {
			return err
		}

		return activity.Append(ctx, &models.ActivityLog{
			RequestID: &request.RequestID,
			Activity:  "New Recurring Request",
		})
	})
	if err != nil {
		s.countOp("submit", "error")
		return nil, err
	}

	s.countOp("submit", "ok")
	s.invalidateSchedules(ctx, in.StaffID)
	return s.requests.GetWithRecords(ctx, request.RequestID)
}

// FindOverlaps returns the candidate dates that collide with the staff
// member's existing active WFH commitments. Read-only; comparison is done on
// normalized calendar dates.
func (s *RecurringRequestService) FindOverlaps(ctx context.Context, staffID uint, candidateDates []string) ([]string, error) {
	existing, err := s.records.ListActiveDates(ctx, staffID)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]struct{}, len(existing))
	for _, raw := range existing {
		date, err := models.NormalizeDate(raw)
		if err != nil {
			// A malformed stored date can never collide with a normalized candidate.
			continue
		}
		taken[date] = struct{}{}
	}

	var overlaps []string
	for _, candidate := range candidateDates {
		if _, clash := taken[candidate]; clash {
			overlaps = append(overlaps, candidate)
		}
	}
	return overlaps, nil
}

// Approve approves the whole request: the parent and every child record.
func (s *RecurringRequestService) Approve(ctx context.Context, requestID string) (*models.RecurringRequest, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		s.countOp("approve", "error")
		return nil, err
	}

	switch request.Status {
	case models.StatusPending, models.StatusPendingChange:
	default:
		s.countOp("approve", "illegal")
		return nil, models.NewIllegalTransitionError("approve", request.Status)
	}

	err = s.inTx(ctx, func(requests repository.RecurringRequestRepository, records repository.WfhRecordRepository, _ repository.ActivityLogRepository) error {
		if err := requests.UpdateStatus(ctx, requestID, models.StatusApproved, ""); err != nil {
			return err
		}
		return records.UpdateStatusByRequest(ctx, requestID, models.StatusApproved, "")
	})
	if err != nil {
		s.countOp("approve", "error")
		return nil, err
	}

	s.countOp("approve", "ok")
	s.invalidateSchedules(ctx, request.StaffID)
	return s.requests.GetWithRecords(ctx, requestID)
}

// Reject rejects the whole request with the given reason. Every child is
// rejected with the same reason and one activity entry is written per child.
func (s *RecurringRequestService) Reject(ctx context.Context, requestID, reason string) (*models.RecurringRequest, []models.ActivityLog, error) {
	if strings.TrimSpace(reason) == "" {
		s.countOp("reject", "invalid")
		return nil, nil, models.NewValidationError("Reject reason is required")
	}

	request, err := s.requests.GetWithRecords(ctx, requestID)
	if err != nil {
		s.countOp("reject", "error")
		return nil, nil, err
	}

	switch request.Status {
	case models.StatusPending, models.StatusPendingChange, models.StatusPendingWithdrawal:
	default:
		s.countOp("reject", "illegal")
		return nil, nil, models.NewIllegalTransitionError("reject", request.Status)
	}

	err = s.inTx(ctx, func(requests repository.RecurringRequestRepository, records repository.WfhRecordRepository, activity repository.ActivityLogRepository) error {
		if err := requests.UpdateStatus(ctx, requestID, models.StatusRejected, reason); err != nil {
			return err
		}
		if err := records.UpdateStatusByRequest(ctx, requestID, models.StatusRejected, reason); err != nil {
			return err
		}
		for i := range request.Records {
			record := &request.Records[i]
			entry := &models.ActivityLog{
				RequestID: &request.RequestID,
				RecordID:  &record.RecordID,
				Activity:  "Rejected recurring request: " + reason,
			}
			if err := activity.Append(ctx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.countOp("reject", "error")
		return nil, nil, err
	}

	s.countOp("reject", "ok")
	s.invalidateSchedules(ctx, request.StaffID)

	updated, err := s.requests.GetWithRecords(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	logs, err := s.activity.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	return updated, logs, nil
}

// ApproveWithdrawal completes a staff-initiated withdrawal: both the parent
// and every child move to Withdrawn.
func (s *RecurringRequestService) ApproveWithdrawal(ctx context.Context, requestID string) (*models.RecurringRequest, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		s.countOp("approve_withdrawal", "error")
		return nil, err
	}

	if request.Status != models.StatusPendingWithdrawal {
		s.countOp("approve_withdrawal", "illegal")
		return nil, models.NewIllegalTransitionError("approve withdrawal of", request.Status)
	}

	err = s.inTx(ctx, func(requests repository.RecurringRequestRepository, records repository.WfhRecordRepository, _ repository.ActivityLogRepository) error {
		if err := requests.UpdateStatus(ctx, requestID, models.StatusWithdrawn, ""); err != nil {
			return err
		}
		return records.UpdateStatusByRequest(ctx, requestID, models.StatusWithdrawn, "")
	})
	if err != nil {
		s.countOp("approve_withdrawal", "error")
		return nil, err
	}

	s.countOp("approve_withdrawal", "ok")
	s.invalidateSchedules(ctx, request.StaffID)
	return s.requests.GetWithRecords(ctx, requestID)
}

// WithdrawDate is the staff-initiated withdrawal of a single occurrence.
// While the parent is still Pending the date is simply trimmed from the
// array; once Approved, both the parent and the targeted child move to
// PendingWithdrawal and await the manager.
func (s *RecurringRequestService) WithdrawDate(ctx context.Context, requestID, date, reason string) (string, error) {
	return s.withdrawOccurrence(ctx, "withdraw_date", requestID, date, reason, false)
}

// WithdrawRecurring is the date-targeted variant used when staff withdraw an
// occurrence of an entire recurring arrangement. Behaviour matches
// WithdrawDate; the activity entry is a structured JSON document capturing
// the actor, action, reason and date.
func (s *RecurringRequestService) WithdrawRecurring(ctx context.Context, requestID, date, reason string) (string, error) {
	return s.withdrawOccurrence(ctx, "withdraw_recurring", requestID, date, reason, true)
}

func (s *RecurringRequestService) withdrawOccurrence(ctx context.Context, op, requestID, rawDate, reason string, structured bool) (string, error) {
	date, err := models.NormalizeDate(rawDate)
	if err != nil {
		s.countOp(op, "invalid")
		return "", models.NewValidationError(err.Error())
	}

	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		s.countOp(op, "error")
		return "", err
	}
	if !request.WfhDates.Contains(date) {
		s.countOp(op, "not_found")
		return "", models.NewNotFoundError("Active WFH date", date)
	}

	logEntry := func(activity string) *models.ActivityLog {
		return &models.ActivityLog{RequestID: &request.RequestID, Activity: activity}
	}

	var message string
	switch request.Status {
	case models.StatusPending:
		// Nothing was approved yet; trimming the array is the whole withdrawal.
		updated := request.WfhDates.Subtract([]string{date})
		err = s.inTx(ctx, func(requests repository.RecurringRequestRepository, _ repository.WfhRecordRepository, activity repository.ActivityLogRepository) error {
			if err := requests.UpdateDates(ctx, requestID, updated); err != nil {
				return err
			}
			text := "Withdrawn - " + reason
			if structured {
				text = s.structuredWithdrawal(request.StaffID, "withdrawn", reason, date)
			}
			return activity.Append(ctx, logEntry(text))
		})
		message = "Date withdrawn from pending request"

	case models.StatusApproved:
		var child *models.WfhRecord
		child, err = s.records.GetByRequestAndDate(ctx, requestID, date)
		if err != nil {
			s.countOp(op, "error")
			return "", err
		}
		err = s.inTx(ctx, func(requests repository.RecurringRequestRepository, records repository.WfhRecordRepository, activity repository.ActivityLogRepository) error {
			if err := requests.UpdateStatus(ctx, requestID, models.StatusPendingWithdrawal, ""); err != nil {
				return err
			}
			if err := records.UpdateStatusByRequestAndDates(ctx, requestID, []string{child.WfhDate}, models.StatusPendingWithdrawal, ""); err != nil {
				return err
			}
			text := "Pending Withdrawal - " + reason
			if structured {
				text = s.structuredWithdrawal(request.StaffID, "pending_withdrawal", reason, date)
			}
			entry := logEntry(text)
			entry.RecordID = &child.RecordID
			return activity.Append(ctx, entry)
		})
		message = "Withdrawal submitted for manager approval"

	default:
		s.countOp(op, "illegal")
		return "", models.NewIllegalTransitionError("withdraw a date from", request.Status)
	}

	if err != nil {
		s.countOp(op, "error")
		return "", err
	}
	s.countOp(op, "ok")
	s.invalidateSchedules(ctx, request.StaffID)
	return message, nil
}

// structuredWithdrawal renders the JSON activity payload for the
// date-targeted withdrawal variant.
func (s *RecurringRequestService) structuredWithdrawal(staffID uint, action, reason, date string) string {
	payload, err := json.Marshal(map[string]interface{}{
		"staff_id": staffID,
		"action":   action,
		"reason":   reason,
		"date":     date,
	})
	if err != nil {
		return fmt.Sprintf("%s - %s (%s)", action, reason, date)
	}
	return string(payload)
}

// AcceptChange approves the changed date. The parent is marked Approved at
// the request level regardless of other children's individual statuses; this
// mirrors long-standing observed behaviour and is deliberately not "fixed"
// here (see DESIGN.md).
func (s *RecurringRequestService) AcceptChange(ctx context.Context, requestID, rawDate string) (string, error) {
	date, err := models.NormalizeDate(rawDate)
	if err != nil {
		s.countOp("accept_change", "invalid")
		return "", models.NewValidationError(err.Error())
	}

	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		s.countOp("accept_change", "error")
		return "", err
	}

	child, err := s.records.GetByRequestAndDate(ctx, requestID, date)
	if err != nil {
		s.countOp("accept_change", "not_found")
		return "", err
	}
	if child.Status.Terminal() {
		s.countOp("accept_change", "illegal")
		return "", models.NewIllegalTransitionError("accept a change for", child.Status)
	}

	err = s.inTx(ctx, func(requests repository.RecurringRequestRepository, records repository.WfhRecordRepository, activity repository.ActivityLogRepository) error {
		if err := records.UpdateStatusByRequestAndDates(ctx, requestID, []string{date}, models.StatusApproved, ""); err != nil {
			return err
		}
		if err := requests.UpdateStatus(ctx, requestID, models.StatusApproved, ""); err != nil {
			return err
		}
		entry := &models.ActivityLog{
			RequestID: &request.RequestID,
			RecordID:  &child.RecordID,
			Activity:  "Accepted Change",
		}
		return activity.Append(ctx, entry)
	})
	if err != nil {
		s.countOp("accept_change", "error")
		return "", err
	}

	s.countOp("accept_change", "ok")
	s.invalidateSchedules(ctx, request.StaffID)
	return "Change accepted", nil
}

// RejectChange rejects one or more changed dates: the matching children are
// rejected with the reason and each date is removed from the parent's array.
func (s *RecurringRequestService) RejectChange(ctx context.Context, requestID string, rawDates []string, reason string) (string, error) {
	if len(rawDates) == 0 {
		s.countOp("reject_change", "invalid")
		return "", models.NewValidationError("At least one change date is required")
	}
	if strings.TrimSpace(reason) == "" {
		s.countOp("reject_change", "invalid")
		return "", models.NewValidationError("Reject reason is required")
	}

	dates := make([]string, 0, len(rawDates))
	for _, raw := range rawDates {
		date, err := models.NormalizeDate(raw)
		if err != nil {
			s.countOp("reject_change", "invalid")
			return "", models.NewValidationError(err.Error())
		}
		dates = append(dates, date)
	}

	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		s.countOp("reject_change", "error")
		return "", err
	}

	children := make([]*models.WfhRecord, 0, len(dates))
	for _, date := range dates {
		child, err := s.records.GetByRequestAndDate(ctx, requestID, date)
		if err != nil {
			s.countOp("reject_change", "not_found")
			return "", err
		}
		if child.Status.Terminal() {
			s.countOp("reject_change", "illegal")
			return "", models.NewIllegalTransitionError("reject a change for", child.Status)
		}
		children = append(children, child)
	}

	updated := request.WfhDates.Subtract(dates)
	err = s.inTx(ctx, func(requests repository.RecurringRequestRepository, records repository.WfhRecordRepository, activity repository.ActivityLogRepository) error {
		if err := records.UpdateStatusByRequestAndDates(ctx, requestID, dates, models.StatusRejected, reason); err != nil {
			return err
		}
		if err := requests.UpdateDates(ctx, requestID, updated); err != nil {
			return err
		}
		for _, child := range children {
			entry := &models.ActivityLog{
				RequestID: &request.RequestID,
				RecordID:  &child.RecordID,
				Activity:  "Rejected Change - " + reason,
			}
			if err := activity.Append(ctx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.countOp("reject_change", "error")
		return "", err
	}

	s.countOp("reject_change", "ok")
	s.invalidateSchedules(ctx, request.StaffID)
	return "Change rejected", nil
}

// Modify removes dates from the request: a pure set-difference on the
// parent's array, with the matching child rows deleted outright.
func (s *RecurringRequestService) Modify(ctx context.Context, requestID string, rawDates []string) (models.DateList, error) {
	if len(rawDates) == 0 {
		s.countOp("modify", "invalid")
		return nil, models.NewValidationError("At least one date to remove is required")
	}

	dates := make([]string, 0, len(rawDates))
	for _, raw := range rawDates {
		date, err := models.NormalizeDate(raw)
		if err != nil {
			s.countOp("modify", "invalid")
			return nil, models.NewValidationError(err.Error())
		}
		dates = append(dates, date)
	}

	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		s.countOp("modify", "error")
		return nil, err
	}
	if request.Status.Terminal() {
		s.countOp("modify", "illegal")
		return nil, models.NewIllegalTransitionError("modify", request.Status)
	}

	updated := request.WfhDates.Subtract(dates)
	err = s.inTx(ctx, func(requests repository.RecurringRequestRepository, records repository.WfhRecordRepository, activity repository.ActivityLogRepository) error {
		if err := requests.UpdateDates(ctx, requestID, updated); err != nil {
			return err
		}
		// Delete per date so the audit trail records exactly the children removed.
		for _, date := range dates {
			deleted, err := records.DeleteByRequestAndDates(ctx, requestID, []string{date})
			if err != nil {
				return err
			}
			if deleted == 0 {
				continue
			}
			entry := &models.ActivityLog{
				RequestID: &request.RequestID,
				Activity:  "Removed WFH date: " + date,
			}
			if err := activity.Append(ctx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.countOp("modify", "error")
		return nil, err
	}

	s.countOp("modify", "ok")
	s.invalidateSchedules(ctx, request.StaffID)
	return updated, nil
}

// ListByStaffIDs returns the recurring requests of the given staff members
// joined with their child records.
func (s *RecurringRequestService) ListByStaffIDs(ctx context.Context, staffIDs []uint) ([]models.RecurringRequest, error) {
	return s.requests.ListByStaffIDs(ctx, staffIDs)
}

// ListTeamRequests returns the recurring requests of everyone reporting to
// the given manager.
func (s *RecurringRequestService) ListTeamRequests(ctx context.Context, managerID uint) ([]models.RecurringRequest, error) {
	staffIDs, err := s.directory.ListSubordinates(ctx, managerID)
	if err != nil {
		return nil, err
	}
	return s.requests.ListByStaffIDs(ctx, staffIDs)
}

// ActivityTrail returns the audit entries for a request, oldest first.
func (s *RecurringRequestService) ActivityTrail(ctx context.Context, requestID string) ([]models.ActivityLog, error) {
	if _, err := s.requests.GetByID(ctx, requestID); err != nil {
		return nil, err
	}
	return s.activity.ListByRequest(ctx, requestID)
}

// validateSubmission enforces field presence, the day-of-week and timeslot
// domains, and the intake window.
func (s *RecurringRequestService) validateSubmission(in *SubmitRecurringInput) error {
	if in.StaffID == 0 {
		return models.NewValidationError("Staff ID is required")
	}
	if strings.TrimSpace(in.Reason) == "" {
		return models.NewValidationError("Request reason is required")
	}
	if in.StartDate == "" || in.EndDate == "" {
		return models.NewValidationError("Start date and end date are required")
	}

	start, err := models.NormalizeDate(in.StartDate)
	if err != nil {
		return models.NewValidationError(err.Error())
	}
	end, err := models.NormalizeDate(in.EndDate)
	if err != nil {
		return models.NewValidationError(err.Error())
	}
	in.StartDate = start
	in.EndDate = end

	if in.DayOfWeek < recurrence.MinDayOfWeek || in.DayOfWeek > recurrence.MaxDayOfWeek {
		return models.NewValidationError("Day of week must be between 1 and 5")
	}
	if !in.Timeslot.Valid() {
		return models.NewValidationError("Timeslot must be one of AM, PM or FD")
	}

	today := s.now().Format(models.DateFormat)
	todayDate, _ := time.Parse(models.DateFormat, today)
	earliest := todayDate.AddDate(0, -submitWindowMonthsBack, 0).Format(models.DateFormat)
	latest := todayDate.AddDate(0, submitWindowMonthsForward, 0).Format(models.DateFormat)

	if start < earliest {
		return models.NewValidationError("Start date cannot be more than 2 months in the past")
	}
	if end > latest {
		return models.NewValidationError("End date cannot be more than 3 months in the future")
	}
	return nil
}

// inTx runs fn with all three repositories bound to one transaction. Any
// error rolls the whole operation back; a non-application error is wrapped
// as a persistence failure.
func (s *RecurringRequestService) inTx(ctx context.Context, fn func(repository.RecurringRequestRepository, repository.WfhRecordRepository, repository.ActivityLogRepository) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(s.requests.WithTx(tx), s.records.WithTx(tx), s.activity.WithTx(tx))
	})
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return models.NewPersistenceError(err)
}

func (s *RecurringRequestService) invalidateSchedules(ctx context.Context, staffID uint) {
	if s.schedules == nil {
		return
	}
	s.schedules.InvalidateStaff(ctx, staffID)
	if s.directory != nil {
		if employee, err := s.directory.GetByID(ctx, staffID); err == nil {
			s.schedules.InvalidateDepartment(ctx, employee.Department)
		}
	}
}

func (s *RecurringRequestService) countOp(operation, outcome string) {
	middleware.ReconciliationOps.WithLabelValues(operation, outcome).Inc()
}
