package service

import (
	"context"

	"telework/internal/cache"
	"telework/internal/models"
	"telework/internal/observability"
	"telework/internal/repository"
)

// ScheduleEntry is one approved WFH slot in a schedule view.
type ScheduleEntry struct {
	StaffID  uint            `json:"staff_id"`
	Name     string          `json:"name"`
	WfhDate  string          `json:"wfh_date"`
	Timeslot models.Timeslot `json:"timeslot"`
}

// ScheduleService builds aggregate WFH schedules for HR and managers.
// Department schedules are cached; the reconciliation engine invalidates the
// cache on every mutation.
type ScheduleService struct {
	records   repository.WfhRecordRepository
	directory repository.EmployeeDirectory
	schedules *cache.ScheduleCache
}

// NewScheduleService returns a new ScheduleService. schedules may be nil.
func NewScheduleService(records repository.WfhRecordRepository, directory repository.EmployeeDirectory, schedules *cache.ScheduleCache) *ScheduleService {
	return &ScheduleService{
		records:   records,
		directory: directory,
		schedules: schedules,
	}
}

// DepartmentSchedule returns the approved WFH entries for every employee in
// the department, ordered by date.
func (s *ScheduleService) DepartmentSchedule(ctx context.Context, department string) ([]ScheduleEntry, error) {
	ctx, span := observability.TraceServiceMethod(ctx, "ScheduleService", "DepartmentSchedule")
	defer span.End()

	if s.schedules != nil {
		var cached []ScheduleEntry
		if ok := s.schedules.GetDepartment(ctx, department, &cached); ok {
			return cached, nil
		}
	}

	employees, err := s.directory.ListByDepartment(ctx, department)
	if err != nil {
		return nil, err
	}

	names := make(map[uint]string, len(employees))
	staffIDs := make([]uint, 0, len(employees))
	for _, employee := range employees {
		names[employee.StaffID] = employee.Name
		staffIDs = append(staffIDs, employee.StaffID)
	}

	records, err := s.records.ListApprovedByStaffIDs(ctx, staffIDs)
	if err != nil {
		return nil, err
	}

	entries := make([]ScheduleEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, ScheduleEntry{
			StaffID:  record.StaffID,
			Name:     names[record.StaffID],
			WfhDate:  record.WfhDate,
			Timeslot: record.Timeslot,
		})
	}

	if s.schedules != nil {
		s.schedules.SetDepartment(ctx, department, entries)
	}
	return entries, nil
}

// StaffSchedule returns the approved WFH entries for one staff member.
func (s *ScheduleService) StaffSchedule(ctx context.Context, staffID uint) ([]ScheduleEntry, error) {
	employee, err := s.directory.GetByID(ctx, staffID)
	if err != nil {
		return nil, err
	}

	records, err := s.records.ListApprovedByStaffIDs(ctx, []uint{staffID})
	if err != nil {
		return nil, err
	}

	entries := make([]ScheduleEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, ScheduleEntry{
			StaffID:  record.StaffID,
			Name:     employee.Name,
			WfhDate:  record.WfhDate,
			Timeslot: record.Timeslot,
		})
	}
	return entries, nil
}
