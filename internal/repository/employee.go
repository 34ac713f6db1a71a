package repository

import (
	"context"
	"errors"

	"telework/internal/models"

	"gorm.io/gorm"
)

// EmployeeDirectory exposes read-only lookups against the employee
// directory: identity, reporting line and department membership.
type EmployeeDirectory interface {
	GetByID(ctx context.Context, staffID uint) (*models.Employee, error)
	GetReportingManager(ctx context.Context, staffID uint) (uint, error)
	ListSubordinates(ctx context.Context, managerID uint) ([]uint, error)
	ListByDepartment(ctx context.Context, department string) ([]models.Employee, error)
}

// employeeDirectory implements EmployeeDirectory
type employeeDirectory struct {
	db *gorm.DB
}

// NewEmployeeDirectory creates a new employee directory backed by the given database.
func NewEmployeeDirectory(db *gorm.DB) EmployeeDirectory {
	return &employeeDirectory{db: db}
}

func (r *employeeDirectory) GetByID(ctx context.Context, staffID uint) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).First(&employee, "staff_id = ?", staffID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Employee", staffID)
		}
		return nil, models.NewPersistenceError(err)
	}
	return &employee, nil
}

func (r *employeeDirectory) GetReportingManager(ctx context.Context, staffID uint) (uint, error) {
	employee, err := r.GetByID(ctx, staffID)
	if err != nil {
		return 0, err
	}
	return employee.ReportingManager, nil
}

func (r *employeeDirectory) ListSubordinates(ctx context.Context, managerID uint) ([]uint, error) {
	var staffIDs []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where("reporting_manager = ?", managerID).
		Order("staff_id ASC").
		Pluck("staff_id", &staffIDs).Error; err != nil {
		return nil, models.NewPersistenceError(err)
	}
	return staffIDs, nil
}

func (r *employeeDirectory) ListByDepartment(ctx context.Context, department string) ([]models.Employee, error) {
	var employees []models.Employee
	if err := r.db.WithContext(ctx).
		Where("department = ?", department).
		Order("staff_id ASC").
		Find(&employees).Error; err != nil {
		return nil, models.NewPersistenceError(err)
	}
	return employees, nil
}
