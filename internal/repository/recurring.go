// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"telework/internal/models"

	"gorm.io/gorm"
)

// RecurringRequestRepository defines the interface for parent request data operations
type RecurringRequestRepository interface {
	Create(ctx context.Context, request *models.RecurringRequest) error
	GetByID(ctx context.Context, requestID string) (*models.RecurringRequest, error)
	GetWithRecords(ctx context.Context, requestID string) (*models.RecurringRequest, error)
	ListByStaffIDs(ctx context.Context, staffIDs []uint) ([]models.RecurringRequest, error)
	UpdateStatus(ctx context.Context, requestID string, status models.WfhStatus, rejectReason string) error
	UpdateDates(ctx context.Context, requestID string, dates models.DateList) error
	WithTx(tx *gorm.DB) RecurringRequestRepository
}

// recurringRequestRepository implements RecurringRequestRepository
type recurringRequestRepository struct {
	db *gorm.DB
}

// NewRecurringRequestRepository creates a new recurring request repository
func NewRecurringRequestRepository(db *gorm.DB) RecurringRequestRepository {
	return &recurringRequestRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *recurringRequestRepository) WithTx(tx *gorm.DB) RecurringRequestRepository {
	return &recurringRequestRepository{db: tx}
}

func (r *recurringRequestRepository) Create(ctx context.Context, request *models.RecurringRequest) error {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return models.NewPersistenceError(err)
	}
	return nil
}

func (r *recurringRequestRepository) GetByID(ctx context.Context, requestID string) (*models.RecurringRequest, error) {
	var request models.RecurringRequest
	if err := r.db.WithContext(ctx).First(&request, "request_id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Recurring request", requestID)
		}
		return nil, models.NewPersistenceError(err)
	}
	return &request, nil
}

func (r *recurringRequestRepository) GetWithRecords(ctx context.Context, requestID string) (*models.RecurringRequest, error) {
	var request models.RecurringRequest
	if err := r.db.WithContext(ctx).
		Preload("Records", func(db *gorm.DB) *gorm.DB {
			return db.Order("wfh_date ASC")
		}).
		First(&request, "request_id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Recurring request", requestID)
		}
		return nil, models.NewPersistenceError(err)
	}
	return &request, nil
}

func (r *recurringRequestRepository) ListByStaffIDs(ctx context.Context, staffIDs []uint) ([]models.RecurringRequest, error) {
	var requests []models.RecurringRequest
	if len(staffIDs) == 0 {
		return requests, nil
	}
	if err := r.db.WithContext(ctx).
		Where("staff_id IN ?", staffIDs).
		Preload("Records", func(db *gorm.DB) *gorm.DB {
			return db.Order("wfh_date ASC")
		}).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, models.NewPersistenceError(err)
	}
	return requests, nil
}

func (r *recurringRequestRepository) UpdateStatus(ctx context.Context, requestID string, status models.WfhStatus, rejectReason string) error {
	updates := map[string]interface{}{"status": status}
	if rejectReason != "" {
		updates["reject_reason"] = rejectReason
	}
	res := r.db.WithContext(ctx).
		Model(&models.RecurringRequest{}).
		Where("request_id = ?", requestID).
		Updates(updates)
	if res.Error != nil {
		return models.NewPersistenceError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Recurring request", requestID)
	}
	return nil
}

func (r *recurringRequestRepository) UpdateDates(ctx context.Context, requestID string, dates models.DateList) error {
	res := r.db.WithContext(ctx).
		Model(&models.RecurringRequest{}).
		Where("request_id = ?", requestID).
		Update("wfh_dates", dates)
	if res.Error != nil {
		return models.NewPersistenceError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Recurring request", requestID)
	}
	return nil
}
