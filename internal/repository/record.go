package repository

import (
	"context"
	"errors"

	"telework/internal/models"

	"gorm.io/gorm"
)

// WfhRecordRepository defines the interface for per-date record data operations
type WfhRecordRepository interface {
	CreateBatch(ctx context.Context, records []models.WfhRecord) error
	GetByRequestAndDate(ctx context.Context, requestID, date string) (*models.WfhRecord, error)
	ListByRequest(ctx context.Context, requestID string) ([]models.WfhRecord, error)
	ListActiveDates(ctx context.Context, staffID uint) ([]string, error)
	ListApprovedByStaffIDs(ctx context.Context, staffIDs []uint) ([]models.WfhRecord, error)
	UpdateStatusByRequest(ctx context.Context, requestID string, status models.WfhStatus, rejectReason string) error
	UpdateStatusByRequestAndDates(ctx context.Context, requestID string, dates []string, status models.WfhStatus, rejectReason string) error
	DeleteByRequestAndDates(ctx context.Context, requestID string, dates []string) (int64, error)
	WithTx(tx *gorm.DB) WfhRecordRepository
}

// wfhRecordRepository implements WfhRecordRepository
type wfhRecordRepository struct {
	db *gorm.DB
}

// NewWfhRecordRepository creates a new WFH record repository
func NewWfhRecordRepository(db *gorm.DB) WfhRecordRepository {
	return &wfhRecordRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *wfhRecordRepository) WithTx(tx *gorm.DB) WfhRecordRepository {
	return &wfhRecordRepository{db: tx}
}

func (r *wfhRecordRepository) CreateBatch(ctx context.Context, records []models.WfhRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&records).Error; err != nil {
		return models.NewPersistenceError(err)
	}
	return nil
}

func (r *wfhRecordRepository) GetByRequestAndDate(ctx context.Context, requestID, date string) (*models.WfhRecord, error) {
	var record models.WfhRecord
	if err := r.db.WithContext(ctx).
		Where("request_id = ? AND wfh_date = ?", requestID, date).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("WFH record", date)
		}
		return nil, models.NewPersistenceError(err)
	}
	return &record, nil
}

func (r *wfhRecordRepository) ListByRequest(ctx context.Context, requestID string) ([]models.WfhRecord, error) {
	var records []models.WfhRecord
	if err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("wfh_date ASC").
		Find(&records).Error; err != nil {
		return nil, models.NewPersistenceError(err)
	}
	return records, nil
}

// ListActiveDates returns the dates of every record for the staff member
// whose status still counts as a live commitment. Input to overlap checks.
func (r *wfhRecordRepository) ListActiveDates(ctx context.Context, staffID uint) ([]string, error) {
	var dates []string
	if err := r.db.WithContext(ctx).
		Model(&models.WfhRecord{}).
		Where("staff_id = ? AND status IN ?", staffID, models.ActiveStatuses).
		Order("wfh_date ASC").
		Pluck("wfh_date", &dates).Error; err != nil {
		return nil, models.NewPersistenceError(err)
	}
	return dates, nil
}

func (r *wfhRecordRepository) ListApprovedByStaffIDs(ctx context.Context, staffIDs []uint) ([]models.WfhRecord, error) {
	var records []models.WfhRecord
	if len(staffIDs) == 0 {
		return records, nil
	}
	if err := r.db.WithContext(ctx).
		Where("staff_id IN ? AND status = ?", staffIDs, models.StatusApproved).
		Order("wfh_date ASC").
		Find(&records).Error; err != nil {
		return nil, models.NewPersistenceError(err)
	}
	return records, nil
}

func (r *wfhRecordRepository) UpdateStatusByRequest(ctx context.Context, requestID string, status models.WfhStatus, rejectReason string) error {
	updates := map[string]interface{}{"status": status}
	if rejectReason != "" {
		updates["reject_reason"] = rejectReason
	}
	if err := r.db.WithContext(ctx).
		Model(&models.WfhRecord{}).
		Where("request_id = ?", requestID).
		Updates(updates).Error; err != nil {
		return models.NewPersistenceError(err)
	}
	return nil
}

func (r *wfhRecordRepository) UpdateStatusByRequestAndDates(ctx context.Context, requestID string, dates []string, status models.WfhStatus, rejectReason string) error {
	if len(dates) == 0 {
		return nil
	}
	updates := map[string]interface{}{"status": status}
	if rejectReason != "" {
		updates["reject_reason"] = rejectReason
	}
	if err := r.db.WithContext(ctx).
		Model(&models.WfhRecord{}).
		Where("request_id = ? AND wfh_date IN ?", requestID, dates).
		Updates(updates).Error; err != nil {
		return models.NewPersistenceError(err)
	}
	return nil
}

// DeleteByRequestAndDates removes child rows outright. Only the Modify
// operation uses this; every other path soft-cancels via status.
func (r *wfhRecordRepository) DeleteByRequestAndDates(ctx context.Context, requestID string, dates []string) (int64, error) {
	if len(dates) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("request_id = ? AND wfh_date IN ?", requestID, dates).
		Delete(&models.WfhRecord{})
	if res.Error != nil {
		return 0, models.NewPersistenceError(res.Error)
	}
	return res.RowsAffected, nil
}
