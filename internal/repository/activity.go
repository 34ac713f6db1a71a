package repository

import (
	"context"

	"telework/internal/models"

	"gorm.io/gorm"
)

// ActivityLogRepository appends and reads immutable activity log entries.
// Append is the only mutation exposed; entries are never updated or deleted.
type ActivityLogRepository interface {
	Append(ctx context.Context, entry *models.ActivityLog) error
	ListByRequest(ctx context.Context, requestID string) ([]models.ActivityLog, error)
	WithTx(tx *gorm.DB) ActivityLogRepository
}

// activityLogRepository implements ActivityLogRepository
type activityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository creates a new activity log repository
func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *activityLogRepository) WithTx(tx *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db: tx}
}

func (r *activityLogRepository) Append(ctx context.Context, entry *models.ActivityLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return models.NewPersistenceError(err)
	}
	return nil
}

func (r *activityLogRepository) ListByRequest(ctx context.Context, requestID string) ([]models.ActivityLog, error) {
	var entries []models.ActivityLog
	if err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("timestamp ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, models.NewPersistenceError(err)
	}
	return entries, nil
}
