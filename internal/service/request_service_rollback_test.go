package service

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"telework/internal/models"
	"telework/internal/repository"
)

// Approving a request updates the parent and every child in one transaction.
// When the child update fails after the parent update succeeded, the whole
// transition must roll back.
func TestApprove_RollsBackOnChildUpdateFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	svc := NewRecurringRequestService(
		db,
		repository.NewRecurringRequestRepository(db),
		repository.NewWfhRecordRepository(db),
		repository.NewActivityLogRepository(db),
		repository.NewEmployeeDirectory(db),
		nil,
	)

	requestID := "0d9f7c1e-4f42-4a4e-9d35-1f6b4a6f0a11"

	rows := sqlmock.NewRows([]string{"request_id", "staff_id", "status", "wfh_dates"}).
		AddRow(requestID, 140001, "Pending", "{2024-11-05,2024-11-12}")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "recurring_request" WHERE request_id = $1 ORDER BY "recurring_request"."request_id" LIMIT $2`)).
		WithArgs(requestID, 1).
		WillReturnRows(rows)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "recurring_request" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "wfh_records" SET`).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err = svc.Approve(context.Background(), requestID)
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "PERSISTENCE_ERROR", appErr.Code)

	// Rollback, never commit.
	assert.NoError(t, mock.ExpectationsWereMet())
}
