package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"telework/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestRecurringRequestRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRecurringRequestRepository(db)
	ctx := context.Background()

	requestID := "0d9f7c1e-4f42-4a4e-9d35-1f6b4a6f0a11"

	t.Run("success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"request_id", "staff_id", "status", "wfh_dates"}).
			AddRow(requestID, 140001, "Pending", "{2024-11-05,2024-11-12}")
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "recurring_request" WHERE request_id = $1 ORDER BY "recurring_request"."request_id" LIMIT $2`)).
			WithArgs(requestID, 1).
			WillReturnRows(rows)

		request, err := repo.GetByID(ctx, requestID)
		require.NoError(t, err)
		assert.Equal(t, uint(140001), request.StaffID)
		assert.Equal(t, models.StatusPending, request.Status)
		assert.Equal(t, models.DateList{"2024-11-05", "2024-11-12"}, request.WfhDates)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found maps to app error", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "recurring_request" WHERE request_id = $1 ORDER BY "recurring_request"."request_id" LIMIT $2`)).
			WithArgs(requestID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.GetByID(ctx, requestID)
		require.Error(t, err)
		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "NOT_FOUND", appErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRecurringRequestRepository_UpdateStatus(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRecurringRequestRepository(db)
	ctx := context.Background()

	requestID := "0d9f7c1e-4f42-4a4e-9d35-1f6b4a6f0a11"

	t.Run("zero rows means not found", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "recurring_request" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := repo.UpdateStatus(ctx, requestID, models.StatusApproved, "")
		require.Error(t, err)
		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "NOT_FOUND", appErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver error maps to persistence error", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "recurring_request" SET`).
			WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		err := repo.UpdateStatus(ctx, requestID, models.StatusApproved, "")
		require.Error(t, err)
		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "PERSISTENCE_ERROR", appErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reject reason included only when set", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "recurring_request" SET .*"reject_reason"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.UpdateStatus(ctx, requestID, models.StatusRejected, "Coverage needed")
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRecurringRequestRepository_UpdateDates(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRecurringRequestRepository(db)
	ctx := context.Background()

	requestID := "0d9f7c1e-4f42-4a4e-9d35-1f6b4a6f0a11"

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "recurring_request" SET .*"wfh_dates"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateDates(ctx, requestID, models.DateList{"2024-11-05"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecurringRequestRepository_ListByStaffIDs_Empty(t *testing.T) {
	db, _ := setupMockDB(t)
	repo := NewRecurringRequestRepository(db)

	// No staff IDs means no query at all.
	requests, err := repo.ListByStaffIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, requests)
}
