package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"telework/internal/models"
)

func setupSeedTest(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Employee{},
		&models.RecurringRequest{},
		&models.WfhRecord{},
		&models.ActivityLog{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func TestSeed(t *testing.T) {
	db := setupSeedTest(t)
	s := NewSeeder(db)

	require.NoError(t, s.Seed(Options{NumEmployees: 20, NumRequests: 10, ShouldClean: true}))

	var employees int64
	db.Model(&models.Employee{}).Count(&employees)
	assert.EqualValues(t, 20, employees)

	// Each department has exactly one manager at the top of its chain.
	var managers []models.Employee
	db.Where("role = ?", "manager").Find(&managers)
	assert.Len(t, managers, len(departments))

	// Every staff member reports to an existing manager.
	var staff []models.Employee
	db.Where("role = ?", "staff").Find(&staff)
	managerIDs := make(map[uint]bool, len(managers))
	for _, m := range managers {
		managerIDs[m.StaffID] = true
	}
	for _, member := range staff {
		assert.True(t, managerIDs[member.ReportingManager],
			"staff %d reports to unknown manager %d", member.StaffID, member.ReportingManager)
	}

	// Requests have consistent children and a submission log entry.
	var requests []models.RecurringRequest
	db.Find(&requests)
	assert.NotEmpty(t, requests)
	for _, request := range requests {
		var children int64
		db.Model(&models.WfhRecord{}).Where("request_id = ?", request.RequestID).Count(&children)
		assert.EqualValues(t, len(request.WfhDates), children)

		var logs int64
		db.Model(&models.ActivityLog{}).Where("request_id = ?", request.RequestID).Count(&logs)
		assert.EqualValues(t, 1, logs)
	}
}

func TestClearAll(t *testing.T) {
	db := setupSeedTest(t)
	s := NewSeeder(db)

	require.NoError(t, s.Seed(Options{NumEmployees: 10, NumRequests: 5, ShouldClean: false}))
	require.NoError(t, s.ClearAll())

	for _, model := range []interface{}{
		&models.Employee{}, &models.RecurringRequest{}, &models.WfhRecord{}, &models.ActivityLog{},
	} {
		var count int64
		db.Model(model).Count(&count)
		assert.Zero(t, count)
	}
}

func TestLoadEmployeeFixture(t *testing.T) {
	db := setupSeedTest(t)
	s := NewSeeder(db)

	fixture := `employees:
  - staff_id: 130001
    name: Ada Lim
    email: ada.lim@example.com
    department: Engineering
    position: Director
    reporting_manager: 130001
    role: manager
  - staff_id: 140001
    name: Ben Tan
    email: ben.tan@example.com
    department: Engineering
    position: Junior Engineer
    reporting_manager: 130001
`
	path := filepath.Join(t.TempDir(), "employees.yml")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o600))

	n, err := s.LoadEmployeeFixture(path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var ben models.Employee
	require.NoError(t, db.First(&ben, "staff_id = ?", 140001).Error)
	assert.Equal(t, "Ben Tan", ben.Name)
	assert.Equal(t, uint(130001), ben.ReportingManager)
	// Role defaults to staff when the fixture omits it.
	assert.Equal(t, "staff", ben.Role)

	t.Run("missing file", func(t *testing.T) {
		_, err := s.LoadEmployeeFixture(filepath.Join(t.TempDir(), "nope.yml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.yml")
		require.NoError(t, os.WriteFile(bad, []byte("employees: {oops"), 0o600))
		_, err := s.LoadEmployeeFixture(bad)
		assert.Error(t, err)
	})
}
