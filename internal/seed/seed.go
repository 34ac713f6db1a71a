// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"telework/internal/models"
	"telework/internal/recurrence"

	"github.com/brianvoe/gofakeit/v6"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumEmployees int
	NumRequests  int
	ShouldClean  bool
}

var departments = []string{
	"Engineering", "Sales", "Finance", "HR", "Consultancy", "IT", "Solutioning",
}

var positions = map[string][]string{
	"Engineering": {"Junior Engineer", "Senior Engineer", "Call Centre"},
	"Sales":       {"Account Manager", "Sales Manager"},
	"Finance":     {"Finance Executive", "Finance Manager"},
	"HR":          {"HR Executive", "LD Team"},
	"Consultancy": {"Consultant", "Developers"},
	"IT":          {"IT Team", "Support Team"},
	"Solutioning": {"Developers", "Support Team"},
}

var timeslots = []models.Timeslot{
	models.TimeslotAM, models.TimeslotPM, models.TimeslotFullDay,
}

// Seeder populates the database with development data.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder returns a Seeder bound to the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// ClearAll deletes all seeded data in FK-safe order.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	tables := []string{"activitylog", "wfh_records", "recurring_request", "employees"}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// Seed populates the database with fake employees and recurring requests.
func (s *Seeder) Seed(opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())
	log.Printf("Starting seeding with %d employees and %d recurring requests...",
		opts.NumEmployees, opts.NumRequests)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	employees, err := s.createEmployees(opts.NumEmployees)
	if err != nil {
		return fmt.Errorf("failed to create employees: %w", err)
	}
	log.Printf("created %d employees", len(employees))

	created, err := s.createRecurringRequests(employees, opts.NumRequests)
	if err != nil {
		return fmt.Errorf("failed to create recurring requests: %w", err)
	}
	log.Printf("created %d recurring requests", created)

	return nil
}

// createEmployees builds one manager per department plus staff reporting to
// them. Managers carry the "manager" role so seeded tokens can exercise the
// decision routes.
func (s *Seeder) createEmployees(count int) ([]models.Employee, error) {
	employees := make([]models.Employee, 0, count)

	managersByDept := make(map[string]uint, len(departments))
	nextID := uint(100001)

	for _, dept := range departments {
		manager := models.Employee{
			StaffID:    nextID,
			Name:       gofakeit.Name(),
			Email:      fmt.Sprintf("staff%d@%s", nextID, gofakeit.DomainName()),
			Department: dept,
			Position:   "Director",
			Role:       "manager",
		}
		// Directors report to themselves, mirroring the top of the org chart.
		manager.ReportingManager = manager.StaffID
		managersByDept[dept] = manager.StaffID
		employees = append(employees, manager)
		nextID++
	}

	for len(employees) < count {
		dept := departments[rand.Intn(len(departments))]
		pos := positions[dept][rand.Intn(len(positions[dept]))]
		employees = append(employees, models.Employee{
			StaffID:          nextID,
			Name:             gofakeit.Name(),
			Email:            fmt.Sprintf("staff%d@%s", nextID, gofakeit.DomainName()),
			Department:       dept,
			Position:         pos,
			ReportingManager: managersByDept[dept],
			Role:             "staff",
		})
		nextID++
	}

	if err := s.db.CreateInBatches(employees, 100).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

// createRecurringRequests files a recurring request for random staff members
// and approves roughly half of them so schedule views have data.
func (s *Seeder) createRecurringRequests(employees []models.Employee, count int) (int, error) {
	created := 0
	today := time.Now()

	for i := 0; i < count && len(employees) > 0; i++ {
		emp := employees[rand.Intn(len(employees))]
		dayOfWeek := rand.Intn(recurrence.MaxDayOfWeek) + recurrence.MinDayOfWeek
		start := today.AddDate(0, 0, rand.Intn(14))
		end := start.AddDate(0, 1+rand.Intn(2), 0)

		dates, err := recurrence.Expand(
			start.Format(models.DateFormat), end.Format(models.DateFormat), dayOfWeek)
		if err != nil || len(dates) == 0 {
			continue
		}

		status := models.StatusPending
		if rand.Intn(2) == 0 {
			status = models.StatusApproved
		}

		request := models.RecurringRequest{
			StaffID:       emp.StaffID,
			StartDate:     start.Format(models.DateFormat),
			EndDate:       end.Format(models.DateFormat),
			DayOfWeek:     dayOfWeek,
			Timeslot:      timeslots[rand.Intn(len(timeslots))],
			RequestReason: gofakeit.Sentence(6),
			Status:        status,
			WfhDates:      models.DateList(dates),
		}

		err = s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&request).Error; err != nil {
				return err
			}
			records := make([]models.WfhRecord, 0, len(dates))
			for _, date := range dates {
				records = append(records, models.WfhRecord{
					StaffID:       emp.StaffID,
					WfhDate:       date,
					Recurring:     true,
					Timeslot:      request.Timeslot,
					Status:        status,
					RequestReason: request.RequestReason,
					RequestID:     request.RequestID,
				})
			}
			if err := tx.CreateInBatches(records, 100).Error; err != nil {
				return err
			}
			return tx.Create(&models.ActivityLog{
				RequestID: &request.RequestID,
				Activity:  "New Recurring Request",
			}).Error
		})
		if err != nil {
			return created, err
		}
		created++
	}

	return created, nil
}

// fixtureEmployee mirrors the YAML shape of one directory fixture entry.
type fixtureEmployee struct {
	StaffID          uint   `yaml:"staff_id"`
	Name             string `yaml:"name"`
	Email            string `yaml:"email"`
	Department       string `yaml:"department"`
	Position         string `yaml:"position"`
	ReportingManager uint   `yaml:"reporting_manager"`
	Role             string `yaml:"role"`
}

type employeeFixture struct {
	Employees []fixtureEmployee `yaml:"employees"`
}

// LoadEmployeeFixture inserts employees from a YAML fixture file, allowing
// deterministic directories in integration environments.
func (s *Seeder) LoadEmployeeFixture(path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}

	var fixture employeeFixture
	if err := yaml.Unmarshal(raw, &fixture); err != nil {
		return 0, fmt.Errorf("failed to parse fixture %s: %w", path, err)
	}
	if len(fixture.Employees) == 0 {
		return 0, nil
	}

	employees := make([]models.Employee, 0, len(fixture.Employees))
	for _, fe := range fixture.Employees {
		role := fe.Role
		if role == "" {
			role = "staff"
		}
		employees = append(employees, models.Employee{
			StaffID:          fe.StaffID,
			Name:             fe.Name,
			Email:            fe.Email,
			Department:       fe.Department,
			Position:         fe.Position,
			ReportingManager: fe.ReportingManager,
			Role:             role,
		})
	}

	if err := s.db.CreateInBatches(employees, 100).Error; err != nil {
		return 0, err
	}
	return len(employees), nil
}
