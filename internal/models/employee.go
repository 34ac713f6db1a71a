package models

// Employee is a read-only projection of the employee directory: identity,
// department membership and the reporting line. This service never writes to
// it; the directory is owned elsewhere.
type Employee struct {
	StaffID          uint   `gorm:"primaryKey;column:staff_id" json:"staff_id"`
	Name             string `gorm:"size:120;not null" json:"name"`
	Email            string `gorm:"size:120;uniqueIndex" json:"email"`
	Department       string `gorm:"size:60;index" json:"department"`
	Position         string `gorm:"size:60" json:"position"`
	ReportingManager uint   `gorm:"index" json:"reporting_manager"`
	Role             string `gorm:"size:20;default:'staff'" json:"role"`
}

// TableName specifies the table name for GORM
func (Employee) TableName() string {
	return "employees"
}
