package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecurringRequest is the parent entity of a pattern-based WFH request:
// "every <dayOfWeek> from startDate to endDate". It owns one WfhRecord per
// generated date. WfhDates caches the dates that are still active; the
// authoritative per-date truth lives in the child records.
type RecurringRequest struct {
	RequestID     string    `gorm:"primaryKey;size:36" json:"request_id"`
	StaffID       uint      `gorm:"index;not null" json:"staff_id"`
	StartDate     string    `gorm:"size:10;not null" json:"start_date"`
	EndDate       string    `gorm:"size:10;not null" json:"end_date"`
	DayOfWeek     int       `gorm:"not null" json:"day_of_week"`
	Timeslot      Timeslot  `gorm:"type:varchar(2);not null" json:"timeslot"`
	RequestReason string    `gorm:"type:text" json:"request_reason"`
	Status        WfhStatus `gorm:"type:varchar(20);default:'Pending';index:idx_recurring_request_status" json:"status"`
	RejectReason  string    `gorm:"type:text" json:"reject_reason,omitempty"`
	WfhDates      DateList  `gorm:"type:date[]" json:"wfh_dates"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relationships
	Records []WfhRecord `gorm:"foreignKey:RequestID;references:RequestID" json:"records,omitempty"`
}

// TableName specifies the table name for GORM
func (RecurringRequest) TableName() string {
	return "recurring_request"
}

// BeforeCreate assigns the request identifier.
func (r *RecurringRequest) BeforeCreate(_ *gorm.DB) error {
	if r.RequestID == "" {
		r.RequestID = uuid.NewString()
	}
	return nil
}
