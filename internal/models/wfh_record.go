package models

import "time"

// WfhRecord is the child entity: one row per (staff, date) with its own
// approval status, tracked independently of its siblings. Rows created via a
// recurring request carry Recurring=true and a back-reference to the parent.
type WfhRecord struct {
	RecordID      uint      `gorm:"primaryKey" json:"record_id"`
	StaffID       uint      `gorm:"index;not null" json:"staff_id"`
	WfhDate       string    `gorm:"size:10;not null;index:idx_wfh_records_date" json:"wfh_date"`
	Recurring     bool      `gorm:"default:false" json:"recurring"`
	Timeslot      Timeslot  `gorm:"type:varchar(2);not null" json:"timeslot"`
	Status        WfhStatus `gorm:"type:varchar(20);default:'Pending';index:idx_wfh_records_status" json:"status"`
	RequestReason string    `gorm:"type:text" json:"request_reason"`
	RejectReason  string    `gorm:"type:text" json:"reject_reason,omitempty"`
	RequestID     string    `gorm:"size:36;index" json:"request_id"`
	RequestDate   time.Time `gorm:"autoCreateTime" json:"request_date"`
}

// TableName specifies the table name for GORM
func (WfhRecord) TableName() string {
	return "wfh_records"
}
