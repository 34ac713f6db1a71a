package models

import "time"

// ActivityLog is an append-only audit entry. At least one of RequestID or
// RecordID is set. Entries are written in the same transaction as the state
// change they document and are never mutated or deleted.
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RequestID *string   `gorm:"size:36;index" json:"request_id,omitempty"`
	RecordID  *uint     `gorm:"index" json:"record_id,omitempty"`
	Activity  string    `gorm:"type:text;not null" json:"activity"`
	Timestamp time.Time `gorm:"autoCreateTime" json:"timestamp"`
}

// TableName specifies the table name for GORM
func (ActivityLog) TableName() string {
	return "activitylog"
}
