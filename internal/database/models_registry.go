package database

import "telework/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.Employee{},
		&models.RecurringRequest{},
		&models.WfhRecord{},
		&models.ActivityLog{},
	}
}
