package models

import (
	"gorm.io/gorm"
)

// Database migration function
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Profile{},
		&Visa{},
		&Reminder{},
		&VisaType{},
	)
}

func CreateIndexes(db *gorm.DB) error {
	// Composite indexes for common queries
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_visas_user_status ON visas(user_id, status)").Error; err != nil {
		return err
	}

	// Planner dedup lookup
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_reminders_visa_days ON reminders(visa_id, days_before)").Error; err != nil {
		return err
	}

	// Dispatcher due-selection
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_reminders_sent_date ON reminders(is_sent, reminder_date)").Error; err != nil {
		return err
	}

	return nil
}
