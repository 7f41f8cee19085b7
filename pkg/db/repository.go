package db

import (
	"context"
	"fmt"
	"time"

	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/models"
)

// VisaStatusBreakdown summarizes a user's visas for the dashboard.
type VisaStatusBreakdown struct {
	Active   int `json:"active"`
	Expired  int `json:"expired"`
	Expiring int `json:"expiring_soon"` // active, expires within 30 days
}

// ReminderStats summarizes a user's reminder occurrences.
type ReminderStats struct {
	Pending int `json:"pending"`
	Sent    int `json:"sent"`
}

// Repository provides database operations for specific models
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) DB() *DB {
	return r.db
}

// Profile repository methods

func (r *Repository) GetProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error
	return &profile, err
}

// GetOrCreateProfile provisions a profile row on first sight of a token
// subject. Existing rows are returned unchanged. The id must be non-empty:
// a zero-value struct condition would be dropped by the query builder and
// match an arbitrary row.
func (r *Repository) GetOrCreateProfile(ctx context.Context, id, email, fullName string) (*models.Profile, error) {
	if id == "" {
		return nil, fmt.Errorf("profile id is required")
	}

	var profile models.Profile
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Attrs(models.Profile{ID: id, Email: email, FullName: fullName, LanguagePreference: models.LanguageEnglish, NotificationEmail: true}).
		FirstOrCreate(&profile).Error
	return &profile, err
}

func (r *Repository) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

// Visa repository methods

func (r *Repository) CreateVisa(ctx context.Context, visa *models.Visa) error {
	return r.db.WithContext(ctx).Create(visa).Error
}

func (r *Repository) GetVisaByID(ctx context.Context, id string) (*models.Visa, error) {
	var visa models.Visa
	err := r.db.WithContext(ctx).First(&visa, "id = ?", id).Error
	return &visa, err
}

// GetVisasByUserID returns all visas owned by a user, newest expiry last.
func (r *Repository) GetVisasByUserID(ctx context.Context, userID string) ([]models.Visa, error) {
	var visas []models.Visa
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("expiry_date ASC").
		Find(&visas).Error
	return visas, err
}

func (r *Repository) GetVisasCount(ctx context.Context, filters map[string]interface{}) (int, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Visa{})

	for key, value := range filters {
		query = query.Where(key+" = ?", value)
	}

	err := query.Count(&count).Error
	return int(count), err
}

func (r *Repository) GetVisasWithFilters(ctx context.Context, filters map[string]interface{}, limit, offset int) ([]models.Visa, error) {
	var visas []models.Visa
	query := r.db.WithContext(ctx)

	for key, value := range filters {
		query = query.Where(key+" = ?", value)
	}

	err := query.Order("expiry_date ASC").
		Limit(limit).
		Offset(offset).
		Find(&visas).Error

	return visas, err
}

func (r *Repository) UpdateVisa(ctx context.Context, visa *models.Visa) error {
	return r.db.WithContext(ctx).Save(visa).Error
}

func (r *Repository) DeleteVisa(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Visa{}, "id = ?", id).Error
}

// Reminder repository methods

func (r *Repository) CreateReminder(ctx context.Context, reminder *models.Reminder) error {
	return r.db.WithContext(ctx).Create(reminder).Error
}

// ReminderExists reports whether any occurrence exists for the
// (visa, days_before) pair, regardless of channel.
func (r *Repository) ReminderExists(ctx context.Context, visaID string, daysBefore int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Reminder{}).
		Where("visa_id = ? AND days_before = ?", visaID, daysBefore).
		Count(&count).Error
	return count > 0, err
}

// DueReminders selects all unsent occurrences whose reminder date is on or
// before the given day.
func (r *Repository) DueReminders(ctx context.Context, today time.Time) ([]models.Reminder, error) {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	var reminders []models.Reminder
	err := r.db.WithContext(ctx).
		Where("is_sent = ? AND reminder_date <= ?", false, day).
		Order("reminder_date ASC").
		Find(&reminders).Error
	return reminders, err
}

// MarkReminderSent flips the sent flag, but only if the occurrence is still
// unsent. Returns false when another run already committed it.
func (r *Repository) MarkReminderSent(ctx context.Context, id string, sentAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Reminder{}).
		Where("id = ? AND is_sent = ?", id, false).
		Updates(map[string]interface{}{
			"is_sent": true,
			"sent_at": sentAt,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *Repository) GetRemindersCount(ctx context.Context, filters map[string]interface{}) (int, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Reminder{})

	for key, value := range filters {
		query = query.Where(key+" = ?", value)
	}

	err := query.Count(&count).Error
	return int(count), err
}

func (r *Repository) GetRemindersWithFilters(ctx context.Context, filters map[string]interface{}, limit, offset int) ([]models.Reminder, error) {
	var reminders []models.Reminder
	query := r.db.WithContext(ctx)

	for key, value := range filters {
		query = query.Where(key+" = ?", value)
	}

	err := query.Order("reminder_date ASC").
		Limit(limit).
		Offset(offset).
		Find(&reminders).Error

	return reminders, err
}

// VisaType repository methods

func (r *Repository) GetVisaTypes(ctx context.Context, country string) ([]models.VisaType, error) {
	query := r.db.WithContext(ctx).Where("is_active = ?", true)
	if country != "" {
		query = query.Where("country = ?", country)
	}

	var visaTypes []models.VisaType
	err := query.Order("country, code").Find(&visaTypes).Error
	return visaTypes, err
}

func (r *Repository) GetVisaTypeByCode(ctx context.Context, code string) (*models.VisaType, error) {
	var visaType models.VisaType
	err := r.db.WithContext(ctx).Where("code = ? AND is_active = ?", code, true).First(&visaType).Error
	return &visaType, err
}

// Dashboard repository methods

func (r *Repository) GetVisaStatusBreakdown(ctx context.Context, userID string, today time.Time) (*VisaStatusBreakdown, error) {
	type statusCount struct {
		Status string
		Count  int
	}

	var results []statusCount
	err := r.db.WithContext(ctx).Model(&models.Visa{}).
		Select("status, COUNT(*) as count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	breakdown := &VisaStatusBreakdown{}
	for _, result := range results {
		switch models.VisaStatus(result.Status) {
		case models.VisaStatusActive:
			breakdown.Active = result.Count
		case models.VisaStatusExpired:
			breakdown.Expired = result.Count
		}
	}

	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	var expiring int64
	err = r.db.WithContext(ctx).Model(&models.Visa{}).
		Where("user_id = ? AND status = ? AND expiry_date > ? AND expiry_date <= ?",
			userID, models.VisaStatusActive, day, day.AddDate(0, 0, 30)).
		Count(&expiring).Error
	if err != nil {
		return nil, err
	}
	breakdown.Expiring = int(expiring)

	return breakdown, nil
}

func (r *Repository) GetReminderStats(ctx context.Context, userID string) (*ReminderStats, error) {
	type sentCount struct {
		IsSent bool
		Count  int
	}

	var results []sentCount
	err := r.db.WithContext(ctx).Model(&models.Reminder{}).
		Select("is_sent, COUNT(*) as count").
		Where("user_id = ?", userID).
		Group("is_sent").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	stats := &ReminderStats{}
	for _, result := range results {
		if result.IsSent {
			stats.Sent = result.Count
		} else {
			stats.Pending = result.Count
		}
	}

	return stats, nil
}
