package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/config"
	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	database, err := New(&config.DatabaseConfig{
		Driver:          "sqlite",
		Database:        ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: 300,
	})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, database.Migrate())
	return database
}

func seedProfile(t *testing.T, repo *Repository) *models.Profile {
	t.Helper()
	profile, err := repo.GetOrCreateProfile(context.Background(), "user-1", "traveler@example.com", "Alex Chen")
	require.NoError(t, err)
	return profile
}

func seedVisa(t *testing.T, repo *Repository, userID string, expiry time.Time) *models.Visa {
	t.Helper()
	visa := &models.Visa{
		UserID:     userID,
		Country:    "Thailand",
		VisaType:   "Tourist",
		ExpiryDate: expiry,
		Status:     models.VisaStatusActive,
	}
	require.NoError(t, repo.CreateVisa(context.Background(), visa))
	return visa
}

func TestGetOrCreateProfile(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	profile := seedProfile(t, repo)
	assert.Equal(t, "user-1", profile.ID)
	assert.Equal(t, "traveler@example.com", profile.Email)
	assert.Equal(t, models.LanguageEnglish, profile.LanguagePreference)
	assert.True(t, profile.NotificationEmail)

	// A second call with different claim data returns the existing row.
	again, err := repo.GetOrCreateProfile(context.Background(), "user-1", "changed@example.com", "Changed")
	require.NoError(t, err)
	assert.Equal(t, "traveler@example.com", again.Email)
}

func TestGetOrCreateProfileRejectsEmptyID(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	victim := seedProfile(t, repo)

	// An empty id must never match or create a row.
	got, err := repo.GetOrCreateProfile(context.Background(), "", "other@example.com", "Other")
	require.Error(t, err)
	assert.Nil(t, got)

	loaded, err := repo.GetProfileByID(context.Background(), victim.ID)
	require.NoError(t, err)
	assert.Equal(t, "traveler@example.com", loaded.Email)
}

func TestUpdateProfile(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	profile := seedProfile(t, repo)

	profile.LanguagePreference = models.LanguageKhmer
	profile.NotificationTelegram = true
	profile.TelegramID = "12345"
	require.NoError(t, repo.UpdateProfile(context.Background(), profile))

	loaded, err := repo.GetProfileByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.LanguageKhmer, loaded.LanguagePreference)
	assert.True(t, loaded.NotificationTelegram)
	assert.Equal(t, "12345", loaded.TelegramID)
}

func TestVisaCRUD(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	seedProfile(t, repo)

	visa := seedVisa(t, repo, "user-1", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	assert.NotEmpty(t, visa.ID)

	loaded, err := repo.GetVisaByID(context.Background(), visa.ID)
	require.NoError(t, err)
	assert.Equal(t, "Thailand", loaded.Country)

	loaded.Notes = "renewal pending"
	require.NoError(t, repo.UpdateVisa(context.Background(), loaded))

	visas, err := repo.GetVisasByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, visas, 1)
	assert.Equal(t, "renewal pending", visas[0].Notes)

	require.NoError(t, repo.DeleteVisa(context.Background(), visa.ID))
	visas, err = repo.GetVisasByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, visas)
}

func TestGetVisasWithFilters(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	seedProfile(t, repo)

	seedVisa(t, repo, "user-1", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	expired := seedVisa(t, repo, "user-1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	expired.Status = models.VisaStatusExpired
	require.NoError(t, repo.UpdateVisa(context.Background(), expired))

	filters := map[string]interface{}{
		"user_id": "user-1",
		"status":  string(models.VisaStatusActive),
	}

	count, err := repo.GetVisasCount(context.Background(), filters)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	visas, err := repo.GetVisasWithFilters(context.Background(), filters, 10, 0)
	require.NoError(t, err)
	require.Len(t, visas, 1)
	assert.Equal(t, models.VisaStatusActive, visas[0].Status)
}

func TestReminderExists(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	seedProfile(t, repo)
	visa := seedVisa(t, repo, "user-1", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))

	exists, err := repo.ReminderExists(context.Background(), visa.ID, 7)
	require.NoError(t, err)
	assert.False(t, exists)

	reminder := &models.Reminder{
		VisaID:       visa.ID,
		UserID:       "user-1",
		ReminderDate: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		DaysBefore:   7,
		ReminderType: models.ReminderType7Days,
		Channel:      models.ChannelEmail,
	}
	require.NoError(t, repo.CreateReminder(context.Background(), reminder))

	// The channel dimension does not matter for existence.
	exists, err = repo.ReminderExists(context.Background(), visa.ID, 7)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ReminderExists(context.Background(), visa.ID, 3)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDueReminders(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	seedProfile(t, repo)
	visa := seedVisa(t, repo, "user-1", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))

	mkReminder := func(date time.Time, daysBefore int, sent bool) *models.Reminder {
		r := &models.Reminder{
			VisaID:       visa.ID,
			UserID:       "user-1",
			ReminderDate: date,
			DaysBefore:   daysBefore,
			ReminderType: models.ReminderTypeForOffset(daysBefore),
			Channel:      models.ChannelEmail,
			IsSent:       sent,
		}
		require.NoError(t, repo.CreateReminder(context.Background(), r))
		return r
	}

	overdue := mkReminder(time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), 7, false)
	dueToday := mkReminder(time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC), 3, false)
	// Future and already-sent rows must be excluded.
	mkReminder(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), 0, false)
	mkReminder(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), 7, true)

	due, err := repo.DueReminders(context.Background(), time.Date(2025, 3, 7, 15, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, due, 2)

	// Ordered by reminder date, oldest first.
	assert.Equal(t, overdue.ID, due[0].ID)
	assert.Equal(t, dueToday.ID, due[1].ID)
}

func TestMarkReminderSent(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	seedProfile(t, repo)
	visa := seedVisa(t, repo, "user-1", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))

	reminder := &models.Reminder{
		VisaID:       visa.ID,
		UserID:       "user-1",
		ReminderDate: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		DaysBefore:   7,
		ReminderType: models.ReminderType7Days,
		Channel:      models.ChannelEmail,
	}
	require.NoError(t, repo.CreateReminder(context.Background(), reminder))

	sentAt := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	committed, err := repo.MarkReminderSent(context.Background(), reminder.ID, sentAt)
	require.NoError(t, err)
	assert.True(t, committed)

	// Second commit attempt loses: the row is already sent.
	committed, err = repo.MarkReminderSent(context.Background(), reminder.ID, sentAt)
	require.NoError(t, err)
	assert.False(t, committed)

	due, err := repo.DueReminders(context.Background(), time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestSeedVisaTypesIdempotent(t *testing.T) {
	database := newTestDB(t)
	repo := NewRepository(database)

	require.NoError(t, database.SeedVisaTypes())
	require.NoError(t, database.SeedVisaTypes())

	visaTypes, err := repo.GetVisaTypes(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, visaTypes, 6)

	thai, err := repo.GetVisaTypes(context.Background(), "Thailand")
	require.NoError(t, err)
	require.Len(t, thai, 1)
	assert.Equal(t, "TH-TR", thai[0].Code)

	byCode, err := repo.GetVisaTypeByCode(context.Background(), "KH-EB")
	require.NoError(t, err)
	assert.Equal(t, "Cambodia", byCode.Country)
}

func TestGetVisaStatusBreakdown(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	seedProfile(t, repo)

	today := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	seedVisa(t, repo, "user-1", today.AddDate(0, 0, 10)) // expiring soon
	seedVisa(t, repo, "user-1", today.AddDate(1, 0, 0))  // active, far out
	expired := seedVisa(t, repo, "user-1", today.AddDate(0, 0, -5))
	expired.Status = models.VisaStatusExpired
	require.NoError(t, repo.UpdateVisa(context.Background(), expired))

	breakdown, err := repo.GetVisaStatusBreakdown(context.Background(), "user-1", today)
	require.NoError(t, err)
	assert.Equal(t, 2, breakdown.Active)
	assert.Equal(t, 1, breakdown.Expired)
	assert.Equal(t, 1, breakdown.Expiring)
}

func TestGetReminderStats(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	seedProfile(t, repo)
	visa := seedVisa(t, repo, "user-1", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))

	for i, sent := range []bool{false, false, true} {
		r := &models.Reminder{
			VisaID:       visa.ID,
			UserID:       "user-1",
			ReminderDate: time.Date(2025, 3, 3+i, 0, 0, 0, 0, time.UTC),
			DaysBefore:   7,
			ReminderType: models.ReminderType7Days,
			Channel:      models.ChannelEmail,
			IsSent:       sent,
		}
		require.NoError(t, repo.CreateReminder(context.Background(), r))
	}

	stats, err := repo.GetReminderStats(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 1, stats.Sent)
}
