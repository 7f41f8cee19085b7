package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/log"
	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/models"
)

// reminderOffsets is the canonical ordered set of days-before-expiry
// offsets: two advance warnings plus a same-day final notice.
var reminderOffsets = []int{7, 3, 0}

// PlanStore is the storage surface the planner needs.
type PlanStore interface {
	GetProfileByID(ctx context.Context, id string) (*models.Profile, error)
	GetVisasByUserID(ctx context.Context, userID string) ([]models.Visa, error)
	ReminderExists(ctx context.Context, visaID string, daysBefore int) (bool, error)
	CreateReminder(ctx context.Context, reminder *models.Reminder) error
}

// Planner materializes reminder occurrences for a user's visas. Repeated
// invocations are idempotent: occurrences already present for a
// (visa, days-before) pair are never recreated.
type Planner struct {
	store  PlanStore
	logger *log.Logger
	now    func() time.Time
}

// NewPlanner creates a new planner
func NewPlanner(store PlanStore, logger *log.Logger) *Planner {
	return &Planner{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// PlanForUser derives and creates the missing reminder occurrences for
// every visa the user owns, returning the number created. Reminder
// windows already in the past are skipped. Individual insert failures are
// logged and do not abort the batch; there is no rollback of prior
// insertions.
func (p *Planner) PlanForUser(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, fmt.Errorf("planner invoked without a user")
	}

	profile, err := p.store.GetProfileByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("load profile %s: %w", userID, err)
	}

	visas, err := p.store.GetVisasByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("load visas for %s: %w", userID, err)
	}

	// Preferences are read once per planning run, not per offset.
	channels := activeChannels(profile)
	today := dateOnly(p.now())

	created := 0
	for _, visa := range visas {
		for _, daysBefore := range reminderOffsets {
			reminderDate := dateOnly(visa.ExpiryDate).AddDate(0, 0, -daysBefore)

			// Never schedule reminders for windows already in the past.
			if reminderDate.Before(today) {
				continue
			}

			exists, err := p.store.ReminderExists(ctx, visa.ID, daysBefore)
			if err != nil {
				p.logger.WithFields(log.Fields{
					"visa_id":     visa.ID,
					"days_before": daysBefore,
				}).WithError(err).Warn("Failed to check existing reminder")
				continue
			}
			if exists {
				continue
			}

			for _, channel := range channels {
				reminder := &models.Reminder{
					VisaID:       visa.ID,
					UserID:       userID,
					ReminderDate: reminderDate,
					DaysBefore:   daysBefore,
					ReminderType: models.ReminderTypeForOffset(daysBefore),
					Channel:      channel,
					IsSent:       false,
				}

				if err := p.store.CreateReminder(ctx, reminder); err != nil {
					p.logger.WithFields(log.Fields{
						"visa_id":     visa.ID,
						"days_before": daysBefore,
						"channel":     channel,
					}).WithError(err).Warn("Failed to create reminder")
					continue
				}
				created++
			}
		}
	}

	p.logger.LogPlan(userID, len(visas), created)
	return created, nil
}

// activeChannels returns the fan-out target set for a profile. Email is
// always included; telegram and wechat follow the enable flags. SMS is a
// stored preference with no delivery channel and is never fanned out.
func activeChannels(profile *models.Profile) []string {
	channels := []string{models.ChannelEmail}
	if profile.NotificationTelegram {
		channels = append(channels, models.ChannelTelegram)
	}
	if profile.NotificationWeChat {
		channels = append(channels, models.ChannelWeChat)
	}
	return channels
}

// dateOnly truncates a time to day granularity in UTC.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
