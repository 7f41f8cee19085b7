package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/channels"
	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/log"
	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/models"
)

// Detail statuses
const (
	DetailStatusSent   = "sent"
	DetailStatusFailed = "failed"
)

// DispatchDetail describes the outcome for one processed occurrence.
type DispatchDetail struct {
	ReminderID  string `json:"reminder_id"`
	VisaCountry string `json:"visa_country"`
	Channel     string `json:"channel"`
	Status      string `json:"status"`
}

// DispatchResult is the per-run summary returned to the caller. It is
// never persisted.
type DispatchResult struct {
	Message string           `json:"message"`
	Total   int              `json:"total"`
	Sent    int              `json:"sent"`
	Failed  int              `json:"failed"`
	Details []DispatchDetail `json:"details"`
}

// DispatchStore is the storage surface the dispatcher needs.
type DispatchStore interface {
	DueReminders(ctx context.Context, today time.Time) ([]models.Reminder, error)
	GetVisaByID(ctx context.Context, id string) (*models.Visa, error)
	GetProfileByID(ctx context.Context, id string) (*models.Profile, error)
	MarkReminderSent(ctx context.Context, id string, sentAt time.Time) (bool, error)
}

// Dispatcher delivers all due, unsent reminder occurrences and reports a
// summary. Occurrences are processed sequentially; a failure on one never
// aborts the run. Unsent occurrences are naturally retried on the next
// invocation.
type Dispatcher struct {
	store    DispatchStore
	registry *channels.Registry
	logger   *log.Logger
	now      func() time.Time
}

// NewDispatcher creates a new dispatcher
func NewDispatcher(store DispatchStore, registry *channels.Registry, logger *log.Logger) *Dispatcher {
	return &Dispatcher{
		store:    store,
		registry: registry,
		logger:   logger,
		now:      time.Now,
	}
}

// Dispatch selects everything due as of today (day granularity, computed
// once at run start) and attempts delivery per occurrence.
func (d *Dispatcher) Dispatch(ctx context.Context) (*DispatchResult, error) {
	now := d.now()
	today := dateOnly(now)

	due, err := d.store.DueReminders(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("select due reminders: %w", err)
	}

	result := &DispatchResult{
		Total:   len(due),
		Details: []DispatchDetail{},
	}

	if len(due) == 0 {
		result.Message = "No reminders to send"
		d.logger.LogDispatch(0, 0, 0)
		return result, nil
	}

	for i := range due {
		reminder := &due[i]

		visa, err := d.store.GetVisaByID(ctx, reminder.VisaID)
		if err != nil {
			d.logger.WithError(err).WithField("reminder_id", reminder.ID).Warn("Visa missing for reminder")
			result.Failed++
			continue
		}

		profile, err := d.store.GetProfileByID(ctx, reminder.UserID)
		if err != nil {
			d.logger.WithError(err).WithField("reminder_id", reminder.ID).Warn("Profile missing for reminder")
			result.Failed++
			continue
		}

		message := RenderMessage(visa, profile, reminder.DaysBefore)

		sent, reason := d.deliver(ctx, reminder, visa, profile, message)

		if sent {
			committed, err := d.store.MarkReminderSent(ctx, reminder.ID, now)
			if err != nil {
				// Delivery went out but the flag write failed: the occurrence
				// stays unsent and is re-selected next run.
				d.logger.WithError(err).WithField("reminder_id", reminder.ID).Error("Failed to mark reminder sent")
				result.Failed++
				result.Details = append(result.Details, DispatchDetail{
					ReminderID:  reminder.ID,
					VisaCountry: visa.Country,
					Channel:     reminder.Channel,
					Status:      DetailStatusFailed,
				})
				continue
			}
			if !committed {
				d.logger.WithField("reminder_id", reminder.ID).Warn("Reminder already marked sent by a concurrent run")
			}

			result.Sent++
			result.Details = append(result.Details, DispatchDetail{
				ReminderID:  reminder.ID,
				VisaCountry: visa.Country,
				Channel:     reminder.Channel,
				Status:      DetailStatusSent,
			})
		} else {
			d.logger.LogChannel(reminder.Channel, reminder.ID, reminder.UserID, false, reason)
			result.Failed++
			result.Details = append(result.Details, DispatchDetail{
				ReminderID:  reminder.ID,
				VisaCountry: visa.Country,
				Channel:     reminder.Channel,
				Status:      DetailStatusFailed,
			})
		}
	}

	result.Message = "Reminders processed"
	d.logger.LogDispatch(result.Total, result.Sent, result.Failed)
	return result, nil
}

// deliver gates on the profile's current preference flag, then hands the
// rendered message to the occurrence's channel. The preference is checked
// at dispatch time: an occurrence created before the user disabled its
// channel silently never delivers.
func (d *Dispatcher) deliver(ctx context.Context, reminder *models.Reminder, visa *models.Visa, profile *models.Profile, message string) (bool, string) {
	if !profile.ChannelEnabled(reminder.Channel) {
		return false, "channel disabled in user preferences"
	}

	channel := d.registry.Get(reminder.Channel)
	if channel == nil {
		return false, fmt.Sprintf("unsupported channel: %s", reminder.Channel)
	}

	msg := channels.Message{
		Subject: RenderSubject(visa, reminder.DaysBefore),
		Text:    message,
		HTML:    RenderEmailHTML(visa, message),
	}

	return channel.Send(ctx, profile, msg)
}
