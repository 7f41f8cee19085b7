package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Delivery channels
const (
	ChannelEmail    = "email"
	ChannelTelegram = "telegram"
	ChannelWeChat   = "wechat"
	// ChannelSMS is a recognized preference with no delivery implementation.
	ChannelSMS = "sms"
)

// Reminder type tags mirroring the days-before offset.
const (
	ReminderType7Days   = "7days"
	ReminderType3Days   = "3days"
	ReminderTypeSameDay = "same_day"
)

// Reminder is one scheduled (date, channel) notification occurrence for a
// visa. At most one set of channel rows exists per (visa, days_before);
// rows are created by the planner and only ever mutated by the dispatcher
// flipping IsSent.
type Reminder struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	VisaID string `gorm:"not null;index;size:36" json:"visa_id"`
	Visa   Visa   `gorm:"foreignKey:VisaID" json:"-"`
	UserID string `gorm:"not null;index;size:36" json:"user_id"`

	// Calendar date the reminder should fire, day granularity.
	ReminderDate time.Time `gorm:"not null;index" json:"reminder_date"`

	// Days before expiry: 7, 3 or 0.
	DaysBefore   int    `gorm:"not null" json:"days_before"`
	ReminderType string `gorm:"not null" json:"reminder_type"`

	Channel string `gorm:"not null" json:"channel"`

	IsSent bool       `gorm:"default:false;index" json:"is_sent"`
	SentAt *time.Time `json:"sent_at,omitempty"`
}

func (r *Reminder) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// ReminderTypeForOffset maps a days-before offset to its type tag.
func ReminderTypeForOffset(daysBefore int) string {
	switch daysBefore {
	case 7:
		return ReminderType7Days
	case 3:
		return ReminderType3Days
	default:
		return ReminderTypeSameDay
	}
}
