package models

import (
	"time"
)

// Language codes supported by the message renderer.
const (
	LanguageEnglish = "en"
	LanguageChinese = "zh"
	LanguageKhmer   = "km"
)

// Profile represents a registered user and their notification preferences.
// The ID is the subject of the access token; rows are provisioned on the
// first authenticated request.
type Profile struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	FullName string `json:"full_name,omitempty"`

	// Message locale: en, zh or km
	LanguagePreference string `gorm:"default:'en'" json:"language_preference"`

	// Per-channel enable flags. Email is the baseline channel and is on by
	// default. SMS is stored but has no delivery channel behind it.
	NotificationEmail    bool `gorm:"default:true" json:"notification_email"`
	NotificationTelegram bool `gorm:"default:false" json:"notification_telegram"`
	NotificationWeChat   bool `gorm:"default:false" json:"notification_wechat"`
	NotificationSMS      bool `gorm:"default:false" json:"notification_sms"`

	// Channel addressing
	TelegramID  string `json:"telegram_id,omitempty"`
	WeChatID    string `json:"wechat_id,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`

	// Relationships
	Visas     []Visa     `gorm:"foreignKey:UserID" json:"visas,omitempty"`
	Reminders []Reminder `gorm:"foreignKey:UserID" json:"reminders,omitempty"`
}

// ChannelEnabled reports the profile's preference flag for the named
// channel. It answers preference only; whether a delivery implementation
// exists for the channel is the dispatcher's concern. Unknown channels
// are disabled.
func (p *Profile) ChannelEnabled(channel string) bool {
	switch channel {
	case ChannelEmail:
		return p.NotificationEmail
	case ChannelSMS:
		return p.NotificationSMS
	case ChannelTelegram:
		return p.NotificationTelegram
	case ChannelWeChat:
		return p.NotificationWeChat
	default:
		return false
	}
}
