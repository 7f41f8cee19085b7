package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VisaStatus enum
type VisaStatus string

const (
	VisaStatusActive  VisaStatus = "active"
	VisaStatusExpired VisaStatus = "expired"
)

// VisaCategory enum
type VisaCategory string

const (
	CategoryTourist  VisaCategory = "tourist"
	CategoryBusiness VisaCategory = "business"
	CategoryStudent  VisaCategory = "student"
	CategoryWork     VisaCategory = "work"
	CategoryTransit  VisaCategory = "transit"
	CategoryOther    VisaCategory = "other"
)

// EntryType enum
type EntryType string

const (
	EntrySingle   EntryType = "single"
	EntryMultiple EntryType = "multiple"
	EntryTransit  EntryType = "transit"
)

// Visa represents a tracked travel authorization. The expiry date is the
// sole driver of reminder scheduling.
type Visa struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID  string  `gorm:"not null;index;size:36" json:"user_id"`
	Profile Profile `gorm:"foreignKey:UserID" json:"-"`

	Country    string       `gorm:"not null" json:"country"`
	VisaType   string       `gorm:"not null" json:"visa_type"`
	VisaNumber string       `json:"visa_number,omitempty"`
	Category   VisaCategory `gorm:"default:'tourist';index" json:"category"`

	IssueDate  *time.Time `json:"issue_date,omitempty"`
	ExpiryDate time.Time  `gorm:"not null;index" json:"expiry_date"`

	EntryType EntryType  `gorm:"default:'single'" json:"entry_type"`
	Status    VisaStatus `gorm:"default:'active';index" json:"status"`

	// Holder details for family/employee category records. Empty means the
	// owning user themselves.
	PersonName   string `json:"person_name,omitempty"`
	Relationship string `json:"relationship,omitempty"`

	Notes    string `gorm:"type:text" json:"notes,omitempty"`
	PhotoURL string `json:"photo_url,omitempty"`

	// Relationships
	Reminders []Reminder `gorm:"foreignKey:VisaID" json:"reminders,omitempty"`
}

func (v *Visa) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// DeriveStatus returns the lifecycle status implied by the expiry date at
// the given day-granularity reference time.
func (v *Visa) DeriveStatus(today time.Time) VisaStatus {
	expiry := time.Date(v.ExpiryDate.Year(), v.ExpiryDate.Month(), v.ExpiryDate.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if expiry.Before(day) {
		return VisaStatusExpired
	}
	return VisaStatusActive
}
