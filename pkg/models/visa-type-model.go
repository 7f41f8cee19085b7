package models

import (
	"time"
)

// VisaType is a read-only encyclopedia entry describing a visa category
// offered by a country, with trilingual names and descriptions. Entries
// are seeded at startup.
type VisaType struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Code    string `gorm:"uniqueIndex;not null" json:"code"`
	Country string `gorm:"not null;index" json:"country"`

	NameEN string `gorm:"not null" json:"name_en"`
	NameZH string `json:"name_zh,omitempty"`
	NameKM string `json:"name_km,omitempty"`

	DescriptionEN string `gorm:"type:text" json:"description_en,omitempty"`
	DescriptionZH string `gorm:"type:text" json:"description_zh,omitempty"`
	DescriptionKM string `gorm:"type:text" json:"description_km,omitempty"`

	// Required application materials per locale
	Materials JSON `gorm:"type:json" json:"materials,omitempty"`

	DurationDays       int     `json:"duration_days,omitempty"`
	ProcessingTimeDays int     `json:"processing_time_days,omitempty"`
	FeeUSD             float64 `json:"fee_usd,omitempty"`

	IsActive bool `gorm:"default:true" json:"is_active"`
}
