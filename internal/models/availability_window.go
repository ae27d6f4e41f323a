package models

import "time"

// AvailabilityWindow is the administrator's opening hours for one calendar day.
type AvailabilityWindow struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Date string `gorm:"size:10;uniqueIndex;not null" json:"date"` // YYYY-MM-DD

	OpenTime            string `gorm:"size:5;not null" json:"open_time"`  // HH:MM
	CloseTime           string `gorm:"size:5;not null" json:"close_time"` // HH:MM
	SlotDurationMinutes int    `gorm:"not null;default:60" json:"slot_duration_minutes"`

	// Blocked closes the day for booking while keeping its hours.
	Blocked bool `gorm:"not null;default:false" json:"blocked"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
