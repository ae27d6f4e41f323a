package models

import (
	"time"

	"github.com/google/uuid"
)

type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Date      string    `gorm:"size:10;index;not null" json:"date"`
	StartTime time.Time `gorm:"type:timestamp without time zone;not null" json:"start_time"`
	EndTime   time.Time `gorm:"type:timestamp without time zone;not null" json:"end_time"`

	// Registered client or guest snapshot, never both.
	ClientID   *uuid.UUID `gorm:"type:uuid;index" json:"client_id,omitempty"`
	Client     *Client    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client,omitempty"`
	GuestName  string     `gorm:"size:100" json:"guest_name,omitempty"`
	GuestEmail string     `gorm:"size:100" json:"guest_email,omitempty"`
	GuestPhone string     `gorm:"size:20" json:"guest_phone,omitempty"`

	Status string `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Notes  string `gorm:"size:255" json:"notes,omitempty"`

	CreatedAt       time.Time `json:"created_at"`
	StatusChangedAt time.Time `json:"status_changed_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ContactName, ContactEmail and ContactPhone resolve the requester's
// details whichever variant booked the appointment.
func (a *Appointment) ContactName() string {
	if a.Client != nil {
		return a.Client.Name
	}
	return a.GuestName
}

func (a *Appointment) ContactEmail() string {
	if a.Client != nil {
		return a.Client.Email
	}
	return a.GuestEmail
}

func (a *Appointment) ContactPhone() string {
	if a.Client != nil {
		return a.Client.Phone
	}
	return a.GuestPhone
}
