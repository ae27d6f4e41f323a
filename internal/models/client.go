package models

import (
	"time"

	"github.com/google/uuid"
)

// Registered client. Rows are written by the auth service; this service
// only reads them to check eligibility and to address notifications.
type Client struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Email string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone string `gorm:"size:20" json:"phone"`

	EmailVerifiedAt *time.Time `json:"email_verified_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
