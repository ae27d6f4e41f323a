package dto

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentListDTO struct {
	ID            uuid.UUID  `json:"id"`
	Date          string     `json:"date"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       time.Time  `json:"end_time"`
	Status        string     `json:"status"`
	ClientID      *uuid.UUID `json:"client_id,omitempty"`
	ClientName    string     `json:"client_name"`
	ClientEmail   string     `json:"client_email"`
	ClientPhone   string     `json:"client_phone"`
	Guest         bool       `json:"guest"`
	Notes         string     `json:"notes,omitempty"`
	OutsideWindow bool       `json:"outside_window"`
}

type WindowDTO struct {
	Date                string `json:"date"`
	OpenTime            string `json:"open_time"`
	CloseTime           string `json:"close_time"`
	SlotDurationMinutes int    `json:"slot_duration_minutes"`
	Blocked             bool   `json:"blocked"`
}

// WindowChangeDTO answers availability edits. Warnings lists the active
// appointments left outside the new hours (every one, when the day is
// blocked); they are kept as booked.
type WindowChangeDTO struct {
	Window   *WindowDTO           `json:"window"`
	Warnings []AppointmentListDTO `json:"warnings"`
}

type MonthlyStatsDTO struct {
	Month     string `json:"month"`
	Total     int64  `json:"total_appointments"`
	Pending   int64  `json:"pending"`
	Confirmed int64  `json:"confirmed"`
	Cancelled int64  `json:"cancelled"`
}
