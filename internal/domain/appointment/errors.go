package appointment

import "github.com/BruksfildServices01/barber-slots/internal/httperr"

var (
	ErrInvalidDateOrTime = httperr.ErrValidation("invalid_date_or_time")
	ErrInvalidWindow     = httperr.ErrValidation("invalid_window")
	ErrInvalidRequester  = httperr.ErrValidation("invalid_requester")
	ErrInvalidStatus     = httperr.ErrValidation("invalid_status")
	ErrTooSoon           = httperr.ErrValidation("too_soon")

	ErrSlotNotAvailable  = httperr.ErrConflict("slot_not_available")
	ErrInvalidTransition = httperr.ErrConflict("invalid_transition")

	ErrNoWindow            = httperr.ErrNotFound("invalid_window")
	ErrAppointmentNotFound = httperr.ErrNotFound("appointment_not_found")

	ErrRequesterIneligible = httperr.ErrForbidden("requester_ineligible")
)
