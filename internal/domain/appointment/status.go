package appointment

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// ===============================
// Transitions
// ===============================

// CanConfirm allows pending → confirmed only. Confirming twice is an error
// so a repeated admin click is surfaced instead of silently accepted.
func CanConfirm(current Status) error {
	if current != StatusPending {
		return ErrInvalidTransition
	}
	return nil
}

// CanCancel allows pending → cancelled and confirmed → cancelled.
func CanCancel(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return ErrInvalidTransition
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}
