package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barber-slots/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-slots/internal/dto"
	"github.com/BruksfildServices01/barber-slots/internal/models"
	"github.com/BruksfildServices01/barber-slots/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

// ListAppointmentsInput selects one day (Date), one month (Month,
// YYYY-MM) or, with neither, every date. Date wins when both are set; at
// least one of Date, Month or Status is required.
type ListAppointmentsInput struct {
	Date   string
	Month  string
	Status string
}

// ======================================================
// USE CASE
// ======================================================

type ListAppointments struct {
	store  domain.AvailabilityStore
	ledger domain.Ledger
}

func NewListAppointments(
	store domain.AvailabilityStore,
	ledger domain.Ledger,
) *ListAppointments {
	return &ListAppointments{
		store:  store,
		ledger: ledger,
	}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	in ListAppointmentsInput,
) ([]dto.AppointmentListDTO, error) {

	filter, err := listFilter(in)
	if err != nil {
		return nil, err
	}

	aps, err := uc.ledger.ListAppointments(ctx, filter)
	if err != nil {
		return nil, err
	}

	outside, err := uc.outsideWindow(ctx, aps)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(aps))
	for i := range aps {
		item := ToListDTO(&aps[i])
		item.OutsideWindow = outside[aps[i].ID.String()]
		out = append(out, item)
	}
	return out, nil
}

func listFilter(in ListAppointmentsInput) (domain.ListFilter, error) {
	var f domain.ListFilter

	switch {
	case in.Date != "":
		day, err := timezone.ParseDate(in.Date)
		if err != nil {
			return f, domain.ErrInvalidDateOrTime
		}
		f.From, f.To = day, day.AddDate(0, 0, 1)
	case in.Month != "":
		first, err := timezone.ParseMonth(in.Month)
		if err != nil {
			return f, domain.ErrInvalidDateOrTime
		}
		f.From, f.To = first, first.AddDate(0, 1, 0)
	case in.Status == "":
		return f, domain.ErrInvalidDateOrTime
	}

	if in.Status != "" {
		st := domain.Status(in.Status)
		if !st.Valid() {
			return f, domain.ErrInvalidStatus
		}
		f.Status = st
	}
	return f, nil
}

// outsideWindow resolves each date's window once and returns the ids of
// active appointments that fall outside it.
func (uc *ListAppointments) outsideWindow(
	ctx context.Context,
	aps []models.Appointment,
) (map[string]bool, error) {

	byDate := map[string][]models.Appointment{}
	for _, ap := range aps {
		byDate[ap.Date] = append(byDate[ap.Date], ap)
	}

	flagged := map[string]bool{}
	for date, group := range byDate {
		wm, err := uc.store.GetWindow(ctx, date)
		if err != nil {
			return nil, err
		}

		var w *domain.Window
		if wm != nil {
			resolved, err := domain.WindowFromModel(wm)
			if err != nil {
				return nil, err
			}
			w = &resolved
		}

		for _, ap := range domain.OutsideWindow(w, group) {
			flagged[ap.ID.String()] = true
		}
	}
	return flagged, nil
}

func ToListDTO(ap *models.Appointment) dto.AppointmentListDTO {
	return dto.AppointmentListDTO{
		ID:          ap.ID,
		Date:        ap.Date,
		StartTime:   ap.StartTime,
		EndTime:     ap.EndTime,
		Status:      ap.Status,
		ClientID:    ap.ClientID,
		ClientName:  ap.ContactName(),
		ClientEmail: ap.ContactEmail(),
		ClientPhone: ap.ContactPhone(),
		Guest:       ap.ClientID == nil,
		Notes:       ap.Notes,
	}
}

// ToListDTOs converts appointments flagged as outside their window.
func ToListDTOs(aps []models.Appointment, outside bool) []dto.AppointmentListDTO {
	out := make([]dto.AppointmentListDTO, 0, len(aps))
	for i := range aps {
		item := ToListDTO(&aps[i])
		item.OutsideWindow = outside
		out = append(out, item)
	}
	return out
}
