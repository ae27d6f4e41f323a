package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-slots/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-slots/internal/httperr"
	"github.com/BruksfildServices01/barber-slots/internal/httpresp"
	"github.com/BruksfildServices01/barber-slots/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/barber-slots/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create  *ucAppointment.CreateBooking
	confirm *ucAppointment.ConfirmAppointment
	cancel  *ucAppointment.CancelAppointment
	list    *ucAppointment.ListAppointments
	stats   *ucAppointment.MonthlyStats
	log     *zap.Logger
}

func NewAppointmentHandler(
	create *ucAppointment.CreateBooking,
	confirm *ucAppointment.ConfirmAppointment,
	cancel *ucAppointment.CancelAppointment,
	list *ucAppointment.ListAppointments,
	stats *ucAppointment.MonthlyStats,
	log *zap.Logger,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:  create,
		confirm: confirm,
		cancel:  cancel,
		list:    list,
		stats:   stats,
		log:     log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

// CreateAppointmentRequest carries guest details unless the caller is a
// signed-in client, in which case they are ignored.
type CreateAppointmentRequest struct {
	Date       string `json:"date" binding:"required"`
	Time       string `json:"time" binding:"required"`
	GuestName  string `json:"guest_name"`
	GuestEmail string `json:"guest_email"`
	GuestPhone string `json:"guest_phone"`
	Notes      string `json:"notes" binding:"max=255"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	var requester domain.Requester
	if clientID, ok := middleware.ClientID(c); ok {
		requester = domain.RegisteredClient{ID: clientID}
	} else {
		requester = domain.GuestDetails{
			Name:  req.GuestName,
			Email: strings.ToLower(strings.TrimSpace(req.GuestEmail)),
			Phone: req.GuestPhone,
		}
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateBookingInput{
		Date:      req.Date,
		Time:      req.Time,
		Requester: requester,
		Notes:     strings.TrimSpace(req.Notes),
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.Created(c, ucAppointment.ToListDTO(ap))
}

// ======================================================
// TRANSITIONS
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	ap, err := h.confirm.Execute(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, ucAppointment.ToListDTO(ap))
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := appointmentID(c)
	if !ok {
		return
	}

	ap, err := h.cancel.Execute(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, ucAppointment.ToListDTO(ap))
}

func (h *AppointmentHandler) CancelMine(c *gin.Context) {
	clientID, ok := middleware.ClientID(c)
	if !ok {
		httperr.Forbidden(c, "forbidden", "Solo clientes registrados.")
		return
	}

	id, ok := appointmentID(c)
	if !ok {
		return
	}

	ap, err := h.cancel.ExecuteForClient(c.Request.Context(), clientID, id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, ucAppointment.ToListDTO(ap))
}

// ======================================================
// LIST / STATS
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	rows, err := h.list.Execute(c.Request.Context(), ucAppointment.ListAppointmentsInput{
		Date:   c.Query("date"),
		Month:  c.Query("month"),
		Status: c.Query("status"),
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.List(c, rows)
}

func (h *AppointmentHandler) Stats(c *gin.Context) {
	stats, err := h.stats.Execute(c.Request.Context(), c.Query("month"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, stats)
}

func appointmentID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return uuid.Nil, false
	}
	return id, true
}
