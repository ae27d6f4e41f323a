package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-slots/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-slots/internal/dto"
	"github.com/BruksfildServices01/barber-slots/internal/httpresp"
	"github.com/BruksfildServices01/barber-slots/internal/middleware"
	"github.com/BruksfildServices01/barber-slots/internal/models"
	ucAppointment "github.com/BruksfildServices01/barber-slots/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AvailabilityHandler struct {
	freeSlots *ucAppointment.GetAvailability
	set       *ucAppointment.SetAvailability
	remove    *ucAppointment.DeleteAvailability
	list      *ucAppointment.ListAvailability
	log       *zap.Logger
}

func NewAvailabilityHandler(
	freeSlots *ucAppointment.GetAvailability,
	set *ucAppointment.SetAvailability,
	remove *ucAppointment.DeleteAvailability,
	list *ucAppointment.ListAvailability,
	log *zap.Logger,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		freeSlots: freeSlots,
		set:       set,
		remove:    remove,
		list:      list,
		log:       log,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type SetAvailabilityRequest struct {
	OpenTime            string `json:"open_time" binding:"required"`
	CloseTime           string `json:"close_time" binding:"required"`
	SlotDurationMinutes int    `json:"slot_duration_minutes"`
	Blocked             bool   `json:"blocked"`
}

// ======================================================
// PUBLIC
// ======================================================

func (h *AvailabilityHandler) FreeSlots(c *gin.Context) {
	date := c.Query("date")

	slots, err := h.freeSlots.Execute(c.Request.Context(), date)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, gin.H{
		"date":  date,
		"slots": slots,
	})
}

// ======================================================
// ADMIN
// ======================================================

func (h *AvailabilityHandler) Set(c *gin.Context) {
	var req SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	change, err := h.set.Execute(c.Request.Context(), middleware.Actor(c), domain.AvailabilityInput{
		Date:                c.Param("date"),
		OpenTime:            req.OpenTime,
		CloseTime:           req.CloseTime,
		SlotDurationMinutes: req.SlotDurationMinutes,
		Blocked:             req.Blocked,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, toWindowChangeDTO(change))
}

func (h *AvailabilityHandler) Delete(c *gin.Context) {
	change, err := h.remove.Execute(c.Request.Context(), middleware.Actor(c), c.Param("date"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	httpresp.OK(c, toWindowChangeDTO(change))
}

func (h *AvailabilityHandler) List(c *gin.Context) {
	windows, err := h.list.Execute(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	out := make([]dto.WindowDTO, 0, len(windows))
	for i := range windows {
		out = append(out, *toWindowDTO(&windows[i]))
	}
	httpresp.List(c, out)
}

func toWindowDTO(w *models.AvailabilityWindow) *dto.WindowDTO {
	if w == nil {
		return nil
	}
	return &dto.WindowDTO{
		Date:                w.Date,
		OpenTime:            w.OpenTime,
		CloseTime:           w.CloseTime,
		SlotDurationMinutes: w.SlotDurationMinutes,
		Blocked:             w.Blocked,
	}
}

func toWindowChangeDTO(change *ucAppointment.WindowChange) dto.WindowChangeDTO {
	return dto.WindowChangeDTO{
		Window:   toWindowDTO(change.Window),
		Warnings: ucAppointment.ToListDTOs(change.Outside, true),
	}
}
