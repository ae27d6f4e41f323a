package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barber-slots/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-slots/internal/httperr"
)

var messages = map[string]string{
	"invalid_date_or_time":  "Fecha u hora inválida.",
	"invalid_window":        "Horario de atención inválido.",
	"invalid_requester":     "Datos de contacto incompletos o inválidos.",
	"invalid_status":        "Estado inválido.",
	"too_soon":              "El turno debe reservarse con más anticipación.",
	"slot_not_available":    "El horario ya no está disponible.",
	"invalid_transition":    "El turno no admite ese cambio de estado.",
	"appointment_not_found": "Turno no encontrado.",
	"requester_ineligible":  "No podés reservar turnos con esta cuenta.",
}

// writeError answers business errors with their kind's status and logs
// everything else as a 500.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	var be httperr.BusinessError
	if errors.As(err, &be) {
		msg := messages[be.Code]
		if errors.Is(err, domain.ErrNoWindow) {
			msg = "No hay horarios configurados para esa fecha."
		}
		httperr.Write(c, httperr.StatusFor(be.Kind), be.Code, msg)
		return
	}

	log.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	httperr.Internal(c, "internal_error", "Error interno.")
}

func badRequest(c *gin.Context) {
	httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
}
