package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-slots/internal/audit"
	"github.com/BruksfildServices01/barber-slots/internal/models"
	"github.com/BruksfildServices01/barber-slots/internal/timezone"
)

type AuditReader interface {
	List(ctx context.Context, f audit.Filter) ([]models.AuditLog, int64, error)
}

type AuditLogsHandler struct {
	reader AuditReader
	log    *zap.Logger
}

func NewAuditLogsHandler(reader AuditReader, log *zap.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{reader: reader, log: log}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	f := audit.Filter{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	if from, err := timezone.ParseDate(c.Query("from")); err == nil {
		f.From = from
	}
	if to, err := timezone.ParseDate(c.Query("to")); err == nil {
		f.To = to.Add(24 * time.Hour)
	}

	logs, total, err := h.reader.List(c.Request.Context(), f)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(200, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}
