package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-slots/internal/audit"
	"github.com/BruksfildServices01/barber-slots/internal/config"
	domain "github.com/BruksfildServices01/barber-slots/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-slots/internal/handlers"
	"github.com/BruksfildServices01/barber-slots/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/barber-slots/internal/usecase/appointment"
)

// Deps are the process-wide collaborators built in main.
type Deps struct {
	Config      *config.Config
	Store       domain.AvailabilityStore
	Ledger      domain.Ledger
	Eligibility domain.Eligibility
	Notifier    domain.Notifier
	Cache       domain.SlotCache
	Audit       *audit.Dispatcher
	AuditReader handlers.AuditReader // nil without a database
	Clock       ucAppointment.Clock
	Log         *zap.Logger
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	effects := ucAppointment.Effects{
		Notifier: d.Notifier,
		Cache:    d.Cache,
		Audit:    d.Audit,
		Log:      d.Log,
	}

	// ======================================================
	// USE CASES
	// ======================================================
	freeSlotsUC := ucAppointment.NewGetAvailability(d.Store, d.Ledger, d.Cache, d.Clock, cfg.MinAdvanceMinutes)
	setAvailabilityUC := ucAppointment.NewSetAvailability(d.Store, effects)
	deleteAvailabilityUC := ucAppointment.NewDeleteAvailability(d.Store, effects)
	listAvailabilityUC := ucAppointment.NewListAvailability(d.Store)

	createBookingUC := ucAppointment.NewCreateBooking(d.Ledger, d.Eligibility, effects, d.Clock, cfg.MinAdvanceMinutes)
	confirmUC := ucAppointment.NewConfirmAppointment(d.Ledger, effects, d.Clock)
	cancelUC := ucAppointment.NewCancelAppointment(d.Ledger, effects, d.Clock)
	listAppointmentsUC := ucAppointment.NewListAppointments(d.Store, d.Ledger)
	statsUC := ucAppointment.NewMonthlyStats(d.Ledger, d.Clock)

	// ======================================================
	// HANDLERS
	// ======================================================
	availabilityHandler := handlers.NewAvailabilityHandler(
		freeSlotsUC,
		setAvailabilityUC,
		deleteAvailabilityUC,
		listAvailabilityUC,
		d.Log,
	)

	appointmentHandler := handlers.NewAppointmentHandler(
		createBookingUC,
		confirmUC,
		cancelUC,
		listAppointmentsUC,
		statsUC,
		d.Log,
	)

	authHandler := handlers.NewAuthHandler(cfg)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public")
		publicAPI.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMin, d.Log))
		{
			publicAPI.GET("/availability", availabilityHandler.FreeSlots)
			publicAPI.POST("/appointments", middleware.OptionalAuth(cfg.JWTSecret), appointmentHandler.Create)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/login", middleware.RateLimitMiddleware(cfg.RateLimitPerMin, d.Log), authHandler.Login)

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(cfg.JWTSecret), middleware.RequireRole(middleware.RoleAdmin))
		{
			admin.GET("/availability", availabilityHandler.List)
			admin.PUT("/availability/:date", availabilityHandler.Set)
			admin.DELETE("/availability/:date", availabilityHandler.Delete)

			admin.GET("/appointments", appointmentHandler.List)
			admin.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm)
			admin.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)

			admin.GET("/stats", appointmentHandler.Stats)

			if d.AuditReader != nil {
				auditLogsHandler := handlers.NewAuditLogsHandler(d.AuditReader, d.Log)
				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}

		// ------------------------------
		// REGISTERED CLIENT
		// ------------------------------
		me := api.Group("/me")
		me.Use(middleware.AuthMiddleware(cfg.JWTSecret), middleware.RequireRole(middleware.RoleClient))
		{
			me.PATCH("/appointments/:id/cancel", appointmentHandler.CancelMine)
		}
	}
}
