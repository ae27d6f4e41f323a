package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-slots/internal/audit"
	"github.com/BruksfildServices01/barber-slots/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-slots/internal/db"
	domain "github.com/BruksfildServices01/barber-slots/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-slots/internal/eligibility"
	"github.com/BruksfildServices01/barber-slots/internal/infra/cache"
	"github.com/BruksfildServices01/barber-slots/internal/infra/memory"
	infraRepo "github.com/BruksfildServices01/barber-slots/internal/infra/repository"
	"github.com/BruksfildServices01/barber-slots/internal/jobs"
	"github.com/BruksfildServices01/barber-slots/internal/logger"
	"github.com/BruksfildServices01/barber-slots/internal/middleware"
	"github.com/BruksfildServices01/barber-slots/internal/notify"
	"github.com/BruksfildServices01/barber-slots/internal/routes"
	ucAppointment "github.com/BruksfildServices01/barber-slots/internal/usecase/appointment"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logger.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Sync() //nolint:errcheck
	zap.ReplaceGlobals(lg)

	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	deps := routes.Deps{
		Config: cfg,
		Clock:  ucAppointment.BusinessClock(cfg.BusinessTimezone),
		Log:    lg,
	}

	// ======================================================
	// STORAGE
	// ======================================================
	var (
		clients   eligibility.ClientLookup
		auditSink audit.Sink
	)

	switch cfg.Store {
	case config.StorePostgres:
		db, err := dbpkg.NewDB(cfg, lg)
		if err != nil {
			lg.Fatal("database", zap.Error(err))
		}
		if sqlDB, err := db.DB(); err == nil {
			closers = append(closers, func() { _ = sqlDB.Close() })
		}

		deps.Store = infraRepo.NewAvailabilityGormRepository(db)
		deps.Ledger = infraRepo.NewAppointmentGormRepository(db)
		clients = infraRepo.NewClientGormRepository(db)

		auditLogger := audit.New(db)
		auditSink = auditLogger
		deps.AuditReader = auditLogger

	case config.StoreMemory:
		store := memory.NewStore()
		deps.Store = store
		deps.Ledger = store
		clients = store
		auditSink = audit.NewZapSink(lg)
		lg.Warn("using in-memory store; data is lost on restart")
	}

	auditDispatcher := audit.NewDispatcher(auditSink, lg)
	closers = append(closers, auditDispatcher.Close)
	deps.Audit = auditDispatcher

	deps.Eligibility = eligibility.NewChecker(clients, cfg.EligibilityCheckMX)

	// ======================================================
	// SLOT CACHE
	// ======================================================
	deps.Cache = domain.NoopSlotCache{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			lg.Warn("redis unreachable, slot cache will miss until it recovers", zap.Error(err))
		}
		cancel()

		deps.Cache = cache.NewRedisSlotCache(rdb, cfg.SlotCacheTTL, lg)
		closers = append(closers, func() { _ = rdb.Close() })
	}

	// ======================================================
	// NOTIFICATIONS
	// ======================================================
	targets := []domain.Notifier{notify.NewLogNotifier(lg)}

	if cfg.SendGridAPIKey != "" {
		targets = append(targets, notify.NewEmailNotifier(cfg.SendGridAPIKey, cfg.SendGridFromEmail, cfg.SendGridFromName))
	}
	if cfg.TwilioAccountSID != "" {
		targets = append(targets, notify.NewWhatsAppNotifier(
			cfg.TwilioAccountSID,
			cfg.TwilioAuthToken,
			cfg.TwilioFromNumber,
			cfg.TwilioWhatsApp,
		))
	}
	if cfg.KafkaBrokers != "" {
		publisher := notify.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopicPrefix)
		targets = append(targets, publisher)
		closers = append(closers, func() { _ = publisher.Close() })
	}

	notifier := notify.NewDispatcher(lg, targets...)
	closers = append(closers, notifier.Close)
	deps.Notifier = notifier

	// ======================================================
	// JOBS
	// ======================================================
	if cfg.OrphanScanCron != "" {
		scan := jobs.NewOrphanScan(deps.Store, deps.Ledger, auditDispatcher, lg, jobs.OrphanScanConfig{
			Days: cfg.OrphanScanDays,
			Now:  deps.Clock,
		})
		runner, err := jobs.Schedule(cfg.OrphanScanCron, scan)
		if err != nil {
			lg.Fatal("orphan scan", zap.Error(err))
		}
		closers = append(closers, func() { <-runner.Stop().Done() })
	}

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(lg))
	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		lg.Info("server running", zap.String("addr", cfg.Addr()), zap.String("store", cfg.Store))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	lg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("graceful shutdown failed", zap.Error(err))
	}
}
