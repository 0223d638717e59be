package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/signcare/internal/config"
	"github.com/mamadbah2/signcare/internal/expiry"
	"github.com/mamadbah2/signcare/internal/metrics"
	"github.com/mamadbah2/signcare/internal/repository"
	"github.com/mamadbah2/signcare/internal/scheduler"
	"github.com/mamadbah2/signcare/internal/server/handlers"
	"github.com/mamadbah2/signcare/internal/server/router"
	calendarsvc "github.com/mamadbah2/signcare/internal/service/calendar"
	monitoringsvc "github.com/mamadbah2/signcare/internal/service/monitoring"
	"github.com/mamadbah2/signcare/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level, cfg.Log.Format))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	location, err := time.LoadLocation(cfg.Expiry.Timezone)
	if err != nil {
		baseLogger.Fatal("failed to load timezone", zap.Error(err))
	}

	source, closeSource, err := repository.Open(context.Background(), cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init record source", zap.String("source", cfg.Source.Kind), zap.Error(err))
	}
	defer func() {
		if err := closeSource(context.Background()); err != nil {
			baseLogger.Error("failed to close record source", zap.Error(err))
		}
	}()

	engine := expiry.New(
		expiry.WithDefaultYears(cfg.Expiry.DefaultYears),
		expiry.WithDefaultHook(metrics.RecordDefaultedClass),
		expiry.WithLogger(baseLogger.Named("expiry")),
	)

	monitoringSvc := monitoringsvc.NewService(source, engine, baseLogger.Named("svc.monitoring"))
	calendarSvc := calendarsvc.NewService(source, location, baseLogger.Named("svc.calendar"))

	sched, err := scheduler.NewScheduler(cfg.Expiry, monitoringSvc, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	expiryHandler := handlers.NewExpiryHandler(monitoringSvc, sched, baseLogger.Named("handlers.expiry"))
	calendarHandler := handlers.NewCalendarHandler(calendarSvc, baseLogger.Named("handlers.calendar"))
	httpEngine := router.New(expiryHandler, calendarHandler, baseLogger.Named("router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httpEngine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("source", cfg.Source.Kind),
			zap.String("digest_schedule", cfg.Expiry.CronSchedule))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
