package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	httpapi "github.com/i474232898/weatherlink-live/internal/api/http"
	"github.com/i474232898/weatherlink-live/internal/config"
	"github.com/i474232898/weatherlink-live/internal/scheduler"
	"github.com/i474232898/weatherlink-live/internal/station"
	"github.com/i474232898/weatherlink-live/internal/store"
	"github.com/i474232898/weatherlink-live/internal/weatherlink/davis"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	configureLogger(log, cfg)

	// Shared HTTP client for device calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	memStore := store.NewMemoryStore()
	service, err := station.NewService(
		memStore,
		davis.NewClient(httpClient, cfg.HTTPTimeout),
		cfg.Stations,
		station.NewUnitPreference(cfg.UseMetric),
		station.Options{
			Backoff: station.BackoffConfig{
				MaxRetries:      cfg.FetchRetries,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
			IncludeUnknownFields: cfg.IncludeUnknownFields,
			Metrics:              station.NewMetrics(registry),
			Logger:               log,
		},
	)
	if err != nil {
		log.WithError(err).Fatal("failed to create station service")
	}

	for _, st := range cfg.Stations {
		log.WithFields(logrus.Fields{"station": st.Name, "endpoint": st.Endpoint()}).Info("polling station")
	}

	// Scheduler that periodically refreshes every station.
	sched := scheduler.New(service, cfg.PollInterval, cfg.PollInterval, log)
	if err := sched.Start(); err != nil {
		log.WithError(err).Fatal("failed to start scheduler")
	}
	defer sched.Stop()

	app := httpapi.NewApp()

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	httpapi.RegisterOps(app, registry)
	httpapi.RegisterRoutes(app, service, rate.NewLimiter(rate.Limit(cfg.RefreshRateLimit), 1))

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Error("fiber server stopped")
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.WithError(err).Error("error during shutdown")
	}
}

func configureLogger(log *logrus.Logger, cfg *config.AppConfig) {
	if cfg.LogFormat == "text" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Warn("invalid log level, using info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	log.SetOutput(os.Stdout)
}
