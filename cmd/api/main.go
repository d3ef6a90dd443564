package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/smiledental/clinic-platform/internal/agentlog"
	"github.com/smiledental/clinic-platform/internal/api/router"
	"github.com/smiledental/clinic-platform/internal/automation"
	"github.com/smiledental/clinic-platform/internal/booking"
	"github.com/smiledental/clinic-platform/internal/clinicdata"
	appconfig "github.com/smiledental/clinic-platform/internal/config"
	"github.com/smiledental/clinic-platform/internal/http/handlers"
	"github.com/smiledental/clinic-platform/internal/notify"
	"github.com/smiledental/clinic-platform/internal/observability/metrics"
	"github.com/smiledental/clinic-platform/internal/reconcile"
	"github.com/smiledental/clinic-platform/internal/whatsapp"
	"github.com/smiledental/clinic-platform/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting clinic-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"store_driver", cfg.StoreDriver,
	)

	repo, closeRepo, err := openRepository(cfg)
	if err != nil {
		logger.Error("failed to open document repository", "error", err)
		os.Exit(1)
	}
	defer closeRepo()

	doc, err := repo.Load(context.Background())
	if err != nil {
		logger.Error("failed to load clinic document", "error", err)
		os.Exit(1)
	}
	store := clinicdata.NewStore(doc)
	logger.Info("clinic document loaded",
		"appointments", len(doc.Appointments),
		"patients", len(doc.Patients),
		"doctors", len(doc.Doctors),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	clinicMetrics := metrics.NewClinicMetrics(registry)

	sink := agentlog.NewRingSink(logger)

	var messenger notify.Messenger
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		messenger = notify.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppFrom, logger)
		logger.Info("twilio messenger configured", "from", cfg.TwilioWhatsAppFrom)
	} else {
		logger.Info("twilio not configured, notifications run in simulation mode")
	}

	reconciler := reconcile.New(store, repo, messenger, sink, clinicMetrics, logger).
		WithInterval(cfg.ReconcileInterval)

	var trigger booking.AutomationTrigger
	if cfg.AutomationWebhookURL != "" {
		trigger = automation.NewTrigger(cfg.AutomationWebhookURL, logger)
	}

	bookings := booking.NewService(store, repo, trigger, reconciler, clinicMetrics, cfg.DefaultDoctor, logger)

	sessions, closeSessions, err := openSessionStore(cfg)
	if err != nil {
		logger.Error("failed to open session store", "error", err)
		os.Exit(1)
	}
	defer closeSessions()

	tracker := whatsapp.NewTracker(sessions, bookings, cfg.ClinicName, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		Appointments:       handlers.NewAppointmentsHandler(store, repo, bookings, logger),
		Patients:           handlers.NewPatientsHandler(store, repo, logger),
		Messages:           handlers.NewMessagesHandler(store, repo, logger),
		Doctors:            handlers.NewDoctorsHandler(store, repo, logger),
		Slots:              handlers.NewSlotsHandler(store),
		Health:             handlers.NewHealthHandler(reconciler, sink),
		WhatsApp:           whatsapp.NewHandler(tracker, cfg.TwilioWebhookSecret, cfg.PublicBaseURL, clinicMetrics, logger),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	go reconciler.Run(loopCtx)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	stopLoop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// openRepository selects the document backing from STORE_DRIVER.
func openRepository(cfg *appconfig.Config) (clinicdata.Repository, func(), error) {
	switch cfg.StoreDriver {
	case "bolt":
		repo, err := clinicdata.OpenBoltRepository(cfg.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil
	default:
		return clinicdata.NewFileRepository(cfg.DataFile), func() {}, nil
	}
}

// openSessionStore selects the conversation session backing from
// SESSION_STORE.
func openSessionStore(cfg *appconfig.Config) (whatsapp.SessionStore, func(), error) {
	if cfg.SessionStore != "redis" {
		return whatsapp.NewMemorySessionStore(cfg.SessionTTL), func() {}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return whatsapp.NewRedisSessionStore(client, cfg.SessionTTL), func() { _ = client.Close() }, nil
}
