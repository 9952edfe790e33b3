package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mrossi-dev/lesson-booking/internal/api/router"
	"github.com/mrossi-dev/lesson-booking/internal/booking"
	appconfig "github.com/mrossi-dev/lesson-booking/internal/config"
	"github.com/mrossi-dev/lesson-booking/internal/gcal"
	"github.com/mrossi-dev/lesson-booking/internal/notify"
	"github.com/mrossi-dev/lesson-booking/internal/observability/metrics"
	"github.com/mrossi-dev/lesson-booking/internal/scheduling"
	"github.com/mrossi-dev/lesson-booking/pkg/logging"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting lesson-booking API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("invalid timezone", "timezone", cfg.Timezone, "error", err)
		os.Exit(1)
	}

	grid, err := gridFromConfig(cfg)
	if err != nil {
		logger.Error("invalid slot grid configuration", "error", err)
		os.Exit(1)
	}

	// Calendar collaborator
	calendarAPI, err := gcal.NewClient(ctx, gcal.Credentials{
		CredentialsFile: cfg.GoogleCredentialsFile,
		TokenFile:       cfg.GoogleTokenFile,
	}, logger)
	if err != nil {
		logger.Error("failed to initialize calendar client", "error", err)
		os.Exit(1)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	schedulerMetrics := metrics.NewSchedulerMetrics(registry)
	bookingMetrics := metrics.NewBookingMetrics(registry)
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	// Notifications
	emailSender := buildEmailSender(ctx, cfg, logger)
	notifier := notify.NewService(emailSender, cfg.OperatorEmail, logger)

	// Services and handlers
	schedulingSvc := scheduling.NewService(calendarAPI, grid, location, schedulerMetrics, logger)
	schedulingHandler := scheduling.NewHandler(schedulingSvc, logger)

	bookingSvc := booking.NewService(calendarAPI, notifier, cfg.LessonsCalendarID, location, bookingMetrics, logger)
	bookingHandler := booking.NewHandler(bookingSvc, logger)

	// Setup router
	r := router.New(&router.Config{
		Logger:             logger,
		SchedulingHandler:  schedulingHandler,
		BookingHandler:     bookingHandler,
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

func gridFromConfig(cfg *appconfig.Config) (scheduling.Grid, error) {
	open, err := scheduling.ParseTimeOfDay(cfg.OpenTime)
	if err != nil {
		return scheduling.Grid{}, err
	}
	closeAt, err := scheduling.ParseTimeOfDay(cfg.CloseTime)
	if err != nil {
		return scheduling.Grid{}, err
	}
	if closeAt <= open {
		return scheduling.Grid{}, fmt.Errorf("close time %s is not after open time %s", cfg.CloseTime, cfg.OpenTime)
	}
	if cfg.SlotMinutes <= 0 {
		return scheduling.Grid{}, fmt.Errorf("slot length must be positive, got %d", cfg.SlotMinutes)
	}
	return scheduling.Grid{
		Open:       open,
		Close:      closeAt,
		SlotLength: time.Duration(cfg.SlotMinutes) * time.Minute,
	}, nil
}

// buildEmailSender picks the email provider from configuration. With no
// provider configured, notifications are logged but not sent.
func buildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		if sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); sender != nil {
			logger.Info("using SendGrid email sender", "from", cfg.SendGridFromEmail)
			return sender
		}
		logger.Warn("SendGrid selected but SENDGRID_API_KEY is empty, falling back to stub sender")
	case "ses":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Warn("failed to load AWS config, falling back to stub sender", "error", err)
			break
		}
		if sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger); sender != nil {
			logger.Info("using SES email sender", "from", cfg.SESFromEmail, "region", cfg.AWSRegion)
			return sender
		}
	}
	return notify.NewStubEmailSender(logger)
}
