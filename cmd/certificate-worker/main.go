package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/katto-1204/upd-CROSSCERT/internal/certificates"
	"github.com/katto-1204/upd-CROSSCERT/internal/config"
	"github.com/katto-1204/upd-CROSSCERT/internal/events"
	"github.com/katto-1204/upd-CROSSCERT/internal/notifications"
	"github.com/katto-1204/upd-CROSSCERT/pkg/certpdf"
)

// The certificate worker periodically sweeps completed events and issues
// certificates for registrations that became eligible without triggering the
// evaluation-time path (for example after an admin backfills attendance).
func main() {
	_ = godotenv.Load()

	logger, _ := zap.NewDevelopment()
	if os.Getenv("APP_ENV") == "production" {
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.GetDatabaseURL()), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	mailer := notifications.NewMailerFromConfig(context.Background(), cfg.Email, logger)
	notifier := notifications.NewService(mailer, logger)
	renderer := certpdf.NewRenderer(certpdf.DefaultOptions())

	eventsRepo := events.NewRepository(db)
	certificatesRepo := certificates.NewRepository(db)
	certificatesService := certificates.NewService(certificatesRepo, eventsRepo, renderer, notifier, logger)

	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.Worker.CertificateSchedule, func() {
		sweep(context.Background(), eventsRepo, certificatesService, logger)
	})
	if err != nil {
		logger.Fatal("Invalid certificate schedule", zap.String("schedule", cfg.Worker.CertificateSchedule), zap.Error(err))
	}

	scheduler.Start()
	logger.Info("Certificate worker started", zap.String("schedule", cfg.Worker.CertificateSchedule))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx := scheduler.Stop()
	<-ctx.Done()
	logger.Info("Certificate worker exiting")
}

func sweep(ctx context.Context, eventsRepo events.Repository, certificatesService *certificates.Service, logger *zap.Logger) {
	status := events.StatusCompleted
	completed, err := eventsRepo.ListEvents(ctx, &status)
	if err != nil {
		logger.Error("Failed to list completed events", zap.Error(err))
		return
	}

	for _, event := range completed {
		outcomes, err := certificatesService.IssueForEvent(ctx, event.ID)
		if err != nil {
			logger.Error("Batch issuance failed",
				zap.Uint("event_id", event.ID),
				zap.Error(err))
			continue
		}
		if len(outcomes) > 0 {
			logger.Info("Issued certificates",
				zap.Uint("event_id", event.ID),
				zap.Int("count", len(outcomes)))
		}
	}
}
