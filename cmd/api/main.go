package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/katto-1204/upd-CROSSCERT/internal/certificates"
	"github.com/katto-1204/upd-CROSSCERT/internal/config"
	"github.com/katto-1204/upd-CROSSCERT/internal/events"
	"github.com/katto-1204/upd-CROSSCERT/internal/notifications"
	"github.com/katto-1204/upd-CROSSCERT/internal/participants"
	"github.com/katto-1204/upd-CROSSCERT/internal/reports"
	"github.com/katto-1204/upd-CROSSCERT/pkg/certpdf"
)

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

	// TranslateError maps driver duplicate-key errors onto
	// gorm.ErrDuplicatedKey, which the services rely on.
	db, err := gorm.Open(postgres.Open(cfg.Database.GetDatabaseURL()), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&events.Event{},
		&events.EventRegistration{},
		&events.CheckIn{},
		&participants.Evaluation{},
		&certificates.Certificate{},
	); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	mailer := notifications.NewMailerFromConfig(context.Background(), cfg.Email, logger)
	notifier := notifications.NewService(mailer, logger)
	renderer := certpdf.NewRenderer(certpdf.DefaultOptions())

	eventsRepo := events.NewRepository(db)
	certificatesRepo := certificates.NewRepository(db)
	participantsRepo := participants.NewRepository(db)

	eventsService := events.NewService(eventsRepo, notifier, logger, cfg.Frontend.BaseURL)
	certificatesService := certificates.NewService(certificatesRepo, eventsRepo, renderer, notifier, logger)
	participantsService := participants.NewService(participantsRepo, eventsRepo, certificatesService, logger)
	reportsService := reports.NewService(eventsRepo, participantsRepo, certificatesRepo, logger)

	eventsHandler := events.NewHandler(eventsService, logger)
	certificatesHandler := certificates.NewHandler(certificatesService, logger)
	participantsHandler := participants.NewHandler(participantsService, logger)
	reportsHandler := reports.NewHandler(reportsService, logger)

	if os.Getenv("APP_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// CORS Middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	api := router.Group("/api/v1")
	{
		eventsHandler.RegisterRoutes(api)
		certificatesHandler.RegisterRoutes(api)
		participantsHandler.RegisterRoutes(api)
		reportsHandler.RegisterRoutes(api)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
		})
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.Int("port", cfg.Server.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
