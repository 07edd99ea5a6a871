package appServer

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tagwerk-app/reminder-service/config"
	repository "github.com/tagwerk-app/reminder-service/internal/database/postgres"
	redisrepo "github.com/tagwerk-app/reminder-service/internal/database/redis"
	"github.com/tagwerk-app/reminder-service/internal/service"
	"github.com/tagwerk-app/reminder-service/internal/transport"

	"github.com/tagwerk-app/reminder-service/pkg/postgres"
	"github.com/tagwerk-app/reminder-service/pkg/redis"
	"github.com/tagwerk-app/reminder-service/pkg/whatsapp"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.Idle_timeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)

	// Initialize database
	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run database migrations
	if err := postgres.RunMigrations(db); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	settingsRepo := repository.NewSettingsRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)

	// Initialize WhatsApp gateway
	var gateway service.Gateway
	if cfg.WhatsApp.Enabled && cfg.WhatsApp.APIURL != "" {
		gateway = whatsapp.NewClient(cfg.WhatsApp.APIURL, cfg.WhatsApp.Token)
		logrus.Info("WhatsApp gateway initialized")
	} else {
		logrus.Warn("WhatsApp gateway not configured, using log-only sender")
		gateway = logOnlyGateway{}
	}

	// Initialize optional redis dedupe cache
	var dedupeCache service.DedupeCache
	if cfg.Redis.Enabled {
		redisClient := redis.NewRedisClient(&cfg.Redis)
		defer redisClient.Close()
		dedupeCache = redisrepo.NewDedupeCache(redisClient, cfg.Reminder.DedupeTTL)
		logrus.Info("Redis dedupe cache initialized")
	}

	// Initialize services
	taskReminders := service.NewTaskReminderService(settingsRepo, taskRepo, projectRepo, deliveryRepo, gateway, dedupeCache)
	weeklyReviews := service.NewWeeklyReviewService(settingsRepo, taskRepo, goalRepo, deliveryRepo, gateway, dedupeCache)
	settingsService := service.NewSettingsService(settingsRepo)

	// Initialize handlers
	cronHandler := transport.NewCronHandler(taskReminders, weeklyReviews, cfg.Cron.Secret)
	settingsHandler := transport.NewSettingsHandler(settingsService)

	if cfg.Cron.Secret == "" {
		logrus.Warn("Cron secret not configured, reminder endpoints will refuse all requests")
	}

	// Setup HTTP server
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(cronHandler, settingsHandler, cfg.Auth.JWTSecret)); err != nil {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	if err := srv.Shutdown(context.Background()); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}

// logOnlyGateway stands in when no gateway is configured so local runs do
// not need WhatsApp credentials. Deliveries are still recorded as sent.
type logOnlyGateway struct{}

func (logOnlyGateway) SendMessage(_ context.Context, to, body string) error {
	logrus.WithFields(logrus.Fields{
		"to":  to,
		"len": len(body),
	}).Info("WhatsApp gateway disabled, message not dispatched")
	return nil
}
