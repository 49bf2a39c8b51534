package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"

	"codeclass/internal/config"
	"codeclass/internal/database"
	"codeclass/internal/grading"
	"codeclass/internal/handlers"
	"codeclass/internal/live"
	"codeclass/internal/logging"
	"codeclass/internal/repository"
	"codeclass/internal/service"
	"codeclass/migrations"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg := config.Load()

	logging.Setup(cfg.RollbarToken, cfg.Env, version)
	defer logging.Flush()

	handlers.SetCurrentStep(handlers.StepDatabase)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()
	handlers.CompleteStep(handlers.StepDatabase)

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	handlers.SetCurrentStep(handlers.StepMigrations)
	if err := db.RunMigrations(migrationsFS(cfg)); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	handlers.CompleteStep(handlers.StepMigrations)

	log.Println("Migrations completed successfully")

	handlers.SetCurrentStep(handlers.StepServices)
	// Initialize repositories
	accountRepo := repository.NewAccountRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	classRepo := repository.NewClassRepository(db)
	roomRepo := repository.NewRoomRepository(db)

	emailService, err := service.NewEmailService(service.EmailConfig{
		Provider:       cfg.EmailProvider,
		AWSRegion:      cfg.AWSRegion,
		FromEmail:      cfg.SESFromEmail,
		FromName:       cfg.EmailFromName,
		SendgridAPIKey: cfg.SendgridAPIKey,
		AppBaseURL:     cfg.AppBaseURL,
		Debug:          cfg.Debug,
	})
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	grader := grading.NewClient(grading.Options{
		APIKey:  cfg.AIAPIKey,
		BaseURL: cfg.AIAPIURL,
		Model:   cfg.AIModel,
		Timeout: cfg.AITimeout,
	})
	if !grader.Enabled() {
		log.Println("AI grading disabled: AI_API_KEY not configured")
	}

	broker := live.NewBroker(live.DefaultBuffer)

	// Initialize services
	authService := service.NewAuthService(accountRepo, cfg, emailService, broker, cfg.SessionDuration)
	lessonService := service.NewLessonService(lessonRepo, broker)
	services := handlers.Services{
		Auth:       authService,
		Accounts:   service.NewAccountService(accountRepo, lessonRepo, roomRepo, emailService, broker),
		Lessons:    lessonService,
		Submission: service.NewSubmissionService(lessonService, accountRepo, grader, broker),
		Classes:    service.NewClassService(classRepo, broker),
		Rooms:      service.NewRoomService(roomRepo, cfg.RoomTicketSecret, broker),
		Backup:     service.NewBackupService(db),
		Broker:     broker,
	}
	handlers.CompleteStep(handlers.StepServices)

	router := handlers.NewRouter(services, handlers.RouterConfig{
		CSRFSecret: cfg.CSRFSecret,
		OAuthProviders: map[string]handlers.OAuthProvider{
			"google": handlers.GoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret),
		},
		OAuthRedirectBaseURL: cfg.OAuthRedirectBaseURL,
		AppBaseURL:           cfg.AppBaseURL,
		SetupHelpURL:         cfg.SetupHelpURL,
	})

	handlers.SetCurrentStep(handlers.StepScheduler)
	scheduler, err := startScheduler(authService)
	if err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	handlers.CompleteStep(handlers.StepScheduler)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost%s (version %s)", addr, version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()
	handlers.MarkReady()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	<-scheduler.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}

// migrationsFS prefers MIGRATIONS_PATH on disk over the embedded files
func migrationsFS(cfg *config.Config) fs.FS {
	if cfg.MigrationsPath != "" {
		return os.DirFS(cfg.MigrationsPath)
	}
	return migrations.FS
}

// startScheduler runs periodic maintenance jobs
func startScheduler(authService *service.AuthService) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc("@hourly", func() {
		removed, err := authService.CleanupExpiredSessions()
		if err != nil {
			logging.Error("Error cleaning up expired sessions", err)
			return
		}
		log.Printf("Expired sessions cleaned up: %d removed", removed)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
