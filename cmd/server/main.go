package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"mockmate/internal/config"
	"mockmate/internal/handlers"
	"mockmate/internal/jobs"
	"mockmate/internal/llm"
	_ "mockmate/internal/llm/gemini"
	"mockmate/internal/metrics"
	"mockmate/internal/middleware"
	"mockmate/internal/models"
	"mockmate/internal/prompts"
	"mockmate/internal/repositories"
	"mockmate/internal/routers"
	"mockmate/internal/session"
	"mockmate/internal/storage"
	"mockmate/internal/transcribe"
)

func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := db.AutoMigrate(&models.User{}, &models.Interview{}, &models.Question{}); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func newObjectStore(cfg *config.Config, logger *zap.Logger) storage.ObjectStore {
	if cfg.StorageEndpoint == "" {
		logger.Warn("STORAGE_ENDPOINT not set, resumes are kept in memory only")
		return storage.NewMemoryStore("http://localhost:" + cfg.Port + "/resumes")
	}
	return storage.NewBucketClient(cfg.StorageEndpoint, cfg.StorageBucket, cfg.StorageAPIKey)
}

func registerRoutes(
	router *chi.Mux,
	authHandler *handlers.AuthHandler,
	interviewHandler *handlers.InterviewHandler,
	transcribeHandler *handlers.TranscribeHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	healthHandler *handlers.HealthHandler,
	liveHandler *session.LiveHandler,
	auth *middleware.Auth,
) {
	routers.HealthRoutes(router, healthHandler)
	routers.AuthRoutes(router, authHandler, auth)
	routers.InterviewRoutes(router, interviewHandler, transcribeHandler, liveHandler, auth)
	routers.AnalyticsRoutes(router, analyticsHandler, auth)
}

func main() {
	_ = godotenv.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	logger.Info("Configuration loaded", zap.String("provider", cfg.Provider))

	promptManager, err := prompts.NewPromptManager()
	if err != nil {
		logger.Fatal("Failed to initialize prompt manager", zap.Error(err))
	}

	aiProvider, err := llm.NewProvider(cfg.Provider)
	if err != nil {
		logger.Fatal("Failed to initialize AI provider", zap.Error(err))
	}

	db, err := initDatabase(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	interviewRepo := &repositories.InterviewRepository{DB: db}
	questionRepo := &repositories.QuestionRepository{DB: db}
	userRepo := &repositories.UserRepository{DB: db}

	sessions := repositories.NewRedisSessionStore(cfg.RedisAddr, cfg.RedisPassword)
	auth := &middleware.Auth{Secret: []byte(cfg.JWTSecret), Sessions: sessions}

	store := newObjectStore(cfg, logger)
	transcriber := transcribe.NewWhisperClient(cfg.TranscribeEndpoint, cfg.TranscribeAPIKey, cfg.TranscribeModel)

	authHandler := handlers.NewAuthHandler(userRepo, auth, logger)
	interviewHandler := handlers.NewInterviewHandler(
		interviewRepo, questionRepo, aiProvider, promptManager, store, logger, cfg.MaxResumeBytes)
	transcribeHandler := handlers.NewTranscribeHandler(transcriber, logger)
	analyticsHandler := handlers.NewAnalyticsHandler(interviewRepo, logger)
	healthHandler := handlers.NewHealthHandler(aiProvider, db, cfg)
	liveHandler := session.NewLiveHandler(
		session.RepoQuestionSource{Interviews: interviewRepo},
		session.RepoAnswerRecorder{Questions: questionRepo},
		interviewHandler,
		logger,
	)

	cleanupJob := jobs.NewResumeCleanupJob(store, interviewRepo, &jobs.ResumeCleanupConfig{
		Schedule: cfg.CleanupSchedule,
		Enabled:  cfg.CleanupEnabled,
	}, logger)
	if err := cleanupJob.Start(); err != nil {
		logger.Error("Failed to start resume cleanup job", zap.Error(err))
	}

	router := chi.NewRouter()

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	router.Use(chimiddleware.RequestID, chimiddleware.RealIP, chimiddleware.Logger, chimiddleware.Recoverer)
	router.Use(metrics.Middleware)

	registerRoutes(router, authHandler, interviewHandler, transcribeHandler, analyticsHandler, healthHandler, liveHandler, auth)
	router.Handle("/metrics", metrics.Handler())

	// Everything else is the static frontend, gated so protected pages
	// redirect to /login without a valid session.
	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "./web"
	}
	router.Handle("/*", auth.GatePages(http.FileServer(http.Dir(staticDir))))

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("Shutting down...")
	cleanupJob.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
