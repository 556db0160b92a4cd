package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/skilltracker/skilltracker-backend/internal/assessment"
	"github.com/skilltracker/skilltracker-backend/internal/config"
	"github.com/skilltracker/skilltracker-backend/internal/database"
	"github.com/skilltracker/skilltracker-backend/internal/handler"
	"github.com/skilltracker/skilltracker-backend/internal/logger"
	"github.com/skilltracker/skilltracker-backend/internal/middleware"
	"github.com/skilltracker/skilltracker-backend/internal/repository"
	"github.com/skilltracker/skilltracker-backend/internal/router"
	"github.com/skilltracker/skilltracker-backend/internal/service"
	"github.com/skilltracker/skilltracker-backend/internal/validator"
	"github.com/skilltracker/skilltracker-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting SkillTracker Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	cardRepo := repository.NewCardRepository(pool)
	languageRepo := repository.NewLanguageRepository(pool)
	resultRepo := repository.NewResultRepository(pool)
	completionRepo := repository.NewCompletionRepository(pool)
	textRepo := repository.NewTextRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	contestRepo := repository.NewContestRepository(pool)
	chatRepo := repository.NewChatRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, userRepo)
	userService := service.NewUserService(userRepo, resultRepo, completionRepo, log)
	geminiService, err := service.NewGeminiService(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Gemini client")
	}
	assessmentService := service.NewAssessmentService(questionRepo, cardRepo, completionRepo, rdb, log)
	questionService := service.NewQuestionService(questionRepo, assessmentService, geminiService)
	cardService := service.NewCardService(cardRepo)
	languageService := service.NewLanguageService(languageRepo)
	planService := service.NewPlanService(textRepo, resultRepo, rdb, geminiService, log)
	chatService := service.NewChatService(chatRepo, geminiService, log)
	notificationService := service.NewNotificationService(notificationRepo, rdb, log)
	contestService := service.NewContestService(contestRepo)

	// ─── Session Manager ──────────────────────────────────────────────
	manager := assessment.NewManager(assessment.Deps{
		Pool:        assessmentService,
		Cards:       assessmentService,
		Sink:        assessmentService,
		Completions: assessmentService,
		Scratch:     assessment.NewRedisScratch(rdb),
		Log:         log,
	})

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:          handler.NewAuthHandler(authService, userService),
		Assessment:    handler.NewAssessmentHandler(manager, assessmentService, userService),
		Plan:          handler.NewPlanHandler(planService),
		Chat:          handler.NewChatHandler(chatService),
		Notification:  handler.NewNotificationHandler(notificationService),
		Contest:       handler.NewContestHandler(contestService),
		Language:      handler.NewLanguageHandler(languageService, cardService),
		WS:            handler.NewWSHandler(manager, chatService, log, cfg.AllowedOrigins),
		AdminUser:     handler.NewAdminUserHandler(userService),
		AdminQuestion: handler.NewAdminQuestionHandler(questionService),
		AdminContent:  handler.NewAdminContentHandler(languageService, cardService, notificationService, contestService),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	resultWorker := worker.NewResultWorker(resultRepo, rdb, log)
	notifyWorker := worker.NewNotifyWorker(notificationRepo, userRepo, rdb, log)

	go resultWorker.Start(workerCtx)
	go notifyWorker.Start(workerCtx)

	// ─── Prewarm Redis Caches ─────────────────────────────────────────
	// Load every configured question pool into Redis BEFORE accepting
	// traffic, so first sessions skip the database.
	assessmentService.PrewarmPools(ctx)

	// ─── Setup Router ──────────────────────────────────────────────────
	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)
	r := router.SetupRouter(authService, handlers, authLimiter, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Detach live sessions. Countdown state stays in Redis, so every
	// session resumes where it left off after restart.
	manager.Shutdown()

	// 3. Stop background workers and wait for queues to drain.
	workerCancel()
	authLimiter.Stop()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
