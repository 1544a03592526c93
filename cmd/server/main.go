package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arenalabs/quizarena-backend/internal/config"
	"github.com/arenalabs/quizarena-backend/internal/database"
	"github.com/arenalabs/quizarena-backend/internal/handler"
	"github.com/arenalabs/quizarena-backend/internal/logger"
	"github.com/arenalabs/quizarena-backend/internal/repository"
	"github.com/arenalabs/quizarena-backend/internal/router"
	"github.com/arenalabs/quizarena-backend/internal/service"
	"github.com/arenalabs/quizarena-backend/internal/validator"
	"github.com/arenalabs/quizarena-backend/internal/worker"
	"github.com/rs/zerolog"
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
		Msg("Starting QuizArena Backend")

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
	participantRepo := repository.NewParticipantRepository(pool)
	roundRepo := repository.NewRoundRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	submissionRepo := repository.NewSubmissionRepository(pool)
	testSessionRepo := repository.NewTestSessionRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	settingRepo := repository.NewSettingRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	events := service.NewEventPublisher(rdb)
	authService := service.NewAuthService(cfg, rdb)
	participantService := service.NewParticipantService(participantRepo, authService)
	adminService := service.NewAdminService(adminRepo, authService)
	roundService := service.NewRoundService(roundRepo, rdb)
	sessionService := service.NewSessionService(participantRepo, roundRepo, questionRepo, testSessionRepo, rdb, events)
	gradingService := service.NewGradingService(cfg, roundRepo, questionRepo, submissionRepo, events)
	validationService := service.NewValidationService(submissionRepo)
	resultService := service.NewResultService(roundRepo, settingRepo, submissionRepo)
	settingService := service.NewSettingService(settingRepo)
	questionService := service.NewQuestionService(roundRepo, questionRepo)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:        handler.NewAuthHandler(authService, participantService, adminService),
		Session:     handler.NewSessionHandler(sessionService, gradingService),
		Round:       handler.NewRoundHandler(roundService, sessionService),
		Question:    handler.NewQuestionHandler(questionService),
		Participant: handler.NewParticipantHandler(participantService, sessionService, authService),
		Validation:  handler.NewValidationHandler(validationService),
		Result:      handler.NewResultHandler(resultService),
		Setting:     handler.NewSettingHandler(settingService),
		Admin:       handler.NewAdminHandler(adminService),
		WS:          handler.NewWSHandler(rdb, log, cfg.AllowedOrigins),
		System:      handler.NewSystemHandler(rdb),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	monitorWorker := worker.NewMonitorWorker(rdb, log)
	go monitorWorker.Start(workerCtx)

	// ─── Prewarm Redis Caches ─────────────────────────────────────────
	// Load the active round's payload into Redis BEFORE accepting traffic
	// so a thundering herd of session starts hits a warm cache.
	if err := sessionService.PrewarmActiveRound(ctx); err != nil {
		log.Warn().Err(err).Msg("Cache prewarm failed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

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

	// 2. Stop background workers and wait for queues to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
