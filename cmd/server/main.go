package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pmmpclub/prep-backend/internal/config"
	"github.com/pmmpclub/prep-backend/internal/database"
	"github.com/pmmpclub/prep-backend/internal/handler"
	"github.com/pmmpclub/prep-backend/internal/logger"
	"github.com/pmmpclub/prep-backend/internal/qbank"
	"github.com/pmmpclub/prep-backend/internal/report"
	"github.com/pmmpclub/prep-backend/internal/router"
	"github.com/pmmpclub/prep-backend/internal/service"
	"github.com/pmmpclub/prep-backend/internal/session"
	"github.com/pmmpclub/prep-backend/internal/subjects"
	"github.com/pmmpclub/prep-backend/internal/validator"
	"github.com/pmmpclub/prep-backend/internal/websocket"
	"github.com/pmmpclub/prep-backend/internal/worker"
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
		Msg("Starting Prep Session Gateway")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Load Subject Catalog ──────────────────────────────────────────
	catalog, err := subjects.Load(cfg.SubjectsPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.SubjectsPath).Msg("Failed to load subjects")
	}
	log.Info().Int("subjects", len(catalog.All())).Msg("Subject catalog loaded")

	// ─── Initialize Session Machinery ──────────────────────────────────
	bankClient := qbank.NewClient(cfg.QuestionBankURL, cfg.QuestionBankWait, nil)
	reportStore := report.NewRedisStore(rdb, 0)
	hub := websocket.NewHub(log)

	controller := session.NewController(session.Options{
		Subjects:     catalog,
		Bank:         bankClient,
		Reports:      reportStore,
		Mirror:       session.NewRedisAnswerMirror(rdb),
		Notifier:     hub,
		Log:          log,
		Countdown:    time.Duration(cfg.CountdownSeconds) * time.Second,
		AdvanceDelay: cfg.AdvanceDelay,
	})

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Subject: handler.NewSubjectHandler(catalog, controller),
		Session: handler.NewSessionHandler(controller),
		Report:  handler.NewReportHandler(reportStore),
		WS:      handler.NewWSHandler(controller, hub, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	reaper := worker.NewReaperWorker(controller, cfg.SessionIdleTTL, time.Minute, log)
	go reaper.Start(workerCtx)

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

	// 2. Stop the reaper.
	workerCancel()

	log.Info().Msg("Shutdown complete")
}
