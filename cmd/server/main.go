package main

import (
	"context"
	"ctchen222/TicTacToe-Classic/internal/api/controller"
	"ctchen222/TicTacToe-Classic/internal/api/middleware"
	apirepository "ctchen222/TicTacToe-Classic/internal/api/repository"
	"ctchen222/TicTacToe-Classic/internal/api/service"
	"ctchen222/TicTacToe-Classic/internal/bot"
	"ctchen222/TicTacToe-Classic/internal/config"
	"ctchen222/TicTacToe-Classic/internal/db"
	"ctchen222/TicTacToe-Classic/internal/events"
	"ctchen222/TicTacToe-Classic/internal/hub"
	"ctchen222/TicTacToe-Classic/internal/logger"
	"ctchen222/TicTacToe-Classic/internal/repository"
	"ctchen222/TicTacToe-Classic/internal/server"
	"ctchen222/TicTacToe-Classic/internal/telemetry"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to a YAML config file; environment variables override it")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, cfg.Telemetry, cfg.ServerID)
	if err != nil {
		slog.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Error("Error shutting down telemetry", "error", err)
		}
	}()

	logger.Init(logger.Options{Level: cfg.LogLevel, ServerID: cfg.ServerID})

	if err := run(ctx, cfg); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	// Initialize Redis
	rdb, err := db.NewRedisClient(ctx, cfg.Redis.GetRedisAddr())
	if err != nil {
		return err
	}
	defer rdb.Close()

	// Initialize SQLite DB
	DB, err := db.InitializeDB(cfg.SQLiteStoragePath)
	if err != nil {
		return err
	}
	defer DB.Close()

	// Create repositories
	sessionRepo := repository.NewSessionRepository(rdb, cfg.Game.SessionTTL)
	playerRepo := repository.NewPlayerRepository(rdb)
	statsRepo := repository.NewStatsRepository(DB)
	userRepo := apirepository.NewUserRepository(DB)

	// Rooms share the goroutine-safe global random source.
	selector := bot.NewMoveCalculator(nil)

	// Create services
	userService := service.NewUserService(userRepo, cfg.JWTSecretKey)
	gameService := service.NewGameService(selector)
	statsService := service.NewStatsService(statsRepo, sessionRepo)

	// Create hub
	h := hub.NewHub(sessionRepo, playerRepo, statsRepo, events.NewRedisBus(rdb), selector, hub.Options{
		ServerID:          cfg.ServerID,
		ThinkDelay:        cfg.Game.AIThinkingDelay,
		HeartbeatInterval: cfg.Game.HeartbeatInterval,
	})
	go h.Run(ctx)

	// Create the Gin-based server
	srv := server.NewServer(h, cfg.StaticDir, server.Controllers{
		User:  controller.NewUserController(userService),
		Game:  controller.NewGameController(gameService),
		Stats: controller.NewStatsController(statsService),
		Auth:  middleware.Auth(userService),
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("http server started", "addr", cfg.HTTPAddr, "server.id", cfg.ServerID)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}

	slog.Info("Server exiting")
	return nil
}
