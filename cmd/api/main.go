package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/culinary-delights/backend/config"
	"github.com/pageza/culinary-delights/backend/internal/database"
	"github.com/pageza/culinary-delights/backend/internal/logging"
	"github.com/pageza/culinary-delights/backend/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logFile, logger, err := setupLogging(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging setup error: %v\n", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}
	slog.SetDefault(logger)
	logger.Info("logging initialized",
		slog.String("environment", string(cfg.Environment)),
		slog.String("level", cfg.LogLevel),
		slog.String("format", cfg.LogFormat),
		slog.String("directory", cfg.LogDir),
	)

	var rdb *redis.Client
	if cfg.RedisEnabled() && cfg.RateLimitRequests > 0 {
		rdb, err = database.NewRedisClient(context.Background(), cfg, logger)
		if err != nil {
			// The in-process limiter still protects this instance.
			logger.Warn("Redis unavailable, falling back to in-process rate limiting", slog.Any("error", err))
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	srv, err := server.New(cfg, server.Deps{Logger: logger, Redis: rdb})
	if err != nil {
		logger.Error("server setup failed", slog.Any("error", err))
		os.Exit(1)
	}

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		return
	case sig := <-quit:
		logger.Info("received signal", slog.String("signal", sig.String()))
	}

	logger.Info("shutting down server")
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// setupLogging writes to stdout and, when LOG_DIR is set, to a daily file in
// that directory as well.
func setupLogging(cfg *config.Config) (*os.File, *slog.Logger, error) {
	var (
		writer io.Writer = os.Stdout
		file   *os.File
	)
	if cfg.LogDir != "" {
		var err error
		file, err = logging.OpenDailyFile(cfg.LogDir, time.Now())
		if err != nil {
			return nil, nil, err
		}
		writer = io.MultiWriter(os.Stdout, file)
	}

	logger := logging.New(writer, logging.Config{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		AddSource: !cfg.IsProduction(),
	})
	log.SetOutput(writer)
	log.SetFlags(0)
	log.SetPrefix("")

	return file, logger, nil
}
