package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/conorfennell/playercards/internal/config"
	"github.com/conorfennell/playercards/internal/logging"
	"github.com/conorfennell/playercards/internal/storage"
	"github.com/conorfennell/playercards/internal/web"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		slog.Error("playercards stopped", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// 1. Load configuration from flags, file and environment
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	// 2. Open the database; the schema is created on open
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	logger.Info("Database opened successfully", "path", cfg.DBPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Seed default players
	if cfg.Seed.Enabled {
		if err := seedPlayers(ctx, db, cfg.Seed, logger); err != nil {
			return err
		}
	}

	// 4. Serve HTTP until interrupted
	server := &http.Server{
		Addr: cfg.Addr,
		Handler: web.NewServer(db, web.Options{
			CORSOrigins: cfg.CORS.Origins,
			RateLimit:   cfg.RateLimit,
			Debug:       cfg.Debug,
			Logger:      logger,
		}),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	logger.Info("playercards listening", "addr", cfg.Addr, "debug", cfg.Debug)

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	logger.Info("playercards stopped gracefully")
	return nil
}
