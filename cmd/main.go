package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/angeloszaimis/dbtime-app/config"
	"github.com/angeloszaimis/dbtime-app/internal/database"
	"github.com/angeloszaimis/dbtime-app/internal/handler"
	"github.com/angeloszaimis/dbtime-app/internal/httpserver"
	"github.com/angeloszaimis/dbtime-app/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.Logging.Level, cfg.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("App stopped with error", slog.Any("err", err))
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	pool, err := newPool(cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	srv, err := httpserver.New(cfg.Address(), setupRouter(handler.NewTimeHandler(log, pool)))
	if err != nil {
		return err
	}

	if err := srv.Listen(); err != nil {
		return err
	}

	srvErrCh := make(chan error, 1)

	go func() {
		srvErrCh <- srv.Start()
	}()

	log.Info("App listening",
		slog.String("port", cfg.Port),
		slog.String("db_host", cfg.DB.Host),
		slog.String("db_name", cfg.DB.Name))

	select {
	case <-ctx.Done():
		log.Info("Stopping")
		return srv.Close()
	case err := <-srvErrCh:
		return err
	}
}

func newPool(cfg config.DatabaseConfig) (*database.Pool, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}

	return database.New(db, cfg.AcquireTimeoutDuration()), nil
}
