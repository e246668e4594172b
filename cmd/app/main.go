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

	"marketplace/cmd"
	"marketplace/internal/adapters/out/postgres"

	"github.com/labstack/gommon/log"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	config, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB := mustOpenDatabase(ctx, config)

	app, err := cmd.NewCompositionRoot(ctx, config, gormDB, slogger)
	if err != nil {
		log.Fatalf("composition root: %v", err)
	}

	manager := app.NewJobManager()
	if err := manager.StartAll(); err != nil {
		log.Fatalf("background jobs: %v", err)
	}

	e := app.NewHTTPServer()
	go func() {
		slogger.Info("http server started", "port", config.HTTPPort)
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("http server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slogger.Error("http shutdown", "error", err)
	}
	manager.StopAll()
	if err := app.Close(shutdownCtx); err != nil {
		slogger.Error("close adapters", "error", err)
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func mustOpenDatabase(ctx context.Context, config cmd.Config) *gorm.DB {
	gormDB, err := gorm.Open(pgdriver.Open(config.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("connection to postgres through gorm: %v", err)
	}
	if err := postgres.Migrate(ctx, gormDB); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	return gormDB
}
