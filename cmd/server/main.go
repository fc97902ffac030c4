package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Simplici0/batteryprice/internal/config"
	"github.com/Simplici0/batteryprice/internal/db"
	"github.com/Simplici0/batteryprice/internal/migrations"
	"github.com/Simplici0/batteryprice/internal/pricing"
	"github.com/Simplici0/batteryprice/internal/seed"
	"github.com/Simplici0/batteryprice/internal/store"
)

func main() {
	cfg := config.Load()
	logger := config.NewLogger(cfg.LogLevel, os.Stdout)
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

func run(cfg config.Config, logger *logrus.Logger) error {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := migrations.Up(database, logger); err != nil {
		return err
	}

	catalog := pricing.DefaultCatalog()
	if cfg.SeedDemo {
		stats, err := seed.Run(database, seed.Config{Branches: catalog.Branches})
		if err != nil {
			return err
		}
		logger.WithField("inserts", stats.Inserts).Info("demo catalog seeded")
	}

	engine, err := pricing.NewEngine(catalog, cfg.MatrixCacheSize)
	if err != nil {
		return err
	}

	srv := newServer(store.New(database, catalog.Branches), engine, logger)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{"addr": httpServer.Addr, "db": cfg.DBPath, "env": cfg.Env}).Info("listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return httpServer.Shutdown(shutdownCtx)
}
