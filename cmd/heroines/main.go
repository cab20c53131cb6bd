package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/heroines-gacha/fights/internal/api"
	"github.com/heroines-gacha/fights/internal/constants"
	"github.com/heroines-gacha/fights/internal/logging"
	"github.com/heroines-gacha/fights/internal/service"
	"github.com/heroines-gacha/fights/internal/storage"
	"github.com/heroines-gacha/fights/internal/stream"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := loadConfigOrExit()
	catalog := loadCatalogOrExit(cfg.CatalogPath)
	db := openDatabaseOrExit(cfg.DatabasePath)

	hub := stream.NewHub()
	svc := service.New(service.Options{
		Repo:      storage.NewSQLiteRepository(db),
		States:    storage.NewSQLiteStateStore(db),
		Catalog:   catalog,
		Publisher: hub,
		StateTTL:  cfg.StateTTL,
		MediaURL:  cfg.MediaURL,
	})

	// Background sweeper: expired fight states are removed from the store;
	// their records stay and report the state as unavailable.
	startStateSweeper(ctx, svc, cfg.SweepInterval)

	router := api.NewRouter(api.NewFightHandler(svc, hub))
	srv := &http.Server{Addr: cfg.Addr, Handler: router}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Error("Server shutdown failed", err, nil)
		}
	}()

	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: cfg.Addr})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Fatal("Failed to start server", err, nil)
	}
	logging.Info("Server stopped", nil)
}
