package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"clientdesk/internal/config"
	"clientdesk/internal/db"
	"clientdesk/internal/handlers"
	"clientdesk/internal/services"
	"clientdesk/internal/store"
	"clientdesk/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("load config", zap.Error(err))
	}

	logger := buildLogger(cfg)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func buildLogger(cfg config.Config) *zap.Logger {
	if cfg.Production() {
		logger, err := zap.NewProduction()
		if err != nil {
			os.Exit(1)
		}
		return logger
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		os.Exit(1)
	}
	return logger
}

func run(cfg config.Config, logger *zap.Logger) error {
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	txRunner := db.NewTxRunner(database)

	users := store.NewUserStore(database)
	admins := store.NewAdminStore(database)
	engagements := store.NewEngagementStore(database)
	payments := store.NewPaymentStore(database)
	hotlineStore := store.NewHotlineStore(database)
	audit := store.NewAuditStore(database)

	hub := websocket.NewHub()
	ledger := services.NewLedgerService(txRunner, engagements, payments, users, audit, logger)
	hotline := services.NewHotlineService(txRunner, users, hotlineStore, hub, logger)

	handler := handlers.New(cfg, logger, txRunner, users, admins, engagements, audit, ledger, hotline, hub)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
