package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Keoroanthony/go-customers/configs"
	"github.com/Keoroanthony/go-customers/internal/auth"
	"github.com/Keoroanthony/go-customers/internal/db"
	"github.com/Keoroanthony/go-customers/internal/handlers"
	"github.com/Keoroanthony/go-customers/internal/logging"
	"github.com/Keoroanthony/go-customers/internal/metrics"
	"github.com/Keoroanthony/go-customers/internal/middleware"
	"github.com/Keoroanthony/go-customers/internal/notifier"
	"github.com/Keoroanthony/go-customers/internal/server"
	"github.com/Keoroanthony/go-customers/internal/store"
)

const metricsNamespace = "customers"

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)
	gin.SetMode(gin.ReleaseMode)

	database, err := db.Open(cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	customers := store.NewGormCustomerStore(database)
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	deps := handlers.Deps{
		Store:    customers,
		Hasher:   hasher,
		Notifier: buildNotifier(ctx, logger, cfg),
		Metrics:  metrics.NewCustomers(metricsNamespace, registry),
		Log:      logger,
		Timeout:  cfg.HTTP.RequestTimeout,
	}

	router := server.NewRouter(logger, server.RouterDependencies{
		Customers:  handlers.NewCustomerHandler(deps),
		Admin:      handlers.NewAdminCustomerHandler(deps),
		Gate:       auth.NewGate(customers, hasher),
		Realm:      cfg.Auth.Realm,
		Prometheus: middleware.NewPrometheus(metricsNamespace, registry),
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("closing database failed", "error", err)
		}
	}
}

// buildNotifier enables each channel only when it is configured.
func buildNotifier(ctx context.Context, logger *slog.Logger, cfg config.Config) *notifier.Notifier {
	var email notifier.EmailSender
	if cfg.Email.Enabled() {
		ses, err := notifier.NewSESSender(ctx, cfg.Email, logger)
		if err != nil {
			logger.Warn("email notifications disabled", "error", err)
		} else {
			email = ses
		}
	}

	var sms notifier.SMSSender
	if cfg.AfricaTalking.Enabled() {
		sms = notifier.NewATSMSSender(cfg.AfricaTalking, logger)
	}

	logger.Info("notifications configured", "email", email != nil, "sms", sms != nil)
	return notifier.New(email, sms, logger)
}
