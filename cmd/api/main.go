package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fleetscope/fleetscope/internal/api/handlers"
	"github.com/fleetscope/fleetscope/internal/api/router"
	infraws "github.com/fleetscope/fleetscope/internal/aws"
	"github.com/fleetscope/fleetscope/internal/config"
	"github.com/fleetscope/fleetscope/internal/pkg/logger"
	"github.com/fleetscope/fleetscope/internal/pkg/validator"
	"github.com/fleetscope/fleetscope/internal/repository/postgres"
	"github.com/fleetscope/fleetscope/internal/services"
	"github.com/fleetscope/fleetscope/migrations"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fleetscope-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	db, err := postgres.New(cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db, migrations.GetFS()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	log.Info("Migrations applied")

	accountRepo := postgres.NewAccountRepository(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	federator, err := infraws.NewFederator(ctx, cfg.AWS, log)
	if err != nil {
		return fmt.Errorf("initializing federator: %w", err)
	}
	clientFactory := infraws.NewClientFactory()

	accountService := services.NewAccountService(accountRepo, log)
	verifier := services.NewVerifierService(accountRepo, federator, clientFactory, cfg.AWS, log)
	aggregator := services.NewAggregatorService(accountRepo, federator, clientFactory, cfg.AWS, log)

	val := validator.New()
	h := &router.Handlers{
		Health:    handlers.NewHealthHandler(db, log),
		Account:   handlers.NewAccountHandler(accountService, verifier, log, val),
		Inventory: handlers.NewInventoryHandler(aggregator, log),
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.New(cfg, log, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("API server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
