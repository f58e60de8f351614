package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/lumora/lumora-unlock-service/internal/app/background"
	"github.com/lumora/lumora-unlock-service/internal/app/setup"
	"github.com/lumora/lumora-unlock-service/internal/config"
	httpdelivery "github.com/lumora/lumora-unlock-service/internal/delivery/http"
	"github.com/lumora/lumora-unlock-service/internal/delivery/http/handlers"
	"github.com/lumora/lumora-unlock-service/internal/infrastructure/migrate"
	"github.com/lumora/lumora-unlock-service/internal/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()

	appLogger := logger.SetupLogger(cfg.LogConfig.LogLevel, cfg.LogConfig.LogFormat)

	deps, err := setup.InitializeDependencies(cfg)
	if err != nil {
		log.Fatalf("failed to init dependencies: %v", err)
	}

	if cfg.UnlockDB.MigrationsPath != "" {
		if err := migrate.RunMigrations(deps.DB, cfg.UnlockDB.MigrationsPath); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	useCases, err := setup.InitializeUseCases(deps)
	if err != nil {
		log.Fatalf("failed to init usecases: %v", err)
	}

	router := httpdelivery.NewRouter(httpdelivery.Handlers{
		Attempt:   handlers.NewAttemptHandler(useCases.AttemptUsecase),
		Smartlink: handlers.NewSmartlinkHandler(deps.Repositories.SmartlinkRepo),
		Referral:  handlers.NewReferralHandler(useCases.ReferralUsecase),
		Rewards:   handlers.NewRewardsHandler(useCases.LedgerUsecase),
	}, appLogger, cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tasks := background.NewBackgroundTasks(
		deps.Repositories.SmartlinkRepo,
		deps.Repositories.PendingRepo,
		deps.Repositories.ContentRepo,
		deps.Subscriber,
		deps.Metrics,
	)
	tasks.StartAll(ctx)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("failed to start server")
		}
	}()

	appLogger.WithField("addr", srv.Addr).Info("unlock service started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down...")

	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("server forced to shutdown")
	}

	if err := deps.Publisher.Close(); err != nil {
		appLogger.WithError(err).Error("failed to close kafka publisher")
	}

	appLogger.Info("server exited")
}
