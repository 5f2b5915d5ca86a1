package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pawlink/pool-service/internal/app/background"
	"github.com/pawlink/pool-service/internal/app/setup"
	httpdelivery "github.com/pawlink/pool-service/internal/delivery/http"
	"github.com/pawlink/pool-service/internal/delivery/http/handlers"
	"github.com/pawlink/pool-service/internal/infrastructure/migrate"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}

	deps, err := setup.InitializeDependencies()
	if err != nil {
		log.Fatalf("failed to initialize dependencies: %v", err)
	}
	cfg := deps.Config

	if cfg.PoolDB.MigrationsPath != "" {
		if err := migrate.RunMigrations(deps.DB, cfg.PoolDB.MigrationsPath); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	usecases := setup.InitializeUsecases(deps)

	poolHandler := handlers.NewPoolHandler(usecases.Ledger)
	paymentHandler := handlers.NewPaymentHandler(usecases.Payment)
	disputeHandler := handlers.NewDisputeHandler(usecases.Dispute)
	adminHandler := handlers.NewAdminHandler(usecases.Admin, usecases.Dispute, usecases.Ledger)

	router := httpdelivery.NewRouter(poolHandler, paymentHandler, disputeHandler, adminHandler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tasks := background.NewBackgroundTasks(usecases.Payment, usecases.Ledger, cfg.Sweeps.PaymentExpiry, cfg.Sweeps.RefundRetry)
	tasks.StartAll(ctx)

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		slog.Info("pool service listening", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
