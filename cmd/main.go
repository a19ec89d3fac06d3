package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/RGPankO/ZapArc-sub002/internal/api"
	"github.com/RGPankO/ZapArc-sub002/internal/config"
	"github.com/RGPankO/ZapArc-sub002/internal/registry"
	"github.com/RGPankO/ZapArc-sub002/internal/repository"
	"github.com/RGPankO/ZapArc-sub002/internal/service"
	"github.com/RGPankO/ZapArc-sub002/internal/telemetry"
	"github.com/RGPankO/ZapArc-sub002/internal/wallet"
)

func main() {
	// .env is optional; real deployments use the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	if err := telemetry.Init("payment-engine"); err != nil {
		panic(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	}
	defer telemetry.Shutdown(context.Background())

	telemetry.Logger.Info("Starting Payment Engine")

	// Open local payment history store
	db, err := sql.Open("sqlite", cfg.DatabasePath)
	if err != nil {
		telemetry.Logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()
	// sqlite allows a single writer; serialize access through one connection
	db.SetMaxOpenConns(1)

	repo := repository.NewPaymentHistoryRepository(db)
	if err := repo.InitDB(); err != nil {
		telemetry.Logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	// Registry and retention janitor
	reg := registry.New(cfg.RetentionWindow, cfg.FailedRetention, telemetry.Logger)
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go reg.RunJanitor(janitorCtx, cfg.RetentionWindow/4)

	// The demo binary runs against the simulated wallet; swapping in a real
	// SDK is a matter of passing another interfaces.WalletSDK here.
	sdk := wallet.NewSimulator(1_000_000)

	engine := service.NewEngine(cfg, sdk, reg, repo, telemetry.Logger)

	r := api.NewRouter(engine, repo)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		telemetry.Logger.Info("Payment Engine starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			telemetry.Logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	telemetry.Logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		telemetry.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	telemetry.Logger.Info("Server exited")
}
