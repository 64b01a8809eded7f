package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abiatech/salesdeck-bff-go/internal/config"
	"github.com/abiatech/salesdeck-bff-go/internal/handler"
	"github.com/abiatech/salesdeck-bff-go/internal/infra/client"
	"github.com/abiatech/salesdeck-bff-go/internal/infra/observability"
	"github.com/abiatech/salesdeck-bff-go/internal/infra/resilience"
	"github.com/abiatech/salesdeck-bff-go/internal/service"
	"github.com/abiatech/salesdeck-bff-go/internal/session"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("sales_api_url", cfg.SalesAPIURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("dashboard_poll_interval", cfg.DashboardPollInterval),
		zap.Duration("strategy_poll_interval", cfg.StrategyPollInterval),
		zap.Duration("inventory_poll_interval", cfg.InventoryPollInterval),
		zap.Float64("monthly_revenue_goal", cfg.MonthlyRevenueGoal),
	)

	// --- Tracing ---
	shutdownTracer, err := observability.InitTracer(cfg.OTLPEndpoint, "salesdeck-bff")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdownTracer(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("sales-api")

	// --- Clients ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	salesAPI := client.NewSalesAPIClient(httpClient, cfg.SalesAPIURL, cb, resilienceCfg, metrics)

	// --- Session store ---
	sessions, err := session.NewStore(cfg.SessionDir, salesAPI, logger)
	if err != nil {
		logger.Fatal("failed to open session store", zap.Error(err))
	}

	rootCtx, cancelRoot := context.WithCancel(context.Background())
	defer cancelRoot()

	go func() {
		if err := sessions.Watch(rootCtx); err != nil && err != context.Canceled {
			logger.Warn("session watcher exited", zap.Error(err))
		}
	}()

	// --- Services ---
	dashSvc := service.NewDashboardService(salesAPI, cfg, metrics, logger)
	mutSvc := service.NewMutationService(salesAPI, metrics, logger, dashSvc.RefreshInventory)
	authSvc := service.NewAuthService(sessions, dashSvc.GoalProgress, logger)

	// --- Warm-up (soft: failures are logged, serving starts regardless) ---
	warmCtx, cancelWarm := context.WithTimeout(rootCtx, cfg.HTTPTimeout)
	g, gctx := errgroup.WithContext(warmCtx)
	g.Go(func() error { return dashSvc.WarmBestSellers(gctx) })
	g.Go(func() error { return mutSvc.SyncPipeline(gctx) })
	if err := g.Wait(); err != nil {
		logger.Warn("warm-up incomplete", zap.Error(err))
	}
	cancelWarm()

	// --- Pollers ---
	dashSvc.Start(rootCtx)
	defer dashSvc.Stop()

	// --- Router ---
	router := handler.NewRouter(dashSvc, mutSvc, authSvc, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	dashSvc.Stop()
	cancelRoot()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
