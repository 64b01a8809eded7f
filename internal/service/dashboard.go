// Package service implements the BFF's use cases on top of the sync layer:
// the polled views, the mutation coordinator and the session facade.
package service

import (
	"context"
	"time"

	"github.com/abiatech/salesdeck-bff-go/internal/config"
	"github.com/abiatech/salesdeck-bff-go/internal/domain"
	"github.com/abiatech/salesdeck-bff-go/internal/forecast"
	"github.com/abiatech/salesdeck-bff-go/internal/infra/cache"
	"github.com/abiatech/salesdeck-bff-go/internal/infra/observability"
	"github.com/abiatech/salesdeck-bff-go/internal/live"
	"github.com/abiatech/salesdeck-bff-go/internal/port"
	"github.com/abiatech/salesdeck-bff-go/internal/view"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("salesdeck-bff/service")

const bestSellersKey = "best_sellers"

// DashboardService owns the three polled views. Each view has its own
// poller and its own copy of the upstream state; the strategy and dashboard
// views poll the same endpoint on different cadences and never share data.
type DashboardService struct {
	api     port.SalesAPI
	cfg     *config.Config
	metrics *observability.Metrics
	logger  *zap.Logger

	dashboard *live.Poller[*domain.Snapshot]
	strategy  *live.Poller[*domain.Snapshot]
	inventory *live.Poller[[]domain.InventoryItem]

	bestSellers *cache.InMemory[[]domain.BestSeller]
}

// NewDashboardService wires the pollers. Nothing fetches until Start.
func NewDashboardService(api port.SalesAPI, cfg *config.Config, metrics *observability.Metrics, logger *zap.Logger) *DashboardService {
	s := &DashboardService{
		api:         api,
		cfg:         cfg,
		metrics:     metrics,
		logger:      logger,
		bestSellers: cache.New[[]domain.BestSeller](cfg.BestSellersTTL),
	}

	s.dashboard = live.NewPoller("dashboard", api.FetchSnapshot, cfg.DashboardPollInterval, metrics, logger)
	s.strategy = live.NewPoller("strategy", api.FetchSnapshot, cfg.StrategyPollInterval, metrics, logger)
	s.inventory = live.NewPoller("inventory", api.FetchInventory, cfg.InventoryPollInterval, metrics, logger)

	return s
}

// Start launches all pollers; each does an immediate first fetch.
func (s *DashboardService) Start(ctx context.Context) {
	s.dashboard.Start(ctx)
	s.strategy.Start(ctx)
	s.inventory.Start(ctx)

	s.logger.Info("view pollers started",
		zap.Duration("dashboard_interval", s.cfg.DashboardPollInterval),
		zap.Duration("strategy_interval", s.cfg.StrategyPollInterval),
		zap.Duration("inventory_interval", s.cfg.InventoryPollInterval),
	)
}

// Stop halts all polling. Idempotent; in-flight fetches are discarded on
// completion.
func (s *DashboardService) Stop() {
	s.dashboard.Stop()
	s.strategy.Stop()
	s.inventory.Stop()
	s.logger.Info("view pollers stopped")
}

// RefreshInventory triggers one out-of-cycle inventory fetch. Called by the
// mutation coordinator after an accepted restock.
func (s *DashboardService) RefreshInventory() {
	s.inventory.Refresh()
}

// DashboardData returns the live dashboard view. Before the first
// successful poll the snapshot is nil and the view is marked stale.
func (s *DashboardService) DashboardData(ctx context.Context) *domain.DashboardData {
	_, span := tracer.Start(ctx, "DashboardService.DashboardData")
	defer span.End()

	snap, _ := s.dashboard.Value()
	meta := s.dashboard.Meta()
	span.SetAttributes(attribute.Bool("view.stale", meta.Stale))

	return &domain.DashboardData{Snapshot: snap, Meta: meta}
}

// StrategyData returns the strategy hub view: the forecast series, goal
// progress and the comparative aggregates, all derived from the strategy
// poller's own snapshot copy.
func (s *DashboardService) StrategyData(ctx context.Context) *domain.StrategyData {
	_, span := tracer.Start(ctx, "DashboardService.StrategyData")
	defer span.End()

	params := forecast.Params{
		Window:      s.cfg.ForecastWindow,
		Horizon:     s.cfg.ForecastHorizon,
		DailyGrowth: s.cfg.ForecastDailyGrowth,
		Today:       time.Now,
	}

	snap, ok := s.strategy.Value()
	meta := s.strategy.Meta()

	var trends []domain.TrendPoint
	var revenue float64
	var regions []domain.RegionSales
	var channels []domain.ChannelSales
	if ok {
		trends = snap.Trends
		revenue = snap.KPI.TotalRevenue
		regions = snap.Regions
		channels = snap.Channels
	}

	return &domain.StrategyData{
		Forecast: forecast.Series(trends, params),
		Goal:     view.GoalProgress(revenue, s.cfg.MonthlyRevenueGoal),
		Regions:  regions,
		Channels: channels,
		Meta:     meta,
	}
}

// GoalProgress exposes the current goal tracker on its own, for the insight
// report.
func (s *DashboardService) GoalProgress() domain.GoalProgress {
	var revenue float64
	if snap, ok := s.strategy.Value(); ok {
		revenue = snap.KPI.TotalRevenue
	}
	return view.GoalProgress(revenue, s.cfg.MonthlyRevenueGoal)
}

// InventoryData returns the inventory view partitioned into available and
// unavailable items, with the per-status tallies.
func (s *DashboardService) InventoryData(ctx context.Context) *domain.InventoryData {
	_, span := tracer.Start(ctx, "DashboardService.InventoryData")
	defer span.End()

	items, _ := s.inventory.Value()
	available, unavailable := view.PartitionInventory(items)

	return &domain.InventoryData{
		Available:   available,
		Unavailable: unavailable,
		Counts:      view.CountByStatus(items),
		Meta:        s.inventory.Meta(),
	}
}

// BestSellers returns the top-products list, served from the TTL cache when
// fresh.
func (s *DashboardService) BestSellers(ctx context.Context) ([]domain.BestSeller, error) {
	ctx, span := tracer.Start(ctx, "DashboardService.BestSellers")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration(bestSellersKey, time.Since(start))
	}()

	if cached, ok := s.bestSellers.Get(bestSellersKey); ok {
		s.metrics.IncrCacheHit(bestSellersKey)
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached, nil
	}
	s.metrics.IncrCacheMiss(bestSellersKey)

	list, err := s.api.FetchBestSellers(ctx)
	if err != nil {
		return nil, err
	}
	s.bestSellers.Set(bestSellersKey, list)
	return list, nil
}

// WarmBestSellers primes the best-sellers cache at startup. A failure is
// soft: the first request will try again.
func (s *DashboardService) WarmBestSellers(ctx context.Context) error {
	list, err := s.api.FetchBestSellers(ctx)
	if err != nil {
		return err
	}
	s.bestSellers.Set(bestSellersKey, list)
	return nil
}
