package service

import (
	"context"
	"sync"
	"time"

	"github.com/abiatech/salesdeck-bff-go/internal/domain"
	"github.com/abiatech/salesdeck-bff-go/internal/infra/observability"
	"github.com/abiatech/salesdeck-bff-go/internal/live"
	"github.com/abiatech/salesdeck-bff-go/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// MutationService coordinates writes to the upstream. All mutations are
// single-flight per target and never retried: a failed submission is
// discarded and the caller resubmits explicitly. Local state is never
// patched optimistically; the authoritative state arrives either in the
// mutation response (pipeline) or via a triggered refresh (restock).
type MutationService struct {
	restocker port.Restocker
	pipeline  port.PipelineController
	gate      *live.Gate
	metrics   *observability.Metrics
	logger    *zap.Logger

	// refreshInventory reconciles the inventory view after an accepted
	// restock.
	refreshInventory func()

	mu     sync.RWMutex
	mirror *domain.PipelineState
}

// NewMutationService creates the coordinator. refreshInventory is invoked
// after every accepted restock.
func NewMutationService(api port.SalesAPI, metrics *observability.Metrics, logger *zap.Logger, refreshInventory func()) *MutationService {
	return &MutationService{
		restocker:        api,
		pipeline:         api,
		gate:             live.NewGate(),
		metrics:          metrics,
		logger:           logger,
		refreshInventory: refreshInventory,
	}
}

// Restock submits a restock order. Validation happens before any network
// traffic; a second order for the same product while one is outstanding is
// rejected. On success the inventory view is refreshed rather than patched.
func (s *MutationService) Restock(ctx context.Context, req *domain.RestockRequest) (*domain.SubmissionResult, error) {
	ctx, span := tracer.Start(ctx, "MutationService.Restock")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("restock", time.Since(start))
	}()

	span.SetAttributes(
		attribute.String("product.id", req.ProductID),
		attribute.Int("restock.quantity", req.Quantity),
	)

	if req.ProductID == "" {
		return nil, &domain.ErrValidation{Field: "product_id", Message: "product_id is required"}
	}
	if req.Quantity <= 0 {
		return nil, &domain.ErrValidation{Field: "quantity", Message: "quantity must be positive"}
	}

	target := "restock:" + req.ProductID
	if err := s.gate.Begin(target); err != nil {
		s.metrics.IncrMutation("restock", "rejected")
		return nil, err
	}
	defer s.gate.End(target)

	if err := s.restocker.Restock(ctx, req); err != nil {
		s.metrics.IncrMutation("restock", "failure")
		s.logger.Warn("restock rejected",
			zap.String("product_id", req.ProductID),
			zap.Int("quantity", req.Quantity),
			zap.Error(err),
		)
		return nil, &domain.ErrSubmission{Target: req.ProductID, Err: err}
	}

	s.metrics.IncrMutation("restock", "success")
	s.logger.Info("restock accepted",
		zap.String("product_id", req.ProductID),
		zap.Int("quantity", req.Quantity),
	)

	// The upstream recomputed stock and status; pull them instead of
	// guessing locally.
	s.refreshInventory()

	return &domain.SubmissionResult{
		SubmissionID: uuid.New().String(),
		ProductID:    req.ProductID,
		Quantity:     req.Quantity,
	}, nil
}

// PipelineStatus reads the switch from the upstream and refreshes the local
// mirror. When the upstream is unreachable the last mirrored state is served
// instead, so the control stays rendered.
func (s *MutationService) PipelineStatus(ctx context.Context) (*domain.PipelineState, error) {
	ctx, span := tracer.Start(ctx, "MutationService.PipelineStatus")
	defer span.End()

	state, err := s.pipeline.PipelineStatus(ctx)
	if err != nil {
		s.mu.RLock()
		mirror := s.mirror
		s.mu.RUnlock()
		if mirror != nil {
			s.logger.Warn("pipeline status fetch failed, serving mirror", zap.Error(err))
			copied := *mirror
			return &copied, nil
		}
		return nil, err
	}

	s.adopt(state)
	return state, nil
}

// SetPipelineActive submits the desired switch position. The response is
// the server's authoritative state and is adopted verbatim, even if it
// differs from what was requested. Single-flight across the whole control.
func (s *MutationService) SetPipelineActive(ctx context.Context, desired bool) (*domain.PipelineState, error) {
	ctx, span := tracer.Start(ctx, "MutationService.SetPipelineActive")
	defer span.End()
	span.SetAttributes(attribute.Bool("pipeline.desired", desired))

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("pipeline_toggle", time.Since(start))
	}()

	const target = "pipeline"
	if err := s.gate.Begin(target); err != nil {
		s.metrics.IncrMutation("pipeline", "rejected")
		return nil, err
	}
	defer s.gate.End(target)

	state, err := s.pipeline.SetPipelineStatus(ctx, desired)
	if err != nil {
		s.metrics.IncrMutation("pipeline", "failure")
		s.logger.Warn("pipeline toggle rejected",
			zap.Bool("desired", desired),
			zap.Error(err),
		)
		return nil, &domain.ErrSubmission{Target: target, Err: err}
	}

	s.metrics.IncrMutation("pipeline", "success")
	s.logger.Info("pipeline state set",
		zap.Bool("desired", desired),
		zap.Bool("actual", state.Active),
	)

	s.adopt(state)
	return state, nil
}

// SyncPipeline primes the mirror at startup. A failure is soft.
func (s *MutationService) SyncPipeline(ctx context.Context) error {
	state, err := s.pipeline.PipelineStatus(ctx)
	if err != nil {
		return err
	}
	s.adopt(state)
	return nil
}

// adopt stores the server's answer as the new mirror. Whoever answers last
// wins; there is no merging with the requested state.
func (s *MutationService) adopt(state *domain.PipelineState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *state
	s.mirror = &copied
}
