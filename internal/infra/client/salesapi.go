// Package client implements the HTTP client for the remote sales telemetry
// API. Every read goes through the circuit breaker, retry with backoff, and
// the bulkhead; mutations skip retry so a submission is never duplicated.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/abiatech/salesdeck-bff-go/internal/domain"
	"github.com/abiatech/salesdeck-bff-go/internal/infra/observability"
	"github.com/abiatech/salesdeck-bff-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("client")

// SalesAPIClient talks to the sales telemetry API.
type SalesAPIClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	bulkhead   *resilience.Bulkhead
	cfg        resilience.Config
	metrics    *observability.Metrics
}

// NewSalesAPIClient creates a new SalesAPIClient.
func NewSalesAPIClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, metrics *observability.Metrics) *SalesAPIClient {
	return &SalesAPIClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		bulkhead:   resilience.NewBulkhead(cfg.MaxConcurrency),
		cfg:        cfg,
		metrics:    metrics,
	}
}

// FetchSnapshot fetches the full dashboard snapshot.
func (c *SalesAPIClient) FetchSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	ctx, span := tracer.Start(ctx, "SalesAPIClient.FetchSnapshot")
	defer span.End()

	var snapshot domain.Snapshot
	if err := c.getWithRetry(ctx, "/api/dashboard-data", &snapshot); err != nil {
		return nil, &domain.ErrExternalService{Service: "dashboard-data", Err: err}
	}
	return &snapshot, nil
}

// FetchInventory fetches the current inventory list.
func (c *SalesAPIClient) FetchInventory(ctx context.Context) ([]domain.InventoryItem, error) {
	ctx, span := tracer.Start(ctx, "SalesAPIClient.FetchInventory")
	defer span.End()

	var items []domain.InventoryItem
	if err := c.getWithRetry(ctx, "/api/inventory", &items); err != nil {
		return nil, &domain.ErrExternalService{Service: "inventory", Err: err}
	}
	return items, nil
}

// FetchBestSellers fetches the top-products list.
func (c *SalesAPIClient) FetchBestSellers(ctx context.Context) ([]domain.BestSeller, error) {
	ctx, span := tracer.Start(ctx, "SalesAPIClient.FetchBestSellers")
	defer span.End()

	var sellers []domain.BestSeller
	if err := c.getWithRetry(ctx, "/api/best-sellers", &sellers); err != nil {
		return nil, &domain.ErrExternalService{Service: "best-sellers", Err: err}
	}
	return sellers, nil
}

// PipelineStatus reads the pipeline switch.
func (c *SalesAPIClient) PipelineStatus(ctx context.Context) (*domain.PipelineState, error) {
	ctx, span := tracer.Start(ctx, "SalesAPIClient.PipelineStatus")
	defer span.End()

	var state domain.PipelineState
	if err := c.getWithRetry(ctx, "/api/pipeline/status", &state); err != nil {
		return nil, &domain.ErrExternalService{Service: "pipeline", Err: err}
	}
	return &state, nil
}

// SetPipelineStatus writes the desired pipeline state and returns the
// server's authoritative state. No retry: a duplicate write with the desired
// (absolute) state would be harmless, but the caller's single-flight gate
// expects exactly one request per submission.
func (c *SalesAPIClient) SetPipelineStatus(ctx context.Context, desired bool) (*domain.PipelineState, error) {
	ctx, span := tracer.Start(ctx, "SalesAPIClient.SetPipelineStatus")
	defer span.End()
	span.SetAttributes(attribute.Bool("pipeline.desired", desired))

	var state domain.PipelineState
	if err := c.post(ctx, "/api/pipeline/status", domain.PipelineState{Active: desired}, &state); err != nil {
		return nil, &domain.ErrExternalService{Service: "pipeline", Err: err}
	}
	return &state, nil
}

// Restock submits a restock order. No retry for the same reason as
// SetPipelineStatus; quantity deltas are not idempotent at all.
func (c *SalesAPIClient) Restock(ctx context.Context, req *domain.RestockRequest) error {
	ctx, span := tracer.Start(ctx, "SalesAPIClient.Restock")
	defer span.End()
	span.SetAttributes(
		attribute.String("product.id", req.ProductID),
		attribute.Int("restock.quantity", req.Quantity),
	)

	if err := c.post(ctx, "/api/inventory/restock", req, nil); err != nil {
		return &domain.ErrExternalService{Service: "restock", Err: err}
	}
	return nil
}

// getWithRetry performs a GET through bulkhead, breaker and retry.
func (c *SalesAPIClient) getWithRetry(ctx context.Context, path string, out any) error {
	if err := c.bulkhead.Acquire(ctx); err != nil {
		return err
	}
	defer c.bulkhead.Release()

	_, err := c.cb.Execute(func() (any, error) {
		innerErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			return c.doJSON(ctx, http.MethodGet, path, nil, out)
		})
		if innerErr != nil {
			return nil, innerErr
		}
		return nil, nil
	})
	if err != nil {
		c.metrics.IncrExternalError(path)
	}
	return err
}

// post performs a POST through bulkhead and breaker, without retry.
func (c *SalesAPIClient) post(ctx context.Context, path string, body, out any) error {
	if err := c.bulkhead.Acquire(ctx); err != nil {
		return err
	}
	defer c.bulkhead.Release()

	_, err := c.cb.Execute(func() (any, error) {
		if err := c.doJSON(ctx, http.MethodPost, path, body, out); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		c.metrics.IncrExternalError(path)
	}
	return err
}

// doJSON executes one HTTP exchange and decodes the JSON response into out
// (out may be nil when the body is irrelevant).
func (c *SalesAPIClient) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &domain.ErrNotFound{Resource: "sales-api", ID: path}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sales API returned status %d for %s", resp.StatusCode, path)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
