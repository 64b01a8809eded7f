package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abiatech/salesdeck-bff-go/internal/config"
	"github.com/abiatech/salesdeck-bff-go/internal/domain"
	"github.com/abiatech/salesdeck-bff-go/internal/handler"
	"github.com/abiatech/salesdeck-bff-go/internal/infra/observability"
	"github.com/abiatech/salesdeck-bff-go/internal/service"
	"github.com/abiatech/salesdeck-bff-go/internal/session"

	"go.uber.org/zap"
)

// --- Mocks ---

type mockSalesAPI struct {
	snapshot  *domain.Snapshot
	inventory []domain.InventoryItem
	pipeline  *domain.PipelineState
	login     *domain.LoginResponse
	loginErr  error
	best      []domain.BestSeller
}

func (m *mockSalesAPI) FetchSnapshot(_ context.Context) (*domain.Snapshot, error) {
	return m.snapshot, nil
}

func (m *mockSalesAPI) FetchInventory(_ context.Context) ([]domain.InventoryItem, error) {
	return m.inventory, nil
}

func (m *mockSalesAPI) Restock(_ context.Context, _ *domain.RestockRequest) error {
	return nil
}

func (m *mockSalesAPI) PipelineStatus(_ context.Context) (*domain.PipelineState, error) {
	return m.pipeline, nil
}

func (m *mockSalesAPI) SetPipelineStatus(_ context.Context, desired bool) (*domain.PipelineState, error) {
	return &domain.PipelineState{Active: desired}, nil
}

func (m *mockSalesAPI) Login(_ context.Context, _ *domain.LoginRequest) (*domain.LoginResponse, error) {
	return m.login, m.loginErr
}

func (m *mockSalesAPI) FetchBestSellers(_ context.Context) ([]domain.BestSeller, error) {
	return m.best, nil
}

type fixture struct {
	router http.Handler
}

func newFixture(t *testing.T, api *mockSalesAPI) *fixture {
	t.Helper()

	cfg := &config.Config{
		DashboardPollInterval: time.Hour,
		StrategyPollInterval:  time.Hour,
		InventoryPollInterval: time.Hour,
		ForecastWindow:        7,
		ForecastHorizon:       3,
		ForecastDailyGrowth:   0.02,
		MonthlyRevenueGoal:    50000,
		BestSellersTTL:        time.Minute,
	}

	metrics := observability.NewMetrics()
	logger := zap.NewNop()

	store, err := session.NewStore(t.TempDir(), api, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dashSvc := service.NewDashboardService(api, cfg, metrics, logger)
	mutSvc := service.NewMutationService(api, metrics, logger, dashSvc.RefreshInventory)
	authSvc := service.NewAuthService(store, dashSvc.GoalProgress, logger)

	return &fixture{
		router: handler.NewRouter(dashSvc, mutSvc, authSvc, metrics, logger),
	}
}

func (f *fixture) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestRouter_Dashboard(t *testing.T) {
	f := newFixture(t, &mockSalesAPI{})

	rec := f.do(http.MethodGet, "/v1/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var data domain.DashboardData
	if err := json.NewDecoder(rec.Body).Decode(&data); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !data.Meta.Stale {
		t.Error("view with no polls yet should report stale")
	}
}

func TestRouter_StrategyProjectsWithoutData(t *testing.T) {
	f := newFixture(t, &mockSalesAPI{})

	rec := f.do(http.MethodGet, "/v1/strategy", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var data domain.StrategyData
	if err := json.NewDecoder(rec.Body).Decode(&data); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(data.Forecast) != 3 {
		t.Errorf("expected the full projection horizon even with no data, got %d points", len(data.Forecast))
	}
	if data.Goal.Goal != 50000 {
		t.Errorf("expected configured goal, got %f", data.Goal.Goal)
	}
}

func TestRouter_RestockValidation(t *testing.T) {
	f := newFixture(t, &mockSalesAPI{})

	rec := f.do(http.MethodPost, "/v1/inventory/restock", domain.RestockRequest{ProductID: "p1", Quantity: 0})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for zero quantity, got %d", rec.Code)
	}

	rec = f.do(http.MethodPost, "/v1/inventory/restock", domain.RestockRequest{ProductID: "p1", Quantity: 50})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	var result domain.SubmissionResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if result.SubmissionID == "" {
		t.Error("expected a submission id")
	}
}

func TestRouter_RestockMalformedBody(t *testing.T) {
	f := newFixture(t, &mockSalesAPI{})

	req := httptest.NewRequest(http.MethodPost, "/v1/inventory/restock", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestRouter_PipelineToggle(t *testing.T) {
	f := newFixture(t, &mockSalesAPI{pipeline: &domain.PipelineState{Active: true}})

	rec := f.do(http.MethodGet, "/v1/pipeline/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = f.do(http.MethodPost, "/v1/pipeline/status", domain.PipelineState{Active: false})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var state domain.PipelineState
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if state.Active {
		t.Error("expected the server's confirmed state in the response")
	}
}

func TestRouter_AuthFlow(t *testing.T) {
	f := newFixture(t, &mockSalesAPI{login: &domain.LoginResponse{
		Success: true,
		Token:   "tok-1",
		User:    domain.UserProfile{Name: "Alice Johnson", Role: "Sales Director"},
	}})

	// Privileged route is gated before login.
	rec := f.do(http.MethodGet, "/v1/reports/insight", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 before login, got %d", rec.Code)
	}

	rec = f.do(http.MethodGet, "/v1/auth/session", nil)
	var info domain.SessionInfo
	json.NewDecoder(rec.Body).Decode(&info)
	if info.Authenticated {
		t.Error("expected unauthenticated session before login")
	}

	rec = f.do(http.MethodPost, "/v1/auth/login", domain.LoginRequest{Username: "alice", Password: "secret"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on login, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = f.do(http.MethodGet, "/v1/reports/insight", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after login, got %d: %s", rec.Code, rec.Body.String())
	}

	var report domain.InsightReport
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if report.GeneratedBy != "Alice Johnson" {
		t.Errorf("expected attribution, got %s", report.GeneratedBy)
	}

	rec = f.do(http.MethodPost, "/v1/auth/logout", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on logout, got %d", rec.Code)
	}
	rec = f.do(http.MethodGet, "/v1/reports/insight", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", rec.Code)
	}
}

func TestRouter_LoginRejected(t *testing.T) {
	f := newFixture(t, &mockSalesAPI{loginErr: &domain.ErrUnauthorized{Message: "Invalid credentials"}})

	rec := f.do(http.MethodPost, "/v1/auth/login", domain.LoginRequest{Username: "alice", Password: "nope"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for rejected credentials, got %d", rec.Code)
	}
}

func TestRouter_SyncMetrics(t *testing.T) {
	f := newFixture(t, &mockSalesAPI{})

	rec := f.do(http.MethodGet, "/v1/metrics/sync", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var m domain.SyncMetrics
	if err := json.NewDecoder(rec.Body).Decode(&m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
}

func TestRouter_Operational(t *testing.T) {
	f := newFixture(t, &mockSalesAPI{})

	if rec := f.do(http.MethodGet, "/healthz", nil); rec.Code != http.StatusOK {
		t.Errorf("expected 200 from /healthz, got %d", rec.Code)
	}
	// No poll has landed: not ready yet.
	if rec := f.do(http.MethodGet, "/readyz", nil); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 from /readyz before first poll, got %d", rec.Code)
	}
	if rec := f.do(http.MethodGet, "/metrics", nil); rec.Code != http.StatusOK {
		t.Errorf("expected 200 from /metrics, got %d", rec.Code)
	}
}
