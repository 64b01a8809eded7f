package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abiatech/salesdeck-bff-go/internal/domain"
	"github.com/abiatech/salesdeck-bff-go/internal/infra/client"
	"github.com/abiatech/salesdeck-bff-go/internal/infra/observability"
	"github.com/abiatech/salesdeck-bff-go/internal/infra/resilience"
)

func newClient(baseURL string) *client.SalesAPIClient {
	return newClientWithMetrics(baseURL, observability.NewMetrics())
}

func newClientWithMetrics(baseURL string, metrics *observability.Metrics) *client.SalesAPIClient {
	cfg := resilience.Config{MaxRetries: 1, InitialBackoff: 10 * time.Millisecond, MaxConcurrency: 5}
	return client.NewSalesAPIClient(&http.Client{Timeout: time.Second}, baseURL, resilience.NewCircuitBreaker("test"), cfg, metrics)
}

// externalErrorTotal sums the upstream error counter across endpoints.
func externalErrorTotal(t *testing.T, metrics *observability.Metrics) float64 {
	t.Helper()

	families, err := metrics.Registry.Gather()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var total float64
	for _, family := range families {
		if family.GetName() != "salesdeck_external_errors_total" {
			continue
		}
		for _, m := range family.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestLogin_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req domain.LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Username != "alice" {
			t.Errorf("expected username forwarded, got %s", req.Username)
		}
		json.NewEncoder(w).Encode(domain.LoginResponse{
			Success: true,
			Token:   "tok-1",
			User:    domain.UserProfile{Name: "Alice Johnson", Role: "Sales Director"},
		})
	}))
	defer srv.Close()

	resp, err := newClient(srv.URL).Login(context.Background(), &domain.LoginRequest{Username: "alice", Password: "secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Token != "tok-1" {
		t.Errorf("expected token tok-1, got %s", resp.Token)
	}
}

func TestLogin_RejectedCarriesUpstreamMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(domain.LoginResponse{Success: false, Message: "Invalid credentials"})
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).Login(context.Background(), &domain.LoginRequest{Username: "alice", Password: "wrong"})
	var unauthorized *domain.ErrUnauthorized
	if !errors.As(err, &unauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if unauthorized.Message != "Invalid credentials" {
		t.Errorf("expected the upstream's message, got %q", unauthorized.Message)
	}
}

func TestLogin_UnreachableGetsGenericMessage(t *testing.T) {
	// A dead endpoint must not leak transport details to the login form.
	_, err := newClient("http://127.0.0.1:1").Login(context.Background(), &domain.LoginRequest{Username: "alice", Password: "secret"})
	var unauthorized *domain.ErrUnauthorized
	if !errors.As(err, &unauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if unauthorized.Message != "Login failed. Please check your credentials." {
		t.Errorf("expected the generic message, got %q", unauthorized.Message)
	}
}

func TestFetchSnapshot_WrapsTransportErrors(t *testing.T) {
	metrics := observability.NewMetrics()

	_, err := newClientWithMetrics("http://127.0.0.1:1", metrics).FetchSnapshot(context.Background())
	var external *domain.ErrExternalService
	if !errors.As(err, &external) {
		t.Fatalf("expected ErrExternalService, got %v", err)
	}

	// One failed exchange, retries included, is one upstream error.
	if got := externalErrorTotal(t, metrics); got != 1 {
		t.Errorf("expected 1 external error recorded, got %v", got)
	}
}

func TestRestock_NotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	metrics := observability.NewMetrics()
	err := newClientWithMetrics(srv.URL, metrics).Restock(context.Background(), &domain.RestockRequest{ProductID: "p1", Quantity: 10})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("mutations must not be retried: got %d calls", calls)
	}
	if got := externalErrorTotal(t, metrics); got != 1 {
		t.Errorf("expected 1 external error recorded, got %v", got)
	}
}
