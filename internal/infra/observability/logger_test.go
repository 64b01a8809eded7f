package observability_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abiatech/salesdeck-bff-go/internal/infra/observability"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func loggedHandler(logger *zap.Logger) http.Handler {
	mw := observability.ZapLoggerMiddleware(logger)
	return mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/boom":
			w.WriteHeader(http.StatusInternalServerError)
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
}

func TestZapLoggerMiddleware_LevelsByStatus(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := loggedHandler(zap.New(core))

	for _, path := range []string{"/v1/dashboard", "/missing", "/boom"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("expected 3 log entries, got %d", len(entries))
	}

	want := []zapcore.Level{zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	for i, entry := range entries {
		if entry.Level != want[i] {
			t.Errorf("entry %d: expected level %s, got %s", i, want[i], entry.Level)
		}
	}
}

func TestZapLoggerMiddleware_SkipsProbes(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := loggedHandler(zap.New(core))

	for _, path := range []string{"/ping", "/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}

	if logs.Len() != 0 {
		t.Errorf("probe hits must not be logged, got %d entries", logs.Len())
	}
}
