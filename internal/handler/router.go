package handler

import (
	"encoding/json"
	"net/http"

	"github.com/abiatech/salesdeck-bff-go/internal/domain"
	"github.com/abiatech/salesdeck-bff-go/internal/infra/observability"
	"github.com/abiatech/salesdeck-bff-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// Routes follow the API contract defined for the SalesDeck frontend.
func NewRouter(dashSvc *service.DashboardService, mutSvc *service.MutationService, authSvc *service.AuthService, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler(dashSvc))
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// =============================================
		// 1. Live views
		// =============================================
		r.Get("/dashboard", dashboardHandler(dashSvc, logger))
		r.Get("/strategy", strategyHandler(dashSvc, logger))
		r.Get("/inventory", inventoryHandler(dashSvc, logger))
		r.Get("/best-sellers", bestSellersHandler(dashSvc, logger))

		// =============================================
		// 2. Mutations
		// =============================================
		r.Post("/inventory/restock", restockHandler(mutSvc, logger))
		r.Get("/pipeline/status", pipelineStatusHandler(mutSvc, logger))
		r.Post("/pipeline/status", pipelineSetHandler(mutSvc, logger))

		// =============================================
		// 3. Auth & session
		// =============================================
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", loginHandler(authSvc, logger))
			r.Post("/logout", logoutHandler(authSvc, logger))
			r.Get("/session", sessionHandler(authSvc))
		})

		// =============================================
		// 4. Privileged reports
		// =============================================
		r.Group(func(r chi.Router) {
			r.Use(SessionAuthMiddleware(authSvc, logger))
			r.Get("/reports/insight", insightReportHandler(authSvc, logger))
		})

		// =============================================
		// 5. Sync metrics
		// =============================================
		r.Get("/metrics/sync", syncMetricsHandler(metrics))
	})

	return r
}

// ============================================================
// Operational
// ============================================================

func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}
}

// readyzHandler reports ready once the dashboard view has data. Startup
// before the first poll completes is the only not-ready window.
func readyzHandler(dashSvc *service.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := dashSvc.DashboardData(r.Context())
		if data.Snapshot == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "waiting for first poll"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// ============================================================
// 1. Live views
// ============================================================

func dashboardHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/dashboard")
		defer span.End()

		writeJSON(w, http.StatusOK, svc.DashboardData(ctx))
	}
}

func strategyHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/strategy")
		defer span.End()

		writeJSON(w, http.StatusOK, svc.StrategyData(ctx))
	}
}

func inventoryHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/inventory")
		defer span.End()

		writeJSON(w, http.StatusOK, svc.InventoryData(ctx))
	}
}

func bestSellersHandler(svc *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/best-sellers")
		defer span.End()

		list, err := svc.BestSellers(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"best_sellers": list})
	}
}

// ============================================================
// 2. Mutations
// ============================================================

func restockHandler(svc *service.MutationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/inventory/restock")
		defer span.End()

		var req domain.RestockRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		result, err := svc.Restock(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusAccepted, result)
	}
}

func pipelineStatusHandler(svc *service.MutationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/pipeline/status")
		defer span.End()

		state, err := svc.PipelineStatus(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, state)
	}
}

func pipelineSetHandler(svc *service.MutationService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/pipeline/status")
		defer span.End()

		var req domain.PipelineState
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		state, err := svc.SetPipelineActive(ctx, req.Active)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, state)
	}
}

// ============================================================
// 3. Auth & session
// ============================================================

func loginHandler(svc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/auth/login")
		defer span.End()

		var req domain.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		info, err := svc.Login(ctx, req.Username, req.Password)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, info)
	}
}

func logoutHandler(svc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "POST /v1/auth/logout")
		defer span.End()

		if err := svc.Logout(); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func sessionHandler(svc *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.SessionInfo())
	}
}

// ============================================================
// 4. Privileged reports
// ============================================================

func insightReportHandler(svc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/insight")
		defer span.End()

		report, err := svc.InsightReport(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

// ============================================================
// 5. Sync metrics
// ============================================================

func syncMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetSyncSnapshot())
	}
}
