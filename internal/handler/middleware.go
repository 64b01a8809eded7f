package handler

import (
	"net/http"

	"github.com/abiatech/salesdeck-bff-go/internal/service"

	"go.uber.org/zap"
)

// SessionAuthMiddleware guards privileged routes on the locally cached
// session. The check is synchronous and never reaches the network; the
// token itself is opaque and not inspected.
func SessionAuthMiddleware(authSvc *service.AuthService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authSvc.IsAuthenticated() {
				logger.Debug("rejected unauthenticated request",
					zap.String("path", r.URL.Path),
				)
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
