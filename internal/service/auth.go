package service

import (
	"context"
	"time"

	"github.com/abiatech/salesdeck-bff-go/internal/domain"
	"github.com/abiatech/salesdeck-bff-go/internal/session"
	"github.com/abiatech/salesdeck-bff-go/internal/view"

	"go.uber.org/zap"
)

// AuthService fronts the session store and owns the privileged operations
// that require an authenticated operator.
type AuthService struct {
	sessions *session.Store
	goals    func() domain.GoalProgress
	logger   *zap.Logger
}

// NewAuthService creates the service. goals supplies the current goal
// tracker for report generation.
func NewAuthService(sessions *session.Store, goals func() domain.GoalProgress, logger *zap.Logger) *AuthService {
	return &AuthService{sessions: sessions, goals: goals, logger: logger}
}

// Login verifies credentials with the upstream and establishes the local
// session. Empty fields are rejected before any network call.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.SessionInfo, error) {
	ctx, span := tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	if username == "" {
		return nil, &domain.ErrValidation{Field: "username", Message: "username is required"}
	}
	if password == "" {
		return nil, &domain.ErrValidation{Field: "password", Message: "password is required"}
	}

	sess, err := s.sessions.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	user := sess.User
	return &domain.SessionInfo{Authenticated: true, User: &user}, nil
}

// Logout clears the local session. Idempotent.
func (s *AuthService) Logout() error {
	return s.sessions.Logout()
}

// SessionInfo reports the current session without touching the network.
func (s *AuthService) SessionInfo() *domain.SessionInfo {
	if !s.sessions.IsAuthenticated() {
		return &domain.SessionInfo{Authenticated: false}
	}
	sess := s.sessions.Current()
	if sess == nil {
		return &domain.SessionInfo{Authenticated: false}
	}
	user := sess.User
	return &domain.SessionInfo{Authenticated: true, User: &user}
}

// IsAuthenticated exposes the local session check for route gating.
func (s *AuthService) IsAuthenticated() bool {
	return s.sessions.IsAuthenticated()
}

// InsightReport generates the executive summary. Requires an authenticated
// operator; the report is attributed to them.
func (s *AuthService) InsightReport(ctx context.Context) (*domain.InsightReport, error) {
	_, span := tracer.Start(ctx, "AuthService.InsightReport")
	defer span.End()

	sess := s.sessions.Current()
	if sess == nil || !s.sessions.IsAuthenticated() {
		return nil, &domain.ErrUnauthorized{Message: "authentication required"}
	}

	report := view.InsightReport(s.goals(), sess.User.Name, time.Now())
	s.logger.Info("insight report generated",
		zap.String("report_id", report.ReportID),
		zap.String("generated_by", report.GeneratedBy),
	)
	return &report, nil
}
