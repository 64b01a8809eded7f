// Package session caches the operator's auth token and profile in durable
// local storage. Credential verification is delegated to the upstream; once
// stored, the token is trusted locally and never re-validated over the
// network. The validator and clock seams exist so an expiry policy can be
// added without touching call sites.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/abiatech/salesdeck-bff-go/internal/domain"
	"github.com/abiatech/salesdeck-bff-go/internal/port"

	"go.uber.org/zap"
)

// The token and profile live under two separate durable keys, mirroring the
// web client's two localStorage entries.
const (
	tokenFile = "auth_token"
	userFile  = "user.json"
)

// Clock supplies the current time to the validator.
type Clock func() time.Time

// Validator decides whether a cached session is still acceptable. The
// default accepts any present token indefinitely.
type Validator func(s domain.Session, now time.Time) bool

// Store is the process-wide session cache backed by the session directory.
type Store struct {
	mu       sync.RWMutex
	dir      string
	current  *domain.Session
	auth     port.Authenticator
	clock    Clock
	validate Validator
	logger   *zap.Logger
}

// Option configures optional Store seams.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithValidator overrides the session validity predicate.
func WithValidator(v Validator) Option {
	return func(s *Store) { s.validate = v }
}

// NewStore creates the store, ensures the session directory exists, and
// restores any previously persisted session.
func NewStore(dir string, auth port.Authenticator, logger *zap.Logger, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}

	s := &Store{
		dir:      dir,
		auth:     auth,
		clock:    time.Now,
		validate: func(domain.Session, time.Time) bool { return true },
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	if restored, err := s.load(); err != nil {
		logger.Warn("session: could not restore persisted session", zap.Error(err))
	} else if restored != nil {
		s.current = restored
		logger.Info("session restored", zap.String("user", restored.User.Name))
	}

	return s, nil
}

// Login delegates verification to the upstream and, on success, persists
// the token and profile before returning the session.
func (s *Store) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	resp, err := s.auth.Login(ctx, &domain.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}

	sess := &domain.Session{Token: resp.Token, User: resp.User}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(sess); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	s.current = sess

	s.logger.Info("operator logged in",
		zap.String("user", sess.User.Name),
		zap.String("role", sess.User.Role),
	)
	return sess, nil
}

// IsAuthenticated is a pure, synchronous, local check: token presence
// filtered through the validator. Never a network call.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current != nil && s.current.Token != "" && s.validate(*s.current, s.clock())
}

// Current returns a copy of the cached session, or nil when logged out.
func (s *Store) Current() *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil
	}
	copied := *s.current
	return &copied
}

// Logout clears the persisted token and profile. Idempotent.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil

	var errs []string
	for _, name := range []string{tokenFile, userFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("clear session storage: %s", strings.Join(errs, "; "))
	}

	s.logger.Info("operator logged out")
	return nil
}

// clearLocal drops the in-memory mirror without touching storage. Called by
// the watcher when the storage itself was cleared externally.
func (s *Store) clearLocal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// persist writes both keys. Caller holds the lock.
func (s *Store) persist(sess *domain.Session) error {
	if err := os.WriteFile(filepath.Join(s.dir, tokenFile), []byte(sess.Token), 0o600); err != nil {
		return err
	}
	raw, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, userFile), raw, 0o600)
}

// load restores a persisted session; returns nil when either key is absent.
func (s *Store) load() (*domain.Session, error) {
	token, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	raw, err := os.ReadFile(filepath.Join(s.dir, userFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var user domain.UserProfile
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, err
	}

	tok := strings.TrimSpace(string(token))
	if tok == "" {
		return nil, nil
	}
	return &domain.Session{Token: tok, User: user}, nil
}
