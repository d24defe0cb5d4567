package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockpilot/internal/domain/models"
)

// Authenticator exchanges credentials for a token.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*models.LoginResult, error)
}

// Store owns the terminal's token and role. The token is never validated
// locally: expiry is discovered when the backend answers 401.
type Store struct {
	auth    Authenticator
	storage Storage
	logger  *zap.Logger

	mu      sync.RWMutex
	current *models.Session
}

// NewStore restores any persisted session without contacting the backend.
func NewStore(auth Authenticator, storage Storage, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if storage == nil {
		storage = &MemoryStorage{}
	}

	restored, err := storage.Load()
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if restored != nil {
		logger.Info("session restored", zap.String("username", restored.Username), zap.String("role", string(restored.Role)))
	}

	return &Store{
		auth:    auth,
		storage: storage,
		logger:  logger,
		current: restored,
	}, nil
}

// Login authenticates and persists the new session. On failure nothing is
// persisted and any previous session is left as it was.
func (s *Store) Login(ctx context.Context, username, password string) (models.Session, error) {
	result, err := s.auth.Login(ctx, username, password)
	if err != nil {
		s.logger.Info("login failed", zap.String("username", username), zap.Error(err))
		return models.Session{}, err
	}

	session := models.Session{
		Token:    result.AccessToken,
		Role:     models.ParseRole(result.Role),
		Username: subjectOr(result.AccessToken, username),
	}

	s.mu.Lock()
	if err := s.storage.Save(session); err != nil {
		s.mu.Unlock()
		return models.Session{}, fmt.Errorf("persist session: %w", err)
	}
	s.current = &session
	s.mu.Unlock()

	s.logger.Info("login succeeded", zap.String("username", session.Username), zap.String("role", string(session.Role)))
	return session, nil
}

// Logout clears the session in memory and in storage. Calling it without a
// session is a no-op.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked()
}

// LogoutIfToken closes the session only while token is still the active
// one. A rejection of an older token leaves a newer login in place.
func (s *Store) LogoutIfToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.Token != token {
		s.logger.Debug("ignoring rejection of a superseded token")
		return nil
	}
	return s.clearLocked()
}

func (s *Store) clearLocked() error {
	hadSession := s.current != nil
	s.current = nil

	if err := s.storage.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if hadSession {
		s.logger.Info("session closed")
	}
	return nil
}

// Current returns the active session, if any.
func (s *Store) Current() (models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.Session{}, false
	}
	return *s.current, true
}

// Token returns the bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// subjectOr reads the "sub" claim without verifying the signature; the
// backend stays the only judge of the token.
func subjectOr(token, fallback string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return fallback
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return fallback
	}
	return sub
}
