// Package auth provides the administrator session gate.
// Credentials are injected configuration values, not accounts: a single
// username/password pair guards the whole console. There is no lockout,
// no rate limiting and no expiry; a session lives until explicit logout.
package auth

import (
	"context"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"stokpanel/internal/core/apperror"
	"stokpanel/internal/core/id"
	"stokpanel/pkg/logger"
)

// SessionStore persists the boolean "logged in" flag per session so it
// survives restarts. Flags never expire; logout removes them.
type SessionStore interface {
	Put(ctx context.Context, sessionID string) error
	Exists(ctx context.Context, sessionID string) (bool, error)
	Delete(ctx context.Context, sessionID string) error
}

// Config holds the injected credentials.
type Config struct {
	Username string
	// Password is compared verbatim when PasswordHash is empty.
	Password string
	// PasswordHash, when set, is a bcrypt hash checked instead of Password.
	PasswordHash string
}

// Service validates credentials and manages session flags.
type Service struct {
	cfg      Config
	sessions SessionStore
	jwt      *JWTService
}

// NewService creates the session gate.
func NewService(cfg Config, sessions SessionStore, jwtService *JWTService) *Service {
	return &Service{cfg: cfg, sessions: sessions, jwt: jwtService}
}

// Login succeeds iff both values match the configured credentials.
// On success a session flag is persisted and a token issued; on failure
// nothing is persisted.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if !s.checkCredentials(username, password) {
		return "", apperror.NewUnauthorized("invalid username or password")
	}

	sessionID := id.New().String()
	if err := s.sessions.Put(ctx, sessionID); err != nil {
		return "", apperror.NewDatabase(fmt.Errorf("persist session flag: %w", err))
	}

	token, err := s.jwt.GenerateToken(username, sessionID)
	if err != nil {
		return "", apperror.NewInternal(fmt.Errorf("issue token: %w", err))
	}

	logger.Info(ctx, "administrator logged in", "session_id", sessionID)
	return token, nil
}

// Logout clears the session flag unconditionally.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return apperror.NewDatabase(fmt.Errorf("delete session flag: %w", err))
	}
	logger.Info(ctx, "administrator logged out", "session_id", sessionID)
	return nil
}

// SessionActive reports whether the persisted flag still exists.
func (s *Service) SessionActive(ctx context.Context, sessionID string) (bool, error) {
	return s.sessions.Exists(ctx, sessionID)
}

func (s *Service) checkCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Username)) == 1

	var passOK bool
	if s.cfg.PasswordHash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Password)) == 1
	}

	return userOK && passOK
}
