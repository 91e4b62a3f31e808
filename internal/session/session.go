// Package session keeps the signed-in flag that gates listing mutations.
// The flag lives in a durable key-value store keyed by session id; callers
// hold a signed token naming that session.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/directory-service/internal/platform/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrNotFound           = errors.New("session not found")
	ErrInvalidToken       = errors.New("invalid session token")
	ErrSignedOut          = errors.New("session is signed out")
)

// shortTTL applies when the caller did not ask to be remembered.
const shortTTL = 24 * time.Hour

// Record is the persisted session state.
type Record struct {
	ID       string
	UserID   string
	LoggedIn bool
}

// Repository persists session records. Get returns ErrNotFound for an
// unknown or expired id.
type Repository interface {
	Save(ctx context.Context, rec Record, ttl time.Duration) error
	Get(ctx context.Context, id string) (Record, error)
	Delete(ctx context.Context, id string) error
}

// Claims are carried by every session token.
type Claims struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type Credentials struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

// Grant is returned by a successful sign-in.
type Grant struct {
	Token     string    `json:"token"`
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Status struct {
	LoggedIn bool   `json:"is_logged_in"`
	UserID   string `json:"user_id,omitempty"`
}

type Manager struct {
	repo   Repository
	secret []byte
	ttl    time.Duration
	logger *logger.Logger
	now    func() time.Time
}

// NewManager builds a manager signing tokens with secret. ttl bounds
// remembered sessions.
func NewManager(repo Repository, secret string, ttl time.Duration, log *logger.Logger) *Manager {
	return &Manager{
		repo:   repo,
		secret: []byte(secret),
		ttl:    ttl,
		logger: log.Named("Session"),
		now:    time.Now,
	}
}

// SignIn accepts any non-empty email and password. The email becomes the
// session's user id.
func (m *Manager) SignIn(ctx context.Context, creds Credentials) (Grant, error) {
	email := strings.TrimSpace(creds.Email)
	if email == "" || creds.Password == "" {
		return Grant{}, ErrMissingCredentials
	}

	ttl := m.ttl
	if !creds.RememberMe && ttl > shortTTL {
		ttl = shortTTL
	}

	rec := Record{ID: uuid.NewString(), UserID: email, LoggedIn: true}
	if err := m.repo.Save(ctx, rec, ttl); err != nil {
		m.logger.Error("Failed to persist session", zap.String("user_id", rec.UserID), zap.Error(err))
		return Grant{}, fmt.Errorf("save session: %w", err)
	}

	now := m.now()
	expiresAt := now.Add(ttl)
	claims := Claims{
		UserID:    rec.UserID,
		SessionID: rec.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Subject:   rec.UserID,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return Grant{}, fmt.Errorf("sign session token: %w", err)
	}

	m.logger.Info("User signed in", zap.String("user_id", rec.UserID), zap.String("session_id", rec.ID))
	return Grant{Token: token, SessionID: rec.ID, UserID: rec.UserID, ExpiresAt: expiresAt.UTC()}, nil
}

// SignOut removes the persisted flag. Signing out an unknown session is
// not an error.
func (m *Manager) SignOut(ctx context.Context, sessionID string) error {
	if err := m.repo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	m.logger.Info("User signed out", zap.String("session_id", sessionID))
	return nil
}

// Status reports the persisted flag. An absent session reads as logged out.
func (m *Manager) Status(ctx context.Context, sessionID string) (Status, error) {
	rec, err := m.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Status{}, nil
		}
		return Status{}, fmt.Errorf("get session: %w", err)
	}
	if !rec.LoggedIn {
		return Status{}, nil
	}
	return Status{LoggedIn: true, UserID: rec.UserID}, nil
}

// ParseToken verifies signature and expiry only.
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.SessionID == "" || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Authenticate parses the token and requires its session to still be
// signed in.
func (m *Manager) Authenticate(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := m.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	status, err := m.Status(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if !status.LoggedIn || status.UserID != claims.UserID {
		return nil, ErrSignedOut
	}
	return claims, nil
}
