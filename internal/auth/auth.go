// Package auth implements account registration and opaque bearer-token
// sessions for the hosted deployment. Tokens are random UUIDs stored
// server-side with a TTL; the client treats them as black boxes.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mshelton/car-value-tracker/internal/store"
	domain "github.com/mshelton/car-value-tracker/pkg/types"
)

const (
	// DefaultTokenTTL is how long a session stays valid without re-login.
	DefaultTokenTTL = 24 * time.Hour

	minPasswordLen = 8
)

// Sentinel errors for the auth boundary.
var (
	ErrInvalidCredentials = errors.New("auth: invalid email or password")
	ErrInvalidEmail       = errors.New("auth: invalid email")
	ErrEmailTaken         = errors.New("auth: email already registered")
	ErrWeakPassword       = errors.New("auth: password too short")
	ErrInvalidToken       = errors.New("auth: invalid or expired token")
)

// Service issues and validates sessions backed by the store.
type Service struct {
	store    store.Store
	tokenTTL time.Duration

	now func() time.Time
}

// NewService creates an auth service. A zero ttl means DefaultTokenTTL.
func NewService(st store.Store, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Service{store: st, tokenTTL: ttl, now: time.Now}
}

// Register creates an account for email with the given password.
func (s *Service) Register(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	if len(password) < minPasswordLen {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &domain.User{Email: email, PasswordHash: string(hash)}
	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return u, nil
}

// Login verifies the credentials and issues a new session token.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	sess := &domain.Session{
		Token:     uuid.New().String(),
		UserID:    u.ID,
		ExpiresAt: s.now().Add(s.tokenTTL),
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return sess, nil
}

// Authenticate resolves a bearer token to its user id. Expired sessions
// are deleted on sight.
func (s *Service) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}

	sess, err := s.store.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("looking up session: %w", err)
	}

	if sess.Expired(s.now()) {
		_ = s.store.DeleteSession(ctx, token)
		return "", ErrInvalidToken
	}
	return sess.UserID, nil
}

// Logout invalidates a session token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.store.DeleteSession(ctx, token)
}
