package session

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned by stores for unknown or expired sessions.
	ErrNotFound = errors.New("session not found")
	// ErrIncomplete is returned when a session is missing its token or user.
	ErrIncomplete = errors.New("session is incomplete")
	// ErrExpired is returned when building or saving a session whose expiry has already passed.
	ErrExpired = errors.New("session already expired")
)

// RoleAdmin is the backend role allowed to create console users.
const RoleAdmin = "admin"

// User is the authenticated backend user.
type User struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Session is the unit persisted per login: token, user and permissions are
// always written and removed together.
type Session struct {
	ID          string        `json:"id"`
	Token       string        `json:"token"`
	User        User          `json:"user"`
	Permissions PermissionSet `json:"permissions"`
	CreatedAt   time.Time     `json:"createdAt"`
	ExpiresAt   time.Time     `json:"expiresAt"`
}

// New builds a session for a freshly authenticated user. The expiry is ttl from now,
// shortened to the token's exp claim when the token is a JWT carrying one.
// A token that has already expired yields ErrExpired.
func New(token string, user User, permissions []string, ttl time.Duration, now time.Time) (*Session, error) {
	s := &Session{
		ID:          uuid.NewString(),
		Token:       token,
		User:        user,
		Permissions: NewPermissionSet(permissions),
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
	if exp, ok := tokenExpiry(token); ok && exp.Before(s.ExpiresAt) {
		s.ExpiresAt = exp
	}
	if err := s.Check(); err != nil {
		return nil, err
	}
	if !s.ExpiresAt.After(now) {
		return nil, ErrExpired
	}
	return s, nil
}

// Check verifies the session carries every part it is persisted with.
func (s *Session) Check() error {
	if s == nil || s.ID == "" || s.Token == "" || s.User.Username == "" {
		return ErrIncomplete
	}
	return nil
}

// Valid reports whether the session is complete and not expired at now.
func (s *Session) Valid(now time.Time) bool {
	return s.Check() == nil && now.Before(s.ExpiresAt)
}

// tokenExpiry reads the exp claim of a JWT without verifying it; the backend owns verification.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Store persists sessions. Implementations must write and delete a session as a single unit.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}
