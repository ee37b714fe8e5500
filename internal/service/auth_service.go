package service

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"console/internal/backend"
	"console/internal/session"
)

// ErrInvalidCredentials is returned when the backend rejects a login.
var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService owns the login/logout transitions of a session.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*session.Session, error)
	Logout(ctx context.Context, id string) error
	Current(ctx context.Context, id string) (*session.Session, error)
}

type authService struct {
	auth  Authenticator
	store session.Store
	ttl   time.Duration
	log   *logrus.Logger
	now   func() time.Time
}

// NewAuthService returns a new instance of AuthService
func NewAuthService(auth Authenticator, store session.Store, ttl time.Duration, log *logrus.Logger) AuthService {
	return &authService{auth: auth, store: store, ttl: ttl, log: log, now: time.Now}
}

// Login authenticates against the backend and persists token, user and permissions
// as one session. Nothing is stored unless every part is present.
func (s *authService) Login(ctx context.Context, username, password string) (*session.Session, error) {
	res, err := s.auth.Login(ctx, username, password)
	if err != nil {
		if backend.IsUnauthorized(err) || backend.IsForbidden(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "login")
	}

	sess, err := session.New(
		res.Token,
		session.User{Username: res.User.Username, Role: res.User.Role},
		res.Tenant.EnabledEntities,
		s.ttl,
		s.now(),
	)
	if errors.Is(err, session.ErrExpired) {
		// the backend handed out a token that is already past its exp claim
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "build session")
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, errors.Wrap(err, "save session")
	}

	s.log.WithFields(logrus.Fields{
		"username":    sess.User.Username,
		"role":        sess.User.Role,
		"permissions": sess.Permissions.Len(),
	}).Info("user logged in")
	return sess, nil
}

// Logout removes the whole session. Unknown ids are not an error.
func (s *authService) Logout(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "delete session")
	}
	return nil
}

// Current rehydrates the session behind a cookie.
func (s *authService) Current(ctx context.Context, id string) (*session.Session, error) {
	if id == "" {
		return nil, session.ErrNotFound
	}
	return s.store.Get(ctx, id)
}
