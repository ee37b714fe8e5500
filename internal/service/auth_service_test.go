package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"console/internal/backend"
	"console/internal/backend/backendtest"
	"console/internal/logging"
	"console/internal/session"
)

type failingStore struct{ session.Store }

func (failingStore) Save(context.Context, *session.Session) error {
	return errors.New("store unavailable")
}

func TestAuthService_LoginPersistsWholeSession(t *testing.T) {
	fake := backendtest.New(t)
	fake.AddUser("ana", "secret", "admin", "locations", "job-roles")
	store := session.NewMemoryStore()
	svc := NewAuthService(fake.Client(t), store, time.Hour, logging.Discard())
	ctx := context.Background()

	sess, err := svc.Login(ctx, "ana", "secret")
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())

	got, err := svc.Current(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, backendtest.Token, got.Token)
	assert.Equal(t, session.User{Username: "ana", Role: "admin"}, got.User)
	assert.Equal(t, []string{"locations", "job-roles"}, got.Permissions.List())

	require.NoError(t, svc.Logout(ctx, sess.ID))
	assert.Zero(t, store.Len())
	_, err = svc.Current(ctx, sess.ID)
	assert.True(t, errors.Is(err, session.ErrNotFound))
}

func TestAuthService_RejectedLoginPersistsNothing(t *testing.T) {
	fake := backendtest.New(t)
	fake.AddUser("ana", "secret", "admin", "teams")
	store := session.NewMemoryStore()
	svc := NewAuthService(fake.Client(t), store, time.Hour, logging.Discard())

	_, err := svc.Login(context.Background(), "ana", "nope")
	assert.True(t, errors.Is(err, ErrInvalidCredentials), "got %v", err)
	assert.Zero(t, store.Len())
}

type staticAuthenticator struct {
	res *backend.LoginResult
	err error
}

func (a staticAuthenticator) Login(context.Context, string, string) (*backend.LoginResult, error) {
	return a.res, a.err
}

func TestAuthService_ForbiddenLoginIsInvalidCredentials(t *testing.T) {
	store := session.NewMemoryStore()
	auth := staticAuthenticator{err: &backend.APIError{Status: 403, Body: `{"message":"account disabled"}`}}
	svc := NewAuthService(auth, store, time.Hour, logging.Discard())

	_, err := svc.Login(context.Background(), "ana", "secret")
	assert.True(t, errors.Is(err, ErrInvalidCredentials), "got %v", err)
	assert.Zero(t, store.Len())
}

func TestAuthService_ExpiredTokenIsInvalidCredentials(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	store := session.NewMemoryStore()
	auth := staticAuthenticator{res: &backend.LoginResult{
		Token: token,
		User:  backend.User{Username: "ana", Role: "admin"},
	}}
	svc := NewAuthService(auth, store, time.Hour, logging.Discard())

	_, err = svc.Login(context.Background(), "ana", "secret")
	assert.True(t, errors.Is(err, ErrInvalidCredentials), "got %v", err)
	assert.Zero(t, store.Len())
}

func TestAuthService_StoreFailure(t *testing.T) {
	fake := backendtest.New(t)
	fake.AddUser("ana", "secret", "admin", "teams")
	svc := NewAuthService(fake.Client(t), failingStore{}, time.Hour, logging.Discard())

	sess, err := svc.Login(context.Background(), "ana", "secret")
	assert.Error(t, err)
	assert.Nil(t, sess)
	assert.False(t, errors.Is(err, ErrInvalidCredentials))
}

func TestAuthService_EmptyIDs(t *testing.T) {
	svc := NewAuthService(nil, session.NewMemoryStore(), time.Hour, logging.Discard())

	assert.NoError(t, svc.Logout(context.Background(), ""))
	_, err := svc.Current(context.Background(), "")
	assert.True(t, errors.Is(err, session.ErrNotFound))
}
