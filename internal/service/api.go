package service

import (
	"context"

	"console/internal/backend"
)

// API is the per-session view of the HR backend. *backend.Client returned by WithToken satisfies it.
type API interface {
	List(ctx context.Context, slug string) ([]backend.Record, error)
	Create(ctx context.Context, slug string, rec backend.Record) (backend.Record, error)
	Update(ctx context.Context, slug, id string, rec backend.Record) (backend.Record, error)
	Delete(ctx context.Context, slug, id string) error
}

// Authenticator exchanges credentials with the backend.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*backend.LoginResult, error)
}
