package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"console/internal/session"
)

const redisSessionPrefix = "console:session:"

type redisSessionRepository struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisSessionRepository returns a session.Store keeping each session as one JSON value with a TTL
func NewRedisSessionRepository(client *redis.Client) session.Store {
	return &redisSessionRepository{client: client, now: time.Now}
}

func (r *redisSessionRepository) Save(ctx context.Context, s *session.Session) error {
	if err := s.Check(); err != nil {
		return err
	}
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return session.ErrExpired
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "encode session")
	}
	return r.client.Set(ctx, redisSessionPrefix+s.ID, payload, ttl).Err()
}

func (r *redisSessionRepository) Get(ctx context.Context, id string) (*session.Session, error) {
	payload, err := r.client.Get(ctx, redisSessionPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrNotFound
		}
		return nil, errors.Wrap(err, "load session")
	}
	var s session.Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, errors.Wrap(err, "decode session")
	}
	if !s.Valid(r.now()) {
		return nil, session.ErrNotFound
	}
	return &s, nil
}

func (r *redisSessionRepository) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, redisSessionPrefix+id).Err()
}
