// Package cache puts Redis in front of the read-mostly catalog queries.
//
// The trick catalog and the challenge list are identical for every user and
// change only when an operator seeds new rows, so they are cached as JSON
// under fixed keys. Everything per-user (profiles, user_tricks) goes straight
// to the database.
//
// Redis is an optimization, never a dependency: any Redis error is logged and
// the call falls through to the wrapped store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sakif/skate-tracker/internal/model"
	"github.com/sakif/skate-tracker/internal/repository"
)

const (
	KeyTricks     = "skate:catalog:tricks"
	KeyChallenges = "skate:catalog:challenges"

	DefaultTTL = 5 * time.Minute
)

// Store wraps a repository.Store with read-through caching of ListTricks and
// ListChallenges. Every other method is the embedded store's.
type Store struct {
	repository.Store

	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ repository.Store = (*Store)(nil)

// New wraps next. A ttl <= 0 uses DefaultTTL.
func New(next repository.Store, client *redis.Client, ttl time.Duration, logger *slog.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		Store:  next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (s *Store) ListTricks(ctx context.Context) ([]model.Trick, error) {
	return readThrough(ctx, s, KeyTricks, s.Store.ListTricks)
}

func (s *Store) ListChallenges(ctx context.Context) ([]model.Challenge, error) {
	return readThrough(ctx, s, KeyChallenges, s.Store.ListChallenges)
}

// CreateTrick writes through and drops the cached catalog.
func (s *Store) CreateTrick(ctx context.Context, t *model.Trick) error {
	if err := s.Store.CreateTrick(ctx, t); err != nil {
		return err
	}
	s.invalidate(ctx, KeyTricks)
	return nil
}

func (s *Store) CreateChallenge(ctx context.Context, c *model.Challenge) error {
	if err := s.Store.CreateChallenge(ctx, c); err != nil {
		return err
	}
	s.invalidate(ctx, KeyChallenges)
	return nil
}

// Ping checks the database only. A Redis outage degrades latency, not health.
func (s *Store) Ping(ctx context.Context) error {
	return s.Store.Ping(ctx)
}

// Close closes the wrapped store and the Redis client.
func (s *Store) Close() error {
	return errors.Join(s.Store.Close(), s.client.Close())
}

// readThrough serves key from Redis when present; otherwise it calls load and
// caches a non-empty result. Empty lists are not cached so the first seed
// shows up immediately.
func readThrough[T any](ctx context.Context, s *Store, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var items []T
		if jerr := json.Unmarshal(raw, &items); jerr == nil {
			return items, nil
		}
		s.logger.Warn("discarding corrupt cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		s.logger.Warn("cache read failed", "key", key, "error", err)
	}

	items, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	payload, err := json.Marshal(items)
	if err != nil {
		s.logger.Warn("cache encode failed", "key", key, "error", err)
		return items, nil
	}
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
	}
	return items, nil
}

func (s *Store) invalidate(ctx context.Context, key string) {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.logger.Warn("cache invalidation failed", "key", key, "error", err)
	}
}
