// Package cached decorates a KYC entry store with a Redis read-through cache
// keyed by user_email. Cache trouble is never user-facing: every Redis failure
// is logged and the call falls back to the inner store.
package cached

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"kyc-service/internal/kyc/models"
	"kyc-service/internal/kyc/store"
)

const keyPrefix = "kyc:entry:"

// defaultTTL bounds staleness if an invalidation is ever lost.
const defaultTTL = 5 * time.Minute

// Cache is the subset of redis.Client the store needs; a fake satisfies it in
// unit tests.
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Store wraps an inner store with a read-through cache.
type Store struct {
	inner  store.Store
	cache  Cache
	logger *slog.Logger
	ttl    time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithTTL overrides the cache entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// New constructs a cached store around inner.
func New(inner store.Store, cache Cache, logger *slog.Logger, opts ...Option) *Store {
	s := &Store{inner: inner, cache: cache, logger: logger, ttl: defaultTTL}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func cacheKey(userEmail string) string { return keyPrefix + userEmail }

// Insert writes through: the fresh row is cached so an immediate read does
// not hit the database.
func (s *Store) Insert(ctx context.Context, entry models.NewKYCEntry) (*models.KYCEntry, error) {
	created, err := s.inner.Insert(ctx, entry)
	if err != nil {
		return nil, err
	}
	s.put(ctx, created)
	return created, nil
}

// FindByEmail serves from cache when possible. Only hits are trusted; a miss
// or a malformed payload falls through to the inner store.
func (s *Store) FindByEmail(ctx context.Context, userEmail string) (*models.KYCEntry, error) {
	raw, err := s.cache.Get(ctx, cacheKey(userEmail)).Bytes()
	if err == nil {
		var cachedEntry models.KYCEntry
		if unmarshalErr := json.Unmarshal(raw, &cachedEntry); unmarshalErr == nil {
			return &cachedEntry, nil
		}
		s.logger.WarnContext(ctx, "dropping malformed cache entry", "user_email", userEmail)
		s.drop(ctx, userEmail)
	} else if !errors.Is(err, redis.Nil) {
		s.logger.WarnContext(ctx, "cache read failed, falling back to store", "error", err.Error())
	}

	found, err := s.inner.FindByEmail(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	s.put(ctx, found)
	return found, nil
}

// UpdateStatus writes through with the refreshed row.
func (s *Store) UpdateStatus(ctx context.Context, userEmail, status string) (*models.KYCEntry, error) {
	updated, err := s.inner.UpdateStatus(ctx, userEmail, status)
	if err != nil {
		return nil, err
	}
	s.put(ctx, updated)
	return updated, nil
}

// DeleteByEmail invalidates before reporting the inner result so a stale hit
// cannot outlive the row.
func (s *Store) DeleteByEmail(ctx context.Context, userEmail string) (int64, error) {
	affected, err := s.inner.DeleteByEmail(ctx, userEmail)
	if err != nil {
		return 0, err
	}
	s.drop(ctx, userEmail)
	return affected, nil
}

func (s *Store) put(ctx context.Context, entry *models.KYCEntry) {
	payload, err := json.Marshal(entry)
	if err != nil {
		s.logger.WarnContext(ctx, "cache marshal failed", "error", err.Error())
		return
	}
	if err := s.cache.Set(ctx, cacheKey(entry.UserEmail), payload, s.ttl).Err(); err != nil {
		s.logger.WarnContext(ctx, "cache write failed", "user_email", entry.UserEmail, "error", err.Error())
	}
}

func (s *Store) drop(ctx context.Context, userEmail string) {
	if err := s.cache.Del(ctx, cacheKey(userEmail)).Err(); err != nil {
		s.logger.WarnContext(ctx, "cache invalidation failed", "user_email", userEmail, "error", err.Error())
	}
}
