// Package session provides the Redis-backed server-side session store.
package session

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
)

const (
	// keyPrefix namespaces session keys in Redis.
	keyPrefix = "session:"

	// nullUserID is the sentinel stored on logout. The key survives but
	// resolves to "no authenticated user", matching a session whose
	// user id was set to null rather than removed.
	nullUserID = "0"
)

// Store maps opaque session tokens to user IDs in Redis.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a Store from a Redis URL and verifies connectivity.
func New(ctx context.Context, redisURL string, ttl time.Duration) (*Store, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	// Connection pool settings
	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &Store{client: client, ttl: ttl}, nil
}

// NewWithClient wraps an existing Redis client. Used by tests and the
// readiness probe wiring.
func NewWithClient(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// NewToken generates a fresh opaque session token.
func NewToken() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}

// Create stores a new session for the given user and returns its token.
func (s *Store) Create(ctx context.Context, userID int64) (string, error) {
	token := NewToken()
	err := s.client.Set(ctx, keyPrefix+token, strconv.FormatInt(userID, 10), s.ttl).Err()
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}

// Get resolves a token to a user ID. ok is false when the session is
// missing, expired, or holds the null sentinel.
func (s *Store) Get(ctx context.Context, token string) (userID int64, ok bool, err error) {
	val, err := s.client.Get(ctx, keyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get session: %w", err)
	}
	if val == nullUserID || val == "" {
		return 0, false, nil
	}

	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("malformed session value: %w", err)
	}
	return id, true, nil
}

// Clear nulls out the user behind a session. The key itself is kept so
// the client's cookie keeps pointing at a valid-but-anonymous session.
func (s *Store) Clear(ctx context.Context, token string) error {
	err := s.client.Set(ctx, keyPrefix+token, nullUserID, s.ttl).Err()
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Renew pushes the session expiry out by the configured TTL. Missing
// keys are ignored.
func (s *Store) Renew(ctx context.Context, token string) error {
	err := s.client.Expire(ctx, keyPrefix+token, s.ttl).Err()
	if err != nil {
		return fmt.Errorf("renew session: %w", err)
	}
	return nil
}

// Ping checks Redis connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

// TTL returns the configured session lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}
