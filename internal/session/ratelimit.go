package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// rateLimitPrefix is the Redis key prefix for credential-endpoint limits.
	rateLimitPrefix = "ratelimit:auth:"
	// rateLimitWindow is the fixed window for counting attempts.
	rateLimitWindow = time.Minute
)

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// fixedWindowScript atomically counts an attempt within the current
// window and sets the window TTL on first use.
var fixedWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local limit = tonumber(ARGV[1])
	local window = tonumber(ARGV[2])

	local count = redis.call('INCR', key)
	if count == 1 then
		redis.call('EXPIRE', key, window)
	end

	local ttl = redis.call('TTL', key)
	if count > limit then
		return {0, 0, ttl}
	end
	return {1, limit - count, ttl}
`)

// CheckAuthRateLimit counts one login/signup attempt for the client and
// reports whether it is still within the per-minute budget.
func (s *Store) CheckAuthRateLimit(ctx context.Context, clientIP string, perMinute int) (*RateLimitResult, error) {
	if perMinute <= 0 {
		return &RateLimitResult{Allowed: true}, nil
	}

	key := rateLimitPrefix + hashClientIP(clientIP)

	res, err := fixedWindowScript.Run(ctx, s.client, []string{key},
		perMinute, int(rateLimitWindow/time.Second)).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit check: %w", err)
	}
	if len(res) != 3 {
		return nil, fmt.Errorf("rate limit check: unexpected script result")
	}

	return &RateLimitResult{
		Allowed:    res[0] == 1,
		Remaining:  res[1],
		RetryAfter: time.Duration(res[2]) * time.Second,
	}, nil
}

// hashClientIP hashes the IP so raw addresses never land in Redis keys.
func hashClientIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:16])
}
