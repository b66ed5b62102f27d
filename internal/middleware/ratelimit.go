package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/djprofessorkash/pet-emporium-project/internal/session"
)

// AuthRateLimiter checks the per-client attempt budget for credential
// endpoints.
type AuthRateLimiter interface {
	CheckAuthRateLimit(ctx context.Context, clientIP string, perMinute int) (*session.RateLimitResult, error)
}

// RateLimitConfig holds configuration for the auth rate limit middleware.
type RateLimitConfig struct {
	Logger    *slog.Logger
	Limiter   AuthRateLimiter
	Enabled   bool
	PerMinute int
}

// RateLimitAuth limits login/signup attempts per client IP. Fails open
// when the limiter backend is unavailable so an outage never locks out
// every user.
func RateLimitAuth(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			result, err := cfg.Limiter.CheckAuthRateLimit(r.Context(), clientIP(r), cfg.PerMinute)
			if err != nil {
				cfg.Logger.Error("rate limit check failed",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				next.ServeHTTP(w, r)
				return
			}

			if !result.Allowed {
				cfg.Logger.Warn("auth rate limit exceeded",
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"Too many attempts. Try again later."}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the client address without the port.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
