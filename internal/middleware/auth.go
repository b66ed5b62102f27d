package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"slices"

	"github.com/djprofessorkash/pet-emporium-project/internal/auth"
	"github.com/djprofessorkash/pet-emporium-project/internal/model"
	"github.com/djprofessorkash/pet-emporium-project/internal/session"
)

// SessionResolver resolves an opaque session token to a user ID.
type SessionResolver interface {
	Get(ctx context.Context, token string) (userID int64, ok bool, err error)
}

// UserGetter loads a user by ID.
type UserGetter interface {
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
}

// SessionAuthConfig holds configuration for the session auth middleware.
type SessionAuthConfig struct {
	Logger     *slog.Logger
	Sessions   SessionResolver
	Users      UserGetter
	CookieName string
}

// SessionAuth returns a middleware that authenticates requests via the
// session cookie. It resolves the cookie to a user ID through the
// session store, loads the user row, and injects the user into the
// request context. A missing session, a nulled-out session, or a stale
// user ID all reject with 401.
func SessionAuth(cfg SessionAuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := session.TokenFromRequest(r, cfg.CookieName)
			if token == "" {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_session_cookie"),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			userID, ok, err := cfg.Sessions.Get(r.Context(), token)
			if err != nil {
				cfg.Logger.Error("session store error during auth",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}
			if !ok {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "no_session_user"),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			user, err := cfg.Users.GetUserByID(r.Context(), userID)
			if err != nil {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "unknown_user"),
					slog.Int64("user_id", userID),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			ctx := auth.ContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly returns middleware that requires administrator privilege for
// the listed HTTP methods. With no methods given, every method is
// restricted. Must be applied after SessionAuth.
func AdminOnly(methods ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := auth.UserFromContext(r.Context())
			if user == nil {
				writeAuthError(w)
				return
			}

			restricted := len(methods) == 0 || slices.Contains(methods, r.Method)
			if restricted && !user.IsAdministrator() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"Administrator privileges required."}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// writeAuthError writes a 401 Unauthorized response.
// Uses the same message for all auth failures to prevent enumeration.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Authentication required. Please log in."}`))
}
