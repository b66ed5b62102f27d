package session

import (
	"net/http"
	"time"
)

// DefaultCookieName is the default name of the session cookie.
const DefaultCookieName = "session_id"

// CookieConfig controls how the session cookie is written.
type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// SetCookie writes the session cookie on the response.
func SetCookie(w http.ResponseWriter, cfg CookieConfig, token string) {
	name := cfg.Name
	if name == "" {
		name = DefaultCookieName
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(cfg.TTL / time.Second),
	})
}

// TokenFromRequest extracts the session token from the request cookie.
// Returns "" when no cookie is present.
func TokenFromRequest(r *http.Request, cookieName string) string {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
