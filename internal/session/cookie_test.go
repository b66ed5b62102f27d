package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/djprofessorkash/pet-emporium-project/internal/session"
)

func TestSetCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	session.SetCookie(rec, session.CookieConfig{
		Name: "session_id",
		TTL:  24 * time.Hour,
	}, "tok-123")

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}

	c := cookies[0]
	if c.Name != "session_id" || c.Value != "tok-123" {
		t.Errorf("unexpected cookie: %s=%s", c.Name, c.Value)
	}
	if !c.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Errorf("expected SameSite=Lax, got %v", c.SameSite)
	}
	if c.Path != "/" {
		t.Errorf("expected Path=/, got %s", c.Path)
	}
	if c.MaxAge != int(24*time.Hour/time.Second) {
		t.Errorf("unexpected MaxAge: %d", c.MaxAge)
	}
}

func TestSetCookie_DefaultName(t *testing.T) {
	rec := httptest.NewRecorder()
	session.SetCookie(rec, session.CookieConfig{TTL: time.Hour}, "tok")

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != session.DefaultCookieName {
		t.Fatalf("expected default cookie name, got %v", cookies)
	}
}

func TestTokenFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "tok-456"})

	if got := session.TokenFromRequest(req, "session_id"); got != "tok-456" {
		t.Errorf("expected tok-456, got %q", got)
	}
}

func TestTokenFromRequest_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if got := session.TokenFromRequest(req, "session_id"); got != "" {
		t.Errorf("expected empty token, got %q", got)
	}
}

func TestNewToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token := session.NewToken()
		if len(token) != 26 {
			t.Fatalf("unexpected token length %d: %s", len(token), token)
		}
		if seen[token] {
			t.Fatalf("duplicate token: %s", token)
		}
		seen[token] = true
	}
}
