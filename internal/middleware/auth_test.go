package middleware_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/djprofessorkash/pet-emporium-project/internal/auth"
	"github.com/djprofessorkash/pet-emporium-project/internal/middleware"
	"github.com/djprofessorkash/pet-emporium-project/internal/model"
	"github.com/djprofessorkash/pet-emporium-project/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler(hit *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hit = true
		w.WriteHeader(http.StatusOK)
	})
}

func newSessionAuth(store *testutil.FakeStore, sessions *testutil.FakeSessions) func(http.Handler) http.Handler {
	return middleware.SessionAuth(middleware.SessionAuthConfig{
		Logger:     discardLogger(),
		Sessions:   sessions,
		Users:      store,
		CookieName: "session_id",
	})
}

func seedUser(t *testing.T, store *testutil.FakeStore, isAdmin bool) *model.User {
	t.Helper()
	user := &model.User{Username: "tester", PasswordHash: "x", IsAdmin: isAdmin, CreatedAt: time.Now().UTC()}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestSessionAuth_NoCookie(t *testing.T) {
	store := testutil.NewFakeStore()
	sessions := testutil.NewFakeSessions()

	var hit bool
	h := newSessionAuth(store, sessions)(okHandler(&hit))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dogs", nil))

	if hit {
		t.Error("handler must not run without a session")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["error"] != "Authentication required. Please log in." {
		t.Errorf("unexpected error message: %s", response["error"])
	}
}

func TestSessionAuth_UnknownToken(t *testing.T) {
	store := testutil.NewFakeStore()
	sessions := testutil.NewFakeSessions()

	var hit bool
	h := newSessionAuth(store, sessions)(okHandler(&hit))

	req := httptest.NewRequest(http.MethodGet, "/api/dogs", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "bogus"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if hit || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d (hit=%v)", rec.Code, hit)
	}
}

func TestSessionAuth_ClearedSession(t *testing.T) {
	store := testutil.NewFakeStore()
	sessions := testutil.NewFakeSessions()
	user := seedUser(t, store, false)

	token, _ := sessions.Create(context.Background(), user.ID)
	_ = sessions.Clear(context.Background(), token)

	var hit bool
	h := newSessionAuth(store, sessions)(okHandler(&hit))

	req := httptest.NewRequest(http.MethodGet, "/api/dogs", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: token})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if hit || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for cleared session, got %d (hit=%v)", rec.Code, hit)
	}
}

func TestSessionAuth_StaleUserID(t *testing.T) {
	store := testutil.NewFakeStore()
	sessions := testutil.NewFakeSessions()

	// Session points at a user ID with no backing row
	token, _ := sessions.Create(context.Background(), 999)

	var hit bool
	h := newSessionAuth(store, sessions)(okHandler(&hit))

	req := httptest.NewRequest(http.MethodGet, "/api/dogs", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: token})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if hit || rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for stale user, got %d (hit=%v)", rec.Code, hit)
	}
}

func TestSessionAuth_InjectsUser(t *testing.T) {
	store := testutil.NewFakeStore()
	sessions := testutil.NewFakeSessions()
	user := seedUser(t, store, false)
	token, _ := sessions.Create(context.Background(), user.ID)

	var got *model.User
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = auth.UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h := newSessionAuth(store, sessions)(inner)

	req := httptest.NewRequest(http.MethodGet, "/api/dogs", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: token})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got == nil || got.ID != user.ID {
		t.Fatalf("expected user %d in context, got %+v", user.ID, got)
	}
}

func TestAdminOnly(t *testing.T) {
	admin := &model.User{ID: 1, Username: "root", IsAdmin: true}
	regular := &model.User{ID: 2, Username: "alice"}

	tests := []struct {
		name       string
		user       *model.User
		method     string
		restricted []string
		wantStatus int
	}{
		{"admin allowed", admin, http.MethodPost, []string{http.MethodPost}, http.StatusOK},
		{"non-admin denied", regular, http.MethodPost, []string{http.MethodPost}, http.StatusForbidden},
		{"non-admin allowed on unrestricted method", regular, http.MethodGet, []string{http.MethodPost}, http.StatusOK},
		{"empty list restricts all methods", regular, http.MethodGet, nil, http.StatusForbidden},
		{"no user in context", nil, http.MethodGet, nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hit bool
			h := middleware.AdminOnly(tt.restricted...)(okHandler(&hit))

			req := httptest.NewRequest(tt.method, "/api/dogs", nil)
			if tt.user != nil {
				req = req.WithContext(auth.ContextWithUser(req.Context(), tt.user))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantStatus == http.StatusOK && !hit {
				t.Error("expected handler to run")
			}
			if tt.wantStatus != http.StatusOK && hit {
				t.Error("handler must not run when denied")
			}
		})
	}
}

func TestAdminOnly_DenialMessage(t *testing.T) {
	regular := &model.User{ID: 2, Username: "alice"}

	var hit bool
	h := middleware.AdminOnly(http.MethodDelete)(okHandler(&hit))

	req := httptest.NewRequest(http.MethodDelete, "/api/dogs/1", nil)
	req = req.WithContext(auth.ContextWithUser(req.Context(), regular))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var response map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["error"] != "Administrator privileges required." {
		t.Errorf("unexpected error message: %s", response["error"])
	}
}
