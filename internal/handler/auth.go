package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/djprofessorkash/pet-emporium-project/internal/auth"
	"github.com/djprofessorkash/pet-emporium-project/internal/handler/dto"
	"github.com/djprofessorkash/pet-emporium-project/internal/model"
	"github.com/djprofessorkash/pet-emporium-project/internal/repository"
	"github.com/djprofessorkash/pet-emporium-project/internal/session"
)

const invalidCredentialsMsg = "Invalid username or password. Try again."

// UserStore defines the user persistence operations auth handlers need.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// SessionStore defines the session operations auth handlers need.
type SessionStore interface {
	Create(ctx context.Context, userID int64) (string, error)
	Get(ctx context.Context, token string) (userID int64, ok bool, err error)
	Clear(ctx context.Context, token string) error
	Renew(ctx context.Context, token string) error
}

// AuthHandler serves signup, login, logout, and the session check.
type AuthHandler struct {
	users    UserStore
	sessions SessionStore
	cookie   session.CookieConfig
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users UserStore, sessions SessionStore, cookie session.CookieConfig, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		cookie:   cookie,
		logger:   logger,
	}
}

// Signup handles POST /signup. Creates the account, opens a session,
// and sets the session cookie.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusUnauthorized, invalidCredentialsMsg)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("password hashing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	user := &model.User{
		Username:     req.Username,
		PasswordHash: hash,
	}

	if err := h.users.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			writeError(w, http.StatusConflict, "Username already taken.")
			return
		}
		h.logger.Error("user creation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	h.openSession(w, r, user)

	h.logger.Info("user signed up",
		"user_id", user.ID,
		"username", user.Username,
	)

	writeJSON(w, http.StatusCreated, dto.ToUserResponse(user))
}

// Login handles POST /login. Verifies credentials against the stored
// hash and opens a session on success.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	user, err := h.users.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeError(w, http.StatusUnauthorized, invalidCredentialsMsg)
			return
		}
		h.logger.Error("user lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	match, err := auth.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !match {
		writeError(w, http.StatusUnauthorized, invalidCredentialsMsg)
		return
	}

	h.openSession(w, r, user)

	h.logger.Info("user logged in",
		"user_id", user.ID,
		"username", user.Username,
	)

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// Logout handles DELETE /logout. Nulls out the user behind the current
// session; the cookie itself stays valid but anonymous.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodDelete) {
		return
	}

	if token := session.TokenFromRequest(r, h.cookie.Name); token != "" {
		if err := h.sessions.Clear(r.Context(), token); err != nil {
			h.logger.Error("session clear failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error.")
			return
		}
	}

	writeJSON(w, http.StatusNoContent, dto.MessageResponse{Msg: "User successfully logged out."})
}

// CheckSession handles GET /api/check_session. Reads raw session state
// without the authorization gate; it exists so a client can probe for a
// live session without triggering the 401 path.
func (h *AuthHandler) CheckSession(w http.ResponseWriter, r *http.Request) {
	token := session.TokenFromRequest(r, h.cookie.Name)
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, dto.MessageResponse{Msg: "No user logged in."})
		return
	}

	userID, ok, err := h.sessions.Get(r.Context(), token)
	if err != nil {
		h.logger.Error("session lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	if !ok {
		writeJSON(w, http.StatusUnauthorized, dto.MessageResponse{Msg: "No user logged in."})
		return
	}

	user, err := h.users.GetUserByID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, dto.MessageResponse{Msg: "No user logged in."})
		return
	}

	// Sliding expiry: a live probe keeps the session warm.
	if err := h.sessions.Renew(r.Context(), token); err != nil {
		h.logger.Warn("session renew failed", "error", err)
	}

	writeJSON(w, http.StatusOK, dto.ToSessionUserResponse(user))
}

// APIEntry handles GET /api. Runs behind the session gate.
func (h *AuthHandler) APIEntry(w http.ResponseWriter, r *http.Request) {
	user := auth.MustUserFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id": user.ID,
		"msg":     "API access granted.",
	})
}

// openSession creates a fresh session for the user and sets the cookie.
// A session failure is logged but does not fail the request; the user
// can still log in afterwards.
func (h *AuthHandler) openSession(w http.ResponseWriter, r *http.Request, user *model.User) {
	token, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("session creation failed",
			"error", err,
			"user_id", user.ID,
		)
		return
	}
	session.SetCookie(w, h.cookie, token)
}

// requireMethod enforces the verb inside the handler: the credential
// endpoints answer 400, not 405, to a wrong method.
func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Invalid request type. (Expected %s; received %s.)", method, r.Method))
		return false
	}
	return true
}
