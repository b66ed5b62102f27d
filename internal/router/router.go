// Package router assembles the HTTP routing table.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/djprofessorkash/pet-emporium-project/internal/handler"
	"github.com/djprofessorkash/pet-emporium-project/internal/middleware"
	"github.com/djprofessorkash/pet-emporium-project/internal/session"
)

// Config carries the dependencies and knobs the routing table needs.
type Config struct {
	Logger   *slog.Logger
	Users    handler.UserStore
	Dogs     handler.DogStore
	Sessions handler.SessionStore

	// Limiter may be nil when rate limiting is disabled.
	Limiter middleware.AuthRateLimiter

	// Health probes; nil entries report "not configured".
	DB          handler.HealthChecker
	SessionPing handler.HealthChecker

	Cookie session.CookieConfig

	CORSAllowedOrigins     []string
	MaxBodySize            int64
	RateLimitAuthEnabled   bool
	RateLimitAuthPerMinute int
}

// New builds the chi router with all routes and middleware.
//
// Route table asymmetry: GET /api/check_session reads raw session state
// and answers its own 401, instead of going through the session gate
// like the rest of /api. Clients use it to probe for a live session.
func New(cfg Config) *chi.Mux {
	h := handler.New()
	healthHandler := handler.NewHealthHandler(cfg.DB, cfg.SessionPing)
	authHandler := handler.NewAuthHandler(cfg.Users, cfg.Sessions, cfg.Cookie, cfg.Logger)
	dogHandler := handler.NewDogHandler(cfg.Dogs, cfg.Logger)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Security())
	if cfg.MaxBodySize > 0 {
		r.Use(middleware.MaxBodySize(cfg.MaxBodySize))
	}
	if len(cfg.CORSAllowedOrigins) > 0 {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
		r.Use(middleware.CORS(corsCfg))
	}

	// Health endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Public homepage
	r.Get("/", h.Root)

	// Credential endpoints. Registered for every verb: the handlers
	// answer 400, not 405, to a wrong method.
	rateLimitCfg := middleware.RateLimitConfig{
		Logger:    cfg.Logger,
		Limiter:   cfg.Limiter,
		Enabled:   cfg.RateLimitAuthEnabled && cfg.Limiter != nil,
		PerMinute: cfg.RateLimitAuthPerMinute,
	}
	r.With(middleware.RateLimitAuth(rateLimitCfg)).HandleFunc("/signup", authHandler.Signup)
	r.With(middleware.RateLimitAuth(rateLimitCfg)).HandleFunc("/login", authHandler.Login)
	r.HandleFunc("/logout", authHandler.Logout)

	// Lighter-weight session probe, outside the gate.
	r.Get("/api/check_session", authHandler.CheckSession)

	// Session-gated API
	authCfg := middleware.SessionAuthConfig{
		Logger:     cfg.Logger,
		Sessions:   cfg.Sessions,
		Users:      cfg.Users,
		CookieName: cfg.Cookie.Name,
	}
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionAuth(authCfg))

		r.Get("/api", authHandler.APIEntry)
		r.Get("/api/dogs", dogHandler.List)
		r.Get("/api/dogs/{id}", dogHandler.Get)
		r.Get("/api/adopt", dogHandler.ListAdoptable)

		// Catalog mutations require an administrator.
		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminOnly(http.MethodPost, http.MethodPatch, http.MethodDelete))

			r.Post("/api/dogs", dogHandler.Create)
			r.Patch("/api/dogs/{id}", dogHandler.Update)
			r.Delete("/api/dogs/{id}", dogHandler.Delete)
		})
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
