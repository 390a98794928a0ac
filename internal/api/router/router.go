package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/scamshield/honeypot/internal/http/handlers"
	httpmiddleware "github.com/scamshield/honeypot/internal/http/middleware"
	"github.com/scamshield/honeypot/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger          *logging.Logger
	Honeypot        *handlers.HoneypotHandler
	APIKey          string
	AdminAuthSecret string
	MetricsHandler  http.Handler

	// Requests per second and burst per client IP. Zero disables limiting.
	RateLimit      float64
	RateLimitBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if cfg.RateLimit > 0 {
		r.Use(httpmiddleware.RateLimit(cfg.RateLimit, cfg.RateLimitBurst))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", cfg.Honeypot.Health)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// API-key protected endpoints
	r.Group(func(api chi.Router) {
		api.Use(httpmiddleware.APIKey(cfg.APIKey))
		api.Post("/api/message", cfg.Honeypot.HandleMessage)
		api.Get("/api/stats", cfg.Honeypot.Stats)
		api.Get("/api/sessions/{sessionID}", cfg.Honeypot.GetSession)
	})

	// Admin endpoints require a signed JWT on top of the API key
	r.Group(func(admin chi.Router) {
		admin.Use(httpmiddleware.APIKey(cfg.APIKey))
		admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
		admin.Get("/api/scammers", cfg.Honeypot.Scammers)
		admin.Post("/api/sessions/{sessionID}/escalate", cfg.Honeypot.Escalate)
	})

	return r
}
