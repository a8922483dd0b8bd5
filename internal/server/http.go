// Package server assembles the HTTP router, middleware chain, and route →
// handler mapping.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"aido/backend/internal/config"
	"aido/backend/internal/devcode"
	healthhandler "aido/backend/internal/health/handler"
	identityhandler "aido/backend/internal/identity/handler"
	identityservice "aido/backend/internal/identity/service"
	"aido/backend/internal/server/middleware"
)

// Deps holds the service dependencies for the HTTP handlers.
type Deps struct {
	// Auth is the auth service behind /send_code, /login, /logout.
	Auth *identityservice.AuthService
	// HealthPinger is used by /healthz for readiness (e.g. *sql.DB). If nil, the DB check is skipped.
	HealthPinger healthhandler.Pinger
	// DevCodeStore backs GET /dev/code. Set only when dev code mode is enabled and not production.
	DevCodeStore devcode.Store
	// Logger is the request/handler logger. If nil, slog.Default is used.
	Logger *slog.Logger
}

// NewRouter builds the router:
//
//	POST /send_code → issue + deliver a verification code
//	POST /login     → code-checked login
//	POST /logout    → token revocation (auth required)
//	GET  /healthz   → readiness
//	GET  /dev/code  → dev-only code retrieval (when enabled)
func NewRouter(cfg *config.Config, deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(cfg.RequestTimeoutDuration()))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins(),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.CaptureClientIP)
	r.Use(middleware.Telemetry(logger))

	auth := identityhandler.NewAuthHandler(deps.Auth, logger)
	r.Post("/send_code", auth.SendCode)
	r.Post("/login", auth.Login)
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireAuth(deps.Auth))
		pr.Post("/logout", auth.Logout)
	})

	health := healthhandler.NewServer(deps.HealthPinger)
	r.Get("/healthz", health.Check)

	if deps.DevCodeStore != nil {
		dev := devcode.NewHandler(deps.DevCodeStore)
		r.Get("/dev/code", dev.GetCode)
	}

	return r
}
