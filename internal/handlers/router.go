package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/fixmyward/ward-server/internal/middleware"
	"github.com/fixmyward/ward-server/internal/models"
	"github.com/fixmyward/ward-server/internal/services"
	"github.com/fixmyward/ward-server/internal/storage"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Deps is everything the router needs.
type Deps struct {
	Store    storage.Store
	Identity *services.IdentityService
	Reports  *services.ReportService
	Wards    *services.WardDirectory
	Tokens   *services.TokenIssuer
	Logger   *zap.Logger

	AllowedOrigins []string
	RateLimitRPM   int           // zero disables rate limiting
	RequestTimeout time.Duration // not applied to report submission

	// Context bounds background work such as rate limiter cleanup.
	Context context.Context
}

// NewRouter builds the HTTP API.
func NewRouter(d Deps) http.Handler {
	sugar := d.Logger.Sugar()

	authHandler := NewAuthHandler(d.Identity, d.Tokens, sugar)
	reportHandler := NewReportHandler(d.Reports, d.Wards, sugar)
	wardHandler := NewWardHandler(d.Wards)
	healthHandler := NewHealthHandler(d.Store, sugar)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.StructuredLogger(d.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecureHeaders())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if d.RateLimitRPM > 0 {
		ctx := d.Context
		if ctx == nil {
			ctx = context.Background()
		}
		r.Use(middleware.RateLimit(ctx, d.RateLimitRPM))
	}

	requireAuth := middleware.RequireAuth(d.Tokens)
	citizenOnly := middleware.RequireRole(models.RoleCitizen)

	timeout := func(next http.Handler) http.Handler { return next }
	if d.RequestTimeout > 0 {
		timeout = chimw.Timeout(d.RequestTimeout)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Submission waits on enrichment, which carries its own deadline.
		r.With(requireAuth, citizenOnly).Post("/citizen/reports", reportHandler.Submit)

		r.Group(func(r chi.Router) {
			r.Use(timeout)

			r.Get("/health", healthHandler.Check)
			r.Get("/health/ready", healthHandler.Ready)

			r.Route("/wards", func(r chi.Router) {
				r.Get("/", wardHandler.List)
				r.Get("/{slug}", wardHandler.Get)
			})

			r.Route("/auth", func(r chi.Router) {
				r.Post("/signup", authHandler.Signup)
				r.Post("/login", authHandler.Login)
				r.With(requireAuth).Get("/me", authHandler.Me)
			})

			r.With(requireAuth, citizenOnly).Get("/citizen/reports", reportHandler.Mine)

			r.Route("/councillor", func(r chi.Router) {
				r.Use(requireAuth)
				r.Use(middleware.RequireRole(models.RoleCouncillor))
				r.Get("/reports", reportHandler.Ward)
				r.Get("/summary", reportHandler.Summary)
				r.Patch("/reports/{id}/status", reportHandler.UpdateStatus)
			})
		})
	})

	return r
}
