package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/folio-labs/portfolio-server/internal/config"
	"github.com/folio-labs/portfolio-server/internal/middleware"
	"github.com/folio-labs/portfolio-server/internal/service"
	"github.com/folio-labs/portfolio-server/internal/session"
)

// Dependencies is everything NewRouter wires into the HTTP surface.
type Dependencies struct {
	Admin     *service.AdminService
	Posts     *service.PostService
	Reviews   *service.ReviewService
	Media     *service.MediaService
	Contact   *service.ContactService
	Authority *session.Authority
	Limiter   service.RateLimiter

	// Uploads serves stored media bytes under /uploads.
	Uploads http.Handler
	// Ping reports storage health; nil means always healthy.
	Ping func(ctx context.Context) error

	StaticDir      string
	AllowedOrigins []string
	IsProduction   bool
	MaxBodyBytes   int64
}

func NewRouter(deps Dependencies) http.Handler {
	sessionMiddleware := middleware.NewSessionMiddleware(deps.Authority)
	csrfMiddleware := middleware.NewCSRFMiddleware(deps.IsProduction, deps.Authority.TTL(), "/api/admin/login", "/api/admin/logout", "/api/contact")
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(deps.MaxBodyBytes)
	securityHeadersMiddleware := middleware.NewSecurityHeadersMiddleware(deps.IsProduction)
	loginLimit := middleware.NewIPRateLimitMiddleware(deps.Limiter, config.LoginMaxAttempts, config.LoginWindow, "login")
	contactLimit := middleware.NewIPRateLimitMiddleware(deps.Limiter, config.ContactMaxPerWindow, config.ContactWindow, "contact")

	adminHandler := NewAdminHandler(deps.Admin, loginLimit.Handler, deps.IsProduction)
	postHandler := NewPostHandler(deps.Posts)
	reviewHandler := NewReviewHandler(deps.Reviews)
	mediaHandler := NewMediaHandler(deps.Media)
	contactHandler := NewContactHandler(deps.Contact)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(bodyLimitMiddleware.Handler)
	r.Use(securityHeadersMiddleware.Handler)

	if len(deps.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins:   deps.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type", middleware.CSRFHeaderName},
			AllowCredentials: true,
			MaxAge:           300,
		}).Handler)
	}

	r.Get("/health", healthHandler(deps.Ping))

	r.Route("/api", func(r chi.Router) {
		r.Use(sessionMiddleware.Handler)
		r.Use(csrfMiddleware.Handler)

		r.Mount("/admin", adminHandler.Routes())
		r.Mount("/posts", postHandler.Routes())
		r.Mount("/reviews", reviewHandler.Routes())
		r.Mount("/media", mediaHandler.Routes())
		r.With(contactLimit.Handler).Post("/contact", contactHandler.Send)
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
		})
	})

	if deps.Uploads != nil {
		r.Mount("/uploads", http.StripPrefix("/uploads", deps.Uploads))
	}

	if deps.StaticDir != "" {
		r.NotFound(NewSPAHandler(deps.StaticDir).ServeHTTP)
	}

	return r
}

func healthHandler(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		}

		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), config.DBPingTimeout)
			defer cancel()
			if err := ping(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				body["database"] = "unreachable"
			}
		}

		writeJSON(w, status, body)
	}
}
