// Package api provides the HTTP API server and handlers for the ReviewDB application.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/reviewdbapp/reviewdb-server/internal/config"
	"github.com/reviewdbapp/reviewdb-server/internal/service"
	"github.com/reviewdbapp/reviewdb-server/internal/store"
)

// Services groups the business services the handlers depend on.
type Services struct {
	Auth    *service.AuthService
	Users   *service.UserService
	Catalog *service.CatalogService
	Reviews *service.ReviewService
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store           store.Store
	services        Services
	router          *chi.Mux
	api             huma.API
	logger          *slog.Logger
	authRateLimiter *RateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg *config.Config, st store.Store, services Services, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	router.Use(authMiddleware(services.Auth))

	humaConfig := huma.DefaultConfig(cfg.Server.Name, "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	signupRate := cfg.Auth.SignupRatePerMinute
	if signupRate <= 0 {
		signupRate = 20
	}

	s := &Server{
		store:           st,
		services:        services,
		router:          router,
		api:             api,
		logger:          logger,
		authRateLimiter: NewRateLimiter(signupRate, time.Minute, signupRate),
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerCategoryRoutes()
	s.registerGenreRoutes()
	s.registerTitleRoutes()
	s.registerReviewRoutes()
	s.registerCommentRoutes()
	s.registerUserRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
