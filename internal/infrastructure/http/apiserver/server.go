// Package apiserver provides the JSON API HTTP server
package apiserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/alchemorsel/pantry/internal/infrastructure/config"
	"github.com/alchemorsel/pantry/internal/infrastructure/http/handlers"
	"github.com/alchemorsel/pantry/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/pantry/internal/infrastructure/http/response"
	"github.com/alchemorsel/pantry/internal/infrastructure/monitoring"
	"github.com/alchemorsel/pantry/internal/ports/inbound"
	"github.com/alchemorsel/pantry/pkg/errors"
	"github.com/alchemorsel/pantry/pkg/healthcheck"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// compressionLevel is the gzip/deflate/brotli level for response bodies
const compressionLevel = 5

// Dependencies are the services and probes the server routes to. Metrics and
// Tracing may be nil.
type Dependencies struct {
	RecipeService   inbound.RecipeService
	ShoppingService inbound.ShoppingListService
	Health          *healthcheck.HealthCheck
	StoreName       string
	Metrics         *monitoring.MetricsCollector
	Tracing         *monitoring.TracingProvider
}

// Server is the JSON API HTTP server
type Server struct {
	config *config.Config
	logger *zap.Logger
	deps   Dependencies
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new API server instance
func NewServer(cfg *config.Config, log *zap.Logger, deps Dependencies) (*Server, error) {
	s := &Server{
		config: cfg,
		logger: log.Named("apiserver"),
		deps:   deps,
	}

	router, err := s.setupRoutes()
	if err != nil {
		return nil, err
	}
	s.router = router

	s.server = &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:        s.router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return s, nil
}

// setupRoutes configures the router. The resource routes are reachable both
// at the root and under /api.
func (s *Server) setupRoutes() (*chi.Mux, error) {
	openAPI, err := NewOpenAPIHandler(s.logger)
	if err != nil {
		return nil, err
	}

	healthPath := s.config.Monitoring.HealthCheckPath
	if healthPath == "" {
		healthPath = "/health"
	}
	metricsPath := s.config.Monitoring.MetricsPath

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger, healthPath, metricsPath))
	r.Use(middleware.Recovery(s.logger))
	r.Use(middleware.Security(s.config.IsProduction()))
	r.Use(middleware.CORS(s.config.Server))
	r.Use(middleware.RateLimit(s.config.RateLimit))
	if s.deps.Metrics != nil {
		r.Use(s.deps.Metrics.HTTPMiddleware)
	}
	if s.deps.Tracing != nil {
		r.Use(s.deps.Tracing.Middleware)
	}
	if s.config.Server.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(s.config.Server.RequestTimeout))
	}
	if s.config.Server.EnableCompression {
		r.Use(middleware.Compression(compressionLevel))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, r, errors.NewNotFoundError("Route"))
	})

	r.Get(healthPath, s.deps.Health.Handler())
	r.Get("/livez", s.deps.Health.LivenessHandler())

	if s.config.Monitoring.EnableMetrics && s.deps.Metrics != nil && metricsPath != "" {
		r.Method(http.MethodGet, metricsPath, s.deps.Metrics.Handler())
	}

	r.Get("/openapi.yaml", openAPI.ServeOpenAPISpec)
	r.Get("/openapi.json", openAPI.ServeOpenAPIJSON)
	r.Get("/docs", openAPI.ServeSwaggerUI)

	r.Group(s.setupAPIRoutes)
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.deps.Health.Handler())
		s.setupAPIRoutes(r)
	})

	return r, nil
}

// setupAPIRoutes configures the recipe and shopping-list endpoints
func (s *Server) setupAPIRoutes(r chi.Router) {
	maxBody := s.config.Server.MaxBodyBytes
	recipes := handlers.NewRecipeHandlers(s.deps.RecipeService, maxBody, s.logger)
	shopping := handlers.NewShoppingListHandler(s.deps.ShoppingService, maxBody, s.logger)

	r.Group(func(r chi.Router) {
		r.Use(middleware.JSONOnly)

		r.Route("/recipes", recipes.Routes)
		r.Post("/shopping-list", shopping.GenerateShoppingList)
	})
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.server.Addr
}

// Start starts the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("Starting API server",
		zap.String("address", s.server.Addr),
		zap.String("store", s.deps.StoreName),
	)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")
	return s.server.Shutdown(ctx)
}
