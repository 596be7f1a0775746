// Package api exposes the reconciliation engine over HTTP.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pennyledger/reconcile-backend/internal/api/handlers"
	"github.com/pennyledger/reconcile-backend/internal/api/middleware"
	"github.com/pennyledger/reconcile-backend/internal/application/service"
	"github.com/pennyledger/reconcile-backend/internal/infrastructure/storage"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:3000"},
	}
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	engine     *gin.Engine
	httpServer *http.Server
	logger     *slog.Logger
	repo       storage.Repository
	svc        *service.ReconcileService
}

// NewServer creates a new API server.
func NewServer(cfg Config, repo storage.Repository, svc *service.ReconcileService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		config: cfg,
		engine: gin.New(),
		logger: logger,
		repo:   repo,
		svc:    svc,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	s.engine.Use(gin.Recovery())
	s.engine.Use(middleware.Logging(s.logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = s.config.AllowedOrigins
	corsConfig.AllowCredentials = true
	s.engine.Use(cors.New(corsConfig))
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	s.engine.GET("/health", handlers.Health)

	api := s.engine.Group("/api")
	{
		reconcileHandler := handlers.NewReconcileHandler(s.svc)
		api.POST("/reconcile", reconcileHandler.Reconcile)
		api.POST("/reconcile/confirm", reconcileHandler.Confirm)

		batchesHandler := handlers.NewBatchesHandler(s.repo, s.svc)
		api.GET("/batches", batchesHandler.List)
		api.GET("/batches/:id", batchesHandler.Get)
		api.DELETE("/batches/:id", batchesHandler.Delete)

		linksHandler := handlers.NewLinksHandler(s.svc)
		api.POST("/links", linksHandler.Create)

		expensesHandler := handlers.NewExpensesHandler(s.repo)
		api.GET("/expenses/search", expensesHandler.Search)

		mappingsHandler := handlers.NewMappingsHandler(s.repo)
		api.GET("/mappings", mappingsHandler.List)
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the gin engine for testing.
func (s *Server) Router() *gin.Engine {
	return s.engine
}
