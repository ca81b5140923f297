// Package http provides HTTP server implementation and request handlers.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/quizly/internal/auth/http"
	authService "github.com/allisson/quizly/internal/auth/service"
	authUseCase "github.com/allisson/quizly/internal/auth/usecase"
	"github.com/allisson/quizly/internal/metrics"
	quizHTTP "github.com/allisson/quizly/internal/quiz/http"
	userHTTP "github.com/allisson/quizly/internal/user/http"
)

const readinessTimeout = 2 * time.Second

// RouterConfig holds the request pipeline options.
type RouterConfig struct {
	// StrictAuthentication rejects invalid access tokens instead of continuing anonymously.
	StrictAuthentication bool

	RateLimitEnabled        bool
	RateLimitRequestsPerSec float64
	RateLimitBurst          int

	CORSEnabled      bool
	CORSAllowOrigins string

	MetricsNamespace string
}

// Server represents the HTTP server.
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger

	// stop ends background work started by middleware, such as limiter eviction.
	stop context.CancelFunc
	ctx  context.Context
}

// NewServer creates a new HTTP server. db is used by the readiness probe and may be nil.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	ctx, stop := context.WithCancel(context.Background())
	return &Server{
		db:     db,
		logger: logger,
		ctx:    ctx,
		stop:   stop,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 150 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter configures the Gin router with all routes and middleware.
//
// Every API request passes through AuthenticationMiddleware so the principal is
// resolved once; per-route policies then decide whether anonymous access is allowed.
func (s *Server) SetupRouter(
	cfg RouterConfig,
	sessions authUseCase.SessionUseCase,
	codec authService.TokenCodec,
	userHandler *userHTTP.UserHandler,
	sessionHandler *authHTTP.SessionHandler,
	quizHandler *quizHTTP.QuizHandler,
	metricsProvider *metrics.Provider,
) {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	sessionRoutes := router.Group("/")
	if cfg.RateLimitEnabled {
		sessionRoutes.Use(authHTTP.IPRateLimitMiddleware(
			s.ctx,
			cfg.RateLimitRequestsPerSec,
			cfg.RateLimitBurst,
			s.logger,
		))
	}
	{
		sessionRoutes.POST("/register", userHandler.RegisterHandler)
		sessionRoutes.POST("/login", sessionHandler.LoginHandler)
		sessionRoutes.POST("/token/refresh", authHTTP.RefreshAccess(s.logger), sessionHandler.RefreshHandler)
	}

	// Logout always authenticates softly: a stale access cookie must not keep the
	// session cookies from being cleared.
	router.POST("/logout",
		authHTTP.AuthenticationMiddleware(sessions, codec, false, s.logger),
		authHTTP.LogoutAccess(s.logger),
		sessionHandler.LogoutHandler,
	)

	quizzes := router.Group("/")
	quizzes.Use(
		authHTTP.AuthenticationMiddleware(sessions, codec, cfg.StrictAuthentication, s.logger),
		authHTTP.RequireAuthenticated(s.logger),
	)
	{
		quizzes.POST("/createQuiz", quizHandler.CreateHandler)
		quizzes.GET("/quizzes", quizHandler.ListHandler)
		quizzes.GET("/quizzes/:id", quizHandler.GetHandler)
		quizzes.PATCH("/quizzes/:id", quizHandler.UpdateHandler)
	}

	s.router = router
}

// Router returns the configured router, or nil before SetupRouter.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	s.stop()
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports ready only when the database answers a ping.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}
