// ABOUTME: echo HTTP server exposing the health API under /api.
// ABOUTME: Wires middleware, routes, error handling and graceful shutdown.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/harperreed/healthai/internal/health"
	"github.com/harperreed/healthai/internal/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Config holds HTTP server settings.
type Config struct {
	Addr string
	// RateLimit is requests per second per IP on chat and insight
	// generation. Zero disables limiting.
	RateLimit float64
	RateBurst int
}

// Server provides the HTTP API.
type Server struct {
	echo    *echo.Echo
	svc     *health.Service
	auth    *session.Authenticator
	tokens  *session.Registry
	logger  *zap.Logger
	metrics *Metrics
	limiter *RateLimiter
	config  Config
}

// NewServer creates a Server. tokens may be shared with other front ends.
func NewServer(svc *health.Service, auth *session.Authenticator, tokens *session.Registry, logger *zap.Logger, cfg Config) (*Server, error) {
	if svc == nil || auth == nil {
		return nil, fmt.Errorf("service and authenticator are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if tokens == nil {
		tokens = session.NewRegistry()
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:    e,
		svc:     svc,
		auth:    auth,
		tokens:  tokens,
		logger:  logger,
		metrics: NewMetrics(),
		config:  cfg,
	}
	if cfg.RateLimit > 0 {
		s.limiter = NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
	}

	e.HTTPErrorHandler = s.errorHandler
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.requestLogger())
	e.Use(s.metrics.Middleware())

	s.registerRoutes()
	return s, nil
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			s.logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	}
}

func (s *Server) registerRoutes() {
	s.echo.GET("/healthz", s.handleHealthz)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.echo.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", s.handleRegister)
	authGroup.POST("/login", s.handleLogin)
	authGroup.POST("/logout", s.handleLogout)
	authGroup.GET("/me", s.handleMe)

	var limited []echo.MiddlewareFunc
	if s.limiter != nil {
		limited = append(limited, s.limiter.Middleware(s.metrics.RateLimited.Inc))
	}

	h := api.Group("/health")
	h.GET("/metrics", s.handleListMetrics)
	h.POST("/metrics", s.handleAddMetric)
	h.GET("/insights", s.handleListInsights)
	h.POST("/insights", s.handleGenerateInsight, limited...)
	h.POST("/chat", s.handleChat, limited...)
	h.GET("/sources", s.handleListSources)
	h.POST("/sources/:id/connect", s.handleConnectSource)
}

// ServeHTTP lets tests and embedders drive the server without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on the configured address until Shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting http server", zap.String("addr", s.config.Addr))
	return s.echo.Start(s.config.Addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

type healthzResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, healthzResponse{Status: "ok"})
}
