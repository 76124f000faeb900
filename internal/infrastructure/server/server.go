package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/AgentOS/client/internal/api/http"
	"github.com/GriffinCanCode/AgentOS/client/internal/api/middleware"
	"github.com/GriffinCanCode/AgentOS/client/internal/domain/catalog"
	"github.com/GriffinCanCode/AgentOS/client/internal/domain/session"
	"github.com/GriffinCanCode/AgentOS/client/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentOS/client/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/client/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/AgentOS/client/internal/presentation/web"
)

// ShutdownTimeout bounds graceful shutdown of the control API
const ShutdownTimeout = 5 * time.Second

// Dependencies are the components the control API exposes
type Dependencies struct {
	Session   *session.Session
	Presenter *web.Presenter
	Catalog   *catalog.Manager
	Metrics   *monitoring.Metrics
	Tracer    *tracing.Tracer
	// Link is the backend channel; nil when running without one
	Link apihttp.LinkStatus
}

// Server wraps the control API listener
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *zap.Logger
	config *config.Config
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, deps Dependencies, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if deps.Tracer != nil {
		router.Use(tracing.HTTPMiddleware(deps.Tracer))
	}
	if deps.Metrics != nil {
		router.Use(monitoring.Middleware(deps.Metrics))
	}
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
	}

	handlers := apihttp.NewHandlers(deps.Session, deps.Presenter, deps.Catalog).WithMetrics(deps.Metrics)
	if deps.Link != nil {
		handlers.WithLink(deps.Link)
	}
	handlers.Register(router)
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	return &Server{
		router: router,
		logger: logger,
		config: cfg,
		http: &http.Server{
			Addr:              cfg.Server.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.http.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("Control API listening", zap.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	return s.Close()
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	s.logger.Info("Shutting down control API...")

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down control API: %w", err)
	}
	return nil
}
