package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/config"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/server/middleware"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/service"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/telemetry/health"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/telemetry/logging"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/telemetry/metrics"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/telemetry/tracing"
)

// Server is the HTTP server for the rule engine API.
type Server struct {
	config        config.ServerConfig
	metricsConfig config.MetricsConfig
	service       *service.Service
	metrics       *metrics.Collector
	tracer        *tracing.Tracer
	health        *health.Checker
	version       health.VersionInfo
	logger        *logging.Logger

	httpServer   *http.Server
	listener     net.Listener
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// Options holds the optional collaborators of a Server.
type Options struct {
	Metrics *metrics.Collector
	Tracer  *tracing.Tracer
	Logger  *logging.Logger

	// Health runs the GET /ready checks. When nil, a checker with only a
	// store check is used.
	Health *health.Checker

	// Version is served on GET /version.
	Version health.VersionInfo
}

// NewServer creates a server for svc. Nothing listens until Start.
func NewServer(cfg *config.Config, svc *service.Service, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = tracing.Noop()
	}
	checker := opts.Health
	if checker == nil {
		checker = health.New(0)
		checker.RegisterCheck("store", health.StoreCheck(svc.Store()))
	}
	version := opts.Version
	if version.Version == "" {
		version.Version = "dev"
	}

	return &Server{
		config:        cfg.Server,
		metricsConfig: cfg.Telemetry.Metrics,
		service:       svc,
		metrics:       opts.Metrics,
		tracer:        tracer,
		health:        checker,
		version:       version,
		logger:        logger.With("component", "server"),
	}
}

// Start listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	listener, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
	s.isRunning = true
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting rule engine server", "address", listener.Addr().String())
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err, ok := <-errChan:
		if ok {
			return err
		}
		return nil
	}
}

// Shutdown gracefully stops the server, waiting up to the configured
// shutdown timeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.RLock()
		running := s.isRunning
		httpServer := s.httpServer
		s.mu.RUnlock()
		if !running {
			return
		}

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("rule engine server stopped")
	})

	return shutdownErr
}

// Addr returns the address the server listens on, or "" before Start.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the routes wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.routes()

	handler = middleware.BodyLimitMiddleware(s.config.MaxBodyBytes)(handler)
	if s.config.RequestTimeout > 0 {
		handler = http.TimeoutHandler(handler, s.config.RequestTimeout,
			`{"message":"Request timeout","error":"the request took too long to complete"}`)
	}
	handler = middleware.CORSMiddleware(s.config.CORS)(handler)
	handler = middleware.LoggingMiddleware(s.logger)(handler)
	handler = s.tracer.HTTPMiddleware(handler)
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.RecoveryMiddleware(s.logger)(handler)

	return handler
}
