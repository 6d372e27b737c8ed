package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/agbru/eigscan/internal/config"
	"github.com/agbru/eigscan/internal/eigen"
	apperrors "github.com/agbru/eigscan/internal/errors"
	"github.com/agbru/eigscan/internal/logging"
	"github.com/agbru/eigscan/internal/service"
)

// Server is the HTTP front end of the scanner. It wraps http.Server with the
// middleware chain and graceful shutdown.
type Server struct {
	factory        eigen.EngineFactory
	service        service.Service
	cfg            config.AppConfig
	httpServer     *http.Server
	logger         logging.Logger
	shutdownSignal chan os.Signal
	rateLimiter    *RateLimiter
	ownsLimiter    bool
	securityConfig SecurityConfig
	metrics        *Metrics
	timeouts       Timeouts
	defaultEngine  string
	version        string
}

// NewServer creates a Server.
//
// Parameters:
//   - factory: Supplies the engines.
//   - cfg: The application configuration (port, limits, rate limit, default
//     engine).
//   - opts: Optional functional options such as WithLogger.
//
// Returns:
//   - *Server: The configured server; call Start to serve.
func NewServer(factory eigen.EngineFactory, cfg config.AppConfig, opts ...Option) *Server {
	s := &Server{
		factory:        factory,
		cfg:            cfg,
		logger:         logging.NewLogger(os.Stdout, "server"),
		shutdownSignal: make(chan os.Signal, 1),
		securityConfig: DefaultSecurityConfig(),
		metrics:        NewMetrics(),
		timeouts:       DefaultServerTimeouts(),
		defaultEngine:  service.DefaultEngine,
	}
	if cfg.Engine != "" && cfg.Engine != "all" && slices.Contains(factory.List(), cfg.Engine) {
		s.defaultEngine = cfg.Engine
	}
	if cfg.Timeout > 0 {
		s.timeouts.RequestTimeout = cfg.Timeout
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.service == nil {
		s.service = service.NewEigenService(s.factory, cfg.MaxDim, cfg.MaxRangeWidth)
	}
	if s.rateLimiter == nil {
		s.rateLimiter = NewRateLimiter(RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit,
			Burst:             cfg.RateBurst,
		})
		s.ownsLimiter = true
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/determinant", s.wrapWithMiddleware(s.handleDeterminant))
	mux.HandleFunc("/eigen", s.wrapWithMiddleware(s.handleEigen))
	mux.HandleFunc("/health", s.wrapWithMiddleware(s.handleHealth))
	mux.HandleFunc("/engines", s.wrapWithMiddleware(s.handleEngines))
	mux.HandleFunc("/metrics", s.wrapWithMiddleware(s.handleMetrics))

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  s.timeouts.ReadTimeout,
		WriteTimeout: s.timeouts.WriteTimeout,
		IdleTimeout:  s.timeouts.IdleTimeout,
	}

	return s
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully.
//
// Returns:
//   - error: A ServerError if the listener fails or shutdown times out.
func (s *Server) Start() error {
	signal.Notify(s.shutdownSignal, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(s.shutdownSignal)
	if s.ownsLimiter {
		defer s.rateLimiter.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server",
			logging.String("addr", s.httpServer.Addr),
			logging.String("default_engine", s.defaultEngine),
			logging.Int("max_dim", s.cfg.MaxDim),
			logging.Uint64("max_range", s.cfg.MaxRangeWidth),
		)
		s.logger.Println("Available endpoints:")
		s.logger.Println("  POST /determinant  {\"matrix\": [[...]], \"engine\": \"...\"}")
		s.logger.Println("  POST /eigen        {\"matrix\": [[...]], \"lo\": -10, \"hi\": 10}")
		s.logger.Println("  GET  /engines")
		s.logger.Println("  GET  /health")
		s.logger.Println("  GET  /metrics")

		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-s.shutdownSignal:
		s.logger.Println("Shutdown signal received, initiating graceful shutdown...")
	case err := <-errCh:
		return apperrors.NewServerError("server failed to start", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeouts.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return apperrors.NewServerError("failed to gracefully shutdown server", err)
	}

	s.logger.Println("Server stopped gracefully")
	return nil
}
