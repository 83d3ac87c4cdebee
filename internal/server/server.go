// Package server sets up the HTTP server with all routes
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/denarius-labs/riskd/internal/analysis"
	"github.com/denarius-labs/riskd/internal/auth"
	"github.com/denarius-labs/riskd/internal/config"
	"github.com/denarius-labs/riskd/internal/health"
	"github.com/denarius-labs/riskd/internal/history"
	"github.com/denarius-labs/riskd/internal/idgen"
	"github.com/denarius-labs/riskd/internal/logging"
	"github.com/denarius-labs/riskd/internal/metrics"
	"github.com/denarius-labs/riskd/internal/ratelimit"
	"github.com/denarius-labs/riskd/internal/scoring"
	"github.com/denarius-labs/riskd/internal/security"
	"github.com/denarius-labs/riskd/internal/validation"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	cfg         *config.Config
	provider    history.Provider
	engine      *scoring.Engine
	behavior    *analysis.BehaviorAnalyzer
	keyAuth     *auth.KeyAuth
	rateLimiter *ratelimit.Limiter
	checks      *health.Registry
	db          *sql.DB // nil when running on synthetic history
	router      *gin.Engine
	httpSrv     *http.Server
	logger      *slog.Logger
	stopStats   chan struct{}

	// Health state
	ready   atomic.Bool
	healthy atomic.Bool
}

// Option configures the server
type Option func(*Server)

// WithLogger sets a custom logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithProvider sets a custom history provider (for testing)
func WithProvider(p history.Provider) Option {
	return func(s *Server) {
		s.provider = p
	}
}

// New creates a new server instance
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:       cfg,
		logger:    logging.New(cfg.LogLevel, "json"),
		checks:    health.NewRegistry(2 * time.Second),
		stopStats: make(chan struct{}),
	}

	// Apply options first (may set provider/logger)
	for _, opt := range opts {
		opt(s)
	}

	// Storage: Postgres when DATABASE_URL is set, synthetic history otherwise
	var store scoring.Store
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := db.Ping(); err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		s.db = db
		if s.provider == nil {
			s.provider = history.NewPostgresProvider(db)
		}
		store = scoring.NewPostgresStore(db)
		s.checks.Register("database", func(ctx context.Context) error {
			return db.PingContext(ctx)
		})
		s.logger.Info("using PostgreSQL history", "url", maskDSN(cfg.DatabaseURL))
	} else {
		if s.provider == nil {
			s.provider = history.NewSynthetic(cfg.SyntheticSeed)
		}
		store = scoring.NewMemoryStore()
		s.logger.Info("using synthetic history (assessments will not persist)")
	}

	s.engine = scoring.NewEngine(store)
	s.behavior = analysis.NewBehaviorAnalyzer(cfg.SyntheticSeed)
	s.keyAuth = auth.New(cfg.FunctionKeys)

	if s.keyAuth.Open() {
		s.logger.Warn("no function keys configured, API is open")
	} else {
		s.logger.Info("function key authentication enabled", "keys", len(cfg.FunctionKeys))
	}

	// Configure gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()
	s.setupMiddleware()
	s.setupRoutes()

	s.healthy.Store(true)

	return s, nil
}

// maskDSN hides password in connection string for logging
func maskDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "***"
	}
	if u.User != nil {
		u.User = url.UserPassword(u.User.Username(), "***")
	}
	return u.String()
}

func (s *Server) setupMiddleware() {
	// Recovery with logging
	s.router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logging.L(c.Request.Context()).Error("panic recovered",
			"error", recovered,
			"path", c.Request.URL.Path,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": "internal server error",
		})
	}))

	// Security headers
	s.router.Use(security.HeadersMiddleware())

	// CORS
	s.router.Use(security.CORSMiddleware([]string{"*"}))

	// Request size limit (1MB)
	s.router.Use(validation.RequestSizeMiddleware(validation.MaxRequestSize))

	// Rate limiting
	limiterCfg := ratelimit.DefaultConfig()
	if s.cfg.RateLimitRPM > 0 {
		limiterCfg.RequestsPerMinute = s.cfg.RateLimitRPM
	}
	s.rateLimiter = ratelimit.New(limiterCfg)
	s.router.Use(s.rateLimiter.Middleware())

	// Prometheus metrics
	s.router.Use(metrics.Middleware())

	// Request ID
	s.router.Use(s.requestIDMiddleware())

	// Logging
	s.router.Use(s.loggingMiddleware())
}

func (s *Server) requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check for existing request ID (from load balancer, etc.)
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = idgen.Request()
		}

		ctx := logging.WithRequestID(c.Request.Context(), requestID)
		ctx = logging.WithLogger(ctx, s.logger)
		c.Request = c.Request.WithContext(ctx)

		c.Header("X-Request-ID", requestID)

		c.Next()
	}
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		logger := logging.L(c.Request.Context())

		switch {
		case status >= 500:
			logger.Error("request completed",
				"method", c.Request.Method,
				"path", path,
				"status", status,
				"latency_ms", latency.Milliseconds(),
				"client_ip", c.ClientIP(),
			)
		case status >= 400:
			logger.Warn("request completed",
				"method", c.Request.Method,
				"path", path,
				"status", status,
				"latency_ms", latency.Milliseconds(),
			)
		default:
			logger.Info("request completed",
				"method", c.Request.Method,
				"path", path,
				"status", status,
				"latency_ms", latency.Milliseconds(),
			)
		}
	}
}

func (s *Server) setupRoutes() {
	// Health & metrics endpoints (never behind function keys)
	s.router.GET("/health", s.healthHandler)
	s.router.GET("/health/live", s.livenessHandler)
	s.router.GET("/health/ready", s.readinessHandler)
	s.router.GET("/metrics", metrics.Handler())

	// Scoring API
	api := s.router.Group("")
	api.Use(s.keyAuth.Middleware())
	{
		api.POST("/process-transaction", s.processTransactionHandler)

		account := api.Group("/account/:account_number")
		account.Use(validation.AccountParamMiddleware())
		{
			account.GET("/metrics", s.accountMetricsHandler)
			account.GET("/assessments", s.listAssessmentsHandler)
		}
	}
}

// Run starts the HTTP server with graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("starting server",
			"port", s.cfg.Port,
			"env", s.cfg.Env,
		)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Sample DB pool stats for the scrape endpoint
	if s.db != nil {
		metrics.StartDBStatsCollector(s.db, 15*time.Second, s.stopStats)
	}

	// Mark as ready after brief delay for startup
	go func() {
		time.Sleep(100 * time.Millisecond)
		s.ready.Store(true)
		s.logger.Info("server ready")
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		s.logger.Info("shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		s.logger.Info("context cancelled")
	}

	return s.Shutdown()
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	s.ready.Store(false)
	s.logger.Info("starting graceful shutdown")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpSrv.Shutdown(ctx); err != nil {
		s.logger.Error("shutdown error", "error", err)
		return err
	}

	close(s.stopStats)

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
		s.logger.Info("rate limiter stopped")
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("database close error", "error", err)
		} else {
			s.logger.Info("database connection closed")
		}
	}

	s.logger.Info("server stopped")
	return nil
}

// Router returns the gin router for testing
func (s *Server) Router() *gin.Engine {
	return s.router
}
