package server

import (
	"io"
	"os"
	"time"

	"skillsync/internal/ai"
	"skillsync/internal/catalog"
	"skillsync/internal/config"
	appErrors "skillsync/internal/errors"
	"skillsync/internal/observability"
	"skillsync/internal/session"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	// Page is set when the request needs the client to show another page
	Page string `json:"page,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// TLS Configuration
	TLSConfig config.TLSConfig
	certs     *certReloader

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *LimiterManager

	// Domain
	Provider ai.Provider
	Sessions *session.Store
	Catalog  *catalog.Catalog

	obs     *observability.ObservabilityManager
	metrics *observability.Metrics
	now     func() time.Time

	// Banner output, stdout by default
	out io.Writer

	// Logger
	Logger *appErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServer creates a Server. The provider is wrapped so that every model
// call, stateless or from a session, is measured.
func NewServer(appCfg *config.Config, cfg ServerConfig, provider ai.Provider, cat *catalog.Catalog, om *observability.ObservabilityManager, logger *appErrors.Logger) *Server {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *LimiterManager
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.BurstCapacity, logger)
	}

	metrics := om.GetMetrics()
	instrumented := observability.InstrumentProvider(provider, metrics, appCfg)

	s := &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Provider:       instrumented,
		Catalog:        cat,
		obs:            om,
		metrics:        metrics,
		now:            time.Now,
		out:            os.Stdout,
		Logger:         logger,
	}

	s.Sessions = session.NewStore(appCfg.Server.Sessions, func(id string) *session.Session {
		return session.New(instrumented,
			session.WithID(id),
			session.WithRecorder(metrics),
			session.WithLogger(logger),
		)
	}, metrics, logger)

	return s
}
