package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/transcript-search/api/types"
	"github.com/killallgit/transcript-search/pkg/config"
)

var errMissingCorpus = errors.New("server dependencies must include a corpus service")

// Options configures the HTTP server
type Options struct {
	Address       string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	MaxUploadSize int64
	RateLimits    RateLimits
	EnableCORS    bool
	CORSOrigins   []string
}

// OptionsFromConfig derives server options from the loaded configuration
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Address:       cfg.Server.Address(),
		ReadTimeout:   cfg.Server.ReadTimeout,
		WriteTimeout:  cfg.Server.WriteTimeout,
		MaxUploadSize: int64(cfg.Server.MaxUploadSize),
		RateLimits:    RateLimits{RPS: cfg.Server.RateLimit, Burst: cfg.Server.RateBurst},
		EnableCORS:    cfg.Security.EnableCORS,
		CORSOrigins:   cfg.Security.CORSOrigins,
	}
}

// Server represents the HTTP server
type Server struct {
	engine       *gin.Engine
	httpServer   *http.Server
	opts         Options
	rateLimiters *rateLimiters

	// Dependencies for handlers
	dependencies *types.Dependencies
}

// NewServer creates a new HTTP server
func NewServer(opts Options) *Server {
	// Create Gin engine with recovery middleware only
	engine := gin.New()
	engine.Use(gin.Recovery())

	if opts.RateLimits.RPS <= 0 {
		opts.RateLimits = RateLimits{RPS: 20, Burst: 40}
	}

	return &Server{
		engine:       engine,
		opts:         opts,
		rateLimiters: newRateLimiters(),
		httpServer: &http.Server{
			Addr:           opts.Address,
			Handler:        engine,
			ReadTimeout:    opts.ReadTimeout,
			WriteTimeout:   opts.WriteTimeout,
			IdleTimeout:    30 * time.Second,
			MaxHeaderBytes: 1 << 20, // 1 MB
		},
	}
}

// SetDependencies sets all handler dependencies
func (s *Server) SetDependencies(deps *types.Dependencies) {
	s.dependencies = deps
	if deps != nil && deps.MaxUploadSize == 0 {
		deps.MaxUploadSize = s.opts.MaxUploadSize
	}
}

// Engine returns the Gin engine for testing
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Initialize sets up middleware and routes
func (s *Server) Initialize() error {
	s.setupMiddleware()
	return RegisterRoutes(s.engine, s.dependencies, s.rateLimiters, s.opts.RateLimits)
}

// setupMiddleware configures global middleware
func (s *Server) setupMiddleware() {
	s.engine.Use(gin.Logger())

	if s.opts.EnableCORS {
		s.engine.Use(CORS(s.opts.CORSOrigins))
	}

	if s.opts.MaxUploadSize > 0 {
		s.engine.Use(RequestSizeLimitWithSize(s.opts.MaxUploadSize))
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.rateLimiters.Stop()
	return s.httpServer.Shutdown(ctx)
}
