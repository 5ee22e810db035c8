// Package server is the HTTP surface of the comprobante printer.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rezonia/comprobante-printer/internal/config"
	"github.com/rezonia/comprobante-printer/internal/model"
	"github.com/rezonia/comprobante-printer/internal/render"
)

const (
	notFoundMessage = "Comprobante no encontrado"
	failureMessage  = "Error al generar el comprobante PDF"
)

// Printer produces the PDF of one document
type Printer interface {
	Print(ctx context.Context, key model.DocumentKey) (*render.Output, error)
}

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds server configuration
type Config struct {
	Address         string
	PublicDir       string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	Debug           bool
	CORS            config.CORSConfig
	RateLimit       config.RateLimitConfig
}

// Server represents the HTTP API server
type Server struct {
	config  *Config
	router  *gin.Engine
	printer Printer
	db      Pinger
	metrics http.Handler
	limiter *IPRateLimiter
	logger  *slog.Logger
}

// Option configures the server
type Option func(*Server)

// WithHealthCheck makes /health ping the database
func WithHealthCheck(db Pinger) Option {
	return func(s *Server) {
		s.db = db
	}
}

// WithMetricsHandler mounts h on /metrics
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// NewServer creates a new API server
func NewServer(config *Config, printer Printer, opts ...Option) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:  config,
		router:  gin.New(),
		printer: printer,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.router.Use(gin.Recovery())
	s.router.Use(RequestLogger(s.logger))
	s.router.Use(CORS(&config.CORS))
	if config.RateLimit.RequestsPerSecond > 0 {
		s.limiter = NewIPRateLimiter(config.RateLimit)
		s.router.Use(s.limiter.Middleware())
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics))
	}

	if s.config.PublicDir != "" {
		s.router.Static("/public", s.config.PublicDir)
	}

	api := s.router.Group("/api")
	{
		api.GET("/comprobantes/:tipo/:serie/:numero", s.handleComprobante)
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests
func (s *Server) Run(ctx context.Context) error {
	if s.limiter != nil {
		defer s.limiter.Stop()
	}

	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", slog.String("address", s.config.Address))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	response := HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	}

	if s.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := s.db.Ping(ctx); err != nil {
			s.logger.Warn("database ping failed", slog.String("error", err.Error()))
			response.Status = "degraded"
			response.Database = "unreachable"
			c.JSON(http.StatusServiceUnavailable, response)
			return
		}
		response.Database = "ok"
	}

	c.JSON(http.StatusOK, response)
}

func (s *Server) handleComprobante(c *gin.Context) {
	key := model.DocumentKey{
		Type:   model.DocumentType(c.Param("tipo")),
		Series: c.Param("serie"),
		Number: c.Param("numero"),
	}

	out, err := s.printer.Print(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			c.JSON(http.StatusNotFound, MessageResponse{Mensaje: notFoundMessage})
			return
		}

		_ = c.Error(err)
		s.logger.Error("generating comprobante",
			slog.String("request_id", c.GetString(requestIDKey)),
			slog.String("key", key.String()),
			slog.String("error", err.Error()),
		)
		c.String(http.StatusInternalServerError, failureMessage)
		return
	}

	c.Header("Content-Disposition", "inline; filename="+out.Filename)
	c.Data(http.StatusOK, out.ContentType, out.Content)
}
