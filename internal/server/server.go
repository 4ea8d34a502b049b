// Package server exposes the humanize and detect pipelines over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/model"
	"github.com/himanshumishra9911/ai-text-humanizer-api/internal/worker"
	"go.uber.org/zap"
)

// Humanizer runs the humanize pipeline
type Humanizer interface {
	Humanize(ctx context.Context, req model.HumanizeRequest) (*model.HumanizeResult, error)
}

// Detector runs the detect pipeline
type Detector interface {
	Detect(ctx context.Context, req model.DetectRequest) (*model.DetectResult, error)
}

// clientIdleTimeout drops the rate-limit bucket of a client IP that has
// been quiet this long
const clientIdleTimeout = 10 * time.Minute

// Server is the HTTP API
type Server struct {
	cfg       model.ServerConfig
	router    *gin.Engine
	humanizer Humanizer
	detector  Detector
	log       *zap.Logger
}

// New builds the router and its middleware
func New(cfg model.ServerConfig, humanizer Humanizer, detector Detector, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	s := &Server{
		cfg:       cfg,
		router:    gin.New(),
		humanizer: humanizer,
		detector:  detector,
		log:       log,
	}

	s.router.HandleMethodNotAllowed = true
	s.router.Use(gin.Recovery())
	s.router.Use(RequestID())
	s.router.Use(Logger(log))
	s.router.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	s.registerRoutes()

	return s
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders: []string{"Content-Length", requestIDHeader, "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/")
	if s.cfg.RequestsPerSecond > 0 {
		api.Use(RateLimit(worker.NewExpiringLimiter(s.cfg.RequestsPerSecond, s.cfg.Burst, clientIdleTimeout)))
	}
	api.POST("/humanize", s.handleHumanize)
	api.POST("/detect", s.handleDetect)
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSeconds) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	return nil
}
