package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quipay/keysmith/internal/metrics"
)

const (
	healthPath  = "/health"
	metricsPath = "/metrics"
)

// HealthChecker reports whether the secret store can serve requests.
type HealthChecker interface {
	IsHealthy(ctx context.Context) bool
}

// ServerConfig configures the ops server.
type ServerConfig struct {
	Host string
	Port int
	// CORSAllowOrigins is a comma-separated origin list. Empty disables CORS.
	CORSAllowOrigins string
}

// MetricsServer serves Prometheus metrics and the health endpoint.
type MetricsServer struct {
	server *http.Server
	health HealthChecker
	logger *slog.Logger
}

// NewMetricsServer creates a new MetricsServer. A nil metricsProvider leaves /metrics
// unregistered.
func NewMetricsServer(
	cfg ServerConfig,
	logger *slog.Logger,
	metricsProvider *metrics.Provider,
	health HealthChecker,
) *MetricsServer {
	s := &MetricsServer{
		health: health,
		logger: logger,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(logger))
	if corsMiddleware := createCORSMiddleware(cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(
			metricsProvider.MeterProvider(),
			metricsProvider.Namespace(),
			healthPath,
			metricsPath,
		))
		router.GET(metricsPath, gin.WrapH(metricsProvider.Handler()))
	}
	router.GET(healthPath, s.healthHandler)

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *MetricsServer) healthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if s.health == nil || !s.health.IsHealthy(ctx) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "unhealthy",
			"components": gin.H{"secret_store": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"components": gin.H{"secret_store": "ok"},
	})
}

// GetHandler returns the http.Handler for testing purposes.
func (s *MetricsServer) GetHandler() http.Handler {
	return s.server.Handler
}

// Start serves until Shutdown is called.
func (s *MetricsServer) Start(ctx context.Context) error {
	s.logger.Info("starting metrics server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the metrics HTTP server.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down metrics server")
	return s.server.Shutdown(ctx)
}
