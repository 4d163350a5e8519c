package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-forecast/internal/config"
	"github.com/vzahanych/weather-forecast/internal/forecaster"
	"github.com/vzahanych/weather-forecast/internal/server/handlers"
	"github.com/vzahanych/weather-forecast/internal/server/middlewares"
	"github.com/vzahanych/weather-forecast/pkg/telemetry"
	"go.uber.org/zap"
)

type Server struct {
	engine     *gin.Engine
	server     *http.Server
	forecaster *forecaster.Forecaster
	logger     *zap.Logger
	tele       *telemetry.Telemetry
}

func NewServer(cfg *config.Config, f *forecaster.Forecaster, logger *zap.Logger, tele *telemetry.Telemetry) *Server {
	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	httpMetrics := middlewares.NewMetricsMiddleware()

	engine.Use(middlewares.RequestIDMiddleware())
	engine.Use(middlewares.LoggingMiddleware(logger, true))
	engine.Use(middlewares.RecoveryMiddleware(logger, true))
	engine.Use(middlewares.TelemetryMiddleware(logger, tele))
	engine.Use(httpMetrics.Handler())

	s := &Server{
		engine: engine,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:      engine,
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
			IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		},
		forecaster: f,
		logger:     logger,
		tele:       tele,
	}

	metrics := handlers.NewMetricsHandler(httpMetrics)
	f.SetMetricsRecorder(metrics)

	s.setupRoutes(metrics)

	return s
}

func (s *Server) setupRoutes(metrics *handlers.MetricsHandler) {
	forecast := handlers.NewForecastHandler(s.forecaster, s.logger)
	health := handlers.NewHealthHandler(s.forecaster)

	s.engine.GET("/forecast", forecast.GetForecast)
	s.engine.GET("/sources", forecast.ListSources)

	// Health endpoints (Kubernetes friendly)
	s.engine.GET("/health", health.Health)
	s.engine.GET("/health/live", health.Liveness)
	s.engine.GET("/health/ready", health.Readiness)

	s.engine.GET("/metrics", metrics.ServeMetrics)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start blocks until the server stops. A graceful Shutdown is not an error.
func (s *Server) Start() error {
	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
