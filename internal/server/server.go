package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agromitra/agromitra/internal/advisory"
	"github.com/agromitra/agromitra/internal/config"
	"github.com/agromitra/agromitra/internal/server/handlers"
	"github.com/agromitra/agromitra/internal/server/middlewares"
	"github.com/agromitra/agromitra/internal/weather"
	"github.com/agromitra/agromitra/pkg/telemetry"
)

type Server struct {
	engine   *gin.Engine
	server   *http.Server
	fetcher  *weather.Fetcher
	resolver *weather.Resolver
	logger   *zap.Logger
	tele     *telemetry.Telemetry
}

var (
	instance *Server
	once     sync.Once
)

func NewServer(logger *zap.Logger, tele *telemetry.Telemetry) *Server {
	once.Do(func() {
		cfg := config.GetConfig()

		fetcher := weather.NewFetcher(cfg.Sources, logger, tele)
		resolver := weather.NewResolver(cfg.Sources, logger)

		gin.SetMode(gin.ReleaseMode)
		engine := gin.New()

		metricsMw := middlewares.NewMetricsMiddleware(logger)

		engine.Use(middlewares.RequestIDMiddleware())
		engine.Use(middlewares.LoggingMiddleware(logger, true))
		engine.Use(middlewares.RecoveryMiddleware(logger, true))
		engine.Use(middlewares.TelemetryMiddleware(logger, tele))
		engine.Use(middlewares.RateLimitMiddleware(cfg.Server.RateLimit, logger))
		engine.Use(metricsMw.Handler())

		// /metrics reads HTTP counters from the middleware via context
		engine.Use(func(c *gin.Context) {
			c.Set("http_metrics", metricsMw.GetHTTPMetrics())
			c.Next()
		})

		instance = &Server{
			engine:   engine,
			fetcher:  fetcher,
			resolver: resolver,
			logger:   logger,
			tele:     tele,
		}

		instance.setupRoutes(cfg)
	})

	return instance
}

func (s *Server) setupRoutes(cfg *config.Config) {
	metricsHandler := handlers.NewMetricsHandler(s.logger)
	s.fetcher.SetMetricsRecorder(metricsHandler)

	// Business endpoints
	s.engine.POST("/weather", handlers.NewWeatherHandler(s.fetcher, s.logger).GetWeather)
	s.engine.GET("/geocode", handlers.NewGeocodeHandler(s.resolver, s.logger).ReverseGeocode)
	s.engine.POST("/alerts", handlers.NewAlertsHandler(s.fetcher, advisory.NewGenerator(), s.logger).GenerateAlerts)
	s.engine.GET("/sources", handlers.NewSourcesHandler(cfg.Sources, s.logger).ListSources)

	// Health endpoints (Kubernetes friendly)
	healthHandler := handlers.NewHealthHandler(s.logger)
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/health/live", healthHandler.Liveness)
	s.engine.GET("/health/ready", healthHandler.Readiness)

	// Monitoring endpoints
	s.engine.GET("/metrics", metricsHandler.ServeMetrics)
}

func (s *Server) Start() error {
	cfg := config.GetConfig()

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}
