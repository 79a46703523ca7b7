package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"aurum/internal/adapters/config"
	"aurum/pkg/logger"
)

// HealthChecker reports readiness of a backing dependency
type HealthChecker interface {
	Health(ctx context.Context) error
}

// LogoStore resolves cached logo images by symbol
type LogoStore interface {
	Lookup(symbol string) (string, bool)
	Path(name string) (string, error)
}

// Server is the HTTP surface over the sync engine and scheduler
type Server struct {
	sync      SyncService
	scheduler SchedulerService
	logos     LogoStore
	health    HealthChecker
	metrics   http.Handler
	log       *logger.Logger

	srv *http.Server
}

// NewServer wires the routes and returns a server ready to Run.
// metricsHandler may be nil, in which case /metrics is not exposed.
func NewServer(cfg config.HTTPConfig, syncSvc SyncService, sched SchedulerService, logos LogoStore, health HealthChecker, metricsHandler http.Handler) *Server {
	s := &Server{
		sync:      syncSvc,
		scheduler: sched,
		logos:     logos,
		health:    health,
		metrics:   metricsHandler,
		log:       logger.Get().With("component", "http_server"),
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics))
	}

	api := r.Group("/api")
	{
		api.POST("/sync", s.handleSync)
		api.POST("/sync/simulate", s.handleSimulateSync)
		api.POST("/sync/assets/:symbol", s.handleSaveAsset)

		api.GET("/assets/info/:symbol", s.handleAssetInfo)
		api.GET("/assets/symbols", s.handleAvailableSymbols)
		api.GET("/assets/:symbol/logo", s.handleAssetLogo)

		api.POST("/scheduler/start", s.handleSchedulerStart)
		api.POST("/scheduler/stop", s.handleSchedulerStop)
		api.GET("/scheduler/status", s.handleSchedulerStatus)
		api.POST("/scheduler/run/:periodicity", s.handleSchedulerRun)
		api.POST("/scheduler/manual", s.handleManualAnalysis)
	}

	s.srv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Run blocks serving requests until Shutdown or a listener error
func (s *Server) Run() error {
	s.log.Infow("HTTP server listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if c.Writer.Status() >= http.StatusInternalServerError {
			s.log.Warnw("Request failed",
				"method", c.Request.Method,
				"path", c.FullPath(),
				"status", c.Writer.Status(),
				"duration", time.Since(start),
			)
		}
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if s.health != nil {
		if err := s.health.Health(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
