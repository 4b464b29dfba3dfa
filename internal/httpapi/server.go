// Package httpapi exposes the core use cases over HTTP for the mobile client
// and the weekly scheduler.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/alexanderramin/mirror/internal/service"
	"github.com/gin-gonic/gin"
)

type Services struct {
	Metrics      service.MetricsService
	Violations   service.ViolationService
	Terminations service.TerminationService
}

type Options struct {
	JWTSecret  string
	CronSecret string
	Logger     *slog.Logger
	// Clock overrides the request time; nil uses the wall clock.
	Clock func() time.Time
}

type handler struct {
	svc    Services
	logger *slog.Logger
	clock  func() time.Time
}

func NewRouter(svc Services, opts Options) *gin.Engine {
	h := &handler{svc: svc, logger: opts.Logger, clock: opts.Clock}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.clock == nil {
		h.clock = time.Now
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(h.logger))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	internal := router.Group("/internal")
	internal.Use(requireCronSecret(opts.CronSecret))
	{
		internal.POST("/cron/violations", h.runScan)
	}

	me := router.Group("/v1/me")
	me.Use(authenticate(opts.JWTSecret))
	{
		me.GET("/metrics", h.getMetrics)
		me.GET("/report", h.getReport)
		me.GET("/violations", h.listViolations)
		me.GET("/violations/status", h.getStatus)
		me.POST("/violations/:id/resolve", h.resolveViolation)
		me.POST("/termination", h.chooseTermination)
	}
	return router
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.InfoContext(c.Request.Context(), "http_request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

func (h *handler) now() *time.Time {
	t := h.clock().UTC()
	return &t
}
