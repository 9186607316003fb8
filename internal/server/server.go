// Package server exposes the planning instance and schedule documents over HTTP.
package server

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	usecase "github.com/navi-mes/planfeed/pkg/planner/core/application/usecase"
	config "github.com/navi-mes/planfeed/pkg/planner/core/config"
	model "github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
	metrics "github.com/navi-mes/planfeed/pkg/planner/core/metrics"
)

// Handler serves the planner HTTP API.
type Handler struct {
	synthesizer usecase.InstanceSynthesizer
	schedules   usecase.ScheduleStore
	policy      model.Policy
	recorder    metrics.MetricRecorder
}

// NewHandler creates a Handler. policy is the base for per-request scope overrides.
func NewHandler(synthesizer usecase.InstanceSynthesizer, schedules usecase.ScheduleStore, policy model.Policy, recorder metrics.MetricRecorder) *Handler {
	return &Handler{
		synthesizer: synthesizer,
		schedules:   schedules,
		policy:      policy,
		recorder:    recorder,
	}
}

// NewRouter builds the gin engine with middleware and routes.
// gatherer may be nil, in which case /metrics is not served.
func NewRouter(cfg *config.Config, h *Handler, gatherer prometheus.Gatherer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger())
	router.Use(RequestMetrics(h.recorder))
	router.Use(CORS())
	if cfg.Planner.Server.Gzip {
		router.Use(gzip.Gzip(gzip.DefaultCompression))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/planner-input", h.PlannerInput)
	router.POST("/schedule", h.StoreSchedule)
	router.POST("/schedule-upload", h.UploadSchedule)
	router.GET("/schedule", h.LoadSchedule)

	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
	return router
}
