// Package http assembles the gin router of the API server.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/dockprep/internal/interfaces/http/handlers"
	"github.com/turtacn/dockprep/internal/interfaces/http/middleware"
)

// RouterDeps carries everything the router mounts.
type RouterDeps struct {
	Logger       logging.Logger
	Metrics      *prometheus.Metrics
	Health       *handlers.HealthHandler
	Structures   *handlers.StructureHandler
	Preparations *handlers.PreparationHandler
	Mode         string
}

// NewRouter builds the API server's route tree.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(deps.Mode)

	r := gin.New()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	r.GET("/healthz", deps.Health.Live)
	r.GET("/readyz", deps.Health.Ready)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/structures/:id/metadata", deps.Structures.GetMetadata)
		v1.GET("/structures/:id/preparations", deps.Preparations.ListForStructure)
		v1.POST("/preparations", deps.Preparations.Submit)
		v1.GET("/preparations/:id", deps.Preparations.Get)
	}

	return r
}
