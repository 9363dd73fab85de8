package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stitts-dev/sports-query-engine/internal/api/handlers"
	"github.com/stitts-dev/sports-query-engine/internal/api/middleware"
)

// NewRouter wires middleware and every route onto a fresh gin engine.
func NewRouter(query *handlers.QueryHandler, health *handlers.HealthHandler, requestLogger gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID())
	if requestLogger != nil {
		router.Use(requestLogger)
	}

	router.GET("/health", health.GetHealth)
	router.HEAD("/health", health.GetHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	SetupRoutes(router.Group("/api/v1"), query)
	return router
}

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, query *handlers.QueryHandler) {
	group.POST("/query", query.ExecuteQuery)
	group.POST("/classify", query.ClassifyQuery)
	group.GET("/resolve", query.ResolveEntity)
	group.GET("/sports", query.GetSports)
}
