package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/carbon-footprint-backend/internal/config"
	"github.com/jengzang/carbon-footprint-backend/internal/handler"
	"github.com/jengzang/carbon-footprint-backend/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by the router
type Handlers struct {
	Footprint *handler.FootprintHandler
	Cluster   *handler.ClusterHandler
	Stats     *handler.StatsHandler
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, h Handlers, limiter *middleware.RateLimiter) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Carbon Footprint API is running",
		})
	})

	limited := r.Group("", middleware.RateLimit(limiter))

	// Unversioned paths used by the single-page frontend
	limited.POST("/calculate", h.Footprint.Calculate)
	limited.GET("/cluster-plot", h.Cluster.GetPlot)

	// API 路由组
	api := limited.Group("/api/v1")
	{
		api.POST("/calculate", h.Footprint.Calculate)
		api.POST("/estimate", h.Footprint.Estimate)
		api.GET("/cluster-plot", h.Cluster.GetPlot)
		api.GET("/clusters/latest", h.Cluster.GetLatest)

		admin := api.Group("/admin", middleware.JWTAuth(cfg.JWTSecret))
		{
			admin.GET("/clusters/runs", h.Cluster.ListRuns)
			admin.POST("/clusters/recompute", h.Cluster.Recompute)
			admin.GET("/stats", h.Stats.GetSubmissionStatistics)
		}
	}

	return r
}
