package api

import (
	"github.com/Mieluoxxx/Vegax-Route/internal/api/handlers"
	"github.com/Mieluoxxx/Vegax-Route/internal/probe"
	"github.com/Mieluoxxx/Vegax-Route/internal/stats"
	"github.com/Mieluoxxx/Vegax-Route/internal/store"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter 配置路由
func SetupRouter(engine *probe.Engine, repo *store.Repository, counter *stats.ProbeCounter) *gin.Engine {
	// 创建 Gin 引擎
	router := gin.Default()

	// 状态面板通常由本地前端或脚本消费，放开跨域
	router.Use(cors.Default())

	// 健康检查端点
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "Vegax-Route",
		})
	})

	// API 路由组
	apiGroup := router.Group("/api")
	{
		setupStatusRoutes(apiGroup, engine, repo, counter)
	}

	return router
}

// setupStatusRoutes 配置状态路由
func setupStatusRoutes(group *gin.RouterGroup, engine *probe.Engine, repo *store.Repository, counter *stats.ProbeCounter) {
	handler := handlers.NewStatusHandler(engine, repo, counter)

	group.GET("/status", handler.GetStatus)
	group.GET("/rate-limits", handler.GetRateLimits)
	group.GET("/stats", handler.GetStats)
	group.GET("/probe-logs/:provider", handler.GetProbeLogs)
	group.POST("/probe/:provider", handler.ProbeProvider)
	group.POST("/invalidate/:provider", handler.InvalidateProvider)
}
