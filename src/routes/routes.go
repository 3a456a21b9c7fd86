package routes

import (
	"net/http"

	"goal-app/src/config"
	"goal-app/src/interface/handler"
	"goal-app/src/logger"
	"goal-app/src/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SetupRoutes sets up all API routes
func SetupRoutes(r *gin.Engine, cfg *config.Config, goalHandler *handler.GoalHandler, healthHandler *handler.HealthHandler) {
	r.HandleMethodNotAllowed = true

	// グローバルmiddlewareを適用
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	r.Use(middleware.RateLimitMiddleware(cfg.RateLimit))

	// NoRouteハンドラー（404）
	r.NoRoute(func(c *gin.Context) {
		logger.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"uri":       c.Request.RequestURI,
			"client_ip": c.ClientIP(),
		}).Warn("404: ルートが見つかりません")
		c.JSON(http.StatusNotFound, handler.ErrorResponseDTO{Error: "Route not found"})
	})

	// NoMethodハンドラー（405）
	r.NoMethod(func(c *gin.Context) {
		logger.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"uri":       c.Request.RequestURI,
			"client_ip": c.ClientIP(),
		}).Warn("405: サポートされていないメソッド")
		c.JSON(http.StatusMethodNotAllowed, handler.ErrorResponseDTO{Error: "Method not allowed"})
	})

	// ヘルスチェック
	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")
	api.GET("/health", healthHandler.Health)

	goals := api.Group("/goals")
	{
		// 一覧・集計・入出力
		goals.GET("", goalHandler.ListGoals)           // GET /api/goals
		goals.GET("/stats", goalHandler.GoalStats)     // GET /api/goals/stats
		goals.GET("/export", goalHandler.ExportGoals)  // GET /api/goals/export
		goals.POST("/import", goalHandler.ImportGoals) // POST /api/goals/import
		goals.POST("", goalHandler.CreateGoal)         // POST /api/goals

		// 一括操作
		goals.PATCH("/actions/complete-all", goalHandler.CompleteAll)        // PATCH /api/goals/actions/complete-all
		goals.DELETE("/actions/clear-completed", goalHandler.ClearCompleted) // DELETE /api/goals/actions/clear-completed

		// 個別のゴール操作
		goals.PATCH("/:id", goalHandler.UpdateGoal)                             // PATCH /api/goals/:id
		goals.PATCH("/:id/toggle", goalHandler.ToggleGoal)                      // PATCH /api/goals/:id/toggle
		goals.PATCH("/:id/archive", goalHandler.ArchiveGoal)                    // PATCH /api/goals/:id/archive
		goals.POST("/:id/duplicate-tomorrow", goalHandler.DuplicateForTomorrow) // POST /api/goals/:id/duplicate-tomorrow
		goals.DELETE("/:id", goalHandler.DeleteGoal)                            // DELETE /api/goals/:id
	}
}
