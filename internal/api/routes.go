package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"valuecraft/server/internal/metrics"
)

func SetupRoutes(router *gin.Engine, handler *Handler, m *metrics.Metrics, allowedOrigins []string) {
	corsConfig := cors.Config{
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", handler.Health)
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	api := router.Group("/api")
	{
		api.POST("/valuation", handler.PostValuation)
		api.POST("/underwriting", handler.PostUnderwriting)
		api.POST("/scenarios", handler.PostScenarios)
		api.POST("/rent-roll/summary", handler.PostRentRollSummary)
		api.POST("/expenses/summary", handler.PostExpensesSummary)
		api.POST("/comps/merge", handler.PostCompsMerge)

		api.POST("/analyses", handler.PostAnalysis)
		api.DELETE("/analyses/current", handler.CancelAnalysis)
		api.GET("/analyses/latest", handler.GetLatestAnalysis)
		api.GET("/analyses/recent", handler.GetRecentAnalyses)
		api.GET("/analyses/:run_id", handler.GetAnalysis)

		api.GET("/stats", handler.GetValuationStats)
		api.GET("/property-types", handler.GetPropertyTypes)
	}
}
