package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/binsight/footfall-backend-go/internal/config"
	"github.com/binsight/footfall-backend-go/internal/handler"
	"github.com/binsight/footfall-backend-go/internal/middleware"
	"github.com/binsight/footfall-backend-go/internal/service"
)

// SetupRouter builds the HTTP router and wires all handlers.
func SetupRouter(cfg *config.Config, analysisService *service.AnalysisService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	summaryService := service.NewSummaryService(analysisService)

	analysisHandler := handler.NewAnalysisHandler(analysisService)
	gridHandler := handler.NewGridHandler(analysisService)
	binHandler := handler.NewBinHandler(analysisService)
	sourceHandler := handler.NewSourceHandler(analysisService)
	summaryHandler := handler.NewSummaryHandler(summaryService)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Footfall Backend API is running",
		})
	})

	api := r.Group("/api/v1")
	{
		analysis := api.Group("/analysis")
		{
			// Mutating endpoints are token-guarded when a secret is set and
			// rate-limited against accidental trigger storms.
			analysis.POST("/run",
				middleware.Auth(cfg.JWTSecret),
				middleware.RateLimit(10, time.Minute),
				analysisHandler.TriggerRun)
			analysis.GET("/status", analysisHandler.GetStatus)
		}

		api.GET("/grid", gridHandler.GetGrid)

		bins := api.Group("/bins")
		{
			bins.GET("", binHandler.GetBins)
			bins.GET("/selected", binHandler.GetSelectedBins)
			bins.POST("/import", middleware.Auth(cfg.JWTSecret), binHandler.ImportBins)
		}

		api.GET("/sources", sourceHandler.GetSources)

		summary := api.Group("/summary")
		{
			summary.GET("/wards", summaryHandler.GetWardSummaries)
			summary.GET("/sensors", summaryHandler.GetSensorSummaries)
		}
	}

	return r
}
