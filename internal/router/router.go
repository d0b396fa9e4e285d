package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"ocrbench/internal/handler"
	"ocrbench/internal/middleware"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Health   *handler.HealthHandler
	OCR      *handler.OCRHandler
	Score    *handler.ScoreHandler
	TestArea *handler.TestAreaHandler
	Report   *handler.ReportHandler
	Image    *handler.ImageHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(h Handlers, logger *slog.Logger, allowedOrigins []string) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	v1.POST("/ocr", h.OCR.Run)
	v1.GET("/models", h.OCR.Models)

	v1.POST("/score", h.Score.Score)
	v1.POST("/normalize", h.Score.Normalize)

	areas := v1.Group("/test-areas")
	areas.POST("", h.TestArea.Create)
	areas.GET("", h.TestArea.List)
	areas.POST("/import", h.TestArea.Import)
	areas.GET("/:id", h.TestArea.GetByID)
	areas.PUT("/:id", h.TestArea.Update)
	areas.DELETE("/:id", h.TestArea.Delete)
	areas.POST("/:id/duplicate", h.TestArea.Duplicate)
	areas.POST("/:id/runs", h.TestArea.Run)
	areas.PUT("/:id/active-version", h.TestArea.SetActiveVersion)
	areas.POST("/:id/rescore", h.TestArea.Rescore)
	areas.GET("/:id/export", h.TestArea.Export)

	// Reports
	areas.GET("/:id/leaderboard", h.Report.Leaderboard)
	areas.GET("/:id/trend", h.Report.Trend)
	areas.GET("/:id/compare", h.Report.Compare)
	areas.GET("/:id/versions/:versionId/stats", h.Report.ModelStats)

	images := v1.Group("/images")
	images.POST("", h.Image.Upload)
	images.GET("/:name/url", h.Image.URL)
	images.DELETE("/:name", h.Image.Delete)

	return r
}
