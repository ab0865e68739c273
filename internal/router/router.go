package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "claimequity/docs" // registers the OpenAPI docs with swag
	"claimequity/internal/handler"
	"claimequity/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Health     *handler.HealthHandler
	Claim      *handler.ClaimHandler
	Prediction *handler.PredictionHandler
	Bias       *handler.BiasHandler
	Appeal     *handler.AppealHandler
	Insight    *handler.InsightHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(h Handlers, allowedOrigins []string) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	api.GET("/health", h.Health.Health)

	api.POST("/parse-claim", h.Claim.ParseClaim)
	api.POST("/summarize", h.Claim.Summarize)

	api.POST("/predict-appeal", h.Prediction.PredictAppeal)

	api.POST("/detect-bias", h.Bias.DetectBias)
	api.POST("/share-anon-data", h.Bias.ShareAnonData)
	api.GET("/bias-heatmap", h.Bias.Heatmap)
	api.GET("/bias-export", h.Bias.Export)

	api.POST("/generate-appeal", h.Appeal.GenerateAppeal)

	api.POST("/grok-analysis", h.Insight.GrokAnalysis)
	api.POST("/financial-impact", h.Insight.FinancialImpact)
	api.POST("/appeal-fee-link", h.Insight.AppealFeeLink)

	return r
}
