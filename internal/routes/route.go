package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joshua-takyi/wanderlust/internal/container"
	"github.com/joshua-takyi/wanderlust/internal/handlers"
	"github.com/joshua-takyi/wanderlust/internal/middleware"
	"github.com/joshua-takyi/wanderlust/internal/models"
)

// ConfigureValidator makes gin's binding errors use json field names, like
// the model validator does.
func ConfigureValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(models.JSONFieldName)
	}
}

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(c *container.Container) *gin.Engine {
	if c.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	ConfigureValidator()

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{c.Config.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(c.Logger))
	r.Use(middleware.ErrorHandler(c.Logger))
	r.Use(gin.Recovery())

	secure := c.Config.IsProduction()
	requireAuth := middleware.AuthMiddleware(c.Tokens, c.AuthService, c.Logger, secure)
	optionalAuth := middleware.OptionalAuth(c.Tokens, c.AuthService, c.Logger, secure)

	api := r.Group("/api")

	api.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":      "OK",
			"service":     "wanderlust-api",
			"ai_provider": c.Config.AIProvider,
		})
	})

	auth := api.Group("/auth")
	{
		auth.POST("/signup", handlers.SignUp(c.AuthService, secure))
		auth.POST("/login", handlers.Login(c.AuthService, secure))
		auth.POST("/refresh", handlers.Refresh(c.AuthService, secure))
		auth.POST("/logout", handlers.Logout(c.AuthService, secure))
		auth.GET("/me", requireAuth, handlers.Profile())
	}

	listings := api.Group("/listings")
	{
		listings.GET("", handlers.ListListings(c.ListingService))
		listings.GET("/:id", handlers.GetListing(c.ListingService))
		listings.POST("", requireAuth, handlers.CreateListing(c.ListingService))
		listings.PUT("/:id", requireAuth, handlers.UpdateListing(c.ListingService))
		listings.PATCH("/:id", requireAuth, handlers.UpdateListing(c.ListingService))
		listings.DELETE("/:id", requireAuth, handlers.DeleteListing(c.ListingService))
		listings.POST("/:id/price-suggestion", requireAuth, handlers.ApplyPriceSuggestion(c.ListingService))

		listings.POST("/:id/reviews", requireAuth, handlers.CreateReview(c.ReviewService))
		listings.DELETE("/:id/reviews/:reviewId", requireAuth, handlers.DeleteReview(c.ReviewService))
	}

	aiRoutes := api.Group("/ai")
	aiRoutes.Use(middleware.AISession(secure), optionalAuth)
	{
		aiRoutes.POST("/chat", handlers.Chat(c.ChatService))
		aiRoutes.GET("/conversation-history", handlers.ConversationHistory(c.ChatService))
		aiRoutes.POST("/itinerary", handlers.Itinerary(c.ChatService))
		aiRoutes.POST("/recommendations", handlers.Recommendations(c.ChatService))

		aiRoutes.POST("/generate-description", handlers.GenerateDescription(c.ContentService))
		aiRoutes.POST("/enhance-description", handlers.EnhanceDescription(c.ContentService))
		aiRoutes.POST("/generate-titles", handlers.GenerateTitles(c.ContentService))
		aiRoutes.POST("/translate-description", handlers.TranslateDescription(c.ContentService))

		aiRoutes.POST("/predict-price", handlers.PredictPrice(c.PricingService))
		aiRoutes.POST("/pricing-trends", handlers.PricingTrends(c.PricingService))
		aiRoutes.POST("/dynamic-pricing", handlers.DynamicPricing(c.PricingService))

		aiRoutes.POST("/analyze-sentiment", handlers.AnalyzeSentiment(c.AnalysisService))
		aiRoutes.POST("/review-summary", handlers.ReviewSummary(c.AnalysisService))
	}

	return r
}
