package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smartcart/backend/config"
	"github.com/smartcart/backend/internal/logger"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, log *logger.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if log == nil {
		log = logger.Nop()
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware(log))
	router.Use(LoggerMiddleware(log))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/products", handler.ListProducts)
		v1.GET("/products/:id", handler.GetProduct)
		v1.GET("/offers", handler.ListOffers)
		v1.GET("/storefront", handler.GetStorefront)
		v1.POST("/catalog/refresh", SessionAuth(handler.sessions), handler.RefreshCatalog)

		auth := v1.Group("/auth")
		{
			auth.POST("/signup", handler.Signup)
			auth.POST("/login", handler.Login)
			auth.POST("/logout", SessionAuth(handler.sessions), handler.Logout)
		}

		cart := v1.Group("/cart", SessionAuth(handler.sessions))
		{
			cart.GET("", handler.GetCart)
			cart.POST("", handler.AddToCart)
			cart.DELETE("/:productId", handler.RemoveFromCart)
		}

		profile := v1.Group("/profile", SessionAuth(handler.sessions))
		{
			profile.GET("/preferences", handler.GetPreferences)
			profile.PUT("/preferences", handler.UpdatePreferences)
			profile.GET("/summary", handler.GetProfileSummary)
		}

		meals := v1.Group("/meals", SessionAuth(handler.sessions))
		{
			meals.POST("/recommendations", handler.RecommendMeals)
		}
	}

	return router
}
