package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/01moynul/sweetshop-golang/internal/handlers"
	"github.com/01moynul/sweetshop-golang/internal/middleware"
	"github.com/01moynul/sweetshop-golang/internal/ratelimit"
)

// CORSMiddleware lets the configured front-end origins call the API with a
// bearer token.
func CORSMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

func SetupRouter(h *handlers.Handlers, limiter ratelimit.Limiter) *gin.Engine {
	router := gin.New()

	// Without trusted proxies ClientIP is the peer address, so a client cannot
	// pick its own rate limit key through X-Forwarded-For.
	if err := router.SetTrustedProxies(h.Config.TrustedProxies); err != nil {
		h.Logger.Error("invalid trusted proxies, ignoring forwarded headers", "error", err)
		_ = router.SetTrustedProxies(nil)
	}

	// --- Global middleware ---
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(h.Logger),
		CORSMiddleware(h.Config.CORSOrigins),
	)
	router.NoRoute(h.NoRoute)

	router.GET("/", h.Home)
	router.Static("/uploads", h.Config.UploadDir)

	requireAuth := middleware.AuthMiddleware(h.Auth)
	requireAdmin := middleware.AdminMiddleware()

	api := router.Group("/api")
	{
		api.GET("/ping", h.Ping)

		// --- Auth Routes (Public, throttled) ---
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", middleware.RateLimit(limiter, "register"), h.RegisterUser)
			authGroup.POST("/login", middleware.RateLimit(limiter, "login"), h.LoginUser)
		}

		// --- Sweet Routes ---
		sweets := api.Group("/sweets")
		{
			// Public
			sweets.GET("", h.RedirectToSearch)
			sweets.GET("/search", h.SearchSweets)
			sweets.GET("/categories", h.ListCategories)
			sweets.GET("/:id", h.GetSweet)

			// Login required
			sweets.POST("", requireAuth, h.CreateSweet)
			sweets.PUT("/:id", requireAuth, h.UpdateSweet)
			sweets.POST("/:id/purchase", requireAuth, h.PurchaseSweet)
			sweets.POST("/checkout", requireAuth, h.Checkout)

			// Admin only
			sweets.DELETE("/:id", requireAuth, requireAdmin, h.DeleteSweet)
			sweets.POST("/:id/restock", requireAuth, requireAdmin, h.RestockSweet)
		}

		// --- Profile Routes (Login Required) ---
		profile := api.Group("/profile")
		profile.Use(requireAuth)
		{
			profile.GET("/history", h.GetPurchaseHistory)
			profile.GET("/me", h.GetMe)
		}

		// --- Uploads (Admin) ---
		api.POST("/uploads", requireAuth, requireAdmin, h.UploadImage)
	}

	return router
}
