package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexcolls/descuentia/internal/config"
	"github.com/alexcolls/descuentia/internal/handlers"
	"github.com/alexcolls/descuentia/internal/middleware"
	"github.com/alexcolls/descuentia/internal/services"
	"github.com/alexcolls/descuentia/pkg/logger"
	"github.com/alexcolls/descuentia/pkg/websocket"
)

// Handlers bundles everything the router needs wired up
type Handlers struct {
	Auth          *handlers.AuthHandler
	Business      *handlers.BusinessHandler
	Promotion     *handlers.PromotionHandler
	Coupon        *handlers.CouponHandler
	Redemption    *handlers.RedemptionHandler
	Analytics     *handlers.AnalyticsHandler
	Favorite      *handlers.FavoriteHandler
	Loyalty       *handlers.LoyaltyHandler
	Subscription  *handlers.SubscriptionHandler
	Notification  *handlers.NotificationHandler
	MerchantFeed  *websocket.Handler
}

func SetupRoutes(router *gin.Engine, cfg *config.Config, h *Handlers, cache services.CacheService, log *logger.Logger) {
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.RateLimitMiddleware(cache, cfg.Security.RateLimitPerMinute))

	jwtSecret := cfg.Security.JWTSecret

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"name":    cfg.App.Name,
			"version": cfg.App.Version,
		})
	})

	if cfg.Storage.Provider == "local" {
		router.Static("/uploads", cfg.Storage.Local.BasePath)
	}

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.GET("/me", middleware.AuthRequired(jwtSecret), h.Auth.GetMe)
		auth.POST("/push-tokens", middleware.AuthRequired(jwtSecret), h.Auth.RegisterPushToken)
		auth.DELETE("/push-tokens", middleware.AuthRequired(jwtSecret), h.Auth.UnregisterPushToken)
	}

	promotions := v1.Group("/promotions")
	{
		promotions.GET("/nearby", h.Promotion.Nearby)
		promotions.GET("/featured", h.Promotion.Featured)
		promotions.GET("/:id", middleware.OptionalAuth(jwtSecret), h.Promotion.GetByID)

		merchant := promotions.Group("")
		merchant.Use(middleware.AuthRequired(jwtSecret), middleware.MerchantRequired())
		{
			merchant.GET("", h.Promotion.ListMine)
			merchant.POST("", h.Promotion.Create)
			merchant.PUT("/:id", h.Promotion.Update)
			merchant.DELETE("/:id", h.Promotion.Delete)
			merchant.POST("/:id/pause", h.Promotion.Pause)
			merchant.POST("/:id/activate", h.Promotion.Activate)
			merchant.POST("/:id/image", h.Promotion.UploadImage)
		}
	}

	coupons := v1.Group("/coupons")
	coupons.Use(middleware.AuthRequired(jwtSecret), middleware.ConsumerRequired())
	{
		coupons.POST("/claim", h.Coupon.Claim)
		coupons.GET("", h.Coupon.List)
		coupons.GET("/:id", h.Coupon.GetByID)
	}

	redemptions := v1.Group("/redemptions")
	redemptions.Use(middleware.AuthRequired(jwtSecret), middleware.MerchantRequired())
	{
		redemptions.POST("", h.Redemption.Redeem)
		redemptions.POST("/preview", h.Redemption.Preview)
	}

	businesses := v1.Group("/businesses")
	{
		businesses.GET("", h.Business.List)
		businesses.GET("/:id", h.Business.GetByID)

		merchant := businesses.Group("")
		merchant.Use(middleware.AuthRequired(jwtSecret), middleware.MerchantRequired())
		{
			merchant.POST("", h.Business.Create)
			merchant.PUT("", h.Business.Update)
			merchant.GET("/me", h.Business.GetMine)
		}
	}

	analytics := v1.Group("/analytics")
	analytics.Use(middleware.AuthRequired(jwtSecret), middleware.MerchantRequired())
	{
		analytics.GET("/overview", h.Analytics.Overview)
		analytics.GET("/promotions/:id", h.Analytics.PromotionStats)
		analytics.GET("/redemptions/daily", h.Analytics.DailyRedemptions)
	}

	favorites := v1.Group("/favorites")
	favorites.Use(middleware.AuthRequired(jwtSecret), middleware.ConsumerRequired())
	{
		favorites.POST("", h.Favorite.Add)
		favorites.DELETE("/:promotion_id", h.Favorite.Remove)
		favorites.GET("", h.Favorite.List)
	}

	loyalty := v1.Group("/loyalty")
	{
		program := loyalty.Group("/program")
		program.Use(middleware.AuthRequired(jwtSecret), middleware.MerchantRequired())
		{
			program.GET("", h.Loyalty.GetProgram)
			program.POST("", h.Loyalty.CreateProgram)
			program.PUT("", h.Loyalty.UpdateProgram)
		}

		loyalty.GET("/cards", middleware.AuthRequired(jwtSecret), middleware.ConsumerRequired(), h.Loyalty.GetCards)
	}

	subscriptions := v1.Group("/subscriptions")
	{
		subscriptions.GET("/plans", h.Subscription.GetPlans)

		merchant := subscriptions.Group("")
		merchant.Use(middleware.AuthRequired(jwtSecret), middleware.MerchantRequired())
		{
			merchant.POST("/checkout", h.Subscription.Checkout)
			merchant.POST("/cancel", h.Subscription.Cancel)
			merchant.GET("/current", h.Subscription.GetCurrent)
		}
	}

	webhooks := v1.Group("/webhooks")
	{
		webhooks.POST("/stripe", h.Subscription.StripeWebhook)
		webhooks.POST("/razorpay", h.Subscription.RazorpayWebhook)
	}

	notifications := v1.Group("/notifications")
	notifications.Use(middleware.AuthRequired(jwtSecret))
	{
		notifications.GET("", h.Notification.List)
		notifications.GET("/unread-count", h.Notification.UnreadCount)
		notifications.PUT("/:id/read", h.Notification.MarkRead)
		notifications.PUT("/read-all", h.Notification.MarkAllRead)
	}

	// Live redemption feed for merchant dashboards
	router.GET("/ws/merchant", middleware.AuthRequired(jwtSecret), middleware.MerchantRequired(), h.MerchantFeed.HandleWebSocket)
}
