package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexcolls/descuentia/internal/config"
	"github.com/alexcolls/descuentia/internal/handlers"
	"github.com/alexcolls/descuentia/internal/repositories/mongodb"
	"github.com/alexcolls/descuentia/internal/services"
	"github.com/alexcolls/descuentia/pkg/cache"
	"github.com/alexcolls/descuentia/pkg/database"
	"github.com/alexcolls/descuentia/pkg/logger"
	"github.com/alexcolls/descuentia/pkg/maps"
	"github.com/alexcolls/descuentia/pkg/payment"
	"github.com/alexcolls/descuentia/pkg/push"
	"github.com/alexcolls/descuentia/pkg/storage"
	"github.com/alexcolls/descuentia/pkg/websocket"
	"github.com/alexcolls/descuentia/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:      logger.LogLevel(cfg.App.LogLevel),
		Format:     cfg.App.LogFormat,
		Output:     "stdout",
		TimeFormat: time.RFC3339,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    int(cfg.Database.MaxPoolSize),
		MinPoolSize:    int(cfg.Database.MinPoolSize),
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer db.Close()

	if err := database.NewMigrator(db.Database).Up(); err != nil {
		appLogger.WithError(err).Fatal("Failed to run migrations")
	}

	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisCache.Close()

	cacheService := services.NewCacheService(redisCache)

	// Repositories
	userRepo := mongodb.NewUserRepository(db.Database, cacheService)
	businessRepo := mongodb.NewBusinessRepository(db.Database, cacheService)
	promotionRepo := mongodb.NewPromotionRepository(db.Database, cacheService)
	couponRepo := mongodb.NewCouponRepository(db.Database, cacheService)
	analyticsRepo := mongodb.NewAnalyticsRepository(db.Database)
	favoriteRepo := mongodb.NewFavoriteRepository(db.Database)
	loyaltyRepo := mongodb.NewLoyaltyRepository(db.Database)
	notificationRepo := mongodb.NewNotificationRepository(db.Database)
	subscriptionRepo := mongodb.NewSubscriptionRepository(db.Database)

	// External providers
	storageProvider := buildStorageProvider(cfg, appLogger)
	geocoder := buildGeocoder(cfg, appLogger)
	fcmProvider, apnsProvider := buildPushProviders(cfg, appLogger)

	gateways := map[string]payment.Gateway{}
	if cfg.Payment.Stripe.SecretKey != "" {
		stripeGateway := payment.NewStripeGateway(cfg.Payment.Stripe.SecretKey, cfg.Payment.Stripe.WebhookSecret)
		gateways[stripeGateway.Name()] = stripeGateway
	}
	if cfg.Payment.Razorpay.KeyID != "" {
		razorpayGateway := payment.NewRazorpayGateway(cfg.Payment.Razorpay.KeyID, cfg.Payment.Razorpay.KeySecret, cfg.Payment.Razorpay.WebhookSecret)
		gateways[razorpayGateway.Name()] = razorpayGateway
	}

	// Live merchant feed
	hub := websocket.NewHub(cfg.WebSocket.PingInterval, cfg.WebSocket.PongTimeout)
	go hub.Run()

	// Services
	analyticsService := services.NewAnalyticsService(analyticsRepo, promotionRepo, appLogger)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, fcmProvider, apnsProvider, appLogger)
	loyaltyService := services.NewLoyaltyService(loyaltyRepo, businessRepo, notificationService, appLogger)
	authService := services.NewAuthService(userRepo, cfg.Security.JWTSecret, appLogger)
	businessService := services.NewBusinessService(businessRepo, userRepo, geocoder, appLogger)
	promotionService := services.NewPromotionService(promotionRepo, businessRepo, analyticsService, storageProvider, appLogger)
	discoveryService := services.NewDiscoveryService(promotionRepo, cacheService, appLogger)
	couponService := services.NewCouponService(couponRepo, promotionRepo, analyticsService, loyaltyService, notificationService, hub, appLogger)
	favoriteService := services.NewFavoriteService(favoriteRepo, promotionRepo, analyticsService)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, businessRepo, userRepo, gateways, cfg.Payment.DefaultGateway, appLogger)

	// Handlers
	routeHandlers := &routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService),
		Business:     handlers.NewBusinessHandler(businessService),
		Promotion:    handlers.NewPromotionHandler(promotionService, discoveryService, cfg.Storage.MaxUploadSize),
		Coupon:       handlers.NewCouponHandler(couponService),
		Redemption:   handlers.NewRedemptionHandler(couponService),
		Analytics:    handlers.NewAnalyticsHandler(analyticsService),
		Favorite:     handlers.NewFavoriteHandler(favoriteService),
		Loyalty:      handlers.NewLoyaltyHandler(loyaltyService),
		Subscription: handlers.NewSubscriptionHandler(subscriptionService, appLogger),
		Notification: handlers.NewNotificationHandler(notificationService),
		MerchantFeed: websocket.NewHandler(hub, cfg.WebSocket.ReadBufferSize, cfg.WebSocket.WriteBufferSize),
	}

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if len(cfg.Security.TrustedProxies) > 0 {
		if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
			appLogger.WithError(err).Fatal("Invalid trusted proxies")
		}
	}

	routes.SetupRoutes(router, cfg, routeHandlers, cacheService, appLogger)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		appLogger.WithField("port", cfg.App.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.WithError(err).Error("Forced shutdown")
	}

	appLogger.Info("Server stopped")
}

func buildStorageProvider(cfg *config.Config, appLogger *logger.Logger) storage.StorageProvider {
	switch cfg.Storage.Provider {
	case "s3":
		provider, err := storage.NewAWSS3Storage(cfg.Storage.S3.Region, cfg.Storage.S3.Bucket, cfg.Storage.S3.BaseURL)
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to initialize S3 storage")
		}
		return provider
	case "gcs":
		provider, err := storage.NewGCPStorage(cfg.Storage.GCS.Bucket, cfg.Storage.GCS.CredentialsFile, cfg.Storage.GCS.BaseURL)
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to initialize GCS storage")
		}
		return provider
	default:
		provider, err := storage.NewLocalStorage(cfg.Storage.Local.BasePath, cfg.Storage.Local.BaseURL)
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to initialize local storage")
		}
		return provider
	}
}

func buildGeocoder(cfg *config.Config, appLogger *logger.Logger) maps.Geocoder {
	if cfg.Maps.GoogleAPIKey == "" {
		appLogger.Warn("Google Maps API key not set, geocoding disabled")
		return nil
	}

	geocoder, err := maps.NewGoogleGeocoder(cfg.Maps.GoogleAPIKey, cfg.Maps.Language, cfg.Maps.Region)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize geocoder")
	}
	return geocoder
}

func buildPushProviders(cfg *config.Config, appLogger *logger.Logger) (push.PushProvider, push.PushProvider) {
	if !cfg.Push.Enabled {
		return nil, nil
	}

	var fcmProvider push.PushProvider
	if cfg.Push.FCM.CredentialsFile != "" {
		provider, err := push.NewFCMProvider(cfg.Push.FCM.CredentialsFile)
		if err != nil {
			appLogger.WithError(err).Warn("FCM initialization failed, Android pushes disabled")
		} else {
			fcmProvider = provider
		}
	}

	var apnsProvider push.PushProvider
	if cfg.Push.APNS.KeyFile != "" {
		provider, err := push.NewAPNSProvider(cfg.Push.APNS.KeyFile, cfg.Push.APNS.KeyID, cfg.Push.APNS.TeamID, cfg.Push.APNS.BundleID, cfg.Push.APNS.Production)
		if err != nil {
			appLogger.WithError(err).Warn("APNS initialization failed, iOS pushes disabled")
		} else {
			apnsProvider = provider
		}
	}

	return fcmProvider, apnsProvider
}
