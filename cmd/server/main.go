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

	"ecocreds/internal/config"
	handlers "ecocreds/internal/handlers/shared"
	"ecocreds/internal/middleware"
	"ecocreds/internal/repositories/mongodb"
	"ecocreds/internal/services"
	"ecocreds/pkg/cache"
	"ecocreds/pkg/database"
	"ecocreds/pkg/logger"
	"ecocreds/pkg/payment"
	"ecocreds/pkg/ws"
	"ecocreds/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: cfg.App.LogFormat,
		Output: "stdout",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Infrastructure
	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		appLogger.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Close()

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
		appLogger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisCache.Close()

	cacheService := services.NewCacheService(redisCache)

	// Repositories
	userRepo := mongodb.NewUserRepository(db.Database, cacheService)
	loyaltyRepo := mongodb.NewLoyaltyRepository(db.Database, cacheService)
	creditRepo := mongodb.NewCreditRepository(db.Database, cacheService)
	cartRepo := mongodb.NewCartRepository(db.Database)
	productRepo := mongodb.NewProductRepository(db.Database, cacheService)
	listingRepo := mongodb.NewListingRepository(db.Database)
	orderRepo := mongodb.NewOrderRepository(db.Database)
	activityRepo := mongodb.NewActivityRepository(db.Database)

	// Payment provider
	var provider payment.Provider
	switch cfg.Payment.DefaultProvider {
	case "razorpay":
		provider = payment.NewRazorpayProvider(
			cfg.Payment.Razorpay.KeyID,
			cfg.Payment.Razorpay.KeySecret,
			cfg.Payment.Razorpay.WebhookSecret,
		)
	default:
		provider = payment.NewStripeProvider(
			cfg.Payment.Stripe.SecretKey,
			cfg.Payment.Stripe.WebhookSecret,
		)
	}

	// Realtime notifications
	wsHandler := ws.NewHandler()

	// Services
	authService := services.NewAuthService(userRepo, loyaltyRepo, cfg.Security.JWTSecret, appLogger)
	catalogService := services.NewCatalogService(productRepo, appLogger)
	cartService := services.NewCartService(cartRepo, productRepo, appLogger)
	loyaltyService := services.NewLoyaltyService(loyaltyRepo, activityRepo, wsHandler, appLogger)
	creditService := services.NewCreditService(creditRepo, activityRepo, wsHandler, appLogger)
	checkoutService := services.NewCheckoutService(
		cartRepo,
		loyaltyRepo,
		creditRepo,
		orderRepo,
		activityRepo,
		productRepo,
		db,
		cacheService,
		provider,
		wsHandler,
		cfg.Checkout.LedgerConfig(),
		cfg.App.Currency,
		appLogger,
	)
	marketplaceService := services.NewMarketplaceService(
		listingRepo,
		loyaltyService,
		activityRepo,
		wsHandler,
		cfg.Checkout.ListingSoldBonus,
		appLogger,
	)

	// Periodic sweep flipping past-expiry credits
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				if n, err := creditService.ExpireSweep(sweepCtx); err != nil {
					appLogger.Errorf("Credit expiry sweep failed: %v", err)
				} else if n > 0 {
					appLogger.Infof("Expired %d credits", n)
				}
			}
		}
	}()

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	loyaltyHandler := handlers.NewLoyaltyHandler(loyaltyService)
	creditHandler := handlers.NewCreditHandler(creditService)
	marketplaceHandler := handlers.NewMarketplaceHandler(marketplaceService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RateLimitMiddleware(redisCache, cfg.Security.RateLimitPerMinute, time.Minute))

	jwtSecret := cfg.Security.JWTSecret
	v1 := router.Group("/api/v1")
	{
		routes.SetupAuthRoutes(v1, authHandler, jwtSecret)
		routes.SetupCatalogRoutes(v1, catalogHandler, jwtSecret)
		routes.SetupCartRoutes(v1, cartHandler, jwtSecret)
		routes.SetupCheckoutRoutes(v1, checkoutHandler, jwtSecret)
		routes.SetupLoyaltyRoutes(v1, loyaltyHandler, creditHandler, jwtSecret)
		routes.SetupMarketplaceRoutes(v1, marketplaceHandler, jwtSecret)
		routes.SetupWebSocketRoutes(v1, wsHandler, jwtSecret)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": cfg.App.Version,
		})
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		appLogger.Infof("Starting server on port %d", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Errorf("Forced shutdown: %v", err)
	}

	appLogger.Info("Server stopped")
}
