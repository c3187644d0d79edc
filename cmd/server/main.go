package main

import (
	"context"                               // context package is needed for Redis operations
	"log"                                   // log package is needed for logging
	"trading_simulator/internal/api"        // Custom package for API handlers
	"trading_simulator/internal/config"     // Custom package for configuration
	"trading_simulator/internal/middleware" // Custom package for middleware
	"trading_simulator/internal/quote"      // Quote provider backends
	"trading_simulator/internal/trading"    // Trading operations core
	"trading_simulator/internal/utils"      // Cache adapter

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	// TranslateError lets the ledger detect duplicate-key failures portably.
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Yahoo Finance quotes behind a short-lived Redis cache
	quotes := quote.NewCachedProvider(quote.NewYahooProvider(), redisClient, cfg.QuoteCacheTTL)
	svc := trading.NewService(db, quotes, cfg.StartingCash)
	cache := utils.NewRedisCache(redisClient) // Response cache for the handlers

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Auth routes
	r.POST("/register", api.RegisterHandler(svc, cfg.JWTSecret)) // Registration endpoint
	r.POST("/login", api.LoginHandler(svc, cfg.JWTSecret))       // Login endpoint

	// Trading routes (protected by JWT)
	tradingGroup := r.Group("/")
	tradingGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	tradingGroup.GET("/quote", api.QuoteHandler(svc))                // Quote lookup endpoint
	tradingGroup.POST("/buy", api.BuyHandler(svc, cache))            // Buy endpoint
	tradingGroup.POST("/sell", api.SellHandler(svc, cache))          // Sell endpoint
	tradingGroup.GET("/portfolio", api.PortfolioHandler(svc, cache)) // Portfolio endpoint
	tradingGroup.GET("/history", api.HistoryHandler(svc, cache))     // Transaction history endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
