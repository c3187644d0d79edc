package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"time"    // For durations

	"github.com/joho/godotenv"      // For loading .env files
	"github.com/shopspring/decimal" // Decimal-safe money arithmetic
)

// Config holds the application configuration
type Config struct {
	AppPort       string          // Application port
	DBUser        string          // Database user
	DBPassword    string          // Database password
	DBHost        string          // Database host
	DBPort        string          // Database port
	DBName        string          // Database name
	JWTSecret     string          // JWT secret key
	RedisAddr     string          // Redis server address
	RedisPass     string          // Redis password
	RedisDB       int             // Redis database number
	StartingCash  decimal.Decimal // Cash granted to every new account
	QuoteCacheTTL time.Duration   // How long quote lookups are cached
	IsProd        bool            // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	// New accounts start with $10000.00 unless overridden.
	startingCash, err := decimal.NewFromString(os.Getenv("STARTING_CASH"))
	if err != nil || startingCash.IsNegative() {
		startingCash = decimal.NewFromInt(10000)
	}

	quoteTTL := 5 * time.Minute
	if secs, err := strconv.Atoi(os.Getenv("QUOTE_CACHE_TTL_SECONDS")); err == nil && secs > 0 {
		quoteTTL = time.Duration(secs) * time.Second
	}

	return &Config{
		AppPort:       os.Getenv("APP_PORT"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBHost:        os.Getenv("DB_HOST"),
		DBPort:        os.Getenv("DB_PORT"),
		DBName:        os.Getenv("DB_NAME"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPass:     os.Getenv("REDIS_PASS"),
		RedisDB:       redisDB,
		StartingCash:  startingCash,
		QuoteCacheTTL: quoteTTL,
		IsProd:        os.Getenv("IS_PROD") == "true",
	}
}
