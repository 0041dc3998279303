package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	// Catalog API
	CatalogBaseURL   string
	CatalogTimeout   time.Duration
	CatalogRetries   int
	CatalogRateLimit float64 // requests per second to the catalog API
	CatalogRateBurst int
	// Cache
	CacheProductTTL  time.Duration
	CacheCategoryTTL time.Duration
	// Persisted state
	StateDir string
	// Listing
	PageSize int
	// Business Rules
	MaxCartQuantity int
	// Search
	SearchDebounce time.Duration
	// Wishlist hydration
	HydrateConcurrency int
}

func LoadConfig() *Config {
	// 1. Check if a specific config file is requested via env var
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		} else {
			log.Printf("Loaded configuration from %s", configFile)
		}
	} else {
		// 2. Default fallback: Try loading .env (standard local dev)
		// We don't error here because the client can run on system env vars alone.
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading it, relying on system env vars")
		}
	}

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		CatalogBaseURL:   getEnv("CATALOG_BASE_URL", "https://dummyjson.com"),
		CatalogTimeout:   getDurationEnv("CATALOG_TIMEOUT", 10*time.Second),
		CatalogRetries:   getIntEnv("CATALOG_RETRIES", 3),
		CatalogRateLimit: getFloatEnv("CATALOG_RATE_LIMIT", 10),
		CatalogRateBurst: getIntEnv("CATALOG_RATE_BURST", 20),

		// Cache defaults: 10m Product, 30m Category/Brand lists
		CacheProductTTL:  getDurationEnv("CACHE_PRODUCT_TTL", 10*time.Minute),
		CacheCategoryTTL: getDurationEnv("CACHE_CATEGORY_TTL", 30*time.Minute),

		StateDir: getEnv("STATE_DIR", defaultStateDir()),

		PageSize: getIntEnv("PAGE_SIZE", 12),

		// Business rules: 1000 max quantity per cart line
		MaxCartQuantity: getIntEnv("MAX_CART_QUANTITY", 1000),

		SearchDebounce: getDurationEnv("SEARCH_DEBOUNCE", 300*time.Millisecond),

		HydrateConcurrency: getIntEnv("HYDRATE_CONCURRENCY", 8),
	}

	cfg.Validate()
	return cfg
}

func (c *Config) Validate() {
	if c.CatalogBaseURL == "" {
		log.Fatal("CRITICAL: CATALOG_BASE_URL environment variable is required")
	}
	if c.PageSize < 1 {
		log.Println("WARNING: PAGE_SIZE < 1, falling back to 12")
		c.PageSize = 12
	}
	if c.HydrateConcurrency < 1 {
		c.HydrateConcurrency = 1
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".storefront"
	}
	return home + "/.storefront"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s, using fallback", key)
	}
	return fallback
}
