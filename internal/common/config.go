package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Maps    MapsConfig
	Cache   CacheConfig
	History HistoryConfig
	Menu    MenuConfig
	Route   RouteConfig
}

// MapsConfig holds Google Maps API configuration
type MapsConfig struct {
	APIKey         string
	GeocodeTimeout time.Duration
	MatrixTimeout  time.Duration
}

// CacheConfig holds geocode cache configuration
type CacheConfig struct {
	Path string
}

// HistoryConfig holds batch-history database configuration
type HistoryConfig struct {
	Path string
}

// MenuConfig holds menu reference list configuration
type MenuConfig struct {
	Path string
}

// RouteConfig holds route solver configuration
type RouteConfig struct {
	SearchBudget time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Maps: MapsConfig{
			APIKey:         getEnv("MAPS_API_KEY", ""),
			GeocodeTimeout: getEnvAsDuration("MAPS_GEOCODE_TIMEOUT", 10*time.Second),
			MatrixTimeout:  getEnvAsDuration("MAPS_MATRIX_TIMEOUT", 30*time.Second),
		},
		Cache: CacheConfig{
			Path: getEnv("GEOCODE_CACHE_PATH", "./geocode_cache.json"),
		},
		History: HistoryConfig{
			Path: getEnv("HISTORY_DB_PATH", "./orders.db"),
		},
		Menu: MenuConfig{
			Path: getEnv("MENU_PATH", "./data/menu.json"),
		},
		Route: RouteConfig{
			SearchBudget: getEnvAsDuration("ROUTE_SEARCH_BUDGET", 5*time.Second),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Cache.Path == "" {
		return NewAppError("CONFIG_ERROR", "GEOCODE_CACHE_PATH must not be empty", ErrInvalidInput)
	}
	if c.History.Path == "" {
		return NewAppError("CONFIG_ERROR", "HISTORY_DB_PATH must not be empty", ErrInvalidInput)
	}
	if c.Route.SearchBudget <= 0 {
		return NewAppError("CONFIG_ERROR", "ROUTE_SEARCH_BUDGET must be positive", ErrInvalidInput)
	}
	return nil
}

// RequireMapsKey validates the parts of the configuration that routing needs.
func (c *Config) RequireMapsKey() error {
	if c.Maps.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "MAPS_API_KEY is required", ErrInvalidInput)
	}
	return nil
}
