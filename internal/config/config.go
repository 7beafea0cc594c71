package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
// In Go, we use structs to group related data together
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	GeoIP    GeoIPConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host        string
	Port        string
	Password    string
	DB          int
	DocumentTTL time.Duration // document cache entries
	LocationTTL time.Duration // resolved geolocation entries
}

// GeoIPConfig holds settings for the outbound geolocation lookup chain
type GeoIPConfig struct {
	Timeout time.Duration // per-provider lookup budget
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Environment   string
	LogLevel      string
	BaseURL       string // public URL prefix used in generated tracking links
	TrackResponse string // "pixel" or "page": what GET /track/{id} serves by default
	PDFLayout     string // "document" or "receipt"
	EnableMetrics bool
}

// Load reads configuration from environment variables
// This is a common pattern in Go - using environment variables for configuration
// makes your app portable across different environments (dev, staging, prod)
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  parseDuration("SERVER_READ_TIMEOUT", "10s"),
			WriteTimeout: parseDuration("SERVER_WRITE_TIMEOUT", "15s"),
			IdleTimeout:  parseDuration("SERVER_IDLE_TIMEOUT", "120s"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "pdftracker"),
			Password:        getEnv("DB_PASSWORD", "dev_password_123"),
			DBName:          getEnv("DB_NAME", "pdftracker"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    parseInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    parseInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: parseDuration("DB_CONN_MAX_LIFETIME", "5m"),
		},
		Redis: RedisConfig{
			Host:        getEnv("REDIS_HOST", "localhost"),
			Port:        getEnv("REDIS_PORT", "6379"),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          parseInt("REDIS_DB", 0),
			DocumentTTL: parseDuration("REDIS_DOCUMENT_TTL", "1h"),
			// Geolocation rarely changes for an IP; cache aggressively
			LocationTTL: parseDuration("REDIS_LOCATION_TTL", "24h"),
		},
		GeoIP: GeoIPConfig{
			Timeout: parseDuration("GEOIP_TIMEOUT", "3s"),
		},
		App: AppConfig{
			Environment:   getEnv("APP_ENV", "development"),
			LogLevel:      getEnv("LOG_LEVEL", "info"),
			BaseURL:       getEnv("APP_BASE_URL", "http://localhost:8080"),
			TrackResponse: getEnv("TRACK_RESPONSE_MODE", "page"),
			PDFLayout:     getEnv("PDF_LAYOUT", "document"),
			EnableMetrics: parseBool("ENABLE_METRICS", true),
		},
	}

	if cfg.App.TrackResponse != "pixel" && cfg.App.TrackResponse != "page" {
		return nil, fmt.Errorf("invalid TRACK_RESPONSE_MODE %q (want pixel or page)", cfg.App.TrackResponse)
	}

	return cfg, nil
}

// DatabaseDSN returns the PostgreSQL connection string
// DSN = Data Source Name, a standard format for database connections
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// RedisAddr returns the Redis address in host:port format
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Helper functions to parse environment variables with defaults
// These demonstrate error handling and type conversion in Go

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func parseBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func parseDuration(key string, defaultValue string) time.Duration {
	value := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(value)
	if err != nil {
		// If parsing fails, parse the default value
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
