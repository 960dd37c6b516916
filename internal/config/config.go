// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Version     string
	Server      ServerConfig
	Database    DatabaseConfig
	Upstream    UpstreamConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	I18n        I18nConfig
	Log         LogConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	Driver       string // sqlite or postgres
	Path         string
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	BusyTimeout  int // sqlite only, in milliseconds
	LogLevel     string
}

// UpstreamConfig describes the third-party product search API.
type UpstreamConfig struct {
	APIURL       string
	APIKey       string
	Strategy     string
	ProductsSize int
	Timeout      int // in seconds
	UserAgent    string
	Referer      string
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	Burst             int
}

type CORSConfig struct {
	AllowOrigins []string
}

type I18nConfig struct {
	DefaultLocale string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Version:     getEnv("APP_VERSION", "1.0.0"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", ""),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Driver:       strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			Path:         getEnv("DB_PATH", "products.db"),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "products"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			BusyTimeout:  getEnvAsInt("DB_BUSY_TIMEOUT", 10000),
			LogLevel:     getEnv("DB_LOG_LEVEL", "silent"),
		},
		Upstream: UpstreamConfig{
			APIURL:       getEnv("UPSTREAM_API_URL", "https://api.shop.kz/search"),
			APIKey:       getEnv("UPSTREAM_API_KEY", ""),
			Strategy:     getEnv("UPSTREAM_STRATEGY", "vectors_extended,zero_queries"),
			ProductsSize: getEnvAsInt("UPSTREAM_PRODUCTS_SIZE", 20),
			Timeout:      getEnvAsInt("UPSTREAM_TIMEOUT", 5),
			UserAgent:    getEnv("UPSTREAM_USER_AGENT", "Mozilla/5.0"),
			Referer:      getEnv("UPSTREAM_REFERER", "https://shop.kz/"),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RequestsPerSecond: getEnvAsFloat("RATE_LIMIT_RPS", 10),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 20),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnvAsList("CORS_ALLOW_ORIGINS", []string{"*"}),
		},
		I18n: I18nConfig{
			DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.Upstream.APIURL == "" {
		return fmt.Errorf("upstream API URL is required")
	}

	if c.Upstream.APIKey == "" && c.Environment == "production" {
		return fmt.Errorf("upstream API key is required in production")
	}

	if c.Upstream.ProductsSize <= 0 {
		return fmt.Errorf("upstream products size must be positive, got %d", c.Upstream.ProductsSize)
	}

	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("upstream timeout must be positive, got %d", c.Upstream.Timeout)
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("database path is required for sqlite")
		}
	case "postgres":
		if c.Database.Password == "" && c.Environment == "production" {
			return fmt.Errorf("database password is required in production")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
