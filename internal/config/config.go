package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Auth     AuthConfig
	Updater  UpdaterConfig
	Prices   PricesConfig
	Logging  LoggingConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
	// WriteTimeout outlasts the bulk update; zero when the update is unbounded.
	WriteTimeout time.Duration
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// AuthConfig holds the single admin identity and token settings.
// An empty field disables the gated endpoints.
type AuthConfig struct {
	Username     string
	PasswordHash string // bcrypt
	TokenKey     string // base64 fernet key
	TokenTTL     time.Duration
}

// UpdaterConfig controls the bulk performance update.
type UpdaterConfig struct {
	Policy      string
	Concurrency int
	Timeout     time.Duration
	Schedule    string // cron spec; empty disables the in-process schedule
}

// PricesConfig controls the upstream price source.
type PricesConfig struct {
	BaseURL     string
	HTTPTimeout time.Duration
}

// LoggingConfig controls the application logger.
type LoggingConfig struct {
	Level  string
	Format string // "text" or "json"
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	tokenTTL, err := getDuration("AUTH_TOKEN_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}
	updateTimeout, err := getDuration("PERFORMANCE_UPDATE_TIMEOUT", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	concurrency, err := getInt("PERFORMANCE_UPDATE_CONCURRENCY", 4)
	if err != nil {
		return nil, err
	}
	if concurrency < 1 {
		return nil, fmt.Errorf("PERFORMANCE_UPDATE_CONCURRENCY must be at least 1, got %d", concurrency)
	}
	httpTimeout, err := getDuration("PRICE_HTTP_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8000"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			WriteTimeout: writeTimeout(updateTimeout),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/insider_tracker.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Auth: AuthConfig{
			Username:     getEnv("ADMIN_USERNAME", ""),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			TokenKey:     getEnv("AUTH_TOKEN_KEY", ""),
			TokenTTL:     tokenTTL,
		},
		Updater: UpdaterConfig{
			Policy:      getEnv("PERFORMANCE_UPDATE_POLICY", "incomplete"),
			Concurrency: concurrency,
			Timeout:     updateTimeout,
			Schedule:    getEnv("PERFORMANCE_UPDATE_SCHEDULE", ""),
		},
		Prices: PricesConfig{
			BaseURL:     getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
			HTTPTimeout: httpTimeout,
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	if config.Updater.Policy != "incomplete" && config.Updater.Policy != "all" {
		return nil, fmt.Errorf("PERFORMANCE_UPDATE_POLICY must be 'incomplete' or 'all', got %q", config.Updater.Policy)
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// writeTimeout gives a response enough time to carry a full update run.
func writeTimeout(updateTimeout time.Duration) time.Duration {
	if updateTimeout <= 0 {
		return 0
	}
	return updateTimeout + 15*time.Second
}
