package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	ServiceName string
	Version     string
	Environment string
	DBUser      string
	DBPassword  string
	DBHost      string
	DBPort      string
	DBName      string
	APIKey      string // API key for authentication

	// Reverse proxies whose X-Forwarded-For header is trusted
	TrustedProxies []string

	// Base URL of the core API, used by the bot binary
	APIBaseURL string

	// Telegram integration
	TelegramToken string
	LevelChannels map[int]string // level (1..4) -> channel identifier, entries optional
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		ServiceName:    getEnv("SERVICE_NAME", "levelgate"),
		Version:        getEnv("VERSION", "dev"),
		Environment:    getEnv("ENVIRONMENT", "dev"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBName:         getEnv("DB_NAME", "levelgate"),
		APIKey:         getEnv("API_KEY", ""),
		TrustedProxies: splitCommaList(getEnv("TRUSTED_PROXIES", "")),
		APIBaseURL:     getEnv("API_BASE_URL", "http://localhost:8080"),
		TelegramToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
		LevelChannels:  loadLevelChannels(),
	}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	return cfg, nil
}

// loadLevelChannels reads the per-level channel identifiers.
// A missing entry means the level has no channel configured; that is a
// normal state, not an error.
func loadLevelChannels() map[int]string {
	channels := make(map[int]string)
	for level := MinAccessLevel; level <= MaxAccessLevel; level++ {
		key := fmt.Sprintf("CHANNEL_ID_LEVEL%d", level)
		if id := os.Getenv(key); id != "" {
			channels[level] = id
		}
	}
	return channels
}

// splitCommaList parses a comma-separated env value into a slice,
// dropping empty entries.
func splitCommaList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
