package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultServerPort        = "3000"
	DefaultMealDBBaseURL     = "https://www.themealdb.com/api/json/v1/1"
	DefaultMealDBTimeout     = 10 * time.Second
	DefaultRandomFetchMode   = "sequential"
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
	DefaultRedisPort         = "6379"
	DefaultRateLimitRequests = 120
	DefaultRateLimitWindow   = time.Minute
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort string
	ServerHost string

	// TheMealDB client configuration
	MealDBBaseURL   string
	MealDBTimeout   time.Duration
	RandomFetchMode string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogDir    string

	// Redis configuration, only used by the rate limiter
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Rate limiting, disabled when RateLimitRequests is 0
	RateLimitRequests int
	RateLimitWindow   time.Duration

	CORSOrigins []string

	// TrustedProxies lists the proxy IPs or CIDRs whose forwarding headers
	// are believed. Empty means the peer address is the client.
	TrustedProxies []string

	// TemplateDir overrides the embedded templates when set
	TemplateDir string
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// RedisEnabled reports whether a Redis server is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	env := GetEnvironment()
	cfg := &Config{Environment: env}

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}

	// Sensitive values come from GitHub Actions secrets in CI and from
	// Docker secrets everywhere else.
	if env == CI {
		cfg.RedisPassword = firstNonEmpty(os.Getenv("TEST_REDIS_PASSWORD"), os.Getenv("REDIS_PASSWORD"))
	} else {
		cfg.RedisPassword = firstNonEmpty(readSecret("redis_password"), os.Getenv("REDIS_PASSWORD"))
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadDotEnv loads DOTENV_FILE, or .env, without overriding variables that
// are already set. A missing file is not an error.
func loadDotEnv() error {
	path := firstNonEmpty(os.Getenv("DOTENV_FILE"), ".env")
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func loadFromEnv(cfg *Config) error {
	var err error

	cfg.ServerPort = firstNonEmpty(os.Getenv("PORT"), os.Getenv("SERVER_PORT"), DefaultServerPort)
	cfg.ServerHost = os.Getenv("SERVER_HOST")

	cfg.MealDBBaseURL = strings.TrimRight(getEnv("MEALDB_BASE_URL", DefaultMealDBBaseURL), "/")
	if cfg.MealDBTimeout, err = getDuration("MEALDB_TIMEOUT", DefaultMealDBTimeout); err != nil {
		return err
	}
	cfg.RandomFetchMode = strings.ToLower(getEnv("RANDOM_FETCH_MODE", DefaultRandomFetchMode))

	cfg.LogLevel = getEnv("LOG_LEVEL", DefaultLogLevel)
	cfg.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", DefaultLogFormat))
	cfg.LogDir = os.Getenv("LOG_DIR")

	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.RedisHost = os.Getenv("REDIS_HOST")
	cfg.RedisPort = getEnv("REDIS_PORT", DefaultRedisPort)
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return err
	}

	if cfg.RateLimitRequests, err = getInt("RATE_LIMIT_REQUESTS", DefaultRateLimitRequests); err != nil {
		return err
	}
	if cfg.RateLimitWindow, err = getDuration("RATE_LIMIT_WINDOW", DefaultRateLimitWindow); err != nil {
		return err
	}

	cfg.CORSOrigins = splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))
	cfg.TrustedProxies = splitList(os.Getenv("TRUSTED_PROXIES"))
	cfg.TemplateDir = os.Getenv("TEMPLATE_DIR")

	return nil
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
