package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in a Config.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	lines := make([]string, len(e))
	for i, ve := range e {
		lines[i] = ve.Error()
	}
	return strings.Join(lines, "\n")
}

var (
	validRandomModes = map[string]bool{"sequential": true, "concurrent": true}
	validLogFormats  = map[string]bool{"text": true, "json": true}
	validLogLevels   = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
)

// ValidateConfig checks the loaded values and returns every problem found.
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port < 1 || port > 65535 {
		add("SERVER_PORT", "must be a port number, got %q", cfg.ServerPort)
	}

	if u, err := url.Parse(cfg.MealDBBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		add("MEALDB_BASE_URL", "must be an absolute http(s) URL, got %q", cfg.MealDBBaseURL)
	}
	if cfg.MealDBTimeout <= 0 {
		add("MEALDB_TIMEOUT", "must be positive")
	}
	if !validRandomModes[cfg.RandomFetchMode] {
		add("RANDOM_FETCH_MODE", "must be sequential or concurrent, got %q", cfg.RandomFetchMode)
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		add("LOG_LEVEL", "unknown level %q", cfg.LogLevel)
	}
	if !validLogFormats[cfg.LogFormat] {
		add("LOG_FORMAT", "must be text or json, got %q", cfg.LogFormat)
	}

	if cfg.RedisURL != "" {
		if u, err := url.Parse(cfg.RedisURL); err != nil || (u.Scheme != "redis" && u.Scheme != "rediss") {
			add("REDIS_URL", "must be a redis:// or rediss:// URL")
		}
	}
	if cfg.RedisDB < 0 {
		add("REDIS_DB", "must not be negative")
	}

	if cfg.RateLimitRequests < 0 {
		add("RATE_LIMIT_REQUESTS", "must not be negative")
	}
	if cfg.RateLimitRequests > 0 && cfg.RateLimitWindow <= 0 {
		add("RATE_LIMIT_WINDOW", "must be positive when rate limiting is enabled")
	}

	for _, origin := range cfg.CORSOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			add("CORS_ALLOWED_ORIGINS", "origin %q must start with http:// or https://", origin)
		}
	}

	for _, proxy := range cfg.TrustedProxies {
		if net.ParseIP(proxy) == nil {
			if _, _, err := net.ParseCIDR(proxy); err != nil {
				add("TRUSTED_PROXIES", "%q is not an IP address or CIDR", proxy)
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
