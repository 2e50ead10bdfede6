package config

import (
	"os"
	"strings"
)

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment determines the current environment. CI=true wins over ENV.
// With ENV unset, GIN_MODE=release selects production; unknown ENV values
// fall back to development.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}

	switch env := Environment(strings.ToLower(strings.TrimSpace(os.Getenv("ENV")))); env {
	case Production, Test, Development:
		return env
	case "":
		if strings.TrimSpace(os.Getenv("GIN_MODE")) == "release" {
			return Production
		}
		return Development
	default:
		return Development
	}
}

// IsProduction reports whether c was loaded in production.
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}
