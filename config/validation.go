package config

import (
	"fmt"
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

const minProductionSecretLength = 32

// requirements lists the settings each environment cannot run without.
var requirements = map[Environment][]string{
	Development: {"JWT_SECRET"},
	Test:        {"JWT_SECRET"},
	CI:          {"JWT_SECRET", "DB_USER", "DB_PASSWORD"},
	Production:  {"JWT_SECRET", "DB_USER", "DB_PASSWORD", "DB_HOST", "DB_NAME"},
}

// ValidateConfig checks the configuration against the requirements of its environment.
func ValidateConfig(cfg *Config) error {
	var errs []string
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg}.Error())
	}

	for _, key := range requirements[cfg.Environment] {
		if cfg.DBDriver == DriverSQLite && strings.HasPrefix(key, "DB_") {
			continue
		}
		if fieldValue(cfg, key) == "" {
			add(key, "is required")
		}
	}

	switch cfg.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		add("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}
	if cfg.Environment.IsProduction() && cfg.DBDriver == DriverSQLite {
		add("DB_DRIVER", "sqlite is not allowed in production")
	}
	if cfg.Environment.IsProduction() && cfg.JWTSecret != "" && len(cfg.JWTSecret) < minProductionSecretLength {
		add("JWT_SECRET", fmt.Sprintf("must be at least %d characters in production", minProductionSecretLength))
	}

	switch cfg.LogFormat {
	case "json", "console":
	default:
		add("LOG_FORMAT", "must be json or console")
	}
	if cfg.RateLimitActivationsPerHour < 0 {
		add("RATE_LIMIT_ACTIVATIONS_PER_HOUR", "must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}

func fieldValue(cfg *Config, key string) string {
	switch key {
	case "JWT_SECRET":
		return cfg.JWTSecret
	case "DB_USER":
		return cfg.DBUser
	case "DB_PASSWORD":
		return cfg.DBPassword
	case "DB_HOST":
		return cfg.DBHost
	case "DB_NAME":
		return cfg.DBName
	}
	return ""
}
