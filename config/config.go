package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultSecretsDir         = "/run/secrets"
	defaultActivationsPerHour = 10
	defaultMigrationsDir      = "migrations"
	defaultSQLitePath         = "heartline.db"
	defaultCORSOrigin         = "http://localhost:3000"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	SQLitePath    string
	MigrationsDir string

	// Redis configuration
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT configuration
	JWTSecret string

	// Logging
	LogLevel  string
	LogFormat string

	CORSAllowedOrigins []string

	// RateLimitActivationsPerHour caps premium activations per user; 0 disables the limit.
	RateLimitActivationsPerHour int
}

// LoadConfig builds a Config from environment variables and Docker secrets.
// Outside CI a secret file takes precedence over the matching variable.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	src := source{env: env, secretsDir: secretsDir()}

	cfg := &Config{
		Environment:   env,
		ServerPort:    src.value("SERVER_PORT", "server_port", "8080"),
		ServerHost:    src.value("SERVER_HOST", "server_host", "0.0.0.0"),
		DBDriver:      strings.ToLower(src.value("DB_DRIVER", "", DriverPostgres)),
		DBHost:        src.value("DB_HOST", "db_host", "localhost"),
		DBPort:        src.value("DB_PORT", "db_port", "5432"),
		DBUser:        src.value("DB_USER", "db_user", ""),
		DBPassword:    src.value("DB_PASSWORD", "db_password", ""),
		DBName:        src.value("DB_NAME", "db_name", "heartline"),
		DBSSLMode:     src.value("DB_SSL_MODE", "db_ssl_mode", "disable"),
		SQLitePath:    src.value("SQLITE_PATH", "", defaultSQLitePath),
		MigrationsDir: src.value("MIGRATIONS_DIR", "", defaultMigrationsDir),
		RedisURL:      src.value("REDIS_URL", "redis_url", ""),
		RedisHost:     src.value("REDIS_HOST", "redis_host", ""),
		RedisPort:     src.value("REDIS_PORT", "redis_port", "6379"),
		RedisPassword: src.value("REDIS_PASSWORD", "redis_password", ""),
		JWTSecret:     src.value("JWT_SECRET", "jwt_secret", ""),
		LogLevel:      src.value("LOG_LEVEL", "", "info"),
		LogFormat:     src.value("LOG_FORMAT", "", "json"),
	}

	var err error
	if cfg.RedisDB, err = src.intValue("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.RateLimitActivationsPerHour, err = src.intValue("RATE_LIMIT_ACTIVATIONS_PER_HOUR", defaultActivationsPerHour); err != nil {
		return nil, err
	}
	cfg.CORSAllowedOrigins = splitList(src.value("CORS_ALLOWED_ORIGINS", "", defaultCORSOrigin))

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// RedisEnabled reports whether any Redis endpoint is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// PostgresDSN returns the key/value DSN for the Postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// Addr returns the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.ServerHost, c.ServerPort)
}

type source struct {
	env        Environment
	secretsDir string
}

func (s source) value(envKey, secretName, fallback string) string {
	if secretName != "" && s.env != CI {
		if v := readSecret(s.secretsDir, secretName); v != "" {
			return v
		}
	}
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		return v
	}
	return fallback
}

func (s source) intValue(envKey string, fallback int) (int, error) {
	raw := s.value(envKey, "", "")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ValidationError{Field: envKey, Message: fmt.Sprintf("must be an integer, got %q", raw)}
	}
	return n, nil
}

func secretsDir() string {
	if dir := os.Getenv("SECRETS_DIR"); dir != "" {
		return dir
	}
	return defaultSecretsDir
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(dir, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
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
