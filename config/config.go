package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultGeminiModel       = "gemini-2.5-flash"
	DefaultReportTemperature = 0.2
	DefaultReportTimeout     = 90 * time.Second
	DefaultReportLanguage    = "Brazilian Portuguese"
	DefaultReportTimezone    = "America/Sao_Paulo"
	DefaultReportRateLimit   = 10
)

// Config holds all configuration for the application
type Config struct {
	Env Environment

	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// Report generation
	GeminiAPIKey      string
	GeminiModel       string
	ReportTemperature float32
	ReportTimeout     time.Duration
	ReportLanguage    string
	ReportTimezone    string
	ReportRateLimit   int

	// Report archive (optional)
	S3BucketName string
	AWSRegion    string

	LogLevel string
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{Env: env}
	applyDefaults(cfg)

	switch env {
	case CI:
		loadCIConfig(cfg)
	case Development, Test:
		loadDevConfig(cfg)
	case Production:
		loadProdConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := applyOverlayFile(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to apply config file %s: %w", path, err)
		}
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// DSN returns the Postgres connection string.
func (c *Config) DSN() string {
	sslMode := c.DBSSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, sslMode,
	)
}

func applyDefaults(cfg *Config) {
	cfg.ServerPort = "8080"
	cfg.ServerHost = "0.0.0.0"
	cfg.DBPort = "5432"
	cfg.DBSSLMode = "disable"
	cfg.RedisPort = "6379"
	cfg.GeminiModel = DefaultGeminiModel
	cfg.ReportTemperature = DefaultReportTemperature
	cfg.ReportTimeout = DefaultReportTimeout
	cfg.ReportLanguage = DefaultReportLanguage
	cfg.ReportTimezone = DefaultReportTimezone
	cfg.ReportRateLimit = DefaultReportRateLimit
	cfg.LogLevel = "info"
}

// loadCIConfig loads configuration for CI using environment variables only
func loadCIConfig(cfg *Config) {
	loadPlainSettings(cfg, os.Getenv)

	cfg.DBUser = os.Getenv("DB_USER")
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
}

// loadDevConfig loads configuration for development and test.
// Environment variables win; Docker secrets fill in whatever is unset.
func loadDevConfig(cfg *Config) {
	lookup := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return readSecret(strings.ToLower(key))
	}
	loadPlainSettings(cfg, lookup)

	cfg.DBUser = lookup("DB_USER")
	cfg.DBPassword = lookup("DB_PASSWORD")
	cfg.JWTSecret = lookup("JWT_SECRET")
	cfg.RedisPassword = lookup("REDIS_PASSWORD")
	cfg.GeminiAPIKey = lookup("GEMINI_API_KEY")
}

// loadProdConfig loads configuration for production. Sensitive values come
// from Docker secrets only.
func loadProdConfig(cfg *Config) {
	loadPlainSettings(cfg, os.Getenv)

	cfg.DBUser = readSecret("db_user")
	cfg.DBPassword = readSecret("db_password")
	cfg.JWTSecret = readSecret("jwt_secret")
	cfg.RedisPassword = readSecret("redis_password")
	cfg.GeminiAPIKey = readSecret("gemini_api_key")
}

// loadPlainSettings reads the non-secret settings through lookup, keeping
// the defaults for anything unset.
func loadPlainSettings(cfg *Config, lookup func(string) string) {
	setString(&cfg.ServerPort, lookup("SERVER_PORT"))
	setString(&cfg.ServerHost, lookup("SERVER_HOST"))
	setString(&cfg.DBHost, lookup("DB_HOST"))
	setString(&cfg.DBPort, lookup("DB_PORT"))
	setString(&cfg.DBName, lookup("DB_NAME"))
	setString(&cfg.DBSSLMode, lookup("DB_SSL_MODE"))
	setString(&cfg.RedisHost, lookup("REDIS_HOST"))
	setString(&cfg.RedisPort, lookup("REDIS_PORT"))
	setString(&cfg.RedisURL, lookup("REDIS_URL"))
	setString(&cfg.GeminiModel, lookup("GEMINI_MODEL"))
	setString(&cfg.ReportLanguage, lookup("REPORT_LANGUAGE"))
	setString(&cfg.ReportTimezone, lookup("REPORT_TIMEZONE"))
	setString(&cfg.S3BucketName, lookup("S3_BUCKET_NAME"))
	setString(&cfg.AWSRegion, lookup("AWS_REGION"))
	setString(&cfg.LogLevel, lookup("LOG_LEVEL"))

	if v := lookup("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}
	if v := lookup("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RedisDB = n
		}
	}
	if v := lookup("REPORT_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.ReportTemperature = float32(f)
		}
	}
	if v := lookup("REPORT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ReportTimeout = d
		}
	}
	if v := lookup("REPORT_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ReportRateLimit = n
		}
	}
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
