package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultAPIKeyHeader is the credential header used when none is configured.
const DefaultAPIKeyHeader = "X-API-Key"

// Supported storage drivers
const (
	DriverMemory   = "memory"
	DriverSurreal  = "surrealdb"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Security  SecurityConfig  `yaml:"security"`
	Storage   StorageConfig   `yaml:"storage"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string        `yaml:"port"`
	Env             string        `yaml:"env"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

// SecurityConfig holds the shared-secret gate settings.
// An empty APIKey disables the gate.
type SecurityConfig struct {
	APIKey       string `yaml:"api_key"`
	APIKeyHeader string `yaml:"api_key_header"`
}

// StorageConfig selects and configures the model store
type StorageConfig struct {
	Driver  string        `yaml:"driver"`
	DSN     string        `yaml:"dsn"`
	Surreal SurrealConfig `yaml:"surrealdb"`
}

// SurrealConfig holds SurrealDB connection settings
type SurrealConfig struct {
	Host      string `yaml:"host"`
	Port      string `yaml:"port"`
	Namespace string `yaml:"namespace"`
	Database  string `yaml:"database"`
	User      string `yaml:"user"`
	Password  string `yaml:"password"`
}

// TelemetryConfig holds tracing settings. Spans are only exported when
// OTLPEndpoint is set.
type TelemetryConfig struct {
	ServiceName  string `yaml:"service_name"`
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	Insecure     bool   `yaml:"insecure"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			Env:             "development",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			APIKeyHeader: DefaultAPIKeyHeader,
		},
		Storage: StorageConfig{
			Driver: DriverMemory,
			Surreal: SurrealConfig{
				Host:      "localhost",
				Port:      "8000",
				Namespace: "models",
				Database:  "main",
				User:      "root",
				Password:  "root",
			},
		},
		Telemetry: TelemetryConfig{
			ServiceName: "model-service",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from an optional YAML file and then applies
// environment overrides. An empty path falls back to CONFIG_FILE.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	cfg.normalize()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.Env = getEnv("ENV", c.Server.Env)
	c.Server.ReadTimeout = getDurationEnv("READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getDurationEnv("WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.IdleTimeout = getDurationEnv("IDLE_TIMEOUT", c.Server.IdleTimeout)
	c.Server.ShutdownTimeout = getDurationEnv("SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	c.Server.AllowedOrigins = getSliceEnv("CORS_ALLOWED_ORIGINS", c.Server.AllowedOrigins)

	c.Security.APIKey = getEnv("API_KEY", c.Security.APIKey)
	c.Security.APIKeyHeader = getEnv("API_KEY_HEADER", c.Security.APIKeyHeader)

	c.Storage.Driver = getEnv("STORAGE_DRIVER", c.Storage.Driver)
	c.Storage.DSN = getEnv("DATABASE_DSN", c.Storage.DSN)
	c.Storage.Surreal.Host = getEnv("SURREALDB_HOST", c.Storage.Surreal.Host)
	c.Storage.Surreal.Port = getEnv("SURREALDB_PORT", c.Storage.Surreal.Port)
	c.Storage.Surreal.Namespace = getEnv("SURREALDB_NAMESPACE", c.Storage.Surreal.Namespace)
	c.Storage.Surreal.Database = getEnv("SURREALDB_DATABASE", c.Storage.Surreal.Database)
	c.Storage.Surreal.User = getEnv("SURREALDB_USER", c.Storage.Surreal.User)
	c.Storage.Surreal.Password = getEnv("SURREALDB_PASS", c.Storage.Surreal.Password)

	c.Telemetry.ServiceName = getEnv("OTEL_SERVICE_NAME", c.Telemetry.ServiceName)
	c.Telemetry.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.Telemetry.OTLPEndpoint)
	c.Telemetry.Insecure = getBoolEnv("OTEL_EXPORTER_OTLP_INSECURE", c.Telemetry.Insecure)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

func (c *Config) normalize() {
	c.Server.AllowedOrigins = ParseOrigins(strings.Join(c.Server.AllowedOrigins, ","))
	c.Security.APIKey = strings.TrimSpace(c.Security.APIKey)
	c.Security.APIKeyHeader = strings.TrimSpace(c.Security.APIKeyHeader)
	if c.Security.APIKeyHeader == "" {
		c.Security.APIKeyHeader = DefaultAPIKeyHeader
	}
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
}

// ParseOrigins splits a comma-separated origin list, trimming entries and
// dropping empty ones. The result is nil when nothing remains.
func ParseOrigins(value string) []string {
	var origins []string
	for _, origin := range strings.Split(value, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// AuthEnabled reports whether requests must carry the shared secret.
func (c *Config) AuthEnabled() bool {
	return c.Security.APIKey != ""
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	} else if p, err := strconv.Atoi(c.Server.Port); err != nil || p < 1 || p > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be a number between 1 and 65535, got '%s'", c.Server.Port))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}

	switch c.Storage.Driver {
	case DriverMemory:
	case DriverPostgres, DriverSQLite:
		if c.Storage.DSN == "" {
			errs = append(errs, fmt.Errorf("DATABASE_DSN is required for storage driver '%s'", c.Storage.Driver))
		}
	case DriverSurreal:
		if c.Storage.Surreal.Host == "" {
			errs = append(errs, errors.New("SURREALDB_HOST is required"))
		}
		if c.Storage.Surreal.Namespace == "" {
			errs = append(errs, errors.New("SURREALDB_NAMESPACE is required"))
		}
		if c.Storage.Surreal.Database == "" {
			errs = append(errs, errors.New("SURREALDB_DATABASE is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER must be one of memory, surrealdb, postgres, sqlite, got '%s'", c.Storage.Driver))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got '%s'", c.Log.Level))
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be 'json' or 'text', got '%s'", c.Log.Format))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
