// Package config manages application configuration for the model service.
//
// Configuration is read from an optional YAML file and then overridden by
// environment variables, so a container can ship a file and still patch
// single values at deploy time.
//
//	cfg, err := config.Load("/etc/model-service/config.yaml")
//	if err != nil { ... }
//	if err := cfg.Validate(); err != nil { ... }
//
// # Configuration Groups
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS origins)
//   - SecurityConfig: shared-secret gate (API key and header name)
//   - StorageConfig: model store driver and connection settings
//   - TelemetryConfig: OpenTelemetry export settings
//   - LogConfig: slog level and format
//
// # Environment Variables
//
//	PORT                         - HTTP server port (default: 8080)
//	ENV                          - development, production or test
//	CORS_ALLOWED_ORIGINS         - comma-separated origins; empty disables CORS
//	API_KEY                      - shared secret; empty disables the gate
//	API_KEY_HEADER               - credential header (default: X-API-Key)
//	STORAGE_DRIVER               - memory, surrealdb, postgres or sqlite
//	DATABASE_DSN                 - DSN for postgres and sqlite
//	SURREALDB_HOST/PORT/...      - SurrealDB connection settings
//	OTEL_EXPORTER_OTLP_ENDPOINT  - OTLP gRPC collector address
//	LOG_LEVEL, LOG_FORMAT        - logger settings
//
// # Hot Reload
//
// Watcher observes the config file with fsnotify and hands every valid
// reloaded Config to a callback. Only settings that can change safely at
// runtime (the security section) are expected to be applied.
package config
