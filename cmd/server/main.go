// Package main is the entry point for the model service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/forgo/modelservice/internal/config"
	"github.com/forgo/modelservice/internal/handler"
	"github.com/forgo/modelservice/internal/logging"
	"github.com/forgo/modelservice/internal/server"
	"github.com/forgo/modelservice/internal/telemetry"
)

const appName = "modelservice"

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd creates the root command. Running it without a subcommand
// starts the server.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         "Model CRUD and pagination service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	addServeFlags(rootCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}
	addServeFlags(serveCmd)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", appName, version)
		},
	}

	rootCmd.AddCommand(serveCmd, versionCmd)
	return rootCmd
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "", "Path to configuration file (YAML); defaults to $CONFIG_FILE")
	cmd.Flags().StringP("port", "p", "", "Port to listen on (overrides config)")
	cmd.Flags().StringP("log-level", "l", "", "Log level (debug, info, warn, error)")
}

// loadConfig loads the file and environment, then applies flag overrides
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", fmt.Errorf("failed to get config flag: %w", err)
	}
	if configPath == "" {
		configPath = os.Getenv("CONFIG_FILE")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}

	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Server.Port = port
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, configPath, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, configPath, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Initialize structured logging
	logger := logging.Setup(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize tracing
	_, shutdownTracing, err := telemetry.SetupProvider(ctx, telemetry.TracingConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: version,
		Environment:    cfg.Server.Env,
		Endpoint:       cfg.Telemetry.OTLPEndpoint,
		Insecure:       cfg.Telemetry.Insecure,
	})
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			slog.Error("failed to flush traces", slog.String("error", err.Error()))
		}
	}()

	// Initialize storage
	store, closeStore, err := server.OpenStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	metrics := telemetry.NewMetrics()
	srv, err := server.New(server.Options{
		Store:          store,
		Security:       cfg.Security,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Info:           handler.AppInfo{Name: appName, Version: version},
		Metrics:        metrics,
	})
	if err != nil {
		return err
	}

	slog.Info("api key gate configured",
		slog.Bool("enabled", cfg.AuthEnabled()),
		slog.String("header", cfg.Security.APIKeyHeader),
	)

	// Hot-reload security settings from the config file
	if configPath != "" {
		watcher, err := config.NewWatcher(configPath, func(next *config.Config) error {
			srv.ApplySecurity(next.Security)
			metrics.RecordConfigReload(true)
			slog.Info("api key gate updated", slog.Bool("enabled", next.AuthEnabled()))
			return nil
		}, logger)
		if err != nil {
			return fmt.Errorf("failed to create config watcher: %w", err)
		}
		watcher.OnError = func(error) { metrics.RecordConfigReload(false) }
		if err := watcher.Start(ctx); err != nil {
			return fmt.Errorf("failed to watch config: %w", err)
		}
		defer func() { _ = watcher.Stop() }()
	}

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
			slog.String("storage", cfg.Storage.Driver),
			slog.String("version", version),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Graceful shutdown
	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
	return nil
}
