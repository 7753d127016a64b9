// Package server assembles routes, middleware and handlers into the
// service's http.Handler.
package server

import (
	"fmt"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/forgo/modelservice/internal/config"
	"github.com/forgo/modelservice/internal/handler"
	"github.com/forgo/modelservice/internal/middleware"
	"github.com/forgo/modelservice/internal/service"
	"github.com/forgo/modelservice/internal/telemetry"
)

// Options holds the dependencies of the HTTP surface
type Options struct {
	Store          Store
	Security       config.SecurityConfig
	AllowedOrigins []string
	Info           handler.AppInfo
	// Metrics defaults to a fresh registry when nil
	Metrics *telemetry.Metrics
}

// Server is the assembled HTTP surface
type Server struct {
	handler http.Handler
	gate    *middleware.APIKeyGate
	metrics *telemetry.Metrics
}

// New wires the model service, its handlers and the middleware chain
func New(opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("server: store is required")
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = telemetry.NewMetrics()
	}

	gate := middleware.NewAPIKeyGate(gateConfig(opts.Security), func(d middleware.Decision) {
		metrics.RecordAuthDecision(d)
	})

	modelService := service.NewModelService(service.ModelServiceConfig{Repo: opts.Store})
	modelHandler := handler.NewModelHandler(modelService)
	actuatorHandler := handler.NewActuatorHandler(handler.ActuatorHandlerConfig{
		Store: opts.Store,
		Info:  opts.Info,
	})
	docsHandler, err := handler.NewDocsHandler(opts.Info.Version)
	if err != nil {
		return nil, err
	}

	// Create router and register routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", handler.Home)

	// Model endpoints
	mux.HandleFunc("POST /model", modelHandler.Create)
	mux.HandleFunc("GET /model", modelHandler.List)
	mux.HandleFunc("GET /model/page", modelHandler.Page)
	mux.HandleFunc("GET /model/{id}", modelHandler.Get)
	mux.HandleFunc("DELETE /model/{id}", modelHandler.Delete)
	mux.HandleFunc("DELETE /erase", modelHandler.Erase)

	// Operational endpoints
	mux.HandleFunc("GET /actuator/health", actuatorHandler.Health)
	mux.HandleFunc("GET /actuator/info", actuatorHandler.Info)
	mux.Handle("GET /actuator/metrics", metrics.Handler())
	mux.HandleFunc("GET /debug/runtime", actuatorHandler.Runtime)

	// API documentation
	mux.HandleFunc("GET /v3/api-docs", docsHandler.JSON)
	mux.HandleFunc("GET /v3/api-docs.yaml", docsHandler.YAML)

	// Apply global middleware
	chain := []middleware.Middleware{
		middleware.TraceID,
		middleware.Logger,
		middleware.Recovery,
	}
	if len(opts.AllowedOrigins) > 0 {
		chain = append(chain, middleware.CORS(opts.AllowedOrigins))
	}
	chain = append(chain,
		gate.Middleware,
		middleware.Compress,
		metrics.Middleware,
	)

	wrapped := otelhttp.NewHandler(middleware.Chain(mux, chain...), "modelservice",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "HTTP " + r.Method
		}),
	)

	return &Server{
		handler: wrapped,
		gate:    gate,
		metrics: metrics,
	}, nil
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Metrics returns the metrics the server records into
func (s *Server) Metrics() *telemetry.Metrics {
	return s.metrics
}

// ApplySecurity swaps the API key settings without a restart
func (s *Server) ApplySecurity(cfg config.SecurityConfig) {
	s.gate.Update(gateConfig(cfg))
}

func gateConfig(cfg config.SecurityConfig) middleware.GateConfig {
	return middleware.GateConfig{
		Secret: cfg.APIKey,
		Header: cfg.APIKeyHeader,
	}
}
