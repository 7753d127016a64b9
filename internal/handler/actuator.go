package handler

import (
	"context"
	"log/slog"
	"net/http"
	"runtime"
	"time"
)

// healthTimeout bounds the store ping made by the health endpoint
const healthTimeout = 2 * time.Second

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the body of GET /actuator/health
type HealthResponse struct {
	Status string `json:"status"`
}

// AppInfo identifies the running build
type AppInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InfoResponse is the body of GET /actuator/info
type InfoResponse struct {
	App AppInfo `json:"app"`
}

// RuntimeResponse is the body of GET /debug/runtime
type RuntimeResponse struct {
	Goroutines int    `json:"goroutines"`
	GOMAXPROCS int    `json:"gomaxprocs"`
	NumCPU     int    `json:"numCpu"`
	GoVersion  string `json:"goVersion"`
}

// ActuatorHandler serves operational endpoints
type ActuatorHandler struct {
	store Pinger
	info  AppInfo
}

// ActuatorHandlerConfig holds dependencies for the actuator handler
type ActuatorHandlerConfig struct {
	Store Pinger
	Info  AppInfo
}

// NewActuatorHandler creates a new actuator handler
func NewActuatorHandler(cfg ActuatorHandlerConfig) *ActuatorHandler {
	return &ActuatorHandler{
		store: cfg.Store,
		info:  cfg.Info,
	}
}

// Health handles GET /actuator/health
func (h *ActuatorHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := h.store.Ping(ctx); err != nil {
			slog.Warn("health check failed", slog.String("error", err.Error()))
			WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "DOWN"})
			return
		}
	}

	WriteJSON(w, http.StatusOK, HealthResponse{Status: "UP"})
}

// Info handles GET /actuator/info
func (h *ActuatorHandler) Info(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, InfoResponse{App: h.info})
}

// Runtime handles GET /debug/runtime
func (h *ActuatorHandler) Runtime(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, RuntimeResponse{
		Goroutines: runtime.NumGoroutine(),
		GOMAXPROCS: runtime.GOMAXPROCS(0),
		NumCPU:     runtime.NumCPU(),
		GoVersion:  runtime.Version(),
	})
}
