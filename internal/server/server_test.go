package server

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/modelservice/internal/config"
	"github.com/forgo/modelservice/internal/handler"
	"github.com/forgo/modelservice/internal/middleware"
	"github.com/forgo/modelservice/internal/model"
	"github.com/forgo/modelservice/internal/repository"
	"github.com/forgo/modelservice/internal/testing/helpers"
)

// ============================================================================
// Test Setup
// ============================================================================

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	if opts.Store == nil {
		opts.Store = repository.NewMemoryModelRepository()
	}
	if opts.Info == (handler.AppInfo{}) {
		opts.Info = handler.AppInfo{Name: "modelservice", Version: "test"}
	}
	srv, err := New(opts)
	require.NoError(t, err)
	return srv
}

// ============================================================================
// End-to-End Flow
// ============================================================================

func TestServer_ModelLifecycle(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, Options{}).Handler()

	rec := helpers.NewRequest(t, http.MethodPost, "/model").
		WithBody(map[string]interface{}{"id": 1, "name": "alpha"}).
		Do(h)
	helpers.AssertStatus(t, rec, http.StatusCreated)

	rec = helpers.NewRequest(t, http.MethodPost, "/model").
		WithBody(map[string]interface{}{"id": 1, "name": "again"}).
		Do(h)
	env := helpers.AssertErrorEnvelope(t, rec, http.StatusBadRequest, model.CodeBadRequest)
	assert.Equal(t, "Model with same id exists.", env.Message)

	rec = helpers.NewRequest(t, http.MethodGet, "/model/1").Do(h)
	helpers.AssertStatus(t, rec, http.StatusOK)
	helpers.AssertJSONContains(t, rec, map[string]interface{}{"id": 1, "name": "alpha"})

	rec = helpers.NewRequest(t, http.MethodGet, "/model/page?size=2").Do(h)
	helpers.AssertJSONContains(t, rec, map[string]interface{}{"totalElements": 1, "numberOfElements": 1})

	rec = helpers.NewRequest(t, http.MethodDelete, "/model/1").Do(h)
	assert.JSONEq(t, `{"message":"Model deleted.","id":1}`, rec.Body.String())

	rec = helpers.NewRequest(t, http.MethodGet, "/model/1").Do(h)
	helpers.AssertErrorEnvelope(t, rec, http.StatusNotFound, model.CodeNotFound)

	rec = helpers.NewRequest(t, http.MethodDelete, "/erase").Do(h)
	assert.JSONEq(t, `{"message":"All models deleted."}`, rec.Body.String())

	rec = helpers.NewRequest(t, http.MethodGet, "/model").Do(h)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestServer_Home(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, Options{}).Handler()

	rec := helpers.NewRequest(t, http.MethodGet, "/").Do(h)
	helpers.AssertStatus(t, rec, http.StatusOK)
	assert.Equal(t, "Model Service Home Page", rec.Body.String())
}

func TestServer_TraceIDInEnvelopeAndHeader(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, Options{}).Handler()

	rec := helpers.NewRequest(t, http.MethodGet, "/model/404").
		WithHeader(middleware.RequestIDHeader, "corr-1").
		Do(h)

	env := helpers.AssertErrorEnvelope(t, rec, http.StatusNotFound, model.CodeNotFound)
	assert.Equal(t, "corr-1", env.TraceID)
	assert.Equal(t, "corr-1", rec.Header().Get(middleware.RequestIDHeader))
}

func TestServer_GeneratedTraceID(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, Options{}).Handler()

	rec := helpers.NewRequest(t, http.MethodGet, "/model/abc").Do(h)

	env := helpers.AssertErrorEnvelope(t, rec, http.StatusBadRequest, model.CodeBadRequest)
	assert.NotEqual(t, model.UnknownTraceID, env.TraceID)
	assert.Equal(t, env.TraceID, rec.Header().Get(middleware.RequestIDHeader))
}

// ============================================================================
// API Key Gate
// ============================================================================

func TestServer_Gate(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, Options{
		Security: config.SecurityConfig{APIKey: "s", APIKeyHeader: "X-API-Key"},
	}).Handler()

	rec := helpers.NewRequest(t, http.MethodGet, "/model").Do(h)
	helpers.AssertStatus(t, rec, http.StatusUnauthorized)
	helpers.AssertEmptyBody(t, rec)

	rec = helpers.NewRequest(t, http.MethodGet, "/model").WithAPIKey("X-API-Key", "nope").
		WithHeader("Accept-Encoding", "gzip").
		Do(h)
	helpers.AssertStatus(t, rec, http.StatusUnauthorized)
	helpers.AssertEmptyBody(t, rec)

	rec = helpers.NewRequest(t, http.MethodGet, "/model").WithAPIKey("X-API-Key", "s").Do(h)
	helpers.AssertStatus(t, rec, http.StatusOK)

	for _, path := range []string{"/", "/actuator/health", "/actuator/info", "/actuator/metrics", "/v3/api-docs"} {
		rec = helpers.NewRequest(t, http.MethodGet, path).Do(h)
		helpers.AssertStatus(t, rec, http.StatusOK)
	}

	for _, path := range []string{"/debug/runtime", "/v3/api-docs.yaml"} {
		rec = helpers.NewRequest(t, http.MethodGet, path).Do(h)
		helpers.AssertStatus(t, rec, http.StatusUnauthorized)
	}

	rec = helpers.NewRequest(t, http.MethodGet, "/v3/api-docs.yaml").WithAPIKey("X-API-Key", "s").Do(h)
	helpers.AssertStatus(t, rec, http.StatusOK)
}

func TestServer_ApplySecurity(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, Options{})
	h := srv.Handler()

	rec := helpers.NewRequest(t, http.MethodGet, "/model").Do(h)
	helpers.AssertStatus(t, rec, http.StatusOK)

	srv.ApplySecurity(config.SecurityConfig{APIKey: "rotated", APIKeyHeader: "X-Token"})

	rec = helpers.NewRequest(t, http.MethodGet, "/model").Do(h)
	helpers.AssertStatus(t, rec, http.StatusUnauthorized)

	rec = helpers.NewRequest(t, http.MethodGet, "/model").WithAPIKey("X-Token", "rotated").Do(h)
	helpers.AssertStatus(t, rec, http.StatusOK)
}

// ============================================================================
// Cross-cutting Middleware
// ============================================================================

func TestServer_CORS(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, Options{
		AllowedOrigins: []string{"https://app.example.com"},
		Security:       config.SecurityConfig{APIKey: "s"},
	}).Handler()

	rec := helpers.NewRequest(t, http.MethodOptions, "/model").
		WithHeader("Origin", "https://app.example.com").
		WithHeader("Access-Control-Request-Method", http.MethodPost).
		Do(h)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_NoCORSWhenOriginsEmpty(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, Options{}).Handler()

	rec := helpers.NewRequest(t, http.MethodGet, "/model").
		WithHeader("Origin", "https://app.example.com").
		Do(h)

	helpers.AssertStatus(t, rec, http.StatusOK)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_Gzip(t *testing.T) {
	t.Parallel()
	h := newTestServer(t, Options{}).Handler()

	rec := helpers.NewRequest(t, http.MethodGet, "/model").
		WithHeader("Accept-Encoding", "gzip").
		Do(h)

	require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(body))
}

func TestServer_MetricsRecordRoutes(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, Options{})
	h := srv.Handler()

	helpers.NewRequest(t, http.MethodGet, "/model/7").Do(h)

	rec := helpers.NewRequest(t, http.MethodGet, "/actuator/metrics").Do(h)
	helpers.AssertStatus(t, rec, http.StatusOK)
	assert.True(t, strings.Contains(rec.Body.String(),
		`modelservice_http_requests_total{method="GET",pattern="GET /model/{id}",status="404"} 1`),
		rec.Body.String())
}

func TestServer_HealthReflectsStore(t *testing.T) {
	t.Parallel()
	store := &downStore{MemoryModelRepository: repository.NewMemoryModelRepository()}
	h := newTestServer(t, Options{Store: store}).Handler()

	rec := helpers.NewRequest(t, http.MethodGet, "/actuator/health").Do(h)
	helpers.AssertStatus(t, rec, http.StatusServiceUnavailable)
	assert.JSONEq(t, `{"status":"DOWN"}`, rec.Body.String())
}

func TestServer_PanicBecomesEnvelope(t *testing.T) {
	t.Parallel()
	store := &panicStore{MemoryModelRepository: repository.NewMemoryModelRepository()}
	h := newTestServer(t, Options{Store: store}).Handler()

	rec := helpers.NewRequest(t, http.MethodGet, "/model").Do(h)
	env := helpers.AssertErrorEnvelope(t, rec, http.StatusInternalServerError, model.CodeUnexpectedError)
	assert.Equal(t, "/model", env.Path)
}

func TestNew_RequiresStore(t *testing.T) {
	t.Parallel()
	_, err := New(Options{})
	assert.Error(t, err)
}

// ============================================================================
// Test Stores
// ============================================================================

type downStore struct {
	*repository.MemoryModelRepository
}

func (s *downStore) Ping(ctx context.Context) error {
	return io.ErrUnexpectedEOF
}

type panicStore struct {
	*repository.MemoryModelRepository
}

func (s *panicStore) ListAll(ctx context.Context) ([]*model.Model, error) {
	panic("store exploded")
}
