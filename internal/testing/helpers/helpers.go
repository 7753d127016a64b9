// Package helpers provides common test utilities for e2e testing.
//
// This package includes HTTP request builders, response validators,
// and assertion helpers for testing API endpoints.
package helpers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/forgo/modelservice/internal/model"
)

// ============================================================================
// Request Helpers
// ============================================================================

// RequestBuilder helps construct HTTP requests for testing
type RequestBuilder struct {
	t       *testing.T
	method  string
	path    string
	body    interface{}
	rawBody *string
	headers map[string]string
}

// NewRequest creates a new request builder
func NewRequest(t *testing.T, method, path string) *RequestBuilder {
	t.Helper()
	return &RequestBuilder{
		t:       t,
		method:  method,
		path:    path,
		headers: make(map[string]string),
	}
}

// WithBody sets the request body (will be JSON encoded)
func (rb *RequestBuilder) WithBody(body interface{}) *RequestBuilder {
	rb.body = body
	return rb
}

// WithRawBody sets a literal body, for malformed payload tests
func (rb *RequestBuilder) WithRawBody(body string) *RequestBuilder {
	rb.rawBody = &body
	return rb
}

// WithHeader adds a header to the request
func (rb *RequestBuilder) WithHeader(key, value string) *RequestBuilder {
	rb.headers[key] = value
	return rb
}

// WithAPIKey sets the shared-secret header
func (rb *RequestBuilder) WithAPIKey(header, key string) *RequestBuilder {
	return rb.WithHeader(header, key)
}

// Build creates the HTTP request
func (rb *RequestBuilder) Build() *http.Request {
	rb.t.Helper()

	var bodyReader io.Reader
	switch {
	case rb.rawBody != nil:
		bodyReader = strings.NewReader(*rb.rawBody)
	case rb.body != nil:
		bodyBytes, err := json.Marshal(rb.body)
		if err != nil {
			rb.t.Fatalf("helpers: failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(rb.method, rb.path, bodyReader)

	if rb.body != nil || rb.rawBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range rb.headers {
		req.Header.Set(k, v)
	}

	return req
}

// Do builds the request and serves it through h
func (rb *RequestBuilder) Do(h http.Handler) *httptest.ResponseRecorder {
	rb.t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, rb.Build())
	return rec
}

// ============================================================================
// Response Assertion Helpers
// ============================================================================

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, resp *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if resp.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, resp.Code, resp.Body.String())
	}
}

// AssertErrorEnvelope validates an error response and returns it
func AssertErrorEnvelope(t *testing.T, resp *httptest.ResponseRecorder, expectedStatus int, expectedCode string) model.ErrorEnvelope {
	t.Helper()

	AssertStatus(t, resp, expectedStatus)

	var env model.ErrorEnvelope
	bodyBytes := resp.Body.Bytes()
	if err := json.Unmarshal(bodyBytes, &env); err != nil {
		t.Fatalf("failed to decode error envelope: %v. Body: %s", err, string(bodyBytes))
	}

	if env.Status != expectedStatus {
		t.Errorf("expected envelope status %d, got %d", expectedStatus, env.Status)
	}
	if env.Code != expectedCode {
		t.Errorf("expected envelope code %q, got %q", expectedCode, env.Code)
	}
	if env.Error != http.StatusText(expectedStatus) {
		t.Errorf("expected reason phrase %q, got %q", http.StatusText(expectedStatus), env.Error)
	}
	if env.TraceID == "" {
		t.Error("expected a trace id in the envelope")
	}
	return env
}

// AssertEmptyBody checks that nothing was written to the body
func AssertEmptyBody(t *testing.T, resp *httptest.ResponseRecorder) {
	t.Helper()
	if resp.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", resp.Body.String())
	}
}

// AssertJSONContains checks that the response body contains expected key-value pairs
func AssertJSONContains(t *testing.T, resp *httptest.ResponseRecorder, expected map[string]interface{}) {
	t.Helper()

	var actual map[string]interface{}
	bodyBytes := resp.Body.Bytes()
	if err := json.Unmarshal(bodyBytes, &actual); err != nil {
		t.Fatalf("failed to decode response: %v. Body: %s", err, string(bodyBytes))
	}

	for key, expectedVal := range expected {
		actualVal, ok := actual[key]
		if !ok {
			t.Errorf("expected key %q not found in response", key)
			continue
		}

		if !jsonEqual(expectedVal, actualVal) {
			t.Errorf("for key %q: expected %v, got %v", key, expectedVal, actualVal)
		}
	}
}

// DecodeResponse decodes the response body into the given struct
func DecodeResponse(t *testing.T, resp *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	bodyBytes := resp.Body.Bytes()
	if err := json.Unmarshal(bodyBytes, v); err != nil {
		t.Fatalf("failed to decode response: %v. Body: %s", err, string(bodyBytes))
	}
}

// jsonEqual compares values after a JSON round trip so that 1 and 1.0 match
func jsonEqual(a, b interface{}) bool {
	aj, err1 := json.Marshal(a)
	bj, err2 := json.Marshal(b)
	return err1 == nil && err2 == nil && bytes.Equal(aj, bj)
}

// Int64Ptr returns a pointer to v
func Int64Ptr(v int64) *int64 {
	return &v
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}
