package model

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func int64Ptr(v int64) *int64    { return &v }
func stringPtr(v string) *string { return &v }

// ============================================================================
// ModelRequest Tests
// ============================================================================

func TestModelRequest_Validate_Valid(t *testing.T) {
	t.Parallel()

	req := &ModelRequest{ID: int64Ptr(1), Name: stringPtr("alpha")}
	if errs := req.Validate(); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestModelRequest_Validate_ReportsFieldsInOrder(t *testing.T) {
	t.Parallel()

	errs := (&ModelRequest{}).Validate()
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	if errs[0].Field != "id" || errs[0].Message != "id is required" {
		t.Errorf("unexpected first error: %+v", errs[0])
	}
	if errs[1].Field != "name" || errs[1].Message != "name is required" {
		t.Errorf("unexpected second error: %+v", errs[1])
	}
}

func TestModelRequest_Validate_BlankName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "   ", "\t\n"} {
		req := &ModelRequest{ID: int64Ptr(1), Name: stringPtr(name)}
		errs := req.Validate()
		if len(errs) != 1 || errs[0].Field != "name" {
			t.Errorf("name %q: expected name error, got %v", name, errs)
		}
	}
}

func TestModelRequest_ToModel(t *testing.T) {
	t.Parallel()

	m := (&ModelRequest{ID: int64Ptr(7), Name: stringPtr("seven")}).ToModel()
	if m.ID != 7 || m.Name != "seven" {
		t.Errorf("unexpected model: %+v", m)
	}
}

// ============================================================================
// Failure Tests
// ============================================================================

func TestJoinFieldErrors(t *testing.T) {
	t.Parallel()

	got := JoinFieldErrors([]FieldError{
		{Field: "id", Message: "id is required"},
		{Field: "name", Message: "name is required"},
	})
	want := "id: id is required; name: name is required"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	notFound := NewFailure(KindNotFound, "missing")
	wrapped := errors.Join(errors.New("context"), notFound)

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"failure", notFound, KindNotFound},
		{"wrapped failure", wrapped, KindNotFound},
		{"plain error", errors.New("boom"), KindUnexpected},
		{"malformed", NewMalformedPayload(errors.New("eof")), KindMalformedPayload},
	}
	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNewMalformedPayload_KeepsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("unexpected EOF")
	f := NewMalformedPayload(cause)
	if f.Message != MessageInvalidJSON {
		t.Errorf("unexpected message %q", f.Message)
	}
	if !errors.Is(f, cause) {
		t.Error("expected cause to be reachable through Unwrap")
	}
}

// ============================================================================
// ErrorEnvelope Tests
// ============================================================================

func TestNewErrorEnvelope_DefaultsTraceID(t *testing.T) {
	t.Parallel()

	env := NewErrorEnvelope(http.StatusNotFound, CodeNotFound, "gone", "/model/1", "")
	if env.TraceID != UnknownTraceID {
		t.Errorf("expected trace id %q, got %q", UnknownTraceID, env.TraceID)
	}
	if env.Error != "Not Found" {
		t.Errorf("expected reason phrase, got %q", env.Error)
	}
}

func TestErrorEnvelope_WriteJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	NewErrorEnvelope(http.StatusBadRequest, CodeBadRequest, "id is required.", "/model", "abc").WriteJSON(rec)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type %q", ct)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, key := range []string{"status", "error", "code", "message", "path", "traceId"} {
		if _, ok := body[key]; !ok {
			t.Errorf("missing key %q in %v", key, body)
		}
	}
	if body["traceId"] != "abc" || body["path"] != "/model" || body["error"] != "Bad Request" {
		t.Errorf("unexpected body: %v", body)
	}
}
