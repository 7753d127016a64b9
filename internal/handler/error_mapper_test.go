package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	platformerrors "github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/modelservice/internal/middleware"
	"github.com/forgo/modelservice/internal/model"
	"github.com/forgo/modelservice/internal/service"
)

func TestMapError_Kinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "invalid argument",
			err:        service.ErrIDRequired,
			wantStatus: http.StatusBadRequest,
			wantCode:   model.CodeBadRequest,
			wantMsg:    "id is required.",
		},
		{
			name:       "conflict is 400 not 409",
			err:        service.ErrModelExists,
			wantStatus: http.StatusBadRequest,
			wantCode:   model.CodeBadRequest,
			wantMsg:    "Model with same id exists.",
		},
		{
			name:       "not found",
			err:        service.ErrModelNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   model.CodeNotFound,
			wantMsg:    "No model with given id found.",
		},
		{
			name: "validation failed",
			err: model.NewValidationFailure([]model.FieldError{
				{Field: "id", Message: "id is required"},
				{Field: "name", Message: "name is required"},
			}),
			wantStatus: http.StatusBadRequest,
			wantCode:   model.CodeValidationError,
			wantMsg:    "id: id is required; name: name is required",
		},
		{
			name:       "malformed payload",
			err:        model.NewMalformedPayload(errors.New("unexpected EOF")),
			wantStatus: http.StatusBadRequest,
			wantCode:   model.CodeInvalidJSON,
			wantMsg:    "Invalid JSON body.",
		},
		{
			name:       "wrapped failure keeps its kind",
			err:        fmt.Errorf("get: %w", service.ErrModelNotFound),
			wantStatus: http.StatusNotFound,
			wantCode:   model.CodeNotFound,
			wantMsg:    "No model with given id found.",
		},
		{
			name:       "plain error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   model.CodeUnexpectedError,
			wantMsg:    "Unexpected error.",
		},
		{
			name:       "store fault",
			err:        platformerrors.Wrap(errors.New("timeout"), platformerrors.CodeDatabase, "model store: find"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   model.CodeUnexpectedError,
			wantMsg:    "Unexpected error.",
		},
		{
			name:       "explicit unexpected kind",
			err:        model.NewFailure(model.KindUnexpected, "secret detail"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   model.CodeUnexpectedError,
			wantMsg:    "Unexpected error.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := MapError(tt.err, "/model/1", "trace-1")
			require.NotNil(t, env)
			assert.Equal(t, tt.wantStatus, env.Status)
			assert.Equal(t, http.StatusText(tt.wantStatus), env.Error)
			assert.Equal(t, tt.wantCode, env.Code)
			assert.Equal(t, tt.wantMsg, env.Message)
			assert.Equal(t, "/model/1", env.Path)
			assert.Equal(t, "trace-1", env.TraceID)
		})
	}
}

func TestMapError_Nil(t *testing.T) {
	t.Parallel()
	assert.Nil(t, MapError(nil, "/", "x"))
}

func TestMapError_MissingTraceID(t *testing.T) {
	t.Parallel()

	env := MapError(service.ErrModelNotFound, "/model/1", "")
	assert.Equal(t, model.UnknownTraceID, env.TraceID)
}

func TestWriteError_UsesRequestTraceID(t *testing.T) {
	t.Parallel()

	var rec *httptest.ResponseRecorder
	h := middleware.TraceID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, service.ErrModelNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/model/3", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{
		"status": 404,
		"error": "Not Found",
		"code": "NOT_FOUND",
		"message": "No model with given id found.",
		"path": "/model/3",
		"traceId": "req-42"
	}`, rec.Body.String())
}
