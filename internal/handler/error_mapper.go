package handler

import (
	"errors"
	"log/slog"
	"net/http"

	platformerrors "github.com/jmgilman/go/errors"

	"github.com/forgo/modelservice/internal/middleware"
	"github.com/forgo/modelservice/internal/model"
)

// MapError converts any error into the response envelope. This is the only
// place failures are inspected, so every endpoint reports errors the same
// way. Causes of unexpected errors are logged and never returned.
func MapError(err error, path, traceID string) *model.ErrorEnvelope {
	if err == nil {
		return nil
	}

	var f *model.Failure
	if !errors.As(err, &f) {
		return unexpected(err, path, traceID)
	}

	switch f.Kind {
	// ===== Caller Errors → 400 =====
	case model.KindInvalidArgument, model.KindConflict:
		return model.NewErrorEnvelope(http.StatusBadRequest, model.CodeBadRequest, f.Message, path, traceID)
	case model.KindValidationFailed:
		return model.NewErrorEnvelope(http.StatusBadRequest, model.CodeValidationError, f.Message, path, traceID)
	case model.KindMalformedPayload:
		return model.NewErrorEnvelope(http.StatusBadRequest, model.CodeInvalidJSON, model.MessageInvalidJSON, path, traceID)

	// ===== Not Found Errors → 404 =====
	case model.KindNotFound:
		return model.NewErrorEnvelope(http.StatusNotFound, model.CodeNotFound, f.Message, path, traceID)

	// ===== Default → 500 =====
	default:
		return unexpected(err, path, traceID)
	}
}

func unexpected(err error, path, traceID string) *model.ErrorEnvelope {
	slog.Error("unexpected error",
		slog.String("error", err.Error()),
		slog.String("code", string(platformerrors.GetCode(err))),
		slog.Bool("retryable", platformerrors.IsRetryable(err)),
		slog.String("path", path),
		slog.String("trace_id", traceID),
	)
	return model.NewErrorEnvelope(http.StatusInternalServerError, model.CodeUnexpectedError, model.MessageUnexpected, path, traceID)
}

// WriteError translates err and writes the envelope for request r
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	MapError(err, r.URL.Path, middleware.GetTraceID(r.Context())).WriteJSON(w)
}
