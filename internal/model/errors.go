package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies a failure. Every failure leaving the service is
// translated according to its kind; anything without a kind is Unexpected.
type ErrorKind int

const (
	KindUnexpected ErrorKind = iota
	KindInvalidArgument
	KindNotFound
	KindConflict
	KindValidationFailed
	KindMalformedPayload
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindValidationFailed:
		return "validation_failed"
	case KindMalformedPayload:
		return "malformed_payload"
	default:
		return "unexpected"
	}
}

// Stable error codes carried in the envelope
const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeNotFound        = "NOT_FOUND"
	CodeValidationError = "VALIDATION_ERROR"
	CodeInvalidJSON     = "INVALID_JSON"
	CodeUnexpectedError = "UNEXPECTED_ERROR"
)

// Fixed client-facing messages
const (
	MessageInvalidJSON = "Invalid JSON body."
	MessageUnexpected  = "Unexpected error."
)

// UnknownTraceID is reported when a request has no correlation id.
const UnknownTraceID = "unknown"

// FieldError represents a validation error on a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Failure is a classified domain or transport failure.
type Failure struct {
	Kind    ErrorKind
	Message string
	Fields  []FieldError
	cause   error
}

// NewFailure creates a failure of the given kind.
func NewFailure(kind ErrorKind, message string) *Failure {
	return &Failure{Kind: kind, Message: message}
}

// NewValidationFailure creates a ValidationFailed failure whose message
// joins every field violation as "field: reason" with "; ".
func NewValidationFailure(fields []FieldError) *Failure {
	return &Failure{
		Kind:    KindValidationFailed,
		Message: JoinFieldErrors(fields),
		Fields:  fields,
	}
}

// NewMalformedPayload wraps a body decoding error.
func NewMalformedPayload(cause error) *Failure {
	return &Failure{Kind: KindMalformedPayload, Message: MessageInvalidJSON, cause: cause}
}

// Error implements the error interface
func (f *Failure) Error() string {
	if f.cause != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Message, f.cause)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// Unwrap returns the underlying cause, if any.
func (f *Failure) Unwrap() error {
	return f.cause
}

// KindOf returns the kind of the first Failure in err's chain, or
// KindUnexpected when there is none.
func KindOf(err error) ErrorKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindUnexpected
}

// JoinFieldErrors formats violations in the order they were produced.
func JoinFieldErrors(fields []FieldError) string {
	parts := make([]string, 0, len(fields))
	for _, fe := range fields {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

// ErrorEnvelope is the JSON body of every failed request.
type ErrorEnvelope struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path"`
	TraceID string `json:"traceId"`
}

// NewErrorEnvelope builds an envelope, filling the reason phrase from the
// status and defaulting an empty trace id to "unknown".
func NewErrorEnvelope(status int, code, message, path, traceID string) *ErrorEnvelope {
	if traceID == "" {
		traceID = UnknownTraceID
	}
	return &ErrorEnvelope{
		Status:  status,
		Error:   http.StatusText(status),
		Code:    code,
		Message: message,
		Path:    path,
		TraceID: traceID,
	}
}

// WriteJSON writes the envelope as the response
func (e *ErrorEnvelope) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status)
	_ = json.NewEncoder(w).Encode(e)
}
