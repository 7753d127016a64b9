package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/forgo/modelservice/internal/model"
)

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteText writes a plain text response
func WriteText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// DecodeJSON decodes a JSON request body into v. An empty body, a bare
// null, trailing data or a type mismatch is reported as a malformed
// payload. Unknown fields are ignored.
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return model.NewMalformedPayload(errEmptyBody)
	}

	var raw json.RawMessage
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&raw); err != nil {
		return model.NewMalformedPayload(err)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return model.NewMalformedPayload(errTrailingData)
	}
	if string(raw) == "null" {
		return model.NewMalformedPayload(errNullBody)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return model.NewMalformedPayload(err)
	}
	return nil
}
