package handler

import (
	"encoding/json"
	"net/http"

	dErrors "kyc-service/pkg/domain-errors"
)

// errorResponse is the JSON envelope for every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// messageResponse is the JSON envelope for confirmation-only successes.
type messageResponse struct {
	Message string `json:"message"`
}

// writeJSON renders v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError centralizes domain error translation to HTTP responses. Only the
// caller-safe message of a tagged error is rendered; untagged errors collapse
// to a generic 500 envelope.
func writeError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	writeJSON(w, dErrors.ToHTTPStatus(code), errorResponse{Error: dErrors.MessageOf(err)})
}
