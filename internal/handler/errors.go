package handler

import (
	"encoding/json"
	"net/http"
	"strings"
)

// errorDetail is the machine-readable core of every error body.
type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorResponse is the JSON envelope for all non-2xx responses.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

// writeJSON serializes v as the response body with the given status code.
// Encoding failures are ignored — headers are already out by then and there
// is nothing useful left to tell the client.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a structured error body with the given status and code.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}

// notFound writes a 404 for a missing resource. The caller supplies the
// human-readable message (e.g. "tag not found") because the handler is the
// layer that knows what was being looked up.
func notFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, "not_found", message)
}

// validationFailed writes a 422 for a domain validation failure.
// The message is extracted from the wrapped domain.ErrValidation error.
func validationFailed(w http.ResponseWriter, err error) {
	writeError(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err))
}

// badRequest writes a 422 for a request rejected before reaching the service
// layer (e.g. missing or malformed body).
func badRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnprocessableEntity, "validation_error", message)
}

// conflict writes a 409 with the given code (duplicate or no-op).
func conflict(w http.ResponseWriter, code string, err error) {
	writeError(w, http.StatusConflict, code, unwrapMessage(err))
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.LifecycleService.ReportDamaged: validation error: reason is
// required" → "reason is required".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if i := strings.LastIndex(msg, "validation error: "); i >= 0 {
		return msg[i+len("validation error: "):]
	}
	// Strip "layer.Type.Method: " prefixes for the remaining sentinels.
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
