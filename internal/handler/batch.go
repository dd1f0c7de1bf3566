package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/mholtz/tagtrack/internal/domain"
)

// batchReplaceRequest is the body for POST /tags/replacements.
// Status selects the records to remediate; in practice "damaged" or
// "missing", though any valid status is accepted.
type batchReplaceRequest struct {
	Status string `json:"status"`
}

// batchFailure is the wire form of one captured per-record failure.
// The error is flattened to a message — error values don't marshal, and the
// service-level domain.BatchFailure keeps the real one for embedded callers.
type batchFailure struct {
	ID      uuid.UUID `json:"id"`
	Message string    `json:"message"`
}

// batchReplaceResponse is the body for POST /tags/replacements.
// NothingToDo distinguishes "the predicate matched no records" from a batch
// that ran and succeeded zero times, so the UI can render three different
// messages (nothing matched / some failed / all succeeded).
type batchReplaceResponse struct {
	Succeeded   int            `json:"succeeded"`
	Failed      int            `json:"failed"`
	Failures    []batchFailure `json:"failures,omitempty"`
	NothingToDo bool           `json:"nothing_to_do"`
	Message     string         `json:"message"`
}

// BatchReplace handles POST /tags/replacements.
// The batch always runs to completion; per-record failures are reported in
// the body, never as an HTTP error.
func (s *Server) BatchReplace(w http.ResponseWriter, r *http.Request) {
	var req batchReplaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "request body is required")
		return
	}

	// Per-record progress feeds the audit log; pacing for UI animation is a
	// caller concern, not an engine one.
	progress := func(processed, total int) {
		s.log.DebugContext(r.Context(), "batch replace progress", "processed", processed, "total", total)
	}

	result, err := s.batch.ReplaceByStatus(r.Context(), req.Status, progress)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNothingToDo):
			writeJSON(w, http.StatusOK, batchReplaceResponse{
				NothingToDo: true,
				Message:     "no tags to replace",
			})
		case errors.Is(err, domain.ErrValidation):
			validationFailed(w, err)
		default:
			s.serverError(w, r, err)
		}
		return
	}

	resp := batchReplaceResponse{
		Succeeded: result.Succeeded,
		Failed:    result.Failed,
		Message:   fmt.Sprintf("%d tags replaced", result.Succeeded),
	}
	for _, f := range result.Failures {
		resp.Failures = append(resp.Failures, batchFailure{ID: f.ID, Message: f.Err.Error()})
	}

	s.log.InfoContext(r.Context(), "batch replace completed",
		"status", req.Status, "succeeded", result.Succeeded, "failed", result.Failed)
	writeJSON(w, http.StatusOK, resp)
}
