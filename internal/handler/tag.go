package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/mholtz/tagtrack/internal/domain"
)

// generateTagRequest is the body for POST /tags.
// It carries the equipment subsystem's item reference; tagtrack stores it
// verbatim and only guards against duplicate issuance.
type generateTagRequest struct {
	Item domain.ItemRef `json:"item"`
}

// reportDamagedRequest is the body for POST /tags/{id}/damaged.
type reportDamagedRequest struct {
	Reason string `json:"reason"`
}

// pagination echoes the paging parameters applied to a list response.
type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// listTagsResponse is the body for GET /tags.
type listTagsResponse struct {
	Data       []domain.TagRecord `json:"data"`
	Pagination pagination         `json:"pagination"`
}

// ListTags handles GET /tags.
// Supports ?q= free text over item name and serial number, ?status= exact
// status filter ("all" or absent for no filter), and ?page=/?limit= paging
// (defaults: page=1, limit=20, max=100).
func (s *Server) ListTags(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	recs, err := s.search.Query(r.Context(), q.Get("q"), q.Get("status"))
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			validationFailed(w, err)
			return
		}
		s.serverError(w, r, err)
		return
	}

	params := domain.NewPaginationParams(queryInt(q.Get("page")), queryInt(q.Get("limit")))
	page := paginate(recs, params)

	writeJSON(w, http.StatusOK, listTagsResponse{
		Data: page,
		Pagination: pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: len(recs),
		},
	})
}

// GenerateTag handles POST /tags.
func (s *Server) GenerateTag(w http.ResponseWriter, r *http.Request) {
	var req generateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "request body is required")
		return
	}

	rec, err := s.generate.Generate(r.Context(), req.Item)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			validationFailed(w, err)
		case errors.Is(err, domain.ErrDuplicate):
			conflict(w, "duplicate", err)
		default:
			s.serverError(w, r, err)
		}
		return
	}

	s.log.InfoContext(r.Context(), "tag generated",
		"tag_id", rec.ID, "item_id", rec.Item.ItemID, "serial_number", rec.Item.SerialNumber)
	writeJSON(w, http.StatusCreated, rec)
}

// GetTag handles GET /tags/{id}.
func (s *Server) GetTag(w http.ResponseWriter, r *http.Request) {
	id, ok := tagIDParam(r)
	if !ok {
		notFound(w, "tag not found")
		return
	}

	rec, err := s.lifecycle.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "tag not found")
			return
		}
		s.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ReportDamaged handles POST /tags/{id}/damaged.
func (s *Server) ReportDamaged(w http.ResponseWriter, r *http.Request) {
	id, ok := tagIDParam(r)
	if !ok {
		notFound(w, "tag not found")
		return
	}

	var req reportDamagedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "request body is required")
		return
	}

	rec, err := s.lifecycle.ReportDamaged(r.Context(), id, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			validationFailed(w, err)
		case errors.Is(err, domain.ErrNotFound):
			notFound(w, "tag not found")
		case errors.Is(err, domain.ErrNoOp):
			conflict(w, "conflict", err)
		default:
			s.serverError(w, r, err)
		}
		return
	}

	s.log.InfoContext(r.Context(), "tag reported damaged", "tag_id", rec.ID, "reason", req.Reason)
	writeJSON(w, http.StatusOK, rec)
}

// ReportMissing handles POST /tags/{id}/missing — the escalation signal that
// marks a tag as gone entirely.
func (s *Server) ReportMissing(w http.ResponseWriter, r *http.Request) {
	id, ok := tagIDParam(r)
	if !ok {
		notFound(w, "tag not found")
		return
	}

	rec, err := s.lifecycle.ReportMissing(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			notFound(w, "tag not found")
		case errors.Is(err, domain.ErrNoOp):
			conflict(w, "conflict", err)
		default:
			s.serverError(w, r, err)
		}
		return
	}

	s.log.InfoContext(r.Context(), "tag reported missing", "tag_id", rec.ID)
	writeJSON(w, http.StatusOK, rec)
}

// PrintTag handles POST /tags/{id}/print.
// For an active or replaced tag this refreshes last_printed; for a damaged
// or missing one it performs the replacement.
func (s *Server) PrintTag(w http.ResponseWriter, r *http.Request) {
	id, ok := tagIDParam(r)
	if !ok {
		notFound(w, "tag not found")
		return
	}

	rec, err := s.lifecycle.Print(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "tag not found")
			return
		}
		s.serverError(w, r, err)
		return
	}

	s.log.InfoContext(r.Context(), "tag printed", "tag_id", rec.ID, "status", rec.Status)
	writeJSON(w, http.StatusOK, rec)
}

// serverError logs an unexpected error and returns a generic 500 body.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.ErrorContext(r.Context(), "handler error", "method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}

// queryInt parses an optional integer query parameter, returning nil when
// the parameter is absent or malformed.
func queryInt(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// paginate slices recs to the requested page. Pages past the end yield an
// empty, non-nil slice.
func paginate(recs []domain.TagRecord, p domain.PaginationParams) []domain.TagRecord {
	start := p.Offset()
	if start >= len(recs) {
		return []domain.TagRecord{}
	}
	end := start + p.Limit
	if end > len(recs) {
		end = len(recs)
	}
	return recs[start:end]
}
