// Package handler implements the HTTP edge of the tagtrack service.
// All handlers are methods on Server. Methods are split into resource files
// (tag.go, batch.go, health.go) but share the same Server struct so they can
// access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mholtz/tagtrack/internal/domain"
)

// LifecycleServicer defines the single-record transition operations the
// handler depends on. Defining the interface here (in the consumer package)
// follows the Go convention: "accept interfaces, return concrete types". It
// lets handler tests inject a mock without touching the service layer.
type LifecycleServicer interface {
	ReportDamaged(ctx context.Context, id uuid.UUID, reason string) (domain.TagRecord, error)
	ReportMissing(ctx context.Context, id uuid.UUID) (domain.TagRecord, error)
	Print(ctx context.Context, id uuid.UUID) (domain.TagRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.TagRecord, error)
}

// GenerateServicer defines the tag issuance operation the handler depends on.
type GenerateServicer interface {
	Generate(ctx context.Context, item domain.ItemRef) (domain.TagRecord, error)
}

// BatchServicer defines the bulk remediation operation the handler depends on.
type BatchServicer interface {
	ReplaceByStatus(ctx context.Context, status string, progress domain.ProgressFunc) (domain.BatchResult, error)
}

// SearchServicer defines the filtered-view operation the handler depends on.
type SearchServicer interface {
	Query(ctx context.Context, text, statusFilter string) ([]domain.TagRecord, error)
}

// Server holds the handler dependencies for all API endpoints.
// Completed transitions are logged through log as structured events; that
// stream is the audit/notification feed consumed outside this service.
type Server struct {
	lifecycle LifecycleServicer
	generate  GenerateServicer
	batch     BatchServicer
	search    SearchServicer
	log       *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// Pass nil for services an embedding does not use; the corresponding routes
// will panic if hit, which is the correct failure for a miswired server.
func NewServer(lifecycle LifecycleServicer, generate GenerateServicer, batch BatchServicer, search SearchServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{lifecycle: lifecycle, generate: generate, batch: batch, search: search, log: log}
}

// Routes returns a router with every API endpoint registered.
// Mount it at the root of the application router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Route("/tags", func(r chi.Router) {
		r.Get("/", s.ListTags)
		r.Post("/", s.GenerateTag)
		r.Post("/replacements", s.BatchReplace)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetTag)
			r.Post("/damaged", s.ReportDamaged)
			r.Post("/missing", s.ReportMissing)
			r.Post("/print", s.PrintTag)
		})
	})
	return r
}

// tagIDParam parses the {id} path parameter. A malformed UUID is reported to
// the client as a not-found: the path names no record that can exist.
func tagIDParam(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}
