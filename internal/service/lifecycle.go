// Package service implements the business rules of the tagtrack engine.
// Repos persist, handlers translate HTTP; every guard and state transition
// lives here.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mholtz/tagtrack/internal/domain"
	"github.com/mholtz/tagtrack/internal/repo"
)

// LifecycleService owns every status transition a tag record can undergo.
// All guards run before any write: a rejected command never touches
// LastUpdated or LastPrinted.
//
// Printing is deliberately overloaded. For an active tag it is a benign
// re-label; for a damaged or missing tag the act of printing IS the
// remediation, so Print moves those to replaced. The operator always presses
// one print action and the system infers intent from prior condition.
type LifecycleService struct {
	tags repo.TagRepo
	now  func() time.Time
}

// NewLifecycleService constructs a LifecycleService backed by the provided repo.
func NewLifecycleService(tags repo.TagRepo) *LifecycleService {
	return &LifecycleService{tags: tags, now: time.Now}
}

// WithClock overrides the time source. Tests use this to pin timestamps.
func (s *LifecycleService) WithClock(now func() time.Time) *LifecycleService {
	s.now = now
	return s
}

// ReportDamaged marks a tag as damaged and stamps LastUpdated.
// The reason is required for the audit trail; a blank reason is rejected with
// domain.ErrValidation before the record is even read.
// Reporting an already-damaged tag returns domain.ErrNoOp so duplicate
// reports are visible to the caller instead of silently accepted.
func (s *LifecycleService) ReportDamaged(ctx context.Context, id uuid.UUID, reason string) (domain.TagRecord, error) {
	if strings.TrimSpace(reason) == "" {
		return domain.TagRecord{}, fmt.Errorf("%w: reason is required", domain.ErrValidation)
	}

	rec, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return domain.TagRecord{}, fmt.Errorf("service.LifecycleService.ReportDamaged: %w", err)
	}
	if rec.Status == domain.StatusDamaged {
		return domain.TagRecord{}, fmt.Errorf("service.LifecycleService.ReportDamaged: already damaged: %w", domain.ErrNoOp)
	}

	rec.Status = domain.StatusDamaged
	rec.LastUpdated = s.now()

	updated, err := s.tags.Update(ctx, rec)
	if err != nil {
		return domain.TagRecord{}, fmt.Errorf("service.LifecycleService.ReportDamaged: %w", err)
	}
	return updated, nil
}

// ReportMissing marks a tag as missing. This is the ingestion point for the
// external escalation signal — once missing, the tag is remediated by Print
// exactly like a damaged one.
// Returns domain.ErrNoOp if the tag is already missing.
func (s *LifecycleService) ReportMissing(ctx context.Context, id uuid.UUID) (domain.TagRecord, error) {
	rec, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return domain.TagRecord{}, fmt.Errorf("service.LifecycleService.ReportMissing: %w", err)
	}
	if rec.Status == domain.StatusMissing {
		return domain.TagRecord{}, fmt.Errorf("service.LifecycleService.ReportMissing: already missing: %w", domain.ErrNoOp)
	}

	rec.Status = domain.StatusMissing
	rec.LastUpdated = s.now()

	updated, err := s.tags.Update(ctx, rec)
	if err != nil {
		return domain.TagRecord{}, fmt.Errorf("service.LifecycleService.ReportMissing: %w", err)
	}
	return updated, nil
}

// Print applies the print/replace transition:
//
//	active   -> active   (re-label; LastPrinted refreshed, status untouched)
//	damaged  -> replaced (LastPrinted and LastUpdated set to the same instant)
//	missing  -> replaced (same as damaged)
//	replaced -> replaced (re-print; LastPrinted refreshed, status untouched)
//
// Print never fails a guard — every status accepts it — so batch remediation
// can apply it blindly to whatever its predicate selected.
func (s *LifecycleService) Print(ctx context.Context, id uuid.UUID) (domain.TagRecord, error) {
	rec, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return domain.TagRecord{}, fmt.Errorf("service.LifecycleService.Print: %w", err)
	}

	now := s.now()
	rec.LastPrinted = &now
	if rec.Status == domain.StatusDamaged || rec.Status == domain.StatusMissing {
		rec.Status = domain.StatusReplaced
		rec.LastUpdated = now
	}

	updated, err := s.tags.Update(ctx, rec)
	if err != nil {
		return domain.TagRecord{}, fmt.Errorf("service.LifecycleService.Print: %w", err)
	}
	return updated, nil
}

// GetByID returns a single tag record by ID.
// Returns domain.ErrNotFound if no record with that ID exists.
func (s *LifecycleService) GetByID(ctx context.Context, id uuid.UUID) (domain.TagRecord, error) {
	rec, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return domain.TagRecord{}, fmt.Errorf("service.LifecycleService.GetByID: %w", err)
	}
	return rec, nil
}
