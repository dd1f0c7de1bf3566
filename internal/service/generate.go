package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mholtz/tagtrack/internal/domain"
	"github.com/mholtz/tagtrack/internal/repo"
)

// GenerateService issues new tag records for newly registered equipment.
// It guards against duplicate issuance (one live tag per item, enforced by
// the repo) but does not validate the item reference itself — whether the
// item exists is the equipment subsystem's concern.
type GenerateService struct {
	tags repo.TagRepo
	now  func() time.Time
}

// NewGenerateService constructs a GenerateService backed by the provided repo.
func NewGenerateService(tags repo.TagRepo) *GenerateService {
	return &GenerateService{tags: tags, now: time.Now}
}

// WithClock overrides the time source. Tests use this to pin timestamps.
func (s *GenerateService) WithClock(now func() time.Time) *GenerateService {
	s.now = now
	return s
}

// Generate creates a tag record in the active state for the given item.
// Issuing a tag prints it, so AssignedAt, LastUpdated, and LastPrinted all
// start at the same instant.
// Returns domain.ErrValidation if the item reference carries no ID (the one
// structural check needed to key uniqueness) and domain.ErrDuplicate if a
// record already exists for the item.
func (s *GenerateService) Generate(ctx context.Context, item domain.ItemRef) (domain.TagRecord, error) {
	if item.ItemID == uuid.Nil {
		return domain.TagRecord{}, fmt.Errorf("%w: item id is required", domain.ErrValidation)
	}

	now := s.now()
	rec := domain.TagRecord{
		Item:        item,
		Status:      domain.StatusActive,
		AssignedAt:  now,
		LastUpdated: now,
		LastPrinted: &now,
	}

	created, err := s.tags.Create(ctx, rec)
	if err != nil {
		return domain.TagRecord{}, fmt.Errorf("service.GenerateService.Generate: %w", err)
	}
	return created, nil
}
