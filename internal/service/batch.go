package service

import (
	"context"
	"fmt"

	"github.com/mholtz/tagtrack/internal/domain"
	"github.com/mholtz/tagtrack/internal/repo"
)

// BatchService coordinates bulk remediation: it selects every record
// matching a predicate and prints each one in turn, so damaged and missing
// tags move to replaced as one logical unit of work.
//
// The selection is a snapshot taken from a single List call when the batch
// starts; records that change status while the batch runs are not
// re-selected. Records are processed strictly one at a time in the store's
// natural order, which is what makes the snapshot and continue-on-failure
// policies well-defined.
type BatchService struct {
	tags      repo.TagRepo
	lifecycle *LifecycleService
}

// NewBatchService constructs a BatchService. The lifecycle service performs
// the per-record transitions; the batch layer never mutates a record itself.
func NewBatchService(tags repo.TagRepo, lifecycle *LifecycleService) *BatchService {
	return &BatchService{tags: tags, lifecycle: lifecycle}
}

// ReplaceMatching prints every record matching pred, in store order.
//
// A failing record is captured in the result and the rest of the batch still
// runs — remediation covers potentially dozens of records unattended, and one
// corrupt record must not block accountability for the remainder. This is the
// only place in the engine where errors are deliberately swallowed, and they
// are swallowed into a structured report, not discarded.
//
// progress, if non-nil, is invoked with (processed, total) after each record
// completes, success or failure.
//
// Returns domain.ErrNothingToDo (with a zero result) when pred matches no
// records, so callers can present "nothing to replace" instead of an empty
// success.
func (s *BatchService) ReplaceMatching(ctx context.Context, pred func(domain.TagRecord) bool, progress domain.ProgressFunc) (domain.BatchResult, error) {
	all, err := s.tags.List(ctx)
	if err != nil {
		return domain.BatchResult{}, fmt.Errorf("service.BatchService.ReplaceMatching: %w", err)
	}

	selected := make([]domain.TagRecord, 0, len(all))
	for _, rec := range all {
		if pred(rec) {
			selected = append(selected, rec)
		}
	}
	if len(selected) == 0 {
		return domain.BatchResult{}, domain.ErrNothingToDo
	}

	var result domain.BatchResult
	total := len(selected)
	for i, rec := range selected {
		if _, err := s.lifecycle.Print(ctx, rec.ID); err != nil {
			result.Failed++
			result.Failures = append(result.Failures, domain.BatchFailure{ID: rec.ID, Err: err})
		} else {
			result.Succeeded++
		}
		if progress != nil {
			progress(i+1, total)
		}
	}
	return result, nil
}

// ReplaceByStatus is the common case: replace every record currently in the
// given status. The status string is validated before any store access.
func (s *BatchService) ReplaceByStatus(ctx context.Context, status string, progress domain.ProgressFunc) (domain.BatchResult, error) {
	st, err := domain.ParseStatus(status)
	if err != nil {
		return domain.BatchResult{}, err
	}
	return s.ReplaceMatching(ctx, func(rec domain.TagRecord) bool {
		return rec.Status == st
	}, progress)
}
