package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mholtz/tagtrack/internal/domain"
	"github.com/mholtz/tagtrack/internal/repo"
	"github.com/mholtz/tagtrack/internal/service"
)

// newBatchFixture wires a batch service over a memory repo with a pinned clock.
func newBatchFixture() (*repo.MemoryTagRepo, *service.BatchService) {
	tags := repo.NewMemoryTagRepo()
	lifecycle := service.NewLifecycleService(tags).WithClock(fixedClock)
	return tags, service.NewBatchService(tags, lifecycle)
}

func statusOf(t *testing.T, tags *repo.MemoryTagRepo, id uuid.UUID) domain.Status {
	t.Helper()
	rec, err := tags.GetByID(context.Background(), id)
	require.NoError(t, err)
	return rec.Status
}

func TestBatchService_ReplaceByStatus_ReplacesAllDamaged(t *testing.T) {
	tags, svc := newBatchFixture()
	a := seedRecord(t, tags, domain.StatusDamaged)
	b := seedRecord(t, tags, domain.StatusActive)
	c := seedRecord(t, tags, domain.StatusDamaged)

	result, err := svc.ReplaceByStatus(context.Background(), "damaged", nil)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, result.Failures)

	// A and C replaced with a fresh print; B untouched.
	assert.Equal(t, domain.StatusReplaced, statusOf(t, tags, a.ID))
	assert.Equal(t, domain.StatusReplaced, statusOf(t, tags, c.ID))
	assert.Equal(t, domain.StatusActive, statusOf(t, tags, b.ID))

	replaced, getErr := tags.GetByID(context.Background(), a.ID)
	require.NoError(t, getErr)
	require.NotNil(t, replaced.LastPrinted)
	assert.Equal(t, fixedNow, *replaced.LastPrinted)

	untouched, getErr := tags.GetByID(context.Background(), b.ID)
	require.NoError(t, getErr)
	assert.Equal(t, b, untouched)
}

func TestBatchService_ReplaceByStatus_ReplacesMissing(t *testing.T) {
	tags, svc := newBatchFixture()
	m := seedRecord(t, tags, domain.StatusMissing)

	result, err := svc.ReplaceByStatus(context.Background(), "missing", nil)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, domain.StatusReplaced, statusOf(t, tags, m.ID))
}

func TestBatchService_ReplaceByStatus_NothingToDo(t *testing.T) {
	tags, svc := newBatchFixture()
	seedRecord(t, tags, domain.StatusActive)
	seedRecord(t, tags, domain.StatusReplaced)

	result, err := svc.ReplaceByStatus(context.Background(), "damaged", nil)

	// Zero matches is a distinct outcome, not an empty success.
	assert.ErrorIs(t, err, domain.ErrNothingToDo)
	assert.Equal(t, 0, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
}

func TestBatchService_ReplaceByStatus_UnknownStatus(t *testing.T) {
	_, svc := newBatchFixture()

	_, err := svc.ReplaceByStatus(context.Background(), "broken", nil)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestBatchService_ReplaceByStatus_ReportsProgressPerRecord(t *testing.T) {
	tags, svc := newBatchFixture()
	for i := 0; i < 3; i++ {
		seedRecord(t, tags, domain.StatusDamaged)
	}

	var calls [][2]int
	progress := func(processed, total int) {
		calls = append(calls, [2]int{processed, total})
	}

	_, err := svc.ReplaceByStatus(context.Background(), "damaged", progress)

	require.NoError(t, err)
	// One call after each record, with a fixed total.
	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, calls)
}

func TestBatchService_ReplaceMatching_ContinuesPastFailures(t *testing.T) {
	// Three damaged records; updating the middle one fails. The batch must
	// capture the failure and still process the rest.
	recs := []domain.TagRecord{
		recordFixture(domain.StatusDamaged),
		recordFixture(domain.StatusDamaged),
		recordFixture(domain.StatusDamaged),
	}
	badID := recs[1].ID
	updateErr := errors.New("row lock timeout")

	byID := map[uuid.UUID]domain.TagRecord{}
	for _, r := range recs {
		byID[r.ID] = r
	}
	r := &mockTagRepo{
		list: func(_ context.Context) ([]domain.TagRecord, error) {
			return recs, nil
		},
		getByID: func(_ context.Context, id uuid.UUID) (domain.TagRecord, error) {
			return byID[id], nil
		},
		update: func(_ context.Context, rec domain.TagRecord) (domain.TagRecord, error) {
			if rec.ID == badID {
				return domain.TagRecord{}, updateErr
			}
			byID[rec.ID] = rec
			return rec, nil
		},
	}
	lifecycle := service.NewLifecycleService(r).WithClock(fixedClock)
	svc := service.NewBatchService(r, lifecycle)

	result, err := svc.ReplaceMatching(context.Background(), func(rec domain.TagRecord) bool {
		return rec.Status == domain.StatusDamaged
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, badID, result.Failures[0].ID)
	assert.ErrorIs(t, result.Failures[0].Err, updateErr)

	// The records around the failure were still replaced.
	assert.Equal(t, domain.StatusReplaced, byID[recs[0].ID].Status)
	assert.Equal(t, domain.StatusReplaced, byID[recs[2].ID].Status)
}

func TestBatchService_ReplaceMatching_SnapshotSelection(t *testing.T) {
	// The selection is taken once, up front: a List that would return
	// different records on a second call must not be re-consulted.
	damaged := recordFixture(domain.StatusDamaged)
	listCalls := 0
	r := &mockTagRepo{
		list: func(_ context.Context) ([]domain.TagRecord, error) {
			listCalls++
			return []domain.TagRecord{damaged}, nil
		},
		getByID: func(_ context.Context, _ uuid.UUID) (domain.TagRecord, error) {
			return damaged, nil
		},
		update: func(_ context.Context, rec domain.TagRecord) (domain.TagRecord, error) {
			return rec, nil
		},
	}
	lifecycle := service.NewLifecycleService(r).WithClock(fixedClock)
	svc := service.NewBatchService(r, lifecycle)

	result, err := svc.ReplaceMatching(context.Background(), func(rec domain.TagRecord) bool {
		return rec.Status == domain.StatusDamaged
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, listCalls, "selection must come from exactly one List call")
}

func TestBatchService_ReplaceMatching_ListError(t *testing.T) {
	listErr := errors.New("db exploded")
	r := &mockTagRepo{
		list: func(_ context.Context) ([]domain.TagRecord, error) {
			return nil, listErr
		},
	}
	lifecycle := service.NewLifecycleService(r).WithClock(fixedClock)
	svc := service.NewBatchService(r, lifecycle)

	_, err := svc.ReplaceMatching(context.Background(), func(domain.TagRecord) bool { return true }, nil)

	assert.ErrorIs(t, err, listErr)
}
