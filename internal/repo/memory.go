package repo

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mholtz/tagtrack/internal/domain"
)

// MemoryTagRepo is an in-memory TagRepo with the same contract as the
// Postgres implementation: one record per item, insertion-ordered List,
// copies on the way in and out so callers can never mutate stored state
// directly. Used by service unit tests and suitable for embedding the
// engine without a database.
type MemoryTagRepo struct {
	mu     sync.Mutex
	byID   map[uuid.UUID]domain.TagRecord
	byItem map[uuid.UUID]uuid.UUID // item id -> tag id
	order  []uuid.UUID             // insertion order for List
}

// NewMemoryTagRepo constructs an empty in-memory TagRepo.
func NewMemoryTagRepo() *MemoryTagRepo {
	return &MemoryTagRepo{
		byID:   make(map[uuid.UUID]domain.TagRecord),
		byItem: make(map[uuid.UUID]uuid.UUID),
	}
}

var _ TagRepo = (*MemoryTagRepo)(nil)

// Create stores a new record, generating an ID when the caller left it zero
// (mirroring the DB-generated primary key).
// Returns domain.ErrDuplicate if a record already exists for the same item.
func (r *MemoryTagRepo) Create(_ context.Context, rec domain.TagRecord) (domain.TagRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byItem[rec.Item.ItemID]; exists {
		return domain.TagRecord{}, fmt.Errorf("repo.MemoryTagRepo.Create: %w", domain.ErrDuplicate)
	}

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if _, exists := r.byID[rec.ID]; exists {
		return domain.TagRecord{}, fmt.Errorf("repo.MemoryTagRepo.Create: id collision: %w", domain.ErrDuplicate)
	}

	r.byID[rec.ID] = rec
	r.byItem[rec.Item.ItemID] = rec.ID
	r.order = append(r.order, rec.ID)
	return rec, nil
}

// GetByID returns the record with the given id.
// Returns domain.ErrNotFound if it does not exist.
func (r *MemoryTagRepo) GetByID(_ context.Context, id uuid.UUID) (domain.TagRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[id]
	if !ok {
		return domain.TagRecord{}, fmt.Errorf("repo.MemoryTagRepo.GetByID: %w", domain.ErrNotFound)
	}
	return rec, nil
}

// Update overwrites the mutable fields of an existing record.
// The item back-reference and AssignedAt are preserved from the stored copy,
// matching the Postgres implementation's SET clause.
func (r *MemoryTagRepo) Update(_ context.Context, rec domain.TagRecord) (domain.TagRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[rec.ID]
	if !ok {
		return domain.TagRecord{}, fmt.Errorf("repo.MemoryTagRepo.Update: %w", domain.ErrNotFound)
	}

	stored.Status = rec.Status
	stored.LastUpdated = rec.LastUpdated
	stored.LastPrinted = rec.LastPrinted
	r.byID[rec.ID] = stored
	return stored, nil
}

// List returns all records in insertion order. The returned slice is a fresh
// copy on every call — never a live view of internal state.
func (r *MemoryTagRepo) List(_ context.Context) ([]domain.TagRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	recs := make([]domain.TagRecord, 0, len(r.order))
	for _, id := range r.order {
		recs = append(recs, r.byID[id])
	}
	return recs, nil
}
