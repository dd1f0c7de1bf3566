package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/mholtz/tagtrack/internal/domain"
	"github.com/mholtz/tagtrack/internal/repo"
)

// SearchService derives filtered views of the tag store.
// Filtering runs here rather than in SQL so the contract is identical over
// the Postgres and in-memory repos: a fresh List per query, narrowed in
// memory, never cached.
type SearchService struct {
	tags repo.TagRepo
}

// NewSearchService constructs a SearchService backed by the provided repo.
func NewSearchService(tags repo.TagRepo) *SearchService {
	return &SearchService{tags: tags}
}

// StatusFilterAll is the statusFilter value that disables status filtering.
const StatusFilterAll = "all"

// Query returns all records whose item name or serial number contains text,
// case-insensitively. Empty text matches everything. The tag's own id is
// deliberately not matched — operators search by what is written on the
// equipment, not by an internal key.
//
// statusFilter narrows to exact status equality; "" and "all" pass through.
// An unknown status value is rejected with domain.ErrValidation.
//
// Ordering is the store's natural iteration order, never re-sorted by
// relevance. Always returns a non-nil slice.
func (s *SearchService) Query(ctx context.Context, text, statusFilter string) ([]domain.TagRecord, error) {
	var status domain.Status
	filterStatus := statusFilter != "" && statusFilter != StatusFilterAll
	if filterStatus {
		parsed, err := domain.ParseStatus(statusFilter)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	all, err := s.tags.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.SearchService.Query: %w", err)
	}

	needle := strings.ToLower(strings.TrimSpace(text))
	matched := []domain.TagRecord{}
	for _, rec := range all {
		if filterStatus && rec.Status != status {
			continue
		}
		if needle != "" && !matchesItem(rec.Item, needle) {
			continue
		}
		matched = append(matched, rec)
	}
	return matched, nil
}

// matchesItem reports whether needle (already lowercased) occurs in the
// item's name or serial number.
func matchesItem(item domain.ItemRef, needle string) bool {
	return strings.Contains(strings.ToLower(item.Name), needle) ||
		strings.Contains(strings.ToLower(item.SerialNumber), needle)
}
