package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mholtz/tagtrack/internal/domain"
	"github.com/mholtz/tagtrack/internal/repo"
	"github.com/mholtz/tagtrack/internal/service"
)

// seedItem inserts an active record for an item with the given name and serial.
func seedItem(t *testing.T, tags *repo.MemoryTagRepo, name, serial string) domain.TagRecord {
	t.Helper()
	rec := recordFixture(domain.StatusActive)
	rec.Item.Name = name
	rec.Item.SerialNumber = serial
	created, err := tags.Create(context.Background(), rec)
	require.NoError(t, err)
	return created
}

func TestSearchService_Query_MatchesNameCaseInsensitively(t *testing.T) {
	tags := repo.NewMemoryTagRepo()
	svc := service.NewSearchService(tags)
	carbine := seedItem(t, tags, "M4A1 Carbine", "W123456")
	seedItem(t, tags, "Radio Set", "R998877")

	got, err := svc.Query(context.Background(), "m4", service.StatusFilterAll)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, carbine.ID, got[0].ID)
}

func TestSearchService_Query_MatchesSerialNumber(t *testing.T) {
	tags := repo.NewMemoryTagRepo()
	svc := service.NewSearchService(tags)
	radio := seedItem(t, tags, "Radio Set", "R998877")
	seedItem(t, tags, "M4A1 Carbine", "W123456")

	got, err := svc.Query(context.Background(), "r9988", "")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, radio.ID, got[0].ID)
}

func TestSearchService_Query_EmptyTextMatchesAll(t *testing.T) {
	tags := repo.NewMemoryTagRepo()
	svc := service.NewSearchService(tags)
	seedItem(t, tags, "M4A1 Carbine", "W123456")
	seedItem(t, tags, "Radio Set", "R998877")

	got, err := svc.Query(context.Background(), "", "all")

	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSearchService_Query_StatusFilter(t *testing.T) {
	tags := repo.NewMemoryTagRepo()
	svc := service.NewSearchService(tags)
	lifecycle := service.NewLifecycleService(tags).WithClock(fixedClock)

	seedItem(t, tags, "M4A1 Carbine", "W123456")
	radio := seedItem(t, tags, "Radio Set", "R998877")
	_, err := lifecycle.ReportDamaged(context.Background(), radio.ID, "sticker peeled")
	require.NoError(t, err)

	got, err := svc.Query(context.Background(), "", "damaged")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, radio.ID, got[0].ID)
}

func TestSearchService_Query_UnknownStatus(t *testing.T) {
	tags := repo.NewMemoryTagRepo()
	svc := service.NewSearchService(tags)

	_, err := svc.Query(context.Background(), "", "broken")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSearchService_Query_PreservesStoreOrder(t *testing.T) {
	tags := repo.NewMemoryTagRepo()
	svc := service.NewSearchService(tags)
	first := seedItem(t, tags, "Antenna Mast", "A000001")
	second := seedItem(t, tags, "Antenna Cable", "A000002")

	got, err := svc.Query(context.Background(), "antenna", "all")

	require.NoError(t, err)
	require.Len(t, got, 2)
	// Natural store order, never re-sorted by relevance.
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, second.ID, got[1].ID)
}

func TestSearchService_Query_NoMatches_ReturnsEmptyNonNil(t *testing.T) {
	tags := repo.NewMemoryTagRepo()
	svc := service.NewSearchService(tags)
	seedItem(t, tags, "M4A1 Carbine", "W123456")

	got, err := svc.Query(context.Background(), "zzz-no-match", "all")

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSearchService_Query_RepoError(t *testing.T) {
	listErr := errors.New("db exploded")
	r := &mockTagRepo{
		list: func(_ context.Context) ([]domain.TagRecord, error) {
			return nil, listErr
		},
	}
	svc := service.NewSearchService(r)

	_, err := svc.Query(context.Background(), "", "all")

	assert.ErrorIs(t, err, listErr)
}
