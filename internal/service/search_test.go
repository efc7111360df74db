package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"settlr/internal/config"
	"settlr/internal/model"
	"settlr/internal/repository"
)

// fakeSearchRepo serves pages out of an in-memory slice
type fakeSearchRepo struct {
	properties []model.Property
	err        error

	lastPred  repository.Predicate
	lastSort  model.SortOrder
	lastLimit int
	lastSkip  int

	logged      chan *model.SearchLog
	feedbackHit bool
}

func newFakeSearchRepo(n int) *fakeSearchRepo {
	repo := &fakeSearchRepo{logged: make(chan *model.SearchLog, 4)}
	for i := 0; i < n; i++ {
		repo.properties = append(repo.properties, model.Property{
			ID:        fmt.Sprintf("p-%02d", i),
			Title:     ptr(fmt.Sprintf("Listing %d", i)),
			CreatedAt: time.Now().Add(-time.Duration(i) * time.Hour),
		})
	}
	return repo
}

func (f *fakeSearchRepo) SearchProperties(
	_ context.Context,
	pred repository.Predicate,
	sort model.SortOrder,
	limit, offset int,
) ([]model.Property, int, error) {
	f.lastPred, f.lastSort, f.lastLimit, f.lastSkip = pred, sort, limit, offset
	if f.err != nil {
		return nil, 0, f.err
	}
	if offset >= len(f.properties) {
		return []model.Property{}, len(f.properties), nil
	}
	end := offset + limit
	if end > len(f.properties) {
		end = len(f.properties)
	}
	return f.properties[offset:end], len(f.properties), nil
}

func (f *fakeSearchRepo) LogSearch(_ context.Context, entry *model.SearchLog) error {
	f.logged <- entry
	return nil
}

func (f *fakeSearchRepo) LogFeedback(_ context.Context, _, _, _ string) (bool, error) {
	return f.feedbackHit, nil
}

func (f *fakeSearchRepo) BatchUpdateEmbeddings(_ context.Context, items []model.EmbeddingItem) (int, []string) {
	return len(items), nil
}

var testSearchConfig = config.SearchConfig{DefaultLimit: 20, MaxLimit: 100, ChatPageSize: 10}

func newTestSearchService(repo *fakeSearchRepo) *SearchService {
	return NewSearchService(repo, newTestRanker(), testSearchConfig)
}

func TestSearchProperties_HasMore(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		wantCount int
		wantMore  bool
	}{
		{"more pages remain", 25, 10, true},
		{"last partial page", 15, 5, false},
		{"exact end", 20, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestSearchService(newFakeSearchRepo(tt.total))

			result, err := svc.SearchProperties(context.Background(), &model.SearchFilters{},
				model.SearchOptions{Limit: 10, Skip: 10})
			require.NoError(t, err)

			assert.Len(t, result.Properties, tt.wantCount)
			assert.Equal(t, tt.total, result.Total)
			assert.Equal(t, tt.wantMore, result.HasMore)
		})
	}
}

func TestSearchProperties_DefaultsAndVisibility(t *testing.T) {
	repo := newFakeSearchRepo(3)
	svc := newTestSearchService(repo)

	_, err := svc.SearchProperties(context.Background(), nil, model.SearchOptions{Skip: -5})
	require.NoError(t, err)

	assert.Equal(t, 20, repo.lastLimit)
	assert.Equal(t, 0, repo.lastSkip)
	assert.Contains(t, repo.lastPred.Where(), "listing_status")

	_, err = svc.SearchProperties(context.Background(), nil, model.SearchOptions{IncludeUnverified: true})
	require.NoError(t, err)
	assert.NotContains(t, repo.lastPred.Where(), "listing_status")
}

func TestSearchProperties_StorageFailure(t *testing.T) {
	repo := newFakeSearchRepo(0)
	repo.err = errors.New("connection refused")
	svc := newTestSearchService(repo)

	result, err := svc.SearchProperties(context.Background(), &model.SearchFilters{}, model.SearchOptions{Limit: 10})

	assert.Nil(t, result)
	var searchErr *SearchError
	require.ErrorAs(t, err, &searchErr)
	assert.Contains(t, searchErr.Error(), "connection refused")
}

func TestSearch_ExtractsMergesAndLogs(t *testing.T) {
	repo := newFakeSearchRepo(30)
	svc := newTestSearchService(repo)

	resp, err := svc.Search(context.Background(), &model.SearchRequest{
		Query:   "2 bhk in pune under 20k",
		Filters: &model.SearchFilters{Cities: []string{"Mumbai"}},
		Options: &model.SearchOptions{Limit: 500, Skip: 20},
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Criteria)
	assert.Equal(t, "Pune", *resp.Criteria.City)
	assert.Equal(t, []interface{}{"%Mumbai%", 20000.0, `\m2\s*bhk`, `\m2\s*bhk`}, repo.lastPred.Args[1:], "explicit city wins")

	assert.Equal(t, 100, resp.PageSize, "limit capped at max")
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 1, resp.TotalPages)
	assert.Len(t, resp.Results, 10)
	assert.False(t, resp.HasMore)
	assert.NotEmpty(t, resp.SearchID)

	select {
	case entry := <-repo.logged:
		assert.Equal(t, resp.SearchID, entry.SearchID)
		assert.Equal(t, 30, entry.ResultCount)
		assert.Len(t, entry.ReturnedProperties, 10)
	case <-time.After(time.Second):
		t.Fatal("search was not logged")
	}
}

func TestSearch_FiltersOnly(t *testing.T) {
	repo := newFakeSearchRepo(5)
	svc := newTestSearchService(repo)

	resp, err := svc.Search(context.Background(), &model.SearchRequest{
		Filters: &model.SearchFilters{BudgetMax: float64Ptr(15000)},
	})
	require.NoError(t, err)

	assert.Nil(t, resp.Criteria)
	assert.Equal(t, model.SortNewest, repo.lastSort)
	assert.Equal(t, 20, resp.PageSize)
	assert.Len(t, resp.Results, 5)
}

func TestLogFeedback_UnknownSearch(t *testing.T) {
	repo := newFakeSearchRepo(0)
	svc := newTestSearchService(repo)

	err := svc.LogFeedback(context.Background(), "missing", "p-1", "click")
	assert.ErrorIs(t, err, ErrNotFound)

	repo.feedbackHit = true
	assert.NoError(t, svc.LogFeedback(context.Background(), "found", "p-1", "click"))
}
