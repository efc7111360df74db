package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"settlr/internal/config"
	"settlr/internal/model"
	"settlr/internal/repository"
)

const searchLogTimeout = 5 * time.Second

// SearchRepository is the storage the search service runs against
type SearchRepository interface {
	SearchProperties(ctx context.Context, pred repository.Predicate, sort model.SortOrder, limit, offset int) ([]model.Property, int, error)
	LogSearch(ctx context.Context, entry *model.SearchLog) error
	LogFeedback(ctx context.Context, searchID, propertyID, action string) (bool, error)
	BatchUpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string)
}

// SearchService handles search business logic
type SearchService struct {
	repo   SearchRepository
	ranker *Ranker
	cfg    config.SearchConfig
}

// NewSearchService creates a new search service
func NewSearchService(repo SearchRepository, ranker *Ranker, cfg config.SearchConfig) *SearchService {
	return &SearchService{
		repo:   repo,
		ranker: ranker,
		cfg:    cfg,
	}
}

// SearchProperties runs filters against storage and returns one page.
// Storage failures come back as *SearchError and no partial page.
func (s *SearchService) SearchProperties(
	ctx context.Context,
	filters *model.SearchFilters,
	opts model.SearchOptions,
) (*model.SearchResult, error) {
	if opts.Limit <= 0 {
		opts.Limit = s.cfg.DefaultLimit
	}
	if opts.Skip < 0 {
		opts.Skip = 0
	}

	pred := repository.BuildSearchQuery(filters, opts.IncludeUnverified)

	properties, total, err := s.repo.SearchProperties(ctx, pred, opts.Sort, opts.Limit, opts.Skip)
	if err != nil {
		return nil, &SearchError{Err: err}
	}

	return &model.SearchResult{
		Properties: properties,
		Total:      total,
		HasMore:    total > opts.Skip+len(properties),
	}, nil
}

// Search performs a complete search: extraction from the free-text query,
// merge with explicit filters, storage query and ranking
func (s *SearchService) Search(ctx context.Context, req *model.SearchRequest) (*model.SearchResponse, error) {
	startTime := time.Now()

	var criteria *model.SearchCriteria
	filters := &model.SearchFilters{}
	if strings.TrimSpace(req.Query) != "" {
		criteria = ExtractSearchCriteria(req.Query)
		filters = criteria.Filters()
	}
	filters = filters.Merge(req.Filters)

	opts := s.normalizeOptions(req.Options)

	result, err := s.SearchProperties(ctx, filters, opts)
	if err != nil {
		return nil, err
	}

	var results []model.PropertySearchResult
	if opts.Sort == model.SortRelevance {
		results = s.ranker.RankResults(result.Properties, filters)
	} else {
		results = s.ranker.ScoreResults(result.Properties, filters)
	}

	took := time.Since(startTime).Milliseconds()
	searchID := uuid.NewString()

	s.RecordSearch(&model.SearchLog{
		SearchID:           searchID,
		Query:              req.Query,
		Criteria:           criteria,
		ResultCount:        result.Total,
		ReturnedProperties: propertyIDs(result.Properties),
		ResponseTimeMs:     took,
	})

	return &model.SearchResponse{
		Results:    results,
		Total:      result.Total,
		Page:       opts.Skip/opts.Limit + 1,
		PageSize:   opts.Limit,
		TotalPages: (result.Total + opts.Limit - 1) / opts.Limit,
		HasMore:    result.HasMore,
		Criteria:   criteria,
		SearchID:   searchID,
		Took:       took,
	}, nil
}

// RecordSearch writes the search log in the background. Failures are only logged.
func (s *SearchService) RecordSearch(entry *model.SearchLog) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), searchLogTimeout)
		defer cancel()

		if err := s.repo.LogSearch(ctx, entry); err != nil {
			logrus.WithError(err).WithField("searchId", entry.SearchID).Warn("⚠️ Failed to log search")
		}
	}()
}

// LogFeedback records a user action against a logged search
func (s *SearchService) LogFeedback(ctx context.Context, searchID, propertyID, action string) error {
	found, err := s.repo.LogFeedback(ctx, searchID, propertyID, action)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

// UpdateEmbeddings updates embeddings for multiple properties
func (s *SearchService) UpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string) {
	return s.repo.BatchUpdateEmbeddings(ctx, items)
}

func (s *SearchService) normalizeOptions(options *model.SearchOptions) model.SearchOptions {
	if options == nil {
		return model.SearchOptions{
			Limit:             s.cfg.DefaultLimit,
			Sort:              model.SortNewest,
			IncludeUnverified: s.cfg.IncludeUnverified,
		}
	}

	opts := *options
	if opts.Limit <= 0 {
		opts.Limit = s.cfg.DefaultLimit
	}
	if opts.Limit > s.cfg.MaxLimit {
		opts.Limit = s.cfg.MaxLimit
	}
	if opts.Skip < 0 {
		opts.Skip = 0
	}
	if opts.Sort == "" {
		opts.Sort = model.SortNewest
	}
	return opts
}

func propertyIDs(properties []model.Property) []string {
	ids := make([]string, len(properties))
	for i, p := range properties {
		ids[i] = p.ID
	}
	return ids
}
