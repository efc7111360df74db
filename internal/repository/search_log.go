package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"settlr/internal/model"
)

// LogSearch logs a search query
func (r *PostgresRepository) LogSearch(ctx context.Context, entry *model.SearchLog) error {
	criteria, err := json.Marshal(entry.Criteria)
	if err != nil {
		return fmt.Errorf("failed to encode search criteria: %w", err)
	}

	logQuery := `
		INSERT INTO search_logs (search_id, query, criteria, result_count, returned_property_ids, response_time_ms)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = r.db.ExecContext(ctx, logQuery,
		entry.SearchID, entry.Query, string(criteria), entry.ResultCount,
		pq.Array(entry.ReturnedProperties), entry.ResponseTimeMs)
	if err != nil {
		return fmt.Errorf("failed to log search: %w", err)
	}
	return nil
}

// LogFeedback records a user action against a logged search. Returns false
// when the search id is unknown.
func (r *PostgresRepository) LogFeedback(ctx context.Context, searchID, propertyID, action string) (bool, error) {
	query := `
		UPDATE search_logs
		SET clicked_property_id = $2, action = $3
		WHERE search_id = $1
	`
	res, err := r.db.ExecContext(ctx, query, searchID, propertyID, action)
	if err != nil {
		return false, fmt.Errorf("failed to log feedback: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to log feedback: %w", err)
	}
	return n > 0, nil
}
