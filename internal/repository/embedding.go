package repository

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"settlr/internal/model"
)

// UpdateEmbedding updates the embedding vector for a property
func (r *PostgresRepository) UpdateEmbedding(ctx context.Context, propertyID string, embedding []float32) error {
	vec := pgvector.NewVector(embedding)
	query := `UPDATE properties SET embedding = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, vec, propertyID)
	if err != nil {
		return fmt.Errorf("failed to update embedding: %w", err)
	}
	return nil
}

// BatchUpdateEmbeddings updates embeddings for multiple properties in one transaction
func (r *PostgresRepository) BatchUpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string) {
	success := 0
	var errs []string

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		errs = append(errs, fmt.Sprintf("failed to start transaction: %v", err))
		return success, errs
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `UPDATE properties SET embedding = $1, updated_at = NOW() WHERE id = $2`)
	if err != nil {
		errs = append(errs, fmt.Sprintf("failed to prepare statement: %v", err))
		return success, errs
	}
	defer stmt.Close()

	for _, item := range items {
		vec := pgvector.NewVector(item.Embedding)
		res, err := stmt.ExecContext(ctx, vec, item.PropertyID)
		if err != nil {
			errs = append(errs, fmt.Sprintf("property %s: %v", item.PropertyID, err))
			continue
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			errs = append(errs, fmt.Sprintf("property %s: not found", item.PropertyID))
			continue
		}
		success++
	}

	if err := tx.Commit(); err != nil {
		errs = append(errs, fmt.Sprintf("failed to commit transaction: %v", err))
		return 0, errs
	}

	return success, errs
}

// PropertiesMissingEmbedding returns up to limit properties that have no vector yet, oldest first
func (r *PostgresRepository) PropertiesMissingEmbedding(ctx context.Context, limit int) ([]model.Property, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM properties
		WHERE embedding IS NULL
		ORDER BY created_at ASC
		LIMIT $1
	`, propertyColumns)

	properties := []model.Property{}
	if err := r.db.SelectContext(ctx, &properties, query, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch properties without embedding: %w", err)
	}
	return properties, nil
}

// SimilarProperties returns the verified listings closest to the given one by
// cosine distance. Empty when the reference listing has no embedding.
func (r *PostgresRepository) SimilarProperties(ctx context.Context, propertyID string, limit int) ([]model.Property, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM properties
		WHERE id <> $1
			AND embedding IS NOT NULL
			AND listing_status = 'Verified'
			AND EXISTS (SELECT 1 FROM properties WHERE id = $1 AND embedding IS NOT NULL)
		ORDER BY embedding <=> (SELECT embedding FROM properties WHERE id = $1)
		LIMIT $2
	`, propertyColumns)

	properties := []model.Property{}
	if err := r.db.SelectContext(ctx, &properties, query, propertyID, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch similar properties: %w", err)
	}
	return properties, nil
}
