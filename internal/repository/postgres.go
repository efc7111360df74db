package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"settlr/internal/model"
)

// propertyColumns selects a properties row into model.Property. Nested
// structs are addressed with dotted aliases.
const propertyColumns = `
	id, owner_id, owner_name, owner_phone, title, property_type, city, address,
	latitude AS "location.latitude", longitude AS "location.longitude",
	room_type AS "property_details.room_type",
	furnishing AS "property_details.furnishing",
	available_from AS "property_details.available_from",
	preferred_tenant, preferred_gender,
	rent AS "pricing.rent", deposit AS "pricing.deposit",
	maintenance_type AS "pricing.maintenance.type",
	maintenance_amount AS "pricing.maintenance.amount",
	electricity AS "pricing.electricity", water AS "pricing.water",
	amenities, rules, images,
	images_verified AS "verification.images_verified",
	listing_status AS "verification.listing_status",
	description, created_at, updated_at`

// PostgresRepository handles database operations
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute) // Shorter lifetime to avoid stale connections
	db.SetConnMaxIdleTime(2 * time.Minute) // Close idle connections sooner

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// NewPostgresRepositoryWithDB wraps an existing handle
func NewPostgresRepositoryWithDB(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// Ping checks the database connection
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// SearchProperties counts every row matching the predicate, then fetches one page of them
func (r *PostgresRepository) SearchProperties(
	ctx context.Context,
	pred Predicate,
	sort model.SortOrder,
	limit, offset int,
) ([]model.Property, int, error) {
	whereClause := pred.Where()

	// Count total matching records
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM properties WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, pred.Args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count results: %w", err)
	}

	argIndex := len(pred.Args) + 1
	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM properties
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, propertyColumns, whereClause, OrderBy(sort), argIndex, argIndex+1)

	args := append(append([]interface{}{}, pred.Args...), limit, offset)

	properties := []model.Property{}
	if err := r.db.SelectContext(ctx, &properties, selectQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch properties: %w", err)
	}

	return properties, total, nil
}

// ListProperties returns every property matching the predicate, newest first
func (r *PostgresRepository) ListProperties(ctx context.Context, pred Predicate) ([]model.Property, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM properties
		WHERE %s
		ORDER BY created_at DESC
	`, propertyColumns, pred.Where())

	properties := []model.Property{}
	if err := r.db.SelectContext(ctx, &properties, query, pred.Args...); err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return properties, nil
}

// GetPropertyByID retrieves a single property by its ID, nil when absent
func (r *PostgresRepository) GetPropertyByID(ctx context.Context, id string) (*model.Property, error) {
	var property model.Property
	query := fmt.Sprintf(`SELECT %s FROM properties WHERE id = $1`, propertyColumns)
	err := r.db.GetContext(ctx, &property, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return &property, nil
}
