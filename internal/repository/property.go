package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"settlr/internal/model"
)

// listingArgs returns the owner-editable columns in the order used by the
// INSERT and UPDATE statements below
func listingArgs(p *model.Property) []interface{} {
	amenities := p.Amenities
	if amenities == nil {
		amenities = pq.StringArray{}
	}
	return []interface{}{
		p.Title, p.PropertyType, p.City, p.Address,
		p.Location.Latitude, p.Location.Longitude,
		p.PropertyDetails.RoomType, p.PropertyDetails.Furnishing, p.PropertyDetails.AvailableFrom,
		p.PreferredTenant, p.PreferredGender,
		p.Pricing.Rent, p.Pricing.Deposit,
		p.Pricing.Maintenance.Type, p.Pricing.Maintenance.Amount,
		p.Pricing.Electricity, p.Pricing.Water,
		amenities, p.Rules, p.Images, p.Description,
	}
}

// CreateProperty inserts a new listing and fills in its generated fields
func (r *PostgresRepository) CreateProperty(ctx context.Context, p *model.Property) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Verification.ListingStatus == "" {
		p.Verification.ListingStatus = model.ListingPending
	}

	query := `
		INSERT INTO properties (
			title, property_type, city, address, latitude, longitude,
			room_type, furnishing, available_from, preferred_tenant, preferred_gender,
			rent, deposit, maintenance_type, maintenance_amount, electricity, water,
			amenities, rules, images, description,
			id, owner_id, owner_name, owner_phone, images_verified, listing_status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23, $24, $25, $26, $27
		)
		RETURNING created_at, updated_at
	`
	args := append(listingArgs(p),
		p.ID, p.OwnerID, p.OwnerName, p.OwnerPhone,
		p.Verification.ImagesVerified, p.Verification.ListingStatus,
	)

	row := r.db.QueryRowxContext(ctx, query, args...)
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

// UpdateProperty replaces the owner-editable fields of a listing and sends it
// back to moderation. Returns nil when the listing does not exist or belongs
// to someone else.
func (r *PostgresRepository) UpdateProperty(ctx context.Context, id, ownerID string, p *model.Property) (*model.Property, error) {
	query := fmt.Sprintf(`
		UPDATE properties SET
			title = $1, property_type = $2, city = $3, address = $4,
			latitude = $5, longitude = $6,
			room_type = $7, furnishing = $8, available_from = $9,
			preferred_tenant = $10, preferred_gender = $11,
			rent = $12, deposit = $13, maintenance_type = $14, maintenance_amount = $15,
			electricity = $16, water = $17,
			amenities = $18, rules = $19, images = $20, description = $21,
			listing_status = 'Pending',
			updated_at = NOW()
		WHERE id = $22 AND owner_id = $23
		RETURNING %s
	`, propertyColumns)
	args := append(listingArgs(p), id, ownerID)

	var updated model.Property
	if err := r.db.GetContext(ctx, &updated, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update property: %w", err)
	}
	return &updated, nil
}

// DeleteProperty removes an owner's listing, reporting whether a row was deleted
func (r *PostgresRepository) DeleteProperty(ctx context.Context, id, ownerID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM properties WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete property: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete property: %w", err)
	}
	return n > 0, nil
}

// SetListingStatus moves a listing through moderation
func (r *PostgresRepository) SetListingStatus(ctx context.Context, id string, status model.ListingStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE properties SET listing_status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return false, fmt.Errorf("failed to set listing status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to set listing status: %w", err)
	}
	return n > 0, nil
}
