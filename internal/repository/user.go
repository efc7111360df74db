package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"settlr/internal/model"
)

const userColumns = `id, firebase_uid, name, email, profile_pic, role, phone,
	google_verified, phone_provided, created_at, updated_at`

const tenantProfileColumns = `user_id, age, occupation, organization, budget,
	preferred_city, created_at, updated_at`

// UpsertUser creates the account for a verified identity on first sight and
// returns the stored record. Existing accounts are left untouched.
func (r *PostgresRepository) UpsertUser(ctx context.Context, identity *model.Identity) (*model.User, error) {
	name := identity.Name
	if name == "" {
		name = "User"
	}

	// DO UPDATE on a no-op column so RETURNING yields the existing row too
	query := fmt.Sprintf(`
		INSERT INTO users (firebase_uid, name, email, profile_pic, phone, google_verified, phone_provided)
		VALUES ($1, $2, $3, $4, $5, true, $6)
		ON CONFLICT (firebase_uid) DO UPDATE SET firebase_uid = EXCLUDED.firebase_uid
		RETURNING %s
	`, userColumns)

	var user model.User
	err := r.db.GetContext(ctx, &user, query,
		identity.SubjectID, name, identity.Email, identity.ProfilePic, identity.Phone, identity.Phone != nil)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return &user, nil
}

// GetUserByFirebaseUID returns nil when the account does not exist
func (r *PostgresRepository) GetUserByFirebaseUID(ctx context.Context, uid string) (*model.User, error) {
	var user model.User
	query := fmt.Sprintf(`SELECT %s FROM users WHERE firebase_uid = $1`, userColumns)
	if err := r.db.GetContext(ctx, &user, query, uid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// UpsertTenantProfile creates or replaces the tenant profile of a user
func (r *PostgresRepository) UpsertTenantProfile(ctx context.Context, p *model.TenantProfile) (*model.TenantProfile, error) {
	query := fmt.Sprintf(`
		INSERT INTO tenant_profiles (user_id, age, occupation, organization, budget, preferred_city)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			age = EXCLUDED.age,
			occupation = EXCLUDED.occupation,
			organization = EXCLUDED.organization,
			budget = EXCLUDED.budget,
			preferred_city = EXCLUDED.preferred_city,
			updated_at = NOW()
		RETURNING %s
	`, tenantProfileColumns)

	var saved model.TenantProfile
	err := r.db.GetContext(ctx, &saved, query,
		p.UserID, p.Age, p.Occupation, p.Organization, p.Budget, p.PreferredCity)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert tenant profile: %w", err)
	}
	return &saved, nil
}

// GetTenantProfile returns nil when the user has no profile yet
func (r *PostgresRepository) GetTenantProfile(ctx context.Context, userID string) (*model.TenantProfile, error) {
	var profile model.TenantProfile
	query := fmt.Sprintf(`SELECT %s FROM tenant_profiles WHERE user_id = $1`, tenantProfileColumns)
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tenant profile: %w", err)
	}
	return &profile, nil
}
