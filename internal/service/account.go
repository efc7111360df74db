package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"settlr/internal/model"
)

// AccountRepository stores users and tenant profiles
type AccountRepository interface {
	UpsertUser(ctx context.Context, identity *model.Identity) (*model.User, error)
	GetUserByFirebaseUID(ctx context.Context, uid string) (*model.User, error)
	UpsertTenantProfile(ctx context.Context, p *model.TenantProfile) (*model.TenantProfile, error)
	GetTenantProfile(ctx context.Context, userID string) (*model.TenantProfile, error)
}

// AccountService keeps local accounts in step with verified identities
type AccountService struct {
	repo AccountRepository
}

// NewAccountService creates a new account service
func NewAccountService(repo AccountRepository) *AccountService {
	return &AccountService{repo: repo}
}

// EnsureUser returns the account for a verified identity, creating it on first login
func (s *AccountService) EnsureUser(ctx context.Context, identity *model.Identity) (*model.User, error) {
	user, err := s.repo.UpsertUser(ctx, identity)
	if err != nil {
		return nil, err
	}
	logrus.WithField("uid", identity.SubjectID).Debug("[DEBUG] 👤 User synced")
	return user, nil
}

// GetTenantProfile returns the caller's profile or ErrNotFound
func (s *AccountService) GetTenantProfile(ctx context.Context, user *model.User) (*model.TenantProfile, error) {
	profile, err := s.repo.GetTenantProfile(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrNotFound
	}
	return profile, nil
}

// SaveTenantProfile creates or replaces the caller's profile
func (s *AccountService) SaveTenantProfile(
	ctx context.Context,
	user *model.User,
	req *model.TenantProfileRequest,
) (*model.TenantProfile, error) {
	profile := &model.TenantProfile{
		UserID:        user.ID,
		Age:           req.Age,
		Occupation:    req.Occupation,
		Organization:  trimmed(req.Organization),
		Budget:        req.Budget,
		PreferredCity: trimmed(req.PreferredCity),
	}
	return s.repo.UpsertTenantProfile(ctx, profile)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
