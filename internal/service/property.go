package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"settlr/internal/model"
	"settlr/internal/repository"
	"settlr/internal/utils"
)

const defaultSimilarLimit = 6

// PropertyRepository is the listing storage the property service needs
type PropertyRepository interface {
	CreateProperty(ctx context.Context, p *model.Property) error
	UpdateProperty(ctx context.Context, id, ownerID string, p *model.Property) (*model.Property, error)
	DeleteProperty(ctx context.Context, id, ownerID string) (bool, error)
	SetListingStatus(ctx context.Context, id string, status model.ListingStatus) (bool, error)
	ListProperties(ctx context.Context, pred repository.Predicate) ([]model.Property, error)
	GetPropertyByID(ctx context.Context, id string) (*model.Property, error)
	SimilarProperties(ctx context.Context, propertyID string, limit int) ([]model.Property, error)
}

// PropertyService manages listings on behalf of owners
type PropertyService struct {
	repo PropertyRepository
}

// NewPropertyService creates a new property service
func NewPropertyService(repo PropertyRepository) *PropertyService {
	return &PropertyService{repo: repo}
}

// CreateListing stores a new listing owned by the caller. Owner contact
// fields default to the identity, amenities are canonicalized and the
// listing always starts out Pending.
func (s *PropertyService) CreateListing(ctx context.Context, owner *model.Identity, p *model.Property) (*model.Property, error) {
	if err := validateListing(p); err != nil {
		return nil, err
	}

	p.ID = ""
	p.OwnerID = owner.SubjectID
	if p.OwnerName == nil || strings.TrimSpace(*p.OwnerName) == "" {
		name := owner.Name
		p.OwnerName = &name
	}
	if p.OwnerPhone == nil && owner.Phone != nil {
		p.OwnerPhone = owner.Phone
	}
	p.Amenities = pq.StringArray(utils.CanonicalAmenities(p.Amenities))
	p.Verification = model.Verification{ListingStatus: model.ListingPending}

	if err := s.repo.CreateProperty(ctx, p); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"propertyId": p.ID,
		"ownerId":    p.OwnerID,
	}).Info("🏠 Listing created")
	return p, nil
}

// UpdateListing replaces the editable fields of one of the caller's listings
func (s *PropertyService) UpdateListing(ctx context.Context, owner *model.Identity, id string, p *model.Property) (*model.Property, error) {
	if err := validateListing(p); err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, owner, id); err != nil {
		return nil, err
	}

	p.Amenities = pq.StringArray(utils.CanonicalAmenities(p.Amenities))

	updated, err := s.repo.UpdateProperty(ctx, id, owner.SubjectID, p)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// DeleteListing removes one of the caller's listings
func (s *PropertyService) DeleteListing(ctx context.Context, owner *model.Identity, id string) error {
	if err := s.checkOwner(ctx, owner, id); err != nil {
		return err
	}

	deleted, err := s.repo.DeleteProperty(ctx, id, owner.SubjectID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// SetStatus moves a listing through moderation
func (s *PropertyService) SetStatus(ctx context.Context, id string, status model.ListingStatus) error {
	switch status {
	case model.ListingPending, model.ListingVerified, model.ListingFlagged:
	default:
		return fmt.Errorf("%w: unknown listing status %q", ErrMalformedInput, status)
	}

	ok, err := s.repo.SetListingStatus(ctx, id, status)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// ListVerified returns every verified listing, newest first
func (s *PropertyService) ListVerified(ctx context.Context) ([]model.Property, error) {
	return s.repo.ListProperties(ctx, repository.BuildSearchQuery(nil, false))
}

// ListByCity returns verified listings whose city contains the given name
func (s *PropertyService) ListByCity(ctx context.Context, city string) ([]model.Property, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, fmt.Errorf("%w: city is required", ErrMalformedInput)
	}
	return s.repo.ListProperties(ctx, repository.BuildSearchQuery(&model.SearchFilters{Cities: []string{city}}, false))
}

// ListByOwner returns every listing of an owner regardless of status
func (s *PropertyService) ListByOwner(ctx context.Context, ownerID string) ([]model.Property, error) {
	var pred repository.Predicate
	pred.And("owner_id = ?", ownerID)
	return s.repo.ListProperties(ctx, pred)
}

// GetProperty returns a listing or ErrNotFound
func (s *PropertyService) GetProperty(ctx context.Context, id string) (*model.Property, error) {
	p, err := s.repo.GetPropertyByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// Similar returns verified listings nearest to the given one in embedding space
func (s *PropertyService) Similar(ctx context.Context, id string, limit int) ([]model.Property, error) {
	if _, err := s.GetProperty(ctx, id); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultSimilarLimit
	}
	return s.repo.SimilarProperties(ctx, id, limit)
}

func (s *PropertyService) checkOwner(ctx context.Context, owner *model.Identity, id string) error {
	existing, err := s.GetProperty(ctx, id)
	if err != nil {
		return err
	}
	if existing.OwnerID != owner.SubjectID {
		return ErrForbidden
	}
	return nil
}

func validateListing(p *model.Property) error {
	if p == nil {
		return fmt.Errorf("%w: listing body is required", ErrMalformedInput)
	}
	if p.Title == nil || strings.TrimSpace(*p.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrMalformedInput)
	}
	if p.Pricing.Rent != nil && *p.Pricing.Rent < 0 {
		return fmt.Errorf("%w: rent must be non-negative", ErrMalformedInput)
	}
	if p.Pricing.Deposit != nil && *p.Pricing.Deposit < 0 {
		return fmt.Errorf("%w: deposit must be non-negative", ErrMalformedInput)
	}
	return nil
}
