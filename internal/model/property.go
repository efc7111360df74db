package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// PropertyType is the kind of rental unit
type PropertyType string

const (
	PropertyTypePG              PropertyType = "PG"
	PropertyTypeSharedFlat      PropertyType = "Shared Flat"
	PropertyTypeRentedApartment PropertyType = "Rented Apartment"
)

// Furnishing describes how furnished a unit is
type Furnishing string

const (
	FurnishingFully Furnishing = "Fully Furnished"
	FurnishingSemi  Furnishing = "Semi Furnished"
	FurnishingNone  Furnishing = "Unfurnished"
)

// TenantType is the kind of tenant an owner prefers
type TenantType string

const (
	TenantStudent      TenantType = "Student"
	TenantProfessional TenantType = "Working Professional"
	TenantFamily       TenantType = "Family"
	TenantAnyone       TenantType = "Anyone"
)

// Gender preference of a listing
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderAny    Gender = "Any"
)

// ListingStatus is the moderation state of a listing
type ListingStatus string

const (
	ListingPending  ListingStatus = "Pending"
	ListingVerified ListingStatus = "Verified"
	ListingFlagged  ListingStatus = "Flagged"
)

// Property represents a rental listing
type Property struct {
	ID              string          `json:"id" db:"id"`
	OwnerID         string          `json:"ownerId" db:"owner_id"`
	OwnerName       *string         `json:"ownerName,omitempty" db:"owner_name"`
	OwnerPhone      *string         `json:"ownerPhone,omitempty" db:"owner_phone"`
	Title           *string         `json:"title,omitempty" db:"title"`
	PropertyType    *PropertyType   `json:"propertyType,omitempty" db:"property_type"`
	City            *string         `json:"city,omitempty" db:"city"`
	Address         *string         `json:"address,omitempty" db:"address"`
	Location        GeoPoint        `json:"location" db:"location"`
	PropertyDetails PropertyDetails `json:"propertyDetails" db:"property_details"`
	PreferredTenant *TenantType     `json:"preferredTenant,omitempty" db:"preferred_tenant"`
	PreferredGender *Gender         `json:"preferredGender,omitempty" db:"preferred_gender"`
	Pricing         Pricing         `json:"pricing" db:"pricing"`
	Amenities       pq.StringArray  `json:"amenities" db:"amenities"`
	Rules           PropertyRules   `json:"rules" db:"rules"`
	Images          PropertyImages  `json:"images" db:"images"`
	Verification    Verification    `json:"verification" db:"verification"`
	Description     *string         `json:"description,omitempty" db:"description"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
}

// GeoPoint is a WGS84 coordinate pair
type GeoPoint struct {
	Latitude  *float64 `json:"latitude,omitempty" db:"latitude"`
	Longitude *float64 `json:"longitude,omitempty" db:"longitude"`
}

// PropertyDetails groups unit layout fields
type PropertyDetails struct {
	RoomType      *string     `json:"roomType,omitempty" db:"room_type"`
	Furnishing    *Furnishing `json:"furnishing,omitempty" db:"furnishing"`
	AvailableFrom *time.Time  `json:"availableFrom,omitempty" db:"available_from"`
}

// Pricing groups all monetary fields, amounts in rupees
type Pricing struct {
	Rent        *float64    `json:"rent,omitempty" db:"rent"`
	Deposit     *float64    `json:"deposit,omitempty" db:"deposit"`
	Maintenance Maintenance `json:"maintenance" db:"maintenance"`
	Electricity *string     `json:"electricity,omitempty" db:"electricity"`
	Water       *string     `json:"water,omitempty" db:"water"`
}

// Maintenance charge, e.g. {"Monthly", 1500}
type Maintenance struct {
	Type   *string  `json:"type,omitempty" db:"type"`
	Amount *float64 `json:"amount,omitempty" db:"amount"`
}

// Verification holds moderation flags
type Verification struct {
	ImagesVerified bool          `json:"imagesVerified" db:"images_verified"`
	ListingStatus  ListingStatus `json:"listingStatus" db:"listing_status"`
}

// PropertySearchResult represents a search result with ranking metadata
type PropertySearchResult struct {
	Property
	Score          float64  `json:"score"`
	MatchedReasons []string `json:"matchedReasons"`
}

// PropertyRules are house rules stored as a JSONB object
type PropertyRules struct {
	Smoking    bool   `json:"smoking"`
	Alcohol    bool   `json:"alcohol"`
	Pets       bool   `json:"pets"`
	Visitors   bool   `json:"visitors"`
	CurfewNote string `json:"curfewNote,omitempty"`
}

// Value implements driver.Valuer interface
func (r PropertyRules) Value() (driver.Value, error) {
	return marshalJSONB(r)
}

// Scan implements sql.Scanner interface
func (r *PropertyRules) Scan(value interface{}) error {
	if value == nil {
		*r = PropertyRules{}
		return nil
	}
	return unmarshalJSONB(value, r)
}

// PropertyImage is an uploaded photo with its perceptual hash
type PropertyImage struct {
	URL  string `json:"url"`
	Hash string `json:"hash,omitempty"`
}

// PropertyImages represents a JSONB array of images
type PropertyImages []PropertyImage

// Value implements driver.Valuer interface
func (p PropertyImages) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return marshalJSONB(p)
}

// Scan implements sql.Scanner interface
func (p *PropertyImages) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}
	return unmarshalJSONB(value, p)
}

func marshalJSONB(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func unmarshalJSONB(value interface{}, dest interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported JSONB source type %T", value)
	}
}
