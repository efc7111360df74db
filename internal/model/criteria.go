package model

import "time"

// SearchCriteria is what the extractor pulls out of a single utterance.
// A nil field means the utterance did not mention it.
type SearchCriteria struct {
	City            *string       `json:"city,omitempty"`
	BudgetMin       *float64      `json:"budgetMin,omitempty"`
	BudgetMax       *float64      `json:"budgetMax,omitempty"`
	BHK             *string       `json:"bhk,omitempty"`
	PropertyType    *PropertyType `json:"propertyType,omitempty"`
	Furnishing      *Furnishing   `json:"furnishing,omitempty"`
	Amenities       []string      `json:"amenities,omitempty"`
	PreferredTenant *TenantType   `json:"preferredTenant,omitempty"`
}

// HasIntent reports whether any field was extracted
func (c *SearchCriteria) HasIntent() bool {
	if c == nil {
		return false
	}
	return c.City != nil ||
		c.BudgetMin != nil ||
		c.BudgetMax != nil ||
		c.BHK != nil ||
		c.PropertyType != nil ||
		c.Furnishing != nil ||
		len(c.Amenities) > 0 ||
		c.PreferredTenant != nil
}

// Filters converts criteria into query builder input
func (c *SearchCriteria) Filters() *SearchFilters {
	f := &SearchFilters{}
	if c == nil {
		return f
	}
	if c.City != nil {
		f.Cities = []string{*c.City}
	}
	f.BudgetMin = c.BudgetMin
	f.BudgetMax = c.BudgetMax
	f.BHK = c.BHK
	if c.PropertyType != nil {
		f.PropertyTypes = []PropertyType{*c.PropertyType}
	}
	if c.Furnishing != nil {
		f.Furnishings = []Furnishing{*c.Furnishing}
	}
	if c.PreferredTenant != nil {
		f.PreferredTenants = []TenantType{*c.PreferredTenant}
	}
	if len(c.Amenities) > 0 {
		f.Amenities = append([]string(nil), c.Amenities...)
	}
	return f
}

// SearchFilters represents structured search filters. List fields are any-of.
type SearchFilters struct {
	Cities           []string       `json:"cities,omitempty"`
	BudgetMin        *float64       `json:"budgetMin,omitempty"`
	BudgetMax        *float64       `json:"budgetMax,omitempty"`
	BHK              *string        `json:"bhk,omitempty"`
	PropertyTypes    []PropertyType `json:"propertyTypes,omitempty"`
	Furnishings      []Furnishing   `json:"furnishings,omitempty"`
	PreferredTenants []TenantType   `json:"preferredTenants,omitempty"`
	PreferredGender  *Gender        `json:"preferredGender,omitempty"`
	Amenities        []string       `json:"amenities,omitempty"` // all must be present
	AvailableFrom    *time.Time     `json:"availableFrom,omitempty"`
	Latitude         *float64       `json:"latitude,omitempty"`
	Longitude        *float64       `json:"longitude,omitempty"`
	MaxDistance      *float64       `json:"maxDistance,omitempty"` // meters
	SearchText       *string        `json:"searchText,omitempty"`
}

// Merge overlays explicit filters on top of f. Non-empty fields of explicit win.
func (f *SearchFilters) Merge(explicit *SearchFilters) *SearchFilters {
	merged := &SearchFilters{}
	if f != nil {
		*merged = *f
	}
	if explicit == nil {
		return merged
	}
	if len(explicit.Cities) > 0 {
		merged.Cities = explicit.Cities
	}
	if explicit.BudgetMin != nil {
		merged.BudgetMin = explicit.BudgetMin
	}
	if explicit.BudgetMax != nil {
		merged.BudgetMax = explicit.BudgetMax
	}
	if explicit.BHK != nil {
		merged.BHK = explicit.BHK
	}
	if len(explicit.PropertyTypes) > 0 {
		merged.PropertyTypes = explicit.PropertyTypes
	}
	if len(explicit.Furnishings) > 0 {
		merged.Furnishings = explicit.Furnishings
	}
	if len(explicit.PreferredTenants) > 0 {
		merged.PreferredTenants = explicit.PreferredTenants
	}
	if explicit.PreferredGender != nil {
		merged.PreferredGender = explicit.PreferredGender
	}
	if len(explicit.Amenities) > 0 {
		merged.Amenities = explicit.Amenities
	}
	if explicit.AvailableFrom != nil {
		merged.AvailableFrom = explicit.AvailableFrom
	}
	if explicit.Latitude != nil {
		merged.Latitude = explicit.Latitude
	}
	if explicit.Longitude != nil {
		merged.Longitude = explicit.Longitude
	}
	if explicit.MaxDistance != nil {
		merged.MaxDistance = explicit.MaxDistance
	}
	if explicit.SearchText != nil {
		merged.SearchText = explicit.SearchText
	}
	return merged
}

// SortOrder selects the result ordering
type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortRentAsc   SortOrder = "rent_asc"
	SortRentDesc  SortOrder = "rent_desc"
	SortRelevance SortOrder = "relevance"
)

// SearchOptions controls paging and ordering
type SearchOptions struct {
	Limit             int       `json:"limit"`
	Skip              int       `json:"skip"`
	Sort              SortOrder `json:"sort,omitempty"`
	IncludeUnverified bool      `json:"includeUnverified"`
}

// SearchResult is one page of matching properties
type SearchResult struct {
	Properties []Property `json:"properties"`
	Total      int        `json:"total"`
	HasMore    bool       `json:"hasMore"`
}
