package service

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"settlr/internal/model"
	"settlr/internal/utils"
)

// Match reason constants
const (
	ReasonCityMatch       = "City match"
	ReasonBHKMatch        = "BHK match"
	ReasonTypeMatch       = "Property type match"
	ReasonFurnishingMatch = "Furnishing match"
	ReasonTenantMatch     = "Tenant preference match"
	ReasonAmenitiesMatch  = "Has all requested amenities"
	ReasonPriceMatch      = "Price within budget"
	ReasonNewlyListed     = "Newly listed"
	ReasonVerified        = "Verified listing"
	ReasonGeneralMatch    = "General match"
)

var digitsPattern = regexp.MustCompile(`\d+`)

// Ranker handles ranking and scoring of search results
type Ranker struct {
	weightMatch   float64
	weightPrice   float64
	weightRecency float64
	now           func() time.Time
}

// NewRanker creates a new ranker with specified weights
func NewRanker(weightMatch, weightPrice, weightRecency float64) *Ranker {
	return &Ranker{
		weightMatch:   weightMatch,
		weightPrice:   weightPrice,
		weightRecency: weightRecency,
		now:           time.Now,
	}
}

// ScoreResults attaches scores and match reasons, keeping the input order
func (r *Ranker) ScoreResults(properties []model.Property, filters *model.SearchFilters) []model.PropertySearchResult {
	results := make([]model.PropertySearchResult, 0, len(properties))
	bhk := bhkFilterPattern(filters)

	for _, p := range properties {
		matchScore, reasons := r.calculateMatchScore(&p, filters, bhk)
		priceScore := r.calculatePriceScore(p.Pricing.Rent, filters)
		recencyScore := r.calculateRecencyScore(p.CreatedAt)

		score := (r.weightMatch * matchScore) +
			(r.weightPrice * priceScore) +
			(r.weightRecency * recencyScore)

		results = append(results, model.PropertySearchResult{
			Property:       p,
			Score:          score,
			MatchedReasons: r.generateMatchedReasons(&p, filters, reasons, priceScore),
		})
	}

	return results
}

// RankResults scores results and sorts them by score descending
func (r *Ranker) RankResults(properties []model.Property, filters *model.SearchFilters) []model.PropertySearchResult {
	results := r.ScoreResults(properties, filters)

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}

// calculateMatchScore blends the share of active filters a listing satisfies
// with how complete the listing is
func (r *Ranker) calculateMatchScore(p *model.Property, filters *model.SearchFilters, bhk *regexp.Regexp) (float64, []string) {
	var reasons []string
	active, satisfied := 0, 0

	check := func(enabled, ok bool, reason string) {
		if !enabled {
			return
		}
		active++
		if ok {
			satisfied++
			reasons = append(reasons, reason)
		}
	}

	if filters != nil {
		check(len(filters.Cities) > 0, cityMatches(p.City, filters.Cities), ReasonCityMatch)
		check(filters.BHK != nil && *filters.BHK != "Any", bhkMatches(p, bhk), ReasonBHKMatch)
		check(len(filters.PropertyTypes) > 0,
			p.PropertyType != nil && containsValue(filters.PropertyTypes, *p.PropertyType), ReasonTypeMatch)
		check(len(filters.Furnishings) > 0,
			p.PropertyDetails.Furnishing != nil && containsValue(filters.Furnishings, *p.PropertyDetails.Furnishing),
			ReasonFurnishingMatch)
		check(len(filters.PreferredTenants) > 0,
			p.PreferredTenant != nil && (containsValue(filters.PreferredTenants, *p.PreferredTenant) || *p.PreferredTenant == model.TenantAnyone),
			ReasonTenantMatch)
		check(len(filters.Amenities) > 0, utils.HasAllAmenities(p.Amenities, filters.Amenities), ReasonAmenitiesMatch)
	}

	criteriaScore := 1.0
	if active > 0 {
		criteriaScore = float64(satisfied) / float64(active)
	}

	return 0.5*criteriaScore + 0.5*completeness(p), reasons
}

// completeness is the share of descriptive fields a listing fills in
func completeness(p *model.Property) float64 {
	fields := []bool{
		p.Title != nil && *p.Title != "",
		p.Pricing.Rent != nil,
		p.Address != nil && *p.Address != "",
		p.Description != nil && *p.Description != "",
		len(p.Amenities) > 0,
		len(p.Images) > 0,
	}
	filled := 0
	for _, f := range fields {
		if f {
			filled++
		}
	}
	return float64(filled) / float64(len(fields))
}

// calculatePriceScore calculates how well the rent matches the user's budget
func (r *Ranker) calculatePriceScore(rent *float64, filters *model.SearchFilters) float64 {
	if rent == nil {
		return 0.5 // Neutral score if no rent
	}

	if filters == nil || (filters.BudgetMin == nil && filters.BudgetMax == nil) {
		return 1.0 // Full score if no budget filter
	}

	actual := *rent

	// If within range, calculate proximity to midpoint
	if filters.BudgetMin != nil && filters.BudgetMax != nil {
		minRent := *filters.BudgetMin
		maxRent := *filters.BudgetMax

		if actual < minRent || actual > maxRent {
			return 0.0
		}

		midpoint := (minRent + maxRent) / 2
		spread := maxRent - minRent
		if spread == 0 {
			return 1.0
		}

		score := 1.0 - (math.Abs(actual-midpoint) / (spread / 2))
		if score < 0 {
			score = 0
		}
		return score
	}

	if filters.BudgetMin != nil {
		if actual < *filters.BudgetMin {
			return 0.0
		}
		return 1.0
	}

	if actual > *filters.BudgetMax {
		return 0.0
	}
	if *filters.BudgetMax <= 0 {
		return 1.0
	}
	// Closer to max is better, a cheap listing under a high cap is usually a smaller unit
	score := actual / *filters.BudgetMax
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// calculateRecencyScore calculates recency score based on creation time
func (r *Ranker) calculateRecencyScore(createdAt time.Time) float64 {
	if createdAt.IsZero() {
		return 0.5 // Neutral score if no date
	}

	daysSinceListed := r.now().Sub(createdAt).Hours() / 24

	// Exponential decay: after 30 days ~0.74, after 90 days ~0.41
	score := math.Exp(-0.01 * daysSinceListed)

	if score > 1.0 {
		score = 1.0
	}
	if score < 0 {
		score = 0
	}
	return score
}

// generateMatchedReasons generates human-readable reasons for why this property matched
func (r *Ranker) generateMatchedReasons(
	p *model.Property,
	filters *model.SearchFilters,
	criteriaReasons []string,
	priceScore float64,
) []string {
	reasons := append([]string{}, criteriaReasons...)

	if filters != nil && (filters.BudgetMin != nil || filters.BudgetMax != nil) && priceScore > 0.8 {
		reasons = append(reasons, ReasonPriceMatch)
	}

	if !p.CreatedAt.IsZero() && r.now().Sub(p.CreatedAt) < 7*24*time.Hour {
		reasons = append(reasons, ReasonNewlyListed)
	}

	if p.Verification.ListingStatus == model.ListingVerified {
		reasons = append(reasons, ReasonVerified)
	}

	if len(reasons) == 0 {
		reasons = append(reasons, ReasonGeneralMatch)
	}

	return reasons
}

func cityMatches(city *string, cities []string) bool {
	if city == nil {
		return false
	}
	lower := strings.ToLower(*city)
	for _, c := range cities {
		if c != "" && strings.Contains(lower, strings.ToLower(c)) {
			return true
		}
	}
	return false
}

// bhkFilterPattern compiles the BHK filter the same way the SQL predicate does:
// the number must start a word, so "2 BHK" does not match "12 BHK"
func bhkFilterPattern(filters *model.SearchFilters) *regexp.Regexp {
	if filters == nil || filters.BHK == nil || *filters.BHK == "Any" {
		return nil
	}
	n := digitsPattern.FindString(*filters.BHK)
	if n == "" {
		return nil
	}
	return regexp.MustCompile(`(?i)\b` + n + `\s*bhk`)
}

func bhkMatches(p *model.Property, pattern *regexp.Regexp) bool {
	if pattern == nil {
		return false
	}
	for _, s := range []*string{p.Title, p.PropertyDetails.RoomType} {
		if s != nil && pattern.MatchString(*s) {
			return true
		}
	}
	return false
}

func containsValue[T comparable](values []T, v T) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
