package repository

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"settlr/internal/model"
)

func TestBuildSearchQuery_VerifiedOnlyByDefault(t *testing.T) {
	p := BuildSearchQuery(nil, false)
	assert.Equal(t, "listing_status = $1", p.Where())
	assert.Equal(t, []interface{}{"Verified"}, p.Args)

	p = BuildSearchQuery(nil, true)
	assert.Equal(t, "1=1", p.Where())
	assert.Empty(t, p.Args)
}

func TestBuildSearchQuery_FromCriteria(t *testing.T) {
	city := "Bengaluru"
	bhk := "2 BHK"
	budgetMax := 20000.0
	criteria := &model.SearchCriteria{City: &city, BHK: &bhk, BudgetMax: &budgetMax}

	p := BuildSearchQuery(criteria.Filters(), true)

	require.Len(t, p.Conditions, 3)
	assert.Equal(t, "(city ILIKE $1)", p.Conditions[0])
	assert.Equal(t, "rent <= $2", p.Conditions[1])
	assert.Equal(t, "(title ~* $3 OR room_type ~* $4)", p.Conditions[2])
	assert.Equal(t, []interface{}{"%Bengaluru%", 20000.0, `\m2\s*bhk`, `\m2\s*bhk`}, p.Args)
}

func TestBuildSearchQuery_AmenitiesSuperset(t *testing.T) {
	filters := &model.SearchFilters{Amenities: []string{"wifi", "Parking", "WiFi"}}

	p := BuildSearchQuery(filters, true)

	require.Len(t, p.Conditions, 1)
	assert.Equal(t, "amenities @> $1::text[]", p.Conditions[0])
	assert.Equal(t, pq.Array([]string{"wifi", "parking"}), p.Args[0])
}

func TestBuildSearchQuery_AnyOfLists(t *testing.T) {
	gender := model.GenderFemale
	filters := &model.SearchFilters{
		Cities:           []string{"Pune", "Mumbai", ""},
		PropertyTypes:    []model.PropertyType{model.PropertyTypePG, "Any"},
		PreferredTenants: []model.TenantType{model.TenantStudent},
		PreferredGender:  &gender,
	}

	p := BuildSearchQuery(filters, false)

	assert.Equal(t,
		"listing_status = $1 AND (city ILIKE $2 OR city ILIKE $3) AND property_type = ANY($4) AND preferred_tenant = ANY($5) AND preferred_gender = ANY($6)",
		p.Where())
	assert.Equal(t, pq.Array([]string{"PG"}), p.Args[3])
	assert.Equal(t, pq.Array([]string{"Student", "Anyone"}), p.Args[4])
	assert.Equal(t, pq.Array([]string{"Female", "Any"}), p.Args[5])
}

func TestBuildSearchQuery_GeoNeedsAllThree(t *testing.T) {
	lat, lng, dist := 12.97, 77.59, 5000.0

	p := BuildSearchQuery(&model.SearchFilters{Latitude: &lat, Longitude: &lng}, true)
	assert.Empty(t, p.Conditions)

	p = BuildSearchQuery(&model.SearchFilters{Latitude: &lat, Longitude: &lng, MaxDistance: &dist}, true)
	require.Len(t, p.Conditions, 1)
	assert.Contains(t, p.Conditions[0], "ll_to_earth($1, $2)) <= $3")
	assert.Equal(t, []interface{}{lat, lng, dist}, p.Args)
}

func TestBuildSearchQuery_EscapesLikePatterns(t *testing.T) {
	text := "100%_sure"
	p := BuildSearchQuery(&model.SearchFilters{SearchText: &text}, true)

	require.Len(t, p.Args, 3)
	assert.Equal(t, `%100\%\_sure%`, p.Args[0])
	assert.Equal(t, "(title ILIKE $1 OR description ILIKE $2 OR address ILIKE $3)", p.Conditions[0])
}

func TestBuildSearchQuery_IgnoresAnyBHK(t *testing.T) {
	bhk := "Any"
	p := BuildSearchQuery(&model.SearchFilters{BHK: &bhk}, true)
	assert.Empty(t, p.Conditions)
}

func TestOrderBy(t *testing.T) {
	assert.Equal(t, "created_at DESC", OrderBy(""))
	assert.Equal(t, "created_at DESC", OrderBy(model.SortRelevance))
	assert.Equal(t, "rent ASC NULLS LAST, created_at DESC", OrderBy(model.SortRentAsc))
	assert.Equal(t, "rent DESC NULLS LAST, created_at DESC", OrderBy(model.SortRentDesc))
}
