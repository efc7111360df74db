package repository

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lib/pq"

	"settlr/internal/model"
	"settlr/internal/utils"
)

// Predicate is an AND-joined list of SQL conditions with positional args.
// Conditions are written with ? placeholders and stored renumbered as $n.
type Predicate struct {
	Conditions []string
	Args       []interface{}
}

var bhkNumber = regexp.MustCompile(`\d+`)

// Where renders the WHERE body, "1=1" when there is nothing to filter on
func (p Predicate) Where() string {
	if len(p.Conditions) == 0 {
		return "1=1"
	}
	return strings.Join(p.Conditions, " AND ")
}

// And appends a condition, renumbering its ? placeholders after the existing args
func (p *Predicate) And(cond string, args ...interface{}) {
	var b strings.Builder
	n := len(p.Args)
	for _, r := range cond {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	p.Conditions = append(p.Conditions, b.String())
	p.Args = append(p.Args, args...)
}

// BuildSearchQuery turns search filters into a predicate over the properties table
func BuildSearchQuery(filters *model.SearchFilters, includeUnverified bool) Predicate {
	var p Predicate

	if !includeUnverified {
		p.And("listing_status = ?", string(model.ListingVerified))
	}
	if filters == nil {
		return p
	}

	// City, any-of, case-insensitive substring
	cities := nonEmpty(filters.Cities)
	if len(cities) > 0 {
		ors := make([]string, len(cities))
		args := make([]interface{}, len(cities))
		for i, c := range cities {
			ors[i] = "city ILIKE ?"
			args[i] = "%" + escapeLike(c) + "%"
		}
		p.And("("+strings.Join(ors, " OR ")+")", args...)
	}

	if filters.BudgetMin != nil {
		p.And("rent >= ?", *filters.BudgetMin)
	}
	if filters.BudgetMax != nil {
		p.And("rent <= ?", *filters.BudgetMax)
	}

	if filters.BHK != nil && *filters.BHK != "Any" {
		if n := bhkNumber.FindString(*filters.BHK); n != "" {
			// \m anchors the number at a word start: "2 BHK" must not match "12 BHK"
			pattern := `\m` + n + `\s*bhk`
			p.And("(title ~* ? OR room_type ~* ?)", pattern, pattern)
		}
	}

	if types := nonEmpty(filters.PropertyTypes); len(types) > 0 {
		p.And("property_type = ANY(?)", pq.Array(types))
	}
	if furnishings := nonEmpty(filters.Furnishings); len(furnishings) > 0 {
		p.And("furnishing = ANY(?)", pq.Array(furnishings))
	}
	if tenants := nonEmpty(filters.PreferredTenants); len(tenants) > 0 {
		p.And("preferred_tenant = ANY(?)", pq.Array(append(tenants, string(model.TenantAnyone))))
	}
	if filters.PreferredGender != nil && *filters.PreferredGender != "" && *filters.PreferredGender != model.GenderAny {
		p.And("preferred_gender = ANY(?)", pq.Array([]string{string(*filters.PreferredGender), string(model.GenderAny)}))
	}

	// Superset match: every requested amenity must be present
	if amenities := utils.CanonicalAmenities(filters.Amenities); len(amenities) > 0 {
		p.And("amenities @> ?::text[]", pq.Array(amenities))
	}

	if filters.AvailableFrom != nil {
		p.And("available_from <= ?", *filters.AvailableFrom)
	}

	if filters.Latitude != nil && filters.Longitude != nil && filters.MaxDistance != nil {
		p.And("earth_distance(ll_to_earth(latitude, longitude), ll_to_earth(?, ?)) <= ?",
			*filters.Latitude, *filters.Longitude, *filters.MaxDistance)
	}

	if filters.SearchText != nil && strings.TrimSpace(*filters.SearchText) != "" {
		pattern := "%" + escapeLike(strings.TrimSpace(*filters.SearchText)) + "%"
		p.And("(title ILIKE ? OR description ILIKE ? OR address ILIKE ?)", pattern, pattern, pattern)
	}

	return p
}

// OrderBy maps a sort order to its ORDER BY clause. Relevance is ranked
// in memory after the page is fetched, so it reads newest-first here.
func OrderBy(sort model.SortOrder) string {
	switch sort {
	case model.SortRentAsc:
		return "rent ASC NULLS LAST, created_at DESC"
	case model.SortRentDesc:
		return "rent DESC NULLS LAST, created_at DESC"
	default:
		return "created_at DESC"
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// nonEmpty drops blank and "Any" entries
func nonEmpty[T ~string](values []T) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		s := strings.TrimSpace(string(v))
		if s == "" || s == "Any" {
			continue
		}
		out = append(out, s)
	}
	return out
}
