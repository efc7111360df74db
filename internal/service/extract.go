package service

import (
	"regexp"
	"strconv"
	"strings"

	"settlr/internal/model"
	"settlr/internal/utils"
)

// knownCities is scanned in order; the first substring hit wins
var knownCities = []string{
	"bengaluru", "bangalore", "mumbai", "pune", "delhi", "hyderabad", "chennai",
	"kolkata", "thane", "ahmedabad", "surat", "jaipur", "lucknow", "kanpur",
	"nagpur", "indore", "bhopal", "visakhapatnam", "pimpri", "patna", "vadodara",
	"ghaziabad", "ludhiana", "agra", "nashik", "faridabad", "meerut", "rajkot",
	"varanasi", "srinagar",
}

var cityAliases = map[string]string{
	"bangalore": "Bengaluru",
}

type keywordRule[T any] struct {
	keywords []string
	value    T
}

var propertyTypeRules = []keywordRule[model.PropertyType]{
	{[]string{"pg", "paying guest"}, model.PropertyTypePG},
	{[]string{"shared flat", "flatmate"}, model.PropertyTypeSharedFlat},
	{[]string{"apartment", "flat"}, model.PropertyTypeRentedApartment},
}

var furnishingRules = []keywordRule[model.Furnishing]{
	{[]string{"fully furnished", "full furnished"}, model.FurnishingFully},
	{[]string{"semi furnished", "semi-furnished"}, model.FurnishingSemi},
	{[]string{"unfurnished", "empty"}, model.FurnishingNone},
}

var tenantRules = []keywordRule[model.TenantType]{
	{[]string{"student"}, model.TenantStudent},
	{[]string{"professional", "working"}, model.TenantProfessional},
	{[]string{"family"}, model.TenantFamily},
}

var (
	// under 20k, under ₹20,000, under 1.5k
	underPattern = regexp.MustCompile(`under\s*[₹rs.\s]*(\d+(?:\.\d+)?)[,\s]*(\d+)?k?`)
	// between 10k and 20k, between 10,000 - 20,000
	betweenPattern = regexp.MustCompile(`between\s*[₹rs.\s]*(\d+(?:\.\d+)?)[,\s]*(\d+)?\s*(k)?\s*(?:to|and|-)\s*[₹rs.\s]*(\d+(?:\.\d+)?)[,\s]*(\d+)?\s*(k)?`)
	// around 15000, around 1.5k
	aroundPattern = regexp.MustCompile(`around\s*[₹rs.\s]*(\d+(?:\.\d+)?)[,\s]*(\d+)?\s*(k)?`)
	bhkPattern    = regexp.MustCompile(`(\d+)\s*(bhk|rk)`)
)

// ExtractSearchCriteria parses a free-text rental query into search criteria.
// It never fails; an utterance with no recognizable intent yields empty criteria.
func ExtractSearchCriteria(message string) *model.SearchCriteria {
	lower := strings.ToLower(message)
	criteria := &model.SearchCriteria{}

	criteria.City = extractCity(lower)
	criteria.BudgetMin, criteria.BudgetMax = extractBudget(lower)

	if m := bhkPattern.FindStringSubmatch(lower); m != nil {
		label := m[1] + " BHK"
		if m[2] == "rk" {
			label = m[1] + " RK"
		}
		criteria.BHK = &label
	}

	criteria.PropertyType = firstRule(lower, propertyTypeRules)
	criteria.Furnishing = firstRule(lower, furnishingRules)
	criteria.Amenities = utils.AmenitiesMentioned(lower)
	criteria.PreferredTenant = firstRule(lower, tenantRules)

	return criteria
}

func extractCity(lower string) *string {
	for _, city := range knownCities {
		if !strings.Contains(lower, city) {
			continue
		}
		name, ok := cityAliases[city]
		if !ok {
			name = strings.ToUpper(city[:1]) + city[1:]
		}
		return &name
	}
	return nil
}

func extractBudget(lower string) (*float64, *float64) {
	if m := underPattern.FindStringSubmatch(lower); m != nil {
		amount := parseNumber(m[1])
		if m[2] != "" {
			amount = amount*1000 + parseNumber(m[2])
		} else if strings.Contains(lower, "k") {
			amount *= 1000
		}
		return nil, &amount
	}

	if m := betweenPattern.FindStringSubmatch(lower); m != nil {
		lo := parseAmount(m[1], m[2], m[3])
		hi := parseAmount(m[4], m[5], m[6])
		return &lo, &hi
	}

	if m := aroundPattern.FindStringSubmatch(lower); m != nil {
		amount := parseAmount(m[1], m[2], m[3])
		lo := amount * 8 / 10
		hi := amount * 12 / 10
		return &lo, &hi
	}

	return nil, nil
}

// parseAmount joins a "10,000" style continuation group onto the leading digits.
// Without one, a k suffix or a bare value below 1000 is read as thousands.
func parseAmount(whole, continuation, kSuffix string) float64 {
	if continuation != "" {
		return parseNumber(whole + continuation)
	}
	amount := parseNumber(whole)
	if kSuffix != "" || amount < 1000 {
		amount *= 1000
	}
	return amount
}

func parseNumber(digits string) float64 {
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0
	}
	return v
}

func firstRule[T any](lower string, rules []keywordRule[T]) *T {
	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				v := rule.value
				return &v
			}
		}
	}
	return nil
}
