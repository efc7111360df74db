package utils

import (
	"strings"
)

type amenityTag struct {
	tag      string
	triggers []string
}

// Ordered so that extracted amenity lists come out in a stable order
var amenityTags = []amenityTag{
	{"wifi", []string{"wifi", "wi-fi", "internet"}},
	{"parking", []string{"parking", "car parking", "bike parking"}},
	{"gym", []string{"gym", "fitness", "workout"}},
	{"ac", []string{"ac", "air conditioning", "air conditioner"}},
	{"lift", []string{"lift", "elevator"}},
	{"security", []string{"security", "guard", "watchman"}},
	{"power backup", []string{"power backup", "generator", "ups"}},
	{"water", []string{"water 24/7", "24x7 water", "water supply"}},
}

// AmenityTags returns the canonical tags in table order
func AmenityTags() []string {
	tags := make([]string, len(amenityTags))
	for i, a := range amenityTags {
		tags[i] = a.tag
	}
	return tags
}

// AmenitiesMentioned returns every tag with a trigger occurring as a substring
// of the lower-cased text, in table order and without duplicates.
func AmenitiesMentioned(lower string) []string {
	var found []string
	for _, a := range amenityTags {
		for _, trigger := range a.triggers {
			if strings.Contains(lower, trigger) {
				found = append(found, a.tag)
				break
			}
		}
	}
	return found
}

// CanonicalAmenity maps a free-form label ("Wi-Fi", "Power Backup",
// "24x7 Water Supply") to its canonical tag. Unknown labels are lower-cased.
func CanonicalAmenity(label string) string {
	lower := strings.ToLower(strings.TrimSpace(label))
	if lower == "" {
		return ""
	}

	// Exact match
	for _, a := range amenityTags {
		if lower == a.tag {
			return a.tag
		}
		for _, trigger := range a.triggers {
			if lower == trigger {
				return a.tag
			}
		}
	}

	// Contains match, short triggers like "ac" or "ups" only as whole words
	for _, a := range amenityTags {
		for _, trigger := range a.triggers {
			if len(trigger) <= 3 {
				if containsWord(lower, trigger) {
					return a.tag
				}
				continue
			}
			if strings.Contains(lower, trigger) {
				return a.tag
			}
		}
	}

	return lower
}

// CanonicalAmenities canonicalizes and de-duplicates labels, keeping first-seen order
func CanonicalAmenities(labels []string) []string {
	if len(labels) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(labels))
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		tag := CanonicalAmenity(label)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// HasAllAmenities reports whether have is a superset of want after canonicalization
func HasAllAmenities(have, want []string) bool {
	set := make(map[string]bool, len(have))
	for _, h := range CanonicalAmenities(have) {
		set[h] = true
	}
	for _, w := range CanonicalAmenities(want) {
		if !set[w] {
			return false
		}
	}
	return true
}

func containsWord(text, word string) bool {
	for _, field := range strings.FieldsFunc(text, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		if field == word {
			return true
		}
	}
	return false
}
