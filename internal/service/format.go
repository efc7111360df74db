package service

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"settlr/internal/model"
)

// FormatMode selects how properties are rendered for the assistant
type FormatMode string

const (
	FormatDetailed FormatMode = "detailed"
	FormatCompact  FormatMode = "compact"
	FormatMarkdown FormatMode = "markdown"
)

// NoPropertiesFound is returned for an empty result set in every mode
const NoPropertiesFound = "No properties found matching the criteria."

const (
	notSpecified     = "Not specified"
	untitled         = "Untitled Property"
	descriptionLimit = 150
)

var formatters = map[FormatMode]func([]model.Property) string{
	FormatDetailed: formatDetailed,
	FormatCompact:  formatCompact,
	FormatMarkdown: formatMarkdown,
}

// FormatProperties renders properties as text. Unknown modes fall back to detailed.
func FormatProperties(properties []model.Property, mode FormatMode) string {
	if len(properties) == 0 {
		return NoPropertiesFound
	}
	formatter, ok := formatters[mode]
	if !ok {
		formatter = formatDetailed
	}
	return formatter(properties)
}

func formatDetailed(properties []model.Property) string {
	blocks := make([]string, len(properties))
	for i := range properties {
		p := &properties[i]
		parts := []string{
			fmt.Sprintf("Property %d: %s", i+1, titleOf(p)),
			"Type: " + typeLine(p),
			fmt.Sprintf("Rent: ₹%s/month", rupees(p.Pricing.Rent)),
			fmt.Sprintf("Deposit: ₹%s", rupees(p.Pricing.Deposit)),
			"Location: " + locationOf(p),
		}

		if p.PropertyDetails.Furnishing != nil {
			parts = append(parts, "Furnishing: "+string(*p.PropertyDetails.Furnishing))
		}
		if s := str(p.Pricing.Electricity); s != "" {
			parts = append(parts, "Electricity: "+s)
		}
		if s := str(p.Pricing.Water); s != "" {
			parts = append(parts, "Water: "+s)
		}
		if m := p.Pricing.Maintenance; m.Amount != nil && *m.Amount != 0 {
			line := "Maintenance: ₹" + FormatIndianNumber(*m.Amount)
			if t := str(m.Type); t != "" {
				line += " (" + t + ")"
			}
			parts = append(parts, line)
		}
		if len(p.Amenities) > 0 {
			parts = append(parts, "Amenities: "+strings.Join(p.Amenities, ", "))
		}
		if p.PreferredTenant != nil {
			parts = append(parts, "Preferred Tenant: "+string(*p.PreferredTenant))
		}
		if p.PreferredGender != nil && *p.PreferredGender != model.GenderAny {
			parts = append(parts, "Gender: "+string(*p.PreferredGender))
		}
		if p.PropertyDetails.AvailableFrom != nil {
			parts = append(parts, "Available From: "+p.PropertyDetails.AvailableFrom.Format("2 Jan 2006"))
		}
		if d := str(p.Description); d != "" {
			parts = append(parts, "Description: "+truncateRunes(d, descriptionLimit))
		}
		if owner := ownerLine(p, "Contact: "); owner != "" {
			parts = append(parts, "Owner: "+owner)
		}

		for j, line := range parts {
			parts[j] = "- " + line
		}
		blocks[i] = strings.Join(parts, "\n")
	}
	return strings.Join(blocks, "\n\n")
}

// formatCompact emits exactly one line per property
func formatCompact(properties []model.Property) string {
	lines := make([]string, len(properties))
	for i := range properties {
		p := &properties[i]
		propertyType := notSpecified
		if p.PropertyType != nil {
			propertyType = string(*p.PropertyType)
		}
		city := str(p.City)
		if city == "" {
			city = notSpecified
		}
		lines[i] = singleLine(fmt.Sprintf("%d. %s | %s | ₹%s/mo | %s",
			i+1, titleOf(p), propertyType, rupees(p.Pricing.Rent), city))
	}
	return strings.Join(lines, "\n")
}

func formatMarkdown(properties []model.Property) string {
	blocks := make([]string, len(properties))
	for i := range properties {
		p := &properties[i]
		var b strings.Builder

		fmt.Fprintf(&b, "**Property %d: %s**\n\n", i+1, titleOf(p))
		fmt.Fprintf(&b, "🏠 **Type:** %s\n", typeLine(p))
		fmt.Fprintf(&b, "💰 **Rent:** ₹%s/month\n", rupees(p.Pricing.Rent))
		fmt.Fprintf(&b, "💳 **Deposit:** ₹%s\n", rupees(p.Pricing.Deposit))
		fmt.Fprintf(&b, "📍 **Location:** %s\n", locationOf(p))

		if p.PropertyDetails.Furnishing != nil {
			fmt.Fprintf(&b, "🪑 **Furnishing:** %s\n", *p.PropertyDetails.Furnishing)
		}
		if s := str(p.Pricing.Electricity); s != "" {
			fmt.Fprintf(&b, "⚡ **Electricity:** %s\n", s)
		}
		if len(p.Amenities) > 0 {
			fmt.Fprintf(&b, "✨ **Amenities:** %s\n", strings.Join(p.Amenities, ", "))
		}
		if owner := ownerLine(p, "📞 "); owner != "" {
			fmt.Fprintf(&b, "👤 **Owner:** %s\n", owner)
		}

		blocks[i] = b.String()
	}
	return strings.Join(blocks, "\n---\n\n")
}

func titleOf(p *model.Property) string {
	if t := str(p.Title); t != "" {
		return t
	}
	return untitled
}

func typeLine(p *model.Property) string {
	line := notSpecified
	if p.PropertyType != nil {
		line = string(*p.PropertyType)
	}
	if room := str(p.PropertyDetails.RoomType); room != "" {
		line += " | " + room
	}
	return line
}

func locationOf(p *model.Property) string {
	if a := str(p.Address); a != "" {
		return a
	}
	if c := str(p.City); c != "" {
		return c
	}
	return notSpecified
}

func ownerLine(p *model.Property, contactLabel string) string {
	name := str(p.OwnerName)
	if name == "" {
		return ""
	}
	if phone := str(p.OwnerPhone); phone != "" {
		return name + " | " + contactLabel + phone
	}
	return name
}

func rupees(v *float64) string {
	if v == nil {
		return notSpecified
	}
	return FormatIndianNumber(*v)
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// indianPrinter groups digits the Indian way: last three, then pairs
var indianPrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatIndianNumber formats v with lakh/crore grouping (150000 -> "1,50,000"),
// keeping at most two fraction digits.
func FormatIndianNumber(v float64) string {
	return indianPrinter.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}
