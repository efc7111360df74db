package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"settlr/internal/model"
)

func TestExtractSearchCriteria_Examples(t *testing.T) {
	t.Run("2 BHK in Bengaluru under 20k", func(t *testing.T) {
		c := ExtractSearchCriteria("Looking for a 2 BHK in Bengaluru under 20k")

		require.NotNil(t, c.City)
		assert.Equal(t, "Bengaluru", *c.City)
		require.NotNil(t, c.BHK)
		assert.Equal(t, "2 BHK", *c.BHK)
		require.NotNil(t, c.BudgetMax)
		assert.Equal(t, 20000.0, *c.BudgetMax)
		assert.Nil(t, c.BudgetMin)
		assert.True(t, c.HasIntent())
	})

	t.Run("between 10000 and 20000 in Pune", func(t *testing.T) {
		c := ExtractSearchCriteria("need something between 10000 and 20000 in Pune")

		require.NotNil(t, c.City)
		assert.Equal(t, "Pune", *c.City)
		require.NotNil(t, c.BudgetMin)
		require.NotNil(t, c.BudgetMax)
		assert.Equal(t, 10000.0, *c.BudgetMin)
		assert.Equal(t, 20000.0, *c.BudgetMax)
	})

	t.Run("around 15000 with wifi and parking", func(t *testing.T) {
		c := ExtractSearchCriteria("around 15000 with wifi and parking")

		require.NotNil(t, c.BudgetMin)
		require.NotNil(t, c.BudgetMax)
		assert.Equal(t, 12000.0, *c.BudgetMin)
		assert.Equal(t, 18000.0, *c.BudgetMax)
		assert.ElementsMatch(t, []string{"wifi", "parking"}, c.Amenities)
		assert.Nil(t, c.City)
	})
}

func TestExtractSearchCriteria_NoIntent(t *testing.T) {
	for _, msg := range []string{"", "hello there", "what can you do?"} {
		c := ExtractSearchCriteria(msg)
		assert.False(t, c.HasIntent(), "message %q", msg)
	}
}

func TestExtractSearchCriteria_City(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"rooms in bangalore", "Bengaluru"},
		{"MUMBAI flats", "Mumbai"},
		{"pg near pimpri chinchwad", "Pimpri"},
		{"anything in Visakhapatnam?", "Visakhapatnam"},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			c := ExtractSearchCriteria(tt.message)
			require.NotNil(t, c.City)
			assert.Equal(t, tt.want, *c.City)
		})
	}
}

func TestExtractSearchCriteria_Budget(t *testing.T) {
	tests := []struct {
		name    string
		message string
		wantMin *float64
		wantMax *float64
	}{
		{"under with thousands separator", "under ₹20,000 please", nil, float64Ptr(20000)},
		{"under plain", "under 18000", nil, float64Ptr(18000)},
		{"under rs", "under rs. 9500", nil, float64Ptr(9500)},
		{"between k suffix", "between 10k and 20k", float64Ptr(10000), float64Ptr(20000)},
		{"between separators", "between 8,000 - 12,500", float64Ptr(8000), float64Ptr(12500)},
		{"between bare thousands", "between 10 to 20", float64Ptr(10000), float64Ptr(20000)},
		{"around k", "around 10k", float64Ptr(8000), float64Ptr(12000)},
		{"around decimal k", "around 1.5k", float64Ptr(1200), float64Ptr(1800)},
		{"under decimal k", "under 2.5k", nil, float64Ptr(2500)},
		{"between decimal k", "between 1.5k and 2.5k", float64Ptr(1500), float64Ptr(2500)},
		{"under wins over around", "under 25000 or around 20000", nil, float64Ptr(25000)},
		{"no budget", "2 bhk in pune", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ExtractSearchCriteria(tt.message)
			assert.Equal(t, tt.wantMin, c.BudgetMin)
			assert.Equal(t, tt.wantMax, c.BudgetMax)
		})
	}
}

func TestExtractSearchCriteria_BHK(t *testing.T) {
	c := ExtractSearchCriteria("1rk near college")
	require.NotNil(t, c.BHK)
	assert.Equal(t, "1 RK", *c.BHK)

	c = ExtractSearchCriteria("3 BHK flat")
	require.NotNil(t, c.BHK)
	assert.Equal(t, "3 BHK", *c.BHK)
}

func TestExtractSearchCriteria_Keywords(t *testing.T) {
	tests := []struct {
		message    string
		wantType   *model.PropertyType
		wantFurn   *model.Furnishing
		wantTenant *model.TenantType
	}{
		{
			message:  "paying guest for a student",
			wantType: ptr(model.PropertyTypePG), wantTenant: ptr(model.TenantStudent),
		},
		{
			message:  "shared flat, fully furnished, for working people",
			wantType: ptr(model.PropertyTypeSharedFlat), wantFurn: ptr(model.FurnishingFully),
			wantTenant: ptr(model.TenantProfessional),
		},
		{
			message:  "semi-furnished apartment for my family",
			wantType: ptr(model.PropertyTypeRentedApartment), wantFurn: ptr(model.FurnishingSemi),
			wantTenant: ptr(model.TenantFamily),
		},
		{
			message:  "unfurnished flat",
			wantType: ptr(model.PropertyTypeRentedApartment), wantFurn: ptr(model.FurnishingNone),
		},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			c := ExtractSearchCriteria(tt.message)
			assert.Equal(t, tt.wantType, c.PropertyType)
			assert.Equal(t, tt.wantFurn, c.Furnishing)
			assert.Equal(t, tt.wantTenant, c.PreferredTenant)
		})
	}
}

func TestSearchCriteria_Filters(t *testing.T) {
	c := ExtractSearchCriteria("2 bhk in pune for students with gym")
	f := c.Filters()

	assert.Equal(t, []string{"Pune"}, f.Cities)
	assert.Equal(t, []model.TenantType{model.TenantStudent}, f.PreferredTenants)
	assert.Equal(t, []string{"gym"}, f.Amenities)
	assert.Equal(t, c.BHK, f.BHK)
}

// Helper functions
func float64Ptr(v float64) *float64 {
	return &v
}

func ptr[T any](v T) *T {
	return &v
}
