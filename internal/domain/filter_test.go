package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDietaryTag(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{FilterVegan, "vegan"},
		{FilterGlutenFree, "gluten-free"},
		{FilterNutFree, "nutfree"},
		{FilterOrganic, "organic"},
		{FilterNonGMO, "non-gmo"},
		{FilterLowCarb, "lowcarb"},
		{FilterHighFiber, "highfiber"},
		{FilterLowSodium, "lowsodium"},
		{FilterDairyFree, "dairyfree"},
		{"GLUTENFREE", "gluten-free"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, DietaryTag(tt.key))
		})
	}
}

func TestVegCategory(t *testing.T) {
	tests := []struct {
		key  string
		want VegType
	}{
		{FilterRoot, VegTypeRoot},
		{FilterLeafy, VegTypeLeafy},
		{FilterFruitVegetable, VegTypeFruitVegetable},
		{FilterCruciferous, VegTypeCruciferous},
		{FilterBulb, VegTypeBulb},
		{FilterSquash, VegTypeSquash},
		{FilterStem, VegTypeStem},
		{FilterOther, VegTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got := VegCategory(tt.key)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestVegType_Valid(t *testing.T) {
	assert.True(t, VegTypeSquash.Valid())
	assert.False(t, VegType("fruitvegetable").Valid())
	assert.False(t, VegType("").Valid())
}

func TestCanonicalFilterKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"vegan", FilterVegan, true},
		{"GlutenFree", FilterGlutenFree, true},
		{"nongmo", FilterNonGMO, true},
		{"FRUITVEGETABLE", FilterFruitVegetable, true},
		{"keto", FilterKeto, true},
		{"carnivore", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := CanonicalFilterKey(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterSelection_Active(t *testing.T) {
	f := FilterSelection{
		FilterNonGMO:         true,
		FilterVegan:          true,
		FilterOrganic:        false,
		FilterKeto:           true,
		FilterLeafy:          true,
		FilterFruitVegetable: true,
		FilterRoot:           false,
		"unknown":            true,
	}

	assert.Equal(t, []string{"vegan", "non-gmo"}, f.ActiveDietaryTags())
	assert.Equal(t, []string{"vegan", "keto"}, f.ActiveMealTags())
	assert.Equal(t, []VegType{VegTypeLeafy, VegTypeFruitVegetable}, f.ActiveVegTypes())
}

func TestFilterSelection_ActiveMixedCase(t *testing.T) {
	f := FilterSelection{
		"GLUTENFREE":     true,
		"NonGmo":         true,
		"Organic":        false,
		"DAIRYFREE":      true,
		"FruitVegetable": true,
		"LEAFY":          true,
	}

	assert.Equal(t, []string{"gluten-free", "non-gmo"}, f.ActiveDietaryTags())
	assert.Equal(t, []string{"gluten-free", "dairyfree"}, f.ActiveMealTags())
	assert.Equal(t, []VegType{VegTypeLeafy, VegTypeFruitVegetable}, f.ActiveVegTypes())
}

func TestMealFilterKeys_SkipSourcingPreferences(t *testing.T) {
	for _, key := range []string{FilterOrganic, FilterNonGMO, FilterHighFiber, FilterLowSodium} {
		assert.NotContains(t, MealFilterKeys, key)
		assert.Contains(t, MealPreferenceKeys, key)
	}
}

func TestFilterSelection_ActiveEmpty(t *testing.T) {
	var f FilterSelection
	assert.Empty(t, f.ActiveDietaryTags())
	assert.Empty(t, f.ActiveVegTypes())
}

func TestFilterSelection_Clone(t *testing.T) {
	f := FilterSelection{FilterVegan: true}
	clone := f.Clone()
	clone[FilterVegan] = false

	assert.True(t, f[FilterVegan])
}

func TestSession_Clone(t *testing.T) {
	s := &Session{
		ID:          "s1",
		Cart:        []CartItem{{ProductID: "apple", Quantity: 1}},
		Preferences: FilterSelection{FilterVegan: true},
	}

	clone := s.Clone()
	clone.Cart[0].Quantity = 5
	clone.Preferences[FilterVegan] = false

	assert.Equal(t, 1, s.Cart[0].Quantity)
	assert.True(t, s.Preferences[FilterVegan])
}
