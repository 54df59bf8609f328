package domain

import "strings"

// FilterSelection maps a camelCase filter key to whether that filter is active.
// A key set to false behaves exactly like an absent key.
type FilterSelection map[string]bool

// Dietary filter keys. Active dietary filters are AND-combined.
const (
	FilterVegan      = "vegan"
	FilterGlutenFree = "glutenFree"
	FilterNutFree    = "nutFree"
	FilterOrganic    = "organic"
	FilterNonGMO     = "nonGMO"
	FilterLowCarb    = "lowCarb"
	FilterHighFiber  = "highFiber"
	FilterLowSodium  = "lowSodium"
)

// Vegetable-type filter keys. Active vegetable-type filters are OR-combined.
const (
	FilterRoot           = "root"
	FilterLeafy          = "leafy"
	FilterFruitVegetable = "fruitVegetable"
	FilterCruciferous    = "cruciferous"
	FilterBulb           = "bulb"
	FilterSquash         = "squash"
	FilterStem           = "stem"
	FilterOther          = "other"
)

// Meal-only preference keys recognized by the meal recommendation widget
const (
	FilterDairyFree = "dairyFree"
	FilterKeto      = "keto"
	FilterPaleo     = "paleo"
)

// DietaryKeys lists the dietary filter keys in display order
var DietaryKeys = []string{
	FilterVegan, FilterGlutenFree, FilterNutFree, FilterOrganic,
	FilterNonGMO, FilterLowCarb, FilterHighFiber, FilterLowSodium,
}

// VegTypeKeys lists the vegetable-type filter keys in display order
var VegTypeKeys = []string{
	FilterRoot, FilterLeafy, FilterFruitVegetable, FilterCruciferous,
	FilterBulb, FilterSquash, FilterStem, FilterOther,
}

// MealPreferenceKeys lists every key a user may set as a dietary preference
var MealPreferenceKeys = append(append([]string{}, DietaryKeys...), FilterDairyFree, FilterKeto, FilterPaleo)

// MealFilterKeys lists the preferences that restrict meal suggestions.
// Sourcing preferences such as organic or nonGMO do not apply to recipes.
var MealFilterKeys = []string{
	FilterVegan, FilterGlutenFree, FilterNutFree, FilterLowCarb,
	FilterDairyFree, FilterKeto, FilterPaleo,
}

var (
	dietaryTags   = make(map[string]string)
	vegCategories = make(map[string]VegType)
	canonicalKeys = make(map[string]string)
)

func init() {
	for _, key := range MealPreferenceKeys {
		dietaryTags[key] = DietaryTag(key)
		canonicalKeys[strings.ToLower(key)] = key
	}
	for _, key := range VegTypeKeys {
		vegCategories[key] = VegCategory(key)
		canonicalKeys[strings.ToLower(key)] = key
	}
}

// DietaryTag translates a dietary filter key into the product tag it requires.
// The key is lowercased first, then multi-word tags get their hyphen back.
func DietaryTag(key string) string {
	tag := strings.ToLower(key)
	tag = strings.ReplaceAll(tag, "glutenfree", "gluten-free")
	tag = strings.ReplaceAll(tag, "nongmo", "non-gmo")
	return tag
}

// VegCategory translates a vegetable-type filter key into its category.
// fruitVegetable is the only key whose category uses an underscore.
func VegCategory(key string) VegType {
	category := strings.ToLower(key)
	if category == "fruitvegetable" {
		return VegTypeFruitVegetable
	}
	return VegType(category)
}

// CanonicalFilterKey resolves a key in any letter case to its camelCase form
func CanonicalFilterKey(key string) (string, bool) {
	canonical, ok := canonicalKeys[strings.ToLower(key)]
	return canonical, ok
}

// ActiveDietaryTags returns the tags required by the active product dietary filters
func (f FilterSelection) ActiveDietaryTags() []string {
	return f.activeTags(DietaryKeys)
}

// ActiveMealTags returns the tags required by the active meal preferences
func (f FilterSelection) ActiveMealTags() []string {
	return f.activeTags(MealFilterKeys)
}

func (f FilterSelection) activeTags(keys []string) []string {
	active := f.activeKeys()
	var tags []string
	for _, key := range keys {
		if active[key] {
			tags = append(tags, dietaryTags[key])
		}
	}
	return tags
}

// ActiveVegTypes returns the categories selected by the active vegetable-type filters
func (f FilterSelection) ActiveVegTypes() []VegType {
	active := f.activeKeys()
	var categories []VegType
	for _, key := range VegTypeKeys {
		if active[key] {
			categories = append(categories, vegCategories[key])
		}
	}
	return categories
}

// activeKeys resolves keys in any letter case to their canonical form and
// keeps the ones set to true. Unknown keys are dropped.
func (f FilterSelection) activeKeys() map[string]bool {
	active := make(map[string]bool, len(f))
	for key, on := range f {
		if !on {
			continue
		}
		if canonical, ok := CanonicalFilterKey(key); ok {
			active[canonical] = true
		}
	}
	return active
}

// Clone returns an independent copy of the selection
func (f FilterSelection) Clone() FilterSelection {
	clone := make(FilterSelection, len(f))
	for k, v := range f {
		clone[k] = v
	}
	return clone
}
