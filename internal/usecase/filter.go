package usecase

import (
	"slices"

	"github.com/smartcart/backend/internal/domain"
)

// FilterProducts returns the products that satisfy filters, in their original order.
//
// Active dietary filters are AND-combined: a product must carry every
// required tag. Active vegetable-type filters are OR-combined: a product
// must belong to at least one selected category. With no vegetable-type
// filter active the category stage lets everything through. Unknown keys
// and keys set to false have no effect. The input slice is never modified.
func FilterProducts(products []domain.Product, filters domain.FilterSelection) []domain.Product {
	requiredTags := filters.ActiveDietaryTags()
	categories := filters.ActiveVegTypes()

	result := make([]domain.Product, 0, len(products))
	for _, product := range products {
		if hasAllTags(product.Tags, requiredTags) && inCategories(product.VegType, categories) {
			result = append(result, product)
		}
	}
	return result
}

// FilterMeals returns the meals compatible with the active dietary preferences
func FilterMeals(meals []domain.Meal, prefs domain.FilterSelection) []domain.Meal {
	requiredTags := prefs.ActiveMealTags()

	result := make([]domain.Meal, 0, len(meals))
	for _, meal := range meals {
		if hasAllTags(meal.Tags, requiredTags) {
			result = append(result, meal)
		}
	}
	return result
}

func hasAllTags(tags, required []string) bool {
	for _, tag := range required {
		if !slices.Contains(tags, tag) {
			return false
		}
	}
	return true
}

func inCategories(vegType domain.VegType, categories []domain.VegType) bool {
	if len(categories) == 0 {
		return true
	}
	return slices.Contains(categories, vegType)
}
