package domain

import "github.com/shopspring/decimal"

// VegType is the single vegetable category a catalog item belongs to
type VegType string

const (
	VegTypeRoot           VegType = "root"
	VegTypeLeafy          VegType = "leafy"
	VegTypeFruitVegetable VegType = "fruit_vegetable"
	VegTypeCruciferous    VegType = "cruciferous"
	VegTypeBulb           VegType = "bulb"
	VegTypeSquash         VegType = "squash"
	VegTypeStem           VegType = "stem"
	VegTypeOther          VegType = "other"
)

// Valid reports whether v is one of the known vegetable categories
func (v VegType) Valid() bool {
	switch v {
	case VegTypeRoot, VegTypeLeafy, VegTypeFruitVegetable, VegTypeCruciferous,
		VegTypeBulb, VegTypeSquash, VegTypeStem, VegTypeOther:
		return true
	}
	return false
}

// Product is a catalog item as served to the storefront
type Product struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	Tags    []string        `json:"tags"`
	VegType VegType         `json:"vegType,omitempty"`
}

// Offer is a daily deal on a single item
type Offer struct {
	Name     string          `json:"name"`
	Original decimal.Decimal `json:"original"`
	Sale     decimal.Decimal `json:"sale"`
}

// Meal is a recipe suggestion returned by the meal recommendation API
type Meal struct {
	Name        string   `json:"meal"`
	Ingredients []string `json:"ingredients"`
	Tags        []string `json:"tags"`
}

// MealRequest is what the recommender needs to suggest meals
type MealRequest struct {
	CartItems    []string        `json:"cart_items"`
	DietaryPrefs FilterSelection `json:"dietary_prefs"`
}

// Storefront is the combined landing page payload
type Storefront struct {
	Products []Product `json:"products"`
	Offers   []Offer   `json:"offers"`
}
