package upstream

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartcart/backend/internal/domain"
)

// productNamespace seeds name-derived product IDs so they stay stable across reloads
var productNamespace = uuid.MustParse("6f1c2a0e-3b7d-4c55-9a8e-2d4f0b9e7c31")

// Item is a catalog entry as returned by the storefront API
type Item struct {
	ID      string          `json:"id,omitempty"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	Tags    []string        `json:"tags"`
	VegType string          `json:"vegType,omitempty"`
}

// CatalogResponse is the body of the catalog endpoint
type CatalogResponse struct {
	Items []Item `json:"items"`
}

// OffersResponse is the body of the daily offers endpoint
type OffersResponse struct {
	Offers []domain.Offer `json:"offers"`
}

// MealsResponse is the body of the meal recommendation endpoint
type MealsResponse struct {
	Meals []domain.Meal `json:"meals"`
}

// MapToProduct converts a storefront API item to our domain Product
func MapToProduct(item Item) domain.Product {
	id := strings.TrimSpace(item.ID)
	if id == "" {
		id = ProductID(item.Name)
	}

	return domain.Product{
		ID:      id,
		Name:    strings.TrimSpace(item.Name),
		Price:   item.Price,
		Tags:    normalizeTags(item.Tags),
		VegType: normalizeVegType(item.VegType),
	}
}

// MapToProducts converts every item, preserving order
func MapToProducts(items []Item) []domain.Product {
	products := make([]domain.Product, 0, len(items))
	for _, item := range items {
		products = append(products, MapToProduct(item))
	}
	return products
}

// ProductID derives a stable identifier from a product name
func ProductID(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	return uuid.NewSHA1(productNamespace, []byte(key)).String()
}

// normalizeTags lowercases and trims tags, dropping blanks and duplicates
func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	result := make([]string, 0, len(tags))

	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		result = append(result, tag)
	}

	return result
}

// normalizeVegType keeps known categories, files unknown ones under other,
// and leaves non-vegetables without a category
func normalizeVegType(raw string) domain.VegType {
	v := domain.VegType(strings.ToLower(strings.TrimSpace(raw)))
	if v == "" || v.Valid() {
		return v
	}
	return domain.VegTypeOther
}
