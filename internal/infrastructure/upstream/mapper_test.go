package upstream

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/smartcart/backend/internal/domain"
)

func TestMapToProduct(t *testing.T) {
	t.Run("maps complete item", func(t *testing.T) {
		item := Item{
			ID:      "sku-1",
			Name:    "Carrot",
			Price:   decimal.RequireFromString("1.25"),
			Tags:    []string{"vegan", "gluten-free"},
			VegType: "root",
		}

		product := MapToProduct(item)

		assert.Equal(t, "sku-1", product.ID)
		assert.Equal(t, "Carrot", product.Name)
		assert.True(t, decimal.RequireFromString("1.25").Equal(product.Price))
		assert.Equal(t, []string{"vegan", "gluten-free"}, product.Tags)
		assert.Equal(t, domain.VegTypeRoot, product.VegType)
	})

	t.Run("normalizes tags", func(t *testing.T) {
		product := MapToProduct(Item{Name: "Kale", Tags: []string{" Vegan ", "vegan", "", "NON-GMO"}})
		assert.Equal(t, []string{"vegan", "non-gmo"}, product.Tags)
	})

	t.Run("nil tags become empty", func(t *testing.T) {
		product := MapToProduct(Item{Name: "Chicken"})
		assert.NotNil(t, product.Tags)
		assert.Empty(t, product.Tags)
	})

	t.Run("unknown vegType becomes other", func(t *testing.T) {
		product := MapToProduct(Item{Name: "Okra", VegType: "pod"})
		assert.Equal(t, domain.VegTypeOther, product.VegType)
	})

	t.Run("vegType is case-insensitive", func(t *testing.T) {
		product := MapToProduct(Item{Name: "Tomato", VegType: "Fruit_Vegetable"})
		assert.Equal(t, domain.VegTypeFruitVegetable, product.VegType)
	})

	t.Run("missing vegType stays empty", func(t *testing.T) {
		product := MapToProduct(Item{Name: "Bread"})
		assert.Equal(t, domain.VegType(""), product.VegType)
	})

	t.Run("missing id is derived from name", func(t *testing.T) {
		a := MapToProduct(Item{Name: "Tomato"})
		b := MapToProduct(Item{Name: "  tomato "})
		c := MapToProduct(Item{Name: "Apple"})

		assert.NotEmpty(t, a.ID)
		assert.Equal(t, a.ID, b.ID)
		assert.NotEqual(t, a.ID, c.ID)
	})
}

func TestMapToProducts(t *testing.T) {
	products := MapToProducts([]Item{{Name: "Tomato"}, {Name: "Apple"}, {Name: "Bread"}})

	assert.Len(t, products, 3)
	assert.Equal(t, "Tomato", products[0].Name)
	assert.Equal(t, "Apple", products[1].Name)
	assert.Equal(t, "Bread", products[2].Name)

	assert.Empty(t, MapToProducts(nil))
}
