package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/cake_shop/internal/models"
)

func intptr(n int) *int { return &n }

func sizedVariant(order int, price int64, available bool) models.CakeVariant {
	sizeID := uuid.New()
	return models.CakeVariant{
		ID:          uuid.New(),
		CakeSizeID:  sizeID,
		Size:        &models.CakeSize{ID: sizeID, Name: "size", Code: "S", SortOrder: intptr(order)},
		PriceRSD:    decimal.NewFromInt(price),
		IsAvailable: available,
	}
}

func TestMapCake_SortsAndFiltersVariants(t *testing.T) {
	t.Parallel()

	row := models.Cake{
		ID:          uuid.New(),
		Name:        "Chocolate",
		IsAvailable: true,
		Category:    &models.Category{Slug: "classic"},
		Variants: []models.CakeVariant{
			sizedVariant(3, 3000, true),
			sizedVariant(1, 1000, true),
			sizedVariant(2, 2000, true),
			sizedVariant(0, 500, false),
			{ID: uuid.New(), PriceRSD: decimal.NewFromInt(1), IsAvailable: true},
		},
	}

	got := MapCake(row, MapOptions{OnlyAvailableVariants: true})
	require.Len(t, got.Variants, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{got.Variants[0].SortOrder, got.Variants[1].SortOrder, got.Variants[2].SortOrder})
	assert.Equal(t, "classic", got.CategorySlug)
	assert.Equal(t, "", got.Ingredients)
	assert.True(t, got.BasePriceRSD.IsZero())
	assert.True(t, got.Purchasable())
}

func TestMapCake_NilSortOrderIsZero(t *testing.T) {
	t.Parallel()

	v := sizedVariant(0, 100, true)
	v.Size.SortOrder = nil
	got := MapCake(models.Cake{IsAvailable: true, Variants: []models.CakeVariant{sizedVariant(1, 200, true), v}}, MapOptions{})

	require.Len(t, got.Variants, 2)
	assert.Equal(t, 0, got.Variants[0].SortOrder)
}

func TestMapCake_BentoIgnoresVariants(t *testing.T) {
	t.Parallel()

	row := models.Cake{
		Name:         "Bento",
		IsBento:      true,
		IsAvailable:  true,
		BasePriceRSD: decimal.NewNullDecimal(decimal.NewFromInt(1500)),
		Variants:     []models.CakeVariant{sizedVariant(1, 100, true)},
	}

	got := MapCake(row, MapOptions{})
	assert.Empty(t, got.Variants)
	assert.NotNil(t, got.Variants)
	assert.True(t, got.BasePriceRSD.Equal(decimal.NewFromInt(1500)))
	assert.True(t, got.Purchasable())
}

func TestPurchasable_ClassicNeedsAvailableVariant(t *testing.T) {
	t.Parallel()

	got := MapCake(models.Cake{IsAvailable: true, Variants: []models.CakeVariant{sizedVariant(1, 100, false)}}, MapOptions{})
	assert.False(t, got.Purchasable())

	got = MapCake(models.Cake{IsAvailable: false, IsBento: true}, MapOptions{})
	assert.False(t, got.Purchasable())
}

func TestPurchasable_BentoNeedsBasePrice(t *testing.T) {
	t.Parallel()

	got := MapCake(models.Cake{IsAvailable: true, IsBento: true}, MapOptions{})
	assert.True(t, got.BasePriceRSD.IsZero())
	assert.False(t, got.Purchasable())
}

func TestParseCategory(t *testing.T) {
	t.Parallel()

	c, ok := ParseCategory(" Bento")
	assert.True(t, ok)
	assert.Equal(t, CategoryBento, c)

	_, ok = ParseCategory("vegan")
	assert.False(t, ok)
}
