package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/cake_shop/internal/models"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type CategorySlug string

const (
	CategoryClassic CategorySlug = "classic"
	CategoryBento   CategorySlug = "bento"
)

func ParseCategory(s string) (CategorySlug, bool) {
	switch CategorySlug(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryClassic:
		return CategoryClassic, true
	case CategoryBento:
		return CategoryBento, true
	}
	return "", false
}

type Variant struct {
	ID          uuid.UUID       `json:"id"`
	SizeID      uuid.UUID       `json:"size_id"`
	SizeName    string          `json:"size_name"`
	SizeCode    string          `json:"size_code"`
	SortOrder   int             `json:"sort_order"`
	PriceRSD    decimal.Decimal `json:"price_rsd"`
	IsAvailable bool            `json:"is_available"`
}

type Cake struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Ingredients  string          `json:"ingredients"`
	BasePriceRSD decimal.Decimal `json:"base_price_rsd"`
	HasBasePrice bool            `json:"-"`
	IsBento      bool            `json:"is_bento"`
	IsAvailable  bool            `json:"is_available"`
	CategoryID   *uuid.UUID      `json:"category_id"`
	CategorySlug string          `json:"category_slug"`
	Variants     []Variant       `json:"variants"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Purchasable: bento needs a stored base price, classic needs an available variant.
func (c Cake) Purchasable() bool {
	if !c.IsAvailable {
		return false
	}
	if c.IsBento {
		return c.HasBasePrice
	}
	for _, v := range c.Variants {
		if v.IsAvailable {
			return true
		}
	}
	return false
}

func (c Cake) Variant(id uuid.UUID) (Variant, bool) {
	for _, v := range c.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

type MapOptions struct {
	// OnlyAvailableVariants drops variants with is_available=false.
	OnlyAvailableVariants bool
}

// MapCake turns a stored row into the view model. Variants without a size
// row are dropped, the rest sort by size sort_order ascending.
func MapCake(row models.Cake, opts MapOptions) Cake {
	out := Cake{
		ID:           row.ID,
		Name:         row.Name,
		IsBento:      row.IsBento,
		IsAvailable:  row.IsAvailable,
		CategoryID:   row.CategoryID,
		CreatedAt:    row.CreatedAt,
		BasePriceRSD: decimal.Zero,
		Variants:     []Variant{},
	}
	if row.Ingredients != nil {
		out.Ingredients = *row.Ingredients
	}
	if row.BasePriceRSD.Valid {
		out.BasePriceRSD = row.BasePriceRSD.Decimal
		out.HasBasePrice = true
	}
	if row.Category != nil {
		out.CategorySlug = row.Category.Slug
	}

	if row.IsBento {
		return out
	}

	for _, v := range row.Variants {
		if v.Size == nil {
			continue
		}
		if opts.OnlyAvailableVariants && !v.IsAvailable {
			continue
		}
		out.Variants = append(out.Variants, MapVariant(v))
	}
	SortVariants(out.Variants)
	return out
}

func MapVariant(v models.CakeVariant) Variant {
	out := Variant{
		ID:          v.ID,
		SizeID:      v.CakeSizeID,
		PriceRSD:    v.PriceRSD,
		IsAvailable: v.IsAvailable,
	}
	if v.Size != nil {
		out.SizeName = v.Size.Name
		out.SizeCode = v.Size.Code
		if v.Size.SortOrder != nil {
			out.SortOrder = *v.Size.SortOrder
		}
	}
	return out
}

func SortVariants(vs []Variant) {
	sort.SliceStable(vs, func(i, j int) bool { return vs[i].SortOrder < vs[j].SortOrder })
}
