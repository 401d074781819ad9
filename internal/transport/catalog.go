package transport

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/cake_shop/internal/models"
	"github.com/Skotchmaster/cake_shop/internal/service"
)

var (
	ErrBentoNeedsPrice   = errors.New("bento cakes require a base price")
	ErrClassicNeedsSizes = errors.New("classic cakes require at least one sized price")
	ErrNegativePrice     = errors.New("prices must not be negative")
)

type VariantRequest struct {
	SizeID   uuid.UUID       `json:"size_id" validate:"required" label:"size"`
	PriceRSD decimal.Decimal `json:"price_rsd"`
}

type CakeRequest struct {
	Name         string           `json:"name" validate:"required,max=200"`
	Ingredients  *string          `json:"ingredients"`
	BasePriceRSD *decimal.Decimal `json:"base_price_rsd"`
	IsBento      bool             `json:"is_bento"`
	IsAvailable  *bool            `json:"is_available"`
	CategoryID   *uuid.UUID       `json:"category_id"`
	Variants     []VariantRequest `json:"variants" validate:"dive"`
}

func (r *CakeRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

// Validate checks the rules that span fields: bento needs a base price,
// classic needs at least one size with a price.
func (r CakeRequest) Validate() error {
	if r.IsBento {
		if r.BasePriceRSD == nil {
			return ErrBentoNeedsPrice
		}
		if r.BasePriceRSD.IsNegative() {
			return ErrNegativePrice
		}
		return nil
	}
	if len(r.Variants) == 0 {
		return ErrClassicNeedsSizes
	}
	for _, v := range r.Variants {
		if v.PriceRSD.IsNegative() {
			return ErrNegativePrice
		}
	}
	return nil
}

func (r CakeRequest) ToInput() service.CakeInput {
	in := service.CakeInput{
		Name:         r.Name,
		Ingredients:  r.Ingredients,
		BasePriceRSD: r.BasePriceRSD,
		IsBento:      r.IsBento,
		IsAvailable:  true,
		CategoryID:   r.CategoryID,
	}
	if r.IsAvailable != nil {
		in.IsAvailable = *r.IsAvailable
	}
	if !r.IsBento {
		in.Variants = toVariantInputs(r.Variants)
	}
	return in
}

// OptionalDecimal tells an absent field from an explicit null.
type OptionalDecimal struct {
	Set   bool
	Value decimal.NullDecimal
}

func (o *OptionalDecimal) UnmarshalJSON(b []byte) error {
	o.Set = true
	return o.Value.UnmarshalJSON(b)
}

type PatchCakeRequest struct {
	Name         *string           `json:"name"`
	Ingredients  *string           `json:"ingredients"`
	BasePriceRSD OptionalDecimal   `json:"base_price_rsd"`
	IsBento      *bool             `json:"is_bento"`
	IsAvailable  *bool             `json:"is_available"`
	CategoryID   *uuid.UUID        `json:"category_id"`
	Variants     *[]VariantRequest `json:"variants"`
}

func (r PatchCakeRequest) ToPatch() service.CakePatch {
	p := service.CakePatch{
		Name:        r.Name,
		Ingredients: r.Ingredients,
		IsBento:     r.IsBento,
		IsAvailable: r.IsAvailable,
		CategoryID:  r.CategoryID,
	}
	if r.BasePriceRSD.Set {
		price := r.BasePriceRSD.Value
		p.BasePriceRSD = &price
	}
	if r.Variants != nil {
		vs := toVariantInputs(*r.Variants)
		p.Variants = &vs
	}
	return p
}

// Merge applies the patch over the stored cake so the whole result can be
// checked with the create rules.
func (r PatchCakeRequest) Merge(cur models.Cake) CakeRequest {
	out := CakeRequest{
		Name:        cur.Name,
		Ingredients: cur.Ingredients,
		IsBento:     cur.IsBento,
		IsAvailable: &cur.IsAvailable,
		CategoryID:  cur.CategoryID,
	}
	if cur.BasePriceRSD.Valid {
		price := cur.BasePriceRSD.Decimal
		out.BasePriceRSD = &price
	}
	for _, v := range cur.Variants {
		out.Variants = append(out.Variants, VariantRequest{SizeID: v.CakeSizeID, PriceRSD: v.PriceRSD})
	}

	if r.Name != nil {
		out.Name = *r.Name
	}
	if r.Ingredients != nil {
		out.Ingredients = r.Ingredients
	}
	if r.BasePriceRSD.Set {
		out.BasePriceRSD = nil
		if r.BasePriceRSD.Value.Valid {
			price := r.BasePriceRSD.Value.Decimal
			out.BasePriceRSD = &price
		}
	}
	if r.IsBento != nil {
		out.IsBento = *r.IsBento
	}
	if r.IsAvailable != nil {
		out.IsAvailable = r.IsAvailable
	}
	if r.CategoryID != nil {
		out.CategoryID = r.CategoryID
	}
	if r.Variants != nil {
		out.Variants = append([]VariantRequest(nil), (*r.Variants)...)
	}
	out.Normalize()
	return out
}

type SetVariantsRequest struct {
	Variants []VariantRequest `json:"variants"`
}

func (r SetVariantsRequest) ToInputs() []service.VariantInput {
	return toVariantInputs(r.Variants)
}

func toVariantInputs(vs []VariantRequest) []service.VariantInput {
	out := make([]service.VariantInput, 0, len(vs))
	for _, v := range vs {
		out = append(out, service.VariantInput{SizeID: v.SizeID, PriceRSD: v.PriceRSD})
	}
	return out
}

type CreatedResponse struct {
	ID uuid.UUID `json:"id"`
}
