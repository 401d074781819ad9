package transport

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/cake_shop/internal/cart"
)

// AddToCartRequest names a cake and, for classic cakes, the chosen size variant.
// Prices are looked up server side.
type AddToCartRequest struct {
	CakeID    uuid.UUID  `json:"cake_id"`
	VariantID *uuid.UUID `json:"variant_id"`
}

type SetQtyRequest struct {
	Qty int `json:"qty"`
}

type CartResponse struct {
	Items    []cart.Item     `json:"items"`
	Count    int             `json:"count"`
	TotalRSD decimal.Decimal `json:"total_rsd"`
}

func NewCartResponse(s *cart.Store) CartResponse {
	items := s.Items()
	return CartResponse{Items: items, Count: len(items), TotalRSD: cart.Total(items)}
}
