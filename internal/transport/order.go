package transport

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/cake_shop/internal/cart"
	"github.com/Skotchmaster/cake_shop/internal/domain"
	"github.com/Skotchmaster/cake_shop/internal/service"
)

type CheckoutRequest struct {
	CustomerName       string  `json:"customer_name" validate:"required" label:"name"`
	CustomerEmail      string  `json:"customer_email" validate:"required,email" label:"email"`
	CustomerPhone      string  `json:"customer_phone" validate:"required" label:"phone number"`
	DeliveryAddress    string  `json:"delivery_address" validate:"required" label:"delivery address"`
	DeliveryCity       string  `json:"delivery_city" validate:"required" label:"delivery city"`
	DeliveryPostalCode string  `json:"delivery_postal_code" validate:"required" label:"postal code"`
	DeliveryNotes      *string `json:"delivery_notes"`
	PaymentMethod      string  `json:"payment_method" validate:"omitempty,oneof=cash card" label:"payment method"`
}

// Normalize trims the form in place. Blank notes become nil and a missing
// payment method means cash.
func (r *CheckoutRequest) Normalize() {
	for _, f := range []*string{
		&r.CustomerName, &r.CustomerEmail, &r.CustomerPhone,
		&r.DeliveryAddress, &r.DeliveryCity, &r.DeliveryPostalCode,
	} {
		*f = strings.TrimSpace(*f)
	}

	if r.DeliveryNotes != nil {
		notes := strings.TrimSpace(*r.DeliveryNotes)
		if notes == "" {
			r.DeliveryNotes = nil
		} else {
			r.DeliveryNotes = &notes
		}
	}

	r.PaymentMethod = strings.ToLower(strings.TrimSpace(r.PaymentMethod))
	if r.PaymentMethod == "" {
		r.PaymentMethod = string(domain.PaymentCash)
	}
}

func (r CheckoutRequest) ToInput(userID *uuid.UUID, items []cart.Item) service.CreateOrderInput {
	return service.CreateOrderInput{
		UserID:             userID,
		CustomerName:       r.CustomerName,
		CustomerEmail:      r.CustomerEmail,
		CustomerPhone:      r.CustomerPhone,
		DeliveryAddress:    r.DeliveryAddress,
		DeliveryCity:       r.DeliveryCity,
		DeliveryPostalCode: r.DeliveryPostalCode,
		DeliveryNotes:      r.DeliveryNotes,
		PaymentMethod:      domain.PaymentMethod(r.PaymentMethod),
		Items:              items,
	}
}

type CheckoutResponse struct {
	OrderID  uuid.UUID       `json:"order_id"`
	TotalRSD decimal.Decimal `json:"total_rsd"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}
