package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/cake_shop/internal/models"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusDelivered, StatusCancelled},
}

func ParseStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return st, true
	}
	return "", false
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(strings.ToLower(strings.TrimSpace(s))) {
	case PaymentCash:
		return PaymentCash, true
	case PaymentCard:
		return PaymentCard, true
	}
	return "", false
}

type OrderItem struct {
	CakeID       uuid.UUID       `json:"cake_id"`
	CakeName     string          `json:"cake_name"`
	VariantID    *uuid.UUID      `json:"variant_id"`
	SizeLabel    *string         `json:"size_label"`
	UnitPriceRSD decimal.Decimal `json:"unit_price_rsd"`
	Quantity     int             `json:"quantity"`
}

type Order struct {
	ID                 uuid.UUID       `json:"id"`
	UserID             *uuid.UUID      `json:"user_id"`
	CustomerName       string          `json:"customer_name"`
	CustomerEmail      string          `json:"customer_email"`
	CustomerPhone      string          `json:"customer_phone"`
	DeliveryAddress    string          `json:"delivery_address"`
	DeliveryCity       string          `json:"delivery_city"`
	DeliveryPostalCode string          `json:"delivery_postal_code"`
	DeliveryNotes      *string         `json:"delivery_notes"`
	PaymentMethod      PaymentMethod   `json:"payment_method"`
	TotalRSD           decimal.Decimal `json:"total_rsd"`
	Status             OrderStatus     `json:"status"`
	CreatedAt          time.Time       `json:"created_at"`
	Items              []OrderItem     `json:"items"`
}

// MapOrder defaults what the store may leave blank: cash, pending, no items.
func MapOrder(row models.Order) Order {
	pm, ok := ParsePaymentMethod(row.PaymentMethod)
	if !ok {
		pm = PaymentCash
	}
	st, ok := ParseStatus(row.Status)
	if !ok {
		st = StatusPending
	}

	out := Order{
		ID:                 row.ID,
		UserID:             row.UserID,
		CustomerName:       row.CustomerName,
		CustomerEmail:      row.CustomerEmail,
		CustomerPhone:      row.CustomerPhone,
		DeliveryAddress:    row.DeliveryAddress,
		DeliveryCity:       row.DeliveryCity,
		DeliveryPostalCode: row.DeliveryPostalCode,
		DeliveryNotes:      row.DeliveryNotes,
		PaymentMethod:      pm,
		TotalRSD:           row.TotalRSD,
		Status:             st,
		CreatedAt:          row.CreatedAt,
		Items:              make([]OrderItem, 0, len(row.Items)),
	}
	for _, it := range row.Items {
		out.Items = append(out.Items, OrderItem{
			CakeID:       it.CakeID,
			CakeName:     it.CakeName,
			VariantID:    it.VariantID,
			SizeLabel:    it.SizeLabel,
			UnitPriceRSD: it.UnitPriceRSD,
			Quantity:     it.Quantity,
		})
	}
	return out
}
