package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Order struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"        json:"id"`
	UserID             *uuid.UUID      `gorm:"type:uuid;index"             json:"user_id"`
	CustomerName       string          `gorm:"not null"                    json:"customer_name"`
	CustomerEmail      string          `gorm:"not null"                    json:"customer_email"`
	CustomerPhone      string          `gorm:"not null"                    json:"customer_phone"`
	DeliveryAddress    string          `gorm:"not null"                    json:"delivery_address"`
	DeliveryCity       string          `gorm:"not null"                    json:"delivery_city"`
	DeliveryPostalCode string          `gorm:"not null"                    json:"delivery_postal_code"`
	DeliveryNotes      *string         `json:"delivery_notes"`
	PaymentMethod      string          `json:"payment_method"`
	TotalRSD           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_rsd"`
	Status             string          `gorm:"index"                       json:"status"`
	CreatedAt          time.Time       `gorm:"index"                       json:"created_at"`
	Items              []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

type OrderItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"        json:"id"`
	OrderID      uuid.UUID       `gorm:"type:uuid;index;not null"    json:"order_id"`
	CakeID       uuid.UUID       `gorm:"type:uuid;not null"          json:"cake_id"`
	CakeName     string          `gorm:"not null"                    json:"cake_name"`
	VariantID    *uuid.UUID      `gorm:"type:uuid"                   json:"variant_id"`
	SizeLabel    *string         `json:"size_label"`
	UnitPriceRSD decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price_rsd"`
	Quantity     int             `gorm:"not null;check:quantity>0" json:"quantity"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
