package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Category struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"   json:"id"`
	Name string    `gorm:"not null"               json:"name"`
	Slug string    `gorm:"uniqueIndex;not null"   json:"slug"`
}

type CakeSize struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null"             json:"name"`
	Code      string    `gorm:"uniqueIndex;not null" json:"code"`
	SortOrder *int      `json:"sort_order"`
}

type Cake struct {
	ID           uuid.UUID           `gorm:"type:uuid;primaryKey"     json:"id"`
	Name         string              `gorm:"not null"                 json:"name"`
	Ingredients  *string             `json:"ingredients"`
	BasePriceRSD decimal.NullDecimal `gorm:"type:numeric(12,2)"       json:"base_price_rsd"`
	IsBento      bool                `gorm:"not null"                 json:"is_bento"`
	IsAvailable  bool                `gorm:"not null;index"           json:"is_available"`
	CategoryID   *uuid.UUID          `gorm:"type:uuid;index"          json:"category_id"`
	Category     *Category           `json:"category,omitempty"`
	Variants     []CakeVariant       `gorm:"foreignKey:CakeID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	CreatedAt    time.Time           `gorm:"index"                    json:"created_at"`
}

type CakeVariant struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"         json:"id"`
	CakeID      uuid.UUID       `gorm:"type:uuid;index;not null"     json:"cake_id"`
	CakeSizeID  uuid.UUID       `gorm:"type:uuid;not null"           json:"cake_size_id"`
	Size        *CakeSize       `gorm:"foreignKey:CakeSizeID;references:ID" json:"size,omitempty"`
	PriceRSD    decimal.Decimal `gorm:"type:numeric(12,2);not null"  json:"price_rsd"`
	IsAvailable bool            `gorm:"not null"                     json:"is_available"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (s *CakeSize) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (c *Cake) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (v *CakeVariant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
