package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog entry. CategoryID is nullable: a product may be
// uncategorized, and category deletion leaves products in place.
type Product struct {
	ID           uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Name         string          `json:"name" gorm:"size:255;not null;index"`
	Description  string          `json:"description" gorm:"type:text"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(20,2);not null"`
	CountInStock int             `json:"count_in_stock" gorm:"not null;default:0"`
	CategoryID   *uuid.UUID      `json:"category_id" gorm:"type:char(36);index"`
	CreatedAt    time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time       `json:"updated_at"`

	// Relations
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
