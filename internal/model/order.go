package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ShippingAddress is embedded in Order. Stored inline; an order keeps the
// address it was placed with even if the user later changes theirs.
type ShippingAddress struct {
	Address    string `json:"address" gorm:"size:255"`
	City       string `json:"city" gorm:"size:255"`
	PostalCode string `json:"postal_code" gorm:"size:32"`
	Country    string `json:"country" gorm:"size:255"`
}

// PaymentResult holds the external payment collaborator's confirmation
// details recorded when an order is marked paid.
type PaymentResult struct {
	PaymentID  string `json:"payment_id" gorm:"size:255"`
	Status     string `json:"status" gorm:"size:64"`
	UpdateTime string `json:"update_time" gorm:"size:64"`
	PayerEmail string `json:"payer_email" gorm:"size:255"`
}

// Order is an immutable price ledger entry. Price fields are computed once
// at creation; only the paid/delivered flags transition afterwards, and only
// forward.
type Order struct {
	ID              uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	UserID          uuid.UUID       `json:"user_id" gorm:"type:char(36);not null;index"`
	Items           []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	ShippingAddress ShippingAddress `json:"shipping_address" gorm:"embedded;embeddedPrefix:ship_"`
	PaymentResult   PaymentResult   `json:"payment_result" gorm:"embedded;embeddedPrefix:pay_"`
	ItemsPrice      decimal.Decimal `json:"items_price" gorm:"type:decimal(20,2);not null"`
	TaxPrice        decimal.Decimal `json:"tax_price" gorm:"type:decimal(20,2);not null"`
	ShippingPrice   decimal.Decimal `json:"shipping_price" gorm:"type:decimal(20,2);not null"`
	TotalPrice      decimal.Decimal `json:"total_price" gorm:"type:decimal(20,2);not null"`
	IsPaid          bool            `json:"is_paid" gorm:"not null;default:false"`
	PaidAt          *time.Time      `json:"paid_at"`
	IsDelivered     bool            `json:"is_delivered" gorm:"not null;default:false"`
	DeliveredAt     *time.Time      `json:"delivered_at"`
	CreatedAt       time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Relations
	User User `json:"user" gorm:"foreignKey:UserID"`
}

// OrderItem is a line item snapshot. ProductID carries no FK constraint:
// deleting a product must not touch orders that referenced it, so name and
// unit price are copied at order time.
type OrderItem struct {
	ID        uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	OrderID   uuid.UUID       `json:"order_id" gorm:"type:char(36);not null;index"`
	ProductID uuid.UUID       `json:"product_id" gorm:"type:char(36);not null"`
	Name      string          `json:"name" gorm:"size:255;not null"`
	Qty       int             `json:"qty" gorm:"not null"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal(20,2);not null"`
}

// BeforeCreate sets UUID before creating the record.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// BeforeCreate sets UUID before creating the record.
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
