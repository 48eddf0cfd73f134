package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a stocked item. Quantity is the only counter other components
// adjust, and it may go below zero to represent a backorder.
type Product struct {
	ID               ProductID       `gorm:"primaryKey"`
	Name             string          `gorm:"index;not null"`
	CategoryID       *CategoryID     `gorm:"index"`
	SupplierID       *SupplierID     `gorm:"index"`
	Quantity         int             `gorm:"not null"`
	PurchasePrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SellingPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ReorderThreshold int             `gorm:"not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID;constraint:OnDelete:RESTRICT"`
}

func (Product) TableName() string { return "products" }

// BelowThreshold reports whether the product needs reordering.
func (p Product) BelowThreshold() bool {
	return p.Quantity <= p.ReorderThreshold
}
