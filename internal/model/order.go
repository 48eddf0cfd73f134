package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a committed sales order. TotalAmount is always
// Σ(line quantity × unit price) + FreightCost − Commission of the stored lines.
type Order struct {
	ID          OrderID         `gorm:"primaryKey"`
	CustomerID  CustomerID      `gorm:"not null;index"`
	Date        time.Time       `gorm:"not null;index"`
	Channel     Channel         `gorm:"type:varchar(20);not null"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	FreightCost decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Commission  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Customer *Customer  `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT"`
	Lines    []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:RESTRICT"`
}

func (Order) TableName() string { return "orders" }

// OrderLine is owned by its Order. UnitPrice is the selling price captured
// when the line was drafted and never follows later product price changes.
type OrderLine struct {
	ID        OrderLineID     `gorm:"primaryKey"`
	OrderID   OrderID         `gorm:"not null;index"`
	ProductID ProductID       `gorm:"not null;index"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
}

func (OrderLine) TableName() string { return "order_lines" }

func (l OrderLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// OrderSummary is the "order with customer name" projection.
type OrderSummary struct {
	ID           OrderID
	CustomerID   CustomerID
	CustomerName string
	Date         time.Time
	Channel      Channel
	TotalAmount  decimal.Decimal
	FreightCost  decimal.Decimal
	Commission   decimal.Decimal
	Notes        string
	LineCount    int
}
