package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one cash movement. The three links are descriptive
// back-references; an entry may carry none, one or several of them.
type LedgerEntry struct {
	ID          EntryID         `gorm:"primaryKey"`
	Date        time.Time       `gorm:"not null;index"`
	Direction   Direction       `gorm:"type:varchar(20);not null"`
	Channel     Channel         `gorm:"type:varchar(20);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Description string
	CustomerID  *CustomerID `gorm:"index"`
	SupplierID  *SupplierID `gorm:"index"`
	OrderID     *OrderID    `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Customer *Customer `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID;constraint:OnDelete:RESTRICT"`
	Order    *Order    `gorm:"foreignKey:OrderID;constraint:OnDelete:RESTRICT"`
}

func (LedgerEntry) TableName() string { return "ledger_entries" }

// LedgerEntryView joins the partner names for listing.
type LedgerEntryView struct {
	LedgerEntry
	CustomerName *string
	SupplierName *string
}
