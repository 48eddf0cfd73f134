package model

import "time"

// Supplier is a trading partner goods are bought from.
type Supplier struct {
	ID        SupplierID   `gorm:"primaryKey"`
	Name      string       `gorm:"index;not null"`
	Contact   string
	Address   string
	Notes     string
	Type      SupplierType `gorm:"type:varchar(20);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Supplier) TableName() string { return "suppliers" }

// Customer is a trading partner orders are sold to.
type Customer struct {
	ID        CustomerID   `gorm:"primaryKey"`
	Name      string       `gorm:"index;not null"`
	Contact   string
	Address   string
	Notes     string
	Type      CustomerType `gorm:"type:varchar(20);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Customer) TableName() string { return "customers" }
