package model

import "time"

// Category groups products. Names are unique within a book.
type Category struct {
	ID        CategoryID `gorm:"primaryKey"`
	Name      string     `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Category) TableName() string { return "categories" }
