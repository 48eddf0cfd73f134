package dto

import (
	"tradebook/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultReorderThreshold applies when a product request leaves the
// threshold out.
const DefaultReorderThreshold = 10

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ProductRequest is used both to add and to edit a product; an edit replaces
// every field with the values given here.
type ProductRequest struct {
	Name             string            `json:"name"              validate:"required,max=120"`
	CategoryID       *model.CategoryID `json:"category_id"       validate:"required"`
	SupplierID       *model.SupplierID `json:"supplier_id"`
	Quantity         int               `json:"quantity"          validate:"min=0"`
	PurchasePrice    decimal.Decimal   `json:"purchase_price"    validate:"min=0"`
	SellingPrice     decimal.Decimal   `json:"selling_price"     validate:"min=0"`
	ReorderThreshold *int              `json:"reorder_threshold" validate:"omitempty,min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID               model.ProductID   `json:"id"`
	Name             string            `json:"name"`
	CategoryID       *model.CategoryID `json:"category_id"`
	SupplierID       *model.SupplierID `json:"supplier_id"`
	Quantity         int               `json:"quantity"`
	PurchasePrice    decimal.Decimal   `json:"purchase_price"`
	SellingPrice     decimal.Decimal   `json:"selling_price"`
	ReorderThreshold int               `json:"reorder_threshold"`
	BelowThreshold   bool              `json:"below_threshold"`
}
