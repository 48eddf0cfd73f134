package dto

import "tradebook/internal/model"

// ── Request DTOs ──────────────────────────────────────────────────────────────

// SupplierRequest carries the full editable attribute set; edits replace
// every field.
type SupplierRequest struct {
	Name    string             `json:"name"    validate:"required,max=200"`
	Contact string             `json:"contact" validate:"max=200"`
	Address string             `json:"address" validate:"max=300"`
	Notes   string             `json:"notes"`
	Type    model.SupplierType `json:"type"    validate:"required,oneof=producer agent wholesaler"`
}

type CustomerRequest struct {
	Name    string             `json:"name"    validate:"required,max=200"`
	Contact string             `json:"contact" validate:"max=200"`
	Address string             `json:"address" validate:"max=300"`
	Notes   string             `json:"notes"`
	Type    model.CustomerType `json:"type"    validate:"required,oneof=prospect partner contacted"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type SupplierResponse struct {
	ID      model.SupplierID   `json:"id"`
	Name    string             `json:"name"`
	Contact string             `json:"contact"`
	Address string             `json:"address"`
	Notes   string             `json:"notes"`
	Type    model.SupplierType `json:"type"`
}

type CustomerResponse struct {
	ID      model.CustomerID   `json:"id"`
	Name    string             `json:"name"`
	Contact string             `json:"contact"`
	Address string             `json:"address"`
	Notes   string             `json:"notes"`
	Type    model.CustomerType `json:"type"`
}
