package dto

import "tradebook/internal/model"

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type CategoryResponse struct {
	ID   model.CategoryID `json:"id"`
	Name string           `json:"name"`
}
