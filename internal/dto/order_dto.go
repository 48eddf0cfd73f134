package dto

import (
	"time"

	"tradebook/internal/model"

	"github.com/shopspring/decimal"
)

// ── Request DTOs ──────────────────────────────────────────────────────────────

// OrderLineRequest is one line of the final line set. UnitPrice is the
// snapshot taken while drafting; when nil the product's current selling
// price is used.
type OrderLineRequest struct {
	ProductID model.ProductID  `json:"product_id" validate:"required"`
	Quantity  int              `json:"quantity"   validate:"required,gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// OrderRequest commits a new order or fully replaces an existing one.
type OrderRequest struct {
	CustomerID  model.CustomerID   `json:"customer_id"  validate:"required"`
	Channel     model.Channel      `json:"channel"      validate:"required,oneof=corporate personal"`
	Lines       []OrderLineRequest `json:"lines"        validate:"required,min=1,dive"`
	FreightCost decimal.Decimal    `json:"freight_cost"`
	Commission  decimal.Decimal    `json:"commission"`
	Notes       string             `json:"notes"`
	Date        *time.Time         `json:"date"`
}

// QuoteRequest prices a draft without persisting it. Freight and commission
// arrive as entered; unparsable text counts as zero.
type QuoteRequest struct {
	Lines       []OrderLineRequest `json:"lines"        validate:"dive"`
	FreightCost string             `json:"freight_cost"`
	Commission  string             `json:"commission"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type OrderLineResponse struct {
	ID          model.OrderLineID `json:"id,omitempty"`
	ProductID   model.ProductID   `json:"product_id"`
	ProductName string            `json:"product_name"`
	Quantity    int               `json:"quantity"`
	UnitPrice   decimal.Decimal   `json:"unit_price"`
	Subtotal    decimal.Decimal   `json:"subtotal"`
}

type OrderResponse struct {
	ID           model.OrderID       `json:"id"`
	CustomerID   model.CustomerID    `json:"customer_id"`
	CustomerName string              `json:"customer_name"`
	Date         time.Time           `json:"date"`
	Channel      model.Channel       `json:"channel"`
	TotalAmount  decimal.Decimal     `json:"total_amount"`
	FreightCost  decimal.Decimal     `json:"freight_cost"`
	Commission   decimal.Decimal     `json:"commission"`
	Notes        string              `json:"notes"`
	Lines        []OrderLineResponse `json:"lines"`
}

type OrderListItem struct {
	ID           model.OrderID    `json:"id"`
	CustomerID   model.CustomerID `json:"customer_id"`
	CustomerName string           `json:"customer_name"`
	Date         time.Time        `json:"date"`
	Channel      model.Channel    `json:"channel"`
	TotalAmount  decimal.Decimal  `json:"total_amount"`
	FreightCost  decimal.Decimal  `json:"freight_cost"`
	Commission   decimal.Decimal  `json:"commission"`
	Notes        string           `json:"notes"`
	LineCount    int              `json:"line_count"`
}

type QuoteResponse struct {
	Lines []OrderLineResponse `json:"lines"`
	Total decimal.Decimal     `json:"total"`
}
