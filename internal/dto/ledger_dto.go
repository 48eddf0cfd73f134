package dto

import (
	"time"

	"tradebook/internal/model"

	"github.com/shopspring/decimal"
)

// ── Request DTOs ──────────────────────────────────────────────────────────────

// LedgerEntryRequest records a new entry or fully replaces an existing one.
// The three links are independent and optional.
type LedgerEntryRequest struct {
	Direction   model.Direction   `json:"direction"   validate:"required,oneof=income expense"`
	Channel     model.Channel     `json:"channel"     validate:"required,oneof=corporate personal"`
	Amount      decimal.Decimal   `json:"amount"      validate:"gt=0"`
	Description string            `json:"description"`
	CustomerID  *model.CustomerID `json:"customer_id"`
	SupplierID  *model.SupplierID `json:"supplier_id"`
	OrderID     *model.OrderID    `json:"order_id"`
	Date        *time.Time        `json:"date"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type LedgerEntryResponse struct {
	ID           model.EntryID     `json:"id"`
	Date         time.Time         `json:"date"`
	Direction    model.Direction   `json:"direction"`
	Channel      model.Channel     `json:"channel"`
	Amount       decimal.Decimal   `json:"amount"`
	Description  string            `json:"description"`
	CustomerID   *model.CustomerID `json:"customer_id"`
	CustomerName *string           `json:"customer_name,omitempty"`
	SupplierID   *model.SupplierID `json:"supplier_id"`
	SupplierName *string           `json:"supplier_name,omitempty"`
	OrderID      *model.OrderID    `json:"order_id"`
}

type ChannelTotals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

type LedgerSummaryResponse struct {
	Income    decimal.Decimal                 `json:"income"`
	Expense   decimal.Decimal                 `json:"expense"`
	Net       decimal.Decimal                 `json:"net"`
	ByChannel map[model.Channel]ChannelTotals `json:"by_channel"`
}
