package service

import (
	"context"
	"strings"

	"tradebook/internal/dto"
	"tradebook/internal/errs"
	"tradebook/internal/model"
	"tradebook/internal/repository"

	"github.com/shopspring/decimal"
)

// ComputeTotal returns Σ(quantity × unit price) + freight − commission.
func ComputeTotal(lines []model.OrderLine, freight, commission decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total.Add(freight).Sub(commission)
}

// ParseAmount parses freight or commission text as entered. Blank means zero.
func ParseAmount(field, text string) (decimal.Decimal, error) {
	t := strings.TrimSpace(text)
	if t == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(t)
	if err != nil {
		return decimal.Zero, errs.Invalid(EntityOrder, field, "not a number")
	}
	return d, nil
}

func parseAmountLenient(text string) decimal.Decimal {
	d, err := ParseAmount("", text)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// DraftLine is a line being assembled before commit.
type DraftLine struct {
	Ref         int
	ProductID   model.ProductID
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

func (l DraftLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// OrderDraft accumulates lines on the caller's side. Nothing is persisted
// until the draft is turned into a request and committed.
type OrderDraft struct {
	products repository.ProductRepository
	lines    []DraftLine
	nextRef  int
}

func NewOrderDraft(products repository.ProductRepository) *OrderDraft {
	return &OrderDraft{products: products, nextRef: 1}
}

// AddLine snapshots the product's current selling price as the unit price.
func (d *OrderDraft) AddLine(ctx context.Context, productID model.ProductID, quantity int) (DraftLine, error) {
	return d.addLine(ctx, productID, quantity, nil)
}

func (d *OrderDraft) addLine(ctx context.Context, productID model.ProductID, quantity int, price *decimal.Decimal) (DraftLine, error) {
	if quantity <= 0 {
		return DraftLine{}, errs.Invalid(EntityOrderLine, "quantity", "must be a positive integer")
	}
	if price != nil && price.IsNegative() {
		return DraftLine{}, errs.Invalid(EntityOrderLine, "unit_price", "must not be negative")
	}
	p, err := d.products.FindByID(ctx, productID)
	if err != nil {
		return DraftLine{}, notFound(EntityProduct, uint(productID), "find product", err)
	}
	unit := p.SellingPrice
	if price != nil {
		unit = *price
	}
	line := DraftLine{
		Ref:         d.nextRef,
		ProductID:   p.ID,
		ProductName: p.Name,
		Quantity:    quantity,
		UnitPrice:   unit,
	}
	d.nextRef++
	d.lines = append(d.lines, line)
	return line, nil
}

// RemoveLine drops one line by the ref AddLine returned.
func (d *OrderDraft) RemoveLine(ref int) error {
	for i, l := range d.lines {
		if l.Ref == ref {
			d.lines = append(d.lines[:i], d.lines[i+1:]...)
			return nil
		}
	}
	return &errs.NotFoundError{Entity: "draft line", ID: uint(ref)}
}

func (d *OrderDraft) Lines() []DraftLine {
	out := make([]DraftLine, len(d.lines))
	copy(out, d.lines)
	return out
}

// Total is the running total shown while drafting. Freight or commission
// text that does not parse counts as zero here; Request rejects it.
func (d *OrderDraft) Total(freightText, commissionText string) decimal.Decimal {
	return ComputeTotal(d.orderLines(), parseAmountLenient(freightText), parseAmountLenient(commissionText))
}

// Request turns the draft into a commit request, parsing freight and
// commission strictly.
func (d *OrderDraft) Request(customerID model.CustomerID, channel model.Channel, freightText, commissionText, notes string) (dto.OrderRequest, error) {
	fields := map[string]string{}
	freight, err := ParseAmount("freight_cost", freightText)
	if err != nil {
		fields["freight_cost"] = "not a number"
	}
	commission, err := ParseAmount("commission", commissionText)
	if err != nil {
		fields["commission"] = "not a number"
	}
	if len(fields) > 0 {
		return dto.OrderRequest{}, errs.NewValidation(EntityOrder, fields)
	}

	req := dto.OrderRequest{
		CustomerID:  customerID,
		Channel:     channel,
		FreightCost: freight,
		Commission:  commission,
		Notes:       notes,
	}
	for _, l := range d.lines {
		price := l.UnitPrice
		req.Lines = append(req.Lines, dto.OrderLineRequest{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: &price,
		})
	}
	return req, nil
}

func (d *OrderDraft) orderLines() []model.OrderLine {
	lines := make([]model.OrderLine, 0, len(d.lines))
	for _, l := range d.lines {
		lines = append(lines, model.OrderLine{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	return lines
}
