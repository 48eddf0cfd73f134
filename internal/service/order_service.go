package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tradebook/internal/dto"
	"tradebook/internal/errs"
	"tradebook/internal/model"
	"tradebook/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// OrderService is the order engine. Commit, revise and cancel each run as a
// single unit of work spanning the header, its lines and the inventory
// quantities they move.
type OrderService interface {
	Commit(ctx context.Context, req dto.OrderRequest) (*dto.OrderResponse, error)
	Revise(ctx context.Context, id model.OrderID, req dto.OrderRequest) (*dto.OrderResponse, error)
	Cancel(ctx context.Context, id model.OrderID) error
	Get(ctx context.Context, id model.OrderID) (*dto.OrderResponse, error)
	List(ctx context.Context) ([]dto.OrderListItem, error)
	ListLines(ctx context.Context, id model.OrderID) ([]dto.OrderLineResponse, error)
	Quote(ctx context.Context, req dto.QuoteRequest) (*dto.QuoteResponse, error)
	NewDraft() *OrderDraft
}

type orderService struct {
	orders    repository.OrderRepository
	products  repository.ProductRepository
	inventory InventoryService
	guard     *IntegrityGuard
	uow       *UnitOfWork
	events    OrderEvents
	now       func() time.Time
}

// NewOrderService wires the engine. events may be nil.
func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	inventory InventoryService,
	guard *IntegrityGuard,
	uow *UnitOfWork,
	events OrderEvents,
) OrderService {
	return &orderService{
		orders:    orders,
		products:  products,
		inventory: inventory,
		guard:     guard,
		uow:       uow,
		events:    events,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *orderService) NewDraft() *OrderDraft {
	return NewOrderDraft(s.products)
}

// ── Validation ────────────────────────────────────────────────────────────────

func validateOrderRequest(req dto.OrderRequest) error {
	fields := map[string]string{}
	if req.CustomerID == 0 {
		fields["customer_id"] = "required"
	}
	if !req.Channel.Valid() {
		fields["channel"] = "must be corporate or personal"
	}
	if len(req.Lines) == 0 {
		fields["lines"] = "at least one line required"
	}
	for i, l := range req.Lines {
		if l.ProductID == 0 {
			fields[fmt.Sprintf("lines[%d].product_id", i)] = "required"
		}
		if l.Quantity <= 0 {
			fields[fmt.Sprintf("lines[%d].quantity", i)] = "must be a positive integer"
		}
		if l.UnitPrice != nil && l.UnitPrice.IsNegative() {
			fields[fmt.Sprintf("lines[%d].unit_price", i)] = "must not be negative"
		}
	}
	if req.FreightCost.IsNegative() {
		fields["freight_cost"] = "must not be negative"
	}
	if req.Commission.IsNegative() {
		fields["commission"] = "must not be negative"
	}
	if len(fields) > 0 {
		return errs.NewValidation(EntityOrder, fields)
	}
	return nil
}

// resolveLines loads every referenced product inside tx and fixes each unit
// price: the draft snapshot when given, else the current selling price.
func (s *orderService) resolveLines(tx *gorm.DB, in []dto.OrderLineRequest) ([]model.OrderLine, error) {
	lines := make([]model.OrderLine, 0, len(in))
	missing := map[string]string{}
	for i, l := range in {
		p, err := s.products.FindByIDTx(tx, l.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				missing[fmt.Sprintf("lines[%d].product_id", i)] = "does not exist"
				continue
			}
			return nil, err
		}
		price := p.SellingPrice
		if l.UnitPrice != nil {
			price = *l.UnitPrice
		}
		lines = append(lines, model.OrderLine{
			ProductID: p.ID,
			Quantity:  l.Quantity,
			UnitPrice: price.Round(2),
		})
	}
	if len(missing) > 0 {
		return nil, errs.NewValidation(EntityOrder, missing)
	}
	return lines, nil
}

// writeLines inserts the lines of order id and takes their quantities out
// of inventory.
func (s *orderService) writeLines(tx *gorm.DB, id model.OrderID, lines []model.OrderLine) error {
	for i := range lines {
		lines[i].OrderID = id
		if err := s.orders.CreateLineTx(tx, &lines[i]); err != nil {
			return err
		}
		if err := s.inventory.adjustQuantity(tx, lines[i].ProductID, -lines[i].Quantity); err != nil {
			return err
		}
	}
	return nil
}

// restock puts the quantities of lines back into inventory.
func (s *orderService) restock(tx *gorm.DB, lines []model.OrderLine) error {
	for _, l := range lines {
		if err := s.inventory.adjustQuantity(tx, l.ProductID, l.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func applyHeader(o *model.Order, req dto.OrderRequest, lines []model.OrderLine) {
	o.CustomerID = req.CustomerID
	o.Channel = req.Channel
	o.FreightCost = req.FreightCost.Round(2)
	o.Commission = req.Commission.Round(2)
	o.Notes = strings.TrimSpace(req.Notes)
	o.TotalAmount = ComputeTotal(lines, o.FreightCost, o.Commission).Round(2)
	if req.Date != nil {
		o.Date = req.Date.UTC()
	}
}

// ── Commit / Revise / Cancel ──────────────────────────────────────────────────

// Commit persists a new order. Either the header, every line and every
// inventory decrement are written, or none of them are.
func (s *orderService) Commit(ctx context.Context, req dto.OrderRequest) (*dto.OrderResponse, error) {
	if err := validateOrderRequest(req); err != nil {
		return nil, err
	}

	var order model.Order
	var lines []model.OrderLine
	err := s.uow.Do(ctx, "commit order", func(tx *gorm.DB) error {
		if err := s.guard.ResolveRefs(tx, EntityOrder, []Ref{
			{Field: "customer_id", Entity: EntityCustomer, ID: uint(req.CustomerID)},
		}); err != nil {
			return err
		}
		var err error
		lines, err = s.resolveLines(tx, req.Lines)
		if err != nil {
			return err
		}

		order = model.Order{Date: s.now()}
		applyHeader(&order, req, lines)
		if err := s.orders.CreateTx(tx, &order); err != nil {
			return err
		}
		return s.writeLines(tx, order.ID, lines)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint("order_id", uint(order.ID)).Int("lines", len(lines)).
		Str("total", order.TotalAmount.StringFixed(2)).Msg("order committed")
	publish(ctx, s.events, OrderEvent{Type: OrderCommitted, OrderID: order.ID, ProductIDs: productIDsOf(lines)})
	return s.Get(ctx, order.ID)
}

// Revise replaces the header and the whole line set of an existing order.
// Quantities of the replaced lines go back into inventory before the new
// lines are taken out.
func (s *orderService) Revise(ctx context.Context, id model.OrderID, req dto.OrderRequest) (*dto.OrderResponse, error) {
	if err := validateOrderRequest(req); err != nil {
		return nil, err
	}

	var oldLines, newLines []model.OrderLine
	err := s.uow.Do(ctx, "revise order", func(tx *gorm.DB) error {
		order, err := s.orders.FindByIDTx(tx, id)
		if err != nil {
			return notFound(EntityOrder, uint(id), "find order", err)
		}
		if err := s.guard.ResolveRefs(tx, EntityOrder, []Ref{
			{Field: "customer_id", Entity: EntityCustomer, ID: uint(req.CustomerID)},
		}); err != nil {
			return err
		}
		newLines, err = s.resolveLines(tx, req.Lines)
		if err != nil {
			return err
		}

		oldLines, err = s.orders.LinesTx(tx, id)
		if err != nil {
			return err
		}
		if err := s.restock(tx, oldLines); err != nil {
			return err
		}
		if _, err := s.orders.DeleteLinesTx(tx, id); err != nil {
			return err
		}
		if err := s.writeLines(tx, id, newLines); err != nil {
			return err
		}

		applyHeader(order, req, newLines)
		return s.orders.UpdateHeaderTx(tx, order)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint("order_id", uint(id)).Int("lines", len(newLines)).Msg("order revised")
	publish(ctx, s.events, OrderEvent{Type: OrderRevised, OrderID: id, ProductIDs: productIDsOf(oldLines, newLines)})
	return s.Get(ctx, id)
}

// Cancel deletes an order that no ledger entry refers to. Its lines are
// removed with it and their quantities return to inventory.
func (s *orderService) Cancel(ctx context.Context, id model.OrderID) error {
	var lines []model.OrderLine
	err := s.uow.Do(ctx, "cancel order", func(tx *gorm.DB) error {
		if err := s.guard.RequireExists(tx, EntityOrder, uint(id)); err != nil {
			return err
		}
		if err := s.guard.CheckOrder(tx, id); err != nil {
			return err
		}
		var err error
		lines, err = s.orders.LinesTx(tx, id)
		if err != nil {
			return err
		}
		if err := s.restock(tx, lines); err != nil {
			return err
		}
		if _, err := s.orders.DeleteLinesTx(tx, id); err != nil {
			return err
		}
		n, err := s.orders.DeleteTx(tx, id)
		if err != nil {
			return err
		}
		if n != 1 {
			return &errs.NotFoundError{Entity: EntityOrder, ID: uint(id)}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Uint("order_id", uint(id)).Msg("order cancelled")
	publish(ctx, s.events, OrderEvent{Type: OrderCancelled, OrderID: id, ProductIDs: productIDsOf(lines)})
	return nil
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func mapOrderLine(l *model.OrderLine) dto.OrderLineResponse {
	r := dto.OrderLineResponse{
		ID:        l.ID,
		ProductID: l.ProductID,
		Quantity:  l.Quantity,
		UnitPrice: l.UnitPrice,
		Subtotal:  l.Subtotal(),
	}
	if l.Product != nil {
		r.ProductName = l.Product.Name
	}
	return r
}

func mapOrder(o *model.Order) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		Date:        o.Date,
		Channel:     o.Channel,
		TotalAmount: o.TotalAmount,
		FreightCost: o.FreightCost,
		Commission:  o.Commission,
		Notes:       o.Notes,
		Lines:       make([]dto.OrderLineResponse, 0, len(o.Lines)),
	}
	if o.Customer != nil {
		resp.CustomerName = o.Customer.Name
	}
	for i := range o.Lines {
		resp.Lines = append(resp.Lines, mapOrderLine(&o.Lines[i]))
	}
	return resp
}

func (s *orderService) Get(ctx context.Context, id model.OrderID) (*dto.OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(EntityOrder, uint(id), "find order", err)
	}
	return mapOrder(o), nil
}

func (s *orderService) ListLines(ctx context.Context, id model.OrderID) ([]dto.OrderLineResponse, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return o.Lines, nil
}

// List returns every order with its customer name, most recent first.
func (s *orderService) List(ctx context.Context) ([]dto.OrderListItem, error) {
	rows, err := s.orders.ListSummaries(ctx)
	if err != nil {
		return nil, storageErr("list orders", err)
	}
	items := make([]dto.OrderListItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.OrderListItem{
			ID:           r.ID,
			CustomerID:   r.CustomerID,
			CustomerName: r.CustomerName,
			Date:         r.Date,
			Channel:      r.Channel,
			TotalAmount:  r.TotalAmount,
			FreightCost:  r.FreightCost,
			Commission:   r.Commission,
			Notes:        r.Notes,
			LineCount:    r.LineCount,
		})
	}
	return items, nil
}

// Quote prices a draft without touching storage beyond product lookups.
// atLine reports a line-level validation failure under "lines[i].<field>",
// the way commit does.
func atLine(i int, err error) error {
	var verr *errs.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	fields := make(map[string]string, len(verr.Fields))
	for k, v := range verr.Fields {
		fields[fmt.Sprintf("lines[%d].%s", i, k)] = v
	}
	return errs.NewValidation(EntityOrder, fields)
}

func (s *orderService) Quote(ctx context.Context, req dto.QuoteRequest) (*dto.QuoteResponse, error) {
	draft := s.NewDraft()
	for i, l := range req.Lines {
		if _, err := draft.addLine(ctx, l.ProductID, l.Quantity, l.UnitPrice); err != nil {
			return nil, atLine(i, err)
		}
	}
	resp := &dto.QuoteResponse{
		Lines: make([]dto.OrderLineResponse, 0, len(req.Lines)),
		Total: draft.Total(req.FreightCost, req.Commission).Round(2),
	}
	for _, l := range draft.Lines() {
		resp.Lines = append(resp.Lines, dto.OrderLineResponse{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal(),
		})
	}
	return resp, nil
}

