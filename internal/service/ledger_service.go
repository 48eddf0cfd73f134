package service

import (
	"context"
	"strings"
	"time"

	"tradebook/internal/dto"
	"tradebook/internal/errs"
	"tradebook/internal/model"
	"tradebook/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerService records income and expense entries. An entry owns nothing
// and nothing depends on it, so deleting one is never guarded.
type LedgerService interface {
	RecordEntry(ctx context.Context, req dto.LedgerEntryRequest) (*dto.LedgerEntryResponse, error)
	EditEntry(ctx context.Context, id model.EntryID, req dto.LedgerEntryRequest) (*dto.LedgerEntryResponse, error)
	DeleteEntry(ctx context.Context, id model.EntryID) error
	GetEntry(ctx context.Context, id model.EntryID) (*dto.LedgerEntryResponse, error)
	ListEntries(ctx context.Context) ([]dto.LedgerEntryResponse, error)
	Summary(ctx context.Context) (*dto.LedgerSummaryResponse, error)
}

type ledgerService struct {
	repo  repository.LedgerRepository
	guard *IntegrityGuard
	uow   *UnitOfWork
	now   func() time.Time
}

func NewLedgerService(repo repository.LedgerRepository, guard *IntegrityGuard, uow *UnitOfWork) LedgerService {
	return &ledgerService{
		repo:  repo,
		guard: guard,
		uow:   uow,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func validateEntry(req dto.LedgerEntryRequest) error {
	fields := map[string]string{}
	if !req.Direction.Valid() {
		fields["direction"] = "must be income or expense"
	}
	if !req.Channel.Valid() {
		fields["channel"] = "must be corporate or personal"
	}
	if !req.Amount.IsPositive() {
		fields["amount"] = "must be greater than zero"
	}
	if len(fields) > 0 {
		return errs.NewValidation(EntityLedgerEntry, fields)
	}
	return nil
}

func entryRefs(req dto.LedgerEntryRequest) []Ref {
	var refs []Ref
	if req.CustomerID != nil {
		refs = append(refs, Ref{Field: "customer_id", Entity: EntityCustomer, ID: uint(*req.CustomerID)})
	}
	if req.SupplierID != nil {
		refs = append(refs, Ref{Field: "supplier_id", Entity: EntitySupplier, ID: uint(*req.SupplierID)})
	}
	if req.OrderID != nil {
		refs = append(refs, Ref{Field: "order_id", Entity: EntityOrder, ID: uint(*req.OrderID)})
	}
	return refs
}

// nonZero keeps a link only when it points somewhere; 0 means no link.
func nonZero[T ~uint](id *T) *T {
	if id == nil || *id == 0 {
		return nil
	}
	v := *id
	return &v
}

func applyEntry(e *model.LedgerEntry, req dto.LedgerEntryRequest) {
	e.Direction = req.Direction
	e.Channel = req.Channel
	e.Amount = req.Amount.Round(2)
	e.Description = strings.TrimSpace(req.Description)
	e.CustomerID = nonZero(req.CustomerID)
	e.SupplierID = nonZero(req.SupplierID)
	e.OrderID = nonZero(req.OrderID)
	if req.Date != nil {
		e.Date = req.Date.UTC()
	}
}

func mapEntry(v *model.LedgerEntryView) *dto.LedgerEntryResponse {
	return &dto.LedgerEntryResponse{
		ID:           v.ID,
		Date:         v.Date,
		Direction:    v.Direction,
		Channel:      v.Channel,
		Amount:       v.Amount,
		Description:  v.Description,
		CustomerID:   v.CustomerID,
		CustomerName: v.CustomerName,
		SupplierID:   v.SupplierID,
		SupplierName: v.SupplierName,
		OrderID:      v.OrderID,
	}
}

// RecordEntry accepts any combination of links, including none.
func (s *ledgerService) RecordEntry(ctx context.Context, req dto.LedgerEntryRequest) (*dto.LedgerEntryResponse, error) {
	if err := validateEntry(req); err != nil {
		return nil, err
	}
	e := &model.LedgerEntry{Date: s.now()}
	applyEntry(e, req)

	err := s.uow.Do(ctx, "record ledger entry", func(tx *gorm.DB) error {
		if err := s.guard.ResolveRefs(tx, EntityLedgerEntry, entryRefs(req)); err != nil {
			return err
		}
		return s.repo.CreateTx(tx, e)
	})
	if err != nil {
		return nil, err
	}
	return s.GetEntry(ctx, e.ID)
}

func (s *ledgerService) EditEntry(ctx context.Context, id model.EntryID, req dto.LedgerEntryRequest) (*dto.LedgerEntryResponse, error) {
	if err := validateEntry(req); err != nil {
		return nil, err
	}
	err := s.uow.Do(ctx, "edit ledger entry", func(tx *gorm.DB) error {
		e, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return notFound(EntityLedgerEntry, uint(id), "find ledger entry", err)
		}
		if err := s.guard.ResolveRefs(tx, EntityLedgerEntry, entryRefs(req)); err != nil {
			return err
		}
		applyEntry(e, req)
		return s.repo.UpdateTx(tx, e)
	})
	if err != nil {
		return nil, err
	}
	return s.GetEntry(ctx, id)
}

func (s *ledgerService) DeleteEntry(ctx context.Context, id model.EntryID) error {
	return s.uow.Do(ctx, "delete ledger entry", func(tx *gorm.DB) error {
		return deleteGuarded(tx, s.guard, EntityLedgerEntry, uint(id), func(tx *gorm.DB) (int64, error) {
			return s.repo.DeleteTx(tx, id)
		})
	})
}

func (s *ledgerService) GetEntry(ctx context.Context, id model.EntryID) (*dto.LedgerEntryResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(EntityLedgerEntry, uint(id), "find ledger entry", err)
	}
	return mapEntry(v), nil
}

// ListEntries returns entries most recent first.
func (s *ledgerService) ListEntries(ctx context.Context) ([]dto.LedgerEntryResponse, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, storageErr("list ledger entries", err)
	}
	out := make([]dto.LedgerEntryResponse, 0, len(rows))
	for i := range rows {
		out = append(out, *mapEntry(&rows[i]))
	}
	return out, nil
}

// Summary totals income and expense overall and per channel.
func (s *ledgerService) Summary(ctx context.Context) (*dto.LedgerSummaryResponse, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, storageErr("summarize ledger", err)
	}
	sum := &dto.LedgerSummaryResponse{
		Income:    decimal.Zero,
		Expense:   decimal.Zero,
		Net:       decimal.Zero,
		ByChannel: map[model.Channel]dto.ChannelTotals{},
	}
	for _, ch := range []model.Channel{model.ChannelCorporate, model.ChannelPersonal} {
		sum.ByChannel[ch] = dto.ChannelTotals{Income: decimal.Zero, Expense: decimal.Zero, Net: decimal.Zero}
	}
	for _, r := range rows {
		ct := sum.ByChannel[r.Channel]
		if r.Direction == model.DirectionIncome {
			sum.Income = sum.Income.Add(r.Amount)
			ct.Income = ct.Income.Add(r.Amount)
		} else {
			sum.Expense = sum.Expense.Add(r.Amount)
			ct.Expense = ct.Expense.Add(r.Amount)
		}
		ct.Net = ct.Income.Sub(ct.Expense)
		sum.ByChannel[r.Channel] = ct
	}
	sum.Net = sum.Income.Sub(sum.Expense)
	return sum, nil
}
