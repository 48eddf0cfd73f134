package repository

import (
	"context"

	"tradebook/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LedgerRepository interface {
	CreateTx(tx *gorm.DB, e *model.LedgerEntry) error
	FindByIDTx(tx *gorm.DB, id model.EntryID) (*model.LedgerEntry, error)
	UpdateTx(tx *gorm.DB, e *model.LedgerEntry) error
	DeleteTx(tx *gorm.DB, id model.EntryID) (int64, error)

	FindByID(ctx context.Context, id model.EntryID) (*model.LedgerEntryView, error)
	List(ctx context.Context) ([]model.LedgerEntryView, error)
}

type ledgerRepo struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) LedgerRepository { return &ledgerRepo{db: db} }

func (r *ledgerRepo) CreateTx(tx *gorm.DB, e *model.LedgerEntry) error {
	return tx.Omit(clause.Associations).Create(e).Error
}

func (r *ledgerRepo) FindByIDTx(tx *gorm.DB, id model.EntryID) (*model.LedgerEntry, error) {
	var e model.LedgerEntry
	if err := tx.First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ledgerRepo) UpdateTx(tx *gorm.DB, e *model.LedgerEntry) error {
	return tx.Omit(clause.Associations).Save(e).Error
}

func (r *ledgerRepo) DeleteTx(tx *gorm.DB, id model.EntryID) (int64, error) {
	res := tx.Delete(&model.LedgerEntry{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *ledgerRepo) FindByID(ctx context.Context, id model.EntryID) (*model.LedgerEntryView, error) {
	var rows []model.LedgerEntryView
	if err := r.views(ctx).Where("ledger_entries.id = ?", id).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

// List returns all entries, most recent first.
func (r *ledgerRepo) List(ctx context.Context) ([]model.LedgerEntryView, error) {
	var rows []model.LedgerEntryView
	err := r.views(ctx).Order("ledger_entries.date DESC, ledger_entries.id DESC").Scan(&rows).Error
	return rows, err
}

func (r *ledgerRepo) views(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("ledger_entries").
		Select("ledger_entries.*, customers.name AS customer_name, suppliers.name AS supplier_name").
		Joins("LEFT JOIN customers ON customers.id = ledger_entries.customer_id").
		Joins("LEFT JOIN suppliers ON suppliers.id = ledger_entries.supplier_id")
}
