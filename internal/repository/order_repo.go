package repository

import (
	"context"

	"tradebook/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository persists order headers and their owned lines. Every write
// takes the caller's tx: an order is never written outside a unit of work.
type OrderRepository interface {
	CreateTx(tx *gorm.DB, o *model.Order) error
	CreateLineTx(tx *gorm.DB, l *model.OrderLine) error
	FindByIDTx(tx *gorm.DB, id model.OrderID) (*model.Order, error)
	LinesTx(tx *gorm.DB, id model.OrderID) ([]model.OrderLine, error)
	UpdateHeaderTx(tx *gorm.DB, o *model.Order) error
	DeleteLinesTx(tx *gorm.DB, id model.OrderID) (int64, error)
	DeleteTx(tx *gorm.DB, id model.OrderID) (int64, error)

	FindByID(ctx context.Context, id model.OrderID) (*model.Order, error)
	ListSummaries(ctx context.Context) ([]model.OrderSummary, error)
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) CreateTx(tx *gorm.DB, o *model.Order) error {
	return tx.Omit(clause.Associations).Create(o).Error
}

func (r *orderRepo) CreateLineTx(tx *gorm.DB, l *model.OrderLine) error {
	return tx.Omit(clause.Associations).Create(l).Error
}

func (r *orderRepo) FindByIDTx(tx *gorm.DB, id model.OrderID) (*model.Order, error) {
	var o model.Order
	if err := tx.First(&o, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) LinesTx(tx *gorm.DB, id model.OrderID) ([]model.OrderLine, error) {
	var lines []model.OrderLine
	err := tx.Where("order_id = ?", id).Order("id asc").Find(&lines).Error
	return lines, err
}

func (r *orderRepo) UpdateHeaderTx(tx *gorm.DB, o *model.Order) error {
	return tx.Omit(clause.Associations).Save(o).Error
}

func (r *orderRepo) DeleteLinesTx(tx *gorm.DB, id model.OrderID) (int64, error) {
	res := tx.Where("order_id = ?", id).Delete(&model.OrderLine{})
	return res.RowsAffected, res.Error
}

func (r *orderRepo) DeleteTx(tx *gorm.DB, id model.OrderID) (int64, error) {
	res := tx.Delete(&model.Order{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *orderRepo) FindByID(ctx context.Context, id model.OrderID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("order_lines.id asc") }).
		Preload("Lines.Product").
		First(&o, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ListSummaries returns every order joined with its customer name, most
// recent first.
func (r *orderRepo) ListSummaries(ctx context.Context) ([]model.OrderSummary, error) {
	var rows []model.OrderSummary
	err := r.db.WithContext(ctx).
		Table("orders").
		Select(`orders.id, orders.customer_id, customers.name AS customer_name, orders.date,
			orders.channel, orders.total_amount, orders.freight_cost, orders.commission, orders.notes,
			(SELECT COUNT(*) FROM order_lines WHERE order_lines.order_id = orders.id) AS line_count`).
		Joins("JOIN customers ON customers.id = orders.customer_id").
		Order("orders.date DESC, orders.id DESC").
		Scan(&rows).Error
	return rows, err
}
