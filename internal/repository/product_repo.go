package repository

import (
	"context"

	"tradebook/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation.
type ProductRepository interface {
	FindByID(ctx context.Context, id model.ProductID) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	ListByCategory(ctx context.Context, categoryID model.CategoryID) ([]model.Product, error)
	ListByIDs(ctx context.Context, ids []model.ProductID) ([]model.Product, error)
	ListLowStock(ctx context.Context) ([]model.Product, error)

	// Used inside a unit of work; callers must pass the tx instance
	CreateTx(tx *gorm.DB, p *model.Product) error
	FindByIDTx(tx *gorm.DB, id model.ProductID) (*model.Product, error)
	UpdateTx(tx *gorm.DB, p *model.Product) error
	DeleteTx(tx *gorm.DB, id model.ProductID) (int64, error)
	// AdjustQuantityTx adds delta to quantity with a relative update so the
	// read and the write cannot interleave with another adjustment.
	AdjustQuantityTx(tx *gorm.DB, id model.ProductID, delta int) (int64, error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) CreateTx(tx *gorm.DB, p *model.Product) error {
	return tx.Omit(clause.Associations).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id model.ProductID) (*model.Product, error) {
	return r.FindByIDTx(r.db.WithContext(ctx), id)
}

func (r *productRepo) FindByIDTx(tx *gorm.DB, id model.ProductID) (*model.Product, error) {
	var p model.Product
	if err := tx.First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Order("id asc").Find(&products).Error
	return products, err
}

func (r *productRepo) ListByCategory(ctx context.Context, categoryID model.CategoryID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Where("category_id = ?", categoryID).Order("id asc").Find(&products).Error
	return products, err
}

func (r *productRepo) ListByIDs(ctx context.Context, ids []model.ProductID) ([]model.Product, error) {
	var products []model.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id asc").Find(&products).Error
	return products, err
}

func (r *productRepo) ListLowStock(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("quantity <= reorder_threshold").
		Order("quantity asc, id asc").
		Find(&products).Error
	return products, err
}

func (r *productRepo) UpdateTx(tx *gorm.DB, p *model.Product) error {
	return tx.Omit(clause.Associations).Save(p).Error
}

func (r *productRepo) DeleteTx(tx *gorm.DB, id model.ProductID) (int64, error) {
	res := tx.Delete(&model.Product{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *productRepo) AdjustQuantityTx(tx *gorm.DB, id model.ProductID, delta int) (int64, error) {
	res := tx.Model(&model.Product{}).Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	return res.RowsAffected, res.Error
}
