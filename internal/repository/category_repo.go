package repository

import (
	"context"

	"tradebook/internal/model"

	"gorm.io/gorm"
)

// CategoryRepository defines CRUD operations for Category. Writes run inside
// a unit of work together with the name check that precedes them.
type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	CreateTx(tx *gorm.DB, c *model.Category) error
	FindByIDTx(tx *gorm.DB, id model.CategoryID) (*model.Category, error)
	// FindByNameTx matches case-insensitively.
	FindByNameTx(tx *gorm.DB, name string) (*model.Category, error)
	UpdateTx(tx *gorm.DB, c *model.Category) error
	DeleteTx(tx *gorm.DB, id model.CategoryID) (int64, error)
}

type categoryRepo struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) List(ctx context.Context) ([]model.Category, error) {
	var list []model.Category
	err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error
	return list, err
}

func (r *categoryRepo) CreateTx(tx *gorm.DB, c *model.Category) error {
	return tx.Create(c).Error
}

func (r *categoryRepo) FindByIDTx(tx *gorm.DB, id model.CategoryID) (*model.Category, error) {
	var c model.Category
	if err := tx.First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepo) FindByNameTx(tx *gorm.DB, name string) (*model.Category, error) {
	var c model.Category
	if err := tx.Where("lower(name) = lower(?)", name).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepo) UpdateTx(tx *gorm.DB, c *model.Category) error {
	return tx.Save(c).Error
}

func (r *categoryRepo) DeleteTx(tx *gorm.DB, id model.CategoryID) (int64, error) {
	res := tx.Delete(&model.Category{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
