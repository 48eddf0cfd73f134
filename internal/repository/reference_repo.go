package repository

import (
	"gorm.io/gorm"
)

// ReferenceRepository answers the two questions the integrity rules need:
// does a row exist, and how many rows point at it. Table and column names
// come from the fixed dependency table in the service layer, never from
// caller input.
type ReferenceRepository interface {
	ExistsTx(tx *gorm.DB, table string, id uint) (bool, error)
	CountTx(tx *gorm.DB, table, column string, id uint) (int64, error)
}

type referenceRepo struct{}

func NewReferenceRepository() ReferenceRepository { return referenceRepo{} }

func (referenceRepo) ExistsTx(tx *gorm.DB, table string, id uint) (bool, error) {
	var n int64
	err := tx.Table(table).Where("id = ?", id).Limit(1).Count(&n).Error
	return n > 0, err
}

func (referenceRepo) CountTx(tx *gorm.DB, table, column string, id uint) (int64, error) {
	var n int64
	err := tx.Table(table).Where(column+" = ?", id).Count(&n).Error
	return n, err
}
