package service

import (
	"context"
	"errors"
	"sync"

	"tradebook/internal/errs"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// UnitOfWork serializes a book's multi-table writes and runs each one inside
// a single database transaction. Order commit, revise and cancel, product
// edits and guarded deletes all go through the same instance, so they never
// interleave with each other.
type UnitOfWork struct {
	mu sync.Mutex
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Do runs fn in a transaction. Any error returned by fn, or raised while
// committing, rolls back every write made through tx. Typed core errors pass
// through unchanged; anything else is reported as a StorageError.
func (u *UnitOfWork) Do(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	err := u.db.WithContext(ctx).Transaction(fn)
	if err == nil {
		return nil
	}
	err = storageErr(op, err)
	if errors.Is(err, errs.ErrStorage) {
		log.Error().Str("op", op).Err(err).Msg("unit of work rolled back")
	} else {
		log.Debug().Str("op", op).Err(err).Msg("unit of work rejected")
	}
	return err
}

// storageErr maps a repository error into the core taxonomy.
func storageErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errs.IsDomain(err):
		return err
	default:
		return errs.Storage(op, err)
	}
}

// notFound turns gorm.ErrRecordNotFound into a typed NotFoundError.
func notFound(entity string, id uint, op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &errs.NotFoundError{Entity: entity, ID: id}
	}
	return storageErr(op, err)
}
