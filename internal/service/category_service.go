package service

import (
	"context"
	"errors"
	"strings"

	"tradebook/internal/dto"
	"tradebook/internal/errs"
	"tradebook/internal/model"
	"tradebook/internal/repository"

	"gorm.io/gorm"
)

// CategoryService defines business operations for product categories.
type CategoryService interface {
	Create(ctx context.Context, req dto.CategoryRequest) (dto.CategoryResponse, error)
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	Rename(ctx context.Context, id model.CategoryID, req dto.CategoryRequest) (dto.CategoryResponse, error)
	Delete(ctx context.Context, id model.CategoryID) error
}

type categoryService struct {
	repo  repository.CategoryRepository
	guard *IntegrityGuard
	uow   *UnitOfWork
}

func NewCategoryService(repo repository.CategoryRepository, guard *IntegrityGuard, uow *UnitOfWork) CategoryService {
	return &categoryService{repo: repo, guard: guard, uow: uow}
}

func mapCategory(c model.Category) dto.CategoryResponse {
	return dto.CategoryResponse{ID: c.ID, Name: c.Name}
}

// Create adds a category. The case-insensitive name check and the insert
// share one unit of work, so two spellings of a name cannot both get in.
func (s *categoryService) Create(ctx context.Context, req dto.CategoryRequest) (dto.CategoryResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return dto.CategoryResponse{}, errs.Invalid(EntityCategory, "name", "required")
	}

	c := &model.Category{Name: name}
	err := s.uow.Do(ctx, "create category", func(tx *gorm.DB) error {
		if err := s.ensureNameFree(tx, name, 0); err != nil {
			return err
		}
		return s.mapWriteErr(name, s.repo.CreateTx(tx, c))
	})
	if err != nil {
		return dto.CategoryResponse{}, err
	}
	return mapCategory(*c), nil
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, storageErr("list categories", err)
	}
	result := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		result = append(result, mapCategory(c))
	}
	return result, nil
}

func (s *categoryService) Rename(ctx context.Context, id model.CategoryID, req dto.CategoryRequest) (dto.CategoryResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return dto.CategoryResponse{}, errs.Invalid(EntityCategory, "name", "required")
	}

	var c *model.Category
	err := s.uow.Do(ctx, "rename category", func(tx *gorm.DB) error {
		var err error
		c, err = s.repo.FindByIDTx(tx, id)
		if err != nil {
			return notFound(EntityCategory, uint(id), "find category", err)
		}
		if err := s.ensureNameFree(tx, name, id); err != nil {
			return err
		}
		c.Name = name
		return s.mapWriteErr(name, s.repo.UpdateTx(tx, c))
	})
	if err != nil {
		return dto.CategoryResponse{}, err
	}
	return mapCategory(*c), nil
}

// Delete removes a category only when no product references it.
func (s *categoryService) Delete(ctx context.Context, id model.CategoryID) error {
	return s.uow.Do(ctx, "delete category", func(tx *gorm.DB) error {
		return deleteGuarded(tx, s.guard, EntityCategory, uint(id), func(tx *gorm.DB) (int64, error) {
			return s.repo.DeleteTx(tx, id)
		})
	})
}

func (s *categoryService) ensureNameFree(tx *gorm.DB, name string, self model.CategoryID) error {
	existing, err := s.repo.FindByNameTx(tx, name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil && existing.ID != self {
		return &errs.DuplicateKeyError{Entity: EntityCategory, Field: "name", Value: name}
	}
	return nil
}

// mapWriteErr catches the unique index as a backstop for the name check.
// Anything else is left for the unit of work to wrap.
func (s *categoryService) mapWriteErr(name string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &errs.DuplicateKeyError{Entity: EntityCategory, Field: "name", Value: name}
	}
	return err
}
