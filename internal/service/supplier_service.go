package service

import (
	"context"
	"strings"

	"tradebook/internal/dto"
	"tradebook/internal/errs"
	"tradebook/internal/model"
	"tradebook/internal/repository"

	"gorm.io/gorm"
)

type SupplierService interface {
	Create(ctx context.Context, req dto.SupplierRequest) (*dto.SupplierResponse, error)
	Get(ctx context.Context, id model.SupplierID) (*dto.SupplierResponse, error)
	List(ctx context.Context) ([]dto.SupplierResponse, error)
	Edit(ctx context.Context, id model.SupplierID, req dto.SupplierRequest) (*dto.SupplierResponse, error)
	Delete(ctx context.Context, id model.SupplierID) error
}

type supplierService struct {
	repo  repository.SupplierRepository
	guard *IntegrityGuard
	uow   *UnitOfWork
}

func NewSupplierService(repo repository.SupplierRepository, guard *IntegrityGuard, uow *UnitOfWork) SupplierService {
	return &supplierService{repo: repo, guard: guard, uow: uow}
}

func mapSupplier(s *model.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:      s.ID,
		Name:    s.Name,
		Contact: s.Contact,
		Address: s.Address,
		Notes:   s.Notes,
		Type:    s.Type,
	}
}

func validateSupplier(req dto.SupplierRequest) error {
	fields := map[string]string{}
	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = "required"
	}
	if !req.Type.Valid() {
		fields["type"] = "must be one of producer, agent, wholesaler"
	}
	if len(fields) > 0 {
		return errs.NewValidation(EntitySupplier, fields)
	}
	return nil
}

func (s *supplierService) Create(ctx context.Context, req dto.SupplierRequest) (*dto.SupplierResponse, error) {
	if err := validateSupplier(req); err != nil {
		return nil, err
	}
	sup := &model.Supplier{
		Name:    strings.TrimSpace(req.Name),
		Contact: req.Contact,
		Address: req.Address,
		Notes:   req.Notes,
		Type:    req.Type,
	}
	if err := s.repo.Create(ctx, sup); err != nil {
		return nil, storageErr("create supplier", err)
	}
	return mapSupplier(sup), nil
}

func (s *supplierService) Get(ctx context.Context, id model.SupplierID) (*dto.SupplierResponse, error) {
	sup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(EntitySupplier, uint(id), "find supplier", err)
	}
	return mapSupplier(sup), nil
}

func (s *supplierService) List(ctx context.Context) ([]dto.SupplierResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, storageErr("list suppliers", err)
	}
	result := make([]dto.SupplierResponse, 0, len(list))
	for i := range list {
		result = append(result, *mapSupplier(&list[i]))
	}
	return result, nil
}

func (s *supplierService) Edit(ctx context.Context, id model.SupplierID, req dto.SupplierRequest) (*dto.SupplierResponse, error) {
	if err := validateSupplier(req); err != nil {
		return nil, err
	}
	sup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(EntitySupplier, uint(id), "find supplier", err)
	}
	sup.Name = strings.TrimSpace(req.Name)
	sup.Contact = req.Contact
	sup.Address = req.Address
	sup.Notes = req.Notes
	sup.Type = req.Type
	if err := s.repo.Update(ctx, sup); err != nil {
		return nil, storageErr("update supplier", err)
	}
	return mapSupplier(sup), nil
}

// Delete is refused while any product or ledger entry references the supplier.
func (s *supplierService) Delete(ctx context.Context, id model.SupplierID) error {
	return s.uow.Do(ctx, "delete supplier", func(tx *gorm.DB) error {
		return deleteGuarded(tx, s.guard, EntitySupplier, uint(id), func(tx *gorm.DB) (int64, error) {
			return s.repo.DeleteTx(tx, id)
		})
	})
}
