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

type CustomerService interface {
	Create(ctx context.Context, req dto.CustomerRequest) (*dto.CustomerResponse, error)
	Get(ctx context.Context, id model.CustomerID) (*dto.CustomerResponse, error)
	List(ctx context.Context) ([]dto.CustomerResponse, error)
	Edit(ctx context.Context, id model.CustomerID, req dto.CustomerRequest) (*dto.CustomerResponse, error)
	Delete(ctx context.Context, id model.CustomerID) error
}

type customerService struct {
	repo  repository.CustomerRepository
	guard *IntegrityGuard
	uow   *UnitOfWork
}

func NewCustomerService(repo repository.CustomerRepository, guard *IntegrityGuard, uow *UnitOfWork) CustomerService {
	return &customerService{repo: repo, guard: guard, uow: uow}
}

func mapCustomer(c *model.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:      c.ID,
		Name:    c.Name,
		Contact: c.Contact,
		Address: c.Address,
		Notes:   c.Notes,
		Type:    c.Type,
	}
}

func validateCustomer(req dto.CustomerRequest) error {
	fields := map[string]string{}
	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = "required"
	}
	if !req.Type.Valid() {
		fields["type"] = "must be one of prospect, partner, contacted"
	}
	if len(fields) > 0 {
		return errs.NewValidation(EntityCustomer, fields)
	}
	return nil
}

func (s *customerService) Create(ctx context.Context, req dto.CustomerRequest) (*dto.CustomerResponse, error) {
	if err := validateCustomer(req); err != nil {
		return nil, err
	}
	c := &model.Customer{
		Name:    strings.TrimSpace(req.Name),
		Contact: req.Contact,
		Address: req.Address,
		Notes:   req.Notes,
		Type:    req.Type,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, storageErr("create customer", err)
	}
	return mapCustomer(c), nil
}

func (s *customerService) Get(ctx context.Context, id model.CustomerID) (*dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(EntityCustomer, uint(id), "find customer", err)
	}
	return mapCustomer(c), nil
}

func (s *customerService) List(ctx context.Context) ([]dto.CustomerResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, storageErr("list customers", err)
	}
	result := make([]dto.CustomerResponse, 0, len(list))
	for i := range list {
		result = append(result, *mapCustomer(&list[i]))
	}
	return result, nil
}

func (s *customerService) Edit(ctx context.Context, id model.CustomerID, req dto.CustomerRequest) (*dto.CustomerResponse, error) {
	if err := validateCustomer(req); err != nil {
		return nil, err
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(EntityCustomer, uint(id), "find customer", err)
	}
	c.Name = strings.TrimSpace(req.Name)
	c.Contact = req.Contact
	c.Address = req.Address
	c.Notes = req.Notes
	c.Type = req.Type
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, storageErr("update customer", err)
	}
	return mapCustomer(c), nil
}

// Delete is refused while any order or ledger entry references the customer.
func (s *customerService) Delete(ctx context.Context, id model.CustomerID) error {
	return s.uow.Do(ctx, "delete customer", func(tx *gorm.DB) error {
		return deleteGuarded(tx, s.guard, EntityCustomer, uint(id), func(tx *gorm.DB) (int64, error) {
			return s.repo.DeleteTx(tx, id)
		})
	})
}
