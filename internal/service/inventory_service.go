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

// InventoryService owns products and their quantity-on-hand.
type InventoryService interface {
	AddProduct(ctx context.Context, req dto.ProductRequest) (*dto.ProductResponse, error)
	EditProduct(ctx context.Context, id model.ProductID, req dto.ProductRequest) (*dto.ProductResponse, error)
	DeleteProduct(ctx context.Context, id model.ProductID) error
	GetProduct(ctx context.Context, id model.ProductID) (*dto.ProductResponse, error)
	ListProducts(ctx context.Context) ([]dto.ProductResponse, error)
	ListByCategory(ctx context.Context, categoryID model.CategoryID) ([]dto.ProductResponse, error)
	ListLowStock(ctx context.Context) ([]dto.ProductResponse, error)

	// adjustQuantity is reserved for the order engine and must run inside
	// its unit of work. No floor is applied: a negative result is a backorder.
	adjustQuantity(tx *gorm.DB, id model.ProductID, delta int) error
}

type inventoryService struct {
	repo  repository.ProductRepository
	guard *IntegrityGuard
	uow   *UnitOfWork
}

func NewInventoryService(repo repository.ProductRepository, guard *IntegrityGuard, uow *UnitOfWork) InventoryService {
	return &inventoryService{repo: repo, guard: guard, uow: uow}
}

func mapProduct(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:               p.ID,
		Name:             p.Name,
		CategoryID:       p.CategoryID,
		SupplierID:       p.SupplierID,
		Quantity:         p.Quantity,
		PurchasePrice:    p.PurchasePrice,
		SellingPrice:     p.SellingPrice,
		ReorderThreshold: p.ReorderThreshold,
		BelowThreshold:   p.BelowThreshold(),
	}
}

func mapProducts(list []model.Product) []dto.ProductResponse {
	result := make([]dto.ProductResponse, 0, len(list))
	for i := range list {
		result = append(result, *mapProduct(&list[i]))
	}
	return result
}

// validateProduct applies the same rules on add and on edit: negative
// quantities, prices and thresholds are rejected in both cases.
func validateProduct(req dto.ProductRequest) error {
	fields := map[string]string{}
	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = "required"
	}
	if req.CategoryID == nil || *req.CategoryID == 0 {
		fields["category_id"] = "required"
	}
	if req.Quantity < 0 {
		fields["quantity"] = "must not be negative"
	}
	if req.PurchasePrice.IsNegative() {
		fields["purchase_price"] = "must not be negative"
	}
	if req.SellingPrice.IsNegative() {
		fields["selling_price"] = "must not be negative"
	}
	if req.ReorderThreshold != nil && *req.ReorderThreshold < 0 {
		fields["reorder_threshold"] = "must not be negative"
	}
	if len(fields) > 0 {
		return errs.NewValidation(EntityProduct, fields)
	}
	return nil
}

func productRefs(req dto.ProductRequest) []Ref {
	refs := []Ref{{Field: "category_id", Entity: EntityCategory, ID: uint(*req.CategoryID)}}
	if req.SupplierID != nil {
		refs = append(refs, Ref{Field: "supplier_id", Entity: EntitySupplier, ID: uint(*req.SupplierID)})
	}
	return refs
}

// applyProduct copies the full editable attribute set onto p.
func applyProduct(p *model.Product, req dto.ProductRequest) {
	threshold := dto.DefaultReorderThreshold
	if req.ReorderThreshold != nil {
		threshold = *req.ReorderThreshold
	}
	var supplier *model.SupplierID
	if req.SupplierID != nil && *req.SupplierID != 0 {
		id := *req.SupplierID
		supplier = &id
	}
	category := *req.CategoryID

	p.Name = strings.TrimSpace(req.Name)
	p.CategoryID = &category
	p.SupplierID = supplier
	p.Quantity = req.Quantity
	p.PurchasePrice = req.PurchasePrice.Round(2)
	p.SellingPrice = req.SellingPrice.Round(2)
	p.ReorderThreshold = threshold
}

func (s *inventoryService) AddProduct(ctx context.Context, req dto.ProductRequest) (*dto.ProductResponse, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}
	p := &model.Product{}
	applyProduct(p, req)

	err := s.uow.Do(ctx, "add product", func(tx *gorm.DB) error {
		if err := s.guard.ResolveRefs(tx, EntityProduct, productRefs(req)); err != nil {
			return err
		}
		return s.repo.CreateTx(tx, p)
	})
	if err != nil {
		return nil, err
	}
	return mapProduct(p), nil
}

// EditProduct replaces every editable field, quantity included, in one unit
// of work so the change cannot interleave with an order commit.
func (s *inventoryService) EditProduct(ctx context.Context, id model.ProductID, req dto.ProductRequest) (*dto.ProductResponse, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}
	var p *model.Product
	err := s.uow.Do(ctx, "edit product", func(tx *gorm.DB) error {
		var err error
		p, err = s.repo.FindByIDTx(tx, id)
		if err != nil {
			return notFound(EntityProduct, uint(id), "find product", err)
		}
		if err := s.guard.ResolveRefs(tx, EntityProduct, productRefs(req)); err != nil {
			return err
		}
		applyProduct(p, req)
		return s.repo.UpdateTx(tx, p)
	})
	if err != nil {
		return nil, err
	}
	return mapProduct(p), nil
}

// DeleteProduct is refused while any order line references the product.
func (s *inventoryService) DeleteProduct(ctx context.Context, id model.ProductID) error {
	return s.uow.Do(ctx, "delete product", func(tx *gorm.DB) error {
		return deleteGuarded(tx, s.guard, EntityProduct, uint(id), func(tx *gorm.DB) (int64, error) {
			return s.repo.DeleteTx(tx, id)
		})
	})
}

func (s *inventoryService) GetProduct(ctx context.Context, id model.ProductID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(EntityProduct, uint(id), "find product", err)
	}
	return mapProduct(p), nil
}

func (s *inventoryService) ListProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, storageErr("list products", err)
	}
	return mapProducts(list), nil
}

func (s *inventoryService) ListByCategory(ctx context.Context, categoryID model.CategoryID) ([]dto.ProductResponse, error) {
	list, err := s.repo.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, storageErr("list products by category", err)
	}
	return mapProducts(list), nil
}

// ListLowStock returns products at or below their reorder threshold,
// backorders (negative quantity) first.
func (s *inventoryService) ListLowStock(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, storageErr("list low stock", err)
	}
	return mapProducts(list), nil
}

func (s *inventoryService) adjustQuantity(tx *gorm.DB, id model.ProductID, delta int) error {
	n, err := s.repo.AdjustQuantityTx(tx, id, delta)
	if err != nil {
		return err
	}
	if n == 0 {
		return &errs.NotFoundError{Entity: EntityProduct, ID: uint(id)}
	}
	return nil
}
