package book

import (
	"tradebook/internal/infra"
	"tradebook/internal/repository"
	"tradebook/internal/service"

	"gorm.io/gorm"
)

// Session is one open book: its storage handle and the services bound to
// it. All services of a session share one UnitOfWork, so order commits,
// product edits and guarded deletes of the book never interleave.
type Session struct {
	Name string
	DB   *gorm.DB

	Categories service.CategoryService
	Suppliers  service.SupplierService
	Customers  service.CustomerService
	Inventory  service.InventoryService
	Orders     service.OrderService
	Ledger     service.LedgerService
}

// NewSession builds the service graph over an already migrated database.
// events may be nil.
func NewSession(name string, db *gorm.DB, events service.OrderEvents) *Session {
	uow := service.NewUnitOfWork(db)
	guard := service.NewIntegrityGuard(repository.NewReferenceRepository())

	productRepo := repository.NewProductRepository(db)
	inventory := service.NewInventoryService(productRepo, guard, uow)

	return &Session{
		Name:       name,
		DB:         db,
		Categories: service.NewCategoryService(repository.NewCategoryRepository(db), guard, uow),
		Suppliers:  service.NewSupplierService(repository.NewSupplierRepository(db), guard, uow),
		Customers:  service.NewCustomerService(repository.NewCustomerRepository(db), guard, uow),
		Inventory:  inventory,
		Orders: service.NewOrderService(
			repository.NewOrderRepository(db), productRepo, inventory, guard, uow, events,
		),
		Ledger: service.NewLedgerService(repository.NewLedgerRepository(db), guard, uow),
	}
}

// Close releases the book's connections. The session must not be used
// afterwards.
func (s *Session) Close() error {
	return infra.Close(s.DB)
}
