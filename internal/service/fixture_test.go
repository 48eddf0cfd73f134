package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"tradebook/internal/dto"
	"tradebook/internal/infra"
	"tradebook/internal/model"
	"tradebook/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingEvents captures published order events.
type recordingEvents struct {
	mu     sync.Mutex
	events []OrderEvent
	err    error
}

func (r *recordingEvents) Publish(_ context.Context, ev OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func (r *recordingEvents) last() OrderEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

type fixture struct {
	db     *gorm.DB
	ctx    context.Context
	events *recordingEvents

	categories CategoryService
	suppliers  SupplierService
	customers  CustomerService
	inventory  InventoryService
	orders     OrderService
	ledger     LedgerService
	products   repository.ProductRepository
}

// newFixture opens a fresh sqlite book in a temp dir with every service
// sharing one unit of work, the way a book session wires them.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := infra.NewDatabase(infra.DriverSQLite, infra.SQLiteDSN(filepath.Join(t.TempDir(), "book.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = infra.Close(db) })

	uow := NewUnitOfWork(db)
	guard := NewIntegrityGuard(repository.NewReferenceRepository())
	products := repository.NewProductRepository(db)
	inventory := NewInventoryService(products, guard, uow)
	events := &recordingEvents{}

	return &fixture{
		db:         db,
		ctx:        context.Background(),
		events:     events,
		categories: NewCategoryService(repository.NewCategoryRepository(db), guard, uow),
		suppliers:  NewSupplierService(repository.NewSupplierRepository(db), guard, uow),
		customers:  NewCustomerService(repository.NewCustomerRepository(db), guard, uow),
		inventory:  inventory,
		orders:     NewOrderService(repository.NewOrderRepository(db), products, inventory, guard, uow, events),
		ledger:     NewLedgerService(repository.NewLedgerRepository(db), guard, uow),
		products:   products,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func (f *fixture) category(t *testing.T, name string) model.CategoryID {
	t.Helper()
	c, err := f.categories.Create(f.ctx, dto.CategoryRequest{Name: name})
	require.NoError(t, err)
	return c.ID
}

func (f *fixture) supplier(t *testing.T, name string) model.SupplierID {
	t.Helper()
	s, err := f.suppliers.Create(f.ctx, dto.SupplierRequest{Name: name, Type: model.SupplierWholesaler})
	require.NoError(t, err)
	return s.ID
}

func (f *fixture) customer(t *testing.T, name string) model.CustomerID {
	t.Helper()
	c, err := f.customers.Create(f.ctx, dto.CustomerRequest{Name: name, Type: model.CustomerPartner})
	require.NoError(t, err)
	return c.ID
}

func (f *fixture) product(t *testing.T, cat model.CategoryID, name string, qty int, price string) model.ProductID {
	t.Helper()
	p, err := f.inventory.AddProduct(f.ctx, dto.ProductRequest{
		Name:          name,
		CategoryID:    &cat,
		Quantity:      qty,
		PurchasePrice: dec(price).Div(decimal.NewFromInt(2)),
		SellingPrice:  dec(price),
	})
	require.NoError(t, err)
	return p.ID
}

func (f *fixture) quantity(t *testing.T, id model.ProductID) int {
	t.Helper()
	p, err := f.inventory.GetProduct(f.ctx, id)
	require.NoError(t, err)
	return p.Quantity
}

func (f *fixture) count(t *testing.T, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Table(table).Count(&n).Error)
	return n
}

func (f *fixture) commit(t *testing.T, cust model.CustomerID, lines ...dto.OrderLineRequest) *dto.OrderResponse {
	t.Helper()
	o, err := f.orders.Commit(f.ctx, dto.OrderRequest{
		CustomerID: cust,
		Channel:    model.ChannelCorporate,
		Lines:      lines,
	})
	require.NoError(t, err)
	return o
}

func line(id model.ProductID, qty int) dto.OrderLineRequest {
	return dto.OrderLineRequest{ProductID: id, Quantity: qty}
}

var errInjected = errors.New("injected storage failure")

// failInserts makes every INSERT into table fail from now on, the way a
// storage error between two steps of a unit of work would.
func (f *fixture) failInserts(t *testing.T, table string) {
	t.Helper()
	err := f.db.Callback().Create().Before("gorm:create").Register("test:fail_"+table, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			_ = tx.AddError(errInjected)
		}
	})
	require.NoError(t, err)
}

// failUpdates does the same for UPDATEs of table.
func (f *fixture) failUpdates(t *testing.T, table string) {
	t.Helper()
	err := f.db.Callback().Update().Before("gorm:update").Register("test:fail_update_"+table, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			_ = tx.AddError(errInjected)
		}
	})
	require.NoError(t, err)
}

// failDeletes does the same for DELETEs from table.
func (f *fixture) failDeletes(t *testing.T, table string) {
	t.Helper()
	err := f.db.Callback().Delete().Before("gorm:delete").Register("test:fail_delete_"+table, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			_ = tx.AddError(errInjected)
		}
	})
	require.NoError(t, err)
}

// snapshot captures every row of every book table for byte-level comparison.
func (f *fixture) snapshot(t *testing.T) map[string][]map[string]any {
	t.Helper()
	out := map[string][]map[string]any{}
	for _, table := range []string{"categories", "suppliers", "customers", "products", "orders", "order_lines", "ledger_entries"} {
		var rows []map[string]any
		require.NoError(t, f.db.Table(table).Order("id").Find(&rows).Error)
		out[table] = rows
	}
	return out
}
