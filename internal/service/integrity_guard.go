package service

import (
	"tradebook/internal/errs"
	"tradebook/internal/model"
	"tradebook/internal/repository"

	"gorm.io/gorm"
)

// Entity names used in errors and in the dependency table.
const (
	EntityCategory    = "category"
	EntitySupplier    = "supplier"
	EntityCustomer    = "customer"
	EntityProduct     = "product"
	EntityOrder       = "order"
	EntityOrderLine   = "order_line"
	EntityLedgerEntry = "ledger_entry"
)

var entityTables = map[string]string{
	EntityCategory:    "categories",
	EntitySupplier:    "suppliers",
	EntityCustomer:    "customers",
	EntityProduct:     "products",
	EntityOrder:       "orders",
	EntityOrderLine:   "order_lines",
	EntityLedgerEntry: "ledger_entries",
}

type dependency struct{ table, column string }

// dependents lists, per entity, every column that can hold its id. Nullable
// columns block a delete exactly like required ones.
var dependents = map[string][]dependency{
	EntityCategory: {{"products", "category_id"}},
	EntitySupplier: {{"products", "supplier_id"}, {"ledger_entries", "supplier_id"}},
	EntityCustomer: {{"orders", "customer_id"}, {"ledger_entries", "customer_id"}},
	EntityProduct:  {{"order_lines", "product_id"}},
	EntityOrder:    {{"ledger_entries", "order_id"}},
}

// IntegrityGuard is consulted before every destructive operation. It only
// counts; it never deletes dependents on the caller's behalf.
type IntegrityGuard struct {
	refs repository.ReferenceRepository
}

func NewIntegrityGuard(refs repository.ReferenceRepository) *IntegrityGuard {
	return &IntegrityGuard{refs: refs}
}

// Check returns a ReferentialIntegrityViolation naming the first table that
// still references entity id.
func (g *IntegrityGuard) Check(tx *gorm.DB, entity string, id uint) error {
	for _, d := range dependents[entity] {
		n, err := g.refs.CountTx(tx, d.table, d.column, id)
		if err != nil {
			return errs.Storage("count "+d.table, err)
		}
		if n > 0 {
			return &errs.ReferentialIntegrityViolation{
				Entity:        entity,
				ID:            id,
				BlockingTable: d.table,
				Count:         n,
			}
		}
	}
	return nil
}

func (g *IntegrityGuard) CheckCategory(tx *gorm.DB, id model.CategoryID) error {
	return g.Check(tx, EntityCategory, uint(id))
}

func (g *IntegrityGuard) CheckSupplier(tx *gorm.DB, id model.SupplierID) error {
	return g.Check(tx, EntitySupplier, uint(id))
}

func (g *IntegrityGuard) CheckCustomer(tx *gorm.DB, id model.CustomerID) error {
	return g.Check(tx, EntityCustomer, uint(id))
}

func (g *IntegrityGuard) CheckProduct(tx *gorm.DB, id model.ProductID) error {
	return g.Check(tx, EntityProduct, uint(id))
}

func (g *IntegrityGuard) CheckOrder(tx *gorm.DB, id model.OrderID) error {
	return g.Check(tx, EntityOrder, uint(id))
}

// Exists reports whether entity id is present.
func (g *IntegrityGuard) Exists(tx *gorm.DB, entity string, id uint) (bool, error) {
	ok, err := g.refs.ExistsTx(tx, entityTables[entity], id)
	if err != nil {
		return false, errs.Storage("lookup "+entity, err)
	}
	return ok, nil
}

// RequireExists is used for the target of an edit or delete.
func (g *IntegrityGuard) RequireExists(tx *gorm.DB, entity string, id uint) error {
	ok, err := g.Exists(tx, entity, id)
	if err != nil {
		return err
	}
	if !ok {
		return &errs.NotFoundError{Entity: entity, ID: id}
	}
	return nil
}

// ResolveRefs checks the back-references carried by an incoming record.
// A dangling reference is a validation failure of the record, reported
// under the given field name.
func (g *IntegrityGuard) ResolveRefs(tx *gorm.DB, owner string, refs []Ref) error {
	fields := map[string]string{}
	for _, r := range refs {
		if r.ID == 0 {
			continue
		}
		ok, err := g.Exists(tx, r.Entity, r.ID)
		if err != nil {
			return err
		}
		if !ok {
			fields[r.Field] = "does not exist"
		}
	}
	if len(fields) > 0 {
		return errs.NewValidation(owner, fields)
	}
	return nil
}

// Ref is one outgoing reference to verify with ResolveRefs. A zero ID means
// the optional reference is absent.
type Ref struct {
	Field  string
	Entity string
	ID     uint
}

// deleteGuarded runs the guard check and the delete in one unit of work so
// both observe the same snapshot.
func deleteGuarded(tx *gorm.DB, g *IntegrityGuard, entity string, id uint, del func(tx *gorm.DB) (int64, error)) error {
	if err := g.RequireExists(tx, entity, id); err != nil {
		return err
	}
	if err := g.Check(tx, entity, id); err != nil {
		return err
	}
	n, err := del(tx)
	if err != nil {
		return err
	}
	if n != 1 {
		return &errs.NotFoundError{Entity: entity, ID: id}
	}
	return nil
}
