package service

import (
	"testing"

	"tradebook/internal/dto"
	"tradebook/internal/errs"
	"tradebook/internal/model"
	"tradebook/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDeleteCategoryReferencedByProduct(t *testing.T) {
	f := newFixture(t)
	cat := f.category(t, "Tea")
	p := f.product(t, cat, "Longjing", 10, "5")
	before := f.snapshot(t)

	err := f.categories.Delete(f.ctx, cat)

	var riv *errs.ReferentialIntegrityViolation
	require.ErrorAs(t, err, &riv)
	assert.Equal(t, EntityCategory, riv.Entity)
	assert.Equal(t, "products", riv.BlockingTable)
	assert.EqualValues(t, 1, riv.Count)
	assert.Equal(t, before, f.snapshot(t))

	got, err := f.inventory.GetProduct(f.ctx, p)
	require.NoError(t, err)
	assert.Equal(t, cat, *got.CategoryID)
}

func TestGuardedDeletesReportBlockingTable(t *testing.T) {
	f := newFixture(t)
	cat := f.category(t, "Tea")
	supByProduct := f.supplier(t, "Hill Farm")
	supByLedger := f.supplier(t, "Freight Co")
	custByLedger := f.customer(t, "Walk-in")
	cust := f.customer(t, "Corner Shop")

	_, err := f.inventory.AddProduct(f.ctx, dto.ProductRequest{
		Name: "Oolong", CategoryID: &cat, SupplierID: &supByProduct, Quantity: 5,
	})
	require.NoError(t, err)
	sold := f.product(t, cat, "Sencha", 5, "3")
	f.commit(t, cust, line(sold, 1))
	_, err = f.ledger.RecordEntry(f.ctx, dto.LedgerEntryRequest{
		Direction: model.DirectionExpense, Channel: model.ChannelCorporate, Amount: dec("40"),
		SupplierID: &supByLedger, CustomerID: &custByLedger,
	})
	require.NoError(t, err)

	cases := []struct {
		name    string
		del     func() error
		blocked string
	}{
		{"supplier via nullable product column", func() error { return f.suppliers.Delete(f.ctx, supByProduct) }, "products"},
		{"supplier via ledger", func() error { return f.suppliers.Delete(f.ctx, supByLedger) }, "ledger_entries"},
		{"customer via order", func() error { return f.customers.Delete(f.ctx, cust) }, "orders"},
		{"customer via ledger", func() error { return f.customers.Delete(f.ctx, custByLedger) }, "ledger_entries"},
		{"product via order line", func() error { return f.inventory.DeleteProduct(f.ctx, sold) }, "order_lines"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := f.snapshot(t)
			var riv *errs.ReferentialIntegrityViolation
			require.ErrorAs(t, tc.del(), &riv)
			assert.Equal(t, tc.blocked, riv.BlockingTable)
			assert.Positive(t, riv.Count)
			assert.Equal(t, before, f.snapshot(t))
		})
	}
}

func TestUnreferencedDeletesRemoveExactlyOneRow(t *testing.T) {
	f := newFixture(t)
	cat := f.category(t, "Tea")
	spare := f.category(t, "Coffee")
	sup := f.supplier(t, "Hill Farm")
	f.supplier(t, "Other Farm")
	cust := f.customer(t, "Corner Shop")
	f.customer(t, "Tea House")
	p := f.product(t, cat, "Longjing", 10, "5")
	f.product(t, cat, "Sencha", 10, "5")

	cases := []struct {
		table string
		del   func() error
	}{
		{"categories", func() error { return f.categories.Delete(f.ctx, spare) }},
		{"suppliers", func() error { return f.suppliers.Delete(f.ctx, sup) }},
		{"customers", func() error { return f.customers.Delete(f.ctx, cust) }},
		{"products", func() error { return f.inventory.DeleteProduct(f.ctx, p) }},
	}
	for _, tc := range cases {
		t.Run(tc.table, func(t *testing.T) {
			n := f.count(t, tc.table)
			require.NoError(t, tc.del())
			assert.Equal(t, n-1, f.count(t, tc.table))
			assert.ErrorIs(t, tc.del(), errs.ErrNotFound)
		})
	}
}

func TestResolveRefsReportsDanglingReferences(t *testing.T) {
	f := newFixture(t)
	cust := f.customer(t, "Corner Shop")
	guard := NewIntegrityGuard(repository.NewReferenceRepository())

	err := f.db.Transaction(func(tx *gorm.DB) error {
		return guard.ResolveRefs(tx, EntityLedgerEntry, []Ref{
			{Field: "customer_id", Entity: EntityCustomer, ID: uint(cust)},
			{Field: "supplier_id", Entity: EntitySupplier, ID: 12},
			{Field: "order_id", Entity: EntityOrder, ID: 0},
		})
	})

	var verr *errs.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"supplier_id": "does not exist"}, verr.Fields)
}
