package service

import (
	"testing"

	"tradebook/internal/dto"
	"tradebook/internal/errs"
	"tradebook/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAddProductDefaultsAndRounding(t *testing.T) {
	f := newFixture(t)
	cat := f.category(t, "Tea")
	sup := f.supplier(t, "Hill Farm")

	p, err := f.inventory.AddProduct(f.ctx, dto.ProductRequest{
		Name:          "  Longjing 250g ",
		CategoryID:    &cat,
		SupplierID:    &sup,
		Quantity:      4,
		PurchasePrice: dec("12.499"),
		SellingPrice:  dec("22"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Longjing 250g", p.Name)
	assert.Equal(t, dto.DefaultReorderThreshold, p.ReorderThreshold)
	assert.True(t, p.BelowThreshold)
	assert.True(t, p.PurchasePrice.Equal(dec("12.5")))
	assert.Equal(t, sup, *p.SupplierID)
}

func TestProductValidationOnAddAndEdit(t *testing.T) {
	f := newFixture(t)
	cat := f.category(t, "Tea")
	existing := f.product(t, cat, "Longjing", 10, "5")
	negative := -1

	cases := []struct {
		name  string
		req   dto.ProductRequest
		field string
	}{
		{"missing name", dto.ProductRequest{CategoryID: &cat}, "name"},
		{"missing category", dto.ProductRequest{Name: "Oolong"}, "category_id"},
		{"negative quantity", dto.ProductRequest{Name: "Oolong", CategoryID: &cat, Quantity: -2}, "quantity"},
		{"negative purchase price", dto.ProductRequest{Name: "Oolong", CategoryID: &cat, PurchasePrice: dec("-0.01")}, "purchase_price"},
		{"negative selling price", dto.ProductRequest{Name: "Oolong", CategoryID: &cat, SellingPrice: dec("-3")}, "selling_price"},
		{"negative threshold", dto.ProductRequest{Name: "Oolong", CategoryID: &cat, ReorderThreshold: &negative}, "reorder_threshold"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := f.snapshot(t)

			_, err := f.inventory.AddProduct(f.ctx, tc.req)
			var verr *errs.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tc.field)

			_, err = f.inventory.EditProduct(f.ctx, existing, tc.req)
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tc.field)

			assert.Equal(t, before, f.snapshot(t))
		})
	}
}

func TestAddProductRejectsDanglingReferences(t *testing.T) {
	f := newFixture(t)
	cat := model.CategoryID(41)
	sup := model.SupplierID(42)

	_, err := f.inventory.AddProduct(f.ctx, dto.ProductRequest{Name: "Oolong", CategoryID: &cat, SupplierID: &sup})

	var verr *errs.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "does not exist", verr.Fields["category_id"])
	assert.Equal(t, "does not exist", verr.Fields["supplier_id"])
	assert.Zero(t, f.count(t, "products"))
}

func TestEditProductReplacesEveryField(t *testing.T) {
	f := newFixture(t)
	tea := f.category(t, "Tea")
	coffee := f.category(t, "Coffee")
	sup := f.supplier(t, "Hill Farm")
	threshold := 2

	p, err := f.inventory.AddProduct(f.ctx, dto.ProductRequest{
		Name: "Blend", CategoryID: &tea, SupplierID: &sup, Quantity: 30, SellingPrice: dec("9"),
	})
	require.NoError(t, err)

	edited, err := f.inventory.EditProduct(f.ctx, p.ID, dto.ProductRequest{
		Name: "House blend", CategoryID: &coffee, Quantity: 3, SellingPrice: dec("11.5"), ReorderThreshold: &threshold,
	})
	require.NoError(t, err)

	assert.Equal(t, "House blend", edited.Name)
	assert.Equal(t, coffee, *edited.CategoryID)
	assert.Nil(t, edited.SupplierID)
	assert.Equal(t, 3, edited.Quantity)
	assert.Equal(t, 2, edited.ReorderThreshold)
	assert.False(t, edited.BelowThreshold)

	byCat, err := f.inventory.ListByCategory(f.ctx, tea)
	require.NoError(t, err)
	assert.Empty(t, byCat)
	byCat, err = f.inventory.ListByCategory(f.ctx, coffee)
	require.NoError(t, err)
	require.Len(t, byCat, 1)

	// The supplier is no longer referenced and can go.
	require.NoError(t, f.suppliers.Delete(f.ctx, sup))
}

func TestEditMissingProduct(t *testing.T) {
	f := newFixture(t)
	cat := f.category(t, "Tea")
	_, err := f.inventory.EditProduct(f.ctx, 9, dto.ProductRequest{Name: "Ghost", CategoryID: &cat})
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = f.inventory.GetProduct(f.ctx, 9)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestAdjustQuantityHasNoFloor(t *testing.T) {
	f := newFixture(t)
	cat := f.category(t, "Tea")
	p := f.product(t, cat, "Longjing", 1, "5")

	err := f.db.Transaction(func(tx *gorm.DB) error {
		return f.inventory.adjustQuantity(tx, p, -4)
	})
	require.NoError(t, err)
	assert.Equal(t, -3, f.quantity(t, p))

	err = f.db.Transaction(func(tx *gorm.DB) error {
		return f.inventory.adjustQuantity(tx, 500, 1)
	})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestListLowStockOrdersByQuantity(t *testing.T) {
	f := newFixture(t)
	cat := f.category(t, "Tea")
	f.product(t, cat, "Plenty", 50, "1")
	seven := f.product(t, cat, "Seven", 7, "1")
	ten := f.product(t, cat, "Ten", 10, "1")
	zero := f.product(t, cat, "Zero", 0, "1")

	low, err := f.inventory.ListLowStock(f.ctx)
	require.NoError(t, err)

	ids := make([]model.ProductID, 0, len(low))
	for _, p := range low {
		ids = append(ids, p.ID)
		assert.True(t, p.BelowThreshold)
	}
	assert.Equal(t, []model.ProductID{zero, seven, ten}, ids)
}
