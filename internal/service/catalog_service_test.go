package service

import (
	"errors"
	"sync"
	"testing"

	"tradebook/internal/dto"
	"tradebook/internal/errs"
	"tradebook/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryNamesAreUnique(t *testing.T) {
	f := newFixture(t)
	tea := f.category(t, "Tea")
	f.category(t, "Coffee")

	_, err := f.categories.Create(f.ctx, dto.CategoryRequest{Name: " tea "})
	var dup *errs.DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "name", dup.Field)

	_, err = f.categories.Rename(f.ctx, tea, dto.CategoryRequest{Name: "Coffee"})
	assert.ErrorIs(t, err, errs.ErrDuplicate)

	renamed, err := f.categories.Rename(f.ctx, tea, dto.CategoryRequest{Name: "TEA"})
	require.NoError(t, err)
	assert.Equal(t, "TEA", renamed.Name)

	_, err = f.categories.Create(f.ctx, dto.CategoryRequest{Name: "   "})
	assert.ErrorIs(t, err, errs.ErrValidation)

	list, err := f.categories.List(f.ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Coffee", list[0].Name)
}

func TestConcurrentCategorySpellingsAdmitOne(t *testing.T) {
	f := newFixture(t)
	names := []string{"Tea", "tea", "TEA", "tEa", "teA", "TeA"}

	var wg sync.WaitGroup
	results := make([]error, len(names))
	for i, name := range names {
		i, name := i, name
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = f.categories.Create(f.ctx, dto.CategoryRequest{Name: name})
		}()
	}
	wg.Wait()

	created := 0
	for _, err := range results {
		if err == nil {
			created++
			continue
		}
		assert.True(t, errors.Is(err, errs.ErrDuplicate), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, created)
	assert.EqualValues(t, 1, f.count(t, "categories"))
}

func TestRenameMissingCategory(t *testing.T) {
	f := newFixture(t)
	_, err := f.categories.Rename(f.ctx, 3, dto.CategoryRequest{Name: "Tea"})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestSupplierEditIsFullReplace(t *testing.T) {
	f := newFixture(t)
	s, err := f.suppliers.Create(f.ctx, dto.SupplierRequest{
		Name: "Hill Farm", Contact: "+1 555", Address: "Valley road", Notes: "ships monthly", Type: model.SupplierProducer,
	})
	require.NoError(t, err)

	edited, err := f.suppliers.Edit(f.ctx, s.ID, dto.SupplierRequest{Name: "Hill Farm Ltd", Type: model.SupplierAgent})
	require.NoError(t, err)

	got, err := f.suppliers.Get(f.ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, edited, got)
	assert.Empty(t, got.Contact)
	assert.Empty(t, got.Notes)
	assert.Equal(t, model.SupplierAgent, got.Type)
}

func TestPartnerValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.suppliers.Create(f.ctx, dto.SupplierRequest{Name: "X", Type: "retailer"})
	var verr *errs.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "type")

	_, err = f.customers.Create(f.ctx, dto.CustomerRequest{Type: model.CustomerProspect})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")

	_, err = f.customers.Edit(f.ctx, 8, dto.CustomerRequest{Name: "Ghost", Type: model.CustomerContacted})
	assert.ErrorIs(t, err, errs.ErrNotFound)

	assert.Zero(t, f.count(t, "suppliers"))
	assert.Zero(t, f.count(t, "customers"))
}

func TestCustomerList(t *testing.T) {
	f := newFixture(t)
	a := f.customer(t, "Corner Shop")
	b := f.customer(t, "Tea House")

	list, err := f.customers.List(f.ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a, list[0].ID)
	assert.Equal(t, b, list[1].ID)
}
