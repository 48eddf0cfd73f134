package service

import (
	"context"
	"testing"

	"tradebook/internal/errs"
	"tradebook/internal/model"
	"tradebook/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory ProductRepository stub ────────────────────────────────────────

type stubProductRepo struct {
	repository.ProductRepository
	products map[model.ProductID]*model.Product
}

func (r *stubProductRepo) FindByID(_ context.Context, id model.ProductID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func newDraft() (*OrderDraft, *stubProductRepo) {
	repo := &stubProductRepo{products: map[model.ProductID]*model.Product{
		1: {ID: 1, Name: "Longjing", SellingPrice: dec("22.00")},
		2: {ID: 2, Name: "Oolong", SellingPrice: dec("14.50")},
	}}
	return NewOrderDraft(repo), repo
}

func TestDraftSnapshotsSellingPrice(t *testing.T) {
	d, repo := newDraft()
	ctx := context.Background()

	l, err := d.AddLine(ctx, 1, 3)
	require.NoError(t, err)
	assert.True(t, l.Subtotal().Equal(dec("66")))

	repo.products[1].SellingPrice = dec("30")
	assert.True(t, d.Lines()[0].UnitPrice.Equal(dec("22")))
}

func TestDraftAddLineRejectsBadInput(t *testing.T) {
	d, _ := newDraft()
	ctx := context.Background()

	_, err := d.AddLine(ctx, 1, 0)
	assert.ErrorIs(t, err, errs.ErrValidation)
	_, err = d.AddLine(ctx, 1, -2)
	assert.ErrorIs(t, err, errs.ErrValidation)
	_, err = d.AddLine(ctx, 99, 1)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	neg := dec("-0.01")
	_, err = d.addLine(ctx, 1, 1, &neg)
	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.Empty(t, d.Lines())
}

func TestDraftRemoveLine(t *testing.T) {
	d, _ := newDraft()
	ctx := context.Background()

	first, err := d.AddLine(ctx, 1, 1)
	require.NoError(t, err)
	second, err := d.AddLine(ctx, 2, 2)
	require.NoError(t, err)
	assert.NotEqual(t, first.Ref, second.Ref)

	require.NoError(t, d.RemoveLine(first.Ref))
	require.Len(t, d.Lines(), 1)
	assert.Equal(t, model.ProductID(2), d.Lines()[0].ProductID)
	assert.ErrorIs(t, d.RemoveLine(first.Ref), errs.ErrNotFound)
}

func TestDraftTotalIsLenient(t *testing.T) {
	d, _ := newDraft()
	ctx := context.Background()
	_, err := d.AddLine(ctx, 1, 2)
	require.NoError(t, err)
	_, err = d.AddLine(ctx, 2, 1)
	require.NoError(t, err)

	cases := []struct {
		freight, commission, want string
	}{
		{"", "", "58.50"},
		{"10", "3.5", "65.00"},
		{"ten", "3.5", "55.00"},
		{" 4.25 ", "n/a", "62.75"},
	}
	for _, tc := range cases {
		got := d.Total(tc.freight, tc.commission)
		assert.True(t, got.Equal(dec(tc.want)), "freight=%q commission=%q: got %s", tc.freight, tc.commission, got)
	}
}

func TestDraftRequestIsStrict(t *testing.T) {
	d, _ := newDraft()
	_, err := d.AddLine(context.Background(), 2, 4)
	require.NoError(t, err)

	_, err = d.Request(7, model.ChannelCorporate, "ten", "1,5", "")
	var verr *errs.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "freight_cost")
	assert.Contains(t, verr.Fields, "commission")

	req, err := d.Request(7, model.ChannelCorporate, "5", "", "rush")
	require.NoError(t, err)
	assert.Equal(t, model.CustomerID(7), req.CustomerID)
	assert.True(t, req.FreightCost.Equal(dec("5")))
	assert.True(t, req.Commission.IsZero())
	require.Len(t, req.Lines, 1)
	assert.True(t, req.Lines[0].UnitPrice.Equal(dec("14.50")))
	assert.Equal(t, 4, req.Lines[0].Quantity)
}

func TestComputeTotal(t *testing.T) {
	lines := []model.OrderLine{
		{Quantity: 3, UnitPrice: dec("5")},
		{Quantity: 2, UnitPrice: dec("0.35")},
	}
	assert.True(t, ComputeTotal(lines, dec("2"), dec("1.2")).Equal(dec("16.50")))
	assert.True(t, ComputeTotal(nil, dec("0"), dec("0")).IsZero())
}

func TestDraftCommitsThroughEngine(t *testing.T) {
	f := newFixture(t)
	cat := f.category(t, "Tea")
	cust := f.customer(t, "Corner Shop")
	p := f.product(t, cat, "Longjing", 10, "5.0")

	d := f.orders.NewDraft()
	_, err := d.AddLine(f.ctx, p, 3)
	require.NoError(t, err)
	req, err := d.Request(cust, model.ChannelCorporate, "", "", "")
	require.NoError(t, err)

	o, err := f.orders.Commit(f.ctx, req)
	require.NoError(t, err)
	assert.True(t, o.TotalAmount.Equal(d.Total("", "")))
	assert.Equal(t, 7, f.quantity(t, p))
}
