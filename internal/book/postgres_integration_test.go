//go:build integration

package book

import (
	"context"
	"strings"
	"testing"

	"tradebook/internal/dto"
	"tradebook/internal/errs"
	"tradebook/internal/infra"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// startPostgres runs one server holding a database per book and returns the
// DSN template for them.
func startPostgres(t *testing.T, books ...string) string {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase(books[0]),
		tcPostgres.WithUsername("tradebook"),
		tcPostgres.WithPassword("tradebook"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	url, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	admin, err := infra.NewDatabase(infra.DriverPostgres, url)
	require.NoError(t, err)
	for _, b := range books[1:] {
		require.NoError(t, admin.Exec("CREATE DATABASE "+b).Error)
	}
	require.NoError(t, infra.Close(admin))

	return strings.Replace(url, "/"+books[0]+"?", "/{book}?", 1)
}

func TestPostgresBooks(t *testing.T) {
	tmpl := startPostgres(t, "book1", "book2")
	m := NewManager(Config{
		Driver:      infra.DriverPostgres,
		DSNTemplate: tmpl,
		Books:       []string{"book1", "book2"},
	})
	t.Cleanup(func() { _ = m.Close() })
	ctx := context.Background()

	require.NoError(t, m.Open("book1"))
	require.NoError(t, m.With(ctx, func(ctx context.Context, s *Session) error {
		cat, err := s.Categories.Create(ctx, dto.CategoryRequest{Name: "Tea"})
		require.NoError(t, err)
		_, err = s.Categories.Create(ctx, dto.CategoryRequest{Name: "TEA"})
		assert.ErrorIs(t, err, errs.ErrDuplicate)

		cust, err := s.Customers.Create(ctx, dto.CustomerRequest{Name: "Acme", Type: "partner"})
		require.NoError(t, err)
		p, err := s.Inventory.AddProduct(ctx, dto.ProductRequest{
			Name: "Sencha", CategoryID: &cat.ID, Quantity: 10, SellingPrice: decimal.RequireFromString("4.25"),
		})
		require.NoError(t, err)

		order, err := s.Orders.Commit(ctx, dto.OrderRequest{
			CustomerID:  cust.ID,
			Channel:     "corporate",
			Lines:       []dto.OrderLineRequest{{ProductID: p.ID, Quantity: 12}},
			FreightCost: decimal.NewFromInt(5),
		})
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(56).Equal(order.TotalAmount), order.TotalAmount.String())

		p, err = s.Inventory.GetProduct(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, -2, p.Quantity)

		err = s.Customers.Delete(ctx, cust.ID)
		assert.ErrorIs(t, err, errs.ErrReferenced)
		return nil
	}))

	require.NoError(t, m.Open("book2"))
	require.NoError(t, m.With(ctx, func(ctx context.Context, s *Session) error {
		list, err := s.Orders.List(ctx)
		assert.Empty(t, list)
		return err
	}))
}
