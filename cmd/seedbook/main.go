// Command seedbook fills a book with demo data through the services, so the
// data obeys the same rules as anything entered over the API.
//
// Usage: go run ./cmd/seedbook [book]
package main

import (
	"context"
	"os"

	"tradebook/internal/book"
	"tradebook/internal/config"
	"tradebook/internal/dto"
	"tradebook/internal/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	name := cfg.DefaultBook
	if len(os.Args) > 1 {
		name = os.Args[1]
	}

	books := book.NewManager(book.Config{
		Driver:      cfg.DBDriver,
		Dir:         cfg.BooksDir,
		DSNTemplate: cfg.DatabaseURL,
		Books:       cfg.Books(),
	})
	if err := books.Open(name); err != nil {
		log.Fatal().Err(err).Str("book", name).Msg("failed to open book")
	}
	defer books.Close()

	err = books.With(context.Background(), seed)
	if err != nil {
		log.Fatal().Err(err).Str("book", name).Msg("seed failed")
	}
	log.Info().Str("book", name).Msg("book seeded")
}

func seed(ctx context.Context, s *book.Session) error {
	tea, err := s.Categories.Create(ctx, dto.CategoryRequest{Name: "Tea"})
	if err != nil {
		return err
	}
	farm, err := s.Suppliers.Create(ctx, dto.SupplierRequest{
		Name: "Hill Farm", Contact: "+86 571 0000 0000", Type: model.SupplierProducer,
	})
	if err != nil {
		return err
	}
	shop, err := s.Customers.Create(ctx, dto.CustomerRequest{
		Name: "Corner Shop", Contact: "orders@corner.example", Type: model.CustomerPartner,
	})
	if err != nil {
		return err
	}

	products := []struct {
		name      string
		qty       int
		buy, sell string
	}{
		{"Longjing 250g", 40, "12.50", "22.00"},
		{"Oolong 100g", 25, "6.80", "14.50"},
		{"Pu-erh cake", 8, "30.00", "58.00"},
	}
	var lines []dto.OrderLineRequest
	for _, p := range products {
		catID, supID := tea.ID, farm.ID
		resp, err := s.Inventory.AddProduct(ctx, dto.ProductRequest{
			Name:          p.name,
			CategoryID:    &catID,
			SupplierID:    &supID,
			Quantity:      p.qty,
			PurchasePrice: decimal.RequireFromString(p.buy),
			SellingPrice:  decimal.RequireFromString(p.sell),
		})
		if err != nil {
			return err
		}
		lines = append(lines, dto.OrderLineRequest{ProductID: resp.ID, Quantity: 2})
	}

	order, err := s.Orders.Commit(ctx, dto.OrderRequest{
		CustomerID:  shop.ID,
		Channel:     model.ChannelCorporate,
		Lines:       lines,
		FreightCost: decimal.RequireFromString("8.00"),
		Notes:       "opening order",
	})
	if err != nil {
		return err
	}

	customerID, orderID := shop.ID, order.ID
	_, err = s.Ledger.RecordEntry(ctx, dto.LedgerEntryRequest{
		Direction:   model.DirectionIncome,
		Channel:     model.ChannelCorporate,
		Amount:      order.TotalAmount,
		Description: "payment for opening order",
		CustomerID:  &customerID,
		OrderID:     &orderID,
	})
	return err
}
