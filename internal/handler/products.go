package handler

import (
	"context"
	"net/http"

	"tradebook/internal/book"
	"tradebook/internal/dto"
	"tradebook/internal/model"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct{ books *book.Manager }

func NewProductsHandler(books *book.Manager) *ProductsHandler {
	return &ProductsHandler{books: books}
}

// Create POST /v1/products
func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	serve(c, h.books, http.StatusCreated, func(ctx context.Context, s *book.Session) (any, error) {
		return s.Inventory.AddProduct(ctx, req)
	})
}

func (h *ProductsHandler) List(c *gin.Context) {
	serve(c, h.books, http.StatusOK, func(ctx context.Context, s *book.Session) (any, error) {
		return s.Inventory.ListProducts(ctx)
	})
}

// LowStock GET /v1/products/low-stock
func (h *ProductsHandler) LowStock(c *gin.Context) {
	serve(c, h.books, http.StatusOK, func(ctx context.Context, s *book.Session) (any, error) {
		return s.Inventory.ListLowStock(ctx)
	})
}

func (h *ProductsHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	serve(c, h.books, http.StatusOK, func(ctx context.Context, s *book.Session) (any, error) {
		return s.Inventory.GetProduct(ctx, model.ProductID(id))
	})
}

// Edit PUT /v1/products/:id
func (h *ProductsHandler) Edit(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	serve(c, h.books, http.StatusOK, func(ctx context.Context, s *book.Session) (any, error) {
		return s.Inventory.EditProduct(ctx, model.ProductID(id), req)
	})
}

func (h *ProductsHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	serve(c, h.books, http.StatusNoContent, func(ctx context.Context, s *book.Session) (any, error) {
		return nil, s.Inventory.DeleteProduct(ctx, model.ProductID(id))
	})
}
