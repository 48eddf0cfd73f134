package handler

import (
	"context"
	"net/http"

	"tradebook/internal/book"
	"tradebook/internal/dto"
	"tradebook/internal/model"

	"github.com/gin-gonic/gin"
)

type CategoriesHandler struct{ books *book.Manager }

func NewCategoriesHandler(books *book.Manager) *CategoriesHandler {
	return &CategoriesHandler{books: books}
}

// Create POST /v1/categories
func (h *CategoriesHandler) Create(c *gin.Context) {
	var req dto.CategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	serve(c, h.books, http.StatusCreated, func(ctx context.Context, s *book.Session) (any, error) {
		return s.Categories.Create(ctx, req)
	})
}

// List GET /v1/categories
func (h *CategoriesHandler) List(c *gin.Context) {
	serve(c, h.books, http.StatusOK, func(ctx context.Context, s *book.Session) (any, error) {
		return s.Categories.List(ctx)
	})
}

// Rename PUT /v1/categories/:id
func (h *CategoriesHandler) Rename(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	serve(c, h.books, http.StatusOK, func(ctx context.Context, s *book.Session) (any, error) {
		return s.Categories.Rename(ctx, model.CategoryID(id), req)
	})
}

// Delete DELETE /v1/categories/:id
func (h *CategoriesHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	serve(c, h.books, http.StatusNoContent, func(ctx context.Context, s *book.Session) (any, error) {
		return nil, s.Categories.Delete(ctx, model.CategoryID(id))
	})
}

// Products GET /v1/categories/:id/products
func (h *CategoriesHandler) Products(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	serve(c, h.books, http.StatusOK, func(ctx context.Context, s *book.Session) (any, error) {
		return s.Inventory.ListByCategory(ctx, model.CategoryID(id))
	})
}
