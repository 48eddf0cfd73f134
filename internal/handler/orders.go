package handler

import (
	"context"
	"net/http"

	"tradebook/internal/book"
	"tradebook/internal/dto"
	"tradebook/internal/model"

	"github.com/gin-gonic/gin"
)

type OrdersHandler struct{ books *book.Manager }

func NewOrdersHandler(books *book.Manager) *OrdersHandler {
	return &OrdersHandler{books: books}
}

// Commit POST /v1/orders
func (h *OrdersHandler) Commit(c *gin.Context) {
	var req dto.OrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	serve(c, h.books, http.StatusCreated, func(ctx context.Context, s *book.Session) (any, error) {
		return s.Orders.Commit(ctx, req)
	})
}

// Quote POST /v1/orders/quote prices a draft without saving it.
func (h *OrdersHandler) Quote(c *gin.Context) {
	var req dto.QuoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	serve(c, h.books, http.StatusOK, func(ctx context.Context, s *book.Session) (any, error) {
		return s.Orders.Quote(ctx, req)
	})
}

// List GET /v1/orders, most recent first.
func (h *OrdersHandler) List(c *gin.Context) {
	serve(c, h.books, http.StatusOK, func(ctx context.Context, s *book.Session) (any, error) {
		return s.Orders.List(ctx)
	})
}

func (h *OrdersHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	serve(c, h.books, http.StatusOK, func(ctx context.Context, s *book.Session) (any, error) {
		return s.Orders.Get(ctx, model.OrderID(id))
	})
}

// Lines GET /v1/orders/:id/lines
func (h *OrdersHandler) Lines(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	serve(c, h.books, http.StatusOK, func(ctx context.Context, s *book.Session) (any, error) {
		return s.Orders.ListLines(ctx, model.OrderID(id))
	})
}

// Revise PUT /v1/orders/:id replaces the header and the whole line set.
func (h *OrdersHandler) Revise(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.OrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	serve(c, h.books, http.StatusOK, func(ctx context.Context, s *book.Session) (any, error) {
		return s.Orders.Revise(ctx, model.OrderID(id), req)
	})
}

// Cancel DELETE /v1/orders/:id
func (h *OrdersHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	serve(c, h.books, http.StatusNoContent, func(ctx context.Context, s *book.Session) (any, error) {
		return nil, s.Orders.Cancel(ctx, model.OrderID(id))
	})
}
