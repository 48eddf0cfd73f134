package handler

import (
	"context"
	"net/http"

	"tradebook/internal/book"
	"tradebook/internal/dto"
	"tradebook/internal/model"

	"github.com/gin-gonic/gin"
)

type SuppliersHandler struct{ books *book.Manager }

func NewSuppliersHandler(books *book.Manager) *SuppliersHandler {
	return &SuppliersHandler{books: books}
}

// Create POST /v1/suppliers
func (h *SuppliersHandler) Create(c *gin.Context) {
	var req dto.SupplierRequest
	if !bindAndValidate(c, &req) {
		return
	}
	serve(c, h.books, http.StatusCreated, func(ctx context.Context, s *book.Session) (any, error) {
		return s.Suppliers.Create(ctx, req)
	})
}

func (h *SuppliersHandler) List(c *gin.Context) {
	serve(c, h.books, http.StatusOK, func(ctx context.Context, s *book.Session) (any, error) {
		return s.Suppliers.List(ctx)
	})
}

func (h *SuppliersHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	serve(c, h.books, http.StatusOK, func(ctx context.Context, s *book.Session) (any, error) {
		return s.Suppliers.Get(ctx, model.SupplierID(id))
	})
}

// Edit PUT /v1/suppliers/:id replaces every editable field.
func (h *SuppliersHandler) Edit(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.SupplierRequest
	if !bindAndValidate(c, &req) {
		return
	}
	serve(c, h.books, http.StatusOK, func(ctx context.Context, s *book.Session) (any, error) {
		return s.Suppliers.Edit(ctx, model.SupplierID(id), req)
	})
}

func (h *SuppliersHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	serve(c, h.books, http.StatusNoContent, func(ctx context.Context, s *book.Session) (any, error) {
		return nil, s.Suppliers.Delete(ctx, model.SupplierID(id))
	})
}

type CustomersHandler struct{ books *book.Manager }

func NewCustomersHandler(books *book.Manager) *CustomersHandler {
	return &CustomersHandler{books: books}
}

// Create POST /v1/customers
func (h *CustomersHandler) Create(c *gin.Context) {
	var req dto.CustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	serve(c, h.books, http.StatusCreated, func(ctx context.Context, s *book.Session) (any, error) {
		return s.Customers.Create(ctx, req)
	})
}

func (h *CustomersHandler) List(c *gin.Context) {
	serve(c, h.books, http.StatusOK, func(ctx context.Context, s *book.Session) (any, error) {
		return s.Customers.List(ctx)
	})
}

func (h *CustomersHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	serve(c, h.books, http.StatusOK, func(ctx context.Context, s *book.Session) (any, error) {
		return s.Customers.Get(ctx, model.CustomerID(id))
	})
}

func (h *CustomersHandler) Edit(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	serve(c, h.books, http.StatusOK, func(ctx context.Context, s *book.Session) (any, error) {
		return s.Customers.Edit(ctx, model.CustomerID(id), req)
	})
}

// Delete DELETE /v1/customers/:id is refused while orders or ledger
// entries reference the customer.
func (h *CustomersHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	serve(c, h.books, http.StatusNoContent, func(ctx context.Context, s *book.Session) (any, error) {
		return nil, s.Customers.Delete(ctx, model.CustomerID(id))
	})
}
