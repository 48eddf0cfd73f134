package handler

import (
	"context"
	"net/http"

	"tradebook/internal/book"
	"tradebook/internal/dto"
	"tradebook/internal/model"

	"github.com/gin-gonic/gin"
)

type LedgerHandler struct{ books *book.Manager }

func NewLedgerHandler(books *book.Manager) *LedgerHandler {
	return &LedgerHandler{books: books}
}

// Record POST /v1/ledger
func (h *LedgerHandler) Record(c *gin.Context) {
	var req dto.LedgerEntryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	serve(c, h.books, http.StatusCreated, func(ctx context.Context, s *book.Session) (any, error) {
		return s.Ledger.RecordEntry(ctx, req)
	})
}

func (h *LedgerHandler) List(c *gin.Context) {
	serve(c, h.books, http.StatusOK, func(ctx context.Context, s *book.Session) (any, error) {
		return s.Ledger.ListEntries(ctx)
	})
}

// Summary GET /v1/ledger/summary
func (h *LedgerHandler) Summary(c *gin.Context) {
	serve(c, h.books, http.StatusOK, func(ctx context.Context, s *book.Session) (any, error) {
		return s.Ledger.Summary(ctx)
	})
}

func (h *LedgerHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	serve(c, h.books, http.StatusOK, func(ctx context.Context, s *book.Session) (any, error) {
		return s.Ledger.GetEntry(ctx, model.EntryID(id))
	})
}

func (h *LedgerHandler) Edit(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.LedgerEntryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	serve(c, h.books, http.StatusOK, func(ctx context.Context, s *book.Session) (any, error) {
		return s.Ledger.EditEntry(ctx, model.EntryID(id), req)
	})
}

func (h *LedgerHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	serve(c, h.books, http.StatusNoContent, func(ctx context.Context, s *book.Session) (any, error) {
		return nil, s.Ledger.DeleteEntry(ctx, model.EntryID(id))
	})
}
