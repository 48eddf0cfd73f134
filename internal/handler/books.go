package handler

import (
	"net/http"

	"tradebook/internal/book"
	"tradebook/internal/dto"

	"github.com/gin-gonic/gin"
)

type BooksHandler struct{ books *book.Manager }

func NewBooksHandler(books *book.Manager) *BooksHandler {
	return &BooksHandler{books: books}
}

// List GET /v1/books
func (h *BooksHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.books.List())
}

// Current GET /v1/books/current
func (h *BooksHandler) Current(c *gin.Context) {
	name := h.books.Current()
	if name == "" {
		writeError(c, book.ErrNoBook)
		return
	}
	c.JSON(http.StatusOK, dto.BookResponse{Name: name, Current: true})
}

// Open POST /v1/books/:name/open closes the current book and opens another.
func (h *BooksHandler) Open(c *gin.Context) {
	name := c.Param("name")
	if err := h.books.Open(name); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.BookResponse{Name: name, Current: true})
}
