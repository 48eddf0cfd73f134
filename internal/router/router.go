package router

import (
	"time"

	"tradebook/internal/book"
	"tradebook/internal/config"
	"tradebook/internal/handler"
	"tradebook/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// New wires the handlers and returns a configured Gin engine. Every /v1
// route except the books group runs against the book currently open in
// books. rdb may be nil when notifications are disabled.
func New(cfg *config.Config, books *book.Manager, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Handlers ─────────────────────────────────────────────────────────────
	booksH := handler.NewBooksHandler(books)
	categoriesH := handler.NewCategoriesHandler(books)
	suppliersH := handler.NewSuppliersHandler(books)
	customersH := handler.NewCustomersHandler(books)
	productsH := handler.NewProductsHandler(books)
	ordersH := handler.NewOrdersHandler(books)
	ledgerH := handler.NewLedgerHandler(books)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(books, rdb))

	v1 := r.Group("/v1")
	{
		v1.GET("/books", booksH.List)
		v1.GET("/books/current", booksH.Current)
		v1.POST("/books/:name/open", booksH.Open)

		categories := v1.Group("/categories")
		{
			categories.GET("", categoriesH.List)
			categories.POST("", categoriesH.Create)
			categories.PUT("/:id", categoriesH.Rename)
			categories.DELETE("/:id", categoriesH.Delete)
			categories.GET("/:id/products", categoriesH.Products)
		}

		suppliers := v1.Group("/suppliers")
		{
			suppliers.GET("", suppliersH.List)
			suppliers.POST("", suppliersH.Create)
			suppliers.GET("/:id", suppliersH.Get)
			suppliers.PUT("/:id", suppliersH.Edit)
			suppliers.DELETE("/:id", suppliersH.Delete)
		}

		customers := v1.Group("/customers")
		{
			customers.GET("", customersH.List)
			customers.POST("", customersH.Create)
			customers.GET("/:id", customersH.Get)
			customers.PUT("/:id", customersH.Edit)
			customers.DELETE("/:id", customersH.Delete)
		}

		products := v1.Group("/products")
		{
			products.GET("", productsH.List)
			products.POST("", productsH.Create)
			products.GET("/low-stock", productsH.LowStock)
			products.GET("/:id", productsH.Get)
			products.PUT("/:id", productsH.Edit)
			products.DELETE("/:id", productsH.Delete)
		}

		orders := v1.Group("/orders")
		{
			orders.GET("", ordersH.List)
			orders.POST("", ordersH.Commit)
			orders.POST("/quote", ordersH.Quote)
			orders.GET("/:id", ordersH.Get)
			orders.GET("/:id/lines", ordersH.Lines)
			orders.PUT("/:id", ordersH.Revise)
			orders.DELETE("/:id", ordersH.Cancel)
		}

		ledger := v1.Group("/ledger")
		{
			ledger.GET("", ledgerH.List)
			ledger.POST("", ledgerH.Record)
			ledger.GET("/summary", ledgerH.Summary)
			ledger.GET("/:id", ledgerH.Get)
			ledger.PUT("/:id", ledgerH.Edit)
			ledger.DELETE("/:id", ledgerH.Delete)
		}
	}

	return r
}
