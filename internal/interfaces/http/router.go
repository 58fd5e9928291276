package http

import (
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/ferreteria-api/internal/application/analytics"
	"github.com/jhoicas/ferreteria-api/internal/application/billing"
	"github.com/jhoicas/ferreteria-api/internal/application/inventory"
	"github.com/jhoicas/ferreteria-api/internal/application/purchasing"
	"github.com/jhoicas/ferreteria-api/internal/application/usecase"
	"github.com/jhoicas/ferreteria-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC        *usecase.ProductUseCase
	CategoryUC       *usecase.CategoryUseCase
	SupplierUC       *usecase.SupplierUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	Receipts         *inventory.ReceiptUseCase
	Replenishment    *inventory.ReplenishmentUseCase
	CustomerUC       *billing.CustomerUseCase
	CreateInvoice    *billing.CreateInvoiceUseCase
	InvoiceQuery     *billing.InvoiceQueryUseCase
	PurchaseOrders   *purchasing.OrderUseCase
	PurchaseInvoices *purchasing.InvoiceUseCase
	DashboardUC      *appanalytics.DashboardUseCase
	JWTSecret        string

	// Servidor
	AppName        string
	Log            *logger.Logger
	DB             Pinger
	Cache          Pinger // nil si Redis no está configurado
	AllowedOrigins string
	BodyLimitMB    int
	DocsFile       string // swagger.json; vacío o inexistente deshabilita /docs
}

// NewServer arma la aplicación Fiber con el manejador de errores, los middlewares y las rutas.
func NewServer(deps RouterDeps) *fiber.App {
	bodyLimit := deps.BodyLimitMB
	if bodyLimit <= 0 {
		bodyLimit = 10
	}
	app := fiber.New(fiber.Config{
		AppName:      deps.AppName,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    bodyLimit * 1024 * 1024,
		ErrorHandler: NewErrorHandler(deps.Log),
	})
	app.Use(recover.New())

	origins := deps.AllowedOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))
	app.Use(RequestLogger(deps.Log))

	// Swagger UI en local: http://localhost:<port>/docs
	if deps.DocsFile != "" {
		if _, err := os.Stat(deps.DocsFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: deps.DocsFile,
				Path:     "docs",
				Title:    "Ferretería API",
			}))
		}
	}

	app.Get("/health", NewHealthHandler(deps.DB, deps.Cache).Check)

	Router(app, deps)
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	adminOnly := RequireRole(RoleAdmin)
	stockRoles := RequireRole(RoleAdmin, RoleDeposito)

	// Products: las rutas fijas antes de /:id
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Replenishment)
	products.Post("/", productHandler.Create)
	products.Post("/quick", productHandler.QuickCreate)
	products.Get("/", productHandler.List)
	products.Get("/dropdown", productHandler.Dropdown)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/low-stock/export", productHandler.ExportLowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Categories / Subcategories
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories := api.Group("/categories")
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/dropdown", categoryHandler.Dropdown)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", adminOnly, categoryHandler.Delete)

	subcategories := api.Group("/subcategories")
	subcategories.Post("/", categoryHandler.CreateSubcategory)
	subcategories.Get("/", categoryHandler.ListSubcategories)
	subcategories.Put("/:id", categoryHandler.UpdateSubcategory)
	subcategories.Delete("/:id", adminOnly, categoryHandler.DeleteSubcategory)

	// Suppliers / Product-suppliers
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers := api.Group("/suppliers")
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/dropdown", supplierHandler.Dropdown)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", adminOnly, supplierHandler.Delete)

	productSuppliers := api.Group("/product-suppliers")
	productSuppliers.Post("/", supplierHandler.CreateProductSupplier)
	productSuppliers.Get("/", supplierHandler.ListProductSuppliers)
	productSuppliers.Put("/:id", supplierHandler.UpdateProductSupplier)
	productSuppliers.Delete("/:id", supplierHandler.DeleteProductSupplier)

	// Customers
	customers := api.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Post("/from-invoice", customerHandler.CreateFromInvoice)
	customers.Get("/", customerHandler.List)
	customers.Get("/dropdown", customerHandler.Dropdown)
	customers.Get("/by-document", customerHandler.ByDocument)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", adminOnly, customerHandler.Delete)

	// Inventario
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.Receipts, deps.Replenishment)
	api.Get("/movements", inventoryHandler.ListMovements)
	api.Post("/movements", stockRoles, inventoryHandler.RegisterMovement)
	api.Get("/replenishment-list", inventoryHandler.GetReplenishmentList)

	receipts := api.Group("/goods-receipts", stockRoles)
	receipts.Post("/", inventoryHandler.CreateGoodsReceipt)
	receipts.Get("/", inventoryHandler.ListGoodsReceipts)
	receipts.Get("/:id", inventoryHandler.GetGoodsReceipt)

	// Invoices
	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.CreateInvoice, deps.InvoiceQuery)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Get("/:id/print-data", invoiceHandler.PrintData)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)

	// Compras
	purchasingHandler := NewPurchasingHandler(deps.PurchaseOrders, deps.PurchaseInvoices)
	orders := api.Group("/purchase-orders", stockRoles)
	orders.Post("/", purchasingHandler.CreateOrder)
	orders.Get("/", purchasingHandler.ListOrders)
	orders.Get("/:id", purchasingHandler.GetOrder)
	orders.Put("/:id/status", purchasingHandler.UpdateOrderStatus)
	orders.Patch("/:id/status", purchasingHandler.UpdateOrderStatus)

	purchaseInvoices := api.Group("/purchase-invoices", adminOnly)
	purchaseInvoices.Post("/", purchasingHandler.CreateInvoice)
	purchaseInvoices.Get("/", purchasingHandler.ListInvoices)
	purchaseInvoices.Get("/statistics", purchasingHandler.Statistics)
	purchaseInvoices.Get("/export", purchasingHandler.Export)
	purchaseInvoices.Get("/:id", purchasingHandler.GetInvoice)
	purchaseInvoices.Put("/:id", purchasingHandler.UpdateInvoice)
	purchaseInvoices.Delete("/:id", purchasingHandler.DeleteInvoice)
	purchaseInvoices.Post("/:id/mark-paid", purchasingHandler.MarkPaid)
	purchaseInvoices.Post("/:id/cancel", purchasingHandler.Cancel)
	purchaseInvoices.Post("/:id/attachment", purchasingHandler.UploadAttachment)

	// Dashboard
	dashboard := api.Group("/dashboard", adminOnly)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/summary", dashboardHandler.GetSummary)
	dashboard.Post("/refresh", dashboardHandler.Refresh)
}
