package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// Si Price no viene se calcula como costo × 1.30. CategoryName se busca o crea (en mayúsculas)
// cuando no se envía CategoryID; sin ninguno de los dos se usa "SIN CATEGORÍA".
type CreateProductRequest struct {
	Code              *string          `json:"code" validate:"omitempty,max=50"`
	Name              string           `json:"name" validate:"required,min=1,max=200"`
	Description       string           `json:"description"`
	CompatibleModels  string           `json:"compatible_models"`
	Location          string           `json:"location" validate:"max=100"`
	CategoryID        string           `json:"category_id" validate:"omitempty,uuid"`
	CategoryName      string           `json:"category_name" validate:"max=100"`
	SubcategoryID     *string          `json:"subcategory_id" validate:"omitempty,uuid"`
	Brand             string           `json:"brand" validate:"max=100"`
	UnitMeasure       string           `json:"unit_measure" validate:"max=30"`
	Cost              decimal.Decimal  `json:"cost"`
	Price             *decimal.Decimal `json:"price"`
	MinStock          int              `json:"min_stock" validate:"min=0"`
	InitialStock      int              `json:"initial_stock" validate:"min=0"`
	PrimarySupplierID *string          `json:"primary_supplier_id" validate:"omitempty,uuid"`
	Active            *bool            `json:"active"`
}

// UpdateProductRequest entrada para actualizar un producto. El stock no se modifica por aquí.
type UpdateProductRequest struct {
	Code              *string          `json:"code" validate:"omitempty,max=50"`
	Name              *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description       *string          `json:"description"`
	CompatibleModels  *string          `json:"compatible_models"`
	Location          *string          `json:"location" validate:"omitempty,max=100"`
	CategoryID        *string          `json:"category_id" validate:"omitempty,uuid"`
	CategoryName      *string          `json:"category_name" validate:"omitempty,max=100"`
	SubcategoryID     *string          `json:"subcategory_id" validate:"omitempty,uuid"`
	Brand             *string          `json:"brand" validate:"omitempty,max=100"`
	UnitMeasure       *string          `json:"unit_measure" validate:"omitempty,max=30"`
	Cost              *decimal.Decimal `json:"cost"`
	Price             *decimal.Decimal `json:"price"`
	MinStock          *int             `json:"min_stock" validate:"omitempty,min=0"`
	PrimarySupplierID *string          `json:"primary_supplier_id" validate:"omitempty,uuid"`
	Active            *bool            `json:"active"`
}

// QuickProductRequest alta rápida desde la pantalla de facturación o recepción.
type QuickProductRequest struct {
	Code         *string         `json:"code" validate:"omitempty,max=50"`
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	CategoryName string          `json:"category_name" validate:"max=100"`
	Brand        string          `json:"brand" validate:"max=100"`
	Cost         decimal.Decimal `json:"cost"`
	MinStock     int             `json:"min_stock" validate:"min=0"`
	InitialStock int             `json:"initial_stock" validate:"min=0"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                string          `json:"id"`
	Code              *string         `json:"code"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	CompatibleModels  string          `json:"compatible_models"`
	Location          string          `json:"location"`
	CategoryID        string          `json:"category_id"`
	SubcategoryID     *string         `json:"subcategory_id"`
	Brand             string          `json:"brand"`
	UnitMeasure       string          `json:"unit_measure"`
	Stock             int             `json:"stock"`
	MinStock          int             `json:"min_stock"`
	Cost              decimal.Decimal `json:"cost"`
	Price             decimal.Decimal `json:"price"`
	PrimarySupplierID *string         `json:"primary_supplier_id"`
	Active            bool            `json:"active"`
	BelowMinimum      bool            `json:"below_minimum"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ProductListQuery filtros de GET /api/products.
type ProductListQuery struct {
	Search     string `query:"search"`
	CategoryID string `query:"category_id" validate:"omitempty,uuid"`
	OnlyActive bool   `query:"only_active"`
	PageRequest
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ProductDropdownItem opción del select de productos.
type ProductDropdownItem struct {
	ID    string          `json:"id"`
	Code  string          `json:"code"`
	Name  string          `json:"name"`
	Cost  decimal.Decimal `json:"cost"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

// LowStockItem producto en o por debajo del stock mínimo.
type LowStockItem struct {
	ID       string  `json:"id"`
	Code     *string `json:"code"`
	Name     string  `json:"name"`
	Stock    int     `json:"stock"`
	MinStock int     `json:"min_stock"`
	Missing  int     `json:"missing"` // unidades para volver al mínimo
}

// ── Categorías ───────────────────────────────────────────────────────────────

// CategoryRequest alta o modificación de categoría.
type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// CategoryResponse categoría.
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// SubcategoryRequest alta o modificación de subcategoría.
type SubcategoryRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=100"`
	CategoryID string `json:"category_id" validate:"required,uuid"`
}

// SubcategoryResponse subcategoría.
type SubcategoryResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CategoryID string    `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// ── Proveedores ──────────────────────────────────────────────────────────────

// SupplierRequest alta o modificación de proveedor.
type SupplierRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	TaxID   string `json:"tax_id" validate:"max=30"`
	Phone   string `json:"phone" validate:"max=30"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
	Contact string `json:"contact" validate:"max=150"`
	Active  *bool  `json:"active"`
}

// SupplierResponse proveedor.
type SupplierResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Contact   string    `json:"contact"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// SupplierDropdownItem opción del select de proveedores (incluye RUC).
type SupplierDropdownItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	TaxID string `json:"tax_id"`
}

// ProductSupplierRequest relación producto-proveedor.
type ProductSupplierRequest struct {
	ProductID     string          `json:"product_id" validate:"required,uuid"`
	SupplierID    string          `json:"supplier_id" validate:"required,uuid"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	IsPrimary     bool            `json:"is_primary"`
	LeadTimeDays  int             `json:"lead_time_days" validate:"min=0"`
	Active        *bool           `json:"active"`
}

// ProductSupplierResponse relación producto-proveedor.
type ProductSupplierResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	SupplierID    string          `json:"supplier_id"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	IsPrimary     bool            `json:"is_primary"`
	LeadTimeDays  int             `json:"lead_time_days"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
}
