package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
)

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	Search     string // nombre, código, marca o modelos compatibles
	CategoryID string
	OnlyActive bool
	ListParams
}

// ProductDropdownItem fila liviana para selects del front.
type ProductDropdownItem struct {
	ID    string
	Code  string
	Name  string
	Cost  decimal.Decimal
	Price decimal.Decimal
	Stock int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Ninguna operación de este puerto modifica la columna stock: eso es exclusivo de StockRepository.
type ProductRepository interface {
	// Create inserta el producto con stock 0; el stock inicial se registra como movimiento.
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// GetForUpdate lee el producto bloqueando su fila hasta el fin de la transacción (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// UpdateCosting actualiza costo y precio de venta (recepciones de mercadería).
	UpdateCosting(ctx context.Context, id string, cost, price decimal.Decimal) error
	List(ctx context.Context, f ProductFilter) ([]*entity.Product, error)
	Dropdown(ctx context.Context) ([]ProductDropdownItem, error)
	// BelowMinimum productos activos con stock <= stock mínimo, ordenados por nombre.
	BelowMinimum(ctx context.Context) ([]*entity.Product, error)
	// Delete falla con domain.ErrConflict si el producto está referenciado por facturas.
	Delete(ctx context.Context, id string) error
}
