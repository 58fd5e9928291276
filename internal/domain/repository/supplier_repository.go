package repository

import (
	"context"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para proveedores y su relación con productos.
type SupplierRepository interface {
	Create(ctx context.Context, s *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	List(ctx context.Context, search string, onlyActive bool) ([]*entity.Supplier, error)
	Update(ctx context.Context, s *entity.Supplier) error
	Delete(ctx context.Context, id string) error

	CreateProductSupplier(ctx context.Context, ps *entity.ProductSupplier) error
	GetProductSupplier(ctx context.Context, id string) (*entity.ProductSupplier, error)
	ListProductSuppliers(ctx context.Context, productID, supplierID string) ([]*entity.ProductSupplier, error)
	UpdateProductSupplier(ctx context.Context, ps *entity.ProductSupplier) error
	DeleteProductSupplier(ctx context.Context, id string) error
	// ClearPrimary desmarca como principal a todos los proveedores del producto salvo exceptID.
	ClearPrimary(ctx context.Context, productID, exceptID string) error
}
