package repository

import (
	"context"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
)

// PurchaseOrderFilter filtros del listado de órdenes de compra.
type PurchaseOrderFilter struct {
	SupplierID string
	Status     string
	ListParams
}

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra.
type PurchaseOrderRepository interface {
	// Create inserta cabecera y líneas.
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	// GetByID devuelve la orden con sus líneas.
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	List(ctx context.Context, f PurchaseOrderFilter) ([]*entity.PurchaseOrder, error)
	UpdateStatus(ctx context.Context, id, status string) error
	// AddReceived suma qty a la cantidad recibida de la línea (orden, producto).
	// found=false si la orden no tiene línea para ese producto.
	AddReceived(ctx context.Context, orderID, productID string, qty int) (found bool, err error)
}

// GoodsReceiptRepository define el puerto de persistencia para recepciones de mercadería.
type GoodsReceiptRepository interface {
	Create(ctx context.Context, r *entity.GoodsReceipt) error
	CreateLine(ctx context.Context, l *entity.GoodsReceiptLine) error
	GetByID(ctx context.Context, id string) (*entity.GoodsReceipt, error)
	List(ctx context.Context, supplierID, purchaseOrderID string, p ListParams) ([]*entity.GoodsReceipt, error)
}
