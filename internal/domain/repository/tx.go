package repository

import "context"

// Tx agrupa los repositorios atados a una misma transacción de BD.
// Todo lo que se escribe a través de ellos se confirma o se descarta junto.
type Tx interface {
	Products() ProductRepository
	Stock() StockRepository
	Movements() StockMovementRepository
	Categories() CategoryRepository
	Suppliers() SupplierRepository
	Customers() CustomerRepository
	Invoices() InvoiceRepository
	Counters() CounterRepository
	PurchaseOrders() PurchaseOrderRepository
	GoodsReceipts() GoodsReceiptRepository
	PurchaseInvoices() PurchaseInvoiceRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback en cualquier otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx Tx) error) error
}

// ListParams paginación simple por limit/offset.
type ListParams struct {
	Limit  int
	Offset int
}

// Normalize aplica límites por defecto (50) y máximo (500).
func (p ListParams) Normalize() ListParams {
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Limit > 500 {
		p.Limit = 500
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
