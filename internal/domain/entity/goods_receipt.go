package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoodsReceipt recepción de mercadería, opcionalmente contra una orden de compra.
type GoodsReceipt struct {
	ID              string
	Number          string
	PurchaseOrderID *string
	SupplierID      string
	DeliveryNote    string // número de remito del proveedor
	Notes           string
	UserID          *string
	ReceivedAt      time.Time
	Lines           []GoodsReceiptLine
}

// GoodsReceiptLine renglón recibido. UnitCost es el costo facturado por el proveedor, si vino.
type GoodsReceiptLine struct {
	ID         string
	ReceiptID  string
	ProductID  string
	Quantity   int
	UnitCost   *decimal.Decimal
	Lot        string
	ExpiryDate *time.Time
}

// HasUnitCost indica si la línea trae un costo que debe actualizar el producto.
func (l *GoodsReceiptLine) HasUnitCost() bool {
	return l.UnitCost != nil && l.UnitCost.GreaterThan(decimal.Zero)
}
