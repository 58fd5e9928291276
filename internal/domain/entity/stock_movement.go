package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeIn  = "in"  // entrada
	MovementTypeOut = "out" // salida
)

// Tipos de documento que originan un movimiento.
const (
	ReferenceManual       = "manual"
	ReferenceInvoice      = "invoice"
	ReferenceGoodsReceipt = "goods_receipt"
	ReferenceInitialStock = "initial_stock"
)

// StockMovement entrada inmutable del libro de movimientos.
// La suma de cantidades con signo, en orden de creación, reproduce el stock del producto.
type StockMovement struct {
	ID            string
	ProductID     string
	Type          string // in, out
	Quantity      int    // siempre positiva; el signo lo da Type
	Description   string
	UserID        *string
	ReferenceType string
	ReferenceID   string
	CreatedAt     time.Time
}

// IsValidMovementType indica si t es un tipo de movimiento conocido.
func IsValidMovementType(t string) bool {
	return t == MovementTypeIn || t == MovementTypeOut
}

// SignedQuantity devuelve la cantidad con signo (+ entrada, - salida).
func (m *StockMovement) SignedQuantity() int {
	if m.Type == MovementTypeOut {
		return -m.Quantity
	}
	return m.Quantity
}
