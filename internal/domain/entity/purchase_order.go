package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra.
const (
	POStatusPending   = "pending"
	POStatusPartial   = "partial"
	POStatusComplete  = "complete"
	POStatusCancelled = "cancelled"
)

var poTransitions = map[string][]string{
	POStatusPending: {POStatusPartial, POStatusComplete, POStatusCancelled},
	POStatusPartial: {POStatusComplete, POStatusCancelled},
}

// IsValidPOStatus indica si s es un estado de orden conocido.
func IsValidPOStatus(s string) bool {
	switch s {
	case POStatusPending, POStatusPartial, POStatusComplete, POStatusCancelled:
		return true
	}
	return false
}

// PurchaseOrder orden de compra a un proveedor.
type PurchaseOrder struct {
	ID             string
	Number         string
	SupplierID     string
	OrderDate      time.Time
	ExpectedDate   time.Time
	Status         string
	EstimatedTotal decimal.Decimal
	Notes          string
	UserID         *string
	Lines          []PurchaseOrderLine
}

// PurchaseOrderLine renglón de la orden. ReceivedQty solo crece (lo actualizan las recepciones).
type PurchaseOrderLine struct {
	ID          string
	OrderID     string
	ProductID   string
	OrderedQty  int
	ReceivedQty int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// PendingQty cantidad aún no recibida (negativa si se recibió de más).
func (l *PurchaseOrderLine) PendingQty() int {
	return l.OrderedQty - l.ReceivedQty
}

// IsComplete indica si ya se recibió lo pedido.
func (l *PurchaseOrderLine) IsComplete() bool {
	return l.ReceivedQty >= l.OrderedQty
}

// CanTransitionTo indica si la orden puede pasar al estado to.
func (o *PurchaseOrder) CanTransitionTo(to string) bool {
	for _, s := range poTransitions[o.Status] {
		if s == to {
			return true
		}
	}
	return false
}

// StatusFromLines calcula el estado según lo recibido. Una orden cancelada no cambia.
func (o *PurchaseOrder) StatusFromLines() string {
	if o.Status == POStatusCancelled || len(o.Lines) == 0 {
		return o.Status
	}
	complete, touched := true, false
	for i := range o.Lines {
		if !o.Lines[i].IsComplete() {
			complete = false
		}
		if o.Lines[i].ReceivedQty > 0 {
			touched = true
		}
	}
	switch {
	case complete:
		return POStatusComplete
	case touched:
		return POStatusPartial
	}
	return POStatusPending
}
