package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/domain"
)

// Estados de una factura de compra. "overdue" nunca se guarda: se deriva al leer.
const (
	PurchaseInvoiceStatusPending   = "pending"
	PurchaseInvoiceStatusPaid      = "paid"
	PurchaseInvoiceStatusOverdue   = "overdue"
	PurchaseInvoiceStatusCancelled = "cancelled"
)

// Tipos de factura de compra.
const (
	PurchaseInvoiceTypeCash   = "cash"
	PurchaseInvoiceTypeCredit = "credit"
)

// DueSoonDays ventana de "próximas a vencer".
const DueSoonDays = 7

// PurchaseInvoice factura recibida de un proveedor.
type PurchaseInvoice struct {
	ID              string
	Number          string // número del proveedor, único
	SupplierID      string
	PurchaseOrderID *string
	IssueDate       time.Time
	DueDate         *time.Time
	Type            string
	Status          string
	Subtotal        decimal.Decimal
	Discount        decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
	Stamp           string // timbrado
	PaymentTerms    string
	Notes           string
	AttachmentURL   string
	UserID          *string
	ReceivedAt      time.Time
	UpdatedAt       time.Time
	Lines           []PurchaseInvoiceLine
}

// PurchaseInvoiceLine renglón de la factura de compra; admite cantidades fraccionarias.
type PurchaseInvoiceLine struct {
	ID          string
	InvoiceID   string
	ProductID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
	Lot         string
	LotExpiry   *time.Time
}

// Recompute subtotal = cantidad × precio unitario.
func (l *PurchaseInvoiceLine) Recompute() {
	l.Subtotal = l.Quantity.Mul(l.UnitPrice)
}

// LinesSubtotal suma los subtotales de las líneas (recalculándolos).
func (p *PurchaseInvoice) LinesSubtotal() decimal.Decimal {
	sum := decimal.Zero
	for i := range p.Lines {
		p.Lines[i].Recompute()
		sum = sum.Add(p.Lines[i].Subtotal)
	}
	return sum
}

// Recompute aplica las reglas de guardado: subtotal de cada línea y total = subtotal - descuento + impuestos.
func (p *PurchaseInvoice) Recompute() {
	for i := range p.Lines {
		p.Lines[i].Recompute()
	}
	p.Total = p.Subtotal.Sub(p.Discount).Add(p.Tax)
}

// IsOverdue vencida: tiene vencimiento, sigue pendiente y hoy es posterior al vencimiento.
func (p *PurchaseInvoice) IsOverdue(today time.Time) bool {
	if p.DueDate == nil || p.Status != PurchaseInvoiceStatusPending {
		return false
	}
	return dateOnly(today).After(dateOnly(*p.DueDate))
}

// DaysToDue días hasta el vencimiento (negativo si ya venció); nil sin vencimiento o si no está pendiente.
func (p *PurchaseInvoice) DaysToDue(today time.Time) *int {
	if p.DueDate == nil || p.Status != PurchaseInvoiceStatusPending {
		return nil
	}
	days := int(dateOnly(*p.DueDate).Sub(dateOnly(today)).Hours() / 24)
	return &days
}

// IsDueSoon pendiente con vencimiento entre hoy y hoy + DueSoonDays.
func (p *PurchaseInvoice) IsDueSoon(today time.Time) bool {
	d := p.DaysToDue(today)
	return d != nil && *d >= 0 && *d <= DueSoonDays
}

// EffectiveStatus estado para mostrar: "overdue" si está vencida.
func (p *PurchaseInvoice) EffectiveStatus(today time.Time) string {
	if p.IsOverdue(today) {
		return PurchaseInvoiceStatusOverdue
	}
	return p.Status
}

// MarkPaid pending -> paid. Rechaza facturas pagadas o canceladas.
func (p *PurchaseInvoice) MarkPaid() error {
	switch p.Status {
	case PurchaseInvoiceStatusPaid:
		return invalidTransition(p.Status, PurchaseInvoiceStatusPaid, "La factura ya está marcada como pagada")
	case PurchaseInvoiceStatusCancelled:
		return invalidTransition(p.Status, PurchaseInvoiceStatusPaid, "No se puede pagar una factura cancelada")
	}
	p.Status = PurchaseInvoiceStatusPaid
	return nil
}

// Cancel pending -> cancelled. Rechaza facturas pagadas o ya canceladas.
func (p *PurchaseInvoice) Cancel() error {
	switch p.Status {
	case PurchaseInvoiceStatusPaid:
		return invalidTransition(p.Status, PurchaseInvoiceStatusCancelled, "No se puede cancelar una factura ya pagada")
	case PurchaseInvoiceStatusCancelled:
		return invalidTransition(p.Status, PurchaseInvoiceStatusCancelled, "La factura ya está cancelada")
	}
	p.Status = PurchaseInvoiceStatusCancelled
	return nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func invalidTransition(from, to, reason string) error {
	return &domain.InvalidStateTransitionError{Resource: "factura de compra", From: from, To: to, Reason: reason}
}
