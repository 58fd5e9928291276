package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
)

// PurchaseInvoiceFilter filtros del listado de facturas de compra.
type PurchaseInvoiceFilter struct {
	SupplierID string
	Status     string // "overdue" se resuelve sobre pending + due_date < Today
	Type       string
	IssueFrom  *time.Time
	IssueTo    *time.Time
	DueFrom    *time.Time
	DueTo      *time.Time
	Overdue    bool
	DueSoon    bool // pendientes que vencen entre Today y Today + DueSoonDays
	Search     string
	Today      time.Time
	ListParams
}

// PurchaseInvoiceStats agregados para el tablero de cuentas a pagar.
type PurchaseInvoiceStats struct {
	Total         int
	Pending       int
	Paid          int
	Cancelled     int
	Overdue       int
	DueSoon       int
	PendingAmount decimal.Decimal
	PaidAmount    decimal.Decimal
	OverdueAmount decimal.Decimal
	DueSoonAmount decimal.Decimal
}

// PurchaseInvoiceRepository define el puerto de persistencia para facturas de compra.
type PurchaseInvoiceRepository interface {
	// Create inserta cabecera y líneas.
	Create(ctx context.Context, inv *entity.PurchaseInvoice) error
	// Update reemplaza la cabecera y, si replaceLines, todas las líneas.
	Update(ctx context.Context, inv *entity.PurchaseInvoice, replaceLines bool) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseInvoice, error)
	// GetForUpdate lee la factura bloqueando su fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseInvoice, error)
	List(ctx context.Context, f PurchaseInvoiceFilter) ([]*entity.PurchaseInvoice, error)
	UpdateStatus(ctx context.Context, id, status string) error
	SetAttachment(ctx context.Context, id, url string) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, today time.Time) (*PurchaseInvoiceStats, error)
}
