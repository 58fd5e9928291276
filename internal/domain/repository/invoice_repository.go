package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/domain/entity"
)

// InvoiceFilter filtros del listado de facturas de venta.
type InvoiceFilter struct {
	From   *time.Time
	To     *time.Time
	Search string // número, nombre o documento del cliente
	ListParams
}

// InvoiceRepository define el puerto de persistencia para facturas de venta y sus líneas.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *entity.Invoice) error
	CreateLine(ctx context.Context, line *entity.InvoiceLine) error
	// GetByID devuelve la cabecera con sus líneas.
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	List(ctx context.Context, f InvoiceFilter) ([]*entity.Invoice, error)
	// SalesBetween cantidad y monto total de facturas emitidas en [from, to).
	SalesBetween(ctx context.Context, from, to time.Time) (count int, total decimal.Decimal, err error)
}

// CounterRepository numeración correlativa por serie (FAC, OC, REC).
type CounterRepository interface {
	// Next reserva el siguiente valor de la serie. La fila del contador queda bloqueada hasta
	// el fin de la transacción, por lo que dos transacciones concurrentes nunca obtienen el mismo valor.
	Next(ctx context.Context, series string) (int64, error)
}
