package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un artículo de la ferretería.
// Stock solo cambia a través del libro de movimientos (inventory.Ledger); nunca se asigna directamente.
type Product struct {
	ID                string
	Code              *string // opcional, único cuando existe
	Name              string
	Description       string
	CompatibleModels  string // modelos compatibles separados por coma
	Location          string // ubicación física en el depósito
	CategoryID        string
	SubcategoryID     *string
	Brand             string
	UnitMeasure       string
	Stock             int
	MinStock          int
	Cost              decimal.Decimal // precio de costo
	Price             decimal.Decimal // precio de venta
	PrimarySupplierID *string
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsBelowMinimum indica si el stock llegó al mínimo recomendado.
func (p *Product) IsBelowMinimum() bool {
	return p.Stock <= p.MinStock
}

// CodeOrEmpty devuelve el código o "" si no tiene.
func (p *Product) CodeOrEmpty() string {
	if p.Code == nil {
		return ""
	}
	return *p.Code
}
