package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Series de numeración correlativa.
const (
	SeriesInvoice       = "FAC"
	SeriesPurchaseOrder = "OC"
	SeriesGoodsReceipt  = "REC"
)

// FormatCorrelative arma el número visible, ej: FormatCorrelative("FAC", 7) = "FAC-000007".
func FormatCorrelative(series string, n int64) string {
	return fmt.Sprintf("%s-%06d", series, n)
}

// Invoice cabecera de una factura de venta con la foto de los datos del cliente.
type Invoice struct {
	ID              string
	Number          string // FAC-NNNNNN
	Date            time.Time
	DocumentType    string
	DocumentNumber  string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
	Subtotal        decimal.Decimal
	DiscountTotal   decimal.Decimal
	TaxExempt       bool
	TaxTotal        decimal.Decimal
	Total           decimal.Decimal
	UserID          *string
	Notes           string
	Lines           []InvoiceLine
}

// InvoiceLine línea de factura con el precio unitario congelado al momento de la venta.
type InvoiceLine struct {
	ID        string
	InvoiceID string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// CustomerDisplay nombre del cliente según el tipo de documento.
func (i *Invoice) CustomerDisplay() string {
	switch i.DocumentType {
	case DocumentTypeRUC:
		return fmt.Sprintf("%s (RUC: %s)", i.CustomerName, i.DocumentNumber)
	case DocumentTypeCedula:
		return fmt.Sprintf("%s (CI: %s)", i.CustomerName, i.DocumentNumber)
	}
	if i.CustomerName == "" {
		return "Cliente sin identificar"
	}
	return i.CustomerName
}
