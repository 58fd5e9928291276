package billing

import (
	"context"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
)

// InvoicePDFGenerator genera la representación imprimible de una factura de venta.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, data dto.InvoicePrintData) ([]byte, error)
}

// PhoneNormalizer lleva un teléfono a formato E.164. ok=false si no se pudo interpretar.
type PhoneNormalizer interface {
	Normalize(raw string) (e164 string, ok bool)
}
