// Package pdf genera la factura de venta imprimible.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del negocio + RUC │  N° Factura + Fecha     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  NEGOCIO: Dirección / Tel                                   │
//	│  CLIENTE: Nombre + documento + contacto                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Código | Descripción | P.Unit | Subtotal     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Descuento / IVA / TOTAL                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR de verificación + vendedor + observaciones      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appbilling "github.com/jhoicas/ferreteria-api/internal/application/billing"
	"github.com/jhoicas/ferreteria-api/internal/application/dto"
)

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// StoreInfo datos del negocio impresos en el encabezado.
type StoreInfo struct {
	Name    string
	TaxID   string
	Address string
	Phone   string
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	store StoreInfo
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator(store StoreInfo) *MarotoPDFGenerator {
	if store.Name == "" {
		store.Name = "Ferretería"
	}
	return &MarotoPDFGenerator{store: store}
}

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, data dto.InvoicePrintData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+data.Number, true).
		WithAuthor(g.store.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data, g.store))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(storeRow(g.store))
	m.AddRows(customerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(data.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(data))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(data))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre + RUC (izq) y N° Factura + fecha y hora (der).
func headerRow(data dto.InvoicePrintData, store StoreInfo) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(store.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("RUC: "+nonEmpty(store.TaxID, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("FACTURA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(data.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+data.Date+" "+data.Time, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func storeRow(store StoreInfo) core.Row {
	return row.New(8).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Dirección: %s   |   Tel: %s",
				nonEmpty(store.Address, "—"),
				nonEmpty(store.Phone, "—"),
			), props.Text{Size: 8, Top: 2, Color: colorGray}),
		),
	)
}

// customerRow: datos del cliente tal como se guardaron en la factura.
func customerRow(data dto.InvoicePrintData) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(data.CustomerName, "Consumidor final"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("%s   |   Email: %s   |   Tel: %s",
				documentLabel(data.DocumentType, data.DocumentNumber),
				nonEmpty(data.CustomerEmail, "—"),
				nonEmpty(data.CustomerPhone, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de detalles.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Código", 2, align.Left),
		h("Descripción", 4, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableDetailRows: una fila por línea de detalle.
func tableDetailRows(lines []dto.InvoicePrintLineData) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		desc := l.ProductName
		if l.Brand != "" {
			desc += " - " + l.Brand
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", l.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				nonEmpty(l.ProductCode, "—"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(4).Add(text.New(
				desc,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				formatMoney(l.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				formatMoney(l.Subtotal),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(data dto.InvoicePrintData) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := func(s string, right float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: right, Top: 19,
		})
	}

	taxLabel := "IVA 10%:"
	if data.TaxExempt {
		taxLabel = "IVA (exento):"
	}
	return row.New(28).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 1),
			label("Descuento:", 7),
			label(taxLabel, 13),
			grand("TOTAL:", 2),
		),
		col.New(3).Add(
			value(formatMoney(data.Subtotal), 1),
			value(formatMoney(data.DiscountTotal), 7),
			value(formatMoney(data.TaxTotal), 13),
			grand(formatMoney(data.Total), 1),
		),
	)
}

// footerRow: QR con número y total para verificación rápida, vendedor y observaciones.
func footerRow(data dto.InvoicePrintData) core.Row {
	qr := fmt.Sprintf("%s|%s|%s", data.Number, data.Date, data.Total.StringFixed(2))
	notes := "Gracias por su compra."
	if strings.TrimSpace(data.Notes) != "" {
		notes = "Obs.: " + data.Notes
	}
	return row.New(35).Add(
		col.New(3).Add(code.NewQr(qr, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Vendedor: "+nonEmpty(data.Seller, "Sistema"), props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New(notes, props.Text{
				Size: 8, Top: 12, Left: 3, Color: colorGray,
			}),
			text.New("Documento interno. No válido como comprobante fiscal.", props.Text{
				Style: fontstyle.Italic, Size: 7, Top: 24, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func documentLabel(docType, number string) string {
	switch docType {
	case "ruc":
		return "RUC: " + number
	case "cedula":
		return "CI: " + number
	}
	return "Sin documento"
}

// formatMoney formatea con puntos de miles y coma decimal; omite los decimales si son cero.
// Ej: 25000 → "25.000", 1045.5 → "1.045,50"
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	out := groupThousands(intPart)
	if frac != "00" {
		out += "," + frac
	}
	if d.IsNegative() {
		out = "-" + out
	}
	return out
}

// groupThousands inserta puntos de miles en un string numérico sin signo.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
