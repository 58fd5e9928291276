package pdf

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ferreteria-api/internal/application/dto"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":        "0",
		"999":      "999",
		"25000":    "25.000",
		"1000000":  "1.000.000",
		"1045.5":   "1.045,50",
		"-1234.56": "-1.234,56",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestGenerateInvoicePDF(t *testing.T) {
	g := NewMarotoPDFGenerator(StoreInfo{Name: "Ferretería Central", TaxID: "80012345-6"})
	data := dto.InvoicePrintData{
		Number:         "FAC-000001",
		Date:           "19/10/2026",
		Time:           "10:30:00",
		DocumentType:   "ruc",
		DocumentNumber: "80012345-6",
		CustomerName:   "Comercial Sur",
		Lines: []dto.InvoicePrintLineData{
			{ProductCode: "MART-01", ProductName: "Martillo", Brand: "Tramontina", Quantity: 2,
				UnitPrice: decimal.NewFromInt(500), Subtotal: decimal.NewFromInt(1000)},
		},
		Subtotal:      decimal.NewFromInt(1000),
		DiscountTotal: decimal.Zero,
		TaxTotal:      decimal.NewFromInt(100),
		Total:         decimal.NewFromInt(1100),
		Seller:        "caja1",
	}

	out, err := g.GenerateInvoicePDF(context.Background(), data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
