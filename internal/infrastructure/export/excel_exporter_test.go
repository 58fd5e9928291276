package export_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/ferreteria-api/internal/infrastructure/export"
)

func TestExcelExporter_Export(t *testing.T) {
	data, err := export.NewExcelExporter().Export("Stock bajo",
		[]string{"Código", "Producto", "Stock"},
		[][]any{
			{"MART-01", "Martillo", 2},
			{"", "Clavos 2\"", 0},
		})
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Stock bajo"}, f.GetSheetList())

	rows, err := f.GetRows("Stock bajo")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Código", "Producto", "Stock"}, rows[0])
	assert.Equal(t, []string{"MART-01", "Martillo", "2"}, rows[1])
	assert.Equal(t, "Clavos 2\"", rows[2][1])
}

func TestExcelExporter_EmptyRows(t *testing.T) {
	data, err := export.NewExcelExporter().Export("", []string{"A"}, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Hoja1")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
