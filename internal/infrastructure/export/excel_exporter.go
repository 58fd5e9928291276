// Package export genera planillas XLSX para descargas del back office.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/ferreteria-api/internal/application/ports"
)

var _ ports.SpreadsheetExporter = (*ExcelExporter)(nil)

// ExcelExporter implementa ports.SpreadsheetExporter con excelize.
type ExcelExporter struct{}

// NewExcelExporter construye el exportador.
func NewExcelExporter() *ExcelExporter { return &ExcelExporter{} }

// Export arma un libro con una sola hoja: encabezados en negrita en la fila 1 y los datos desde la fila 2.
func (e *ExcelExporter) Export(sheet string, headers []string, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Hoja1"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("xlsx: nombre de hoja: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("xlsx: encabezado %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("xlsx: estilo %s: %w", cell, err)
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		width := float64(len([]rune(h)) + 4)
		if width < 12 {
			width = 12
		}
		_ = f.SetColWidth(sheet, col, col, width)
	}

	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("xlsx: celda %s: %w", cell, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
