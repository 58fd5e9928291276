package ports

import (
	"context"
	"io"
)

// FileStorage define el puerto de salida para guardar archivos (adjuntos de facturas de compra).
type FileStorage interface {
	// Upload guarda el contenido bajo key y devuelve la URL pública o firmada para descargarlo.
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (url string, err error)
}

// SpreadsheetExporter genera planillas XLSX a partir de listados.
type SpreadsheetExporter interface {
	// Export arma un libro con una hoja: encabezados y filas ya formateadas.
	Export(sheet string, headers []string, rows [][]any) ([]byte, error)
}
