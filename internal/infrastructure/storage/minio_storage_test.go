package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ferreteria-api/internal/infrastructure/storage"
)

func TestObjectURL(t *testing.T) {
	assert.Equal(t,
		"http://localhost:9000/adjuntos/purchase-invoices/abc/factura%20001.pdf",
		storage.ObjectURL("http://localhost:9000/", "adjuntos", "purchase-invoices/abc/factura 001.pdf"))
	assert.Equal(t,
		"https://cdn.example.com/b/k.png",
		storage.ObjectURL("https://cdn.example.com", "b", "k.png"))
}
