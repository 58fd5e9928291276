package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest body para POST /api/invoices.
// DocumentType vacío equivale a "none" (consumidor final).
type CreateInvoiceRequest struct {
	DocumentType    string               `json:"document_type" validate:"omitempty,oneof=none cedula ruc"`
	DocumentNumber  string               `json:"document_number" validate:"max=30"`
	CustomerName    string               `json:"customer_name" validate:"max=200"`
	CustomerEmail   string               `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone   string               `json:"customer_phone" validate:"max=30"`
	CustomerAddress string               `json:"customer_address"`
	Discount        decimal.Decimal      `json:"discount_total"`
	TaxExempt       bool                 `json:"tax_exempt"`
	Notes           string               `json:"notes"`
	Lines           []InvoiceLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// InvoiceLineRequest línea de factura. Sin UnitPrice se usa el precio de venta del producto.
type InvoiceLineRequest struct {
	ProductID string           `json:"product_id" validate:"required,uuid"`
	Quantity  int              `json:"quantity" validate:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// InvoiceListQuery filtros de GET /api/invoices.
type InvoiceListQuery struct {
	From   string `query:"from"`
	To     string `query:"to"`
	Search string `query:"search"`
	PageRequest
}

// InvoiceResponse factura con detalle para GET /api/invoices/:id.
type InvoiceResponse struct {
	ID              string                `json:"id"`
	Number          string                `json:"number"`
	Date            time.Time             `json:"date"`
	DocumentType    string                `json:"document_type"`
	DocumentNumber  string                `json:"document_number"`
	CustomerName    string                `json:"customer_name"`
	CustomerDisplay string                `json:"customer_display"` // nombre con documento, para listados
	CustomerEmail   string                `json:"customer_email,omitempty"`
	CustomerPhone   string                `json:"customer_phone,omitempty"`
	CustomerAddress string                `json:"customer_address,omitempty"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	DiscountTotal   decimal.Decimal       `json:"discount_total"`
	TaxExempt       bool                  `json:"tax_exempt"`
	TaxTotal        decimal.Decimal       `json:"tax_total"`
	Total           decimal.Decimal       `json:"total"`
	UserID          *string               `json:"user_id"`
	Notes           string                `json:"notes,omitempty"`
	Lines           []InvoiceLineResponse `json:"lines,omitempty"`
}

// InvoiceLineResponse línea de detalle en la respuesta.
type InvoiceLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// InvoicePrintData datos completos para imprimir una factura (GET /api/invoices/:id/print-data).
type InvoicePrintData struct {
	Number          string                 `json:"number"`
	Date            string                 `json:"date"` // dd/mm/aaaa
	Time            string                 `json:"time"` // HH:MM:SS
	DocumentType    string                 `json:"document_type"`
	DocumentNumber  string                 `json:"document_number"`
	CustomerName    string                 `json:"customer_name"`
	CustomerEmail   string                 `json:"customer_email"`
	CustomerPhone   string                 `json:"customer_phone"`
	CustomerAddress string                 `json:"customer_address"`
	Lines           []InvoicePrintLineData `json:"lines"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
	DiscountTotal   decimal.Decimal        `json:"discount_total"`
	TaxExempt       bool                   `json:"tax_exempt"`
	TaxTotal        decimal.Decimal        `json:"tax_total"`
	Total           decimal.Decimal        `json:"total"`
	Seller          string                 `json:"seller"`
	Notes           string                 `json:"notes"`
}

// InvoicePrintLineData línea con datos del producto para impresión.
type InvoicePrintLineData struct {
	ProductCode  string          `json:"product_code"`
	ProductName  string          `json:"product_name"`
	CategoryName string          `json:"category_name"`
	Brand        string          `json:"brand"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// ── Clientes ─────────────────────────────────────────────────────────────────

// CustomerRequest body para crear o actualizar un cliente.
type CustomerRequest struct {
	DocumentType   string `json:"document_type" validate:"omitempty,oneof=none cedula ruc"`
	DocumentNumber string `json:"document_number" validate:"max=30"`
	Name           string `json:"name" validate:"required,min=1,max=200"`
	Email          string `json:"email" validate:"omitempty,email"`
	Phone          string `json:"phone" validate:"max=30"`
	Address        string `json:"address"`
	Active         *bool  `json:"active"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID                   string          `json:"id"`
	DocumentType         string          `json:"document_type"`
	DocumentNumber       *string         `json:"document_number"`
	Name                 string          `json:"name"`
	Email                string          `json:"email,omitempty"`
	Phone                string          `json:"phone,omitempty"`
	Address              string          `json:"address,omitempty"`
	Active               bool            `json:"active"`
	TotalPurchases       int             `json:"total_purchases"`
	TotalPurchasedAmount decimal.Decimal `json:"total_purchased_amount"`
	CreatedAt            time.Time       `json:"created_at"`
}

// CustomerLookupResponse respuesta de GET /api/customers/by-document.
type CustomerLookupResponse struct {
	Found    bool              `json:"found"`
	Customer *CustomerResponse `json:"customer"`
}
