package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseOrderRequest body para POST /api/purchase-orders.
type CreatePurchaseOrderRequest struct {
	Number       string                     `json:"number" validate:"max=20"`
	SupplierID   string                     `json:"supplier_id" validate:"required,uuid"`
	OrderDate    *Date                      `json:"order_date"`
	ExpectedDate *Date                      `json:"expected_date"`
	Notes        string                     `json:"notes"`
	Lines        []PurchaseOrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// PurchaseOrderLineRequest renglón de la orden.
type PurchaseOrderLineRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// UpdatePurchaseOrderStatusRequest body para PUT/PATCH /api/purchase-orders/:id/status.
type UpdatePurchaseOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending partial complete cancelled"`
}

// PurchaseOrderListQuery filtros de GET /api/purchase-orders.
type PurchaseOrderListQuery struct {
	SupplierID string `query:"supplier_id" validate:"omitempty,uuid"`
	Status     string `query:"status" validate:"omitempty,oneof=pending partial complete cancelled"`
	PageRequest
}

// PurchaseOrderResponse orden con sus líneas.
type PurchaseOrderResponse struct {
	ID             string                      `json:"id"`
	Number         string                      `json:"number"`
	SupplierID     string                      `json:"supplier_id"`
	OrderDate      Date                        `json:"order_date"`
	ExpectedDate   Date                        `json:"expected_date"`
	Status         string                      `json:"status"`
	EstimatedTotal decimal.Decimal             `json:"estimated_total"`
	Notes          string                      `json:"notes"`
	UserID         *string                     `json:"user_id"`
	Lines          []PurchaseOrderLineResponse `json:"lines,omitempty"`
}

// PurchaseOrderLineResponse renglón con cantidades pendientes.
type PurchaseOrderLineResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	OrderedQty  int             `json:"ordered_qty"`
	ReceivedQty int             `json:"received_qty"`
	PendingQty  int             `json:"pending_qty"`
	IsComplete  bool            `json:"is_complete"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// ── Facturas de compra ───────────────────────────────────────────────────────

// PurchaseInvoiceRequest body para crear o actualizar una factura de compra.
// Subtotal nil o cero se calcula sumando las líneas. En la actualización, Lines nil conserva las existentes.
type PurchaseInvoiceRequest struct {
	Number          string                       `json:"number" validate:"required,max=50"`
	SupplierID      string                       `json:"supplier_id" validate:"required,uuid"`
	PurchaseOrderID *string                      `json:"purchase_order_id" validate:"omitempty,uuid"`
	IssueDate       Date                         `json:"issue_date"`
	DueDate         *Date                        `json:"due_date"`
	Type            string                       `json:"type" validate:"required,oneof=cash credit"`
	Subtotal        *decimal.Decimal             `json:"subtotal"`
	Discount        decimal.Decimal              `json:"discount"`
	Tax             decimal.Decimal              `json:"tax"`
	Stamp           string                       `json:"stamp" validate:"max=30"`
	PaymentTerms    string                       `json:"payment_terms" validate:"max=100"`
	Notes           string                       `json:"notes"`
	Lines           []PurchaseInvoiceLineRequest `json:"lines" validate:"omitempty,dive"`
}

// PurchaseInvoiceLineRequest renglón de la factura de compra.
type PurchaseInvoiceLineRequest struct {
	ProductID   string          `json:"product_id" validate:"omitempty,uuid"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Lot         string          `json:"lot" validate:"max=50"`
	LotExpiry   *Date           `json:"lot_expiry"`
}

// PurchaseInvoiceListQuery filtros de GET /api/purchase-invoices.
type PurchaseInvoiceListQuery struct {
	SupplierID string `query:"supplier_id" validate:"omitempty,uuid"`
	Status     string `query:"status" validate:"omitempty,oneof=pending paid overdue cancelled"`
	Type       string `query:"type" validate:"omitempty,oneof=cash credit"`
	IssueFrom  string `query:"issue_from"`
	IssueTo    string `query:"issue_to"`
	DueFrom    string `query:"due_from"`
	DueTo      string `query:"due_to"`
	Overdue    bool   `query:"overdue"`
	DueSoon    bool   `query:"due_soon"`
	Search     string `query:"search"`
	PageRequest
}

// PurchaseInvoiceResponse factura de compra con sus derivados de vencimiento.
type PurchaseInvoiceResponse struct {
	ID              string                        `json:"id"`
	Number          string                        `json:"number"`
	SupplierID      string                        `json:"supplier_id"`
	PurchaseOrderID *string                       `json:"purchase_order_id"`
	IssueDate       Date                          `json:"issue_date"`
	DueDate         *Date                         `json:"due_date"`
	Type            string                        `json:"type"`
	Status          string                        `json:"status"`
	Subtotal        decimal.Decimal               `json:"subtotal"`
	Discount        decimal.Decimal               `json:"discount"`
	Tax             decimal.Decimal               `json:"tax"`
	Total           decimal.Decimal               `json:"total"`
	Stamp           string                        `json:"stamp"`
	PaymentTerms    string                        `json:"payment_terms"`
	Notes           string                        `json:"notes"`
	AttachmentURL   string                        `json:"attachment_url,omitempty"`
	IsOverdue       bool                          `json:"is_overdue"`
	DaysToDue       *int                          `json:"days_to_due"`
	ReceivedAt      time.Time                     `json:"received_at"`
	UpdatedAt       time.Time                     `json:"updated_at"`
	Lines           []PurchaseInvoiceLineResponse `json:"lines,omitempty"`
}

// PurchaseInvoiceLineResponse renglón de la factura de compra.
type PurchaseInvoiceLineResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Lot         string          `json:"lot,omitempty"`
	LotExpiry   *Date           `json:"lot_expiry,omitempty"`
}

// PurchaseInvoiceStatsResponse respuesta de GET /api/purchase-invoices/statistics.
type PurchaseInvoiceStatsResponse struct {
	Total         int             `json:"total"`
	Pending       int             `json:"pending"`
	Paid          int             `json:"paid"`
	Cancelled     int             `json:"cancelled"`
	Overdue       int             `json:"overdue"`
	DueSoon       int             `json:"due_soon"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
}
