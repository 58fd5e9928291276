package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMovementRequest body para POST /api/movements (ajuste manual de stock).
type CreateMovementRequest struct {
	ProductID   string `json:"product_id" validate:"required,uuid"`
	Type        string `json:"type" validate:"required,oneof=in out"`
	Quantity    int    `json:"quantity" validate:"required,min=1"`
	Description string `json:"description" validate:"max=500"`
}

// MovementResponse movimiento de stock.
type MovementResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	Type          string    `json:"type"`
	Quantity      int       `json:"quantity"`
	Description   string    `json:"description"`
	UserID        *string   `json:"user_id"`
	ReferenceType string    `json:"reference_type,omitempty"`
	ReferenceID   string    `json:"reference_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	// StockAfter stock resultante; solo en la respuesta de creación.
	StockAfter *int `json:"stock_after,omitempty"`
}

// MovementListQuery filtros de GET /api/movements.
type MovementListQuery struct {
	ProductID string `query:"product_id" validate:"omitempty,uuid"`
	Type      string `query:"type" validate:"omitempty,oneof=in out"`
	UserID    string `query:"user_id"`
	From      string `query:"from"`
	To        string `query:"to"`
	Search    string `query:"search"`
	OrderBy   string `query:"order_by" validate:"omitempty,oneof=created_at created_at_asc quantity"`
	PageRequest
}

// ── Recepción de mercadería ──────────────────────────────────────────────────

// CreateGoodsReceiptRequest body para POST /api/goods-receipts.
// Number es opcional; si va vacío se asigna REC-NNNNNN.
type CreateGoodsReceiptRequest struct {
	Number          string                    `json:"number" validate:"max=30"`
	PurchaseOrderID *string                   `json:"purchase_order_id" validate:"omitempty,uuid"`
	SupplierID      string                    `json:"supplier_id" validate:"required,uuid"`
	DeliveryNote    string                    `json:"delivery_note" validate:"max=50"`
	Notes           string                    `json:"notes"`
	Lines           []GoodsReceiptLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// GoodsReceiptLineRequest línea recibida. UnitCost > 0 actualiza costo y precio del producto.
type GoodsReceiptLineRequest struct {
	ProductID  string           `json:"product_id" validate:"required,uuid"`
	Quantity   int              `json:"quantity" validate:"required,min=1"`
	UnitCost   *decimal.Decimal `json:"unit_cost"`
	Lot        string           `json:"lot" validate:"max=50"`
	ExpiryDate *Date            `json:"expiry_date"`
}

// GoodsReceiptResponse recepción con sus líneas.
type GoodsReceiptResponse struct {
	ID              string                     `json:"id"`
	Number          string                     `json:"number"`
	PurchaseOrderID *string                    `json:"purchase_order_id"`
	SupplierID      string                     `json:"supplier_id"`
	DeliveryNote    string                     `json:"delivery_note"`
	Notes           string                     `json:"notes"`
	UserID          *string                    `json:"user_id"`
	ReceivedAt      time.Time                  `json:"received_at"`
	Lines           []GoodsReceiptLineResponse `json:"lines,omitempty"`
}

// GoodsReceiptLineResponse línea de recepción.
type GoodsReceiptLineResponse struct {
	ID         string           `json:"id"`
	ProductID  string           `json:"product_id"`
	Quantity   int              `json:"quantity"`
	UnitCost   *decimal.Decimal `json:"unit_cost"`
	Lot        string           `json:"lot"`
	ExpiryDate *Date            `json:"expiry_date"`
}

// ReplenishmentItem sugerencia de compra para un producto bajo mínimo.
type ReplenishmentItem struct {
	ProductID     string          `json:"product_id"`
	Code          *string         `json:"code"`
	Name          string          `json:"name"`
	Stock         int             `json:"stock"`
	MinStock      int             `json:"min_stock"`
	SuggestedQty  int             `json:"suggested_qty"`
	SupplierID    *string         `json:"supplier_id"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
}
