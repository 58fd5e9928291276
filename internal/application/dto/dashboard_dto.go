package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	// Ventas del día actual
	TodaySales    decimal.Decimal `json:"today_sales"`
	TodayMargin   decimal.Decimal `json:"today_margin"`
	TodayInvoices int             `json:"today_invoices"`

	// Ventas del mes en curso (día 1 – hoy)
	MonthlySales  decimal.Decimal `json:"monthly_sales"`
	MonthlyMargin decimal.Decimal `json:"monthly_margin"`

	// Top 5 productos por ingreso del mes
	TopProducts []TopProductDTO `json:"top_products"`

	// Stock bajo mínimo
	LowStockCount int            `json:"low_stock_count"`
	LowStockItems []LowStockItem `json:"low_stock_items"` // primeros N

	// Cuentas a pagar
	Payables PayablesDTO `json:"payables"`

	DateLabel   string    `json:"date_label"` // ej: "Octubre 2026"
	GeneratedAt time.Time `json:"generated_at"`
}

// TopProductDTO resumen de un producto para el widget del tablero.
type TopProductDTO struct {
	ProductID        string          `json:"product_id"`
	Code             string          `json:"code"`
	ProductName      string          `json:"product_name"`
	QuantitySold     int             `json:"quantity_sold"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	MarginPercentage decimal.Decimal `json:"margin_percentage"` // (revenue - cost) / revenue * 100
}

// PayablesDTO facturas de compra vencidas y próximas a vencer.
type PayablesDTO struct {
	OverdueCount  int             `json:"overdue_count"`
	OverdueAmount decimal.Decimal `json:"overdue_amount"`
	DueSoonCount  int             `json:"due_soon_count"`
	DueSoonAmount decimal.Decimal `json:"due_soon_amount"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
}
