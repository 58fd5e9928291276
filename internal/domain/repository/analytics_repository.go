package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TopProductResult fila del ranking de productos más vendidos.
type TopProductResult struct {
	ProductID    string
	Code         string
	ProductName  string
	QuantitySold int
	TotalRevenue decimal.Decimal
	TotalCost    decimal.Decimal // qty * products.cost
}

// AnalyticsRepository consultas de solo lectura para el tablero.
type AnalyticsRepository interface {
	// GetSalesMetrics ingresos (suma de subtotales de línea) y costo (qty × costo actual) en [start, end).
	// Devuelve cero si no hay ventas en el período.
	GetSalesMetrics(ctx context.Context, start, end time.Time) (revenue, cost decimal.Decimal, err error)

	// GetTopProducts los `limit` productos con mayor ingreso en el período.
	GetTopProducts(ctx context.Context, start, end time.Time, limit int) ([]TopProductResult, error)
}
