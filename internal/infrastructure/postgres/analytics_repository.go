package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el tablero.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetSalesMetrics suma ingresos y costo de mercadería vendida del período.
func (r *AnalyticsRepo) GetSalesMetrics(ctx context.Context, start, end time.Time) (decimal.Decimal, decimal.Decimal, error) {
	const query = `
	SELECT
	    COALESCE(SUM(l.subtotal), 0)           AS revenue,
	    COALESCE(SUM(l.quantity * p.cost), 0)  AS cost
	FROM invoices i
	JOIN invoice_lines l ON l.invoice_id = i.id
	JOIN products      p ON p.id         = l.product_id
	WHERE i.date >= $1 AND i.date < $2`

	var revenue, cost decimal.Decimal
	if err := r.q.QueryRow(ctx, query, start, end).Scan(&revenue, &cost); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("analytics.GetSalesMetrics: %w", err)
	}
	return revenue, cost, nil
}

// GetTopProducts ranking por ingreso descendente.
func (r *AnalyticsRepo) GetTopProducts(ctx context.Context, start, end time.Time, limit int) ([]repository.TopProductResult, error) {
	const query = `
	SELECT
	    p.id,
	    COALESCE(p.code, '')              AS code,
	    p.name,
	    SUM(l.quantity)                   AS quantity_sold,
	    SUM(l.subtotal)                   AS total_revenue,
	    SUM(l.quantity * p.cost)          AS total_cost
	FROM invoices i
	JOIN invoice_lines l ON l.invoice_id = i.id
	JOIN products      p ON p.id         = l.product_id
	WHERE i.date >= $1 AND i.date < $2
	GROUP BY p.id, p.code, p.name
	ORDER BY total_revenue DESC
	LIMIT $3`

	rows, err := r.q.Query(ctx, query, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetTopProducts: %w", err)
	}
	defer rows.Close()

	var results []repository.TopProductResult
	for rows.Next() {
		var row repository.TopProductResult
		if err := rows.Scan(
			&row.ProductID,
			&row.Code,
			&row.ProductName,
			&row.QuantitySold,
			&row.TotalRevenue,
			&row.TotalCost,
		); err != nil {
			return nil, fmt.Errorf("analytics.GetTopProducts scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
