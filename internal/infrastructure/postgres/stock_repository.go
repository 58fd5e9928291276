package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/ferreteria-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
// Es el único código que ejecuta UPDATE sobre products.stock.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Increase suma qty al stock del producto.
func (r *StockRepo) Increase(ctx context.Context, productID string, qty int) (int, bool, error) {
	const q = `
		UPDATE products SET stock = stock + $2, updated_at = now()
		WHERE id = $1
		RETURNING stock`
	var stock int
	if err := r.q.QueryRow(ctx, q, productID, qty).Scan(&stock); err != nil {
		if isNoRows(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("increase stock: %w", err)
	}
	return stock, true, nil
}

// DecreaseIfAvailable decremento condicional: solo afecta la fila si alcanza el stock.
func (r *StockRepo) DecreaseIfAvailable(ctx context.Context, productID string, qty int) (int, bool, error) {
	const q = `
		UPDATE products SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2
		RETURNING stock`
	var stock int
	if err := r.q.QueryRow(ctx, q, productID, qty).Scan(&stock); err != nil {
		if isNoRows(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("decrease stock: %w", err)
	}
	return stock, true, nil
}
